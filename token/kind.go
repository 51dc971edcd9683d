// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package token defines the symbols produced by the Razor tokenizers.
//
// Both the code tokenizer and the markup tokenizer produce [Symbol]s; their
// [Kind]s share one enumeration. Kinds that both languages can produce, such
// as [Whitespace] and [Transition], have the same value in either language.
package token

import "fmt"

// Kind identifies what kind of symbol a particular [Symbol] is.
type Kind byte

const (
	Unknown Kind = iota

	// Kinds shared by both languages.
	Whitespace
	NewLine
	Transition             // @
	RazorCommentTransition // The @ of @* or *@.
	RazorCommentStar       // The * of @* or *@.
	RazorComment           // The body of a razor comment.
	QuestionMark           // ?
	LeftBracket            // [
	RightBracket           // ]
	Colon                  // :
	Equals                 // =
	Slash                  // /

	// Code kinds.
	Identifier
	Keyword
	IntegerLiteral
	RealLiteral
	CharacterLiteral
	StringLiteral
	Comment
	Arrow             // ->
	Minus             // -
	Decrement         // --
	MinusAssign       // -=
	NotEqual          // !=
	Not               // !
	Modulo            // %
	ModuloAssign      // %=
	And               // &
	AndAssign         // &=
	DoubleAnd         // &&
	LeftParen         // (
	RightParen        // )
	Star              // *
	MultiplyAssign    // *=
	Comma             // ,
	Dot               // .
	DivideAssign      // /=
	DoubleColon       // ::
	Semicolon         // ;
	NullCoalesce      // ??
	Xor               // ^
	XorAssign         // ^=
	LeftBrace         // {
	RightBrace        // }
	Or                // |
	OrAssign          // |=
	DoubleOr          // ||
	Tilde             // ~
	Plus              // +
	PlusAssign        // +=
	Increment         // ++
	LessThan          // <
	LessThanEqual     // <=
	LeftShift         // <<
	LeftShiftAssign   // <<=
	DoubleEquals      // ==
	LambdaArrow       // =>
	GreaterThan       // >
	GreaterThanEqual  // >=
	Hash              // #

	// Markup kinds.
	Text
	OpenAngle    // <
	CloseAngle   // >
	Bang         // !
	DoubleHyphen // --
	DoubleQuote  // "
	SingleQuote  // '

	kindCount
)

var kindNames = [...]string{
	Unknown:                "Unknown",
	Whitespace:             "Whitespace",
	NewLine:                "NewLine",
	Transition:             "Transition",
	RazorCommentTransition: "RazorCommentTransition",
	RazorCommentStar:       "RazorCommentStar",
	RazorComment:           "RazorComment",
	QuestionMark:           "QuestionMark",
	LeftBracket:            "LeftBracket",
	RightBracket:           "RightBracket",
	Colon:                  "Colon",
	Equals:                 "Equals",
	Slash:                  "Slash",
	Identifier:             "Identifier",
	Keyword:                "Keyword",
	IntegerLiteral:         "IntegerLiteral",
	RealLiteral:            "RealLiteral",
	CharacterLiteral:       "CharacterLiteral",
	StringLiteral:          "StringLiteral",
	Comment:                "Comment",
	Arrow:                  "Arrow",
	Minus:                  "Minus",
	Decrement:              "Decrement",
	MinusAssign:            "MinusAssign",
	NotEqual:               "NotEqual",
	Not:                    "Not",
	Modulo:                 "Modulo",
	ModuloAssign:           "ModuloAssign",
	And:                    "And",
	AndAssign:              "AndAssign",
	DoubleAnd:              "DoubleAnd",
	LeftParen:              "LeftParen",
	RightParen:             "RightParen",
	Star:                   "Star",
	MultiplyAssign:         "MultiplyAssign",
	Comma:                  "Comma",
	Dot:                    "Dot",
	DivideAssign:           "DivideAssign",
	DoubleColon:            "DoubleColon",
	Semicolon:              "Semicolon",
	NullCoalesce:           "NullCoalesce",
	Xor:                    "Xor",
	XorAssign:              "XorAssign",
	LeftBrace:              "LeftBrace",
	RightBrace:             "RightBrace",
	Or:                     "Or",
	OrAssign:               "OrAssign",
	DoubleOr:               "DoubleOr",
	Tilde:                  "Tilde",
	Plus:                   "Plus",
	PlusAssign:             "PlusAssign",
	Increment:              "Increment",
	LessThan:               "LessThan",
	LessThanEqual:          "LessThanEqual",
	LeftShift:              "LeftShift",
	LeftShiftAssign:        "LeftShiftAssign",
	DoubleEquals:           "DoubleEquals",
	LambdaArrow:            "LambdaArrow",
	GreaterThan:            "GreaterThan",
	GreaterThanEqual:       "GreaterThanEqual",
	Hash:                   "Hash",
	Text:                   "Text",
	OpenAngle:              "OpenAngle",
	CloseAngle:             "CloseAngle",
	Bang:                   "Bang",
	DoubleHyphen:           "DoubleHyphen",
	DoubleQuote:            "DoubleQuote",
	SingleQuote:            "SingleQuote",
}

// String implements [fmt.Stringer].
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("token.Kind(%d)", int(k))
}

// IsWhitespace returns whether this kind is intra-line whitespace or a newline.
func (k Kind) IsWhitespace() bool {
	return k == Whitespace || k == NewLine
}

// IsRazorComment returns whether this kind is part of a razor comment.
func (k Kind) IsRazorComment() bool {
	return k == RazorCommentTransition || k == RazorCommentStar || k == RazorComment
}

// Language is the language a tokenizer understands.
type Language byte

const (
	Markup Language = iota
	Code
)

// String implements [fmt.Stringer].
func (l Language) String() string {
	switch l {
	case Markup:
		return "Markup"
	case Code:
		return "Code"
	default:
		return fmt.Sprintf("token.Language(%d)", int(l))
	}
}
