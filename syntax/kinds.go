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

// Package syntax defines the Razor syntax tree: leaf [Span]s holding runs of
// symbols, composite [Block]s grouping them, and the [Tree] that indexes a
// finished parse for navigation.
//
// Nodes are immutable. They are assembled with [SpanBuilder] and
// [BlockBuilder], which freeze into nodes with Build.
package syntax

import (
	"fmt"
	"strings"
)

// SpanKind classifies the text of a [Span].
type SpanKind byte

const (
	Transition SpanKind = iota
	MetaCode
	Comment
	Code
	Markup
)

// String implements [fmt.Stringer].
func (k SpanKind) String() string {
	switch k {
	case Transition:
		return "Transition"
	case MetaCode:
		return "MetaCode"
	case Comment:
		return "Comment"
	case Code:
		return "Code"
	case Markup:
		return "Markup"
	default:
		return fmt.Sprintf("syntax.SpanKind(%d)", int(k))
	}
}

// BlockType is the semantic type of a [Block].
type BlockType byte

const (
	MarkupBlock BlockType = iota
	StatementBlock
	ExpressionBlock
	DirectiveBlock
	CommentBlock
	FunctionsBlock
	SectionBlock
	TemplateBlock
	TagBlock
	TagHelperBlock
)

// String implements [fmt.Stringer].
func (t BlockType) String() string {
	switch t {
	case MarkupBlock:
		return "Markup"
	case StatementBlock:
		return "Statement"
	case ExpressionBlock:
		return "Expression"
	case DirectiveBlock:
		return "Directive"
	case CommentBlock:
		return "Comment"
	case FunctionsBlock:
		return "Functions"
	case SectionBlock:
		return "Section"
	case TemplateBlock:
		return "Template"
	case TagBlock:
		return "Tag"
	case TagHelperBlock:
		return "TagHelper"
	default:
		return fmt.Sprintf("syntax.BlockType(%d)", int(t))
	}
}

// AcceptedCharacters describes which characters a span may absorb when the
// document is edited at its end.
type AcceptedCharacters byte

const (
	AcceptsNone          AcceptedCharacters = 0
	AcceptsNewLine       AcceptedCharacters = 1 << 0
	AcceptsWhitespace    AcceptedCharacters = 1 << 1
	AcceptsNonWhitespace AcceptedCharacters = 1 << 2

	AcceptsAllWhitespace    = AcceptsNewLine | AcceptsWhitespace
	AcceptsAnyExceptNewLine = AcceptsWhitespace | AcceptsNonWhitespace
	AcceptsAny              = AcceptsAllWhitespace | AcceptsNonWhitespace
)

// Has returns whether all of flags are set.
func (a AcceptedCharacters) Has(flags AcceptedCharacters) bool {
	return a&flags == flags
}

// String implements [fmt.Stringer].
func (a AcceptedCharacters) String() string {
	switch a {
	case AcceptsNone:
		return "None"
	case AcceptsAny:
		return "Any"
	case AcceptsAllWhitespace:
		return "AllWhiteSpace"
	case AcceptsAnyExceptNewLine:
		return "AnyExceptNewline"
	}
	var parts []string
	if a.Has(AcceptsNewLine) {
		parts = append(parts, "NewLine")
	}
	if a.Has(AcceptsWhitespace) {
		parts = append(parts, "WhiteSpace")
	}
	if a.Has(AcceptsNonWhitespace) {
		parts = append(parts, "NonWhiteSpace")
	}
	return strings.Join(parts, ", ")
}
