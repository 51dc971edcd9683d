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

package report

import (
	"fmt"

	"github.com/bufbuild/razor/source"
)

// Tags for every diagnostic the parser produces.
const (
	TagMissingEndTag                  Tag = "missing-end-tag"
	TagUnexpectedEndTag               Tag = "unexpected-end-tag"
	TagUnfinishedTag                  Tag = "unfinished-tag"
	TagOuterTagMissingName            Tag = "outer-tag-missing-name"
	TagTextTagCannotContainAttributes Tag = "text-tag-cannot-contain-attributes"
	TagMarkupBlockMustStartWithTag    Tag = "markup-block-must-start-with-tag"

	TagDirectiveMustHaveValue           Tag = "directive-must-have-value"
	TagIncompleteQuotesAroundDirective  Tag = "incomplete-quotes-around-directive"
	TagUnexpectedEOFAfterDirective      Tag = "unexpected-eof-after-directive"
	TagInheritsMustBeFollowedByTypeName Tag = "inherits-must-be-followed-by-type-name"
	TagHelperDirectiveNotAvailable      Tag = "helper-directive-not-available"

	TagUnterminatedStringLiteral Tag = "unterminated-string-literal"
	TagBlockCommentNotTerminated Tag = "block-comment-not-terminated"
	TagRazorCommentNotTerminated Tag = "razor-comment-not-terminated"

	TagExpectedEndOfBlockBeforeEOF    Tag = "expected-end-of-block-before-eof"
	TagExpectedCloseBracketBeforeEOF  Tag = "expected-close-bracket-before-eof"
	TagExpected                       Tag = "expected"
	TagSingleLineControlFlowStatement Tag = "single-line-control-flow-statement"

	TagInlineMarkupBlocksCannotBeNested Tag = "inline-markup-blocks-cannot-be-nested"
	TagSectionsCannotBeNested           Tag = "sections-cannot-be-nested"
	TagUnexpectedNestedCodeBlock        Tag = "unexpected-nested-code-block"
	TagNamespaceImportInCodeBlock       Tag = "namespace-import-in-code-block"

	TagUnexpectedCharacterAtStartOfCodeBlock  Tag = "unexpected-character-at-start-of-code-block"
	TagUnexpectedWhitespaceAtStartOfCodeBlock Tag = "unexpected-whitespace-at-start-of-code-block"
	TagUnexpectedEOFAtStartOfCodeBlock        Tag = "unexpected-eof-at-start-of-code-block"
	TagUnexpectedKeywordAfterAt               Tag = "unexpected-keyword-after-at"
	TagAtInCodeMustBeFollowedByIdentifier     Tag = "at-in-code-must-be-followed-by-identifier"
	TagReservedWord                           Tag = "reserved-word"
	TagUnexpectedCharacterAtSectionNameStart  Tag = "unexpected-character-at-section-name-start"

	TagInvalidTagHelperLookupText  Tag = "invalid-tag-helper-lookup-text"
	TagDuplicateTagHelperPrefix    Tag = "duplicate-tag-helper-prefix"
	TagInvalidTagHelperPrefix      Tag = "invalid-tag-helper-prefix"
	TagTagHelperMissingEndTag      Tag = "tag-helper-missing-end-tag"
	TagTagHelperInvalidNestedTag   Tag = "tag-helper-invalid-nested-tag"
	TagTagHelperCodeInAttribute    Tag = "tag-helper-code-in-attribute"
	TagTagHelperUnresolvedAssembly Tag = "tag-helper-unresolved-assembly"
)

// ErrMissingEndTag is a start tag that was never closed.
type ErrMissingEndTag struct {
	Name string
	At   source.Location // The start of the tag's name.
}

func (e ErrMissingEndTag) Error() string {
	return fmt.Sprintf("The %q element was not closed. All elements must be either self-closing or have a matching end tag.", e.Name)
}

func (e ErrMissingEndTag) Diagnose(d *Diagnostic) {
	diagnose(d, TagMissingEndTag, e, e.At, max(len(e.Name), 1))
}

// ErrUnexpectedEndTag is an end tag with no matching start tag.
type ErrUnexpectedEndTag struct {
	Name string
	At   source.Location
}

func (e ErrUnexpectedEndTag) Error() string {
	return fmt.Sprintf("Encountered end tag %q with no matching start tag. Are your start/end tags properly balanced?", e.Name)
}

func (e ErrUnexpectedEndTag) Diagnose(d *Diagnostic) {
	diagnose(d, TagUnexpectedEndTag, e, e.At, max(len(e.Name), 1))
}

// ErrUnfinishedTag is a tag that reached the end of the file before its
// closing '>'. Name is empty for a bare '<'.
type ErrUnfinishedTag struct {
	Name string
	At   source.Location
}

func (e ErrUnfinishedTag) Error() string {
	return fmt.Sprintf("End of file or an unexpected character was reached before the %q tag could be parsed. "+
		"Elements inside markup blocks must be complete. They must either be self-closing (\"<br />\") or have matching end tags (\"<p>Hello</p>\"). "+
		"If you intended to display a \"<\" character, use the \"&lt;\" HTML entity.", e.Name)
}

func (e ErrUnfinishedTag) Diagnose(d *Diagnostic) {
	diagnose(d, TagUnfinishedTag, e, e.At, max(len(e.Name), 1))
}

// ErrOuterTagMissingName is a markup block whose first tag has no name.
type ErrOuterTagMissingName struct {
	At source.Location
}

func (e ErrOuterTagMissingName) Error() string {
	return "Outer tag is missing a name. The first character of a markup block must be an HTML tag with a valid name."
}

func (e ErrOuterTagMissingName) Diagnose(d *Diagnostic) {
	diagnose(d, TagOuterTagMissingName, e, e.At, 1)
}

// ErrTextTagCannotContainAttributes is a <text> tag with attributes.
type ErrTextTagCannotContainAttributes struct {
	At source.Location
}

func (e ErrTextTagCannotContainAttributes) Error() string {
	return `"<text>" and "</text>" tags cannot contain attributes.`
}

func (e ErrTextTagCannotContainAttributes) Diagnose(d *Diagnostic) {
	diagnose(d, TagTextTagCannotContainAttributes, e, e.At, 4)
}

// ErrMarkupBlockMustStartWithTag is a markup block in code that does not
// begin with '<'.
type ErrMarkupBlockMustStartWithTag struct {
	At     source.Location
	Length int
}

func (e ErrMarkupBlockMustStartWithTag) Error() string {
	return `Markup in a code block must start with a tag and all start tags must be matched with end tags. ` +
		`Do not use unclosed tags like "<br>". Instead use self-closing tags like "<br/>".`
}

func (e ErrMarkupBlockMustStartWithTag) Diagnose(d *Diagnostic) {
	diagnose(d, TagMarkupBlockMustStartWithTag, e, e.At, max(e.Length, 1))
}

// ErrDirectiveMustHaveValue is a directive with an empty value.
type ErrDirectiveMustHaveValue struct {
	Directive string
	At        source.Location
	Length    int
}

func (e ErrDirectiveMustHaveValue) Error() string {
	return fmt.Sprintf("Directive '%s' must have a value.", e.Directive)
}

func (e ErrDirectiveMustHaveValue) Diagnose(d *Diagnostic) {
	diagnose(d, TagDirectiveMustHaveValue, e, e.At, e.Length)
}

// ErrIncompleteQuotesAroundDirective is a directive value with an opening
// quote but no closing one, or the other way around.
type ErrIncompleteQuotesAroundDirective struct {
	Directive string
	At        source.Location
	Length    int
}

func (e ErrIncompleteQuotesAroundDirective) Error() string {
	return fmt.Sprintf("Optional quote around the directive '%s' is missing the corresponding opening or closing quote.", e.Directive)
}

func (e ErrIncompleteQuotesAroundDirective) Diagnose(d *Diagnostic) {
	diagnose(d, TagIncompleteQuotesAroundDirective, e, e.At, e.Length)
}

// ErrUnexpectedEOFAfterDirective is a directive cut off by the end of the
// file.
type ErrUnexpectedEOFAfterDirective struct {
	Directive, Expected string
	At                  source.Location
}

func (e ErrUnexpectedEOFAfterDirective) Error() string {
	return fmt.Sprintf("Unexpected end of file following the '%s' directive. Expected '%s'.", e.Directive, e.Expected)
}

func (e ErrUnexpectedEOFAfterDirective) Diagnose(d *Diagnostic) {
	diagnose(d, TagUnexpectedEOFAfterDirective, e, e.At, 1)
}

// ErrInheritsMustBeFollowedByTypeName is an @inherits without a type.
type ErrInheritsMustBeFollowedByTypeName struct {
	At     source.Location
	Length int
}

func (e ErrInheritsMustBeFollowedByTypeName) Error() string {
	return "The 'inherits' keyword must be followed by a type name on the same line."
}

func (e ErrInheritsMustBeFollowedByTypeName) Diagnose(d *Diagnostic) {
	diagnose(d, TagInheritsMustBeFollowedByTypeName, e, e.At, e.Length)
}

// ErrHelperDirectiveNotAvailable is a use of the removed @helper directive.
type ErrHelperDirectiveNotAvailable struct {
	Directive string
	At        source.Location
}

func (e ErrHelperDirectiveNotAvailable) Error() string {
	return fmt.Sprintf("The %s directive is not supported.", e.Directive)
}

func (e ErrHelperDirectiveNotAvailable) Diagnose(d *Diagnostic) {
	diagnose(d, TagHelperDirectiveNotAvailable, e, e.At, len(e.Directive))
}

// ErrUnterminatedStringLiteral is a string or character literal that hits a
// newline or the end of the file before its closing quote. It is located at
// the opening quote.
type ErrUnterminatedStringLiteral struct {
	At source.Location
}

func (e ErrUnterminatedStringLiteral) Error() string {
	return `Unterminated string literal. Strings that start with a quotation mark (") must be terminated before the end of the line. ` +
		`However, strings that start with @ and a quotation mark (@") can span multiple lines.`
}

func (e ErrUnterminatedStringLiteral) Diagnose(d *Diagnostic) {
	diagnose(d, TagUnterminatedStringLiteral, e, e.At, 1)
}

// ErrBlockCommentNotTerminated is a /* comment with no closing */.
type ErrBlockCommentNotTerminated struct {
	At source.Location
}

func (e ErrBlockCommentNotTerminated) Error() string {
	return `End of file was reached before the end of the block comment. All comments started with "/*" sequence must be terminated with a matching "*/" sequence.`
}

func (e ErrBlockCommentNotTerminated) Diagnose(d *Diagnostic) {
	diagnose(d, TagBlockCommentNotTerminated, e, e.At, 1)
}

// ErrRazorCommentNotTerminated is a @* comment with no closing *@.
type ErrRazorCommentNotTerminated struct {
	At source.Location
}

func (e ErrRazorCommentNotTerminated) Error() string {
	return `Razor comment is not terminated. All Razor comments must be terminated with a "*@".`
}

func (e ErrRazorCommentNotTerminated) Diagnose(d *Diagnostic) {
	diagnose(d, TagRazorCommentNotTerminated, e, e.At, 2)
}

// ErrExpectedEndOfBlockBeforeEOF is a block that reached the end of the file
// before its closing delimiter.
type ErrExpectedEndOfBlockBeforeEOF struct {
	Block       string
	Close, Open string
	At          source.Location
	Length      int
}

func (e ErrExpectedEndOfBlockBeforeEOF) Error() string {
	return fmt.Sprintf("The %s block is missing a closing %q character. "+
		"Make sure you have a matching %q character for all the %q characters within this block, "+
		"and that none of the %q characters are being interpreted as markup.",
		e.Block, e.Close, e.Close, e.Open, e.Close)
}

func (e ErrExpectedEndOfBlockBeforeEOF) Diagnose(d *Diagnostic) {
	diagnose(d, TagExpectedEndOfBlockBeforeEOF, e, e.At, max(e.Length, 1))
}

// ErrExpectedCloseBracketBeforeEOF is an opening bracket that is never
// closed.
type ErrExpectedCloseBracketBeforeEOF struct {
	Open, Close string
	At          source.Location
}

func (e ErrExpectedCloseBracketBeforeEOF) Error() string {
	return fmt.Sprintf("An opening %q is missing the corresponding closing %q.", e.Open, e.Close)
}

func (e ErrExpectedCloseBracketBeforeEOF) Diagnose(d *Diagnostic) {
	diagnose(d, TagExpectedCloseBracketBeforeEOF, e, e.At, 1)
}

// ErrExpected is a missing piece of required punctuation.
type ErrExpected struct {
	Want string
	At   source.Location
}

func (e ErrExpected) Error() string {
	return fmt.Sprintf("Expected %q.", e.Want)
}

func (e ErrExpected) Diagnose(d *Diagnostic) {
	diagnose(d, TagExpected, e, e.At, 1)
}

// ErrSingleLineControlFlowStatement is a control flow statement whose body is
// not enclosed in braces.
type ErrSingleLineControlFlowStatement struct {
	Want, Got string
	At        source.Location
}

func (e ErrSingleLineControlFlowStatement) Error() string {
	return fmt.Sprintf("Expected a %q but found a %q. Block statements must be enclosed in \"{\" and \"}\". "+
		"You cannot use single-statement control-flow statements in CSHTML pages.", e.Want, e.Got)
}

func (e ErrSingleLineControlFlowStatement) Diagnose(d *Diagnostic) {
	diagnose(d, TagSingleLineControlFlowStatement, e, e.At, max(len(e.Got), 1))
}

// ErrInlineMarkupBlocksCannotBeNested is a template inside a template.
type ErrInlineMarkupBlocksCannotBeNested struct {
	At source.Location
}

func (e ErrInlineMarkupBlocksCannotBeNested) Error() string {
	return "Inline markup blocks (@<p>Content</p>) cannot be nested. Only one level of inline markup is allowed."
}

func (e ErrInlineMarkupBlocksCannotBeNested) Diagnose(d *Diagnostic) {
	diagnose(d, TagInlineMarkupBlocksCannotBeNested, e, e.At, 1)
}

// ErrSectionsCannotBeNested is a @section inside another.
type ErrSectionsCannotBeNested struct {
	At source.Location
}

func (e ErrSectionsCannotBeNested) Error() string {
	return `Section blocks ("@section Header { ... }") cannot be nested. Only one level of section blocks are allowed.`
}

func (e ErrSectionsCannotBeNested) Diagnose(d *Diagnostic) {
	diagnose(d, TagSectionsCannotBeNested, e, e.At, len("section"))
}

// ErrUnexpectedNestedCodeBlock is a "@{" inside a code block.
type ErrUnexpectedNestedCodeBlock struct {
	At source.Location
}

func (e ErrUnexpectedNestedCodeBlock) Error() string {
	return `Unexpected "{" after "@" character. Once inside the body of a code block (@if {}, @{}, etc.) you do not need to use "@{" to switch to code.`
}

func (e ErrUnexpectedNestedCodeBlock) Diagnose(d *Diagnostic) {
	diagnose(d, TagUnexpectedNestedCodeBlock, e, e.At, 1)
}

// ErrNamespaceImportInCodeBlock is a using directive inside a code block.
type ErrNamespaceImportInCodeBlock struct {
	At source.Location
}

func (e ErrNamespaceImportInCodeBlock) Error() string {
	return "The using keyword is reserved for namespace import and type alias directives only. " +
		"For the using statement in a code block, use the using keyword followed by a parenthesis."
}

func (e ErrNamespaceImportInCodeBlock) Diagnose(d *Diagnostic) {
	diagnose(d, TagNamespaceImportInCodeBlock, e, e.At, len("using"))
}

// ErrUnexpectedCharacterAtStartOfCodeBlock is a transition followed by
// something that cannot start code.
type ErrUnexpectedCharacterAtStartOfCodeBlock struct {
	Got string
	At  source.Location
}

func (e ErrUnexpectedCharacterAtStartOfCodeBlock) Error() string {
	return fmt.Sprintf("%q is not valid at the start of a code block. Only identifiers, keywords, comments, \"(\" and \"{\" are valid.", e.Got)
}

func (e ErrUnexpectedCharacterAtStartOfCodeBlock) Diagnose(d *Diagnostic) {
	diagnose(d, TagUnexpectedCharacterAtStartOfCodeBlock, e, e.At, max(len(e.Got), 1))
}

// ErrUnexpectedWhitespaceAtStartOfCodeBlock is a transition followed by
// whitespace.
type ErrUnexpectedWhitespaceAtStartOfCodeBlock struct {
	At source.Location
}

func (e ErrUnexpectedWhitespaceAtStartOfCodeBlock) Error() string {
	return `A space or line break was encountered after the "@" character. ` +
		`Only valid identifiers, keywords, comments, "(" and "{" are valid at the start of a code block and they must occur immediately following "@" with no space in between.`
}

func (e ErrUnexpectedWhitespaceAtStartOfCodeBlock) Diagnose(d *Diagnostic) {
	diagnose(d, TagUnexpectedWhitespaceAtStartOfCodeBlock, e, e.At, 1)
}

// ErrUnexpectedEOFAtStartOfCodeBlock is a transition at the end of the file.
type ErrUnexpectedEOFAtStartOfCodeBlock struct {
	At source.Location
}

func (e ErrUnexpectedEOFAtStartOfCodeBlock) Error() string {
	return `End-of-file was found after the "@" character. "@" must be followed by a valid code block. If you want to output an "@", escape it using the sequence: "@@"`
}

func (e ErrUnexpectedEOFAtStartOfCodeBlock) Diagnose(d *Diagnostic) {
	diagnose(d, TagUnexpectedEOFAtStartOfCodeBlock, e, e.At, 1)
}

// ErrUnexpectedKeywordAfterAt is a statement keyword prefixed with '@' while
// already in code.
type ErrUnexpectedKeywordAfterAt struct {
	Keyword string
	At      source.Location
}

func (e ErrUnexpectedKeywordAfterAt) Error() string {
	return fmt.Sprintf("Unexpected %q keyword after \"@\" character. Once inside code, you do not need to prefix constructs like %q with \"@\".", e.Keyword, e.Keyword)
}

func (e ErrUnexpectedKeywordAfterAt) Diagnose(d *Diagnostic) {
	diagnose(d, TagUnexpectedKeywordAfterAt, e, e.At, len(e.Keyword))
}

// ErrAtInCodeMustBeFollowedByIdentifier is a '@' in code that starts neither
// markup nor an expression.
type ErrAtInCodeMustBeFollowedByIdentifier struct {
	At source.Location
}

func (e ErrAtInCodeMustBeFollowedByIdentifier) Error() string {
	return `The "@" character must be followed by a ":", "(", or a C# identifier. If you intended to switch to markup, use an HTML start tag, for example: "@if (true) { <p>Hello</p> }"`
}

func (e ErrAtInCodeMustBeFollowedByIdentifier) Diagnose(d *Diagnostic) {
	diagnose(d, TagAtInCodeMustBeFollowedByIdentifier, e, e.At, 1)
}

// ErrReservedWord is a reserved word used as an implicit expression.
type ErrReservedWord struct {
	Word string
	At   source.Location
}

func (e ErrReservedWord) Error() string {
	return fmt.Sprintf("%q is a reserved word and cannot be used in implicit expressions. An explicit expression (\"@()\") must be used.", e.Word)
}

func (e ErrReservedWord) Diagnose(d *Diagnostic) {
	diagnose(d, TagReservedWord, e, e.At, len(e.Word))
}

// ErrUnexpectedCharacterAtSectionNameStart is a @section whose name is not an
// identifier.
type ErrUnexpectedCharacterAtSectionNameStart struct {
	Got string
	At  source.Location
}

func (e ErrUnexpectedCharacterAtSectionNameStart) Error() string {
	return fmt.Sprintf("Unexpected %s after section keyword. Section names must start with an \"_\" or alphabetic character, "+
		"and the remaining characters must be either \"_\" or alphanumeric.", e.Got)
}

func (e ErrUnexpectedCharacterAtSectionNameStart) Diagnose(d *Diagnostic) {
	diagnose(d, TagUnexpectedCharacterAtSectionNameStart, e, e.At, 1)
}

// ErrInvalidTagHelperLookupText is an @addTagHelper or @removeTagHelper whose
// value is not of the form "typeName, assemblyName".
type ErrInvalidTagHelperLookupText struct {
	Text   string
	At     source.Location
	Length int
}

func (e ErrInvalidTagHelperLookupText) Error() string {
	return fmt.Sprintf("Invalid tag helper directive look up text '%s'. The correct look up text format is: \"typeName, assemblyName\".", e.Text)
}

func (e ErrInvalidTagHelperLookupText) Diagnose(d *Diagnostic) {
	diagnose(d, TagInvalidTagHelperLookupText, e, e.At, max(e.Length, 1))
}

// ErrDuplicateTagHelperPrefix is a second @tagHelperPrefix directive.
type ErrDuplicateTagHelperPrefix struct {
	Directive string
	At        source.Location
	Length    int
}

func (e ErrDuplicateTagHelperPrefix) Error() string {
	return fmt.Sprintf("Multiple '%s' directives found, only one is allowed.", e.Directive)
}

func (e ErrDuplicateTagHelperPrefix) Diagnose(d *Diagnostic) {
	diagnose(d, TagDuplicateTagHelperPrefix, e, e.At, max(e.Length, 1))
}

// ErrInvalidTagHelperPrefix is a @tagHelperPrefix value containing a
// character that cannot appear in a tag name.
type ErrInvalidTagHelperPrefix struct {
	Prefix string
	Char   rune
	At     source.Location
	Length int
}

func (e ErrInvalidTagHelperPrefix) Error() string {
	return fmt.Sprintf("Invalid tag helper directive 'tagHelperPrefix' value. '%c' is not allowed in prefix '%s'.", e.Char, e.Prefix)
}

func (e ErrInvalidTagHelperPrefix) Diagnose(d *Diagnostic) {
	diagnose(d, TagInvalidTagHelperPrefix, e, e.At, max(e.Length, 1))
}

// ErrTagHelperUnresolvedAssembly is an @addTagHelper naming an assembly the
// resolver does not know about.
type ErrTagHelperUnresolvedAssembly struct {
	Assembly string
	At       source.Location
	Length   int
}

func (e ErrTagHelperUnresolvedAssembly) Error() string {
	return fmt.Sprintf("Cannot resolve tag helper assembly '%s'.", e.Assembly)
}

func (e ErrTagHelperUnresolvedAssembly) Diagnose(d *Diagnostic) {
	diagnose(d, TagTagHelperUnresolvedAssembly, e, e.At, max(e.Length, 1))
}

// ErrTagHelperMissingEndTag is a tag helper start tag that is never closed.
type ErrTagHelperMissingEndTag struct {
	Name string
	At   source.Location
}

func (e ErrTagHelperMissingEndTag) Error() string {
	return fmt.Sprintf("Found a malformed '%s' tag helper. Tag helpers must have a start and end tag or be self closing.", e.Name)
}

func (e ErrTagHelperMissingEndTag) Diagnose(d *Diagnostic) {
	diagnose(d, TagTagHelperMissingEndTag, e, e.At, max(len(e.Name), 1))
}

// ErrTagHelperInvalidNestedTag is a child tag that its parent tag helper does
// not allow.
type ErrTagHelperInvalidNestedTag struct {
	Name, Parent string
	Allowed      []string
	At           source.Location
}

func (e ErrTagHelperInvalidNestedTag) Error() string {
	return fmt.Sprintf("The <%s> tag is not allowed by parent <%s> tag helper. Only child tags with name(s) %q are allowed.", e.Name, e.Parent, e.Allowed)
}

func (e ErrTagHelperInvalidNestedTag) Diagnose(d *Diagnostic) {
	diagnose(d, TagTagHelperInvalidNestedTag, e, e.At, max(len(e.Name), 1))
}

// ErrTagHelperCodeInAttribute is a code block inside a tag helper attribute.
type ErrTagHelperCodeInAttribute struct {
	At     source.Location
	Length int
}

func (e ErrTagHelperCodeInAttribute) Error() string {
	return "Code blocks (e.g. @{var variable = 23;}) must not appear in non-string tag helper attribute values."
}

func (e ErrTagHelperCodeInAttribute) Diagnose(d *Diagnostic) {
	diagnose(d, TagTagHelperCodeInAttribute, e, e.At, max(e.Length, 1))
}

func diagnose(d *Diagnostic, tag Tag, err error, loc source.Location, length int) {
	d.With(tag, Message("%s", err.Error()), At(loc, length))
}
