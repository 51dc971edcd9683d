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

package editor

import (
	"strings"
	"unicode/utf8"

	"github.com/bufbuild/razor/internal/tokenizer"
	"github.com/bufbuild/razor/parser"
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/syntax"
	"github.com/bufbuild/razor/token"
)

// OwnsChange returns whether span is the span responsible for change: the
// change starts inside it, and either ends inside it or ends at its end and
// the span accepts characters there.
func OwnsChange(span *syntax.Span, change source.TextChange) bool {
	start := span.Start().AbsoluteIndex
	end := start + span.Length()
	oldEnd := change.OldPosition + change.OldLength
	return change.OldPosition >= start &&
		(oldEnd < end || (oldEnd == end && span.EditHandler().Accepted != syntax.AcceptsNone))
}

// ApplyChange decides whether change can be applied to span without a full
// reparse, and if so returns the updated span.
//
// If force is set, the change is applied regardless of the span's handler.
// The returned span is nil when the result is [Rejected].
func ApplyChange(span *syntax.Span, change source.TextChange, force bool) (PartialParseResult, *syntax.Span) {
	change = change.Normalize()
	result := Accepted
	if !force {
		result = canAcceptChange(span, change)
	}
	if result.Has(Rejected) {
		return result, nil
	}
	return result, updateSpan(span, change)
}

// updateSpan retokenizes span's content with change applied.
func updateSpan(span *syntax.Span, change source.TextChange) *syntax.Span {
	content := change.Apply(span.Content(), span.Start().AbsoluteIndex)
	b := syntax.NewSpanBuilder(span)
	b.ClearSymbols()
	symbols, _ := tokenizer.Tokenize(span.EditHandler().Language, content, span.Start())
	for _, sym := range symbols {
		b.Accept(sym)
	}
	return b.Build()
}

func canAcceptChange(span *syntax.Span, change source.TextChange) PartialParseResult {
	switch span.EditHandler().Kind {
	case syntax.ImplicitExpressionEdit:
		return implicitExpression{span, span.EditHandler()}.canAccept(change)
	case syntax.AutoCompleteEdit:
		return autoComplete(span, change)
	default:
		return Rejected
	}
}

func autoComplete(span *syntax.Span, change source.TextChange) PartialParseResult {
	h := span.EditHandler()
	if ((h.AutoCompleteAtEndOfSpan && atEndOfSpan(span, change)) || atEndOfFirstLine(span, change)) &&
		change.IsInsert() && isNewline(change.NewText()) && h.HasAutoComplete {
		return Rejected | AutoCompleteBlock
	}
	return Rejected
}

// implicitExpression implements [syntax.ImplicitExpressionEdit].
type implicitExpression struct {
	span *syntax.Span
	syntax.EditHandler
}

func (e implicitExpression) canAccept(change source.TextChange) PartialParseResult {
	if e.Accepted == syntax.AcceptsAny {
		return Rejected
	}

	// Editors commit completions by inserting a '.' and then replacing the
	// partial identifier before it.
	if e.isDotlessCommit(change) {
		return e.handleDotlessCommit()
	}
	if e.isIdentifierReplacement(change) {
		return e.tryAccept(change, Accepted)
	}
	if atEndOfSpan(e.span, change) && change.IsReplace() ||
		change.IsReplace() && remainingIsWhitespace(e.span, change) {
		return e.handleReplacement(change)
	}

	offset := change.OldPosition - e.span.Start().AbsoluteIndex
	if offset <= 0 || e.span.Length() == 0 {
		return Rejected
	}
	prev, _ := utf8.DecodeLastRuneInString(e.span.Content()[:offset])

	switch {
	case change.IsInsert() && (atEndOfSpan(e.span, change) || remainingIsWhitespace(e.span, change)):
		return e.handleInsertion(prev, change)
	case change.IsInsert() && change.NewPosition > 0 && change.NewText() == ".":
		return e.handleInsertion(prev, change)
	case change.IsDelete() && (atEndOfSpan(e.span, change) || remainingIsWhitespace(e.span, change)):
		return e.handleDeletion(prev, change)
	}
	return Rejected
}

// isDotlessCommit matches '@DateT.' -> '@DateTime.' and the second dot of
// '@DateTime.' -> '@DateTime..'.
func (e implicitExpression) isDotlessCommit(change source.TextChange) bool {
	content := e.span.Content()
	if !strings.HasSuffix(content, ".") {
		return false
	}

	if !atEndOfSpan(e.span, change) &&
		change.NewPosition > 0 && change.NewLength > 0 &&
		tokenizer.IsIdentifier(change.NewText(), false) &&
		(change.OldLength == 0 || tokenizer.IsIdentifier(change.OldText(), false)) {
		return true
	}
	return change.NewLength == 1 && change.OldLength == 0 && change.NewText() == "."
}

func (e implicitExpression) handleDotlessCommit() PartialParseResult {
	if !e.AcceptTrailingDot && strings.HasSuffix(e.span.Content(), ".") {
		return Accepted | Provisional
	}
	return Accepted
}

// isIdentifierReplacement returns whether change replaces text within a
// single identifier symbol and leaves an identifier behind.
func (e implicitExpression) isIdentifierReplacement(change source.TextChange) bool {
	if !change.IsReplace() {
		return false
	}
	for _, sym := range e.span.Symbols() {
		start := sym.Start.AbsoluteIndex
		end := start + len(sym.Content)
		if end <= change.OldPosition {
			continue
		}
		if end < change.OldPosition+change.OldLength || sym.Kind != token.Identifier {
			return false
		}
		updated := change.Apply(sym.Content, start)
		symbols, _ := tokenizer.Tokenize(token.Code, updated, sym.Start)
		return len(symbols) == 1 && symbols[0].Kind == token.Identifier
	}
	return false
}

func (e implicitExpression) handleReplacement(change source.TextChange) PartialParseResult {
	offset := change.OldPosition - e.span.Start().AbsoluteIndex
	old := e.span.Content()[offset : offset+change.OldLength]
	if !endsWithDot(old) || !endsWithDot(change.NewText()) {
		return Rejected
	}
	if e.AcceptTrailingDot {
		return Accepted
	}
	return Accepted | Provisional
}

func (e implicitExpression) handleInsertion(prev rune, change source.TextChange) PartialParseResult {
	switch {
	case prev == '.':
		if tokenizer.IsIdentifier(change.NewText(), true) || change.NewText() == "." {
			return e.tryAccept(change, Accepted)
		}
	case tokenizer.IsIdentifierPart(prev) || prev == ')' || prev == ']':
		switch {
		case tokenizer.IsIdentifier(change.NewText(), false):
			return e.tryAccept(change, Accepted)
		case endsWithDot(change.NewText()) && e.AcceptTrailingDot:
			return Accepted
		case endsWithDot(change.NewText()):
			return Accepted | Provisional
		}
	}
	return Rejected
}

func (e implicitExpression) handleDeletion(prev rune, change source.TextChange) PartialParseResult {
	switch {
	case prev == '.':
		return e.tryAccept(change, Accepted|Provisional)
	case tokenizer.IsIdentifierPart(prev):
		return e.tryAccept(change, Accepted)
	}
	return Rejected
}

// tryAccept returns accept unless the change makes the span begin with a
// keyword, which would make it a different construct.
func (e implicitExpression) tryAccept(change source.TextChange, accept PartialParseResult) PartialParseResult {
	content := change.Apply(e.span.Content(), e.span.Start().AbsoluteIndex)
	if startsWithKeyword(content) {
		return Rejected | SpanContextChanged
	}
	return accept
}

func startsWithKeyword(content string) bool {
	end := strings.IndexFunc(content, func(r rune) bool { return !tokenizer.IsIdentifierPart(r) })
	if end < 0 {
		end = len(content)
	}
	return parser.IsKeyword(content[:end])
}

// endsWithDot returns whether text is identifier characters followed by a
// single '.'.
func endsWithDot(text string) bool {
	rest, ok := strings.CutSuffix(text, ".")
	return ok && strings.IndexFunc(rest, func(r rune) bool { return !tokenizer.IsIdentifierPart(r) }) < 0
}

func atEndOfSpan(span *syntax.Span, change source.TextChange) bool {
	return change.OldPosition+change.OldLength == span.Start().AbsoluteIndex+span.Length()
}

func atEndOfFirstLine(span *syntax.Span, change source.TextChange) bool {
	eol := strings.IndexAny(span.Content(), "\r\n")
	return eol < 0 || change.OldPosition-span.Start().AbsoluteIndex <= eol
}

func remainingIsWhitespace(span *syntax.Span, change source.TextChange) bool {
	offset := change.OldPosition - span.Start().AbsoluteIndex + change.OldLength
	if offset < 0 || offset > span.Length() {
		return false
	}
	return strings.TrimSpace(span.Content()[offset:]) == ""
}

func isNewline(text string) bool {
	switch text {
	case "\r", "\n", "\r\n", "\u0085", "\u2028", "\u2029":
		return true
	}
	return false
}
