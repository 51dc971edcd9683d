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

package syntax

import (
	"fmt"
	"strings"

	"github.com/bufbuild/razor/token"
)

// EditKind selects the policy used to decide whether an edit to a span can
// be applied without reparsing the document.
type EditKind byte

const (
	// Edits are always rejected.
	DefaultEdit EditKind = iota
	// Edits that keep an implicit expression an implicit expression are
	// accepted.
	ImplicitExpressionEdit
	// Edits are rejected, but a newline typed where a block is waiting for
	// its closing brace is flagged for auto-completion.
	AutoCompleteEdit
)

// String implements [fmt.Stringer].
func (k EditKind) String() string {
	switch k {
	case DefaultEdit:
		return "SpanEditHandler"
	case ImplicitExpressionEdit:
		return "ImplicitExpression"
	case AutoCompleteEdit:
		return "AutoComplete"
	default:
		return fmt.Sprintf("syntax.EditKind(%d)", int(k))
	}
}

// EditHandler is the incremental-edit policy attached to a [Span].
//
// It is a plain value; the editor package interprets it.
type EditHandler struct {
	Kind EditKind
	// The language the span's content is retokenized with.
	Language token.Language
	// Which characters the span may absorb at its end.
	Accepted AcceptedCharacters

	// For ImplicitExpressionEdit: whether a trailing '.' belongs to the
	// expression.
	AcceptTrailingDot bool

	// For AutoCompleteEdit: the text an editor should insert to complete
	// the block, if HasAutoComplete is set.
	AutoCompleteString string
	HasAutoComplete    bool
	// For AutoCompleteEdit: whether completion applies at the end of the
	// span rather than at the end of its first line.
	AutoCompleteAtEndOfSpan bool
}

// DefaultEditHandler returns the handler that rejects every edit.
func DefaultEditHandler(lang token.Language, accepted AcceptedCharacters) EditHandler {
	return EditHandler{Language: lang, Accepted: accepted}
}

// ImplicitExpressionEditHandler returns the handler for the code span of an
// implicit expression.
func ImplicitExpressionEditHandler(acceptTrailingDot bool) EditHandler {
	return EditHandler{
		Kind:              ImplicitExpressionEdit,
		Language:          token.Code,
		Accepted:          AcceptsNonWhitespace,
		AcceptTrailingDot: acceptTrailingDot,
	}
}

// AutoCompleteEditHandler returns the handler for the body of a code block.
func AutoCompleteEditHandler(accepted AcceptedCharacters, autoCompleteAtEndOfSpan bool) EditHandler {
	return EditHandler{
		Kind:                    AutoCompleteEdit,
		Language:                token.Code,
		Accepted:                accepted,
		AutoCompleteAtEndOfSpan: autoCompleteAtEndOfSpan,
	}
}

// WithAutoComplete returns a copy of this handler that offers s as the
// auto-completion text.
func (h EditHandler) WithAutoComplete(s string) EditHandler {
	h.AutoCompleteString = s
	h.HasAutoComplete = true
	return h
}

// String implements [fmt.Stringer].
func (h EditHandler) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s;Accepts:%s", h.Kind, h.Accepted)
	switch h.Kind {
	case ImplicitExpressionEdit:
		fmt.Fprintf(&b, ";AcceptTrailingDot:%t", h.AcceptTrailingDot)
	case AutoCompleteEdit:
		if h.HasAutoComplete {
			fmt.Fprintf(&b, ";AutoComplete:[%s]", h.AutoCompleteString)
		} else {
			b.WriteString(";AutoComplete:[<null>]")
		}
		if h.AutoCompleteAtEndOfSpan {
			b.WriteString(";AtEOL")
		}
	}
	return b.String()
}
