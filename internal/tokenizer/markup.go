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

package tokenizer

import (
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/token"
)

func markupData(t *Tokenizer) stateFn {
	if t.atEOF() {
		return nil
	}

	c := t.current()
	switch {
	case IsWhitespace(c):
		t.takeUntil(func(r rune) bool { return !IsWhitespace(r) })
		t.emit(token.Whitespace)
		return markupData
	case source.IsNewline(c):
		t.takeNewline()
		t.emit(token.NewLine)
		return markupData
	case c == '@':
		t.takeCurrent()
		switch t.current() {
		case '*':
			t.emit(token.RazorCommentTransition)
			return afterRazorCommentTransition
		case '@':
			// An escaped transition: two transition symbols in a row.
			t.emit(token.Transition)
			return markupSecondTransition
		}
		t.emit(token.Transition)
		return markupData
	case atMarkupSymbol(t):
		markupSymbol(t)
		return markupData
	}
	return markupText
}

func markupSecondTransition(t *Tokenizer) stateFn {
	t.single(token.Transition)
	return markupData
}

func markupText(t *Tokenizer) stateFn {
	var prev rune
	for !t.atEOF() {
		c := t.current()
		if IsWhitespace(c) || source.IsNewline(c) || atMarkupSymbol(t) {
			break
		}
		prev = c
		t.takeCurrent()
	}

	// An '@' between two alphanumerics is part of an email address.
	if t.current() == '@' && IsLetterOrDigit(prev) && IsLetterOrDigit(t.peek()) {
		t.takeCurrent()
		return markupText
	}

	t.emit(token.Text)
	return markupData
}

func atMarkupSymbol(t *Tokenizer) bool {
	switch t.current() {
	case '<', '!', '/', '?', '[', '>', ']', '=', '"', '\'', '@':
		return true
	case '-':
		return t.peek() == '-'
	}
	return false
}

func markupSymbol(t *Tokenizer) {
	c := t.current()
	t.takeCurrent()

	var kind token.Kind
	switch c {
	case '<':
		kind = token.OpenAngle
	case '!':
		kind = token.Bang
	case '/':
		kind = token.Slash
	case '?':
		kind = token.QuestionMark
	case '[':
		kind = token.LeftBracket
	case '>':
		kind = token.CloseAngle
	case ']':
		kind = token.RightBracket
	case '=':
		kind = token.Equals
	case '"':
		kind = token.DoubleQuote
	case '\'':
		kind = token.SingleQuote
	case '-':
		t.takeCurrent()
		kind = token.DoubleHyphen
	}
	t.emit(kind)
}
