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

// Package tokenizer contains the state-machine tokenizers for the two
// languages that make up a Razor document.
//
// A [Tokenizer] reads from a shared [source.Reader]; the parser hands the
// reader back and forth between a markup tokenizer and a code tokenizer as
// it switches modes.
package tokenizer

import (
	"unicode"

	"github.com/bufbuild/razor/report"
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/token"
)

// stateFn is one state of a tokenizer. It returns the next state; nil stops
// the tokenizer.
type stateFn func(*Tokenizer) stateFn

// Tokenizer converts a stream of runes into [token.Symbol]s.
type Tokenizer struct {
	src  *source.Reader
	lang token.Language
	data stateFn

	state stateFn

	// The symbol currently being built spans [startPos, src.Position()).
	startPos int
	start    source.Location
	errs     []report.Diagnose
	// Where the last symbol ended. If the reader has moved since, the
	// tokenizer starts over from its initial state.
	end int

	out     token.Symbol
	haveOut bool
}

// NewCode returns a tokenizer for the code language reading from src.
func NewCode(src *source.Reader) *Tokenizer {
	return newTokenizer(src, token.Code, codeData)
}

// NewMarkup returns a tokenizer for markup reading from src.
func NewMarkup(src *source.Reader) *Tokenizer {
	return newTokenizer(src, token.Markup, markupData)
}

// New returns a tokenizer for the given language.
func New(lang token.Language, src *source.Reader) *Tokenizer {
	if lang == token.Code {
		return NewCode(src)
	}
	return NewMarkup(src)
}

func newTokenizer(src *source.Reader, lang token.Language, data stateFn) *Tokenizer {
	t := &Tokenizer{src: src, lang: lang, data: data}
	t.Reset()
	return t
}

// Language returns the language this tokenizer understands.
func (t *Tokenizer) Language() token.Language {
	return t.lang
}

// Source returns the reader this tokenizer consumes.
func (t *Tokenizer) Source() *source.Reader {
	return t.src
}

// Reset returns the tokenizer to its initial state, discarding anything
// buffered. Call this after seeking the underlying reader.
func (t *Tokenizer) Reset() {
	t.state = t.data
	t.startPos = t.src.Position()
	t.start = t.src.Location()
	t.errs = nil
	t.haveOut = false
	t.end = t.startPos
}

// Next returns the next symbol, along with any errors encountered while
// producing it. Returns false once the input is exhausted.
func (t *Tokenizer) Next() (token.Symbol, []report.Diagnose, bool) {
	if t.src.Position() != t.end {
		t.Reset()
	}
	t.startSymbol()
	defer func() { t.end = t.src.Position() }()
	for t.state != nil && !t.haveOut {
		t.state = t.state(t)
	}
	if !t.haveOut {
		return token.Symbol{}, nil, false
	}
	t.haveOut = false
	return t.out, t.errs, true
}

// Buffer returns the text of the symbol currently being built.
func (t *Tokenizer) Buffer() string {
	return t.src.Text()[t.startPos:t.src.Position()]
}

// Lookahead checks whether the upcoming input is expected.
//
// If it matches and takeIfMatch is set, the matched text is appended to the
// buffer. If it matches and takeIfMatch is not set, nothing changes. If it
// does not match, nothing changes either.
func (t *Tokenizer) Lookahead(expected string, takeIfMatch, caseSensitive bool) bool {
	fold := func(r rune) rune { return r }
	if !caseSensitive {
		fold = unicode.ToLower
	}

	if expected == "" {
		return false
	}

	la := t.src.BeginLookahead()
	defer la.Release()
	for _, want := range expected {
		if t.atEOF() || fold(t.current()) != fold(want) {
			return false
		}
		t.src.Read()
	}
	if takeIfMatch {
		la.Accept()
	}
	return true
}

func (t *Tokenizer) startSymbol() {
	t.startPos = t.src.Position()
	t.start = t.src.Location()
	t.errs = nil
}

func (t *Tokenizer) atEOF() bool {
	return t.src.AtEOF()
}

func (t *Tokenizer) current() rune {
	return t.src.Peek()
}

// peek returns the rune after the current one.
func (t *Tokenizer) peek() rune {
	return t.src.PeekAt(1)
}

func (t *Tokenizer) haveContent() bool {
	return t.src.Position() > t.startPos
}

func (t *Tokenizer) takeCurrent() {
	t.src.Read()
}

// takeUntil takes runes until pred matches or the input ends. Returns
// whether it stopped because of pred.
func (t *Tokenizer) takeUntil(pred func(rune) bool) bool {
	for !t.atEOF() {
		if pred(t.current()) {
			return true
		}
		t.src.Read()
	}
	return false
}

func (t *Tokenizer) takeNewline() {
	first := t.current()
	t.takeCurrent()
	if first == '\r' && t.current() == '\n' {
		t.takeCurrent()
	}
}

func (t *Tokenizer) error(err report.Diagnose) {
	t.errs = append(t.errs, err)
}

// emit ends the current symbol with the given kind, if any content was
// buffered.
func (t *Tokenizer) emit(kind token.Kind) {
	if !t.haveContent() {
		return
	}
	t.out = token.Symbol{Start: t.start, Content: t.Buffer(), Kind: kind}
	t.haveOut = true
}

// single takes the current rune and emits it as kind.
func (t *Tokenizer) single(kind token.Kind) {
	t.takeCurrent()
	t.emit(kind)
}

// The razor comment states are shared by both languages.

func afterRazorCommentTransition(t *Tokenizer) stateFn {
	if t.current() != '*' {
		return t.data
	}
	t.single(token.RazorCommentStar)
	return razorCommentBody
}

func razorCommentBody(t *Tokenizer) stateFn {
	t.takeUntil(func(r rune) bool { return r == '*' })
	if t.current() == '*' {
		if t.peek() == '@' {
			t.emit(token.RazorComment)
			return starAfterRazorCommentBody
		}
		t.takeCurrent()
		return razorCommentBody
	}

	// Unterminated; the parser reports this.
	t.emit(token.RazorComment)
	return t.data
}

func starAfterRazorCommentBody(t *Tokenizer) stateFn {
	t.single(token.RazorCommentStar)
	return atAfterRazorCommentBody
}

func atAfterRazorCommentBody(t *Tokenizer) stateFn {
	t.single(token.RazorCommentTransition)
	return t.data
}
