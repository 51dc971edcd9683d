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

package source

import (
	"fmt"
	"unicode/utf8"
)

// EOF is returned by [Reader.Peek] and [Reader.Read] once the reader is
// exhausted.
const EOF rune = -1

// Reader is a seekable rune reader over a string that tracks the [Location]
// of its cursor.
//
// A Reader may be shared between several tokenizers; each of them reads from
// the current position.
type Reader struct {
	text string
	base Location

	pos int
	loc Location
}

// NewReader returns a reader over the whole of f.
func NewReader(f *File) *Reader {
	return NewReaderAt(f.Text(), f.Start())
}

// NewReaderAt returns a reader over text, reporting locations as though text
// began at base.
func NewReaderAt(text string, base Location) *Reader {
	return &Reader{text: text, base: base, loc: base}
}

// Text returns the entire text being read.
func (r *Reader) Text() string {
	return r.text
}

// Len returns the length of the text in bytes.
func (r *Reader) Len() int {
	return len(r.text)
}

// Position returns the byte offset of the cursor, relative to the start of
// the text.
func (r *Reader) Position() int {
	return r.pos
}

// Location returns the location of the cursor.
func (r *Reader) Location() Location {
	return r.loc
}

// AtEOF returns whether the reader has been exhausted.
func (r *Reader) AtEOF() bool {
	return r.pos >= len(r.text)
}

// Peek returns the next rune without consuming it, or [EOF].
func (r *Reader) Peek() rune {
	if r.AtEOF() {
		return EOF
	}
	c, _ := utf8.DecodeRuneInString(r.text[r.pos:])
	return c
}

// PeekAt returns the rune n runes past the cursor without consuming anything,
// or [EOF].
func (r *Reader) PeekAt(n int) rune {
	i := r.pos
	for ; n > 0 && i < len(r.text); n-- {
		_, size := utf8.DecodeRuneInString(r.text[i:])
		i += size
	}
	if i >= len(r.text) {
		return EOF
	}
	c, _ := utf8.DecodeRuneInString(r.text[i:])
	return c
}

// Read consumes and returns the next rune, or [EOF].
func (r *Reader) Read() rune {
	if r.AtEOF() {
		return EOF
	}
	c, n := utf8.DecodeRuneInString(r.text[r.pos:])
	start := r.pos
	r.pos += n
	if IsNewline(c) && (c != '\r' || r.Peek() != '\n') {
		r.loc.LineIndex++
		r.loc.CharacterIndex = 0
	} else {
		r.loc.CharacterIndex += n
	}
	r.loc.AbsoluteIndex += r.pos - start
	return c
}

// Seek moves the cursor to the given byte offset.
//
// Seeking forwards reads through the intervening text; seeking backwards
// recomputes the location from the start of the text.
func (r *Reader) Seek(pos int) {
	if pos < 0 || pos > len(r.text) {
		panic(fmt.Sprintf("razor/source: seek to %d out of range [0, %d]", pos, len(r.text)))
	}
	if pos < r.pos {
		r.pos = 0
		r.loc = r.base
	}
	for r.pos < pos {
		r.Read()
	}
}

// SeekLocation moves the cursor to loc, which must have been produced by
// this reader (or by advancing its base location over its text).
func (r *Reader) SeekLocation(loc Location) {
	pos := loc.AbsoluteIndex - r.base.AbsoluteIndex
	if pos < 0 || pos > len(r.text) {
		panic(fmt.Sprintf("razor/source: seek to %v out of range [0, %d]", loc, len(r.text)))
	}
	r.pos = pos
	r.loc = loc
}

// Lookahead is a checkpoint created by [Reader.BeginLookahead].
type Lookahead struct {
	r   *Reader
	pos int
	loc Location

	accepted bool
}

// BeginLookahead records the reader's position. Unless [Lookahead.Accept]
// is called, [Lookahead.Release] rewinds the reader to it.
func (r *Reader) BeginLookahead() *Lookahead {
	return &Lookahead{r: r, pos: r.pos, loc: r.loc}
}

// Accept commits everything read since the lookahead began.
func (l *Lookahead) Accept() {
	l.accepted = true
}

// Release ends the lookahead, rewinding if it was not accepted.
func (l *Lookahead) Release() {
	if !l.accepted {
		l.r.pos = l.pos
		l.r.loc = l.loc
	}
}
