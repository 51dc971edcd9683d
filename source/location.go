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

// Zero is the location of the first byte of an anonymous document.
var Zero = Location{}

// Undefined is a sentinel for a location that has not been assigned yet.
var Undefined = Location{AbsoluteIndex: -1, LineIndex: -1, CharacterIndex: -1}

// Location is a position within a source document.
//
// Locations are values; the arithmetic methods return new locations.
type Location struct {
	// The path of the document, if known.
	Path string

	// Byte offset from the start of the document.
	AbsoluteIndex int
	// Zero-based line number.
	LineIndex int
	// Byte offset from the start of the line.
	CharacterIndex int
}

// NewLocation is a convenience constructor for a Location.
func NewLocation(path string, absolute, line, character int) Location {
	return Location{
		Path:           path,
		AbsoluteIndex:  absolute,
		LineIndex:      line,
		CharacterIndex: character,
	}
}

// IsUndefined returns whether this is [Undefined].
func (l Location) IsUndefined() bool {
	return l.AbsoluteIndex < 0
}

// Add treats delta as a relative position inside a region that starts at l
// and returns the corresponding absolute location.
//
// Panics if both locations name a path and the paths differ.
func (l Location) Add(delta Location) Location {
	path := mergePaths(l, delta)
	if delta.LineIndex > 0 {
		return NewLocation(path, l.AbsoluteIndex+delta.AbsoluteIndex, l.LineIndex+delta.LineIndex, delta.CharacterIndex)
	}
	return NewLocation(path, l.AbsoluteIndex+delta.AbsoluteIndex, l.LineIndex, l.CharacterIndex+delta.CharacterIndex)
}

// Sub is the inverse of [Location.Add]: it returns the position of l relative
// to base.
//
// Panics if both locations name a path and the paths differ.
func (l Location) Sub(base Location) Location {
	path := mergePaths(l, base)
	if l.LineIndex != base.LineIndex {
		return NewLocation(path, l.AbsoluteIndex-base.AbsoluteIndex, l.LineIndex-base.LineIndex, l.CharacterIndex)
	}
	return NewLocation(path, l.AbsoluteIndex-base.AbsoluteIndex, 0, l.CharacterIndex-base.CharacterIndex)
}

// Advance returns the location immediately after text, if text were placed at l.
func (l Location) Advance(text string) Location {
	for i := 0; i < len(text); {
		r, n := utf8.DecodeRuneInString(text[i:])
		i += n
		l.AbsoluteIndex += n
		if IsNewline(r) && (r != '\r' || i >= len(text) || text[i] != '\n') {
			l.LineIndex++
			l.CharacterIndex = 0
		} else {
			l.CharacterIndex += n
		}
	}
	return l
}

// String implements [fmt.Stringer].
func (l Location) String() string {
	if l.Path != "" {
		return fmt.Sprintf("%s(%d:%d,%d)", l.Path, l.AbsoluteIndex, l.LineIndex, l.CharacterIndex)
	}
	return fmt.Sprintf("(%d:%d,%d)", l.AbsoluteIndex, l.LineIndex, l.CharacterIndex)
}

func mergePaths(a, b Location) string {
	switch {
	case a.Path == "":
		return b.Path
	case b.Path == "" || a.Path == b.Path:
		return a.Path
	default:
		panic(fmt.Sprintf("razor/source: cannot combine locations from %q and %q", a.Path, b.Path))
	}
}

// IsNewline returns whether r is one of the recognized line terminators.
func IsNewline(r rune) bool {
	switch r {
	case '\r', '\n', '\u0085', '\u2028', '\u2029':
		return true
	default:
		return false
	}
}
