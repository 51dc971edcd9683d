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
	"slices"
	"sync"
	"unicode/utf8"
)

// File is a Razor document being parsed.
//
// It contains additional book-keeping information for resolving locations.
// Files are immutable once created.
//
// A nil *File behaves like an empty file with the path name "".
type File struct {
	path, text string

	once sync.Once
	// The byte offset of the start of each line. lineStarts[0] is always zero.
	lineStarts []int
}

// NewFile constructs a new source file.
func NewFile(path, text string) *File {
	return &File{path: path, text: text}
}

// Path returns this file's path. It does not need to name a real file.
func (f *File) Path() string {
	if f == nil {
		return ""
	}
	return f.path
}

// Text returns this file's textual contents.
func (f *File) Text() string {
	if f == nil {
		return ""
	}
	return f.text
}

// Len returns the length of this file in bytes.
func (f *File) Len() int {
	return len(f.Text())
}

// Start returns the location of the first byte of this file.
func (f *File) Start() Location {
	return Location{Path: f.Path()}
}

// LineByOffset returns the zero-based line containing offset.
//
// This operation is O(log n).
func (f *File) LineByOffset(offset int) int {
	lines := f.lines()
	line, exact := slices.BinarySearch(lines, offset)
	if !exact {
		line--
	}
	return line
}

// Location builds a full [Location] for the given byte offset. Offsets past
// the end of the file are clamped.
func (f *File) Location(offset int) Location {
	offset = min(max(offset, 0), f.Len())
	line := f.LineByOffset(offset)
	return Location{
		Path:           f.Path(),
		AbsoluteIndex:  offset,
		LineIndex:      line,
		CharacterIndex: offset - f.lines()[line],
	}
}

// LineCount returns the number of lines in this file. An empty file has one
// line.
func (f *File) LineCount() int {
	return len(f.lines())
}

// Line returns the text of the given zero-based line, without its terminator.
func (f *File) Line(line int) string {
	lines := f.lines()
	start := lines[line]
	end := f.Len()
	if line+1 < len(lines) {
		end = lines[line+1]
	}
	text := f.Text()[start:end]
	for len(text) > 0 {
		r, n := utf8.DecodeLastRuneInString(text)
		if !IsNewline(r) {
			break
		}
		text = text[:len(text)-n]
	}
	return text
}

func (f *File) lines() []int {
	if f == nil {
		return []int{0}
	}
	f.once.Do(func() {
		f.lineStarts = append(f.lineStarts, 0)
		text := f.text
		for i := 0; i < len(text); {
			r, n := utf8.DecodeRuneInString(text[i:])
			i += n
			if !IsNewline(r) {
				continue
			}
			if r == '\r' && i < len(text) && text[i] == '\n' {
				i++
			}
			f.lineStarts = append(f.lineStarts, i)
		}
	})
	return f.lineStarts
}
