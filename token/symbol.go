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

package token

import (
	"fmt"
	"strings"

	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/token/keyword"
)

// Symbol is a single token: a run of source text with a classification.
//
// Symbols are values and compare structurally with ==.
type Symbol struct {
	Start   source.Location
	Content string
	Kind    Kind

	// Set when Kind is [Keyword].
	Keyword keyword.Keyword
}

// End returns the location just past this symbol.
func (s Symbol) End() source.Location {
	return s.Start.Advance(s.Content)
}

// Is returns whether this symbol has the given kind.
func (s Symbol) Is(k Kind) bool {
	return s.Kind == k
}

// IsKeyword returns whether this is the given keyword.
func (s Symbol) IsKeyword(kw keyword.Keyword) bool {
	return s.Kind == Keyword && s.Keyword == kw
}

// ChangeStart returns a copy of this symbol relocated to start.
func (s Symbol) ChangeStart(start source.Location) Symbol {
	s.Start = start
	return s
}

// String implements [fmt.Stringer].
func (s Symbol) String() string {
	if s.Kind == Keyword {
		return fmt.Sprintf("%s %s(%s) - [%s]", s.Start, s.Kind, s.Keyword, s.Content)
	}
	return fmt.Sprintf("%s %s - [%s]", s.Start, s.Kind, s.Content)
}

// Content concatenates the content of a sequence of symbols.
func Content(symbols []Symbol) string {
	switch len(symbols) {
	case 0:
		return ""
	case 1:
		return symbols[0].Content
	}
	var b strings.Builder
	for _, s := range symbols {
		b.WriteString(s.Content)
	}
	return b.String()
}
