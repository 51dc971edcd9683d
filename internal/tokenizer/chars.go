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
	"unicode"
	"unicode/utf8"

	"github.com/bufbuild/razor/source"
)

// IsWhitespace returns whether r is intra-line whitespace. Newlines are not
// whitespace.
func IsWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\v', '\f':
		return true
	}
	return r > utf8.RuneSelf && unicode.Is(unicode.Zs, r)
}

// IsWhitespaceOrNewline returns whether r is whitespace or a newline.
func IsWhitespaceOrNewline(r rune) bool {
	return IsWhitespace(r) || source.IsNewline(r)
}

// IsIdentifierStart returns whether r may begin a code identifier.
func IsIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.Is(unicode.Nl, r)
}

// IsIdentifierPart returns whether r may continue a code identifier.
func IsIdentifierPart(r rune) bool {
	return IsIdentifierStart(r) ||
		unicode.Is(unicode.Nd, r) ||
		unicode.In(r, unicode.Pc, unicode.Mn, unicode.Mc, unicode.Cf)
}

// IsIdentifier returns whether text is a code identifier. If requireStart is
// false, text need only consist of identifier parts.
func IsIdentifier(text string, requireStart bool) bool {
	if text == "" {
		return false
	}
	for i, r := range text {
		if i == 0 && requireStart && !IsIdentifierStart(r) {
			return false
		}
		if !IsIdentifierPart(r) {
			return false
		}
	}
	return true
}

// IsLetterOrDigit returns whether r is a letter or a decimal digit.
func IsLetterOrDigit(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDecimalDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDecimalDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
