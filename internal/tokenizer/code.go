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
	"github.com/bufbuild/razor/report"
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/token"
	"github.com/bufbuild/razor/token/keyword"
)

func codeData(t *Tokenizer) stateFn {
	if t.atEOF() {
		return nil
	}

	c := t.current()
	switch {
	case source.IsNewline(c):
		t.takeNewline()
		t.emit(token.NewLine)
		return codeData
	case IsWhitespace(c):
		t.takeUntil(func(r rune) bool { return !IsWhitespace(r) })
		t.emit(token.Whitespace)
		return codeData
	case IsIdentifierStart(c):
		return codeIdentifier
	case isDecimalDigit(c):
		return codeNumericLiteral
	}

	switch c {
	case '@':
		return codeAtSymbol
	case '\'':
		t.takeCurrent()
		return codeCharacterLiteral
	case '"':
		t.takeCurrent()
		return codeStringLiteral
	case '.':
		if isDecimalDigit(t.peek()) {
			return codeRealLiteral
		}
		t.single(token.Dot)
		return codeData
	case '/':
		switch t.peek() {
		case '/':
			return codeSingleLineComment
		case '*':
			return codeBlockComment
		}
	}

	t.emit(codeOperator(t))
	return codeData
}

func codeAtSymbol(t *Tokenizer) stateFn {
	t.takeCurrent()
	switch t.current() {
	case '"':
		t.takeCurrent()
		return codeVerbatimStringLiteral
	case '*':
		t.emit(token.RazorCommentTransition)
		return afterRazorCommentTransition
	}
	t.emit(token.Transition)
	return codeData
}

func codeIdentifier(t *Tokenizer) stateFn {
	t.takeCurrent()
	t.takeUntil(func(r rune) bool { return !IsIdentifierPart(r) })
	t.emit(token.Identifier)
	if kw := keyword.Lookup(t.out.Content); kw != keyword.Unknown {
		t.out.Kind = token.Keyword
		t.out.Keyword = kw
	}
	return codeData
}

func codeNumericLiteral(t *Tokenizer) stateFn {
	if t.Lookahead("0x", true, false) {
		t.takeUntil(func(r rune) bool { return !isHexDigit(r) })
		takeIntegerSuffix(t)
		t.emit(token.IntegerLiteral)
		return codeData
	}

	t.takeUntil(func(r rune) bool { return !isDecimalDigit(r) })
	if t.current() == '.' && isDecimalDigit(t.peek()) {
		return codeRealLiteral
	}
	if takeRealTail(t) {
		t.emit(token.RealLiteral)
		return codeData
	}
	takeIntegerSuffix(t)
	t.emit(token.IntegerLiteral)
	return codeData
}

// codeRealLiteral is entered with the cursor on the '.' of a real literal.
func codeRealLiteral(t *Tokenizer) stateFn {
	t.takeCurrent()
	t.takeUntil(func(r rune) bool { return !isDecimalDigit(r) })
	takeRealTail(t)
	t.emit(token.RealLiteral)
	return codeData
}

// takeRealTail takes an optional exponent and real-type suffix. Returns
// whether it took anything.
func takeRealTail(t *Tokenizer) bool {
	took := false
	if c := t.current(); c == 'e' || c == 'E' {
		took = true
		t.takeCurrent()
		if c := t.current(); c == '+' || c == '-' {
			t.takeCurrent()
		}
		t.takeUntil(func(r rune) bool { return !isDecimalDigit(r) })
	}
	switch t.current() {
	case 'f', 'F', 'd', 'D', 'm', 'M':
		took = true
		t.takeCurrent()
	}
	return took
}

func takeIntegerSuffix(t *Tokenizer) {
	switch t.current() {
	case 'u', 'U':
		t.takeCurrent()
		if c := t.current(); c == 'l' || c == 'L' {
			t.takeCurrent()
		}
	case 'l', 'L':
		t.takeCurrent()
		if c := t.current(); c == 'u' || c == 'U' {
			t.takeCurrent()
		}
	}
}

func codeCharacterLiteral(t *Tokenizer) stateFn {
	return quotedLiteral(t, '\'', token.CharacterLiteral, codeCharacterLiteral)
}

func codeStringLiteral(t *Tokenizer) stateFn {
	return quotedLiteral(t, '"', token.StringLiteral, codeStringLiteral)
}

func quotedLiteral(t *Tokenizer, quote rune, kind token.Kind, self stateFn) stateFn {
	t.takeUntil(func(r rune) bool { return r == '\\' || r == quote || source.IsNewline(r) })
	switch {
	case t.current() == '\\':
		t.takeCurrent()
		if !t.atEOF() && !source.IsNewline(t.current()) {
			t.takeCurrent()
		}
		return self
	case t.atEOF() || source.IsNewline(t.current()):
		t.error(report.ErrUnterminatedStringLiteral{At: t.start})
	default:
		t.takeCurrent()
	}
	t.emit(kind)
	return codeData
}

func codeVerbatimStringLiteral(t *Tokenizer) stateFn {
	t.takeUntil(func(r rune) bool { return r == '"' })
	if t.current() == '"' {
		t.takeCurrent()
		if t.current() == '"' {
			t.takeCurrent()
			return codeVerbatimStringLiteral
		}
	} else {
		t.error(report.ErrUnterminatedStringLiteral{At: t.start})
	}
	t.emit(token.StringLiteral)
	return codeData
}

func codeSingleLineComment(t *Tokenizer) stateFn {
	t.takeUntil(source.IsNewline)
	t.emit(token.Comment)
	return codeData
}

func codeBlockComment(t *Tokenizer) stateFn {
	t.takeCurrent()
	t.takeCurrent()
	for {
		if !t.takeUntil(func(r rune) bool { return r == '*' }) {
			t.error(report.ErrBlockCommentNotTerminated{At: t.start})
			t.emit(token.Comment)
			return codeData
		}
		t.takeCurrent()
		if t.current() == '/' {
			t.takeCurrent()
			t.emit(token.Comment)
			return codeData
		}
	}
}

// codeOperator takes an operator and returns its kind.
func codeOperator(t *Tokenizer) token.Kind {
	first := t.current()
	t.takeCurrent()

	// follow takes the next rune if it is next and returns kind.
	follow := func(next rune, kind token.Kind) (token.Kind, bool) {
		if t.current() == next {
			t.takeCurrent()
			return kind, true
		}
		return 0, false
	}
	pick := func(fallback token.Kind, options ...func() (token.Kind, bool)) token.Kind {
		for _, opt := range options {
			if k, ok := opt(); ok {
				return k
			}
		}
		return fallback
	}
	on := func(next rune, kind token.Kind) func() (token.Kind, bool) {
		return func() (token.Kind, bool) { return follow(next, kind) }
	}

	switch first {
	case '-':
		return pick(token.Minus, on('>', token.Arrow), on('-', token.Decrement), on('=', token.MinusAssign))
	case '!':
		return pick(token.Not, on('=', token.NotEqual))
	case '%':
		return pick(token.Modulo, on('=', token.ModuloAssign))
	case '&':
		return pick(token.And, on('&', token.DoubleAnd), on('=', token.AndAssign))
	case '(':
		return token.LeftParen
	case ')':
		return token.RightParen
	case '*':
		return pick(token.Star, on('=', token.MultiplyAssign))
	case ',':
		return token.Comma
	case '/':
		return pick(token.Slash, on('=', token.DivideAssign))
	case ':':
		return pick(token.Colon, on(':', token.DoubleColon))
	case ';':
		return token.Semicolon
	case '?':
		return pick(token.QuestionMark, on('?', token.NullCoalesce))
	case '[':
		return token.LeftBracket
	case ']':
		return token.RightBracket
	case '^':
		return pick(token.Xor, on('=', token.XorAssign))
	case '{':
		return token.LeftBrace
	case '}':
		return token.RightBrace
	case '|':
		return pick(token.Or, on('|', token.DoubleOr), on('=', token.OrAssign))
	case '~':
		return token.Tilde
	case '+':
		return pick(token.Plus, on('+', token.Increment), on('=', token.PlusAssign))
	case '<':
		if t.Lookahead("<=", true, true) {
			return token.LeftShiftAssign
		}
		return pick(token.LessThan, on('=', token.LessThanEqual), on('<', token.LeftShift))
	case '=':
		return pick(token.Equals, on('=', token.DoubleEquals), on('>', token.LambdaArrow))
	case '>':
		return pick(token.GreaterThan, on('=', token.GreaterThanEqual))
	case '#':
		return token.Hash
	}
	return token.Unknown
}
