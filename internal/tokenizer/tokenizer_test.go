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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/razor/report"
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/token"
	"github.com/bufbuild/razor/token/keyword"
)

type sym struct {
	Kind    token.Kind
	Content string
}

func tokenize(t *testing.T, lang token.Language, text string) ([]sym, []report.Diagnose) {
	t.Helper()
	symbols, errs := Tokenize(lang, text, source.Zero)

	var got []sym
	at := source.Zero
	for _, s := range symbols {
		// Symbols are contiguous and their locations agree with their text.
		require.Equal(t, at, s.Start, "start of %v", s)
		at = s.End()
		got = append(got, sym{s.Kind, s.Content})
	}
	require.Equal(t, len(text), at.AbsoluteIndex, "symbols must cover the whole input")
	return got, errs
}

func TestNewlines(t *testing.T) {
	t.Parallel()

	for _, lang := range []token.Language{token.Code, token.Markup} {
		got, _ := tokenize(t, lang, "\r\n\r\na")
		tail := token.Identifier
		if lang == token.Markup {
			tail = token.Text
		}
		assert.Equal(t, []sym{
			{token.NewLine, "\r\n"},
			{token.NewLine, "\r\n"},
			{tail, "a"},
		}, got, "%v", lang)

		got, _ = tokenize(t, lang, "\r\ra")
		assert.Equal(t, []sym{
			{token.NewLine, "\r"},
			{token.NewLine, "\r"},
			{tail, "a"},
		}, got, "%v", lang)

		got, _ = tokenize(t, lang, "\u0085\u2028\u2029 \t\n")
		assert.Equal(t, []sym{
			{token.NewLine, "\u0085"},
			{token.NewLine, "\u2028"},
			{token.NewLine, "\u2029"},
			{token.Whitespace, " \t"},
			{token.NewLine, "\n"},
		}, got, "%v", lang)
	}
}

func TestLookaheadPurity(t *testing.T) {
	t.Parallel()

	tk := NewCode(source.NewReaderAt("a0x1234", source.Zero))
	tk.startSymbol()
	tk.takeCurrent()
	require.Equal(t, "a", tk.Buffer())

	assert.True(t, tk.Lookahead("0x", false, true))
	assert.Equal(t, "a", tk.Buffer())
	assert.Equal(t, 1, tk.Source().Position())

	assert.True(t, tk.Lookahead("0X", true, false))
	assert.Equal(t, "a0x", tk.Buffer())
	assert.Equal(t, 3, tk.Source().Position())

	tk = NewCode(source.NewReaderAt("a01234", source.Zero))
	tk.startSymbol()
	tk.takeCurrent()
	assert.False(t, tk.Lookahead("0x", true, true))
	assert.Equal(t, "a", tk.Buffer())
	assert.Equal(t, 1, tk.Source().Position())
	assert.False(t, tk.Lookahead("0x", false, true))
	assert.Equal(t, "a", tk.Buffer())
}

func TestCodeTokenizer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []sym
		errs []report.Tag
	}{
		{
			name: "numbers",
			text: "0x1234 01234 1.5e3f .5 12ul 3m",
			want: []sym{
				{token.IntegerLiteral, "0x1234"}, {token.Whitespace, " "},
				{token.IntegerLiteral, "01234"}, {token.Whitespace, " "},
				{token.RealLiteral, "1.5e3f"}, {token.Whitespace, " "},
				{token.RealLiteral, ".5"}, {token.Whitespace, " "},
				{token.IntegerLiteral, "12ul"}, {token.Whitespace, " "},
				{token.RealLiteral, "3m"},
			},
		},
		{
			name: "operators",
			text: "=>??::<<=->!=.",
			want: []sym{
				{token.LambdaArrow, "=>"}, {token.NullCoalesce, "??"}, {token.DoubleColon, "::"},
				{token.LeftShiftAssign, "<<="}, {token.Arrow, "->"}, {token.NotEqual, "!="}, {token.Dot, "."},
			},
		},
		{
			name: "block comment does not nest",
			text: "/* a /* b */ c",
			want: []sym{{token.Comment, "/* a /* b */"}, {token.Whitespace, " "}, {token.Identifier, "c"}},
		},
		{
			name: "unterminated block comment",
			text: "/* foo",
			want: []sym{{token.Comment, "/* foo"}},
			errs: []report.Tag{report.TagBlockCommentNotTerminated},
		},
		{
			name: "line comment",
			text: "// foo\nbar",
			want: []sym{{token.Comment, "// foo"}, {token.NewLine, "\n"}, {token.Identifier, "bar"}},
		},
		{
			name: "razor comment",
			text: "@* foo *@x",
			want: []sym{
				{token.RazorCommentTransition, "@"}, {token.RazorCommentStar, "*"},
				{token.RazorComment, " foo "},
				{token.RazorCommentStar, "*"}, {token.RazorCommentTransition, "@"},
				{token.Identifier, "x"},
			},
		},
		{
			name: "unterminated razor comment keeps trailing star",
			text: "@* foo *",
			want: []sym{
				{token.RazorCommentTransition, "@"}, {token.RazorCommentStar, "*"},
				{token.RazorComment, " foo *"},
			},
		},
		{
			name: "strings",
			text: `"a\"b" 'c' @"x""y"`,
			want: []sym{
				{token.StringLiteral, `"a\"b"`}, {token.Whitespace, " "},
				{token.CharacterLiteral, "'c'"}, {token.Whitespace, " "},
				{token.StringLiteral, `@"x""y"`},
			},
		},
		{
			name: "unterminated string",
			text: "\"Foo\nbar",
			want: []sym{{token.StringLiteral, `"Foo`}, {token.NewLine, "\n"}, {token.Identifier, "bar"}},
			errs: []report.Tag{report.TagUnterminatedStringLiteral},
		},
		{
			name: "transition",
			text: "@foo",
			want: []sym{{token.Transition, "@"}, {token.Identifier, "foo"}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got, errs := tokenize(t, token.Code, test.text)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("symbols mismatch (-want +got):\n%s", diff)
			}
			var tags []report.Tag
			for _, err := range errs {
				d := new(report.Report).Error(err)
				tags = append(tags, d.Tag())
			}
			assert.Equal(t, test.errs, tags)
		})
	}
}

func TestUnterminatedStringLocation(t *testing.T) {
	t.Parallel()

	_, errs := Tokenize(token.Code, ` "Foo`, source.Zero)
	require.Len(t, errs, 1)
	d := new(report.Report).Error(errs[0])
	assert.Equal(t, 1, d.Location().AbsoluteIndex)
	assert.Equal(t, 1, d.Length())
}

func TestKeywords(t *testing.T) {
	t.Parallel()

	symbols, _ := Tokenize(token.Code, "if foo while", source.Zero)
	require.Len(t, symbols, 5)
	assert.True(t, symbols[0].IsKeyword(keyword.If))
	assert.Equal(t, token.Identifier, symbols[2].Kind)
	assert.True(t, symbols[4].IsKeyword(keyword.While))
}

func TestMarkupTokenizer(t *testing.T) {
	t.Parallel()

	got, _ := tokenize(t, token.Markup, `<p class="a">me@x.com</p>`)
	assert.Equal(t, []sym{
		{token.OpenAngle, "<"}, {token.Text, "p"}, {token.Whitespace, " "},
		{token.Text, "class"}, {token.Equals, "="}, {token.DoubleQuote, `"`},
		{token.Text, "a"}, {token.DoubleQuote, `"`}, {token.CloseAngle, ">"},
		{token.Text, "me@x.com"},
		{token.OpenAngle, "<"}, {token.Slash, "/"}, {token.Text, "p"}, {token.CloseAngle, ">"},
	}, got)

	got, _ = tokenize(t, token.Markup, "<!--a-->@@ @b")
	assert.Equal(t, []sym{
		{token.OpenAngle, "<"}, {token.Bang, "!"}, {token.DoubleHyphen, "--"},
		{token.Text, "a"}, {token.DoubleHyphen, "--"}, {token.CloseAngle, ">"},
		{token.Transition, "@"}, {token.Transition, "@"}, {token.Whitespace, " "},
		{token.Transition, "@"}, {token.Text, "b"},
	}, got)

	got, _ = tokenize(t, token.Markup, "a-b @* c *@")
	assert.Equal(t, []sym{
		{token.Text, "a-b"}, {token.Whitespace, " "},
		{token.RazorCommentTransition, "@"}, {token.RazorCommentStar, "*"},
		{token.RazorComment, " c "},
		{token.RazorCommentStar, "*"}, {token.RazorCommentTransition, "@"},
	}, got)
}
