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

package editor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/bufbuild/razor/parser"
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/syntax"
	"github.com/bufbuild/razor/taghelper"
)

type harness struct {
	t      *testing.T
	parser *Parser
	events chan DocumentParseComplete
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	events := make(chan DocumentParseComplete, 64)
	opts.OnParseComplete = func(e DocumentParseComplete) { events <- e }

	p, err := NewParser(context.Background(), "test.cshtml", opts)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, p.Close()) })
	return &harness{t: t, parser: p, events: events}
}

// open loads text as the initial document and waits for it to be parsed.
func (h *harness) open(text string) {
	h.t.Helper()
	change, err := source.Insert("", 0, text)
	require.NoError(h.t, err)
	assert.Equal(h.t, Rejected, h.check(change))
	event := h.wait()
	assert.True(h.t, event.TreeStructureChanged)
	assert.Equal(h.t, text, event.Tree.Content())
}

func (h *harness) check(change source.TextChange) PartialParseResult {
	h.t.Helper()
	result, err := h.parser.CheckForStructureChanges(change)
	require.NoError(h.t, err)
	return result
}

func (h *harness) wait() DocumentParseComplete {
	h.t.Helper()
	select {
	case event := <-h.events:
		return event
	case <-time.After(10 * time.Second):
		h.t.Fatal("timed out waiting for a full parse")
		return DocumentParseComplete{}
	}
}

func (h *harness) assertNoParse() {
	h.t.Helper()
	select {
	case event := <-h.events:
		h.t.Errorf("unexpected full parse of %q", event.Tree.Content())
	default:
	}
}

// expression returns the content of the code span of the implicit
// expression that contains offset.
func expression(t *testing.T, tree *syntax.Tree, offset int) string {
	t.Helper()
	span := tree.SpanAt(offset)
	require.NotNil(t, span)
	require.Equal(t, syntax.Code, span.Kind(), "span %q", span.Content())
	return span.Content()
}

func insert(t *testing.T, buffer string, pos int, text string) source.TextChange {
	t.Helper()
	change, err := source.Insert(buffer, pos, text)
	require.NoError(t, err)
	return change
}

func TestIncrementalAccept(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.open("foo @bar baz")

	change := insert(t, "foo @bar baz", 8, "b")
	assert.Equal(t, Accepted, h.check(change))

	tree := h.parser.CurrentTree()
	assert.Equal(t, "foo @barb baz", tree.Content())
	assert.Equal(t, "barb", expression(t, tree, 5))
	h.assertNoParse()
}

func TestFullReparseOnMultiSpanChange(t *testing.T) {
	t.Parallel()

	var count int
	events := make(chan struct{}, 4)
	p, err := NewParser(context.Background(), "test.cshtml", Options{
		OnParseComplete: func(DocumentParseComplete) {
			count++
			events <- struct{}{}
		},
	})
	require.NoError(t, err)

	initial, err := source.Insert("", 0, "foo @bar Baz")
	require.NoError(t, err)
	result, err := p.CheckForStructureChanges(initial)
	require.NoError(t, err)
	assert.Equal(t, Rejected, result)
	<-events

	change, err := source.NewTextChange(7, 3, "foo @bar Baz", 3, "foo @bap Daz")
	require.NoError(t, err)
	result, err = p.CheckForStructureChanges(change)
	require.NoError(t, err)
	assert.Equal(t, Rejected, result)
	<-events

	require.NoError(t, p.Close())
	assert.Equal(t, 2, count)
	assert.Equal(t, "foo @bap Daz", p.CurrentTree().Content())
}

func TestPartialParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		old      string
		change   func(t *testing.T, old string) source.TextChange
		want     PartialParseResult
		code     string
		codeFrom int
	}{
		{
			name:     "identifier-expansion",
			old:      "foo @bar baz",
			change:   func(t *testing.T, old string) source.TextChange { return insert(t, old, 8, "biz") },
			want:     Accepted,
			code:     "barbiz",
			codeFrom: 5,
		},
		{
			name:     "dot-after-identifier",
			old:      "foo @foo bar",
			change:   func(t *testing.T, old string) source.TextChange { return insert(t, old, 8, ".") },
			want:     Accepted | Provisional,
			code:     "foo.",
			codeFrom: 5,
		},
		{
			name:     "inner-dot",
			old:      "foo @DateTime.Now baz",
			change:   func(t *testing.T, old string) source.TextChange { return insert(t, old, 13, ".") },
			want:     Accepted | Provisional,
			code:     "DateTime..Now",
			codeFrom: 5,
		},
		{
			name:     "identifier-and-trailing-dot",
			old:      "foo @U baz",
			change:   func(t *testing.T, old string) source.TextChange { return insert(t, old, 6, "ser.") },
			want:     Accepted | Provisional,
			code:     "User.",
			codeFrom: 5,
		},
		{
			name: "delete-leaving-dot",
			old:  "foo @User.Name baz",
			change: func(t *testing.T, old string) source.TextChange {
				change, err := source.Delete(old, 10, 4)
				require.NoError(t, err)
				return change
			},
			want:     Accepted | Provisional,
			code:     "User.",
			codeFrom: 5,
		},
		{
			name: "delete-identifier-part",
			old:  "foo @User baz",
			change: func(t *testing.T, old string) source.TextChange {
				change, err := source.Delete(old, 7, 2)
				require.NoError(t, err)
				return change
			},
			want:     Accepted,
			code:     "Us",
			codeFrom: 5,
		},
		{
			name: "identifier-replacement",
			old:  "foo @bar baz",
			change: func(t *testing.T, old string) source.TextChange {
				change, err := source.Replace(old, 6, 2, "oo")
				require.NoError(t, err)
				return change
			},
			want:     Accepted,
			code:     "boo",
			codeFrom: 5,
		},
		{
			name:     "await-trailing-dot",
			old:      "foo @await Html baz",
			change:   func(t *testing.T, old string) source.TextChange { return insert(t, old, 15, ".") },
			want:     Accepted | Provisional,
			code:     "await Html.",
			codeFrom: 5,
		},
		{
			name:     "trailing-dot-in-code",
			old:      "@{@foo}",
			change:   func(t *testing.T, old string) source.TextChange { return insert(t, old, 6, ".") },
			want:     Accepted,
			code:     "foo.",
			codeFrom: 3,
		},
		{
			name:     "identifier-after-dot-in-code",
			old:      "@{@foo.}",
			change:   func(t *testing.T, old string) source.TextChange { return insert(t, old, 7, "b") },
			want:     Accepted,
			code:     "foo.b",
			codeFrom: 3,
		},
		{
			name:     "identifier-at-end-of-line-in-code",
			old:      "@{\n    @foo\n}",
			change:   func(t *testing.T, old string) source.TextChange { return insert(t, old, 11, "d") },
			want:     Accepted,
			code:     "food",
			codeFrom: 8,
		},
		{
			name:     "inner-dot-in-code",
			old:      "@{\n    @DateTime.Now\n}",
			change:   func(t *testing.T, old string) source.TextChange { return insert(t, old, 16, ".") },
			want:     Accepted,
			code:     "DateTime..Now",
			codeFrom: 8,
		},
		{
			name:   "markup",
			old:    "foo @bar baz",
			change: func(t *testing.T, old string) source.TextChange { return insert(t, old, 1, "x") },
			want:   Rejected,
		},
		{
			name:   "operator",
			old:    "foo @bar baz",
			change: func(t *testing.T, old string) source.TextChange { return insert(t, old, 8, "+") },
			want:   Rejected,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, Options{})
			h.open(test.old)

			change := test.change(t, test.old)
			assert.Equal(t, test.want, h.check(change))
			if test.want.Has(Rejected) {
				event := h.wait()
				assert.Equal(t, change.NewBuffer, event.Tree.Content())
				return
			}

			tree := h.parser.CurrentTree()
			assert.Equal(t, change.NewBuffer, tree.Content())
			assert.Equal(t, test.code, expression(t, tree, test.codeFrom))
			assert.Equal(t, test.want.Has(Provisional), h.parser.LastResultProvisional())
			h.assertNoParse()
		})
	}
}

func TestKeywordTyped(t *testing.T) {
	t.Parallel()

	keywords := []string{
		"if", "do", "try", "for", "foreach", "while", "switch", "lock", "using",
		"section", "inherits", "functions", "namespace", "class",
	}
	for _, kw := range keywords {
		t.Run(kw, func(t *testing.T) {
			t.Parallel()

			old := "@" + kw[:len(kw)-1]
			h := newHarness(t, Options{})
			h.open(old)

			result := h.check(insert(t, old, len(kw), kw[len(kw)-1:]))
			assert.Equal(t, Rejected|SpanContextChanged, result)
			event := h.wait()
			assert.Equal(t, "@"+kw, event.Tree.Content())
		})
	}
}

func TestDotlessCommit(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.open("foo @DateT baz")

	assert.Equal(t, Accepted|Provisional, h.check(insert(t, "foo @DateT baz", 10, ".")))
	assert.Equal(t, "DateT.", expression(t, h.parser.CurrentTree(), 5))

	assert.Equal(t, Accepted|Provisional, h.check(insert(t, "foo @DateT. baz", 10, "ime")))
	assert.Equal(t, "DateTime.", expression(t, h.parser.CurrentTree(), 5))

	assert.Equal(t, Accepted|Provisional, h.check(insert(t, "foo @DateTime. baz", 14, ".")))
	assert.Equal(t, "DateTime..", expression(t, h.parser.CurrentTree(), 5))

	assert.Equal(t, Accepted|Provisional, h.check(insert(t, "foo @DateTime.. baz", 14, "Now")))
	assert.Equal(t, "DateTime.Now.", expression(t, h.parser.CurrentTree(), 5))
	h.assertNoParse()
}

func TestDotlessCommitInCode(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	old := "@{\n    @DateTime\n}"
	h.open(old)

	assert.Equal(t, Accepted, h.check(insert(t, old, 16, ".")))
	assert.Equal(t, Accepted, h.check(insert(t, "@{\n    @DateTime.\n}", 17, ".")))
	assert.Equal(t, Accepted, h.check(insert(t, "@{\n    @DateTime..\n}", 17, "Now")))
	assert.Equal(t, "DateTime.Now.", expression(t, h.parser.CurrentTree(), 8))
	assert.False(t, h.parser.LastResultProvisional())
	h.assertNoParse()
}

func TestProvisionalOnOtherSpan(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.open("foo @foo @bar")

	assert.Equal(t, Accepted|Provisional, h.check(insert(t, "foo @foo @bar", 8, ".")))
	assert.True(t, h.parser.LastResultProvisional())

	// This would be accepted on its own, but the provisional dot must be
	// confirmed by a full parse first.
	assert.Equal(t, Rejected, h.check(insert(t, "foo @foo. @bar", 14, "b")))
	assert.False(t, h.parser.LastResultProvisional())

	event := h.wait()
	assert.Equal(t, "foo @foo. @barb", event.Tree.Content())
	assert.Equal(t, "foo", expression(t, event.Tree, 5))
	assert.Equal(t, "barb", expression(t, event.Tree, 11))
}

func TestProvisionalOnSameSpan(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.open("foo @foo bar")

	assert.Equal(t, Accepted|Provisional, h.check(insert(t, "foo @foo bar", 8, ".")))
	assert.Equal(t, Accepted, h.check(insert(t, "foo @foo. bar", 9, "b")))
	assert.False(t, h.parser.LastResultProvisional())
	assert.Equal(t, "foo.b", expression(t, h.parser.CurrentTree(), 5))
	h.assertNoParse()
}

func TestAutoCompleteBlock(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	old := "@{ var x = 1;"
	h.open(old)

	result := h.check(insert(t, old, len(old), "\n"))
	assert.Equal(t, Rejected|AutoCompleteBlock, result)
	event := h.wait()
	assert.Equal(t, old+"\n", event.Tree.Content())
}

func TestTagHelperBodyRejects(t *testing.T) {
	t.Parallel()

	resolver := &taghelper.CatalogResolver{Catalog: []taghelper.Descriptor{
		{TagName: "p", TypeName: "Lib.PTagHelper", AssemblyName: "Lib"},
	}}
	h := newHarness(t, Options{Resolver: resolver})
	old := "@addTagHelper *, Lib\n<p>@foo</p>"
	h.open(old)

	// Inside an implicit expression that would otherwise accept the edit.
	assert.Equal(t, Rejected, h.check(insert(t, old, 28, "d")))
	event := h.wait()
	assert.False(t, event.TreeStructureChanged)
}

func TestTreeStructureChanged(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.open("foo @bar baz")

	assert.Equal(t, Rejected, h.check(insert(t, "foo @bar baz", 1, "x")))
	event := h.wait()
	assert.False(t, event.TreeStructureChanged)
	assert.Equal(t, 2, event.Generation)

	assert.Equal(t, Rejected, h.check(insert(t, "fxoo @bar baz", 13, " @(1)")))
	event = h.wait()
	assert.True(t, event.TreeStructureChanged)
	assert.Equal(t, 3, event.Generation)
}

func TestTreesAreDifferent(t *testing.T) {
	t.Parallel()

	parse := func(text string) *syntax.Tree {
		return parser.ParseString("test.cshtml", text, parser.Options{})
	}

	tests := []struct {
		name      string
		old       string
		pos       int
		text      string
		different bool
	}{
		{name: "new-expression", old: "<p>@</p>", pos: 4, text: "f"},
		{name: "new-transition", old: "<p>a text</p>", pos: 5, text: "@", different: true},
		{name: "longer-identifier", old: "<p>@f</p>", pos: 5, text: "oo"},
		{name: "markup-text", old: "<p><div>\n\n</div></p>", pos: 9, text: "abcdefg"},
		{name: "markup-space", old: "<p><div>\n\n</div></p>", pos: 9, text: " "},
		{name: "new-tag", old: "<p>text</p>", pos: 5, text: "<b>", different: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			change := insert(t, test.old, test.pos, test.text)
			got := TreesAreDifferent(parse(test.old), parse(change.NewBuffer), []source.TextChange{change})
			assert.Equal(t, test.different, got)
		})
	}
}

func TestClose(t *testing.T) {
	t.Parallel()

	p, err := NewParser(context.Background(), "test.cshtml", Options{})
	require.NoError(t, err)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, err = p.CheckForStructureChanges(insert(t, "", 0, "foo"))
	assert.True(t, errors.Is(err, ErrDisposed))
}

func TestCloseAfterParseComplete(t *testing.T) {
	t.Parallel()

	var p *Parser
	closed := make(chan error, 1)
	p, err := NewParser(context.Background(), "test.cshtml", Options{
		OnParseComplete: func(DocumentParseComplete) {
			go func() { closed <- p.Close() }()
		},
	})
	require.NoError(t, err)

	_, err = p.CheckForStructureChanges(insert(t, "", 0, "foo @bar"))
	require.NoError(t, err)

	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("timed out closing from a parse notification")
	}
	_, err = p.CheckForStructureChanges(insert(t, "foo @bar", 0, "x"))
	assert.True(t, errors.Is(err, ErrDisposed))
}

func TestInvalidArguments(t *testing.T) {
	t.Parallel()

	_, err := NewParser(context.Background(), "", Options{})
	assert.True(t, errors.Is(err, source.ErrInvalidArgument))

	h := newHarness(t, Options{})
	_, err = h.parser.CheckForStructureChanges(source.TextChange{OldPosition: 4, OldLength: 1, OldBuffer: "abc"})
	assert.True(t, errors.Is(err, source.ErrInvalidArgument))
}

func TestPartialParseResultString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Accepted|Provisional", (Accepted | Provisional).String())
	assert.Equal(t, "Rejected|SpanContextChanged", (Rejected | SpanContextChanged).String())
	assert.Equal(t, "None", PartialParseResult(0).String())
}
