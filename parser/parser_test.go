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

package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/razor/report"
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/syntax"
)

// parseMarkupBlock parses text as a single markup block, the way a template
// or a block of markup inside code is parsed.
func parseMarkupBlock(t *testing.T, text string) (*syntax.Block, *report.Report) {
	t.Helper()

	ctx := newContext(source.NewFile("test.cshtml", text), Options{})
	markup := newMarkupParser(ctx)
	code := newCodeParser(ctx)
	markup.code = code
	code.markup = markup

	markup.parseBlock()
	return ctx.build(), ctx.report
}

// checkLossless checks that the spans of tree tile its text.
func checkLossless(t *testing.T, text string, tree *syntax.Tree) {
	t.Helper()

	assert.Equal(t, text, tree.Content())
	offset := 0
	for span := range tree.Spans {
		require.Equal(t, offset, span.Start().AbsoluteIndex, "span %q out of place", span.Content())
		offset += span.Length()
	}
	assert.Equal(t, len(text), offset)
}

func blocksOf(root syntax.Node, typ syntax.BlockType) []*syntax.Block {
	var out []*syntax.Block
	syntax.Walk(root, func(n syntax.Node) bool {
		if b, ok := n.(*syntax.Block); ok && b.Type() == typ {
			out = append(out, b)
		}
		return true
	})
	return out
}

func spansOf(b *syntax.Block) []string {
	var out []string
	for _, child := range b.Children() {
		if span, ok := child.(*syntax.Span); ok {
			out = append(out, span.Kind().String()+":"+span.Content())
		}
	}
	return out
}

func tagsOf(r *report.Report) []report.Tag {
	var out []report.Tag
	for i := range r.Diagnostics {
		out = append(out, r.Diagnostics[i].Tag())
	}
	return out
}

func TestLossless(t *testing.T) {
	t.Parallel()

	docs := []string{
		"",
		"plain text",
		"foo @bar baz",
		"<p>@foo.bar(1, 2)[3]</p>",
		"@{ var x = 1; }",
		"@{\n    <p>hello</p>\n    @: single line\n}\n",
		"@if (x) { <b>y</b> } else if (z) { } else { @z }",
		"@for (var i = 0; i < 10; i++) {\n<li>@i</li>\n}",
		"@try { } catch (Exception e) when (e != null) { } finally { }",
		"@do { x++; } while (x < 10);",
		"@using System.Text\n@using (var x = y) { }",
		"@section Foo { <p>x</p> }",
		"@functions { int x; void Y() { } }",
		"@inherits Foo.Bar<Baz>\n",
		"@addTagHelper \"*, Foo\"\n@removeTagHelper *, Foo\n@tagHelperPrefix th:\n",
		"@* a comment *@<p>x</p>",
		"<script>if (a < b) { }</script>",
		"<!DOCTYPE html><html><!-- c --><![CDATA[x]]></html>",
		"<input value=\"@x\" checked />",
		"<a href=\"~/foo\" class=\"a @b c\">link</a>",
		"@(1 + 2)",
		"@",
		"@{",
		"@(",
		"<p",
		"foo@bar.com",
		"@@escaped",
		"@await Foo()",
		"@{ Func<int, object> f = @<p>@item</p>; }",
		"@{ <text>hello</text> }",
		"@namespace",
	}
	for _, doc := range docs {
		t.Run(doc, func(t *testing.T) {
			t.Parallel()
			tree := ParseString("test.cshtml", doc, Options{})
			checkLossless(t, doc, tree)

			design := ParseString("test.cshtml", doc, Options{DesignTime: true})
			checkLossless(t, doc, design)
		})
	}
}

func TestImplicitExpression(t *testing.T) {
	t.Parallel()

	tree := ParseString("test.cshtml", "foo @bar baz", Options{})
	assert.Zero(t, tree.Diagnostics().Len())

	children := tree.Root().Children()
	require.Len(t, children, 3)
	assert.Equal(t, "foo ", children[0].(*syntax.Span).Content())
	assert.Equal(t, " baz", children[2].(*syntax.Span).Content())

	expr := children[1].(*syntax.Block)
	assert.Equal(t, syntax.ExpressionBlock, expr.Type())
	assert.Equal(t, []string{"Transition:@", "Code:bar"}, spansOf(expr))

	bar := expr.LastSpan()
	assert.Equal(t, syntax.Expression{}, bar.Generator())
	assert.Equal(t, syntax.AcceptsNonWhitespace, bar.EditHandler().Accepted)
}

func TestTrailingDot(t *testing.T) {
	t.Parallel()

	tree := ParseString("test.cshtml", "<p>@foo.bar.</p>", Options{})
	exprs := blocksOf(tree.Root(), syntax.ExpressionBlock)
	require.Len(t, exprs, 1)
	assert.Equal(t, "@foo.bar", exprs[0].Content())
}

func TestStatementBlock(t *testing.T) {
	t.Parallel()

	tree := ParseString("test.cshtml", "@{ var x = 1; }", Options{})
	assert.Zero(t, tree.Diagnostics().Len())

	stmts := blocksOf(tree.Root(), syntax.StatementBlock)
	require.Len(t, stmts, 1)
	assert.Equal(t, []string{"Transition:@", "MetaCode:{", "Code: var x = 1; ", "MetaCode:}"}, spansOf(stmts[0]))
}

func TestUnterminatedStatementBlock(t *testing.T) {
	t.Parallel()

	tree := ParseString("test.cshtml", "@{ var x = 1;", Options{})
	assert.Equal(t, []report.Tag{report.TagExpectedEndOfBlockBeforeEOF}, tagsOf(tree.Diagnostics()))
	assert.Equal(t, 1, tree.Diagnostics().Diagnostics[0].Location().AbsoluteIndex)

	stmts := blocksOf(tree.Root(), syntax.StatementBlock)
	require.Len(t, stmts, 1)
	var code *syntax.Span
	for span := range stmts[0].Spans {
		if span.Kind() == syntax.Code {
			code = span
		}
	}
	require.NotNil(t, code)
	assert.True(t, code.EditHandler().HasAutoComplete)
	assert.Equal(t, "}", code.EditHandler().AutoCompleteString)
}

func TestExplicitExpression(t *testing.T) {
	t.Parallel()

	tree := ParseString("test.cshtml", "@(1 + 2)", Options{})
	assert.Zero(t, tree.Diagnostics().Len())

	exprs := blocksOf(tree.Root(), syntax.ExpressionBlock)
	require.Len(t, exprs, 1)
	assert.Equal(t, []string{"Transition:@", "MetaCode:(", "Code:1 + 2", "MetaCode:)"}, spansOf(exprs[0]))

	tree = ParseString("test.cshtml", "@(1 + 2", Options{})
	assert.Contains(t, tagsOf(tree.Diagnostics()), report.TagExpectedEndOfBlockBeforeEOF)
}

func TestInvalidTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want report.Tag
	}{
		{"@ x", report.TagUnexpectedWhitespaceAtStartOfCodeBlock},
		{"@", report.TagUnexpectedEOFAtStartOfCodeBlock},
		{"@!", report.TagUnexpectedCharacterAtStartOfCodeBlock},
		{"@namespace", report.TagReservedWord},
		{"@class", report.TagReservedWord},
		{"@helper Foo", report.TagHelperDirectiveNotAvailable},
	}
	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			t.Parallel()
			tree := ParseString("test.cshtml", test.text, Options{})
			assert.Contains(t, tagsOf(tree.Diagnostics()), test.want)
			checkLossless(t, test.text, tree)
		})
	}
}

func TestControlFlow(t *testing.T) {
	t.Parallel()

	tree := ParseString("test.cshtml", "@if (x) { <b>y</b> } else { }", Options{})
	assert.Zero(t, tree.Diagnostics().Len())
	stmts := blocksOf(tree.Root(), syntax.StatementBlock)
	require.NotEmpty(t, stmts)
	assert.True(t, strings.HasPrefix(stmts[0].Content(), "@if (x) {"))
	assert.True(t, strings.HasSuffix(stmts[0].Content(), "else { }"))
	assert.Len(t, blocksOf(stmts[0], syntax.TagBlock), 2)

	tree = ParseString("test.cshtml", "@if (x) y();", Options{})
	assert.Contains(t, tagsOf(tree.Diagnostics()), report.TagSingleLineControlFlowStatement)
}

func TestUsing(t *testing.T) {
	t.Parallel()

	tree := ParseString("test.cshtml", "@using System.Text\n", Options{})
	assert.Zero(t, tree.Diagnostics().Len())
	dirs := blocksOf(tree.Root(), syntax.DirectiveBlock)
	require.Len(t, dirs, 1)
	var gen syntax.ChunkGenerator
	for span := range dirs[0].Spans {
		if g, ok := span.Generator().(syntax.AddImport); ok {
			gen = g
		}
	}
	assert.Equal(t, syntax.AddImport{Namespace: " System.Text", KeywordLength: 5}, gen)

	tree = ParseString("test.cshtml", "@{ using System; }", Options{})
	assert.Contains(t, tagsOf(tree.Diagnostics()), report.TagNamespaceImportInCodeBlock)
}

func TestSection(t *testing.T) {
	t.Parallel()

	tree := ParseString("test.cshtml", "@section Foo { <p>x</p> }", Options{})
	assert.Zero(t, tree.Diagnostics().Len())
	sections := blocksOf(tree.Root(), syntax.SectionBlock)
	require.Len(t, sections, 1)
	assert.Equal(t, syntax.Section{Name: "Foo"}, sections[0].Generator())
	assert.Len(t, blocksOf(sections[0], syntax.TagBlock), 2)

	tree = ParseString("test.cshtml", "@section Foo { @section Bar { } }", Options{})
	assert.Contains(t, tagsOf(tree.Diagnostics()), report.TagSectionsCannotBeNested)

	tree = ParseString("test.cshtml", "@section 9 { }", Options{})
	assert.Contains(t, tagsOf(tree.Diagnostics()), report.TagUnexpectedCharacterAtSectionNameStart)

	tree = ParseString("test.cshtml", "@section Foo { <p>", Options{})
	assert.Contains(t, tagsOf(tree.Diagnostics()), report.TagExpectedEndOfBlockBeforeEOF)
}

func TestFunctions(t *testing.T) {
	t.Parallel()

	tree := ParseString("test.cshtml", "@functions { int x; }", Options{})
	assert.Zero(t, tree.Diagnostics().Len())
	blocks := blocksOf(tree.Root(), syntax.FunctionsBlock)
	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"Transition:@", "MetaCode:functions {", "Code: int x; ", "MetaCode:}"}, spansOf(blocks[0]))
}

func TestInherits(t *testing.T) {
	t.Parallel()

	tree := ParseString("test.cshtml", "@inherits Foo.Bar<Baz>", Options{})
	assert.Zero(t, tree.Diagnostics().Len())
	dirs := blocksOf(tree.Root(), syntax.DirectiveBlock)
	require.Len(t, dirs, 1)
	assert.Equal(t, syntax.SetBaseType{BaseType: "Foo.Bar<Baz>"}, dirs[0].LastSpan().Generator())

	tree = ParseString("test.cshtml", "@inherits\n", Options{})
	assert.Contains(t, tagsOf(tree.Diagnostics()), report.TagInheritsMustBeFollowedByTypeName)
}

func TestTagHelperDirectives(t *testing.T) {
	t.Parallel()

	tree := ParseString("test.cshtml", "@addTagHelper \"*, Foo\"", Options{})
	assert.Zero(t, tree.Diagnostics().Len())
	dirs := blocksOf(tree.Root(), syntax.DirectiveBlock)
	require.Len(t, dirs, 1)
	assert.Equal(t, syntax.AddTagHelper{LookupText: "*, Foo"}, dirs[0].LastSpan().Generator())

	tree = ParseString("test.cshtml", "@tagHelperPrefix th:", Options{})
	assert.Zero(t, tree.Diagnostics().Len())
	dirs = blocksOf(tree.Root(), syntax.DirectiveBlock)
	require.Len(t, dirs, 1)
	assert.Equal(t, syntax.TagHelperPrefix{Prefix: "th:"}, dirs[0].LastSpan().Generator())

	tree = ParseString("test.cshtml", "@removeTagHelper", Options{})
	assert.Equal(t, []report.Tag{report.TagDirectiveMustHaveValue}, tagsOf(tree.Diagnostics()))
}

func TestDirectiveQuoting(t *testing.T) {
	t.Parallel()

	tree := ParseString("test.cshtml", "@addTagHelper \"Foo", Options{})
	diags := tree.Diagnostics().Diagnostics
	require.Len(t, diags, 2)
	assert.Equal(t, report.TagUnterminatedStringLiteral, diags[0].Tag())
	assert.Equal(t, 14, diags[0].Location().AbsoluteIndex)
	assert.Equal(t, report.TagIncompleteQuotesAroundDirective, diags[1].Tag())
	assert.Equal(t, 14, diags[1].Location().AbsoluteIndex)

	dirs := blocksOf(tree.Root(), syntax.DirectiveBlock)
	require.Len(t, dirs, 1)
	code := dirs[0].LastSpan()
	assert.Equal(t, syntax.Code, code.Kind())
	assert.Equal(t, `"Foo`, code.Content())
}

func TestRazorComment(t *testing.T) {
	t.Parallel()

	tree := ParseString("test.cshtml", "a@* b *@c", Options{})
	assert.Zero(t, tree.Diagnostics().Len())
	comments := blocksOf(tree.Root(), syntax.CommentBlock)
	require.Len(t, comments, 1)
	assert.Equal(t, []string{"Transition:@", "MetaCode:*", "Comment: b ", "MetaCode:*", "Transition:@"}, spansOf(comments[0]))

	tree = ParseString("test.cshtml", "@* b", Options{})
	assert.Equal(t, []report.Tag{report.TagRazorCommentNotTerminated}, tagsOf(tree.Diagnostics()))
}

func TestTagBalance(t *testing.T) {
	t.Parallel()

	block, r := parseMarkupBlock(t, "<a><b></b></a><c></c>")
	assert.Zero(t, r.Len())
	var tags []string
	for _, tag := range blocksOf(block, syntax.TagBlock) {
		tags = append(tags, tag.Content())
	}
	assert.Equal(t, []string{"<a>", "<b>", "</b>", "</a>"}, tags)
}

func TestMissingEndTag(t *testing.T) {
	t.Parallel()

	_, r := parseMarkupBlock(t, "<p><foo></bar>")
	require.NotZero(t, r.Len())
	d := r.Diagnostics[0]
	assert.Equal(t, report.TagMissingEndTag, d.Tag())
	assert.Equal(t, 1, d.Location().AbsoluteIndex)
	assert.Equal(t, 1, d.Length())
}

func TestCommentTermination(t *testing.T) {
	t.Parallel()

	block, r := parseMarkupBlock(t, "<!--<foo></bar-->-->")
	assert.Zero(t, r.Len())
	assert.Equal(t, "<!--<foo></bar-->", block.Content())
}

func TestTextTag(t *testing.T) {
	t.Parallel()

	tree := ParseString("test.cshtml", "@{ <text>hello</text> }", Options{})
	assert.Zero(t, tree.Diagnostics().Len())
	tags := blocksOf(tree.Root(), syntax.TagBlock)
	require.Len(t, tags, 2)
	for _, tag := range tags {
		for span := range tag.Spans {
			assert.Equal(t, syntax.Transition, span.Kind())
		}
	}
}

func TestKeywords(t *testing.T) {
	t.Parallel()

	for _, word := range []string{"if", "section", "addTagHelper", "functions", "using", "helper", "class", "default"} {
		assert.True(t, IsKeyword(word), word)
	}
	for _, word := range []string{"foo", "await", "true", "null", ""} {
		assert.False(t, IsKeyword(word), word)
	}
}

func TestUnfinishedTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text   string
		at     int
		length int
	}{
		{"<foo bar=baz", 1, 3},
		{"<   ", 1, 1},
	}
	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			t.Parallel()
			_, r := parseMarkupBlock(t, test.text)
			require.NotZero(t, r.Len())
			d := r.Diagnostics[0]
			assert.Equal(t, report.TagUnfinishedTag, d.Tag())
			assert.Equal(t, test.at, d.Location().AbsoluteIndex)
			assert.Equal(t, test.length, d.Length())
		})
	}
}

func TestMarkupBlockMustStartWithTag(t *testing.T) {
	t.Parallel()

	_, r := parseMarkupBlock(t, "foo bar")
	require.NotZero(t, r.Len())
	d := r.Diagnostics[0]
	assert.Equal(t, report.TagMarkupBlockMustStartWithTag, d.Tag())
	assert.Equal(t, 0, d.Location().AbsoluteIndex)
	assert.Equal(t, 3, d.Length())
}

func TestUnexpectedEndTag(t *testing.T) {
	t.Parallel()

	_, r := parseMarkupBlock(t, "</p>")
	require.NotZero(t, r.Len())
	d := r.Diagnostics[0]
	assert.Equal(t, report.TagUnexpectedEndTag, d.Tag())
	assert.Equal(t, 2, d.Location().AbsoluteIndex)
}

func TestTextTagCannotContainAttributes(t *testing.T) {
	t.Parallel()

	text := `@{ <text foo="bar">hi</text> }`
	tree := ParseString("test.cshtml", text, Options{})
	checkLossless(t, text, tree)
	assert.Contains(t, tagsOf(tree.Diagnostics()), report.TagTextTagCannotContainAttributes)
}

func TestInlineMarkupBlocksCannotBeNested(t *testing.T) {
	t.Parallel()

	text := "@Html.Foo(@<p>@Html.Bar(@<b>y</b>)</p>)"
	tree := ParseString("test.cshtml", text, Options{})
	checkLossless(t, text, tree)

	var found bool
	for i := range tree.Diagnostics().Diagnostics {
		d := &tree.Diagnostics().Diagnostics[i]
		if d.Is(report.TagInlineMarkupBlocksCannotBeNested) {
			found = true
			assert.Equal(t, 24, d.Location().AbsoluteIndex)
			assert.Equal(t, 1, d.Length())
		}
	}
	assert.True(t, found)
}

func TestUsingStatic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text      string
		namespace string
	}{
		{"@using static System.Math\n", " static System.Math"},
		{"@using M = System.Math\n", " M = System.Math"},
	}
	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			t.Parallel()
			tree := ParseString("test.cshtml", test.text, Options{})
			checkLossless(t, test.text, tree)
			assert.Zero(t, tree.Diagnostics().Len())

			dirs := blocksOf(tree.Root(), syntax.DirectiveBlock)
			require.Len(t, dirs, 1)
			var gen syntax.ChunkGenerator
			for span := range dirs[0].Spans {
				if g, ok := span.Generator().(syntax.AddImport); ok {
					gen = g
				}
			}
			assert.Equal(t, syntax.AddImport{Namespace: test.namespace, KeywordLength: 5}, gen)
		})
	}
}

func TestSpecialTags(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		"<!--- x --->",
		`<?xml version="1.0" encoding="utf-8"?>`,
	} {
		t.Run(text, func(t *testing.T) {
			t.Parallel()
			block, r := parseMarkupBlock(t, text)
			assert.Zero(t, r.Len())
			assert.Equal(t, text, block.Content())

			tree := ParseString("test.cshtml", text, Options{})
			checkLossless(t, text, tree)
			assert.Zero(t, tree.Diagnostics().Len())
		})
	}
}

func TestEscapedTransitions(t *testing.T) {
	t.Parallel()

	tree := ParseString("test.cshtml", "@@@@x", Options{})
	checkLossless(t, "@@@@x", tree)
	assert.Zero(t, tree.Diagnostics().Len())
	assert.Empty(t, blocksOf(tree.Root(), syntax.ExpressionBlock))

	tree = ParseString("test.cshtml", "@@@x", Options{})
	checkLossless(t, "@@@x", tree)
	exprs := blocksOf(tree.Root(), syntax.ExpressionBlock)
	require.Len(t, exprs, 1)
	assert.Equal(t, "@x", exprs[0].Content())
}
