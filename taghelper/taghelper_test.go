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

package taghelper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/razor/parser"
	"github.com/bufbuild/razor/report"
	"github.com/bufbuild/razor/syntax"
)

var catalog = []Descriptor{
	{TagName: "p", TypeName: "Lib.PTagHelper", AssemblyName: "Lib"},
	{TagName: "input", TypeName: "Lib.InputTagHelper", AssemblyName: "Lib", TagStructure: WithoutEndTag,
		Attributes: []Attribute{{Name: "count", PropertyName: "Count", TypeName: "int"}}},
	{TagName: "form", TypeName: "Lib.FormTagHelper", AssemblyName: "Lib", RequiredAttributes: []string{"asp-*"}},
	{TagName: "ul", TypeName: "Lib.ListTagHelper", AssemblyName: "Lib", AllowedChildren: []string{"li"}},
	{TagName: "*", TypeName: "Other.CatchAllTagHelper", AssemblyName: "Other"},
}

func parse(t *testing.T, text string) *syntax.Tree {
	t.Helper()
	tree := parser.ParseString("test.cshtml", text, parser.Options{})
	require.Equal(t, text, tree.Content())
	return tree
}

func helpers(tree *syntax.Tree) []*syntax.Block {
	var out []*syntax.Block
	syntax.Walk(tree.Root(), func(n syntax.Node) bool {
		if b, ok := n.(*syntax.Block); ok && b.Type() == syntax.TagHelperBlock {
			out = append(out, b)
		}
		return true
	})
	return out
}

func tags(r *report.Report) []report.Tag {
	var out []report.Tag
	for _, d := range r.Diagnostics {
		out = append(out, d.Tag())
	}
	return out
}

func TestScanDirectives(t *testing.T) {
	t.Parallel()

	text := "@addTagHelper \"*, Lib\"\n" +
		"@removeTagHelper Lib.PTagHelper, Lib\n" +
		"@tagHelperPrefix th:\n" +
		"@addTagHelper   Other.Thing, Other  \n"
	tree := parse(t, text)

	var calls [][]DirectiveDescriptor
	resolver := ResolverFunc(func(ctx ResolutionContext) []Descriptor {
		calls = append(calls, ctx.Directives)
		return nil
	})
	Apply(tree, resolver)

	require.Len(t, calls, 1)
	got := calls[0]
	require.Len(t, got, 4)

	kinds := []DirectiveKind{got[0].Kind, got[1].Kind, got[2].Kind, got[3].Kind}
	texts := []string{got[0].Text, got[1].Text, got[2].Text, got[3].Text}
	assert.Equal(t, []DirectiveKind{AddTagHelper, RemoveTagHelper, TagHelperPrefix, AddTagHelper}, kinds)
	assert.Equal(t, []string{"*, Lib", "Lib.PTagHelper, Lib", "th:", "Other.Thing, Other"}, texts)

	// The reported location is that of the unquoted value.
	assert.Equal(t, len(`@addTagHelper "`), got[0].At.AbsoluteIndex)
	assert.Equal(t, len("*, Lib"), got[0].Length)
}

func TestScanDirectivesNone(t *testing.T) {
	t.Parallel()

	calls := 0
	tree := parse(t, "<p>@foo</p>")
	Apply(tree, ResolverFunc(func(ctx ResolutionContext) []Descriptor {
		calls++
		assert.Empty(t, ctx.Directives)
		return nil
	}))
	assert.Equal(t, 1, calls)
}

func resolve(directives ...DirectiveDescriptor) ([]Descriptor, *report.Report) {
	r := new(report.Report)
	resolver := &CatalogResolver{Catalog: catalog}
	return resolver.Resolve(ResolutionContext{Directives: directives, Report: r}), r
}

func typeNames(ds []Descriptor) []string {
	var out []string
	for _, d := range ds {
		out = append(out, d.TypeName)
	}
	return out
}

func TestCatalogResolver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		directives []DirectiveDescriptor
		want       []string
		prefix     string
		diags      []report.Tag
	}{
		{
			name:       "wildcard",
			directives: []DirectiveDescriptor{{Kind: AddTagHelper, Text: "*, Lib"}},
			want:       []string{"Lib.PTagHelper", "Lib.InputTagHelper", "Lib.FormTagHelper", "Lib.ListTagHelper"},
		},
		{
			name:       "prefix-wildcard",
			directives: []DirectiveDescriptor{{Kind: AddTagHelper, Text: "Lib.F*, Lib"}},
			want:       []string{"Lib.FormTagHelper"},
		},
		{
			name:       "exact",
			directives: []DirectiveDescriptor{{Kind: AddTagHelper, Text: "Lib.PTagHelper , lib"}},
			want:       []string{"Lib.PTagHelper"},
		},
		{
			name: "remove",
			directives: []DirectiveDescriptor{
				{Kind: AddTagHelper, Text: "*, Lib"},
				{Kind: RemoveTagHelper, Text: "Lib.InputTagHelper, Lib"},
				{Kind: AddTagHelper, Text: "*, Lib"},
				{Kind: RemoveTagHelper, Text: "Lib.*, Lib"},
				{Kind: AddTagHelper, Text: "Lib.PTagHelper, Lib"},
			},
			want: []string{"Lib.PTagHelper"},
		},
		{
			name: "prefix",
			directives: []DirectiveDescriptor{
				{Kind: AddTagHelper, Text: "Lib.PTagHelper, Lib"},
				{Kind: TagHelperPrefix, Text: "th:"},
			},
			want:   []string{"Lib.PTagHelper"},
			prefix: "th:",
		},
		{
			name: "duplicate-prefix",
			directives: []DirectiveDescriptor{
				{Kind: TagHelperPrefix, Text: "th:"},
				{Kind: AddTagHelper, Text: "Lib.PTagHelper, Lib"},
				{Kind: TagHelperPrefix, Text: "x:"},
			},
			want:   []string{"Lib.PTagHelper"},
			prefix: "th:",
			diags:  []report.Tag{report.TagDuplicateTagHelperPrefix},
		},
		{
			name: "invalid-prefix",
			directives: []DirectiveDescriptor{
				{Kind: TagHelperPrefix, Text: "th @"},
				{Kind: AddTagHelper, Text: "Lib.PTagHelper, Lib"},
			},
			want:  []string{"Lib.PTagHelper"},
			diags: []report.Tag{report.TagInvalidTagHelperPrefix},
		},
		{
			name: "invalid-lookup-text",
			directives: []DirectiveDescriptor{
				{Kind: AddTagHelper, Text: "Lib"},
				{Kind: AddTagHelper, Text: ", Lib"},
				{Kind: AddTagHelper, Text: "a, b, c"},
			},
			diags: []report.Tag{
				report.TagInvalidTagHelperLookupText,
				report.TagInvalidTagHelperLookupText,
				report.TagInvalidTagHelperLookupText,
			},
		},
		{
			name:       "unresolved-assembly",
			directives: []DirectiveDescriptor{{Kind: AddTagHelper, Text: "*, Missing"}},
			diags:      []report.Tag{report.TagTagHelperUnresolvedAssembly},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, r := resolve(test.directives...)
			assert.Equal(t, test.want, typeNames(got))
			assert.Equal(t, test.diags, tags(r))
			for _, d := range got {
				assert.Equal(t, test.prefix, d.Prefix)
			}
		})
	}
}

func TestDescriptorEqual(t *testing.T) {
	t.Parallel()

	a := catalog[1]
	b := catalog[1]
	b.Attributes = []Attribute{{Name: "count", PropertyName: "Count", TypeName: "int"}}
	assert.True(t, a.Equal(&b))

	b.PropertyBag = map[string]string{"k": "v"}
	assert.False(t, a.Equal(&b))

	b = a
	b.DesignTime = &DesignTime{Summary: "An input."}
	assert.False(t, a.Equal(&b))
	a.DesignTime = &DesignTime{Summary: "An input."}
	assert.True(t, a.Equal(&b))
}

func rewriteWith(t *testing.T, text string, resolved ...Descriptor) *syntax.Tree {
	t.Helper()
	tree := Rewrite(parse(t, text), resolved)
	assert.Equal(t, text, tree.Content())
	for _, helper := range helpers(tree) {
		var flat string
		for _, span := range helper.Flatten() {
			flat += span.Content()
		}
		assert.Equal(t, helper.Content(), flat)
	}
	return tree
}

func TestRewrite(t *testing.T) {
	t.Parallel()

	text := `<div><p class="a" hidden>hello <b>world</b></p></div>`
	tree := rewriteWith(t, text, catalog[0])

	found := helpers(tree)
	require.Len(t, found, 1)
	helper := found[0]
	assert.Equal(t, `<p class="a" hidden>hello <b>world</b></p>`, helper.Content())

	want := syntax.TagHelper{
		TagName:   "p",
		TypeNames: []string{"Lib.PTagHelper"},
		Mode:      syntax.StartTagAndEndTag,
		Attributes: []syntax.TagHelperAttribute{
			{Name: "class", Value: "a"},
			{Name: "hidden", Minimized: true},
		},
	}
	if diff := cmp.Diff(want, helper.Generator()); diff != "" {
		t.Errorf("generator mismatch (-want +got):\n%s", diff)
	}

	children := helper.Children()
	first, _ := children[0].(*syntax.Block)
	last, _ := children[len(children)-1].(*syntax.Block)
	require.NotNil(t, first)
	require.NotNil(t, last)
	assert.Equal(t, syntax.TagBlock, first.Type())
	assert.Equal(t, `<p class="a" hidden>`, first.Content())
	assert.Equal(t, "</p>", last.Content())
	assert.Empty(t, tree.Diagnostics().Diagnostics)
}

func TestRewriteNested(t *testing.T) {
	t.Parallel()

	tree := rewriteWith(t, "<p>a<p>b</p>c</p>", catalog[0])
	found := helpers(tree)
	require.Len(t, found, 2)
	assert.Equal(t, "<p>a<p>b</p>c</p>", found[0].Content())
	assert.Equal(t, "<p>b</p>", found[1].Content())
}

func TestRewriteModes(t *testing.T) {
	t.Parallel()

	tree := rewriteWith(t, `<p /><input count="1"><span></span>`, catalog[0], catalog[1])
	found := helpers(tree)
	require.Len(t, found, 2)

	p := found[0].Generator().(syntax.TagHelper)
	input := found[1].Generator().(syntax.TagHelper)
	assert.Equal(t, syntax.SelfClosing, p.Mode)
	assert.Equal(t, syntax.StartTagOnly, input.Mode)
	assert.Equal(t, `<input count="1">`, found[1].Content())
	assert.Empty(t, tree.Diagnostics().Diagnostics)
}

func TestRewriteMissingEndTag(t *testing.T) {
	t.Parallel()

	tree := rewriteWith(t, "<div><p>text</div>", catalog[0])
	found := helpers(tree)
	require.Len(t, found, 1)

	var diag *report.Diagnostic
	for i := range tree.Diagnostics().Diagnostics {
		if d := &tree.Diagnostics().Diagnostics[i]; d.Tag() == report.TagTagHelperMissingEndTag {
			diag = d
		}
	}
	require.NotNil(t, diag)
	assert.Equal(t, len("<div><"), diag.Location().AbsoluteIndex)
	assert.Equal(t, 1, diag.Length())
}

func TestRewritePrefix(t *testing.T) {
	t.Parallel()

	d := catalog[0].withPrefix("th:")
	tree := rewriteWith(t, "<p>plain</p><th:p>bound</th:p>", d)
	found := helpers(tree)
	require.Len(t, found, 1)
	assert.Equal(t, "<th:p>bound</th:p>", found[0].Content())
	assert.Equal(t, "p", found[0].Generator().(syntax.TagHelper).TagName)
}

func TestRewriteRequiredAttributes(t *testing.T) {
	t.Parallel()

	tree := rewriteWith(t, `<form></form><form asp-action="x"></form>`, catalog[2])
	found := helpers(tree)
	require.Len(t, found, 1)
	assert.Equal(t, `<form asp-action="x"></form>`, found[0].Content())
}

func TestRewriteAllowedChildren(t *testing.T) {
	t.Parallel()

	tree := rewriteWith(t, "<ul><li>a</li><p>b</p></ul>", catalog[3])
	assert.Equal(t, []report.Tag{report.TagTagHelperInvalidNestedTag}, tags(tree.Diagnostics()))
	assert.Equal(t, len("<ul><li>a</li><"), tree.Diagnostics().Diagnostics[0].Location().AbsoluteIndex)
}

func TestRewriteRequiredParent(t *testing.T) {
	t.Parallel()

	li := Descriptor{TagName: "li", TypeName: "Lib.ItemTagHelper", AssemblyName: "Lib", RequiredParent: "ol"}
	tree := rewriteWith(t, "<ul><li>a</li></ul><ol><li>b</li></ol>", li)
	found := helpers(tree)
	require.Len(t, found, 1)
	assert.Equal(t, "<li>b</li>", found[0].Content())
}

func TestRewriteUnbound(t *testing.T) {
	t.Parallel()

	text := "<div>@x</div>"
	tree := parse(t, text)
	assert.Same(t, tree.Root(), Rewrite(tree, nil).Root())
	assert.Empty(t, helpers(rewriteWith(t, "<!p></!p><div></div>", catalog[0])))
}

func TestApply(t *testing.T) {
	t.Parallel()

	text := "@addTagHelper *, Lib\n<p>hi</p>"
	tree := Apply(parse(t, text), &CatalogResolver{Catalog: catalog})
	assert.Equal(t, text, tree.Content())
	require.Len(t, helpers(tree), 1)
	assert.Empty(t, tree.Diagnostics().Diagnostics)
}
