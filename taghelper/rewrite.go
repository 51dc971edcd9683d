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
	"slices"
	"strings"

	"github.com/bufbuild/razor/report"
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/syntax"
)

// Apply scans tree for tag helper directives, resolves them with a single
// call to resolver, and rewrites the tree with the resulting descriptors.
//
// The returned tree carries tree's diagnostics followed by any produced while
// resolving and rewriting.
func Apply(tree *syntax.Tree, resolver Resolver) *syntax.Tree {
	r := tree.Diagnostics().Clone()
	descriptors := resolver.Resolve(ResolutionContext{
		Directives: ScanDirectives(tree),
		Report:     r,
	})
	return rewrite(tree, descriptors, r)
}

// Rewrite converts markup tags in tree that match one of descriptors into
// [syntax.TagHelperBlock]s. The text of the tree is unchanged.
func Rewrite(tree *syntax.Tree, descriptors []Descriptor) *syntax.Tree {
	return rewrite(tree, descriptors, tree.Diagnostics().Clone())
}

func rewrite(tree *syntax.Tree, descriptors []Descriptor, r *report.Report) *syntax.Tree {
	if len(descriptors) == 0 {
		return syntax.NewTree(tree.Root(), r)
	}
	rw := &rewriter{descriptors: descriptors, report: r}
	return syntax.NewTree(rw.block(tree.Root(), ""), r)
}

type rewriter struct {
	descriptors []Descriptor
	report      *report.Report
}

// block rewrites the children of b. parent is the name of the closest
// enclosing element.
func (rw *rewriter) block(b *syntax.Block, parent string) *syntax.Block {
	if b.Type() == syntax.TagBlock {
		return b
	}
	children := rw.children(b.Children(), parent)
	if slices.Equal(children, b.Children()) {
		return b
	}
	builder := syntax.NewBlockBuilder(b)
	builder.Children = children
	return builder.Build()
}

func (rw *rewriter) children(nodes []syntax.Node, parent string) []syntax.Node {
	var (
		out  []syntax.Node
		open []string // Unbound elements opened among nodes.
	)
	enclosing := func() string {
		if len(open) > 0 {
			return open[len(open)-1]
		}
		return parent
	}

	for i := 0; i < len(nodes); i++ {
		block, ok := nodes[i].(*syntax.Block)
		if !ok {
			out = append(out, nodes[i])
			continue
		}
		if block.Type() != syntax.TagBlock {
			out = append(out, rw.block(block, enclosing()))
			continue
		}

		tag, ok := scanTag(block)
		if !ok {
			out = append(out, block)
			continue
		}
		if tag.end {
			if j := slices.IndexFunc(open, func(name string) bool { return strings.EqualFold(name, tag.name) }); j >= 0 {
				open = open[:j]
			}
			out = append(out, block)
			continue
		}

		matched := rw.match(tag, enclosing())
		if len(matched) == 0 {
			if !tag.selfClosing && !isVoidElement(tag.name) {
				open = append(open, tag.name)
			}
			out = append(out, block)
			continue
		}

		helper, next := rw.helper(tag, block, matched, nodes, i)
		out = append(out, helper)
		i = next - 1
	}
	return out
}

// match returns the descriptors that apply to tag.
func (rw *rewriter) match(tag tagInfo, parent string) []*Descriptor {
	attrs := make([]string, len(tag.attrs))
	for i, attr := range tag.attrs {
		attrs[i] = attr.Name
	}
	var matched []*Descriptor
	for i := range rw.descriptors {
		if d := &rw.descriptors[i]; d.appliesTo(tag.name, attrs, parent) {
			matched = append(matched, d)
		}
	}
	return matched
}

// helper builds the tag helper block for the start tag at nodes[i], and
// returns it together with the index of the first node after it.
func (rw *rewriter) helper(tag tagInfo, start *syntax.Block, matched []*Descriptor, nodes []syntax.Node, i int) (*syntax.Block, int) {
	prefix := matched[0].Prefix
	gen := syntax.TagHelper{
		TagName:    tag.name[len(prefix):],
		Attributes: tag.attrs,
	}
	for _, d := range matched {
		if !slices.Contains(gen.TypeNames, d.TypeName) {
			gen.TypeNames = append(gen.TypeNames, d.TypeName)
		}
	}
	slices.Sort(gen.TypeNames)

	rw.checkAttributes(start, matched)

	builder := &syntax.BlockBuilder{Type: syntax.TagHelperBlock, Generator: gen}
	builder.Add(start)

	withoutEndTag := !slices.ContainsFunc(matched, func(d *Descriptor) bool { return d.TagStructure != WithoutEndTag })
	switch {
	case tag.selfClosing:
		gen.Mode = syntax.SelfClosing
		builder.Generator = gen
		return builder.Build(), i + 1
	case withoutEndTag:
		gen.Mode = syntax.StartTagOnly
		builder.Generator = gen
		return builder.Build(), i + 1
	}

	end := findEndTag(tag.name, nodes, i+1)
	inner := nodes[i+1:]
	if end >= 0 {
		inner = nodes[i+1 : end]
	} else {
		rw.report.Error(report.ErrTagHelperMissingEndTag{Name: tag.name, At: tag.nameAt})
	}

	children := rw.children(inner, tag.name)
	rw.checkChildren(tag, matched, children)
	builder.Children = append(builder.Children, children...)
	if end < 0 {
		return builder.Build(), len(nodes)
	}
	builder.Add(nodes[end])
	return builder.Build(), end + 1
}

// checkAttributes reports code blocks in attributes bound to non-string
// properties.
func (rw *rewriter) checkAttributes(start *syntax.Block, matched []*Descriptor) {
	for _, child := range start.Children() {
		block, ok := child.(*syntax.Block)
		if !ok {
			continue
		}
		attr, ok := block.Generator().(syntax.Attribute)
		if !ok || !boundToNonString(attr.Name, matched) {
			continue
		}
		syntax.Walk(block, func(n syntax.Node) bool {
			if b, ok := n.(*syntax.Block); ok && b.Type() == syntax.StatementBlock {
				rw.report.Error(report.ErrTagHelperCodeInAttribute{At: b.Start(), Length: b.Length()})
				return false
			}
			return true
		})
	}
}

func boundToNonString(name string, matched []*Descriptor) bool {
	for _, d := range matched {
		if attr, ok := d.attribute(name); ok && !attr.IsStringProperty {
			return true
		}
	}
	return false
}

// checkChildren reports direct child elements that a helper does not allow.
func (rw *rewriter) checkChildren(tag tagInfo, matched []*Descriptor, children []syntax.Node) {
	var allowed []string
	for _, d := range matched {
		allowed = append(allowed, d.AllowedChildren...)
	}
	if len(allowed) == 0 {
		return
	}
	prefix := matched[0].Prefix

	for _, child := range children {
		block, ok := child.(*syntax.Block)
		if !ok {
			continue
		}
		if block.Type() == syntax.TagHelperBlock {
			block, _ = block.Children()[0].(*syntax.Block)
		}
		if block == nil || block.Type() != syntax.TagBlock {
			continue
		}
		childTag, ok := scanTag(block)
		if !ok || childTag.end {
			continue
		}
		name := trimPrefixFold(childTag.name, prefix)
		if !slices.ContainsFunc(allowed, func(a string) bool { return strings.EqualFold(a, name) }) {
			rw.report.Error(report.ErrTagHelperInvalidNestedTag{
				Name:    childTag.name,
				Parent:  tag.name,
				Allowed: allowed,
				At:      childTag.nameAt,
			})
		}
	}
}

// findEndTag returns the index of the end tag among nodes[from:] that closes
// an element named name, or -1.
func findEndTag(name string, nodes []syntax.Node, from int) int {
	depth := 0
	for i := from; i < len(nodes); i++ {
		block, ok := nodes[i].(*syntax.Block)
		if !ok || block.Type() != syntax.TagBlock {
			continue
		}
		tag, ok := scanTag(block)
		if !ok || !strings.EqualFold(tag.name, name) {
			continue
		}
		switch {
		case tag.end && depth == 0:
			return i
		case tag.end:
			depth--
		case !tag.selfClosing:
			depth++
		}
	}
	return -1
}

// tagInfo is what the rewriter needs to know about a tag.
type tagInfo struct {
	name   string
	nameAt source.Location
	attrs  []syntax.TagHelperAttribute

	end, selfClosing bool
}

// scanTag reads the name and attributes of a tag block. Returns false for
// text tags and tags escaped with '!'.
func scanTag(block *syntax.Block) (tagInfo, bool) {
	if first := block.FirstSpan(); first == nil || first.Kind() == syntax.Transition {
		return tagInfo{}, false
	}
	text := block.Content()
	if !strings.HasPrefix(text, "<") {
		return tagInfo{}, false
	}

	var tag tagInfo
	i := 1
	if i < len(text) && text[i] == '/' {
		tag.end = true
		i++
	}
	if i < len(text) && text[i] == '!' {
		return tagInfo{}, false
	}
	start := i
	for i < len(text) && !isTagNameEnd(text[i]) {
		i++
	}
	if i == start {
		return tagInfo{}, false
	}
	tag.name = text[start:i]
	tag.nameAt = block.Start().Advance(text[:start])
	if tag.end {
		return tag, true
	}

	tag.selfClosing = strings.HasSuffix(strings.TrimRight(text, " \t\r\n"), "/>")
	for i < len(text) {
		i = skipSpace(text, i)
		if i >= len(text) || text[i] == '>' {
			break
		}
		if text[i] == '/' {
			i++
			continue
		}

		start := i
		for i < len(text) && !isSpace(text[i]) && !strings.ContainsRune("=>/", rune(text[i])) {
			i++
		}
		if i == start {
			i++
			continue
		}
		attr := syntax.TagHelperAttribute{Name: text[start:i], Minimized: true}

		if j := skipSpace(text, i); j < len(text) && text[j] == '=' {
			i = skipSpace(text, j+1)
			attr.Minimized = false
			if i < len(text) && (text[i] == '"' || text[i] == '\'') {
				quote := text[i]
				end := strings.IndexByte(text[i+1:], quote)
				if end < 0 {
					attr.Value = text[i+1:]
					i = len(text)
				} else {
					attr.Value = text[i+1 : i+1+end]
					i += end + 2
				}
			} else {
				start := i
				for i < len(text) && !isSpace(text[i]) && text[i] != '>' {
					i++
				}
				attr.Value = text[start:i]
			}
		}
		tag.attrs = append(tag.attrs, attr)
	}
	return tag, true
}

func isTagNameEnd(c byte) bool {
	return isSpace(c) || c == '>' || c == '/' || c == '<'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f'
}

func skipSpace(text string, i int) int {
	for i < len(text) && isSpace(text[i]) {
		i++
	}
	return i
}

var voidElements = []string{
	"area", "base", "br", "col", "embed", "hr", "img", "input",
	"link", "meta", "param", "source", "track", "wbr",
}

func isVoidElement(name string) bool {
	return slices.ContainsFunc(voidElements, func(v string) bool { return strings.EqualFold(v, name) })
}
