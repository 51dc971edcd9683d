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

package syntax

import (
	"github.com/bufbuild/razor/internal/arena"
	"github.com/bufbuild/razor/internal/interval"
	"github.com/bufbuild/razor/report"
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/token"
)

// Tree is the result of parsing a document: a root block plus the
// diagnostics produced along the way.
//
// A Tree also indexes its spans so that an editor can navigate between
// neighboring spans and find the span at an offset. Trees are immutable;
// [Tree.Replace] produces a new generation.
type Tree struct {
	root        *Block
	diagnostics *report.Report

	// Spans, in document order. Pointer p+1 is the successor of p.
	spans   arena.Arena[spanEntry]
	index   map[*Span]arena.Pointer[spanEntry]
	parents map[*Block]*Block
	// Maps [start, end-1] of every non-empty span to its entry.
	offsets interval.Map[int, arena.Pointer[spanEntry]]
}

type spanEntry struct {
	span   *Span
	parent *Block
}

// NewTree indexes root. diagnostics may be nil.
func NewTree(root *Block, diagnostics *report.Report) *Tree {
	if diagnostics == nil {
		diagnostics = new(report.Report)
	}
	t := &Tree{
		root:        root,
		diagnostics: diagnostics,
		index:       make(map[*Span]arena.Pointer[spanEntry]),
		parents:     make(map[*Block]*Block),
	}
	t.build(root)
	return t
}

func (t *Tree) build(block *Block) {
	for _, child := range block.children {
		switch child := child.(type) {
		case *Span:
			p := t.spans.New(spanEntry{span: child, parent: block})
			t.index[child] = p
			if n := child.Length(); n > 0 {
				start := child.start.AbsoluteIndex
				if overlap := t.offsets.Insert(start, start+n-1, p); overlap.Value != nil {
					panic("razor/syntax: overlapping spans in tree")
				}
			}
		case *Block:
			t.parents[child] = block
			t.build(child)
		}
	}
}

// Root returns the root block.
func (t *Tree) Root() *Block {
	return t.root
}

// Diagnostics returns the diagnostics produced while parsing. The report
// must not be modified.
func (t *Tree) Diagnostics() *report.Report {
	return t.diagnostics
}

// Content returns the text of the whole tree.
func (t *Tree) Content() string {
	return t.root.Content()
}

// Len returns the number of spans in the tree.
func (t *Tree) Len() int {
	return t.spans.Len()
}

// Spans yields every span in document order.
func (t *Tree) Spans(yield func(*Span) bool) {
	for _, e := range t.spans.All() {
		if !yield(e.span) {
			return
		}
	}
}

// Contains returns whether span belongs to this tree.
func (t *Tree) Contains(span *Span) bool {
	_, ok := t.index[span]
	return ok
}

// Prev returns the span before span in document order, or nil.
func (t *Tree) Prev(span *Span) *Span {
	p, ok := t.index[span]
	if !ok || p.Prev().Nil() {
		return nil
	}
	return p.Prev().In(&t.spans).span
}

// Next returns the span after span in document order, or nil.
func (t *Tree) Next(span *Span) *Span {
	p, ok := t.index[span]
	if !ok || !t.spans.Contains(p.Next()) {
		return nil
	}
	return p.Next().In(&t.spans).span
}

// Parent returns the block that directly contains node, or nil for the root
// or for nodes not in this tree.
func (t *Tree) Parent(node Node) *Block {
	switch node := node.(type) {
	case *Span:
		if p, ok := t.index[node]; ok {
			return p.In(&t.spans).parent
		}
	case *Block:
		return t.parents[node]
	}
	return nil
}

// SpanAt returns the non-empty span containing the byte at offset, or nil.
func (t *Tree) SpanAt(offset int) *Span {
	iv := t.offsets.Get(offset)
	if iv.Value == nil {
		return nil
	}
	return iv.Value.In(&t.spans).span
}

// Locate returns the first span, in document order, that could be affected
// by an edit at offset and for which owns returns true.
//
// The candidates are every span that contains offset, starts at it, or ends
// at it.
func (t *Tree) Locate(offset int, owns func(*Span) bool) *Span {
	if t.spans.Len() == 0 {
		return nil
	}

	var p arena.Pointer[spanEntry]
	if iv := t.offsets.Get(offset); iv.Value != nil {
		p = *iv.Value
	} else if iv := t.offsets.Get(offset - 1); iv.Value != nil {
		p = *iv.Value
	} else {
		p = 1
	}
	// Back up over spans that end at offset.
	for prev := p.Prev(); !prev.Nil(); prev = prev.Prev() {
		span := prev.In(&t.spans).span
		if span.start.AbsoluteIndex+span.Length() < offset {
			break
		}
		p = prev
	}

	for ; t.spans.Contains(p); p = p.Next() {
		span := p.In(&t.spans).span
		if span.start.AbsoluteIndex > offset {
			break
		}
		if owns(span) {
			return span
		}
	}
	return nil
}

// Replace returns a new tree in which old has been replaced with
// replacement. Spans after old are relocated to follow replacement; blocks
// that contain no changed span are shared with this tree.
//
// Panics if old is not in this tree.
func (t *Tree) Replace(old, replacement *Span) *Tree {
	if !t.Contains(old) {
		panic("razor/syntax: replaced span is not in the tree")
	}
	r := replacer{old: old, replacement: replacement}
	return NewTree(r.block(t.root), t.diagnostics)
}

type replacer struct {
	old, replacement *Span

	found bool
	next  source.Location
}

func (r *replacer) block(b *Block) *Block {
	var children []Node
	for i, child := range b.children {
		var updated Node
		switch child := child.(type) {
		case *Span:
			updated = r.span(child)
		case *Block:
			updated = r.block(child)
		}
		if updated != child && children == nil {
			children = make([]Node, i, len(b.children))
			copy(children, b.children)
		}
		if children != nil {
			children = append(children, updated)
		}
	}
	if children == nil {
		return b
	}
	return &Block{typ: b.typ, children: children, generator: b.generator}
}

func (r *replacer) span(s *Span) *Span {
	switch {
	case s == r.old:
		r.found = true
		r.next = r.replacement.End()
		return r.replacement
	case !r.found || s.start == r.next:
		return s
	}

	moved := *s
	moved.start = r.next
	moved.symbols = make([]token.Symbol, len(s.symbols))
	at := r.next
	for i, sym := range s.symbols {
		moved.symbols[i] = sym.ChangeStart(at)
		at = at.Advance(sym.Content)
	}
	r.next = moved.End()
	return &moved
}
