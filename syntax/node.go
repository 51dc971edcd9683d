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
	"slices"
	"strings"

	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/token"
)

// Node is either a [*Span] or a [*Block].
type Node interface {
	// Start returns the location of the first byte of this node.
	Start() source.Location
	// Length returns the length of this node's text in bytes.
	Length() int
	// Content returns this node's text.
	Content() string

	isNode()
}

// Span is a leaf of the syntax tree: a contiguous run of symbols.
type Span struct {
	kind      SpanKind
	start     source.Location
	symbols   []token.Symbol
	generator ChunkGenerator
	edit      EditHandler

	content string
}

// Block is an interior node of the syntax tree.
type Block struct {
	typ       BlockType
	children  []Node
	generator ChunkGenerator
}

func (*Span) isNode()  {}
func (*Block) isNode() {}

// Kind returns what kind of text this span holds.
func (s *Span) Kind() SpanKind { return s.kind }

// Start implements [Node].
func (s *Span) Start() source.Location { return s.start }

// Symbols returns this span's symbols. The slice must not be modified.
func (s *Span) Symbols() []token.Symbol { return s.symbols }

// Generator returns this span's chunk generator.
func (s *Span) Generator() ChunkGenerator { return s.generator }

// EditHandler returns this span's incremental-edit policy.
func (s *Span) EditHandler() EditHandler { return s.edit }

// Content implements [Node].
func (s *Span) Content() string { return s.content }

// Length implements [Node].
func (s *Span) Length() int { return len(s.content) }

// End returns the location just past this span.
func (s *Span) End() source.Location {
	return s.start.Advance(s.content)
}

// Equivalent returns whether two spans have the same kind, location, edit
// handler and content. Chunk generators are not compared.
func (s *Span) Equivalent(that *Span) bool {
	return s.kind == that.kind &&
		s.start == that.start &&
		s.edit == that.edit &&
		s.content == that.content
}

// Equal is like [Span.Equivalent], but also compares chunk generators and
// individual symbols.
func (s *Span) Equal(that *Span) bool {
	return s.Equivalent(that) &&
		GeneratorsEqual(s.generator, that.generator) &&
		slices.Equal(s.symbols, that.symbols)
}

// Type returns this block's semantic type.
func (b *Block) Type() BlockType { return b.typ }

// Children returns this block's children. The slice must not be modified.
func (b *Block) Children() []Node { return b.children }

// Generator returns this block's chunk generator.
func (b *Block) Generator() ChunkGenerator { return b.generator }

// Start implements [Node]. An empty block starts at [source.Undefined].
func (b *Block) Start() source.Location {
	for _, child := range b.children {
		return child.Start()
	}
	return source.Undefined
}

// Length implements [Node].
func (b *Block) Length() int {
	n := 0
	for _, child := range b.children {
		n += child.Length()
	}
	return n
}

// Content implements [Node].
func (b *Block) Content() string {
	var out strings.Builder
	for span := range b.Spans {
		out.WriteString(span.content)
	}
	return out.String()
}

// Spans yields every span under this block, in document order.
func (b *Block) Spans(yield func(*Span) bool) {
	b.spans(yield)
}

func (b *Block) spans(yield func(*Span) bool) bool {
	for _, child := range b.children {
		switch child := child.(type) {
		case *Span:
			if !yield(child) {
				return false
			}
		case *Block:
			if !child.spans(yield) {
				return false
			}
		}
	}
	return true
}

// Flatten returns every span under this block, in document order.
func (b *Block) Flatten() []*Span {
	var out []*Span
	for span := range b.Spans {
		out = append(out, span)
	}
	return out
}

// FirstSpan returns the first span under this block, if any.
func (b *Block) FirstSpan() *Span {
	for span := range b.Spans {
		return span
	}
	return nil
}

// LastSpan returns the last span under this block, if any.
func (b *Block) LastSpan() *Span {
	for i := len(b.children) - 1; i >= 0; i-- {
		switch child := b.children[i].(type) {
		case *Span:
			return child
		case *Block:
			if last := child.LastSpan(); last != nil {
				return last
			}
		}
	}
	return nil
}

// Equivalent returns whether two blocks have the same type and chunk
// generator, and equivalent children.
func (b *Block) Equivalent(that *Block) bool {
	return b.equal(that, (*Span).Equivalent)
}

// Equal is like [Block.Equivalent], but compares spans with [Span.Equal].
func (b *Block) Equal(that *Block) bool {
	return b.equal(that, (*Span).Equal)
}

func (b *Block) equal(that *Block, spansEqual func(*Span, *Span) bool) bool {
	if b.typ != that.typ || len(b.children) != len(that.children) ||
		!GeneratorsEqual(b.generator, that.generator) {
		return false
	}
	for i, child := range b.children {
		switch child := child.(type) {
		case *Span:
			other, ok := that.children[i].(*Span)
			if !ok || !spansEqual(child, other) {
				return false
			}
		case *Block:
			other, ok := that.children[i].(*Block)
			if !ok || !child.equal(other, spansEqual) {
				return false
			}
		}
	}
	return true
}

// Walk calls visit for every node under (and including) root, in document
// order, stopping early if visit returns false.
func Walk(root Node, visit func(Node) bool) bool {
	if !visit(root) {
		return false
	}
	if block, ok := root.(*Block); ok {
		for _, child := range block.children {
			if !Walk(child, visit) {
				return false
			}
		}
	}
	return true
}
