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

	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/token"
)

// SpanBuilder accumulates the symbols of a span under construction.
//
// Kind survives [SpanBuilder.Reset]; everything else is cleared.
type SpanBuilder struct {
	Kind      SpanKind
	Start     source.Location
	Generator ChunkGenerator
	Edit      EditHandler

	symbols []token.Symbol
}

// NewSpanBuilder returns a builder that starts out as a copy of span.
func NewSpanBuilder(span *Span) *SpanBuilder {
	return &SpanBuilder{
		Kind:      span.kind,
		Start:     span.start,
		Generator: span.generator,
		Edit:      span.edit,
		symbols:   slices.Clone(span.symbols),
	}
}

// Accept appends a symbol to the span. The first symbol accepted sets the
// span's start.
func (b *SpanBuilder) Accept(sym token.Symbol) {
	if len(b.symbols) == 0 {
		b.Start = sym.Start
	}
	b.symbols = append(b.symbols, sym)
}

// Symbols returns the symbols accepted so far.
func (b *SpanBuilder) Symbols() []token.Symbol {
	return b.symbols
}

// Content returns the text of the symbols accepted so far.
func (b *SpanBuilder) Content() string {
	return token.Content(b.symbols)
}

// Empty returns whether no symbols have been accepted.
func (b *SpanBuilder) Empty() bool {
	return len(b.symbols) == 0
}

// ClearSymbols discards every accepted symbol, keeping the rest of the
// configuration.
func (b *SpanBuilder) ClearSymbols() {
	b.symbols = nil
}

// Reset clears everything but Kind.
func (b *SpanBuilder) Reset() {
	b.symbols = nil
	b.Generator = nil
	b.Edit = EditHandler{}
	b.Start = source.Undefined
}

// Build freezes the builder's contents into a span. The builder's symbols
// are cleared; the rest of its configuration is kept.
func (b *SpanBuilder) Build() *Span {
	span := &Span{
		kind:      b.Kind,
		start:     b.Start,
		symbols:   b.symbols,
		generator: b.Generator,
		edit:      b.Edit,
		content:   token.Content(b.symbols),
	}
	if span.start.IsUndefined() {
		span.start = source.Zero
	}
	b.symbols = nil
	return span
}

// BlockBuilder accumulates the children of a block under construction.
type BlockBuilder struct {
	Type      BlockType
	Generator ChunkGenerator
	Children  []Node
}

// NewBlockBuilder returns a builder that starts out as a copy of block.
func NewBlockBuilder(block *Block) *BlockBuilder {
	return &BlockBuilder{
		Type:      block.typ,
		Generator: block.generator,
		Children:  slices.Clone(block.children),
	}
}

// Add appends a child.
func (b *BlockBuilder) Add(child Node) {
	b.Children = append(b.Children, child)
}

// Build freezes the builder's contents into a block.
func (b *BlockBuilder) Build() *Block {
	return &Block{
		typ:       b.Type,
		children:  slices.Clip(b.Children),
		generator: b.Generator,
	}
}
