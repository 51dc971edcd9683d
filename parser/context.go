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
	"github.com/bufbuild/razor/report"
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/syntax"
)

// Options configures a parse.
type Options struct {
	// DesignTime selects editor-oriented behavior. Whitespace in front of
	// markup inside code belongs to the code, and whitespace after blocks is
	// not folded into the surrounding markup.
	DesignTime bool
}

// Context is the state shared by the markup and code parsers while they parse
// one document.
type Context struct {
	file   *source.File
	src    *source.Reader
	report *report.Report
	opts   Options

	// The stack of blocks under construction; blocks[0] is the root.
	blocks   []*syntax.BlockBuilder
	lastSpan *syntax.Span

	// Set by single-line markup so that code does not swallow the newline
	// that ends it.
	whitespaceIsSignificantToAncestor bool
	// Set after a top-level code block that ends its line, so that the markup
	// parser emits the rest of that line as a span with no generator.
	nullGenerateWhitespaceAndNewLine bool
}

func newContext(file *source.File, opts Options) *Context {
	return &Context{
		file:   file,
		src:    source.NewReader(file),
		report: new(report.Report),
		opts:   opts,
	}
}

// File returns the document being parsed.
func (c *Context) File() *source.File {
	return c.file
}

// Report returns the error sink for this parse.
func (c *Context) Report() *report.Report {
	return c.report
}

// DesignTime returns whether this is a design-time parse.
func (c *Context) DesignTime() bool {
	return c.opts.DesignTime
}

// startBlock pushes a new block onto the stack.
func (c *Context) startBlock(typ syntax.BlockType) *syntax.BlockBuilder {
	b := &syntax.BlockBuilder{Type: typ}
	c.blocks = append(c.blocks, b)
	return b
}

// endBlock pops the current block and adds it to its parent. The root block
// is never popped; see [Context.build].
func (c *Context) endBlock() {
	switch len(c.blocks) {
	case 0:
		panic("razor/parser: endBlock called without a matching startBlock")
	case 1:
		return
	}
	top := c.blocks[len(c.blocks)-1]
	c.blocks = c.blocks[:len(c.blocks)-1]
	c.currentBlock().Add(top.Build())
}

func (c *Context) currentBlock() *syntax.BlockBuilder {
	if len(c.blocks) == 0 {
		panic("razor/parser: no block is under construction")
	}
	return c.blocks[len(c.blocks)-1]
}

// inBlock returns whether any block under construction has the given type.
func (c *Context) inBlock(typ syntax.BlockType) bool {
	for _, b := range c.blocks {
		if b.Type == typ {
			return true
		}
	}
	return false
}

func (c *Context) addSpan(span *syntax.Span) {
	c.currentBlock().Add(span)
	c.lastSpan = span
}

// lastAccepted returns the accepted characters of the most recently added
// span.
func (c *Context) lastAccepted() syntax.AcceptedCharacters {
	if c.lastSpan == nil {
		return syntax.AcceptsNone
	}
	return c.lastSpan.EditHandler().Accepted
}

func (c *Context) build() *syntax.Block {
	switch len(c.blocks) {
	case 0:
		panic("razor/parser: no root block")
	case 1:
		return c.blocks[0].Build()
	default:
		panic("razor/parser: blocks left open at the end of the document")
	}
}

// scope is an open block that can be ended at most once.
type scope struct {
	ctx   *Context
	block *syntax.BlockBuilder
	done  bool
}

// open starts a block and returns a scope that ends it.
func (c *Context) open(typ syntax.BlockType) *scope {
	return &scope{ctx: c, block: c.startBlock(typ)}
}

// end ends the block. Calling end on a nil or already ended scope does
// nothing.
func (s *scope) end() {
	if s == nil || s.done {
		return
	}
	s.done = true
	s.ctx.endBlock()
}
