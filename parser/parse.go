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

// Parse parses a Razor document.
//
// The returned tree always covers all of file; problems are recorded as
// diagnostics on the tree. A bug in the parser is reported as a diagnostic
// too, with whatever was built before it attached to the root.
func Parse(file *source.File, opts Options) (tree *syntax.Tree) {
	ctx := newContext(file, opts)
	markup := newMarkupParser(ctx)
	code := newCodeParser(ctx)
	markup.code = code
	code.markup = markup

	defer func() {
		if r := recover(); r != nil {
			ctx.report.Errorf("internal compiler error: %v", r).
				With(report.At(ctx.src.Location(), 0), report.Note("please report this as a bug"))
			tree = syntax.NewTree(ctx.salvage(), ctx.report)
		}
	}()

	markup.parseDocument()
	return syntax.NewTree(ctx.build(), ctx.report)
}

// ParseString is a shorthand for parsing text with the given path.
func ParseString(path, text string, opts Options) *syntax.Tree {
	return Parse(source.NewFile(path, text), opts)
}

// salvage closes every open block, for use after a panic.
func (c *Context) salvage() *syntax.Block {
	if len(c.blocks) == 0 {
		return (&syntax.BlockBuilder{Type: syntax.MarkupBlock}).Build()
	}
	for len(c.blocks) > 1 {
		c.endBlock()
	}
	return c.blocks[0].Build()
}
