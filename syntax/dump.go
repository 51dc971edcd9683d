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
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump renders node and its descendants as an indented, human-readable
// outline, one node per line. Content is quoted so that whitespace and
// newlines are visible.
func Dump(node Node) string {
	var b strings.Builder
	_ = DumpTo(&b, node)
	return b.String()
}

// DumpTo is like [Dump], but writes to w.
func DumpTo(w io.Writer, node Node) error {
	d := dumper{w: w}
	d.node(node, 0)
	return d.err
}

type dumper struct {
	w   io.Writer
	err error
}

func (d *dumper) node(node Node, depth int) {
	if d.err != nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	switch node := node.(type) {
	case *Block:
		_, d.err = fmt.Fprintf(d.w, "%s%s Block - Gen<%s> - %d - %s\n",
			indent, node.typ, generatorString(node.generator), node.Length(), node.Start())
		for _, child := range node.children {
			d.node(child, depth+1)
		}
	case *Span:
		_, d.err = fmt.Fprintf(d.w, "%s%s span - Gen<%s> - [%s] - %s - %s - Symbols:%d\n",
			indent, node.kind, generatorString(node.generator), quote(node.content),
			node.edit, node.start, len(node.symbols))
	}
}

// quote escapes control characters without adding surrounding quotes.
func quote(s string) string {
	q := strconv.Quote(s)
	return q[1 : len(q)-1]
}
