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
	"fmt"
	"strings"

	"github.com/bufbuild/razor/report"
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/syntax"
)

// DirectiveKind is the kind of a tag helper directive.
type DirectiveKind int

const (
	AddTagHelper DirectiveKind = iota
	RemoveTagHelper
	TagHelperPrefix
)

// String implements [fmt.Stringer].
func (k DirectiveKind) String() string {
	switch k {
	case AddTagHelper:
		return "addTagHelper"
	case RemoveTagHelper:
		return "removeTagHelper"
	case TagHelperPrefix:
		return "tagHelperPrefix"
	default:
		return fmt.Sprintf("taghelper.DirectiveKind(%d)", int(k))
	}
}

// DirectiveDescriptor is one tag helper directive found in a document.
type DirectiveDescriptor struct {
	Kind DirectiveKind
	// The directive's value, without surrounding whitespace or quotes.
	Text string
	// Where the directive's value is written, for diagnostics.
	At     source.Location
	Length int
}

// ScanDirectives returns the tag helper directives in tree, in document
// order.
func ScanDirectives(tree *syntax.Tree) []DirectiveDescriptor {
	var out []DirectiveDescriptor
	for span := range tree.Spans {
		var d DirectiveDescriptor
		switch gen := span.Generator().(type) {
		case syntax.AddTagHelper:
			d = DirectiveDescriptor{Kind: AddTagHelper, Text: gen.LookupText}
		case syntax.RemoveTagHelper:
			d = DirectiveDescriptor{Kind: RemoveTagHelper, Text: gen.LookupText}
		case syntax.TagHelperPrefix:
			d = DirectiveDescriptor{Kind: TagHelperPrefix, Text: gen.Prefix}
		default:
			continue
		}
		d.At, d.Length = valueRange(span)
		out = append(out, d)
	}
	return out
}

// valueRange returns where the directive value in span starts, past any
// leading whitespace and quote, and its length.
func valueRange(span *syntax.Span) (source.Location, int) {
	content := span.Content()
	trimmed := strings.TrimLeft(content, " \t")
	lead := content[:len(content)-len(trimmed)]
	trimmed = strings.TrimRight(trimmed, " \t\r\n")
	if len(trimmed) >= 2 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
		lead += `"`
		trimmed = trimmed[1 : len(trimmed)-1]
	}
	return span.Start().Advance(lead), len(trimmed)
}

// ResolutionContext is the input to a [Resolver].
type ResolutionContext struct {
	// Every tag helper directive in the document, in document order.
	Directives []DirectiveDescriptor
	// Where resolution problems are reported.
	Report *report.Report
}

// Resolver turns a document's tag helper directives into the descriptors in
// scope for it. It is called once per document with all of its directives.
type Resolver interface {
	Resolve(ctx ResolutionContext) []Descriptor
}

// ResolverFunc adapts a function to [Resolver].
type ResolverFunc func(ResolutionContext) []Descriptor

// Resolve implements [Resolver].
func (f ResolverFunc) Resolve(ctx ResolutionContext) []Descriptor {
	return f(ctx)
}
