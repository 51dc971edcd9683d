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
	"reflect"
	"strings"

	"github.com/bufbuild/razor/source"
)

// ChunkGenerator tags a node with what code generation should do with it.
//
// The set of generators is closed: only the types in this package implement
// it. A nil ChunkGenerator means the node produces no output of its own.
type ChunkGenerator interface {
	fmt.Stringer

	isChunkGenerator()
}

// GeneratorsEqual returns whether two generators are structurally equal.
func GeneratorsEqual(a, b ChunkGenerator) bool {
	return reflect.DeepEqual(a, b)
}

// Tagged is a string together with where it came from.
type Tagged struct {
	Value string
	At    source.Location
}

// String implements [fmt.Stringer].
func (t Tagged) String() string {
	return fmt.Sprintf("%q@%d", t.Value, t.At.AbsoluteIndex)
}

// MarkupChunk emits its span's text verbatim.
type MarkupChunk struct{}

// Statement emits its span's text as a code statement.
type Statement struct{}

// Expression emits its node as an expression whose value is written to the
// output. It is used both on expression blocks and on the code spans inside
// them.
type Expression struct{}

// TypeMember emits its span's text as members of the generated type.
type TypeMember struct{}

// AddImport emits a namespace import or alias.
type AddImport struct {
	// The trimmed text after the using keyword.
	Namespace string
	// The length of the keyword text, including the transition.
	KeywordLength int
}

// SetBaseType sets the base type of the generated type.
type SetBaseType struct {
	BaseType string
}

// AddTagHelper registers the tag helpers named by a lookup text.
type AddTagHelper struct {
	LookupText string
}

// RemoveTagHelper removes the tag helpers named by a lookup text.
type RemoveTagHelper struct {
	LookupText string
}

// TagHelperPrefix sets the prefix that tag helper tags must carry.
type TagHelperPrefix struct {
	Prefix string
}

// LiteralAttribute is a literal piece of an attribute value.
type LiteralAttribute struct {
	Prefix, Value Tagged
}

// Template is an inline template, @<p>...</p>, inside code.
type Template struct{}

// Section is the body of a @section directive.
type Section struct {
	Name string
}

// Attribute is a markup attribute whose value may contain code.
type Attribute struct {
	Name           string
	Prefix, Suffix Tagged
}

// DynamicAttribute is a code piece of an attribute value.
type DynamicAttribute struct {
	Prefix     Tagged
	ValueStart source.Location
}

// RazorComment is a @* ... *@ comment.
type RazorComment struct{}

// TagMode describes how a tag helper's element was written.
type TagMode byte

const (
	StartTagAndEndTag TagMode = iota
	SelfClosing
	StartTagOnly
)

// String implements [fmt.Stringer].
func (m TagMode) String() string {
	switch m {
	case StartTagAndEndTag:
		return "StartTagAndEndTag"
	case SelfClosing:
		return "SelfClosing"
	case StartTagOnly:
		return "StartTagOnly"
	default:
		return fmt.Sprintf("syntax.TagMode(%d)", int(m))
	}
}

// TagHelperAttribute is an attribute of a tag helper element.
type TagHelperAttribute struct {
	Name  string
	Value string
	// Set for attributes written without a value, like <input disabled>.
	Minimized bool
}

// TagHelper is an element bound to one or more tag helpers.
type TagHelper struct {
	TagName    string
	TypeNames  []string
	Mode       TagMode
	Attributes []TagHelperAttribute
}

func (MarkupChunk) isChunkGenerator()      {}
func (Statement) isChunkGenerator()        {}
func (Expression) isChunkGenerator()       {}
func (TypeMember) isChunkGenerator()       {}
func (AddImport) isChunkGenerator()        {}
func (SetBaseType) isChunkGenerator()      {}
func (AddTagHelper) isChunkGenerator()     {}
func (RemoveTagHelper) isChunkGenerator()  {}
func (TagHelperPrefix) isChunkGenerator()  {}
func (LiteralAttribute) isChunkGenerator() {}
func (Template) isChunkGenerator()         {}
func (Section) isChunkGenerator()          {}
func (Attribute) isChunkGenerator()        {}
func (DynamicAttribute) isChunkGenerator() {}
func (RazorComment) isChunkGenerator()     {}
func (TagHelper) isChunkGenerator()        {}

func (MarkupChunk) String() string { return "Markup" }
func (Statement) String() string   { return "Stmt" }
func (Expression) String() string  { return "Expr" }
func (TypeMember) String() string  { return "TypeMember" }
func (Template) String() string    { return "Template" }

func (g AddImport) String() string {
	return fmt.Sprintf("Import:%s;KwLen:%d", g.Namespace, g.KeywordLength)
}

func (g SetBaseType) String() string {
	return "Base:" + g.BaseType
}

func (g AddTagHelper) String() string {
	return "AddTagHelper:" + g.LookupText
}

func (g RemoveTagHelper) String() string {
	return "RemoveTagHelper:" + g.LookupText
}

func (g TagHelperPrefix) String() string {
	return "TagHelperPrefix:" + g.Prefix
}

func (g LiteralAttribute) String() string {
	return fmt.Sprintf("LitAttr:%s,%s", g.Prefix, g.Value)
}

func (g Section) String() string {
	return "Section:" + g.Name
}

func (g Attribute) String() string {
	return fmt.Sprintf("Attr:%s,%s,%s", g.Name, g.Prefix, g.Suffix)
}

func (g DynamicAttribute) String() string {
	return fmt.Sprintf("DynAttr:%s,%d", g.Prefix, g.ValueStart.AbsoluteIndex)
}

func (RazorComment) String() string { return "RazorComment" }

func (g TagHelper) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "TagHelper:%s;%s;[%s]", g.TagName, g.Mode, strings.Join(g.TypeNames, ","))
	for _, attr := range g.Attributes {
		if attr.Minimized {
			fmt.Fprintf(&b, " %s", attr.Name)
		} else {
			fmt.Fprintf(&b, " %s=%q", attr.Name, attr.Value)
		}
	}
	return b.String()
}

func generatorString(g ChunkGenerator) string {
	if g == nil {
		return "None"
	}
	return g.String()
}
