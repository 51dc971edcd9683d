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
	"maps"
	"slices"
	"strings"
)

// TagStructure says how an element bound to a tag helper must be written.
type TagStructure int

const (
	// Unspecified allows any structure, but an end tag is required unless
	// the element is self-closing.
	Unspecified TagStructure = iota
	// NormalOrSelfClosing is <tag></tag> or <tag />.
	NormalOrSelfClosing
	// WithoutEndTag is <tag> or <tag />, never with an end tag.
	WithoutEndTag
)

// CatchAll is the tag name of a descriptor that applies to every element.
const CatchAll = "*"

// Attribute describes one attribute a tag helper binds to a property.
type Attribute struct {
	Name         string
	PropertyName string
	TypeName     string
	// Set when the property is a string, so the attribute value is text
	// rather than code.
	IsStringProperty bool
}

// DesignTime is editor-only information about a tag helper.
type DesignTime struct {
	Summary           string
	Remarks           string
	OutputElementHint string
}

// Descriptor describes a tag helper and the elements it applies to.
//
// Descriptors are values: they are compared with [Descriptor.Equal] and never
// mutated once resolved.
type Descriptor struct {
	Prefix       string
	TagName      string
	TypeName     string
	AssemblyName string

	Attributes []Attribute
	// Attributes an element must have for this descriptor to apply. A
	// trailing '*' matches any attribute with that prefix.
	RequiredAttributes []string
	// If not empty, the only child elements allowed.
	AllowedChildren []string
	// If not empty, the tag name of the tag helper element this one must be
	// nested directly inside.
	RequiredParent string
	TagStructure   TagStructure

	DesignTime  *DesignTime
	PropertyBag map[string]string
}

// FullTagName is the tag name as written in a document, including the
// prefix.
func (d *Descriptor) FullTagName() string {
	return d.Prefix + d.TagName
}

// Equal returns whether two descriptors have structurally equal fields.
func (d *Descriptor) Equal(that *Descriptor) bool {
	if d == nil || that == nil {
		return d == that
	}
	return d.Prefix == that.Prefix &&
		d.TagName == that.TagName &&
		d.TypeName == that.TypeName &&
		d.AssemblyName == that.AssemblyName &&
		slices.Equal(d.Attributes, that.Attributes) &&
		slices.Equal(d.RequiredAttributes, that.RequiredAttributes) &&
		slices.Equal(d.AllowedChildren, that.AllowedChildren) &&
		d.RequiredParent == that.RequiredParent &&
		d.TagStructure == that.TagStructure &&
		designTimeEqual(d.DesignTime, that.DesignTime) &&
		maps.Equal(d.PropertyBag, that.PropertyBag)
}

func designTimeEqual(a, b *DesignTime) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// withPrefix returns a copy of d with the given prefix.
func (d Descriptor) withPrefix(prefix string) Descriptor {
	d.Prefix = prefix
	return d
}

// appliesTo returns whether d applies to an element with the given name,
// attribute names and enclosing element. name and parent include any prefix.
func (d *Descriptor) appliesTo(name string, attrs []string, parent string) bool {
	if !strings.HasPrefix(strings.ToLower(name), strings.ToLower(d.Prefix)) {
		return false
	}
	if d.TagName != CatchAll && !strings.EqualFold(name, d.FullTagName()) {
		return false
	}
	if d.RequiredParent != "" && !strings.EqualFold(trimPrefixFold(parent, d.Prefix), d.RequiredParent) {
		return false
	}
	for _, required := range d.RequiredAttributes {
		if !slices.ContainsFunc(attrs, func(attr string) bool { return attributeMatches(required, attr) }) {
			return false
		}
	}
	return true
}

func attributeMatches(pattern, name string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return len(name) > len(prefix) && strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix))
	}
	return strings.EqualFold(pattern, name)
}

// attribute returns the descriptor of the named attribute, if d binds it.
func (d *Descriptor) attribute(name string) (Attribute, bool) {
	for _, attr := range d.Attributes {
		if strings.EqualFold(attr.Name, name) {
			return attr, true
		}
	}
	return Attribute{}, false
}

func trimPrefixFold(s, prefix string) string {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):]
	}
	return s
}
