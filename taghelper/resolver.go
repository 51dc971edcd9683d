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
	"unicode"

	"github.com/bufbuild/razor/report"
)

// invalidPrefixChars are the characters that cannot appear in a tag helper
// prefix, besides whitespace.
const invalidPrefixChars = `!@/<?[>]="'*`

// CatalogResolver resolves directives against a fixed set of descriptors.
//
// Lookup text has the form "typePattern, assemblyName". The type pattern is
// either a full type name, or a type name prefix followed by '*'; a lone '*'
// matches every type in the assembly.
type CatalogResolver struct {
	Catalog []Descriptor
}

var _ Resolver = (*CatalogResolver)(nil)

// Resolve implements [Resolver].
func (c *CatalogResolver) Resolve(ctx ResolutionContext) []Descriptor {
	r := ctx.Report
	if r == nil {
		r = new(report.Report)
	}

	var (
		resolved   []Descriptor
		prefix     string
		seenPrefix bool
	)
	for _, d := range ctx.Directives {
		if d.Kind == TagHelperPrefix {
			switch {
			case seenPrefix:
				r.Error(report.ErrDuplicateTagHelperPrefix{Directive: d.Kind.String(), At: d.At, Length: d.Length})
			case validPrefix(d, r):
				prefix = d.Text
			}
			seenPrefix = true
			continue
		}

		pattern, assembly, ok := parseLookupText(d.Text)
		if !ok {
			r.Error(report.ErrInvalidTagHelperLookupText{Text: d.Text, At: d.At, Length: d.Length})
			continue
		}
		matches, known := c.lookup(pattern, assembly)
		if !known {
			r.Error(report.ErrTagHelperUnresolvedAssembly{Assembly: assembly, At: d.At, Length: d.Length})
			continue
		}

		for _, m := range matches {
			i := slices.IndexFunc(resolved, func(x Descriptor) bool { return x.Equal(&m) })
			switch {
			case d.Kind == AddTagHelper && i < 0:
				resolved = append(resolved, m)
			case d.Kind == RemoveTagHelper && i >= 0:
				resolved = slices.Delete(resolved, i, i+1)
			}
		}
	}

	for i := range resolved {
		resolved[i] = resolved[i].withPrefix(prefix)
	}
	return resolved
}

// lookup returns the catalog entries in assembly whose type name matches
// pattern, and whether the assembly is in the catalog at all.
func (c *CatalogResolver) lookup(pattern, assembly string) (matches []Descriptor, known bool) {
	typePrefix, wildcard := strings.CutSuffix(pattern, "*")
	for _, d := range c.Catalog {
		if !strings.EqualFold(d.AssemblyName, assembly) {
			continue
		}
		known = true
		if (wildcard && strings.HasPrefix(d.TypeName, typePrefix)) || d.TypeName == pattern {
			matches = append(matches, d)
		}
	}
	return matches, known
}

// parseLookupText splits "typePattern, assemblyName".
func parseLookupText(text string) (pattern, assembly string, ok bool) {
	pattern, assembly, ok = strings.Cut(text, ",")
	pattern = strings.TrimSpace(pattern)
	assembly = strings.TrimSpace(assembly)
	if !ok || pattern == "" || assembly == "" || strings.Contains(assembly, ",") {
		return "", "", false
	}
	return pattern, assembly, true
}

func validPrefix(d DirectiveDescriptor, r *report.Report) bool {
	for _, c := range d.Text {
		if unicode.IsSpace(c) || strings.ContainsRune(invalidPrefixChars, c) {
			r.Error(report.ErrInvalidTagHelperPrefix{Prefix: d.Text, Char: c, At: d.At, Length: d.Length})
			return false
		}
	}
	return true
}
