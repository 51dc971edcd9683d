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

package editor

import (
	"strings"
)

// PartialParseResult describes what happened to a change passed to
// [Parser.CheckForStructureChanges]. Results are bit sets.
type PartialParseResult byte

const (
	// The change could not be applied to a single span; a full reparse has
	// been queued.
	Rejected PartialParseResult = 1 << iota
	// The change was applied to the owning span.
	Accepted
	// The change was accepted, but a later full parse may disagree.
	Provisional
	// The change turned the owning span into something else, such as an
	// identifier into a keyword.
	SpanContextChanged
	// The change was a newline typed where an editor should insert the end
	// of an unterminated block.
	AutoCompleteBlock
)

var resultNames = []string{
	"Rejected",
	"Accepted",
	"Provisional",
	"SpanContextChanged",
	"AutoCompleteBlock",
}

// Has returns whether all of flags are set.
func (r PartialParseResult) Has(flags PartialParseResult) bool {
	return r&flags == flags
}

// String implements [fmt.Stringer].
func (r PartialParseResult) String() string {
	if r == 0 {
		return "None"
	}
	var names []string
	for i, name := range resultNames {
		if r&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}
