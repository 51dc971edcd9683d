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
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/syntax"
)

// TreesAreDifferent returns whether updated differs in structure from the
// result of applying changes, in order, to the spans of old.
//
// Changes that only alter the text of the span that owns them leave the
// structure intact.
func TreesAreDifferent(old, updated *syntax.Tree, changes []source.TextChange) bool {
	tree := old
	for _, change := range changes {
		owner := locateOwner(tree, change)
		if owner == nil {
			return true
		}
		_, span := ApplyChange(owner, change, true)
		tree = tree.Replace(owner, span)
	}
	return !tree.Root().Equivalent(updated.Root())
}

// locateOwner returns the first span in tree that owns change.
func locateOwner(tree *syntax.Tree, change source.TextChange) *syntax.Span {
	return tree.Locate(change.OldPosition, func(span *syntax.Span) bool {
		return OwnsChange(span, change)
	})
}

// inTagHelper returns whether span is part of a tag helper element. Such
// spans are never edited in place.
func inTagHelper(tree *syntax.Tree, span *syntax.Span) bool {
	for block := tree.Parent(span); block != nil; block = tree.Parent(block) {
		if block.Type() == syntax.TagHelperBlock {
			return true
		}
	}
	return false
}
