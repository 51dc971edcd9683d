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


package main

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bufbuild/razor"
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/syntax"
)

// treeValue converts a parsed document into a JSON-shaped value.
func treeValue(result razor.Result) (*structpb.Value, error) {
	var diagnostics []any
	r := result.Tree.Diagnostics()
	for i := range r.Diagnostics {
		d := &r.Diagnostics[i]
		diagnostics = append(diagnostics, map[string]any{
			"level":    d.Level().String(),
			"tag":      string(d.Tag()),
			"message":  d.Message(),
			"location": locationValue(d.Location()),
			"length":   d.Length(),
		})
	}
	return structpb.NewValue(map[string]any{
		"path":        result.File.Path(),
		"root":        nodeValue(result.Tree.Root()),
		"diagnostics": diagnostics,
	})
}

func nodeValue(node syntax.Node) map[string]any {
	switch node := node.(type) {
	case *syntax.Span:
		v := map[string]any{
			"span":    node.Kind().String(),
			"start":   locationValue(node.Start()),
			"content": node.Content(),
		}
		if gen := node.Generator(); gen != nil {
			v["generator"] = gen.String()
		}
		return v
	case *syntax.Block:
		children := make([]any, 0, len(node.Children()))
		for _, child := range node.Children() {
			children = append(children, nodeValue(child))
		}
		v := map[string]any{
			"block":    node.Type().String(),
			"start":    locationValue(node.Start()),
			"length":   node.Length(),
			"children": children,
		}
		if gen := node.Generator(); gen != nil {
			v["generator"] = gen.String()
		}
		return v
	}
	return nil
}

func locationValue(loc source.Location) map[string]any {
	return map[string]any{
		"absolute":  loc.AbsoluteIndex,
		"line":      loc.LineIndex,
		"character": loc.CharacterIndex,
	}
}
