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

package razor

import (
	"context"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/bufbuild/razor/editor"
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/syntax"
	"github.com/bufbuild/razor/taghelper"
)

func mapLoader(docs map[string]string) Loader {
	return LoaderFunc(func(path string) (io.ReadCloser, error) {
		text, ok := docs[path]
		if !ok {
			return nil, errors.WithStack(fs.ErrNotExist)
		}
		return io.NopCloser(strings.NewReader(text)), nil
	})
}

func catalog() taghelper.Resolver {
	return &taghelper.CatalogResolver{Catalog: []taghelper.Descriptor{
		{TagName: "p", TypeName: "App.PTagHelper", AssemblyName: "App"},
	}}
}

func tagHelpers(tree *syntax.Tree) []syntax.TagHelper {
	var found []syntax.TagHelper
	syntax.Walk(tree.Root(), func(n syntax.Node) bool {
		if b, ok := n.(*syntax.Block); ok && b.Type() == syntax.TagHelperBlock {
			if gen, ok := b.Generator().(syntax.TagHelper); ok {
				found = append(found, gen)
			}
		}
		return true
	})
	return found
}

func TestEngineParse(t *testing.T) {
	t.Parallel()

	var engine Engine
	text := "<p>Hello @name!</p>"
	tree := engine.Parse("index.cshtml", text)
	assert.Equal(t, text, tree.Content())
	assert.Empty(t, tree.Diagnostics().Diagnostics)
	assert.Empty(t, tagHelpers(tree))
}

func TestEngineParseBindsTagHelpers(t *testing.T) {
	t.Parallel()

	engine := Engine{Resolver: catalog()}
	text := "@addTagHelper *, App\n<p>Hello</p>"
	tree := engine.Parse("index.cshtml", text)
	assert.Equal(t, text, tree.Content())
	assert.Empty(t, tree.Diagnostics().Diagnostics)

	helpers := tagHelpers(tree)
	require.Len(t, helpers, 1)
	assert.Equal(t, "p", helpers[0].TagName)
	assert.Equal(t, []string{"App.PTagHelper"}, helpers[0].TypeNames)
}

func TestEngineParseWithoutDirective(t *testing.T) {
	t.Parallel()

	engine := Engine{Resolver: catalog()}
	tree := engine.Parse("index.cshtml", "<p>Hello</p>")
	assert.Empty(t, tagHelpers(tree))
}

func TestEngineParseFiles(t *testing.T) {
	t.Parallel()

	docs := map[string]string{
		"a.cshtml": "<p>@a</p>",
		"b.cshtml": "@{ var b = 1; }",
		"c.cshtml": "@addTagHelper *, App\n<p></p>",
	}
	engine := Engine{
		Loader:         mapLoader(docs),
		Resolver:       catalog(),
		MaxParallelism: 2,
	}
	results, err := engine.ParseFiles(context.Background(), "a.cshtml", "b.cshtml", "c.cshtml")
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, path := range []string{"a.cshtml", "b.cshtml", "c.cshtml"} {
		assert.Equal(t, path, results[i].File.Path())
		assert.Equal(t, docs[path], results[i].Tree.Content())
	}
	assert.Len(t, tagHelpers(results[2].Tree), 1)
}

func TestEngineParseFilesMissing(t *testing.T) {
	t.Parallel()

	engine := Engine{Loader: mapLoader(map[string]string{"a.cshtml": "a"})}
	results, err := engine.ParseFiles(context.Background(), "missing.cshtml", "a.cshtml", "gone.cshtml")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "missing.cshtml")
	assert.Contains(t, err.Error(), "gone.cshtml")

	require.Len(t, results, 3)
	assert.Equal(t, Result{}, results[0])
	assert.Equal(t, Result{}, results[2])
	require.NotNil(t, results[1].Tree)
	assert.Equal(t, "a", results[1].Tree.Content())
}

func TestEngineParseFilesCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	engine := Engine{Loader: mapLoader(map[string]string{"a.cshtml": "a"})}
	_, err := engine.ParseFiles(ctx, "a.cshtml")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSourceLoader(t *testing.T) {
	t.Parallel()

	docs := map[string]string{
		filepath.Join("views", "shared", "layout.cshtml"): "layout",
		filepath.Join("pages", "index.cshtml"):            "index",
	}
	loader := &SourceLoader{
		Roots: []string{filepath.Join("views", "shared"), "pages"},
		Accessor: func(path string) (io.ReadCloser, error) {
			return mapLoader(docs).Open(path)
		},
	}

	for path, want := range map[string]string{"layout.cshtml": "layout", "index.cshtml": "index"} {
		r, err := loader.Open(path)
		require.NoError(t, err)
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}

	_, err := loader.Open("other.cshtml")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestCompositeLoader(t *testing.T) {
	t.Parallel()

	loader := CompositeLoader{
		mapLoader(map[string]string{"a": "first"}),
		mapLoader(map[string]string{"a": "second", "b": "b"}),
	}
	r, err := loader.Open("a")
	require.NoError(t, err)
	data, _ := io.ReadAll(r)
	assert.Equal(t, "first", string(data))

	r, err = loader.Open("b")
	require.NoError(t, err)
	data, _ = io.ReadAll(r)
	assert.Equal(t, "b", string(data))

	_, err = loader.Open("c")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = CompositeLoader(nil).Open("a")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestEngineNewEditorParser(t *testing.T) {
	t.Parallel()

	events := make(chan editor.DocumentParseComplete, 8)
	engine := Engine{Resolver: catalog()}
	p, err := engine.NewEditorParser(context.Background(), "index.cshtml", func(e editor.DocumentParseComplete) {
		events <- e
	})
	require.NoError(t, err)
	defer func() { assert.NoError(t, p.Close()) }()

	text := "@addTagHelper *, App\n<p>Hello</p>"
	change, err := source.Insert("", 0, text)
	require.NoError(t, err)
	result, err := p.CheckForStructureChanges(change)
	require.NoError(t, err)
	assert.True(t, result.Has(editor.Rejected))

	select {
	case event := <-events:
		assert.True(t, event.TreeStructureChanged)
		assert.Equal(t, text, event.Tree.Content())
		assert.Len(t, tagHelpers(event.Tree), 1)
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for a full parse")
	}
}
