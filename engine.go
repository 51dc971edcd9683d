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
	"runtime"

	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/bufbuild/razor/editor"
	"github.com/bufbuild/razor/parser"
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/syntax"
	"github.com/bufbuild/razor/taghelper"
)

// Engine parses Razor documents and binds their tag helpers.
//
// The zero value is usable: it parses in runtime mode, resolves no tag
// helpers and loads files from the working directory.
type Engine struct {
	// Loader is used to read documents given to ParseFiles. If nil, a
	// [SourceLoader] with no roots is used.
	Loader Loader
	// Resolver turns the tag helper directives of a document into the set of
	// descriptors bound in it. If nil, no tag helpers are bound and the
	// directives are only parsed.
	Resolver taghelper.Resolver
	// DesignTime selects editor-oriented parsing. See [parser.Options].
	DesignTime bool
	// MaxParallelism is the maximum number of documents ParseFiles will
	// parse at once. If not positive, it defaults to the smaller of
	// runtime.GOMAXPROCS(0) and runtime.NumCPU().
	MaxParallelism int
}

// Result is a parsed document.
type Result struct {
	File *source.File
	Tree *syntax.Tree
}

// Parse parses text as the document at path.
//
// Syntax errors are diagnostics on the returned tree; Parse itself cannot
// fail.
func (e *Engine) Parse(path, text string) *syntax.Tree {
	return e.ParseFile(source.NewFile(path, text))
}

// ParseFile is like [Engine.Parse] for a file that has already been loaded.
func (e *Engine) ParseFile(file *source.File) *syntax.Tree {
	tree := parser.Parse(file, e.parseOptions())
	if e.Resolver != nil {
		tree = taghelper.Apply(tree, e.Resolver)
	}
	return tree
}

// ParseFiles loads and parses the given paths in parallel.
//
// Results are returned in the order of paths. A path that could not be
// loaded leaves a zero [Result] in its place, with a nil Tree, and
// contributes to the returned error, which combines every failure. Cancelling ctx stops documents that have not
// started yet from being parsed.
func (e *Engine) ParseFiles(ctx context.Context, paths ...string) ([]Result, error) {
	results := make([]Result, len(paths))
	errs := make([]error, len(paths))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(e.parallelism())
	for i, path := range paths {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = errors.WithStack(err)
				return nil
			}
			text, err := e.load(path)
			if err != nil {
				errs[i] = errors.Errorf("could not load %q: %w", path, err)
				return nil
			}
			file := source.NewFile(path, text)
			results[i] = Result{File: file, Tree: e.ParseFile(file)}
			return nil
		})
	}
	_ = group.Wait()

	var err error
	for _, failure := range errs {
		err = multierr.Append(err, failure)
	}
	return results, err
}

// NewEditorParser returns an incremental parser for the document at path,
// configured like this engine. onComplete, if not nil, is called after every
// full reparse.
//
// The parser must be closed once the editor is done with the document.
func (e *Engine) NewEditorParser(ctx context.Context, path string, onComplete func(editor.DocumentParseComplete)) (*editor.Parser, error) {
	return editor.NewParser(ctx, path, editor.Options{
		Parse:           e.parseOptions(),
		Resolver:        e.Resolver,
		OnParseComplete: onComplete,
	})
}

func (e *Engine) parseOptions() parser.Options {
	return parser.Options{DesignTime: e.DesignTime}
}

func (e *Engine) parallelism() int {
	if e.MaxParallelism > 0 {
		return e.MaxParallelism
	}
	return min(runtime.GOMAXPROCS(0), runtime.NumCPU())
}

func (e *Engine) load(path string) (string, error) {
	loader := e.Loader
	if loader == nil {
		loader = &SourceLoader{}
	}
	r, err := loader.Open(path)
	if err != nil {
		return "", err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(data), nil
}
