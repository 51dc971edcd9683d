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
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// Loader locates the text of Razor documents by path.
type Loader interface {
	Open(path string) (io.ReadCloser, error)
}

// LoaderFunc adapts a function to the [Loader] interface.
type LoaderFunc func(string) (io.ReadCloser, error)

var _ Loader = LoaderFunc(nil)

// Open implements [Loader].
func (f LoaderFunc) Open(path string) (io.ReadCloser, error) {
	return f(path)
}

// CompositeLoader tries each of its loaders in turn, returning the first
// document found. If none finds it, the first error is returned.
type CompositeLoader []Loader

var _ Loader = CompositeLoader(nil)

// Open implements [Loader].
func (c CompositeLoader) Open(path string) (io.ReadCloser, error) {
	if len(c) == 0 {
		return nil, errors.WithStack(fs.ErrNotExist)
	}
	var firstErr error
	for _, l := range c {
		r, err := l.Open(path)
		if err == nil {
			return r, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// SourceLoader loads documents relative to a list of root directories.
type SourceLoader struct {
	// Directories searched in order. If empty, paths are opened as given.
	Roots []string
	// Opens a file. If nil, os.Open is used.
	Accessor func(string) (io.ReadCloser, error)
}

var _ Loader = (*SourceLoader)(nil)

// Open implements [Loader].
func (l *SourceLoader) Open(path string) (io.ReadCloser, error) {
	if len(l.Roots) == 0 {
		return l.access(path)
	}

	var e error
	for _, root := range l.Roots {
		r, err := l.access(filepath.Join(root, path))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				e = err
				continue
			}
			return nil, err
		}
		return r, nil
	}
	return nil, e
}

func (l *SourceLoader) access(path string) (io.ReadCloser, error) {
	if l.Accessor != nil {
		return l.Accessor(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return f, nil
}
