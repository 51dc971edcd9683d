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
	"path"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// expand resolves each pattern to the files it matches, in order and
// without duplicates. A pattern without glob syntax names a file, which
// need not exist yet.
func expand(fs afero.Fs, patterns []string) ([]string, error) {
	var (
		out  []string
		seen = make(map[string]bool)
	)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		base, rest := doublestar.SplitPattern(pattern)
		if rest == "" || !hasMeta(rest) {
			out = appendNew(out, seen, filepath.FromSlash(pattern))
			continue
		}

		root := fs
		if base != "." {
			root = afero.NewBasePathFs(fs, filepath.FromSlash(base))
		}
		matches, err := doublestar.Glob(afero.NewIOFS(root), rest, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("no files match %q", pattern)
		}
		slices.Sort(matches)
		for _, m := range matches {
			if base != "." {
				m = path.Join(base, m)
			}
			out = appendNew(out, seen, filepath.FromSlash(m))
		}
	}
	return out, nil
}

func appendNew(out []string, seen map[string]bool, name string) []string {
	if seen[name] {
		return out
	}
	seen[name] = true
	return append(out, name)
}

func hasMeta(pattern string) bool {
	for i := range len(pattern) {
		switch pattern[i] {
		case '*', '?', '[', '{', '\\':
			return true
		}
	}
	return false
}
