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

// Package corpora runs table-driven tests whose table lives in a directory
// of files: each input file is a test case, and its expected outputs sit next
// to it under extra extensions.
package corpora

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"
)

// Corpus is a directory of test cases.
type Corpus struct {
	// The directory holding the cases, relative to the file that calls
	// [Corpus.Run].
	Root string
	// The filesystem to read cases from. Defaults to the OS filesystem.
	FS afero.Fs

	// An environment variable holding a glob. Cases matching it have their
	// expected outputs rewritten instead of compared.
	Refresh string

	// The extension, without a dot, of input files, e.g. "cshtml".
	Extension string
	// The outputs of each case. A missing output file means the output is
	// expected to be empty.
	Outputs []Output

	// Test runs one case and returns one string per element of Outputs.
	Test func(t *testing.T, path, text string) []string
}

// Output is one expected output of a case, stored at the case's path plus
// "." + Extension.
type Output struct {
	Extension string
	// Nil means byte-for-byte comparison.
	Compare Compare
}

// Compare returns an empty string when got matches want, and a description
// of the mismatch otherwise.
type Compare func(got, want string) string

// Run runs every case in the corpus as a subtest.
func (c Corpus) Run(t *testing.T) {
	fsys := c.FS
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	dir := callerDir(0)
	root := filepath.Join(dir, c.Root)

	var cases []string
	err := afero.Walk(fsys, root, func(p string, fi fs.FileInfo, err error) error {
		if err == nil && !fi.IsDir() && strings.TrimPrefix(filepath.Ext(p), ".") == c.Extension {
			cases = append(cases, p)
		}
		return err
	})
	if err != nil {
		t.Fatalf("corpora: walking %q: %v", root, err)
	}

	glob := os.Getenv(c.Refresh)
	if c.Refresh == "" {
		glob = ""
	}
	if glob != "" {
		if !doublestar.ValidatePattern(glob) {
			t.Fatalf("corpora: %s=%q is not a valid glob", c.Refresh, glob)
		}
		t.Logf("corpora: refreshing outputs matching %q", glob)
	}

	for _, path := range cases {
		name, _ := filepath.Rel(dir, path)
		t.Run(name, func(t *testing.T) {
			input, err := afero.ReadFile(fsys, path)
			if err != nil {
				t.Fatalf("corpora: reading %q: %v", path, err)
			}
			results := c.Test(t, name, string(input))
			refresh := glob != ""
			if refresh {
				refresh, _ = doublestar.Match(glob, name)
			}

			for i, output := range c.Outputs {
				c.check(t, fsys, fmt.Sprint(path, ".", output.Extension), output, results[i], refresh)
			}
		})
	}
}

func (c Corpus) check(t *testing.T, fsys afero.Fs, path string, output Output, got string, refresh bool) {
	t.Helper()

	if refresh {
		var err error
		if got == "" {
			err = fsys.Remove(path)
			if errors.Is(err, os.ErrNotExist) {
				err = nil
			}
		} else {
			err = afero.WriteFile(fsys, path, []byte(got), 0o644)
		}
		if err != nil {
			t.Errorf("corpora: refreshing %q: %v", path, err)
		}
		return
	}

	want, err := afero.ReadFile(fsys, path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		t.Errorf("corpora: reading %q: %v", path, err)
		return
	}
	compare := output.Compare
	if compare == nil {
		compare = Diff
	}
	if msg := compare(got, string(want)); msg != "" {
		t.Errorf("output mismatch for %q:\n%s", path, msg)
	}
}

// Diff compares byte-for-byte and describes a mismatch as a unified diff.
func Diff(got, want string) string {
	if got == want {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("corpora: could not determine the calling test's directory")
	}
	return filepath.Dir(file)
}
