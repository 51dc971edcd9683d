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

package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bufbuild/razor/internal/corpora"
	"github.com/bufbuild/razor/parser"
)

func TestCorpus(t *testing.T) {
	t.Parallel()

	corpus := corpora.Corpus{
		Root:      "testdata",
		Refresh:   "RAZOR_REFRESH",
		Extension: "cshtml",
		Outputs: []corpora.Output{
			{Extension: "stderr.txt"},
		},
		Test: func(t *testing.T, path, text string) []string {
			tree := parser.ParseString(path, text, parser.Options{})
			assert.Equal(t, text, tree.Content())

			var stderr strings.Builder
			for i := range tree.Diagnostics().Diagnostics {
				stderr.WriteString(tree.Diagnostics().Diagnostics[i].String())
				stderr.WriteByte('\n')
			}
			return []string{stderr.String()}
		},
	}
	corpus.Run(t)
}
