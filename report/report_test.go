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

package report_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/razor/report"
	"github.com/bufbuild/razor/source"
)

func TestReport(t *testing.T) {
	t.Parallel()

	r := new(report.Report)
	assert.False(t, r.HasErrors())

	r.Error(report.ErrMissingEndTag{Name: "p", At: source.NewLocation("", 10, 0, 10)})
	r.Error(report.ErrUnterminatedStringLiteral{At: source.NewLocation("", 2, 0, 2)})
	r.Errorf("something %s", "odd")

	require.Equal(t, 3, r.Len())
	assert.True(t, r.HasErrors())

	d := &r.Diagnostics[0]
	assert.True(t, d.Is(report.TagMissingEndTag))
	assert.Equal(t, 1, d.Length())
	assert.Contains(t, d.Message(), `"p" element was not closed`)

	assert.Equal(t, "something odd", r.Diagnostics[2].Message())
	assert.Empty(t, r.Diagnostics[2].Tag())

	clone := r.Clone()
	assert.True(t, r.Equal(clone))

	r.Sort()
	assert.Equal(t, 0, r.Diagnostics[0].Location().AbsoluteIndex)
	assert.True(t, r.Diagnostics[1].Is(report.TagUnterminatedStringLiteral))
	assert.False(t, r.Equal(clone))
}

func TestRenderer(t *testing.T) {
	t.Parallel()

	file := source.NewFile("a.cshtml", "<div>\n\t<p><foo></bar>\n</div>")
	r := new(report.Report)
	r.Error(report.ErrMissingEndTag{Name: "p", At: file.Location(8)})

	var out strings.Builder
	errs, warns, err := report.Renderer{}.Render(file, r, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, errs)
	assert.Zero(t, warns)

	want := strings.Join([]string{
		`error[missing-end-tag]: The "p" element was not closed. All elements must be either self-closing or have a matching end tag.`,
		` --> a.cshtml:2:3`,
		`  |`,
		`2 |     <p><foo></bar>`,
		`  |      ^`,
		``,
		`encountered 1 error`,
		``,
	}, "\n")
	assert.Equal(t, want, out.String())

	out.Reset()
	_, _, err = report.Renderer{Compact: true}.Render(file, r, &out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "a.cshtml:2:3: error[missing-end-tag]: "))
}
