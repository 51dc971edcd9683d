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

package interval_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/razor/internal/interval"
)

func TestInsert(t *testing.T) {
	t.Parallel()

	type r struct {
		start, end int
		value      string
	}

	tests := []struct {
		name   string
		ranges []r    // Ranges to insert.
		want   string // If not "", the value of the overlap for the last range.
	}{
		{name: "empty-map", ranges: []r{{0, 9, "foo"}}},
		{name: "new-max", ranges: []r{{0, 9, "foo"}, {30, 39, "bar"}}},
		{name: "new-min", ranges: []r{{30, 39, "bar"}, {0, 9, "foo"}}},
		{name: "between", ranges: []r{{0, 9, "foo"}, {30, 39, "bar"}, {10, 29, "baz"}}},
		{name: "subset", ranges: []r{{0, 9, "foo"}, {1, 2, "baz"}}, want: "foo"},
		{name: "same", ranges: []r{{0, 9, "foo"}, {0, 9, "baz"}}, want: "foo"},
		{name: "tail-overlap", ranges: []r{{0, 9, "foo"}, {30, 39, "bar"}, {9, 12, "baz"}}, want: "foo"},
		{name: "head-overlap", ranges: []r{{0, 9, "foo"}, {30, 39, "bar"}, {20, 32, "baz"}}, want: "bar"},
		{name: "superset", ranges: []r{{0, 9, "foo"}, {30, 39, "bar"}, {-2, 30, "baz"}}, want: "foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := new(interval.Map[int, string])
			for i, e := range tt.ranges {
				overlap := m.Insert(e.start, e.end, e.value)
				if i < len(tt.ranges)-1 || tt.want == "" {
					require.Nil(t, overlap.Value, "inserting %v into %v", e, m)
					continue
				}
				require.NotNil(t, overlap.Value, "inserting %v into %v", e, m)
				assert.Equal(t, tt.want, *overlap.Value)
			}
		})
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	m := new(interval.Map[int, string])
	m.Insert(0, 3, "a")
	m.Insert(4, 4, "b")
	m.Insert(8, 10, "c")
	assert.Equal(t, 3, m.Len())

	for key, want := range map[int]string{0: "a", 3: "a", 4: "b", 8: "c", 10: "c"} {
		got := m.Get(key)
		require.NotNil(t, got.Value, "key %d", key)
		assert.Equal(t, want, *got.Value, "key %d", key)
		assert.True(t, got.Contains(key))
	}
	for _, key := range []int{-1, 5, 7, 11} {
		assert.Nil(t, m.Get(key).Value, "key %d", key)
	}

	var ends []int
	for iv := range m.Intervals() {
		ends = append(ends, iv.End)
	}
	assert.Equal(t, []int{3, 4, 10}, ends)
	assert.Equal(t, `{[0, 3]: "a", 4: "b", [8, 10]: "c"}`, fmt.Sprintf("%q", m))
}
