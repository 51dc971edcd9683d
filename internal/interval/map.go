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

// Package interval provides a btree-backed map from disjoint closed intervals
// to values. The syntax tree uses it to find the span covering a byte offset.
package interval

import (
	"cmp"
	"fmt"
	"iter"

	"github.com/tidwall/btree"
)

// Map maps disjoint closed intervals with endpoints in K to values of type V.
//
// A zero value is ready to use.
type Map[K cmp.Ordered, V any] struct {
	// Keys in this map are the ends of intervals in the map.
	tree btree.Map[K, *entry[K, V]]
}

// Interval is an entry in a [Map].
type Interval[K cmp.Ordered, V any] struct {
	// The range for this interval, inclusive.
	Start, End K

	// The value associated with it. Nil if the lookup found nothing.
	Value *V
}

// Contains returns whether key lies within this interval.
func (i Interval[K, V]) Contains(key K) bool {
	return i.Value != nil && i.Start <= key && key <= i.End
}

// Len returns the number of intervals in this map.
func (m *Map[K, V]) Len() int {
	return m.tree.Len()
}

// Get looks up the interval which contains key, if one exists.
//
// If no such interval exists, the Value of the returned [Interval] will be
// nil.
func (m *Map[K, V]) Get(key K) Interval[K, V] {
	iter := m.tree.Iter()
	if !iter.Seek(key) || key < iter.Value().start {
		// Seek finds the least end >= key; it is implicit that key <= end,
		// so only the start needs checking.
		return Interval[K, V]{}
	}
	return m.current(iter)
}

// Intervals returns an iterator over the intervals in this map, in order.
func (m *Map[K, V]) Intervals() iter.Seq[Interval[K, V]] {
	return func(yield func(Interval[K, V]) bool) {
		iter := m.tree.Iter()
		for more := iter.First(); more; more = iter.Next() {
			if !yield(m.current(iter)) {
				return
			}
		}
	}
}

// Insert inserts a new interval [start, end] into this map, with the given
// associated value.
//
// If [start, end] overlaps an interval already present, nothing is inserted
// and the overlapping interval with the least end is returned. This case is
// distinguished by overlap.Value != nil.
func (m *Map[K, V]) Insert(start, end K, value V) (overlap Interval[K, V]) {
	if start > end {
		panic(fmt.Sprintf("interval: start (%#v) > end (%#v)", start, end))
	}

	// The least interval ending at or after start is the only one that can
	// overlap without also ending after end; if it starts after end, nothing
	// overlaps.
	iter := m.tree.Iter()
	if iter.Seek(start) && iter.Value().start <= end {
		return m.current(iter)
	}

	m.tree.Set(end, &entry[K, V]{start: start, value: value})
	return Interval[K, V]{}
}

// Format implements [fmt.Formatter].
func (m *Map[K, V]) Format(s fmt.State, v rune) {
	fmt.Fprint(s, "{")
	first := true
	m.tree.Scan(func(end K, entry *entry[K, V]) bool {
		if !first {
			fmt.Fprint(s, ", ")
		}
		first = false

		if entry.start == end {
			fmt.Fprintf(s, "%#v: ", entry.start)
		} else {
			fmt.Fprintf(s, "[%#v, %#v]: ", entry.start, end)
		}
		fmt.Fprintf(s, fmt.FormatString(s, v), entry.value)
		return true
	})
	fmt.Fprint(s, "}")
}

func (m *Map[K, V]) current(iter btree.MapIter[K, *entry[K, V]]) Interval[K, V] {
	return Interval[K, V]{
		Start: iter.Value().start,
		End:   iter.Key(),
		Value: &iter.Value().value,
	}
}

type entry[K cmp.Ordered, V any] struct {
	start K
	value V
}
