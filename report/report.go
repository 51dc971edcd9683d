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

package report

import (
	"fmt"
	"slices"
)

// Diagnose is an error that can be rendered as a diagnostic.
type Diagnose interface {
	error

	Diagnose(*Diagnostic)
}

// Report is a collection of diagnostics: the error sink threaded through
// every stage of parsing.
//
// Diagnostics are kept in the order they were reported, which follows the
// order in which their constructs were parsed rather than source order. Call
// [Report.Sort] to put them in source order.
//
// The zero value is an empty report, ready to use.
type Report struct {
	Diagnostics []Diagnostic
}

// Error pushes an error diagnostic onto this report.
func (r *Report) Error(err Diagnose) *Diagnostic {
	d := r.push(err, Error)
	err.Diagnose(d)
	return d
}

// Warn pushes a warning diagnostic onto this report.
func (r *Report) Warn(err Diagnose) *Diagnostic {
	d := r.push(err, Warning)
	err.Diagnose(d)
	return d
}

// Errorf creates an ad-hoc error diagnostic with the given message; analogous
// to [fmt.Errorf].
func (r *Report) Errorf(format string, args ...any) *Diagnostic {
	return r.push(fmt.Errorf(format, args...), Error)
}

// Len returns the number of diagnostics in this report. A nil report is
// empty.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Diagnostics)
}

// HasErrors returns whether any diagnostic in this report is an error.
func (r *Report) HasErrors() bool {
	if r == nil {
		return false
	}
	return slices.ContainsFunc(r.Diagnostics, func(d Diagnostic) bool {
		return d.level == Error
	})
}

// Append adds every diagnostic in other to the end of this report.
func (r *Report) Append(other *Report) {
	if other == nil {
		return
	}
	r.Diagnostics = append(r.Diagnostics, other.Diagnostics...)
}

// Clone returns a copy of this report that does not share storage with it.
func (r *Report) Clone() *Report {
	if r == nil {
		return &Report{}
	}
	return &Report{Diagnostics: slices.Clone(r.Diagnostics)}
}

// Equal returns whether two reports contain equal diagnostics in the same
// order.
func (r *Report) Equal(that *Report) bool {
	if r.Len() != that.Len() {
		return false
	}
	for i := range r.Diagnostics {
		if !r.Diagnostics[i].Equal(&that.Diagnostics[i]) {
			return false
		}
	}
	return true
}

// Sort sorts this report's diagnostics by source position. The sort is
// stable, so diagnostics at the same position keep their reported order.
func (r *Report) Sort() {
	slices.SortStableFunc(r.Diagnostics, func(a, b Diagnostic) int {
		return a.at.AbsoluteIndex - b.at.AbsoluteIndex
	})
}

func (r *Report) push(err error, level Level) *Diagnostic {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Err: err, level: level})
	return &r.Diagnostics[len(r.Diagnostics)-1]
}
