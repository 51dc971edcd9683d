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

	"github.com/bufbuild/razor/source"
)

// Level represents the severity of a diagnostic message.
type Level int8

const (
	// Red. Indicates a syntax error.
	Error Level = 1 + iota
	// Yellow. Indicates something that probably should not be ignored.
	Warning
	// Cyan. This is the diagnostics version of "info".
	Remark
)

// String implements [fmt.Stringer].
func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Remark:
		return "remark"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Tag is a diagnostic tag: a machine-readable identification for a diagnostic.
//
// Tags are lowercase identifiers separated by dashes, e.g. missing-end-tag.
type Tag string

// Apply implements [DiagnosticOption].
func (t Tag) Apply(d *Diagnostic) {
	if d.tag != "" {
		panic("razor/report: set diagnostic tag more than once")
	}
	d.tag = t
}

// Diagnostic is a single problem found while parsing a document.
//
// To construct a diagnostic, create one using a function like [Report.Error].
// Then, call [Diagnostic.With] to apply options to it.
type Diagnostic struct {
	// The error this diagnostic was built from, if any.
	Err error

	tag     Tag
	message string
	level   Level

	at     source.Location
	length int

	notes, help []string
}

// DiagnosticOption is an option that can be applied to a [Diagnostic].
//
// Nil values passed to [Diagnostic.With] are ignored.
type DiagnosticOption interface {
	Apply(*Diagnostic)
}

// Level returns this diagnostic's level.
func (d *Diagnostic) Level() Level {
	return d.level
}

// Tag returns this diagnostic's tag, which may be empty.
func (d *Diagnostic) Tag() Tag {
	return d.tag
}

// Is checks whether this diagnostic has a particular tag.
func (d *Diagnostic) Is(tag Tag) bool {
	return d.tag == tag
}

// Message returns this diagnostic's human-readable message.
func (d *Diagnostic) Message() string {
	if d.message == "" && d.Err != nil {
		return d.Err.Error()
	}
	return d.message
}

// Location returns where this diagnostic starts.
func (d *Diagnostic) Location() source.Location {
	return d.at
}

// Length returns the number of bytes this diagnostic covers, starting at
// [Diagnostic.Location].
func (d *Diagnostic) Length() int {
	return d.length
}

// Notes returns any notes attached to this diagnostic.
func (d *Diagnostic) Notes() []string {
	return d.notes
}

// Help returns any help text attached to this diagnostic.
func (d *Diagnostic) Help() []string {
	return d.help
}

// Equal returns whether two diagnostics describe the same problem at the same
// place. The underlying Err values are not compared.
func (d *Diagnostic) Equal(that *Diagnostic) bool {
	return d.level == that.level &&
		d.tag == that.tag &&
		d.Message() == that.Message() &&
		d.at == that.at &&
		d.length == that.length
}

// String implements [fmt.Stringer].
func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s%s: %s (%d)", d.at, tagSuffix(d.tag), d.Message(), d.length)
}

// With applies the given options to this diagnostic.
//
// Nil values are ignored.
func (d *Diagnostic) With(options ...DiagnosticOption) *Diagnostic {
	for _, option := range options {
		if option != nil {
			option.Apply(d)
		}
	}
	return d
}

// Message returns a DiagnosticOption that sets the main diagnostic message.
func Message(format string, args ...any) DiagnosticOption {
	return message(fmt.Sprintf(format, args...))
}

// At returns a DiagnosticOption that places a diagnostic at the given
// location, covering length bytes.
func At(loc source.Location, length int) DiagnosticOption {
	return at{loc, length}
}

// Note returns a DiagnosticOption that adds a note to the end of the
// diagnostic.
func Note(format string, args ...any) DiagnosticOption {
	return note(fmt.Sprintf(format, args...))
}

// Helpf returns a DiagnosticOption that adds a help message to the end of
// the diagnostic.
func Helpf(format string, args ...any) DiagnosticOption {
	return help(fmt.Sprintf(format, args...))
}

type message string

func (m message) Apply(d *Diagnostic) { d.message = string(m) }

type at struct {
	loc    source.Location
	length int
}

func (a at) Apply(d *Diagnostic) {
	d.at = a.loc
	d.length = a.length
}

type note string

func (n note) Apply(d *Diagnostic) { d.notes = append(d.notes, string(n)) }

type help string

func (h help) Apply(d *Diagnostic) { d.help = append(d.help, string(h)) }

func tagSuffix(t Tag) string {
	if t == "" {
		return ""
	}
	return "[" + string(t) + "]"
}
