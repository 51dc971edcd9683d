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
	"io"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/bufbuild/razor/source"
)

// TabstopWidth is the size we render all tabstops as.
const TabstopWidth int = 4

// Renderer configures a diagnostic rendering operation.
type Renderer struct {
	// If set, uses a compact one-line format for each diagnostic.
	Compact bool

	// If set, rendering results are enriched with ANSI color escapes.
	Colorize bool

	// Upgrades all warnings to errors.
	WarningsAreErrors bool
}

// Render renders every diagnostic in report, which must have been produced
// for file.
//
// Returns the number of errors and warnings rendered. The error return is an
// error writing to out.
func (r Renderer) Render(file *source.File, report *Report, out io.Writer) (errorCount, warningCount int, err error) {
	if report == nil {
		return 0, 0, nil
	}
	for i := range report.Diagnostics {
		d := &report.Diagnostics[i]
		if _, err = io.WriteString(out, r.Diagnostic(file, d)); err != nil {
			return
		}

		switch {
		case d.level == Error, d.level == Warning && r.WarningsAreErrors:
			errorCount++
		case d.level == Warning:
			warningCount++
		}
	}
	if r.Compact || (errorCount == 0 && warningCount == 0) {
		return
	}

	c := r.colors()
	summary := fmt.Sprintf("encountered %s", pluralize(errorCount, "error"))
	if errorCount == 0 {
		summary = fmt.Sprintf("encountered %s", pluralize(warningCount, "warning"))
	} else if warningCount > 0 {
		summary += " and " + pluralize(warningCount, "warning")
	}
	_, err = fmt.Fprintf(out, "%s%s%s\n", c.bold, summary, c.reset)
	return
}

// Diagnostic renders a single diagnostic to a string.
func (r Renderer) Diagnostic(file *source.File, d *Diagnostic) string {
	level := d.level
	if level == Warning && r.WarningsAreErrors {
		level = Error
	}

	c := r.colors()
	at := file.Location(d.at.AbsoluteIndex)
	path := file.Path()
	if path == "" {
		path = "<input>"
	}

	var out strings.Builder
	if r.Compact {
		fmt.Fprintf(&out, "%s:%d:%d: %s%s: %s\n",
			path, at.LineIndex+1, at.CharacterIndex+1, level, tagSuffix(d.tag), d.Message())
		return out.String()
	}

	fmt.Fprintf(&out, "%s%s%s%s: %s%s\n", c.level(level), level, tagSuffix(d.tag), c.reset, d.Message(), c.reset)
	gutter := len(fmt.Sprint(at.LineIndex + 1))
	margin := strings.Repeat(" ", gutter)
	fmt.Fprintf(&out, "%s%s--> %s:%d:%d%s\n", margin, c.blue, path, at.LineIndex+1, at.CharacterIndex+1, c.reset)

	line := file.Line(at.LineIndex)
	col := min(at.CharacterIndex, len(line))
	end := min(col+d.length, len(line))

	fmt.Fprintf(&out, "%s %s|%s\n", margin, c.blue, c.reset)
	fmt.Fprintf(&out, "%s%d |%s %s\n", c.blue, at.LineIndex+1, c.reset, expandTabs(line))

	prefix := stringWidth(0, line[:col])
	width := max(stringWidth(prefix, line[col:end])-prefix, 1)
	fmt.Fprintf(&out, "%s %s|%s %s%s%s%s\n", margin, c.blue, c.reset,
		strings.Repeat(" ", prefix), c.level(level), strings.Repeat("^", width), c.reset)

	for _, note := range d.notes {
		fmt.Fprintf(&out, "%s = note: %s\n", margin, note)
	}
	for _, help := range d.help {
		fmt.Fprintf(&out, "%s = help: %s\n", margin, help)
	}
	out.WriteByte('\n')
	return out.String()
}

// stringWidth returns the column reached by printing text starting at column,
// honoring tabstops.
func stringWidth(column int, text string) int {
	for text != "" {
		next, rest, haveTab := strings.Cut(text, "\t")
		column += uniseg.StringWidth(next)
		if haveTab {
			column += TabstopWidth - column%TabstopWidth
		}
		text = rest
	}
	return column
}

func expandTabs(line string) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var out strings.Builder
	column := 0
	for line != "" {
		next, rest, haveTab := strings.Cut(line, "\t")
		out.WriteString(next)
		column += uniseg.StringWidth(next)
		if haveTab {
			pad := TabstopWidth - column%TabstopWidth
			out.WriteString(strings.Repeat(" ", pad))
			column += pad
		}
		line = rest
	}
	return out.String()
}

func pluralize(count int, what string) string {
	if count == 1 {
		return "1 " + what
	}
	return fmt.Sprint(count, " ", what, "s")
}

type colors struct {
	reset, bold, blue, red, yellow, cyan string
}

func (r Renderer) colors() colors {
	if !r.Colorize {
		return colors{}
	}
	return colors{
		reset:  "\033[0m",
		bold:   "\033[1m",
		blue:   "\033[1;94m",
		red:    "\033[1;91m",
		yellow: "\033[1;93m",
		cyan:   "\033[1;96m",
	}
}

func (c colors) level(l Level) string {
	switch l {
	case Error:
		return c.red
	case Warning:
		return c.yellow
	default:
		return c.cyan
	}
}
