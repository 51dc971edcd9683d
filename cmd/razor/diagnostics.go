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
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/bufbuild/razor/report"
)

func newDiagnosticsCommand(a *app) *cobra.Command {
	var (
		renderer report.Renderer
		jobs     int
	)
	cmd := &cobra.Command{
		Use:   "diagnostics <glob>...",
		Short: "Report problems in each matching document",
		Long: `Report problems in each matching document.

Exits with status 1 if any document has errors.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.parseAll(cmd, args, jobs)
			out := cmd.OutOrStdout()
			var errorCount int
			for _, result := range results {
				if result.Tree == nil {
					continue
				}
				errs, _, werr := renderer.Render(result.File, result.Tree.Diagnostics(), out)
				if werr != nil {
					return errors.WithStack(werr)
				}
				errorCount += errs
			}
			if errorCount > 0 {
				err = multierr.Append(err, errReported)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&renderer.Compact, "compact", false, "print one line per diagnostic")
	cmd.Flags().BoolVar(&renderer.Colorize, "color", false, "colorize output")
	cmd.Flags().BoolVar(&renderer.WarningsAreErrors, "warnings-are-errors", false, "treat warnings as errors")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of documents to parse at once (default: number of CPUs)")
	return cmd
}
