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
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/bufbuild/razor"
	"github.com/bufbuild/razor/syntax"
)

func newParseCommand(a *app) *cobra.Command {
	var (
		format string
		jobs   int
	)
	cmd := &cobra.Command{
		Use:   "parse <glob>...",
		Short: "Print the syntax tree of each matching document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var emit func(io.Writer, razor.Result) error
			switch format {
			case "text":
				emit = printText
			case "json":
				emit = printJSON
			default:
				return errors.Errorf("unknown format %q, expected text or json", format)
			}

			results, err := a.parseAll(cmd, args, jobs)
			out := cmd.OutOrStdout()
			for _, result := range results {
				if result.Tree == nil {
					continue
				}
				if err := emit(out, result); err != nil {
					return errors.WithStack(err)
				}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of documents to parse at once (default: number of CPUs)")
	return cmd
}

// parseAll expands patterns and parses every matching document.
func (a *app) parseAll(cmd *cobra.Command, patterns []string, jobs int) ([]razor.Result, error) {
	paths, err := expand(a.fs, patterns)
	if err != nil {
		return nil, err
	}
	engine, err := a.engine(jobs)
	if err != nil {
		return nil, err
	}
	logger := zerolog.Ctx(cmd.Context())
	logger.Debug().Strs("paths", paths).Msg("parsing")
	return engine.ParseFiles(cmd.Context(), paths...)
}

func printText(out io.Writer, result razor.Result) error {
	if _, err := fmt.Fprintf(out, "// %s\n", result.File.Path()); err != nil {
		return err
	}
	return syntax.DumpTo(out, result.Tree.Root())
}

func printJSON(out io.Writer, result razor.Result) error {
	value, err := treeValue(result)
	if err != nil {
		return err
	}
	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(value)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}
