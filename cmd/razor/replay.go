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
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/bufbuild/razor/editor"
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/syntax"
)

// edit is one step of a replay script: delete bytes at position, then
// insert text there.
type edit struct {
	Position int    `yaml:"position"`
	Delete   int    `yaml:"delete"`
	Insert   string `yaml:"insert"`
}

func newReplayCommand(a *app) *cobra.Command {
	var (
		timeout time.Duration
		dump    bool
	)
	cmd := &cobra.Command{
		Use:   "replay <document> <script.yaml>",
		Short: "Feed a sequence of edits to the incremental parser",
		Long: `Feed a sequence of edits to the incremental parser.

The script is a YAML list of edits, each with a position, a number of bytes
to delete and text to insert. The result of offering each edit to the parser
is printed, followed by any full reparse it caused.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := afero.ReadFile(a.fs, args[0])
			if err != nil {
				return errors.Errorf("could not read document: %w", err)
			}
			edits, err := loadScript(a.fs, args[1])
			if err != nil {
				return err
			}
			engine, err := a.engine(1)
			if err != nil {
				return err
			}

			events := make(chan editor.DocumentParseComplete, 1)
			done := make(chan struct{})
			p, err := engine.NewEditorParser(cmd.Context(), args[0], func(e editor.DocumentParseComplete) {
				select {
				case events <- e:
				case <-done:
				}
			})
			if err != nil {
				return err
			}
			r := &replayer{
				parser:  p,
				events:  events,
				out:     cmd.OutOrStdout(),
				timeout: timeout,
				logger:  zerolog.Ctx(cmd.Context()),
			}
			err = r.replay(cmd.Context(), string(text), edits)
			close(done)
			if closeErr := p.Close(); err == nil {
				err = closeErr
			}
			if err == nil && dump {
				_, err = fmt.Fprint(r.out, syntax.Dump(p.CurrentTree().Root()))
			}
			return err
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "how long to wait for each full reparse")
	cmd.Flags().BoolVar(&dump, "dump", false, "print the final syntax tree")
	return cmd
}

func loadScript(fs afero.Fs, path string) ([]edit, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("could not read script: %w", err)
	}
	var edits []edit
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&edits); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("invalid script %q: %w", path, err)
	}
	return edits, nil
}

type replayer struct {
	parser  *editor.Parser
	events  <-chan editor.DocumentParseComplete
	out     io.Writer
	timeout time.Duration
	logger  *zerolog.Logger
}

func (r *replayer) replay(ctx context.Context, text string, edits []edit) error {
	open, err := source.Insert("", 0, text)
	if err != nil {
		return err
	}
	if _, err := r.offer(ctx, "open", open); err != nil {
		return err
	}

	for i, e := range edits {
		change, err := source.Replace(text, e.Position, e.Delete, e.Insert)
		if err != nil {
			return errors.Errorf("edit %d: %w", i+1, err)
		}
		if _, err := r.offer(ctx, fmt.Sprintf("edit %d", i+1), change); err != nil {
			return err
		}
		text = change.NewBuffer
	}
	return nil
}

// offer hands change to the parser, prints the result and, if the change
// was queued for a full reparse, waits for it and prints that too.
func (r *replayer) offer(ctx context.Context, label string, change source.TextChange) (editor.PartialParseResult, error) {
	result, err := r.parser.CheckForStructureChanges(change)
	if err != nil {
		return 0, errors.Errorf("%s: %w", label, err)
	}
	if _, err := fmt.Fprintf(r.out, "%s: %s: %s\n", label, change, result); err != nil {
		return 0, errors.WithStack(err)
	}
	if !result.Has(editor.Rejected) {
		return result, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	select {
	case event := <-r.events:
		r.logger.Debug().Int("generation", event.Generation).Msg("replay observed full parse")
		_, err = fmt.Fprintf(r.out, "  parse complete: generation %d, structure changed: %t, %d diagnostics\n",
			event.Generation, event.TreeStructureChanged, event.Tree.Diagnostics().Len())
		return result, errors.WithStack(err)
	case <-ctx.Done():
		return result, errors.Errorf("%s: waiting for full parse: %w", label, ctx.Err())
	}
}
