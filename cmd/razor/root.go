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
	"io"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/bufbuild/razor"
	"github.com/bufbuild/razor/taghelper"
)

// errReported is returned by commands whose failure has already been
// written to the output, such as documents with errors.
var errReported = errors.Base("failures were reported")

// app is the state shared by every subcommand.
type app struct {
	fs afero.Fs

	debug      bool
	configPath string
	designTime bool

	config *config
}

func newRootCommand(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs}

	cmd := &cobra.Command{
		Use:   "razor",
		Short: "Parse Razor templates",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := zerolog.InfoLevel
			if a.debug {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
				Level(level).With().Timestamp().Logger()
			cmd.SetContext(logger.WithContext(cmd.Context()))

			cfg, err := loadConfig(a.fs, a.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("design-time") {
				cfg.DesignTime = a.designTime
			}
			a.config = cfg
			logger.Debug().Bool("design_time", cfg.DesignTime).Int("tag_helpers", len(cfg.TagHelpers)).Msg("loaded configuration")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		cmd.Version = info.Main.Version
	} else {
		cmd.Version = "unknown"
	}

	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a configuration file (default razor.yaml, if present)")
	cmd.PersistentFlags().BoolVar(&a.designTime, "design-time", false, "parse in design-time mode")

	cmd.AddCommand(newParseCommand(a))
	cmd.AddCommand(newDiagnosticsCommand(a))
	cmd.AddCommand(newReplayCommand(a))
	return cmd
}

// engine returns an engine configured from the loaded configuration.
func (a *app) engine(jobs int) (*razor.Engine, error) {
	descriptors, err := a.config.descriptors()
	if err != nil {
		return nil, err
	}
	engine := &razor.Engine{
		Loader: &razor.SourceLoader{
			Accessor: func(path string) (io.ReadCloser, error) {
				f, err := a.fs.Open(path)
				if err != nil {
					return nil, errors.WithStack(err)
				}
				return f, nil
			},
		},
		DesignTime:     a.config.DesignTime,
		MaxParallelism: jobs,
	}
	if len(descriptors) > 0 {
		engine.Resolver = &taghelper.CatalogResolver{Catalog: descriptors}
	}
	return engine, nil
}
