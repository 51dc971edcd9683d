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


// Command razor parses Razor templates and reports what it finds.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		for _, err := range multierr.Errors(err) {
			if !errors.Is(err, errReported) {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cmd := newRootCommand(afero.NewOsFs())
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
