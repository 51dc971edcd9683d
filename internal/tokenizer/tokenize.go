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

package tokenizer

import (
	"github.com/bufbuild/razor/report"
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/token"
)

// Tokenize splits text into symbols of the given language, as though text
// began at start.
func Tokenize(lang token.Language, text string, start source.Location) ([]token.Symbol, []report.Diagnose) {
	t := New(lang, source.NewReaderAt(text, start))
	var (
		symbols []token.Symbol
		errs    []report.Diagnose
	)
	for {
		sym, symErrs, ok := t.Next()
		if !ok {
			return symbols, errs
		}
		symbols = append(symbols, sym)
		errs = append(errs, symErrs...)
	}
}
