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

// Package parser turns Razor documents into syntax trees.
//
// A document is parsed by two cooperating recursive-descent parsers, one for
// markup and one for code, which hand control back and forth at every
// transition. Both read from the same [source.Reader] and append to the same
// block stack, held by a [Context].
//
// Parsing never fails: every problem becomes a diagnostic on the resulting
// [syntax.Tree], and every byte of the input ends up in exactly one span.
package parser
