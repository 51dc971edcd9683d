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

// Package razor provides the entry point for parsing Razor templates: HTML
// markup interleaved with embedded code through the @ transition.
//
// The various sub-packages represent the phases of a parse and the models
// for their results. Those phases follow:
//  1. Tokenize the document into markup and code symbols.
//     Also see: internal/tokenizer
//  2. Parse the symbols into a tree of spans and blocks.
//     Also see: parser.Parse
//  3. Scan the tree for tag helper directives and resolve them to
//     descriptors.
//     Also see: taghelper.ScanDirectives, taghelper.Resolver
//  4. Rewrite elements matched by those descriptors into tag helper blocks.
//     Also see: taghelper.Rewrite
//
// This package provides an easy-to-use interface that does all of these
// phases, based on the inputs given. It can also parse many documents in
// parallel.
//
// # Trees
//
// A parse never fails. Every character of the input ends up in exactly one
// span of the resulting [syntax.Tree], and problems are recorded as
// diagnostics on it. Rendering the tree's content reproduces the input.
//
// # Loaders
//
// A [Loader] is how the engine reads documents named by path. The default
// loader opens files relative to the working directory; a [SourceLoader]
// with Roots searches a list of directories, and its Accessor can redirect
// reads to any file system.
//
// # Editors
//
// An editor keeps one [editor.Parser] per open document, created with
// [Engine.NewEditorParser]. Each keystroke is offered to it as a
// [source.TextChange]. Small edits inside a single span are applied to the
// current tree synchronously; anything else is queued for a full reparse on
// a background goroutine, which reports its result through a callback.
package razor
