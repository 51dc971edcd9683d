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

// Package report contains the error sink used by the Razor parser, along with
// the catalog of diagnostics it can produce and a renderer for showing them
// to humans.
//
// Syntax errors are never returned as Go errors. Instead, each stage appends
// [Diagnostic]s to a [Report] and carries on, so that every parse produces a
// complete tree.
package report
