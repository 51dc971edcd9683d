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

// Package source provides the positional bookkeeping shared by every stage of
// the Razor pipeline: [Location], [File], the seekable [Reader] that tokenizers
// consume, and [TextChange], which describes an edit to a document.
//
// All offsets are byte offsets into UTF-8 text. Line breaks are \n, \r, \r\n
// (counted once), U+0085, U+2028 and U+2029.
package source
