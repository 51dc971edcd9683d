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

// Package editor keeps a syntax tree current while a document is being
// edited.
//
// A [Parser] first tries to apply each change to the single span that owns
// it, following that span's [syntax.EditHandler]. Changes that cannot be
// applied that way are queued for a full reparse, which runs on a
// background worker; each full reparse ends in exactly one
// [DocumentParseComplete] notification.
package editor
