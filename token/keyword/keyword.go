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

// Package keyword defines the reserved words of the code language embedded
// in Razor documents.
package keyword

import "fmt"

// Keyword is a reserved word of the code language.
type Keyword byte

const (
	Unknown Keyword = iota
	Abstract
	As
	Await
	Base
	Bool
	Break
	Byte
	Case
	Catch
	Char
	Checked
	Class
	Const
	Continue
	Decimal
	Default
	Delegate
	Do
	Double
	Else
	Enum
	Event
	Explicit
	Extern
	False
	Finally
	Fixed
	Float
	For
	Foreach
	Goto
	If
	Implicit
	In
	Int
	Interface
	Internal
	Is
	Lock
	Long
	Namespace
	New
	Null
	Object
	Operator
	Out
	Override
	Params
	Private
	Protected
	Public
	ReadOnly
	Ref
	Return
	SByte
	Sealed
	Short
	SizeOf
	StackAlloc
	Static
	String
	Struct
	Switch
	This
	Throw
	True
	Try
	TypeOf
	UInt
	ULong
	Unchecked
	Unsafe
	UShort
	Using
	Virtual
	Void
	Volatile
	When
	While

	keywordCount
)

var keywordText = [...]string{
	Abstract:   "abstract",
	As:         "as",
	Await:      "await",
	Base:       "base",
	Bool:       "bool",
	Break:      "break",
	Byte:       "byte",
	Case:       "case",
	Catch:      "catch",
	Char:       "char",
	Checked:    "checked",
	Class:      "class",
	Const:      "const",
	Continue:   "continue",
	Decimal:    "decimal",
	Default:    "default",
	Delegate:   "delegate",
	Do:         "do",
	Double:     "double",
	Else:       "else",
	Enum:       "enum",
	Event:      "event",
	Explicit:   "explicit",
	Extern:     "extern",
	False:      "false",
	Finally:    "finally",
	Fixed:      "fixed",
	Float:      "float",
	For:        "for",
	Foreach:    "foreach",
	Goto:       "goto",
	If:         "if",
	Implicit:   "implicit",
	In:         "in",
	Int:        "int",
	Interface:  "interface",
	Internal:   "internal",
	Is:         "is",
	Lock:       "lock",
	Long:       "long",
	Namespace:  "namespace",
	New:        "new",
	Null:       "null",
	Object:     "object",
	Operator:   "operator",
	Out:        "out",
	Override:   "override",
	Params:     "params",
	Private:    "private",
	Protected:  "protected",
	Public:     "public",
	ReadOnly:   "readonly",
	Ref:        "ref",
	Return:     "return",
	SByte:      "sbyte",
	Sealed:     "sealed",
	Short:      "short",
	SizeOf:     "sizeof",
	StackAlloc: "stackalloc",
	Static:     "static",
	String:     "string",
	Struct:     "struct",
	Switch:     "switch",
	This:       "this",
	Throw:      "throw",
	True:       "true",
	Try:        "try",
	TypeOf:     "typeof",
	UInt:       "uint",
	ULong:      "ulong",
	Unchecked:  "unchecked",
	Unsafe:     "unsafe",
	UShort:     "ushort",
	Using:      "using",
	Virtual:    "virtual",
	Void:       "void",
	Volatile:   "volatile",
	When:       "when",
	While:      "while",
}

var byText = func() map[string]Keyword {
	m := make(map[string]Keyword, keywordCount)
	for kw := Keyword(1); kw < keywordCount; kw++ {
		m[keywordText[kw]] = kw
	}
	return m
}()

// Lookup returns the keyword spelled text, or [Unknown]. Keywords are case
// sensitive.
func Lookup(text string) Keyword {
	return byText[text]
}

// All returns every keyword, in declaration order.
func All() []Keyword {
	all := make([]Keyword, 0, keywordCount-1)
	for kw := Keyword(1); kw < keywordCount; kw++ {
		all = append(all, kw)
	}
	return all
}

// Text returns how this keyword is spelled in source.
func (k Keyword) Text() string {
	if k > Unknown && k < keywordCount {
		return keywordText[k]
	}
	return ""
}

// String implements [fmt.Stringer].
func (k Keyword) String() string {
	if k > Unknown && k < keywordCount {
		return keywordText[k]
	}
	return fmt.Sprintf("keyword.Keyword(%d)", int(k))
}
