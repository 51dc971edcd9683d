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

package parser

import (
	"slices"
	"strings"

	"github.com/bufbuild/razor/report"
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/syntax"
	"github.com/bufbuild/razor/token"
	"github.com/bufbuild/razor/token/keyword"
)

const (
	addTagHelperKeyword    = "addTagHelper"
	removeTagHelperKeyword = "removeTagHelper"
	tagHelperPrefixKeyword = "tagHelperPrefix"
	inheritsKeyword        = "inherits"
	functionsKeyword       = "functions"
	sectionKeyword         = "section"
	helperKeyword          = "helper"
)

// Keywords returns every word that changes how the code after a transition
// is parsed: the statement keywords with their own handlers plus the
// directives. await is not among them, since @await still begins an
// implicit expression.
func Keywords() []string {
	words := []string{
		addTagHelperKeyword,
		removeTagHelperKeyword,
		tagHelperPrefixKeyword,
		inheritsKeyword,
		functionsKeyword,
		sectionKeyword,
		helperKeyword,
	}
	for _, kw := range statementKeywords {
		words = append(words, kw.Text())
	}
	slices.Sort(words)
	return slices.Compact(words)
}

var statementKeywords = []keyword.Keyword{
	keyword.If, keyword.Do, keyword.Try, keyword.For, keyword.Foreach,
	keyword.While, keyword.Switch, keyword.Lock, keyword.Case, keyword.Default,
	keyword.Using, keyword.Namespace, keyword.Class,
}

// IsKeyword returns whether word is one of [Keywords].
func IsKeyword(word string) bool {
	_, found := slices.BinarySearch(keywordSet, word)
	return found
}

var keywordSet = Keywords()

// sectionDirective parses @section Name { markup }.
func (p *codeParser) sectionDirective() {
	nested := p.ctx.inBlock(syntax.SectionBlock)
	reported := false

	p.ctx.currentBlock().Type = syntax.SectionBlock
	start := p.location()
	p.acceptAndMoveNext()

	if nested {
		p.ctx.report.Error(report.ErrSectionsCannotBeNested{At: start})
		reported = true
	}

	ws := p.readWhile(isCodeSpacing(true, false))

	var name string
	if !p.required(token.Identifier, func(got string, at source.Location) report.Diagnose {
		return report.ErrUnexpectedCharacterAtSectionNameStart{Got: got, At: at}
	}) {
		reported = true
		p.putCurrentBack()
		p.putBackAll(ws)
		p.acceptWhile(isCodeSpacing(false, false))
	} else {
		p.acceptAll(ws)
		name = p.cur.Content
		p.acceptAndMoveNext()
	}
	p.ctx.currentBlock().Generator = syntax.Section{Name: name}

	errAt := p.location()
	ws = p.readWhile(isCodeSpacing(true, false))

	if !p.at(token.LeftBrace) {
		if !reported {
			p.ctx.report.Error(report.ErrExpected{Want: "{", At: errAt})
		}
		p.putCurrentBack()
		p.putBackAll(ws)
		p.acceptWhile(isCodeSpacing(false, false))
		p.optional(token.NewLine)
		p.output(syntax.MetaCode)
		p.completeBlock(true, true)
		return
	}
	p.acceptAll(ws)

	braceAt := p.location()
	ac := p.installAutoComplete(syntax.AutoCompleteEditHandler(syntax.AcceptsAny, true))
	p.accept(p.cur)
	p.output(syntax.MetaCode)
	p.sectionBlock("{", "}", true)

	p.span.Generator = nil
	if !p.optional(token.RightBrace) {
		ac.complete(&p.tokenParser, "}")
		p.ctx.report.Error(report.ErrExpectedEndOfBlockBeforeEOF{
			Block: sectionKeyword, Close: "}", Open: "{", At: braceAt, Length: 1,
		})
	} else {
		ac.release(&p.tokenParser)
		p.span.Edit.Accepted = syntax.AcceptsNone
	}
	p.completeBlock(false, true)
	p.output(syntax.MetaCode)
}

// functionsDirective parses @functions { members }.
func (p *codeParser) functionsDirective() {
	p.ctx.currentBlock().Type = syntax.FunctionsBlock

	block := codeBlock{name: functionsKeyword, start: p.location()}
	p.acceptAndMoveNext()
	p.acceptWhile(isCodeSpacing(true, false))

	if !p.at(token.LeftBrace) {
		p.ctx.report.Error(report.ErrExpected{Want: "{", At: p.location()})
		p.completeBlock(true, true)
		p.output(syntax.MetaCode)
		return
	}
	p.span.Edit.Accepted = syntax.AcceptsNone

	braceAt := p.location()
	p.acceptAndMoveNext()
	p.output(syntax.MetaCode)

	ac := p.installAutoComplete(syntax.AutoCompleteEditHandler(syntax.AcceptsAny, false))
	p.balanceWith(noErrorOnFailure, token.LeftBrace, token.RightBrace, braceAt)
	p.span.Generator = syntax.TypeMember{}

	if !p.at(token.RightBrace) {
		ac.complete(&p.tokenParser, "}")
		p.ctx.report.Error(report.ErrExpectedEndOfBlockBeforeEOF{
			Block: block.name, Close: "}", Open: "{", At: braceAt, Length: 1,
		})
		p.completeBlock(true, true)
		p.output(syntax.Code)
		return
	}
	ac.release(&p.tokenParser)
	p.output(syntax.Code)

	p.span.Generator = nil
	p.span.Edit.Accepted = syntax.AcceptsNone
	p.acceptAndMoveNext()
	p.completeBlock(true, true)
	p.output(syntax.MetaCode)
}

// inheritsDirective parses @inherits TypeName.
func (p *codeParser) inheritsDirective() {
	p.acceptAndMoveNext()

	start := p.span.Start
	p.ctx.currentBlock().Type = syntax.DirectiveBlock
	keywordLen := len(p.span.Content())

	rest := p.acceptSingleWhitespaceCharacter()
	if len(p.span.Symbols()) > 1 {
		p.span.Edit.Accepted = syntax.AcceptsNone
	}
	p.output(syntax.MetaCode)

	p.accept(rest)
	p.acceptWhile(isCodeSpacing(false, true))

	if p.eof || p.at(token.Whitespace) || p.at(token.NewLine) {
		p.ctx.report.Error(report.ErrInheritsMustBeFollowedByTypeName{At: start, Length: keywordLen})
	}

	p.acceptUntil(token.NewLine)
	if !p.ctx.DesignTime() {
		p.optional(token.NewLine)
	}

	p.span.Generator = syntax.SetBaseType{BaseType: strings.TrimSpace(p.span.Content())}
	p.completeBlock(true, true)
	p.outputAccepting(syntax.Code, syntax.AcceptsAnyExceptNewLine)
}

func (p *codeParser) tagHelperPrefixDirective() {
	p.tagHelperDirective(tagHelperPrefixKeyword, func(value string) syntax.ChunkGenerator {
		return syntax.TagHelperPrefix{Prefix: value}
	})
}

func (p *codeParser) addTagHelperDirective() {
	p.tagHelperDirective(addTagHelperKeyword, func(value string) syntax.ChunkGenerator {
		return syntax.AddTagHelper{LookupText: value}
	})
}

func (p *codeParser) removeTagHelperDirective() {
	p.tagHelperDirective(removeTagHelperKeyword, func(value string) syntax.ChunkGenerator {
		return syntax.RemoveTagHelper{LookupText: value}
	})
}

// tagHelperDirective parses one of the tag helper directives, whose value
// runs to the end of the line and may be quoted.
func (p *codeParser) tagHelperDirective(name string, generator func(string) syntax.ChunkGenerator) {
	start := p.location()
	p.acceptAndMoveNext()

	p.ctx.currentBlock().Type = syntax.DirectiveBlock
	keywordLen := len(p.span.Content())

	// Typing inside the separating whitespace can change what the directive
	// means.
	foundWhitespace := p.at(token.Whitespace)
	p.acceptWhileKind(token.Whitespace)
	if foundWhitespace {
		p.outputAccepting(syntax.MetaCode, syntax.AcceptsNone)
	} else {
		p.outputAccepting(syntax.MetaCode, syntax.AcceptsAnyExceptNewLine)
	}

	var value string
	if p.ensureCurrent() && !p.at(token.NewLine) {
		valueAt := p.location()
		p.acceptUntil(token.NewLine)

		value = strings.TrimSpace(p.span.Content())
		opening := strings.HasPrefix(value, `"`)
		closing := len(value) > 1 && strings.HasSuffix(value, `"`)
		if value == `"` {
			closing = false
		}
		switch {
		case opening != closing:
			p.ctx.report.Error(report.ErrIncompleteQuotesAroundDirective{
				Directive: name, At: valueAt, Length: len(value),
			})
		case opening:
			value = value[1 : len(value)-1]
		}
	} else {
		p.ctx.report.Error(report.ErrDirectiveMustHaveValue{Directive: name, At: start, Length: keywordLen})
	}

	p.span.Generator = generator(value)
	p.completeBlock(true, true)
	p.outputAccepting(syntax.Code, syntax.AcceptsAnyExceptNewLine)
}
