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
	"strings"

	"github.com/bufbuild/razor/report"
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/syntax"
	"github.com/bufbuild/razor/token"
	"github.com/bufbuild/razor/token/keyword"
)

// codeBlock names a construct for use in error messages.
type codeBlock struct {
	name  string
	start source.Location
}

func blockFor(s *symbol) codeBlock {
	name := s.Content
	if s.Kind == token.Keyword {
		name = s.Keyword.Text()
	}
	return codeBlock{name: name, start: s.Start}
}

// codeParser parses code, handing off to the markup parser for templates and
// markup inside statements.
type codeParser struct {
	tokenParser
	markup *markupParser
	// Set while parsing an expression nested inside a statement.
	nested bool

	directives map[string]func()
	keywords   map[keyword.Keyword]func(topLevel bool)
}

func newCodeParser(ctx *Context) *codeParser {
	p := new(codeParser)
	p.tokenParser = newTokenParser(ctx, token.Code, p)
	p.directives = map[string]func(){
		tagHelperPrefixKeyword: p.tagHelperPrefixDirective,
		addTagHelperKeyword:    p.addTagHelperDirective,
		removeTagHelperKeyword: p.removeTagHelperDirective,
		inheritsKeyword:        p.inheritsDirective,
		functionsKeyword:       p.functionsDirective,
		sectionKeyword:         p.sectionDirective,
	}
	p.keywords = map[keyword.Keyword]func(bool){
		keyword.For:       p.conditionalBlock,
		keyword.Foreach:   p.conditionalBlock,
		keyword.While:     p.conditionalBlock,
		keyword.Switch:    p.conditionalBlock,
		keyword.Lock:      p.conditionalBlock,
		keyword.Case:      p.caseStatement,
		keyword.Default:   p.caseStatement,
		keyword.If:        p.ifStatement,
		keyword.Try:       p.tryStatement,
		keyword.Using:     p.usingKeyword,
		keyword.Do:        p.doStatement,
		keyword.Namespace: p.reservedDirective,
		keyword.Class:     p.reservedDirective,
		keyword.Await:     p.awaitExpression,
	}
	return p
}

func isCodeSpacing(newlines, comments bool) func(*symbol) bool {
	return func(s *symbol) bool {
		return s.Kind == token.Whitespace ||
			(newlines && s.Kind == token.NewLine) ||
			(comments && s.Kind == token.Comment)
	}
}

var isStatementSpacing = isCodeSpacing(true, true)

func (p *codeParser) defaultSpan(span *syntax.SpanBuilder) {
	span.Edit = syntax.DefaultEditHandler(token.Code, syntax.AcceptsAny)
	span.Generator = syntax.Statement{}
}

func (p *codeParser) outputSpanBeforeRazorComment() {
	p.addMarkerSymbolIfNecessary()
	p.output(syntax.Code)
}

func (p *codeParser) atEmbeddedTransition(allowTemplatesAndComments, _ bool) bool {
	if !allowTemplatesAndComments || p.cur == nil {
		return false
	}
	return (p.cur.Kind == token.Transition && p.nextIs(token.LessThan, token.Colon, token.DoubleColon)) ||
		p.cur.Kind == token.RazorCommentTransition
}

func (p *codeParser) handleEmbeddedTransition() {
	switch {
	case p.at(token.Transition):
		p.putCurrentBack()
		p.template()
	case p.at(token.RazorCommentTransition):
		p.razorComment()
	}
}

// parseBlock parses one code construct that starts at a transition: an
// expression, a statement block, a keyword block or a directive.
func (p *codeParser) parseBlock() {
	defer p.pushSpanConfig(p.defaultSpan)()
	block := p.ctx.open(syntax.StatementBlock)
	defer block.end()

	p.nextToken()
	p.acceptWhile(isStatementSpacing)

	current := p.cur
	switch {
	case p.at(token.StringLiteral) && strings.HasPrefix(p.cur.Content, "@"):
		// A verbatim string: the '@' is still a transition.
		transition, rest := split(p.cur, 1, token.Transition)
		current = transition
		if rest != nil {
			p.ctx.src.SeekLocation(rest.Start)
		}
		p.nextToken()
	case p.at(token.Transition):
		p.nextToken()
	}

	if current != nil && current.Kind == token.Transition {
		if !p.span.Empty() {
			p.output(syntax.Code)
		}
		p.atTransition(current)
	} else {
		p.afterTransition()
	}
	p.output(syntax.Code)
}

func (p *codeParser) atTransition(transition *symbol) {
	p.accept(transition)
	p.span.Edit.Accepted = syntax.AcceptsNone
	p.span.Generator = nil
	p.output(syntax.Transition)
	p.afterTransition()
}

func (p *codeParser) expressionBlock() {
	block := p.ctx.currentBlock()
	block.Type = syntax.ExpressionBlock
	block.Generator = syntax.Expression{}
}

func (p *codeParser) afterTransition() {
	defer p.pushSpanConfig(p.defaultSpan)()
	// Whatever comes next belongs to the next parser.
	defer p.putCurrentBack()

	p.ensureCurrent()
	if !p.eof {
		switch p.cur.Kind {
		case token.LeftParen:
			p.expressionBlock()
			p.explicitExpression()
			return
		case token.Identifier:
			if directive, ok := p.directives[p.cur.Content]; ok {
				p.span.Generator = nil
				directive()
				return
			}
			if p.cur.Content == helperKeyword {
				p.ctx.report.Error(report.ErrHelperDirectiveNotAvailable{Directive: helperKeyword, At: p.location()})
			}
			p.expressionBlock()
			p.implicitExpression(syntax.AcceptsNonWhitespace)
			return
		case token.Keyword:
			p.keywordBlock(true)
			return
		case token.LeftBrace:
			p.verbatimBlock()
			return
		}
	}

	// Nothing valid follows the transition.
	p.expressionBlock()
	p.addMarkerSymbolIfNecessary()
	p.span.Generator = syntax.Expression{}
	p.setEdit(syntax.ImplicitExpressionEditHandler(p.nested))
	switch {
	case p.at(token.Whitespace) || p.at(token.NewLine):
		p.ctx.report.Error(report.ErrUnexpectedWhitespaceAtStartOfCodeBlock{At: p.location()})
	case p.eof:
		p.ctx.report.Error(report.ErrUnexpectedEOFAtStartOfCodeBlock{At: p.location()})
	default:
		p.ctx.report.Error(report.ErrUnexpectedCharacterAtStartOfCodeBlock{Got: p.cur.Content, At: p.location()})
	}
}

// verbatimBlock parses @{ ... }.
func (p *codeParser) verbatimBlock() {
	block := codeBlock{name: "code", start: p.location()}
	p.acceptAndMoveNext()
	p.span.Edit.Accepted = syntax.AcceptsNone
	p.span.Generator = nil
	p.output(syntax.MetaCode)

	ac := p.installAutoComplete(syntax.AutoCompleteEditHandler(syntax.AcceptsAny, false))
	p.codeBlock(false, block)

	p.span.Generator = syntax.Statement{}
	p.addMarkerSymbolIfNecessary()
	if !p.at(token.RightBrace) {
		ac.complete(&p.tokenParser, "}")
	} else {
		ac.release(&p.tokenParser)
	}
	p.output(syntax.Code)

	if p.optional(token.RightBrace) {
		p.span.Edit.Accepted = syntax.AcceptsNone
		p.span.Generator = nil
	}

	if !p.nested {
		p.ensureCurrent()
		if p.at(token.NewLine) || (p.at(token.Whitespace) && p.nextIs(token.NewLine)) {
			p.ctx.nullGenerateWhitespaceAndNewLine = true
		}
	}
	p.output(syntax.MetaCode)
}

// implicitExpression parses @foo.bar(baz)[0].
func (p *codeParser) implicitExpression(accepts syntax.AcceptedCharacters) {
	p.expressionBlock()

	defer p.pushSpanConfig(func(span *syntax.SpanBuilder) {
		span.Edit = syntax.ImplicitExpressionEditHandler(p.nested)
		span.Edit.Accepted = accepts
		span.Generator = syntax.Expression{}
	})()

	for {
		if p.atIdentifier(true) {
			p.acceptAndMoveNext()
		}
		if !p.methodCallOrArrayIndex(accepts) {
			break
		}
	}
	p.putCurrentBack()
	p.output(syntax.Code)
}

// methodCallOrArrayIndex accepts what may follow an identifier in an
// implicit expression. Returns true if another identifier should follow.
func (p *codeParser) methodCallOrArrayIndex(accepts syntax.AcceptedCharacters) bool {
	if p.eof || p.cur == nil {
		return false
	}

	switch {
	case p.at(token.LeftParen) || p.at(token.LeftBracket):
		// Whitespace is fine inside brackets.
		p.span.Edit.Accepted = syntax.AcceptsAny
		right := flipBracket(p.cur.Kind)
		pop := p.wrapSpanConfig(func(span *syntax.SpanBuilder, prev spanConfig) {
			if prev != nil {
				prev(span)
			}
			span.Edit.Accepted = syntax.AcceptsAny
		})
		ok := p.balance(backtrackOnFailure | allowCommentsAndTemplates)
		pop()

		if !ok {
			p.acceptUntil(token.LessThan)
		}
		if p.at(right) {
			p.acceptAndMoveNext()
			p.span.Edit.Accepted = accepts
		}
		return p.methodCallOrArrayIndex(accepts)

	case p.at(token.QuestionMark):
		next := p.lookahead(1)
		switch {
		case next == nil:
		case next.Kind == token.Dot:
			// ?.
			p.acceptAndMoveNext()
			p.acceptAndMoveNext()
			return p.at(token.Identifier) || p.at(token.Keyword)
		case next.Kind == token.LeftBracket:
			// ?[
			p.acceptAndMoveNext()
			return p.methodCallOrArrayIndex(accepts)
		}

	case p.at(token.Dot):
		dot := p.cur
		if p.nextToken() {
			if p.at(token.Identifier) || p.at(token.Keyword) {
				p.accept(dot)
				return true
			}
			p.putCurrentBack()
		}
		if p.nested {
			p.accept(dot)
		} else {
			// A trailing '.' is punctuation in the surrounding markup.
			p.putBack(dot)
		}

	case !p.at(token.Whitespace) && !p.at(token.NewLine):
		p.putCurrentBack()
	}
	return false
}

// completeBlock ends a top-level construct, taking the rest of its line
// if that is only whitespace.
func (p *codeParser) completeBlock(insertMarker, captureWhitespace bool) {
	if insertMarker && p.ctx.lastAccepted() != syntax.AcceptsAny {
		p.addMarkerSymbolIfNecessary()
	}
	p.ensureCurrent()

	if !p.ctx.whitespaceIsSignificantToAncestor &&
		p.ctx.currentBlock().Type != syntax.ExpressionBlock &&
		captureWhitespace &&
		!p.ctx.DesignTime() &&
		!p.nested {
		p.captureWhitespaceAtEndOfCodeOnlyLine()
	} else {
		p.putCurrentBack()
	}
}

func (p *codeParser) captureWhitespaceAtEndOfCodeOnlyLine() {
	ws := p.readWhile(isKind(token.Whitespace))
	if p.at(token.NewLine) {
		p.acceptAll(ws)
		p.acceptAndMoveNext()
		p.putCurrentBack()
	} else {
		p.putCurrentBack()
		p.putBackAll(ws)
	}
}

// explicitExpression parses @( ... ).
func (p *codeParser) explicitExpression() {
	block := codeBlock{name: "explicit expression", start: p.location()}
	p.expected(token.LeftParen)
	p.span.Edit.Accepted = syntax.AcceptsNone
	p.span.Generator = nil
	p.output(syntax.MetaCode)

	pop := p.pushSpanConfig(func(span *syntax.SpanBuilder) {
		span.Edit = syntax.DefaultEditHandler(token.Code, syntax.AcceptsAny)
		span.Generator = syntax.Expression{}
	})
	ok := p.balanceWith(backtrackOnFailure|noErrorOnFailure|allowCommentsAndTemplates,
		token.LeftParen, token.RightParen, block.start)
	if !ok {
		p.acceptUntil(token.LessThan)
		p.ctx.report.Error(report.ErrExpectedEndOfBlockBeforeEOF{
			Block: block.name, Close: ")", Open: "(", At: block.start, Length: 1,
		})
	}
	if p.span.Empty() {
		p.accept(marker(p.location()))
	}
	p.output(syntax.Code)
	pop()

	p.optional(token.RightParen)
	if !p.eof {
		p.putCurrentBack()
	}
	p.span.Edit.Accepted = syntax.AcceptsNone
	p.span.Generator = nil
	p.completeBlock(false, false)
	p.output(syntax.MetaCode)
}

// template parses markup embedded in code, such as an inline template
// argument.
func (p *codeParser) template() {
	if p.ctx.inBlock(syntax.TemplateBlock) {
		p.ctx.report.Error(report.ErrInlineMarkupBlocksCannotBeNested{At: p.location()})
	}
	p.output(syntax.Code)
	block := p.ctx.open(syntax.TemplateBlock)
	block.block.Generator = syntax.Template{}
	p.putCurrentBack()
	p.otherParserBlock()
	block.end()
}

func (p *codeParser) otherParserBlock() {
	p.parseWithOtherParser(p.markup.parseBlock)
}

func (p *codeParser) sectionBlock(open, close string, caseSensitive bool) {
	p.parseWithOtherParser(func() { p.markup.parseSection(open, close, caseSensitive) })
}

func (p *codeParser) nestedBlock() {
	p.output(syntax.Code)
	wasNested := p.nested
	p.nested = true
	pop := p.pushSpanConfig(nil)
	p.parseBlock()
	pop()
	p.initialize()
	p.nested = wasNested
	p.nextToken()
}

// parseWithOtherParser runs parse on the markup parser. Markup is never
// nested code: <div>@hello.</div> ends the expression before the '.'.
func (p *codeParser) parseWithOtherParser(parse func()) {
	wasNested := p.nested
	p.nested = false
	pop := p.pushSpanConfig(nil)
	parse()
	pop()
	p.initialize()
	p.nested = wasNested
	p.nextToken()
}

func (p *codeParser) keywordBlock(topLevel bool) {
	p.handleKeyword(topLevel, func() {
		p.expressionBlock()
		p.implicitExpression(syntax.AcceptsNonWhitespace)
	})
}

func (p *codeParser) handleKeyword(topLevel bool, fallback func()) {
	if handler, ok := p.keywords[p.cur.Keyword]; ok {
		handler(topLevel)
		return
	}
	fallback()
}

func (p *codeParser) reservedDirective(bool) {
	p.ctx.report.Error(report.ErrReservedWord{Word: p.cur.Content, At: p.location()})
	p.acceptAndMoveNext()
	p.span.Edit.Accepted = syntax.AcceptsNone
	p.span.Generator = nil
	p.ctx.currentBlock().Type = syntax.DirectiveBlock
	p.completeBlock(true, true)
	p.output(syntax.MetaCode)
}

func (p *codeParser) caseStatement(bool) {
	p.acceptUntil(token.Colon)
	p.optional(token.Colon)
}

func (p *codeParser) doStatement(topLevel bool) {
	p.unconditionalBlock()
	p.whileClause()
	if topLevel {
		p.completeBlock(true, true)
	}
}

func (p *codeParser) whileClause() {
	p.span.Edit.Accepted = syntax.AcceptsAny
	ws := p.skipToNextImportantToken()

	if !p.atKeyword(keyword.While) {
		p.putCurrentBack()
		p.putBackAll(ws)
		return
	}
	p.acceptAll(ws)
	p.acceptAndMoveNext()
	p.acceptWhile(isStatementSpacing)
	if p.acceptCondition() && p.optional(token.Semicolon) {
		p.span.Edit.Accepted = syntax.AcceptsNone
	}
}

func (p *codeParser) usingKeyword(topLevel bool) {
	block := blockFor(p.cur)
	p.acceptAndMoveNext()
	p.acceptWhile(isCodeSpacing(false, true))

	switch {
	case p.at(token.LeftParen):
		p.usingStatement(block)
	case p.at(token.Identifier) || p.atKeyword(keyword.Static):
		if topLevel {
			p.usingDeclaration()
		} else {
			p.ctx.report.Error(report.ErrNamespaceImportInCodeBlock{At: block.start})
			p.standardStatement()
		}
	}

	if topLevel {
		p.completeBlock(true, true)
	}
}

// usingDeclaration parses a namespace import, a static import or an alias.
func (p *codeParser) usingDeclaration() {
	p.ctx.currentBlock().Type = syntax.DirectiveBlock

	switch {
	case p.at(token.Identifier):
		p.namespaceOrTypeName()
		ws := p.readWhile(isStatementSpacing)
		if p.at(token.Equals) {
			// using Alias = Some.Type
			p.acceptAll(ws)
			p.acceptAndMoveNext()
			p.acceptWhile(isStatementSpacing)
			p.namespaceOrTypeName()
		} else {
			p.putCurrentBack()
			p.putBackAll(ws)
		}
	case p.atKeyword(keyword.Static):
		p.acceptAndMoveNext()
		p.acceptWhile(isCodeSpacing(false, true))
		p.namespaceOrTypeName()
	}

	p.span.Edit.Accepted = syntax.AcceptsAnyExceptNewLine
	var namespace string
	if syms := p.span.Symbols(); len(syms) > 0 {
		namespace = token.Content(syms[1:])
	}
	p.span.Generator = syntax.AddImport{Namespace: namespace, KeywordLength: len(keyword.Using.Text())}

	if p.ensureCurrent() {
		p.optional(token.Semicolon)
	}
}

func (p *codeParser) namespaceOrTypeName() bool {
	if !p.optional(token.Identifier) && !p.optional(token.Keyword) {
		return false
	}
	p.optional(token.QuestionMark)
	if p.optional(token.DoubleColon) && !p.optional(token.Identifier) {
		p.optional(token.Keyword)
	}
	if p.at(token.LessThan) {
		p.balance(balanceNone)
		p.optional(token.GreaterThan)
	}
	if p.optional(token.Dot) {
		p.namespaceOrTypeName()
	}
	for p.at(token.LeftBracket) {
		p.balance(balanceNone)
		p.optional(token.RightBracket)
	}
	return true
}

func (p *codeParser) usingStatement(block codeBlock) {
	if p.acceptCondition() {
		p.acceptWhile(isStatementSpacing)
		p.expectCodeBlock(block)
	}
}

func (p *codeParser) tryStatement(topLevel bool) {
	p.unconditionalBlock()
	p.afterTryClause()
	if topLevel {
		p.completeBlock(true, true)
	}
}

func (p *codeParser) ifStatement(topLevel bool) {
	p.conditional(blockFor(p.cur))
	p.afterIfClause()
	if topLevel {
		p.completeBlock(true, true)
	}
}

func (p *codeParser) afterTryClause() {
	ws := p.skipToNextImportantToken()
	switch {
	case p.atKeyword(keyword.Catch):
		p.acceptAll(ws)
		p.filterableCatchBlock()
		p.afterTryClause()
	case p.atKeyword(keyword.Finally):
		p.acceptAll(ws)
		p.unconditionalBlock()
	default:
		p.putCurrentBack()
		p.putBackAll(ws)
		p.span.Edit.Accepted = syntax.AcceptsAny
	}
}

func (p *codeParser) afterIfClause() {
	ws := p.skipToNextImportantToken()
	if p.atKeyword(keyword.Else) {
		p.acceptAll(ws)
		p.elseClause()
		return
	}
	p.putCurrentBack()
	p.putBackAll(ws)
	p.span.Edit.Accepted = syntax.AcceptsAny
}

func (p *codeParser) elseClause() {
	if !p.atKeyword(keyword.Else) {
		return
	}
	block := blockFor(p.cur)
	p.acceptAndMoveNext()
	p.acceptWhile(isStatementSpacing)
	switch {
	case p.atKeyword(keyword.If):
		block.name = "else if"
		p.conditional(block)
		p.afterIfClause()
	case !p.eof:
		p.expectCodeBlock(block)
	}
}

// expectCodeBlock parses the body of a control flow statement, which should
// be a braced block.
func (p *codeParser) expectCodeBlock(block codeBlock) {
	if !p.ensureCurrent() {
		return
	}
	if !p.at(token.LeftBrace) {
		p.ctx.report.Error(report.ErrSingleLineControlFlowStatement{
			Want: "{", Got: p.cur.Content, At: p.location(),
		})
	}
	p.statement(&block)
}

func (p *codeParser) unconditionalBlock() {
	block := blockFor(p.cur)
	p.acceptAndMoveNext()
	p.acceptWhile(isStatementSpacing)
	p.expectCodeBlock(block)
}

// filterableCatchBlock parses catch (E e) when (cond) { ... }.
func (p *codeParser) filterableCatchBlock() {
	block := blockFor(p.cur)
	p.acceptAndMoveNext()
	p.acceptWhile(isStatementSpacing)

	if !p.acceptCondition() {
		return
	}
	p.acceptWhile(isStatementSpacing)
	if p.atKeyword(keyword.When) {
		p.acceptAndMoveNext()
		p.acceptWhile(isStatementSpacing)
		if !p.acceptCondition() {
			return
		}
		p.acceptWhile(isStatementSpacing)
	}
	p.expectCodeBlock(block)
}

func (p *codeParser) conditionalBlock(topLevel bool) {
	p.conditional(blockFor(p.cur))
	if topLevel {
		p.completeBlock(true, true)
	}
}

func (p *codeParser) conditional(block codeBlock) {
	p.acceptAndMoveNext()
	p.acceptWhile(isStatementSpacing)
	if p.acceptCondition() {
		p.acceptWhile(isStatementSpacing)
		p.expectCodeBlock(block)
	}
}

// acceptCondition accepts a parenthesized condition, if there is one.
// Returns false if it is not closed.
func (p *codeParser) acceptCondition() bool {
	if !p.at(token.LeftParen) {
		return true
	}
	complete := p.balance(backtrackOnFailure | allowCommentsAndTemplates)
	if complete {
		p.optional(token.RightParen)
	} else {
		p.acceptUntil(token.NewLine)
	}
	return complete
}

// statement parses one statement inside a code block.
func (p *codeParser) statement(block *codeBlock) {
	p.span.Edit.Accepted = syntax.AcceptsAny

	// The last run of whitespace is held back in case markup follows.
	lastWhitespace := p.acceptWhitespaceInLines()
	if p.eof || p.cur == nil {
		p.accept(lastWhitespace)
		return
	}

	kind := p.cur.Kind
	loc := p.location()
	// Both @: and @:: start single-line markup.
	singleLine := kind == token.Transition && p.nextIs(token.Colon, token.DoubleColon)
	markup := singleLine || kind == token.LessThan ||
		(kind == token.Transition && p.nextIs(token.LessThan))

	switch {
	case p.ctx.DesignTime() || !markup:
		// Code owns the whitespace, except before markup outside of design time.
		p.accept(lastWhitespace)
	default:
		next := p.lookahead(1)
		p.putCurrentBack()
		if next != nil && next.Content == textTagName {
			// Whitespace before <text> stays with the code.
			p.accept(lastWhitespace)
		} else {
			p.putBack(lastWhitespace)
		}
	}

	if !markup {
		p.handleStatement(block, kind)
		return
	}
	if kind == token.Transition && !singleLine {
		p.ctx.report.Error(report.ErrAtInCodeMustBeFollowedByIdentifier{At: loc})
	}
	p.output(syntax.Code)
	p.putCurrentBack()
	p.otherParserBlock()
}

func (p *codeParser) handleStatement(block *codeBlock, kind token.Kind) {
	switch kind {
	case token.RazorCommentTransition:
		p.output(syntax.Code)
		p.razorComment()
		p.statement(block)
	case token.LeftBrace:
		if block == nil {
			block = &codeBlock{name: "code", start: p.location()}
		}
		p.acceptAndMoveNext()
		p.codeBlock(true, *block)
	case token.Keyword:
		p.handleKeyword(false, p.standardStatement)
	case token.Transition:
		p.embeddedExpression()
	case token.RightBrace:
		// The end of the enclosing block; the caller handles it.
	case token.Comment:
		p.acceptAndMoveNext()
	default:
		p.standardStatement()
	}
}

// embeddedExpression parses an @ inside a code block.
func (p *codeParser) embeddedExpression() {
	transition := p.cur
	p.nextToken()

	if p.at(token.Transition) {
		// @@ renders a single '@'.
		p.output(syntax.Code)
		p.accept(transition)
		p.span.Generator = nil
		p.output(syntax.Code)
		p.acceptAndMoveNext()
		p.standardStatement()
		return
	}

	if p.at(token.LeftBrace) {
		p.ctx.report.Error(report.ErrUnexpectedNestedCodeBlock{At: p.location()})
	}
	p.putCurrentBack()
	p.putBack(transition)
	p.addMarkerSymbolIfNecessary()
	p.nestedBlock()
}

// standardStatement accepts code up to and including the next ';', or up
// to the end of the enclosing block.
func (p *codeParser) standardStatement() {
	for !p.eof {
		bookmark := p.location()
		read := p.readWhile(notKind(
			token.Semicolon,
			token.RazorCommentTransition,
			token.Transition,
			token.LeftBrace,
			token.LeftParen,
			token.LeftBracket,
			token.RightBrace,
		))

		switch {
		case p.at(token.LeftBrace) || p.at(token.LeftParen) || p.at(token.LeftBracket):
			p.acceptAll(read)
			if !p.balance(allowCommentsAndTemplates | backtrackOnFailure) {
				p.acceptUntil(token.LessThan, token.RightBrace)
				return
			}
			p.optional(token.RightBrace)
		case p.at(token.Transition) && p.nextIs(token.LessThan, token.Colon):
			p.acceptAll(read)
			p.output(syntax.Code)
			p.template()
		case p.at(token.RazorCommentTransition):
			p.acceptAll(read)
			p.razorComment()
		case p.at(token.Semicolon):
			p.acceptAll(read)
			p.acceptAndMoveNext()
			return
		case p.at(token.RightBrace):
			p.acceptAll(read)
			return
		default:
			p.seek(bookmark)
			p.acceptUntil(token.LessThan, token.LeftBrace, token.RightBrace)
			return
		}
	}
}

// codeBlock parses statements up to the '}' that closes block.
func (p *codeParser) codeBlock(acceptTerminatingBrace bool, block codeBlock) {
	p.ensureCurrent()
	for !p.eof && !p.at(token.RightBrace) {
		p.statement(nil)
		p.ensureCurrent()
	}

	switch {
	case p.eof:
		p.ctx.report.Error(report.ErrExpectedEndOfBlockBeforeEOF{
			Block: block.name, Close: "}", Open: "{", At: block.start, Length: 1,
		})
	case acceptTerminatingBrace:
		p.span.Edit.Accepted = syntax.AcceptsNone
		p.acceptAndMoveNext()
	}
}

// skipToNextImportantToken reads spacing and razor comments. Comments are
// accepted; the trailing spacing is returned unaccepted.
func (p *codeParser) skipToNextImportantToken() []*symbol {
	for !p.eof {
		ws := p.readWhile(isStatementSpacing)
		if !p.at(token.RazorCommentTransition) {
			return ws
		}
		p.acceptAll(ws)
		p.span.Edit.Accepted = syntax.AcceptsAny
		p.razorComment()
	}
	return nil
}

// awaitExpression parses @await expr. Inside a statement, await is just
// code.
func (p *codeParser) awaitExpression(topLevel bool) {
	p.acceptAndMoveNext()
	p.acceptWhile(isCodeSpacing(false, true))
	if topLevel {
		p.implicitExpression(syntax.AcceptsAnyExceptNewLine)
	}
}
