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
	"fmt"
	"slices"

	"github.com/bufbuild/razor/internal/tokenizer"
	"github.com/bufbuild/razor/report"
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/syntax"
	"github.com/bufbuild/razor/token"
	"github.com/bufbuild/razor/token/keyword"
)

// symbol is a token together with the errors the tokenizer found in it. The
// errors are reported when the symbol is accepted into a span.
type symbol struct {
	token.Symbol
	errs []report.Diagnose
}

// marker returns an empty symbol, used to give an otherwise empty span a
// location.
func marker(at source.Location) *symbol {
	return &symbol{Symbol: token.Symbol{Start: at, Kind: token.Unknown}}
}

// split cuts s after n bytes. The left half gets kind; the right half keeps
// s's kind and errors, and is nil if n covers all of s.
func split(s *symbol, n int, kind token.Kind) (left, right *symbol) {
	left = &symbol{Symbol: token.Symbol{Start: s.Start, Content: s.Content[:n], Kind: kind}}
	if n < len(s.Content) {
		right = &symbol{
			Symbol: token.Symbol{
				Start:   s.Start.Advance(s.Content[:n]),
				Content: s.Content[n:],
				Kind:    s.Kind,
				Keyword: keyword.Lookup(s.Content[n:]),
			},
			errs: s.errs,
		}
		if right.Kind != token.Keyword {
			right.Keyword = keyword.Unknown
		}
	}
	return left, right
}

func isKind(kinds ...token.Kind) func(*symbol) bool {
	return func(s *symbol) bool { return slices.Contains(kinds, s.Kind) }
}

func notKind(kinds ...token.Kind) func(*symbol) bool {
	return func(s *symbol) bool { return !slices.Contains(kinds, s.Kind) }
}

// balancing selects how [tokenParser.balance] behaves.
type balancing uint8

const (
	backtrackOnFailure balancing = 1 << iota
	noErrorOnFailure
	allowCommentsAndTemplates
	allowEmbeddedTransitions

	balanceNone balancing = 0
)

// spanConfig initializes a freshly reset span builder.
type spanConfig func(*syntax.SpanBuilder)

// embedder is implemented by the language-specific parsers.
type embedder interface {
	// atEmbeddedTransition returns whether the current symbol starts something
	// that balance must hand off, such as a template or a comment.
	atEmbeddedTransition(allowTemplatesAndComments, allowTransitions bool) bool
	handleEmbeddedTransition()
	// outputSpanBeforeRazorComment flushes the current span ahead of a razor
	// comment.
	outputSpanBeforeRazorComment()
}

// tokenParser holds the symbol-level machinery shared by the markup and code
// parsers: a cursor over a tokenizer, and the span under construction.
//
// The current symbol is nil after it has been put back, until the next call
// to nextToken or ensureCurrent.
type tokenParser struct {
	ctx   *Context
	lang  token.Language
	tok   *tokenizer.Tokenizer
	hooks embedder

	span   *syntax.SpanBuilder
	config spanConfig
	// Bumped whenever the span builder's edit handler is replaced rather than
	// modified.
	editGen     int
	completions []*autoComplete

	cur *symbol
	eof bool
}

func newTokenParser(ctx *Context, lang token.Language, hooks embedder) tokenParser {
	p := tokenParser{
		ctx:   ctx,
		lang:  lang,
		tok:   tokenizer.New(lang, ctx.src),
		hooks: hooks,
		span:  &syntax.SpanBuilder{Start: source.Undefined},
	}
	p.span.Edit = syntax.DefaultEditHandler(lang, syntax.AcceptsAny)
	return p
}

// nextToken advances to the next symbol. Returns false at the end of the
// input.
func (p *tokenParser) nextToken() bool {
	sym, errs, ok := p.tok.Next()
	if !ok {
		p.cur = nil
		p.eof = true
		return false
	}
	p.cur = &symbol{Symbol: sym, errs: errs}
	p.eof = false
	return true
}

// ensureCurrent reads a symbol if the current one was put back.
func (p *tokenParser) ensureCurrent() bool {
	if p.cur == nil {
		return p.nextToken()
	}
	return true
}

// location returns the start of the current symbol, or the reader's position
// if there is none.
func (p *tokenParser) location() source.Location {
	if p.eof || p.cur == nil {
		return p.ctx.src.Location()
	}
	return p.cur.Start
}

func (p *tokenParser) at(kind token.Kind) bool {
	return !p.eof && p.cur != nil && p.cur.Kind == kind
}

func (p *tokenParser) atKeyword(kw keyword.Keyword) bool {
	return p.at(token.Keyword) && p.cur.Keyword == kw
}

// atIdentifier returns whether the current symbol is an identifier, or a
// keyword if allowKeywords is set.
func (p *tokenParser) atIdentifier(allowKeywords bool) bool {
	return p.cur != nil && (p.cur.Kind == token.Identifier ||
		(allowKeywords && p.cur.Kind == token.Keyword))
}

// nextIs returns whether the symbol after the current one has one of kinds.
func (p *tokenParser) nextIs(kinds ...token.Kind) bool {
	return p.nextMatches(func(s *symbol) bool {
		return s != nil && slices.Contains(kinds, s.Kind)
	})
}

func (p *tokenParser) nextMatches(pred func(*symbol) bool) bool {
	cur := p.cur
	p.nextToken()
	result := pred(p.cur)
	p.putCurrentBack()
	p.putBack(cur)
	p.ensureCurrent()
	return result
}

// lookahead returns the symbol n places after the current one, without
// moving. Returns nil past the end of the input.
func (p *tokenParser) lookahead(n int) *symbol {
	p.ensureCurrent()
	if n == 0 {
		return p.cur
	}
	seen := make([]*symbol, n+1)
	seen[0] = p.cur
	for i := 1; i <= n; i++ {
		p.nextToken()
		seen[i] = p.cur
	}
	for i := n; i >= 0; i-- {
		p.putBack(seen[i])
	}
	p.ensureCurrent()
	return seen[n]
}

// putBack rewinds the reader to the start of s, which must be the last
// symbol read.
func (p *tokenParser) putBack(s *symbol) {
	if s == nil {
		return
	}
	if end := s.End(); p.ctx.src.Location().AbsoluteIndex != end.AbsoluteIndex {
		panic(fmt.Sprintf("razor/parser: cannot put back %v: reader is at %v, not %v", s.Symbol, p.ctx.src.Location(), end))
	}
	p.ctx.src.SeekLocation(s.Start)
	p.cur = nil
	p.eof = p.ctx.src.AtEOF()
	p.tok.Reset()
}

// putBackAll puts back a run of symbols read in order.
func (p *tokenParser) putBackAll(syms []*symbol) {
	for i := len(syms) - 1; i >= 0; i-- {
		p.putBack(syms[i])
	}
}

func (p *tokenParser) putCurrentBack() {
	if !p.eof && p.cur != nil {
		p.putBack(p.cur)
	}
}

// seek moves to loc and reads the symbol there.
func (p *tokenParser) seek(loc source.Location) {
	p.ctx.src.SeekLocation(loc)
	p.tok.Reset()
	p.cur = nil
	p.nextToken()
}

// accept appends s to the current span and reports its errors.
func (p *tokenParser) accept(s *symbol) {
	if s == nil {
		return
	}
	for _, err := range s.errs {
		p.ctx.report.Error(err)
	}
	p.span.Accept(s.Symbol)
}

func (p *tokenParser) acceptAll(syms []*symbol) {
	for _, s := range syms {
		p.accept(s)
	}
}

func (p *tokenParser) acceptAndMoveNext() bool {
	p.accept(p.cur)
	return p.nextToken()
}

// acceptSequence accepts symbols as long as they match kinds in order.
// Returns whether the whole sequence matched.
func (p *tokenParser) acceptSequence(kinds ...token.Kind) bool {
	for _, kind := range kinds {
		if p.cur == nil || p.cur.Kind != kind {
			return false
		}
		p.acceptAndMoveNext()
	}
	return true
}

func (p *tokenParser) readWhile(pred func(*symbol) bool) []*symbol {
	var syms []*symbol
	for p.ensureCurrent() && pred(p.cur) {
		syms = append(syms, p.cur)
		p.nextToken()
	}
	return syms
}

func (p *tokenParser) acceptWhile(pred func(*symbol) bool) {
	for p.ensureCurrent() && pred(p.cur) {
		p.acceptAndMoveNext()
	}
}

func (p *tokenParser) acceptWhileKind(kinds ...token.Kind) {
	p.acceptWhile(isKind(kinds...))
}

func (p *tokenParser) acceptUntil(kinds ...token.Kind) {
	p.acceptWhile(notKind(kinds...))
}

// optional accepts the current symbol if it has the given kind.
func (p *tokenParser) optional(kind token.Kind) bool {
	if p.at(kind) {
		p.acceptAndMoveNext()
		return true
	}
	return false
}

// expected accepts the current symbol, which the caller has established is
// one of kinds.
func (p *tokenParser) expected(kinds ...token.Kind) {
	if p.eof || p.cur == nil || !slices.Contains(kinds, p.cur.Kind) {
		panic(fmt.Sprintf("razor/parser: expected one of %v, got %v", kinds, p.cur))
	}
	p.acceptAndMoveNext()
}

// required is like optional, except it reports an error built by mistake
// when the current symbol does not match.
func (p *tokenParser) required(kind token.Kind, mistake func(got string, at source.Location) report.Diagnose) bool {
	found := p.at(kind)
	if !found {
		p.ctx.report.Error(mistake(p.describeCurrent(), p.location()))
	}
	return found
}

// describeCurrent describes the current symbol for use in error messages.
func (p *tokenParser) describeCurrent() string {
	switch {
	case p.eof || p.cur == nil:
		return "end of file"
	case p.cur.Kind == token.NewLine:
		return "line break"
	case p.cur.Kind == token.Whitespace:
		return "space or line break"
	default:
		return fmt.Sprintf("character '%s'", p.cur.Content)
	}
}

// acceptWhitespaceInLines accepts whitespace and newlines, except for the
// last run of whitespace on the final line, which is returned unaccepted.
func (p *tokenParser) acceptWhitespaceInLines() *symbol {
	p.ensureCurrent()
	var last *symbol
	for p.cur != nil && (p.cur.Kind == token.Whitespace || p.cur.Kind == token.NewLine) {
		p.accept(last)
		last = nil
		if p.cur.Kind == token.Whitespace {
			last = p.cur
		} else {
			p.accept(p.cur)
		}
		p.nextToken()
	}
	return last
}

// acceptSingleWhitespaceCharacter accepts the first character of the current
// whitespace symbol and returns the rest, if any.
func (p *tokenParser) acceptSingleWhitespaceCharacter() *symbol {
	if p.cur == nil || p.cur.Kind != token.Whitespace {
		return nil
	}
	left, right := split(p.cur, 1, token.Whitespace)
	p.accept(left)
	p.span.Edit.Accepted = syntax.AcceptsNone
	p.nextToken()
	return right
}

// balance accepts a bracketed run starting at the current opening bracket.
func (p *tokenParser) balance(mode balancing) bool {
	left := p.cur.Kind
	right := flipBracket(left)
	start := p.location()
	p.acceptAndMoveNext()
	if p.eof && mode&noErrorOnFailure == 0 {
		p.ctx.report.Error(report.ErrExpectedCloseBracketBeforeEOF{
			Open: sample(left), Close: sample(right), At: start,
		})
	}
	return p.balanceWith(mode, left, right, start)
}

// balanceWith accepts symbols until the bracket opened at start is closed.
// The closing bracket itself is not accepted.
func (p *tokenParser) balanceWith(mode balancing, left, right token.Kind, start source.Location) bool {
	backtrack := p.location()
	nesting := 1
	if p.eof {
		return false
	}

	var syms []*symbol
	for {
		if p.hooks.atEmbeddedTransition(mode&allowCommentsAndTemplates != 0, mode&allowEmbeddedTransitions != 0) {
			p.acceptAll(syms)
			syms = nil
			p.hooks.handleEmbeddedTransition()
			// Spans were output; there is nothing left to backtrack over.
			backtrack = p.location()
		}
		switch {
		case p.at(left):
			nesting++
		case p.at(right):
			nesting--
		}
		if nesting > 0 {
			syms = append(syms, p.cur)
		}
		if nesting <= 0 || !p.nextToken() {
			break
		}
	}

	if nesting > 0 {
		if mode&noErrorOnFailure == 0 {
			p.ctx.report.Error(report.ErrExpectedCloseBracketBeforeEOF{
				Open: sample(left), Close: sample(right), At: start,
			})
		}
		if mode&backtrackOnFailure != 0 {
			p.seek(backtrack)
		} else {
			p.acceptAll(syms)
		}
	} else {
		p.acceptAll(syms)
	}
	return nesting == 0
}

// addMarkerSymbolIfNecessary gives an empty span a location, unless the
// previous span accepts anything.
func (p *tokenParser) addMarkerSymbolIfNecessary() {
	p.addMarkerAt(p.location())
}

func (p *tokenParser) addMarkerAt(at source.Location) {
	if p.span.Empty() && p.ctx.lastAccepted() != syntax.AcceptsAny {
		p.accept(marker(at))
	}
}

// output emits the current span, if it has any symbols, as kind.
func (p *tokenParser) output(kind syntax.SpanKind) {
	p.span.Kind = kind
	p.flush()
}

// outputAccepting is like output, but first sets the span's accepted
// characters.
func (p *tokenParser) outputAccepting(kind syntax.SpanKind, accepts syntax.AcceptedCharacters) {
	p.span.Kind = kind
	p.span.Edit.Accepted = accepts
	p.flush()
}

func (p *tokenParser) flush() {
	if p.span.Empty() {
		return
	}
	span := p.span.Build()
	p.ctx.addSpan(span)
	for _, ac := range p.completions {
		ac.built(p, span)
	}
	p.span.Reset()
	p.setEdit(syntax.DefaultEditHandler(p.lang, syntax.AcceptsAny))
	p.initialize()
}

// setEdit replaces the span's edit handler.
func (p *tokenParser) setEdit(h syntax.EditHandler) {
	p.span.Edit = h
	p.editGen++
}

// initialize applies the current span configuration.
func (p *tokenParser) initialize() {
	if p.config != nil {
		p.editGen++
		p.config(p.span)
	}
}

// pushSpanConfig installs config and returns a function that restores the
// previous one. A nil config leaves the span builder untouched.
func (p *tokenParser) pushSpanConfig(config spanConfig) (pop func()) {
	old := p.config
	p.config = config
	p.initialize()
	return func() { p.config = old }
}

// wrapSpanConfig installs a configuration that runs on top of the current
// one.
func (p *tokenParser) wrapSpanConfig(config func(*syntax.SpanBuilder, spanConfig)) (pop func()) {
	old := p.config
	p.config = func(span *syntax.SpanBuilder) { config(span, old) }
	p.initialize()
	return func() { p.config = old }
}

// razorComment parses a @* ... *@ comment into its own block.
func (p *tokenParser) razorComment() {
	p.hooks.outputSpanBeforeRazorComment()

	pop := p.pushSpanConfig(func(span *syntax.SpanBuilder) {
		span.Generator = nil
		span.Edit = syntax.DefaultEditHandler(p.lang, syntax.AcceptsAny)
	})
	block := p.ctx.startBlock(syntax.CommentBlock)
	block.Generator = syntax.RazorComment{}
	start := p.location()

	p.expected(token.RazorCommentTransition)
	p.outputAccepting(syntax.Transition, syntax.AcceptsNone)

	p.expected(token.RazorCommentStar)
	p.outputAccepting(syntax.MetaCode, syntax.AcceptsNone)

	p.optional(token.RazorComment)
	p.addMarkerSymbolIfNecessary()
	p.output(syntax.Comment)

	reported := false
	if !p.optional(token.RazorCommentStar) {
		reported = true
		p.ctx.report.Error(report.ErrRazorCommentNotTerminated{At: start})
	} else {
		p.outputAccepting(syntax.MetaCode, syntax.AcceptsNone)
	}

	if !p.optional(token.RazorCommentTransition) {
		if !reported {
			p.ctx.report.Error(report.ErrRazorCommentNotTerminated{At: start})
		}
	} else {
		p.outputAccepting(syntax.Transition, syntax.AcceptsNone)
	}

	p.ctx.endBlock()
	pop()
	p.initialize()
}

// autoComplete tracks an auto-complete edit handler installed on the span
// builder. The handler belongs to the first span built while it is
// installed; complete sets its auto-complete string wherever it ended up.
type autoComplete struct {
	gen int

	block *syntax.BlockBuilder
	span  *syntax.Span
	index int
}

// installAutoComplete installs h on the span builder and starts tracking it.
func (p *tokenParser) installAutoComplete(h syntax.EditHandler) *autoComplete {
	p.setEdit(h)
	ac := &autoComplete{gen: p.editGen}
	p.completions = append(p.completions, ac)
	return ac
}

func (ac *autoComplete) built(p *tokenParser, span *syntax.Span) {
	if ac.span != nil || ac.gen != p.editGen {
		return
	}
	ac.block = p.ctx.currentBlock()
	ac.span = span
	ac.index = len(ac.block.Children) - 1
}

// complete sets the auto-complete string of the tracked handler and stops
// tracking it.
func (ac *autoComplete) complete(p *tokenParser, text string) {
	defer ac.release(p)
	switch {
	case ac.span != nil:
		if ac.index < len(ac.block.Children) && ac.block.Children[ac.index] == syntax.Node(ac.span) {
			b := syntax.NewSpanBuilder(ac.span)
			b.Edit = b.Edit.WithAutoComplete(text)
			span := b.Build()
			ac.block.Children[ac.index] = span
			if p.ctx.lastSpan == ac.span {
				p.ctx.lastSpan = span
			}
		}
	case ac.gen == p.editGen:
		p.span.Edit = p.span.Edit.WithAutoComplete(text)
	}
}

// release stops tracking the handler.
func (ac *autoComplete) release(p *tokenParser) {
	p.completions = slices.DeleteFunc(p.completions, func(x *autoComplete) bool { return x == ac })
}

func flipBracket(kind token.Kind) token.Kind {
	switch kind {
	case token.LeftBrace:
		return token.RightBrace
	case token.LeftParen:
		return token.RightParen
	case token.LeftBracket:
		return token.RightBracket
	case token.LessThan:
		return token.GreaterThan
	case token.RightBrace:
		return token.LeftBrace
	case token.RightParen:
		return token.LeftParen
	case token.RightBracket:
		return token.LeftBracket
	case token.GreaterThan:
		return token.LessThan
	}
	return token.Unknown
}

// sample returns how a symbol of the given kind is usually spelled.
func sample(kind token.Kind) string {
	switch kind {
	case token.LeftBrace:
		return "{"
	case token.RightBrace:
		return "}"
	case token.LeftParen:
		return "("
	case token.RightParen:
		return ")"
	case token.LeftBracket:
		return "["
	case token.RightBracket:
		return "]"
	case token.LessThan, token.OpenAngle:
		return "<"
	case token.GreaterThan, token.CloseAngle:
		return ">"
	}
	return kind.String()
}
