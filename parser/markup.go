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
)

const (
	textTagName   = "text"
	scriptTagName = "script"
)

// voidElements are the HTML elements that never have an end tag.
var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "command": {}, "embed": {},
	"hr": {}, "img": {}, "input": {}, "keygen": {}, "link": {}, "meta": {},
	"param": {}, "source": {}, "track": {}, "wbr": {},
}

func isVoidElement(name string) bool {
	_, ok := voidElements[strings.ToLower(name)]
	return ok
}

// openTag is a start tag waiting for its end tag.
type openTag struct {
	name  string
	start source.Location // The '<'.
}

// markupParser parses HTML, handing off to the code parser at transitions.
type markupParser struct {
	tokenParser
	code *codeParser

	caseSensitive     bool
	lastTagStart      source.Location
	bufferedOpenAngle *symbol
}

func newMarkupParser(ctx *Context) *markupParser {
	p := new(markupParser)
	p.tokenParser = newTokenParser(ctx, token.Markup, p)
	return p
}

func (p *markupParser) defaultSpan(span *syntax.SpanBuilder) {
	span.Generator = syntax.MarkupChunk{}
	span.Edit = syntax.DefaultEditHandler(token.Markup, syntax.AcceptsAny)
}

func (p *markupParser) outputSpanBeforeRazorComment() {
	p.output(syntax.Markup)
}

func (p *markupParser) atEmbeddedTransition(bool, bool) bool {
	return false
}

func (p *markupParser) handleEmbeddedTransition() {}

// parseDocument parses a whole document as markup.
func (p *markupParser) parseDocument() {
	defer p.pushSpanConfig(p.defaultSpan)()
	block := p.ctx.open(syntax.MarkupBlock)
	defer block.end()

	p.nextToken()
	for !p.eof {
		p.skipToAndParseCode(isKind(token.OpenAngle))
		p.scanTagInDocumentContext()
	}
	p.addMarkerSymbolIfNecessary()
	p.output(syntax.Markup)
}

// parseBlock parses one markup block embedded in code: a tag, a <text> tag,
// or a single line introduced by @:.
func (p *markupParser) parseBlock() {
	defer p.pushSpanConfig(p.defaultSpan)()
	block := p.ctx.open(syntax.MarkupBlock)
	defer block.end()

	if !p.nextToken() {
		return
	}
	p.acceptWhile(isSpacing(true))

	switch {
	case p.at(token.OpenAngle):
		p.tagBlock(nil)
	case p.at(token.Transition):
		p.output(syntax.Markup)
		p.expected(token.Transition)
		p.span.Edit.Accepted = syntax.AcceptsNone
		p.span.Generator = nil
		p.output(syntax.Transition)
		if p.at(token.Transition) {
			p.span.Generator = nil
			p.acceptAndMoveNext()
			p.output(syntax.MetaCode)
		}
		p.afterTransition()
	case p.cur != nil:
		p.ctx.report.Error(report.ErrMarkupBlockMustStartWithTag{At: p.cur.Start, Length: len(p.cur.Content)})
	}
	p.output(syntax.Markup)
}

// parseSection parses the body of a section up to, but not including, the
// close sequence. An empty open sequence means the body does not nest.
func (p *markupParser) parseSection(open, close string, caseSensitive bool) {
	defer p.pushSpanConfig(p.defaultSpan)()
	block := p.ctx.open(syntax.MarkupBlock)
	defer block.end()

	p.nextToken()
	p.caseSensitive = caseSensitive
	if open == "" {
		p.nonNestingSection(strings.Fields(close))
	} else {
		p.nestingSection(open, close)
	}
	p.addMarkerSymbolIfNecessary()
	p.output(syntax.Markup)
}

func (p *markupParser) afterTransition() {
	switch {
	case p.at(token.Text) && strings.HasPrefix(p.cur.Content, ":"):
		// @: introduces a single line of markup.
		colon, rest := split(p.cur, 1, token.Colon)
		p.accept(colon)
		p.span.Generator = nil
		p.output(syntax.MetaCode)
		p.accept(rest)
		p.nextToken()
		p.singleLineMarkup()
	case p.at(token.OpenAngle):
		p.tagBlock(nil)
	}
}

func (p *markupParser) singleLineMarkup() {
	old := p.ctx.whitespaceIsSignificantToAncestor
	p.ctx.whitespaceIsSignificantToAncestor = true
	p.setEdit(syntax.DefaultEditHandler(token.Markup, syntax.AcceptsAny))
	p.skipToAndParseCode(isKind(token.NewLine))
	if p.at(token.NewLine) {
		p.acceptAndMoveNext()
		p.span.Edit.Accepted = syntax.AcceptsNone
	}
	p.putCurrentBack()
	p.ctx.whitespaceIsSignificantToAncestor = old
	p.output(syntax.Markup)
}

// skipToAndParseCode accepts markup until stop matches, parsing any code it
// runs into along the way.
func (p *markupParser) skipToAndParseCode(stop func(*symbol) bool) {
	var last *symbol
	startOfLine := false
	for !p.eof && p.ensureCurrent() && !stop(p.cur) {
		switch {
		case p.ctx.nullGenerateWhitespaceAndNewLine:
			p.ctx.nullGenerateWhitespaceAndNewLine = false
			p.span.Generator = nil
			p.acceptWhileKind(token.Whitespace)
			if p.at(token.NewLine) {
				p.acceptAndMoveNext()
			}
			p.output(syntax.Markup)

		case p.at(token.NewLine):
			p.accept(last)
			startOfLine = true
			last = nil
			p.acceptAndMoveNext()

		case p.at(token.Transition):
			transition := p.cur
			p.nextToken()
			if p.at(token.Transition) {
				// @@ renders a single '@'.
				p.accept(last)
				last = nil
				p.output(syntax.Markup)
				p.accept(transition)
				p.span.Generator = nil
				p.output(syntax.Markup)
				p.acceptAndMoveNext()
				continue
			}
			p.putCurrentBack()
			p.putBack(transition)

			if last != nil {
				if !p.ctx.DesignTime() && last.Kind == token.Whitespace && startOfLine {
					// Leading whitespace on the line goes to the code.
					startOfLine = false
					p.putBack(last)
				} else {
					p.accept(last)
				}
				last = nil
			}
			p.otherParserBlock()

		case p.at(token.RazorCommentTransition):
			if last != nil {
				if startOfLine && last.Kind == token.Whitespace {
					p.addMarkerSymbolIfNecessary()
					p.output(syntax.Markup)
					p.span.Generator = nil
				}
				p.accept(last)
				last = nil
			}
			p.addMarkerSymbolIfNecessary()
			p.output(syntax.Markup)

			p.razorComment()

			if startOfLine && (p.at(token.NewLine) ||
				(p.at(token.Whitespace) && p.nextIs(token.NewLine))) {
				p.acceptWhile(isSpacing(false))
				p.acceptAndMoveNext()
				p.span.Generator = nil
				p.output(syntax.Markup)
			}

		default:
			startOfLine = startOfLine && p.at(token.Whitespace)
			p.accept(last)
			last = p.cur
			p.nextToken()
		}
	}
	p.accept(last)
}

func (p *markupParser) otherParserBlock() {
	p.addMarkerSymbolIfNecessary()
	p.output(syntax.Markup)
	pop := p.pushSpanConfig(nil)
	p.code.parseBlock()
	pop()
	p.initialize()
	p.nextToken()
}

// isBangEscape returns whether the symbol n places ahead starts a '!' that
// escapes a tag from tag helper processing.
func (p *markupParser) isBangEscape(n int) bool {
	bang := p.lookahead(n)
	if bang == nil || bang.Kind != token.Bang {
		return false
	}
	after := p.lookahead(n + 1)
	return after != nil && after.Kind == token.Text && !strings.EqualFold(after.Content, "DOCTYPE")
}

func (p *markupParser) optionalBangEscape() {
	if !p.isBangEscape(0) {
		return
	}
	p.output(syntax.Markup)
	p.expected(token.Bang)
	p.span.Generator = nil
	p.outputAccepting(syntax.MetaCode, syntax.AcceptsNone)
}

// atSpecialTag returns whether we are at <!--, <!DOCTYPE, <![CDATA[ or <?.
func (p *markupParser) atSpecialTag() bool {
	if !p.at(token.OpenAngle) {
		return false
	}
	if p.nextIs(token.Bang) {
		return !p.isBangEscape(1)
	}
	return p.nextIs(token.QuestionMark)
}

// tagBlock parses a tag and everything up to its matching end tag.
func (p *markupParser) tagBlock(tags []openTag) {
	complete := false
	for {
		p.skipToAndParseCode(isKind(token.OpenAngle))
		p.output(syntax.Markup)

		special := p.atSpecialTag()
		var block *scope
		if !p.eof && !special {
			block = p.ctx.open(syntax.TagBlock)
		}

		if p.eof {
			tags = p.endTagBlock(tags, true)
		} else {
			p.bufferedOpenAngle = nil
			p.lastTagStart = p.location()
			p.bufferedOpenAngle = p.cur
			tagStart := p.location()
			if !p.nextToken() {
				p.accept(p.bufferedOpenAngle)
				tags = p.endTagBlock(tags, false)
			} else {
				complete, tags = p.afterTagStart(tagStart, tags, special, block)
			}
		}

		if complete {
			p.span.Edit.Accepted = syntax.AcceptsNone
		}
		p.output(syntax.Markup)
		block.end()

		if len(tags) == 0 {
			break
		}
	}
	p.endTagBlock(tags, complete)
}

func (p *markupParser) afterTagStart(tagStart source.Location, tags []openTag, special bool, block *scope) (bool, []openTag) {
	if !p.eof {
		switch {
		case p.at(token.Slash):
			return p.endTag(tagStart, tags, block)
		case p.at(token.Bang) && special:
			p.accept(p.bufferedOpenAngle)
			return p.bangTag(), tags
		case p.at(token.QuestionMark):
			p.accept(p.bufferedOpenAngle)
			return p.xmlPI(), tags
		default:
			return p.startTag(tags, block)
		}
	}
	if len(tags) == 0 {
		p.ctx.report.Error(report.ErrOuterTagMissingName{At: p.location()})
	}
	return false, tags
}

func (p *markupParser) xmlPI() bool {
	p.expected(token.QuestionMark)
	return p.acceptUntilAll(token.QuestionMark, token.CloseAngle)
}

func (p *markupParser) bangTag() bool {
	if !p.at(token.Bang) || !p.acceptAndMoveNext() {
		return false
	}
	switch {
	case p.at(token.DoubleHyphen):
		p.acceptAndMoveNext()
		p.span.Edit.Accepted = syntax.AcceptsAny
		for !p.eof {
			p.skipToAndParseCode(isKind(token.DoubleHyphen))
			if p.at(token.DoubleHyphen) {
				p.acceptWhileKind(token.DoubleHyphen)
				if p.at(token.Text) && p.cur.Content == "-" {
					p.acceptAndMoveNext()
				}
				if p.at(token.CloseAngle) {
					p.acceptAndMoveNext()
					return true
				}
			}
		}
		return false
	case p.at(token.LeftBracket):
		return p.acceptAndMoveNext() && p.cdata()
	default:
		p.acceptAndMoveNext()
		return p.acceptUntilAll(token.CloseAngle)
	}
}

func (p *markupParser) cdata() bool {
	if p.at(token.Text) && strings.EqualFold(p.cur.Content, "cdata") && p.acceptAndMoveNext() &&
		p.at(token.LeftBracket) {
		return p.acceptUntilAll(token.RightBracket, token.RightBracket, token.CloseAngle)
	}
	return false
}

func (p *markupParser) endTag(tagStart source.Location, tags []openTag, block *scope) (bool, []openTag) {
	slash := p.cur
	if !p.nextToken() {
		p.accept(p.bufferedOpenAngle)
		p.accept(slash)
		return false, tags
	}

	var name string
	switch {
	case p.at(token.Bang):
		if next := p.lookahead(1); next != nil && next.Kind == token.Text {
			name = "!" + next.Content
		}
	case p.at(token.Text):
		name = p.cur.Content
	}

	tags, matched := p.removeTag(tags, name, tagStart)
	// An escaped </!text> is an ordinary tag.
	if len(tags) == 0 && strings.EqualFold(name, textTagName) && matched {
		return p.endTextTag(slash, block), tags
	}
	p.accept(p.bufferedOpenAngle)
	p.accept(slash)
	p.optionalBangEscape()
	p.acceptUntil(token.CloseAngle)
	return p.optional(token.CloseAngle), tags
}

func (p *markupParser) recoverTextTag() {
	p.acceptUntil(token.CloseAngle, token.NewLine)
	p.optional(token.CloseAngle)
}

func (p *markupParser) endTextTag(slash *symbol, block *scope) bool {
	p.accept(p.bufferedOpenAngle)
	p.accept(slash)

	textLocation := p.location()
	p.expected(token.Text)

	seenClose := p.optional(token.CloseAngle)
	if !seenClose {
		p.ctx.report.Error(report.ErrTextTagCannotContainAttributes{At: textLocation})
		p.span.Edit.Accepted = syntax.AcceptsAny
		p.recoverTextTag()
	} else {
		p.span.Edit.Accepted = syntax.AcceptsNone
	}

	p.span.Generator = nil
	p.completeTagBlockWithSpan(block, p.span.Edit.Accepted, syntax.Transition)
	return seenClose
}

func isTagRecoveryStopPoint(s *symbol) bool {
	switch s.Kind {
	case token.CloseAngle, token.Slash, token.OpenAngle, token.SingleQuote, token.DoubleQuote:
		return true
	}
	return false
}

// tagContent parses the attributes of a tag, starting right after its name.
func (p *markupParser) tagContent() {
	if !p.at(token.Whitespace) && !p.at(token.NewLine) {
		p.recoverToEndOfTag()
		return
	}
	for !p.eof && !p.isEndOfTag() {
		p.beforeAttribute()
	}
}

func (p *markupParser) isEndOfTag() bool {
	if p.at(token.Slash) {
		if p.nextIs(token.CloseAngle) {
			return true
		}
		p.acceptAndMoveNext()
	}
	return p.at(token.CloseAngle) || p.at(token.OpenAngle)
}

func (p *markupParser) beforeAttribute() {
	whitespace := p.readWhile(isSpacing(true))

	if p.at(token.Transition) {
		p.acceptAll(whitespace)
		p.recoverToEndOfTag()
		return
	}

	var name, whitespaceAfterName []*symbol
	if !isValidAttributeName(p.cur) {
		p.acceptAll(whitespace)
		p.recoverToEndOfTag()
		return
	}
	name = p.readWhile(func(s *symbol) bool {
		switch s.Kind {
		case token.Whitespace, token.NewLine, token.Equals, token.CloseAngle, token.OpenAngle:
			return false
		case token.Slash:
			return !p.nextIs(token.CloseAngle)
		}
		return true
	})
	whitespaceAfterName = p.readWhile(isSpacing(true))

	if !p.at(token.Equals) {
		// A minimized attribute; whatever follows belongs to the next one.
		p.putCurrentBack()
		p.putBackAll(whitespaceAfterName)
		p.output(syntax.Markup)

		block := p.ctx.open(syntax.MarkupBlock)
		p.acceptAll(whitespace)
		p.acceptAll(name)
		p.output(syntax.Markup)
		block.end()
		return
	}

	p.output(syntax.Markup)
	block := p.ctx.open(syntax.MarkupBlock)
	p.attributePrefix(whitespace, name, whitespaceAfterName)
	block.end()
}

func (p *markupParser) attributePrefix(whitespace, nameSyms, whitespaceAfterName []*symbol) {
	name := content(nameSyms)
	// data- attributes are never conditional.
	conditional := !hasPrefixFold(name, "data-")

	p.acceptAll(whitespace)
	p.acceptAll(nameSyms)
	p.acceptAll(whitespaceAfterName)
	p.expected(token.Equals)

	whitespaceAfterEquals := p.readWhile(isSpacing(true))
	quote := token.Unknown
	if p.at(token.SingleQuote) || p.at(token.DoubleQuote) {
		p.acceptAll(whitespaceAfterEquals)
		quote = p.cur.Kind
		p.acceptAndMoveNext()
	} else if len(whitespaceAfterEquals) > 0 {
		p.putCurrentBack()
		p.putBackAll(whitespaceAfterEquals)
	}

	prefix := syntax.Tagged{Value: p.span.Content(), At: p.span.Start}

	if !conditional {
		p.output(syntax.Markup)
		if quote == token.Unknown && len(whitespaceAfterEquals) > 0 {
			return
		}
		p.skipToAndParseCode(func(s *symbol) bool { return p.isEndOfAttributeValue(quote, s) })
		p.output(syntax.Markup)
		if quote != token.Unknown {
			p.optional(quote)
		}
		p.output(syntax.Markup)
		return
	}

	// The attribute's block generator renders the prefix and suffix.
	p.span.Generator = nil
	p.output(syntax.Markup)

	if quote != token.Unknown || len(whitespaceAfterEquals) == 0 {
		for p.ensureCurrent() && !p.isEndOfAttributeValue(quote, p.cur) {
			p.attributeValue(quote)
		}
	}

	suffix := syntax.Tagged{At: p.location()}
	if quote != token.Unknown && p.at(quote) {
		suffix = syntax.Tagged{Value: p.cur.Content, At: p.cur.Start}
		p.acceptAndMoveNext()
	}
	if !p.span.Empty() {
		p.span.Generator = nil
		p.output(syntax.Markup)
	}

	p.ctx.currentBlock().Generator = syntax.Attribute{Name: name, Prefix: prefix, Suffix: suffix}
}

func (p *markupParser) attributeValue(quote token.Kind) {
	prefixStart := p.location()
	prefix := p.readWhile(isSpacing(true))
	prefixValue := syntax.Tagged{Value: content(prefix), At: prefixStart}

	switch {
	case p.at(token.Transition) && p.nextIs(token.Transition):
		// @@ renders a single '@'. The block keeps the attribute rewriter from
		// merging it with its neighbors.
		block := p.ctx.open(syntax.MarkupBlock)
		p.acceptAll(prefix)
		p.span.Generator = syntax.LiteralAttribute{
			Prefix: prefixValue,
			Value:  syntax.Tagged{Value: p.cur.Content, At: p.cur.Start},
		}
		p.acceptAndMoveNext()
		p.outputAccepting(syntax.Markup, syntax.AcceptsNone)

		p.span.Generator = nil
		p.acceptAndMoveNext()
		p.outputAccepting(syntax.Markup, syntax.AcceptsNone)
		block.end()

	case p.at(token.Transition):
		p.acceptAll(prefix)
		valueStart := p.location()
		p.putCurrentBack()
		p.span.Generator = nil

		block := p.ctx.open(syntax.MarkupBlock)
		block.block.Generator = syntax.DynamicAttribute{Prefix: prefixValue, ValueStart: valueStart}
		p.otherParserBlock()
		block.end()

	default:
		p.acceptAll(prefix)
		value := p.readWhile(func(s *symbol) bool {
			switch s.Kind {
			case token.Whitespace, token.NewLine, token.Transition:
				return false
			}
			return !p.isEndOfAttributeValue(quote, s)
		})
		p.acceptAll(value)
		valueStart := prefixStart
		if len(value) > 0 {
			valueStart = value[0].Start
		}
		p.span.Generator = syntax.LiteralAttribute{
			Prefix: prefixValue,
			Value:  syntax.Tagged{Value: content(value), At: valueStart},
		}
	}
	p.output(syntax.Markup)
}

func (p *markupParser) isEndOfAttributeValue(quote token.Kind, s *symbol) bool {
	if p.eof || s == nil {
		return true
	}
	if quote != token.Unknown {
		return s.Kind == quote
	}
	switch s.Kind {
	case token.DoubleQuote, token.SingleQuote, token.OpenAngle, token.Equals,
		token.CloseAngle, token.Whitespace, token.NewLine:
		return true
	case token.Slash:
		return p.nextIs(token.CloseAngle)
	}
	return false
}

// recoverToEndOfTag skips to the next '>', '/' or '<', parsing code and
// quoted strings along the way.
func (p *markupParser) recoverToEndOfTag() {
	for !p.eof {
		p.skipToAndParseCode(isTagRecoveryStopPoint)
		if p.eof {
			return
		}
		p.ensureCurrent()
		switch p.cur.Kind {
		case token.SingleQuote, token.DoubleQuote:
			quote := p.cur.Kind
			p.acceptAndMoveNext()
			p.skipToAndParseCode(isKind(quote))
			if !p.eof {
				p.expected(quote)
			}
		case token.OpenAngle, token.Slash, token.CloseAngle:
			return
		default:
			p.acceptAndMoveNext()
		}
	}
}

func (p *markupParser) startTag(tags []openTag, block *scope) (bool, []openTag) {
	var bang, nameSym *symbol
	if p.at(token.Bang) {
		bang = p.cur
		nameSym = p.lookahead(1)
	} else {
		nameSym = p.cur
	}

	tag := openTag{start: p.lastTagStart}
	switch {
	case nameSym == nil || nameSym.Kind != token.Text:
	case bang != nil:
		tag.name = "!" + nameSym.Content
	default:
		tag.name = nameSym.Content
	}

	// An escaped <!text> is an ordinary tag.
	if len(tags) == 0 && strings.EqualFold(tag.name, textTagName) {
		p.output(syntax.Markup)
		p.span.Generator = nil

		p.accept(p.bufferedOpenAngle)
		textLocation := p.location()
		p.expected(token.Text)

		bookmark := p.location()
		spacing := p.readWhile(isSpacing(true))
		empty := p.at(token.Slash)
		if empty {
			p.acceptAll(spacing)
			p.expected(token.Slash)
			bookmark = p.location()
			spacing = p.readWhile(isSpacing(true))
		}

		if !p.optional(token.CloseAngle) {
			p.seek(bookmark)
			p.ctx.report.Error(report.ErrTextTagCannotContainAttributes{At: textLocation})
			p.recoverTextTag()
		} else {
			p.acceptAll(spacing)
			p.span.Edit.Accepted = syntax.AcceptsNone
		}

		if !empty {
			tags = append(tags, tag)
		}
		p.completeTagBlockWithSpan(block, p.span.Edit.Accepted, syntax.Transition)
		return true, tags
	}

	p.accept(p.bufferedOpenAngle)
	p.optionalBangEscape()
	p.optional(token.Text)
	return p.restOfTag(tag, tags, block)
}

func (p *markupParser) restOfTag(tag openTag, tags []openTag, block *scope) (bool, []openTag) {
	p.tagContent()

	// A '<' abandons this tag.
	if p.at(token.OpenAngle) {
		return false, tags
	}

	empty := p.at(token.Slash)
	if empty {
		p.acceptAndMoveNext()
	}

	seenClose := p.optional(token.CloseAngle)
	if !seenClose {
		p.ctx.report.Error(report.ErrUnfinishedTag{Name: tag.name, At: tag.start.Advance("<")})
		return false, tags
	}
	if empty {
		return true, tags
	}

	name := strings.TrimSpace(tag.name)
	switch {
	case isVoidElement(name):
		p.completeTagBlockWithSpan(block, syntax.AcceptsNone, syntax.Markup)

		// Void elements may not have end tags, but tolerate one that follows
		// immediately.
		bookmark := p.location()
		spacing := p.readWhile(isSpacing(true))
		if p.at(token.OpenAngle) && p.nextIs(token.Slash) {
			openAngle := p.cur
			p.nextToken()
			slash := p.cur
			p.nextToken()
			if p.at(token.Text) && strings.EqualFold(p.cur.Content, name) {
				p.acceptAll(spacing)
				p.output(syntax.Markup)

				end := p.ctx.open(syntax.TagBlock)
				p.accept(openAngle)
				p.accept(slash)
				p.acceptAndMoveNext()
				p.acceptUntil(token.CloseAngle, token.OpenAngle)
				complete := p.optional(token.CloseAngle)
				if complete {
					p.span.Edit.Accepted = syntax.AcceptsNone
				}
				p.output(syntax.Markup)
				end.end()
				return complete, tags
			}
		}
		p.seek(bookmark)

	case strings.EqualFold(name, scriptTagName):
		if p.currentScriptTagExpectsHTML() {
			tags = append(tags, tag)
			break
		}
		p.completeTagBlockWithSpan(block, syntax.AcceptsNone, syntax.Markup)
		p.skipToEndScriptAndParseCode(syntax.AcceptsNone)

	default:
		tags = append(tags, tag)
	}
	return true, tags
}

// skipToEndScriptAndParseCode skips the body of a <script> tag, which is not
// HTML, up to and including its end tag.
func (p *markupParser) skipToEndScriptAndParseCode(endTagAccepts syntax.AcceptedCharacters) {
	seenEndScript := false
	for !seenEndScript && !p.eof {
		p.skipToAndParseCode(isKind(token.OpenAngle))
		tagStart := p.location()

		if p.nextIs(token.Slash) {
			openAngle := p.cur
			p.nextToken()
			slash := p.cur
			p.nextToken()
			seenEndScript = p.at(token.Text) && strings.EqualFold(p.cur.Content, scriptTagName)

			p.putCurrentBack()
			p.putBack(slash)
			p.putBack(openAngle)
			p.nextToken()
		}

		if !seenEndScript {
			p.acceptAndMoveNext()
			continue
		}

		p.output(syntax.Markup)
		end := p.ctx.open(syntax.TagBlock)
		p.span.Edit.Accepted = endTagAccepts
		p.acceptAndMoveNext() // <
		p.acceptAndMoveNext() // /
		p.skipToAndParseCode(isKind(token.CloseAngle))
		if !p.optional(token.CloseAngle) {
			p.ctx.report.Error(report.ErrUnfinishedTag{Name: scriptTagName, At: tagStart.Advance("</")})
		}
		p.output(syntax.Markup)
		end.end()
	}
}

func (p *markupParser) completeTagBlockWithSpan(block *scope, accepts syntax.AcceptedCharacters, kind syntax.SpanKind) {
	p.span.Edit.Accepted = accepts
	p.output(kind)
	block.end()
}

// acceptUntilAll accepts markup, parsing code, until it has accepted the
// sequence end.
func (p *markupParser) acceptUntilAll(end ...token.Kind) bool {
	for !p.eof {
		p.skipToAndParseCode(isKind(end[0]))
		if p.acceptSequence(end...) {
			return true
		}
	}
	p.span.Edit.Accepted = syntax.AcceptsAny
	return false
}

// removeTag pops tags up to and including the innermost one named name.
func (p *markupParser) removeTag(tags []openTag, name string, tagStart source.Location) ([]openTag, bool) {
	var current *openTag
	for len(tags) > 0 {
		top := tags[len(tags)-1]
		tags = tags[:len(tags)-1]
		current = &top
		if strings.EqualFold(name, top.name) {
			return tags, true
		}
	}
	if current != nil {
		p.ctx.report.Error(report.ErrMissingEndTag{Name: current.name, At: current.start.Advance("<")})
	} else {
		p.ctx.report.Error(report.ErrUnexpectedEndTag{Name: name, At: tagStart.Advance("</")})
	}
	return tags, false
}

func (p *markupParser) endTagBlock(tags []openTag, complete bool) []openTag {
	if len(tags) > 0 {
		// Only the outermost unclosed tag is reported.
		tag := tags[0]
		p.ctx.report.Error(report.ErrMissingEndTag{Name: tag.name, At: tag.start.Advance("<")})
	} else if complete {
		p.span.Edit.Accepted = syntax.AcceptsNone
	}
	tags = tags[:0]

	switch {
	case !p.ctx.DesignTime():
		acceptTrailing := true
		if last := p.ctx.lastSpan; last != nil && last.Kind() == syntax.Transition {
			spacing := p.readWhile(isSpacing(true))
			// Whitespace after </text> goes to the code that follows, unless
			// more markup follows.
			if !p.at(token.OpenAngle) && !(p.at(token.Transition) && p.nextStartsWith(":")) {
				acceptTrailing = false
			}
			p.putCurrentBack()
			p.putBackAll(spacing)
			p.ensureCurrent()
		}
		if acceptTrailing {
			p.acceptWhileKind(token.Whitespace)
			p.optional(token.NewLine)
		}
	case p.span.Edit.Accepted == syntax.AcceptsAny:
		p.acceptWhileKind(token.Whitespace)
		p.optional(token.NewLine)
	}
	p.putCurrentBack()

	if !complete {
		p.addMarkerSymbolIfNecessary()
	}
	p.output(syntax.Markup)
	return tags
}

func (p *markupParser) nextStartsWith(prefix string) bool {
	next := p.lookahead(1)
	return next != nil && strings.HasPrefix(next.Content, prefix)
}

func isValidAttributeName(s *symbol) bool {
	if s == nil {
		return false
	}
	switch s.Kind {
	case token.Whitespace, token.NewLine, token.CloseAngle, token.OpenAngle, token.Slash,
		token.DoubleQuote, token.SingleQuote, token.Equals, token.Unknown:
		return false
	}
	return true
}

// scanTagInDocumentContext reads one tag without tracking nesting, as the
// top level of a document or section does.
func (p *markupParser) scanTagInDocumentContext() {
	if !p.at(token.OpenAngle) {
		return
	}
	if p.nextIs(token.Bang) {
		if !p.isBangEscape(1) {
			p.acceptAndMoveNext()
			p.bangTag()
			return
		}
	} else if p.nextIs(token.QuestionMark) {
		p.acceptAndMoveNext()
		p.xmlPI()
		return
	}

	p.output(syntax.Markup)
	block := p.ctx.open(syntax.TagBlock)
	defer block.end()
	p.acceptAndMoveNext()

	if p.at(token.Slash) {
		p.optional(token.Slash)
		p.optionalBangEscape()
		p.optional(token.Text)
		p.optional(token.Whitespace)
		p.optional(token.CloseAngle)
		p.output(syntax.Markup)
		return
	}

	p.optionalBangEscape()
	script := p.at(token.Text) && strings.EqualFold(p.cur.Content, scriptTagName)
	p.optional(token.Text)
	p.tagContent()
	p.optional(token.Slash)
	p.optional(token.CloseAngle)
	p.output(syntax.Markup)

	// Script bodies are not HTML unless they say so.
	if script && !p.currentScriptTagExpectsHTML() {
		block.end()
		p.skipToEndScriptAndParseCode(syntax.AcceptsAny)
	}
}

// currentScriptTagExpectsHTML returns whether the script tag under
// construction has type="text/html".
func (p *markupParser) currentScriptTagExpectsHTML() bool {
	for _, child := range p.ctx.currentBlock().Children {
		attr, ok := child.(*syntax.Block)
		if !ok || !isTypeAttribute(attr) {
			continue
		}
		var value strings.Builder
		for _, c := range attr.Children() {
			if span, ok := c.(*syntax.Span); ok {
				if _, ok := span.Generator().(syntax.LiteralAttribute); ok {
					value.WriteString(span.Content())
				}
			}
		}
		// Parameters such as charset are not allowed.
		return strings.EqualFold(strings.TrimSpace(value.String()), "text/html")
	}
	return false
}

func isTypeAttribute(block *syntax.Block) bool {
	if _, ok := block.Generator().(syntax.Attribute); !ok || len(block.Children()) < 2 {
		return false
	}
	span, ok := block.Children()[0].(*syntax.Span)
	if !ok {
		return false
	}
	name := strings.TrimLeft(span.Content(), " \t\r\n\f")
	if !hasPrefixFold(name, "type") {
		return false
	}
	return len(name) == 4 || strings.ContainsRune(" \t\r\n\f=", rune(name[4]))
}

func (p *markupParser) nonNestingSection(end []string) {
	for {
		p.skipToAndParseCode(func(s *symbol) bool {
			return s.Kind == token.OpenAngle || p.atEnd(end)
		})
		p.scanTagInDocumentContext()
		if p.eof || p.atEnd(end) {
			break
		}
	}
	p.putCurrentBack()
}

// atEnd returns whether the upcoming symbols spell out end, ignoring
// spacing between its parts.
func (p *markupParser) atEnd(end []string) bool {
	if len(end) == 0 || !p.ensureCurrent() || !p.equal(p.cur.Content, end[0]) {
		return false
	}
	bookmark := p.cur.Start
	defer p.seek(bookmark)
	for _, part := range end {
		if !p.eof && !p.equal(p.cur.Content, part) {
			return false
		}
		p.nextToken()
		for !p.eof && isSpacing(true)(p.cur) {
			p.nextToken()
		}
	}
	return true
}

func (p *markupParser) nestingSection(open, close string) {
	nesting := 1
	for nesting > 0 && !p.eof {
		p.skipToAndParseCode(isKind(token.Text, token.OpenAngle))
		if !p.at(token.Text) {
			p.scanTagInDocumentContext()
			continue
		}
		nesting += p.processTextToken(open, close, nesting)
		switch {
		case p.cur != nil:
			p.acceptAndMoveNext()
		case nesting > 0:
			p.nextToken()
		}
	}
}

// processTextToken looks for a nesting sequence in the current text symbol.
// When it finds one, it accepts the text before it and returns the change in
// nesting; the current symbol is then cleared.
func (p *markupParser) processTextToken(open, close string, nesting int) int {
	for i := range len(p.cur.Content) {
		delta := p.handleNestingSequence(open, i, nesting, 1)
		if delta == 0 {
			delta = p.handleNestingSequence(close, i, nesting, -1)
		}
		if delta != 0 {
			return delta
		}
	}
	return 0
}

func (p *markupParser) handleNestingSequence(seq string, pos, nesting, delta int) int {
	text := p.cur.Content
	if seq == "" || text[pos] != seq[0] || pos+len(seq) > len(text) || !p.equal(text[pos:pos+len(seq)], seq) {
		return 0
	}

	sym := p.cur
	bookmark := p.ctx.src.Location()
	p.putCurrentBack()

	pre := sym
	var rest *symbol
	if pos > 0 {
		pre, rest = split(sym, pos, token.Text)
		p.accept(pre)
	} else {
		rest = sym
	}
	seqSym, post := split(rest, len(seq), token.Text)

	switch {
	case nesting+delta == 0:
		// The caller accepts the final close sequence.
		p.ctx.src.SeekLocation(seqSym.Start)
	default:
		p.accept(seqSym)
		if post != nil {
			p.ctx.src.SeekLocation(post.Start)
		} else {
			p.ctx.src.SeekLocation(bookmark)
		}
	}
	p.tok.Reset()
	return delta
}

func (p *markupParser) equal(a, b string) bool {
	if p.caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

func isSpacing(newlines bool) func(*symbol) bool {
	return func(s *symbol) bool {
		return s.Kind == token.Whitespace || (newlines && s.Kind == token.NewLine)
	}
}

func content(syms []*symbol) string {
	var b strings.Builder
	for _, s := range syms {
		b.WriteString(s.Content)
	}
	return b.String()
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
