package parser

import (
	"strings"

	"sumgen/internal/diag"
	"sumgen/internal/source"
	"sumgen/internal/token"
)

// advance — съедает следующий токен и обновляет lastSpan. EOF is never
// consumed.
func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

// diagnosticSpan points at the current token, or just past the last one at EOF.
func (p *Parser) diagnosticSpan() source.Span {
	if p.at(token.EOF) {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return p.peek().Span
}

// expect — ожидаем конкретный токен. Если нет — репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagnosticSpan()
	p.report(code, diag.SevError, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

// expectIdent accepts identifiers and contextual keywords.
func (p *Parser) expectIdent(what string) (token.Token, bool) {
	if p.peek().IsIdent() {
		return p.advance(), true
	}
	sp := p.diagnosticSpan()
	p.report(diag.SynExpectIdentifier, diag.SevError, sp, "expected "+what+", got \""+p.peek().Text+"\"")
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.opts.Reporter == nil {
		return false
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Enough() {
		return false
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil, nil)
	return true
}

// text returns the source between two offsets with runs of whitespace
// collapsed to one space.
func (p *Parser) text(start, end uint32) string {
	return strings.Join(strings.Fields(p.file.Text(source.Span{Start: start, End: end})), " ")
}

func closerOf(k token.Kind) token.Kind {
	switch k {
	case token.LParen:
		return token.RParen
	case token.LBracket:
		return token.RBracket
	case token.LBrace:
		return token.RBrace
	}
	return token.Invalid
}

// skipBalanced consumes a bracketed group starting at the current opener and
// returns the span of the whole group. A missing closer is reported.
func (p *Parser) skipBalanced() source.Span {
	open := p.advance()
	stack := []token.Kind{closerOf(open.Kind)}
	for len(stack) > 0 {
		t := p.peek()
		switch t.Kind {
		case token.EOF:
			p.report(diag.SynUnclosedDelimiter, diag.SevError, open.Span, "unclosed '"+open.Text+"'")
			return open.Span.Cover(p.lastSpan)
		case token.LParen, token.LBracket, token.LBrace:
			stack = append(stack, closerOf(t.Kind))
		case token.RParen, token.RBracket, token.RBrace:
			if t.Kind != stack[len(stack)-1] {
				// несбалансированная скобка: закрываем всё до совпадения
				for len(stack) > 0 && stack[len(stack)-1] != t.Kind {
					stack = stack[:len(stack)-1]
				}
				if len(stack) == 0 {
					p.report(diag.SynUnclosedDelimiter, diag.SevError, open.Span, "unclosed '"+open.Text+"'")
					return open.Span.Cover(p.lastSpan)
				}
			}
			stack = stack[:len(stack)-1]
		}
		p.advance()
	}
	return open.Span.Cover(p.lastSpan)
}

// skipMember skips one member (field, property, method, event, operator,
// delegate, top-level statement) and leaves the parser on the next member.
func (p *Parser) skipMember() {
	for {
		switch p.peek().Kind {
		case token.EOF, token.RBrace:
			return
		case token.Semicolon:
			p.advance()
			return
		case token.LParen, token.LBracket:
			p.skipBalanced()
		case token.LBrace:
			p.skipBalanced()
			if p.at(token.Semicolon) {
				p.advance()
				return
			}
			// "{ get; set; } = value;" continues after the accessor block
			if !p.at(token.Assign) {
				return
			}
		default:
			p.advance()
		}
	}
}
