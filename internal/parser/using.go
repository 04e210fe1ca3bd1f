package parser

import (
	"sumgen/internal/ast"
	"sumgen/internal/diag"
	"sumgen/internal/token"
)

// parseUsing reads "[global] using [static] Name;" and alias forms.
// A using statement ("using (x) { }", "using var x = ...") is skipped.
func (p *Parser) parseUsing() (ast.Using, bool) {
	start := p.peek().Span
	global := false
	if p.atWord("global") {
		global = true
		p.advance()
	}
	p.advance() // using

	if p.at(token.LParen) || p.atWord("var") {
		p.skipMember()
		return ast.Using{}, false
	}

	for !p.atAny(token.Semicolon, token.EOF, token.LBrace, token.RBrace) {
		p.advance()
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after using directive"); !ok {
		return ast.Using{}, false
	}
	sp := start.Cover(p.lastSpan)
	return ast.Using{Text: p.text(sp.Start, sp.End), Global: global, Span: sp}, true
}
