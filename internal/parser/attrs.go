package parser

import (
	"sumgen/internal/ast"
	"sumgen/internal/diag"
	"sumgen/internal/source"
	"sumgen/internal/token"
)

// parseAttrLists reads any number of "[...]" groups.
func (p *Parser) parseAttrLists() []ast.AttrList {
	var lists []ast.AttrList
	for p.at(token.LBracket) {
		lists = append(lists, p.parseAttrList())
	}
	return lists
}

func (p *Parser) parseAttrList() ast.AttrList {
	open := p.advance()
	list := ast.AttrList{}
	if p.peek().IsIdent() && p.peekN(1).Kind == token.Colon {
		list.Target = p.advance().Text
		p.advance()
	}

	for !p.atAny(token.RBracket, token.EOF) {
		attr, ok := p.parseAttr()
		if ok {
			list.Attrs = append(list.Attrs, attr)
		}
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(token.RBracket) {
			p.report(diag.SynUnexpectedToken, diag.SevError, p.diagnosticSpan(), "expected ',' or ']' in attribute list")
			for !p.atAny(token.RBracket, token.EOF, token.LBrace, token.RBrace, token.Semicolon) {
				p.advance()
			}
			break
		}
	}
	p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close attribute list")
	list.Span = open.Span.Cover(p.lastSpan)
	return list
}

// parseAttr reads "Name", "A.B.Name", "global::A.Name" and an optional
// argument list.
func (p *Parser) parseAttr() (ast.Attr, bool) {
	first, ok := p.expectIdent("attribute name")
	if !ok {
		return ast.Attr{}, false
	}
	sp := first.Span
	for p.atAny(token.Dot, token.ColonColon) && p.peekN(1).IsIdent() {
		p.advance()
		sp = sp.Cover(p.advance().Span)
	}
	if p.at(token.Lt) {
		sp = sp.Cover(p.skipAngles())
	}
	attr := ast.Attr{Name: p.text(sp.Start, sp.End)}

	if p.at(token.LParen) {
		attr.Args = p.parseAttrArgs()
	}
	attr.Span = sp.Cover(p.lastSpan)
	return attr, true
}

func (p *Parser) parseAttrArgs() []ast.AttrArg {
	p.advance() // (
	var args []ast.AttrArg
	for !p.atAny(token.RParen, token.EOF) {
		var arg ast.AttrArg
		start := p.peek().Span
		if next := p.peekN(1).Kind; p.peek().IsIdent() && (next == token.Assign || next == token.Colon) {
			arg.Name = p.advance().Text
			p.advance()
		}
		valueStart := p.peek().Span.Start
		for !p.atAny(token.Comma, token.RParen, token.EOF) {
			if p.atAny(token.LParen, token.LBracket, token.LBrace) {
				p.skipBalanced()
				continue
			}
			p.advance()
		}
		arg.Value = p.text(valueStart, p.lastSpan.End)
		arg.Span = source.Span{File: start.File, Start: start.Start, End: p.lastSpan.End}
		args = append(args, arg)
		if p.at(token.Comma) {
			p.advance()
		}
	}
	p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close attribute arguments")
	return args
}

// skipAngles consumes a "<...>" group, tracking nesting, and returns its span.
func (p *Parser) skipAngles() source.Span {
	open := p.advance()
	depth := 1
	for depth > 0 && !p.atAny(token.EOF, token.LBrace, token.Semicolon) {
		switch p.peek().Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
		case token.LParen, token.LBracket:
			p.skipBalanced()
			continue
		}
		p.advance()
	}
	if depth > 0 {
		p.report(diag.SynUnclosedDelimiter, diag.SevError, open.Span, "unclosed '<'")
	}
	return open.Span.Cover(p.lastSpan)
}
