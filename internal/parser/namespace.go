package parser

import (
	"strings"

	"sumgen/internal/ast"
	"sumgen/internal/diag"
	"sumgen/internal/token"
)

// parseNamespace handles both "namespace A.B { ... }" and the file-scoped
// "namespace A.B;" which owns the rest of the file.
func (p *Parser) parseNamespace(parent ast.NamespaceID) (ast.NamespaceID, bool) {
	kw := p.advance()

	var parts []string
	first, ok := p.expectIdent("namespace name")
	if !ok {
		p.skipMember()
		return ast.NoNamespaceID, false
	}
	parts = append(parts, first.Text)
	nameSpan := first.Span
	for p.at(token.Dot) {
		p.advance()
		seg, ok := p.expectIdent("namespace segment")
		if !ok {
			break
		}
		parts = append(parts, seg.Text)
		nameSpan = nameSpan.Cover(seg.Span)
	}

	id := p.tree.NewNamespace(ast.Namespace{
		Name:     strings.Join(parts, "."),
		NameSpan: nameSpan,
		Parent:   parent,
	})

	var (
		usings []ast.Using
		items  []ast.Item
	)
	fileScoped := false
	switch {
	case p.at(token.Semicolon):
		p.advance()
		fileScoped = true
		items = p.parseItems(id, &usings, false)
	case p.at(token.LBrace):
		p.advance()
		items = p.parseItems(id, &usings, true)
		p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close namespace "+strings.Join(parts, "."))
		if p.at(token.Semicolon) {
			p.advance()
		}
	default:
		p.report(diag.SynExpectTypeBody, diag.SevError, p.diagnosticSpan(), "expected '{' or ';' after namespace name")
		p.skipMember()
	}

	ns := p.tree.Namespace(id)
	ns.FileScoped = fileScoped
	ns.Usings = usings
	ns.Items = items
	ns.Span = kw.Span.Cover(p.lastSpan)
	return id, true
}
