package parser

import (
	"sumgen/internal/ast"
	"sumgen/internal/diag"
	"sumgen/internal/source"
	"sumgen/internal/token"
)

// parseTypeDecl parses a class, struct, interface, enum or record
// declaration whose attributes and modifiers were already consumed.
func (p *Parser) parseTypeDecl(start source.Span, attrs []ast.AttrList, mods []ast.Modifier, parent ast.TypeDeclID, ns ast.NamespaceID) ast.TypeDeclID {
	td := ast.TypeDecl{
		Attrs:     attrs,
		Modifiers: mods,
		Parent:    parent,
		Namespace: ns,
	}

	kw := p.advance()
	td.KeywordSpan = kw.Span
	switch kw.Kind {
	case token.KwClass:
		td.Kind = ast.TypeClass
	case token.KwStruct:
		td.Kind = ast.TypeStruct
	case token.KwInterface:
		td.Kind = ast.TypeInterface
	case token.KwEnum:
		td.Kind = ast.TypeEnum
	case token.KwRecord:
		td.Kind = ast.TypeRecord
		if p.at(token.KwStruct) {
			td.Kind = ast.TypeRecordStruct
			td.KeywordSpan = td.KeywordSpan.Cover(p.advance().Span)
		} else if p.at(token.KwClass) {
			td.KeywordSpan = td.KeywordSpan.Cover(p.advance().Span)
		}
	}
	td.Keyword = p.text(td.KeywordSpan.Start, td.KeywordSpan.End)

	name, ok := p.expectIdent("type name")
	if !ok {
		name = token.Token{Span: source.Span{File: kw.Span.File, Start: kw.Span.End, End: kw.Span.End}}
	}
	td.Name = name.Text
	td.NameSpan = name.Span

	if p.at(token.Lt) {
		td.TypeParams, td.TypeParamsSpan = p.parseTypeParams()
	}
	if p.at(token.LParen) {
		td.Params = p.parseParamList()
	}
	if p.at(token.Colon) {
		p.advance()
		td.Bases = p.parseBaseList()
	}
	for p.at(token.KwWhere) {
		td.Constraints = append(td.Constraints, p.parseConstraint())
	}

	id := p.tree.NewType(td)

	var (
		ctors  []ast.Ctor
		nested []ast.TypeDeclID
	)
	switch {
	case p.at(token.LBrace) && td.Kind == ast.TypeEnum:
		p.skipBalanced()
		p.tree.Type(id).HasBody = true
	case p.at(token.LBrace):
		p.advance()
		ctors, nested = p.parseTypeBody(id, td.Name, ns)
		p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close "+td.Kind.String()+" "+td.Name)
		p.tree.Type(id).HasBody = true
	case p.at(token.Semicolon):
	default:
		p.report(diag.SynExpectTypeBody, diag.SevError, p.diagnosticSpan(), "expected '{' or ';' after "+td.Kind.String()+" "+td.Name)
	}
	if p.at(token.Semicolon) {
		p.advance()
	}

	// арена могла переехать, берём указатель заново
	decl := p.tree.Type(id)
	decl.Ctors = ctors
	decl.Nested = nested
	decl.Span = start.Cover(p.lastSpan)
	return id
}

func (p *Parser) parseTypeParams() ([]ast.TypeParam, source.Span) {
	open := p.advance()
	var params []ast.TypeParam
	for !p.atAny(token.Gt, token.EOF, token.LBrace, token.Semicolon) {
		p.parseAttrLists()
		if p.atWord("in") || p.atWord("out") {
			p.advance()
		}
		tp, ok := p.expectIdent("type parameter")
		if !ok {
			break
		}
		params = append(params, ast.TypeParam{Name: tp.Text, Span: tp.Span})
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	p.expect(token.Gt, diag.SynUnclosedDelimiter, "expected '>' to close type parameter list")
	return params, open.Span.Cover(p.lastSpan)
}

var paramModifiers = map[string]bool{
	"this": true, "ref": true, "out": true, "in": true, "params": true, "scoped": true, "readonly": true,
}

// parseParamList reads a primary constructor parameter list.
func (p *Parser) parseParamList() *ast.ParamList {
	open := p.advance()
	list := &ast.ParamList{}
	for !p.atAny(token.RParen, token.EOF, token.LBrace, token.Semicolon) {
		if param, ok := p.parseParam(); ok {
			list.Params = append(list.Params, param)
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close parameter list")
	list.Span = open.Span.Cover(p.lastSpan)
	return list
}

func (p *Parser) parseParam() (ast.Param, bool) {
	p.parseAttrLists()
	start := p.peek().Span
	for paramModifiers[p.peek().Text] && (p.peekN(1).IsIdent() || p.peekN(1).Kind == token.LParen) {
		p.advance()
	}

	// тип + имя: имя — последний идентификатор перед ',' ')' или '='
	typeStart := p.peek().Span.Start
	var (
		last, prev source.Span
		lastTok    token.Token
		parts      int
	)
	depth := 0
	for !p.at(token.EOF) {
		t := p.peek()
		if depth == 0 && (t.Kind == token.Comma || t.Kind == token.RParen || t.Kind == token.Assign) {
			break
		}
		var sp source.Span
		switch t.Kind {
		case token.LParen, token.LBracket:
			sp = p.skipBalanced()
			lastTok = token.Token{}
		default:
			if t.Kind == token.Lt {
				depth++
			} else if t.Kind == token.Gt {
				depth--
			}
			lastTok = p.advance()
			sp = lastTok.Span
		}
		prev, last = last, sp
		parts++
	}
	if p.at(token.Assign) {
		p.advance()
		for !p.atAny(token.Comma, token.RParen, token.EOF) {
			if p.atAny(token.LParen, token.LBracket, token.LBrace) {
				p.skipBalanced()
				continue
			}
			p.advance()
		}
	}

	if parts < 2 || !lastTok.IsIdent() {
		p.report(diag.SynExpectIdentifier, diag.SevError, start.Cover(p.lastSpan), "expected parameter type and name")
		return ast.Param{}, false
	}
	return ast.Param{
		Type: p.text(typeStart, prev.End),
		Name: lastTok.Text,
		Span: source.Span{File: start.File, Start: start.Start, End: last.End},
	}, true
}

// parseBaseList reads "A, B<C>, global::D.E(args)" up to the body,
// a constraint clause or a semicolon.
func (p *Parser) parseBaseList() []ast.TypeRef {
	var bases []ast.TypeRef
	for !p.atAny(token.LBrace, token.Semicolon, token.KwWhere, token.EOF) {
		ref, ok := p.parseTypeRef()
		if ok {
			bases = append(bases, ref)
		}
		if p.at(token.LParen) {
			// аргументы базового конструктора записи
			p.skipBalanced()
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	return bases
}

func (p *Parser) parseTypeRef() (ast.TypeRef, bool) {
	start := p.peek().Span
	var (
		nameTok  token.Token
		arity    int
		qualEnd  uint32
		prevSep  uint32
		haveName bool
	)
	for {
		t := p.peek()
		if !t.IsIdent() {
			break
		}
		if haveName {
			qualEnd = prevSep
		}
		nameTok = p.advance()
		haveName = true
		arity = 0
		if p.at(token.Lt) {
			arity = p.countTypeArgs()
		}
		if !p.atAny(token.Dot, token.ColonColon) {
			break
		}
		prevSep = p.peek().Span.Start
		p.advance()
	}
	for p.atAny(token.Question, token.LBracket) {
		if p.at(token.LBracket) {
			p.skipBalanced()
			continue
		}
		p.advance()
	}
	if !haveName {
		p.report(diag.SynExpectIdentifier, diag.SevError, p.diagnosticSpan(), "expected base type")
		for !p.atAny(token.Comma, token.LBrace, token.Semicolon, token.KwWhere, token.EOF) {
			p.advance()
		}
		return ast.TypeRef{}, false
	}
	ref := ast.TypeRef{
		Name:  nameTok.Text,
		Arity: arity,
		Span:  start.Cover(p.lastSpan),
	}
	ref.Text = p.text(ref.Span.Start, ref.Span.End)
	if qualEnd > 0 {
		ref.Qualifier = p.text(start.Start, qualEnd)
	}
	return ref, true
}

// countTypeArgs skips "<...>" and returns the number of top-level arguments.
func (p *Parser) countTypeArgs() int {
	p.advance()
	depth, count := 1, 1
	for depth > 0 && !p.atAny(token.EOF, token.LBrace, token.Semicolon) {
		switch p.peek().Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
		case token.Comma:
			if depth == 1 {
				count++
			}
		case token.LParen, token.LBracket:
			p.skipBalanced()
			continue
		}
		p.advance()
	}
	return count
}

// parseConstraint reads one "where T : ..." clause as text.
func (p *Parser) parseConstraint() string {
	start := p.advance().Span
	for !p.atAny(token.KwWhere, token.LBrace, token.Semicolon, token.EOF) {
		if p.at(token.LParen) {
			p.skipBalanced()
			continue
		}
		p.advance()
	}
	return p.text(start.Start, p.lastSpan.End)
}

// parseTypeBody reads members until the closing brace, keeping nested types
// and constructors. Everything else is skipped.
func (p *Parser) parseTypeBody(self ast.TypeDeclID, typeName string, ns ast.NamespaceID) ([]ast.Ctor, []ast.TypeDeclID) {
	var (
		ctors  []ast.Ctor
		nested []ast.TypeDeclID
	)
	for !p.atAny(token.RBrace, token.EOF) {
		start := p.peek().Span
		attrs := p.parseAttrLists()
		mods := p.parseModifiers()
		switch {
		case p.atTypeStart():
			nested = append(nested, p.parseTypeDecl(start, attrs, mods, self, ns))
		case p.peek().IsIdent() && p.peek().Text == typeName && p.peekN(1).Kind == token.LParen:
			name := p.advance()
			ctors = append(ctors, ast.Ctor{
				Attrs:         attrs,
				Modifiers:     mods,
				Name:          name.Text,
				NameSpan:      name.Span,
				Span:          start.Cover(name.Span),
				Parameterless: p.peekN(1).Kind == token.RParen,
			})
			p.skipMember()
		default:
			p.skipMember()
		}
	}
	return ctors, nested
}
