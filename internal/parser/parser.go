package parser

import (
	"slices"

	"sumgen/internal/ast"
	"sumgen/internal/diag"
	"sumgen/internal/lexer"
	"sumgen/internal/source"
	"sumgen/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Tree   *ast.Builder
	Errors uint
}

// Parser — состояние парсера на один файл.
// Only declarations are modelled; member bodies, initializers and
// top-level statements are skipped by bracket matching.
type Parser struct {
	toks     []token.Token
	pos      int
	file     *source.File
	tree     *ast.Builder
	opts     Options
	lastSpan source.Span
}

// ParseFile lexes and parses one file.
func ParseFile(file *source.File, opts Options) Result {
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	p := Parser{
		toks:     lx.All(),
		file:     file,
		tree:     ast.NewBuilder(file.ID),
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}

	f := p.tree.File
	f.Items = p.parseItems(ast.NoNamespaceID, &f.Usings, false)
	f.Span = source.Span{File: file.ID, Start: 0, End: p.peek().Span.End}
	return Result{Tree: p.tree, Errors: p.opts.CurrentErrors}
}

func (p *Parser) peek() token.Token { return p.toks[p.pos] }

// peekN looks n tokens ahead; past the end it keeps returning EOF.
func (p *Parser) peekN(n int) token.Token {
	return p.toks[min(p.pos+n, len(p.toks)-1)]
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// atWord reports whether the current token is an identifier spelled w.
func (p *Parser) atWord(w string) bool {
	t := p.peek()
	return t.IsIdent() && t.Text == w
}

// parseItems reads using directives, namespaces and type declarations until
// the closing brace of the container (inBlock) or EOF.
func (p *Parser) parseItems(ns ast.NamespaceID, usings *[]ast.Using, inBlock bool) []ast.Item {
	var items []ast.Item
	for !p.at(token.EOF) {
		if p.at(token.RBrace) {
			if inBlock {
				return items
			}
			p.report(diag.SynUnexpectedTopLevel, diag.SevError, p.peek().Span, "unexpected '}'")
			p.advance()
			continue
		}

		switch {
		case p.at(token.KwUsing) || (p.atWord("global") && p.peekN(1).Kind == token.KwUsing):
			if u, ok := p.parseUsing(); ok {
				*usings = append(*usings, u)
			}
			continue
		case p.at(token.KwExtern) && p.peekN(1).Text == "alias":
			p.skipMember()
			continue
		case p.at(token.LBracket) && (p.peekN(1).Text == "assembly" || p.peekN(1).Text == "module") && p.peekN(2).Kind == token.Colon:
			p.skipBalanced()
			continue
		case p.at(token.KwNamespace):
			if id, ok := p.parseNamespace(ns); ok {
				items = append(items, ast.Item{Kind: ast.ItemNamespace, Namespace: id})
			}
			continue
		}

		start := p.peek().Span
		attrs := p.parseAttrLists()
		mods := p.parseModifiers()
		switch {
		case p.atTypeStart():
			id := p.parseTypeDecl(start, attrs, mods, ast.NoTypeDeclID, ns)
			items = append(items, ast.Item{Kind: ast.ItemType, Type: id})
		default:
			// delegates, global attributes, top-level statements
			p.skipMember()
		}
	}
	return items
}

func (p *Parser) parseModifiers() []ast.Modifier {
	var mods []ast.Modifier
	for p.peek().Kind.IsModifier() {
		// "new(" и "static(" - не модификаторы
		if p.peekN(1).Kind == token.LParen {
			break
		}
		t := p.advance()
		mods = append(mods, ast.Modifier{Kind: t.Kind, Text: t.Text, Span: t.Span})
	}
	return mods
}

// atTypeStart reports whether a type declaration keyword follows.
func (p *Parser) atTypeStart() bool {
	switch p.peek().Kind {
	case token.KwClass, token.KwStruct, token.KwInterface, token.KwEnum:
		return true
	case token.KwRecord:
		next := p.peekN(1)
		return next.IsIdent() || next.Kind == token.KwClass || next.Kind == token.KwStruct
	}
	return false
}
