package lexer

import (
	"sumgen/internal/diag"
	"sumgen/internal/token"
)

// scanString handles every string form of the host language:
// "regular", @"verbatim", $"interpolated {x}", $@"both", """raw""" and
// $"""raw {x}""". Interpolation holes are skipped with brace matching; nested
// strings inside holes are scanned recursively.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	verbatim, interpolated := false, false
	for {
		switch lx.cursor.Peek() {
		case '@':
			verbatim = true
			lx.cursor.Bump()
			continue
		case '$':
			interpolated = true
			lx.cursor.Bump()
			continue
		}
		break
	}

	quotes := 0
	for !verbatim && lx.cursor.PeekAt(uint32(quotes)) == '"' {
		quotes++
	}
	var ok bool
	if quotes >= 3 {
		ok = lx.scanRawBody(quotes)
	} else {
		lx.cursor.Bump()
		ok = lx.scanQuotedBody(verbatim, interpolated)
	}

	sp := lx.cursor.SpanFrom(start)
	if !ok {
		lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	}
	return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) scanQuotedBody(verbatim, interpolated bool) bool {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '"':
			lx.cursor.Bump()
			if verbatim && lx.cursor.Peek() == '"' {
				lx.cursor.Bump()
				continue
			}
			return true
		case b == '\\' && !verbatim:
			lx.cursor.Bump()
			lx.cursor.Bump()
		case b == '\n' && !verbatim:
			return false
		case b == '{' && interpolated:
			lx.cursor.Bump()
			if lx.cursor.Eat('{') {
				continue
			}
			lx.skipHole()
		default:
			lx.cursor.Bump()
		}
	}
	return false
}

// skipHole consumes an interpolation hole up to its closing brace.
func (lx *Lexer) skipHole() {
	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		switch lx.cursor.Peek() {
		case '{':
			depth++
			lx.cursor.Bump()
		case '}':
			depth--
			lx.cursor.Bump()
		case '"':
			lx.scanString()
		case '@', '$':
			if next := lx.cursor.PeekAt(1); next == '"' || next == '@' || next == '$' {
				lx.scanString()
				continue
			}
			lx.cursor.Bump()
		case '\'':
			lx.scanChar()
		default:
			lx.cursor.Bump()
		}
	}
}

func (lx *Lexer) scanRawBody(quotes int) bool {
	for range quotes {
		lx.cursor.Bump()
	}
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() != '"' {
			lx.cursor.Bump()
			continue
		}
		n := 0
		for lx.cursor.Peek() == '"' {
			lx.cursor.Bump()
			n++
		}
		if n >= quotes {
			return true
		}
	}
	return false
}

func (lx *Lexer) scanChar() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	ok := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' {
			break
		}
		lx.cursor.Bump()
		if b == '\\' {
			lx.cursor.Bump()
			continue
		}
		if b == '\'' {
			ok = true
			break
		}
	}
	sp := lx.cursor.SpanFrom(start)
	if !ok {
		lx.errLex(diag.LexUnterminatedChar, sp, "unterminated character literal")
	}
	return token.Token{Kind: token.CharLit, Span: sp, Text: lx.text(sp)}
}
