package lexer

import "sumgen/internal/token"

// scanNumber accepts decimal, hex (0x) and binary (0b) literals with '_'
// separators, a fractional part, an exponent and type suffixes. Values are
// never interpreted.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '0' && (lx.cursor.PeekAt(1)|0x20 == 'x' || lx.cursor.PeekAt(1)|0x20 == 'b') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		for isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	} else {
		lx.eatDigits()
		if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
			kind = token.RealLit
			lx.cursor.Bump()
			lx.eatDigits()
		}
		if lx.cursor.Peek()|0x20 == 'e' {
			next := lx.cursor.PeekAt(1)
			if isDec(next) || ((next == '+' || next == '-') && isDec(lx.cursor.PeekAt(2))) {
				kind = token.RealLit
				lx.cursor.Bump()
				lx.cursor.Eat('+')
				lx.cursor.Eat('-')
				lx.eatDigits()
			}
		}
	}

	// suffixes: u, l, ul, f, d, m
	for {
		switch lx.cursor.Peek() | 0x20 {
		case 'u', 'l':
			lx.cursor.Bump()
			continue
		case 'f', 'd', 'm':
			kind = token.RealLit
			lx.cursor.Bump()
			continue
		}
		break
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) eatDigits() {
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}
