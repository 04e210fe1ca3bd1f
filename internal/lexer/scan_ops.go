package lexer

import "sumgen/internal/token"

var singlePunct = map[byte]token.Kind{
	'{': token.LBrace,
	'}': token.RBrace,
	'(': token.LParen,
	')': token.RParen,
	'[': token.LBracket,
	']': token.RBracket,
	'<': token.Lt,
	'>': token.Gt,
	',': token.Comma,
	';': token.Semicolon,
	'.': token.Dot,
	'?': token.Question,
	'*': token.Star,
	'&': token.Amp,
	'#': token.Hash,
}

// scanOperatorOrPunct returns structural punctuation as its own kind and
// groups everything else into Op. '<' and '>' are always single tokens so
// that nested generic arguments close one bracket at a time.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()
	kind := token.Op

	switch b {
	case ':':
		kind = token.Colon
		if lx.cursor.Eat(':') {
			kind = token.ColonColon
		}
	case '=':
		switch {
		case lx.cursor.Eat('>'):
			kind = token.FatArrow
		case lx.cursor.Eat('='):
		default:
			kind = token.Assign
		}
	case '?':
		kind = token.Question
		if lx.cursor.Peek() == '?' || lx.cursor.Peek() == '.' {
			lx.cursor.Bump()
			kind = token.Op
		}
	case '&':
		kind = token.Amp
		if lx.cursor.Eat('&') {
			kind = token.Op
		}
	default:
		if k, ok := singlePunct[b]; ok {
			kind = k
			break
		}
		for isOpByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func isOpByte(b byte) bool {
	switch b {
	case '+', '-', '/', '%', '!', '|', '^', '~', '=':
		return true
	}
	return false
}
