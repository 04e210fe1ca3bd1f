package lexer

import (
	"sumgen/internal/diag"
	"sumgen/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
//   - ' ', '\t', '\r' коалесцируются в один TriviaSpace
//   - последовательные '\n' коалесцируются в один TriviaNewline
//   - //... и ///... до \n
//   - /* ... */ (без вложенности, как в хост-языке)
//   - #directive до конца строки, только в начале строки
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		switch b := lx.cursor.Peek(); {
		case b == ' ' || b == '\t' || b == '\r' || b == '\f' || b == '\v':
			for c := lx.cursor.Peek(); c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v'; c = lx.cursor.Peek() {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
		case b == '\n':
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.lineStart = true
			lx.pushTrivia(token.TriviaNewline, start)
		case b == '#' && lx.lineStart:
			lx.skipToEOL()
			lx.pushTrivia(token.TriviaDirective, start)
		case b == '/' && lx.cursor.PeekAt(1) == '/':
			kind := token.TriviaLineComment
			if lx.cursor.PeekAt(2) == '/' && lx.cursor.PeekAt(3) != '/' {
				kind = token.TriviaDocLine
			}
			lx.skipToEOL()
			lx.pushTrivia(kind, start)
		case b == '/' && lx.cursor.PeekAt(1) == '*':
			lx.cursor.Bump()
			lx.cursor.Bump()
			closed := false
			for !lx.cursor.EOF() {
				if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					closed = true
					break
				}
				lx.cursor.Bump()
			}
			if !closed {
				lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
			}
			lx.pushTrivia(token.TriviaBlockComment, start)
		default:
			return
		}
	}
}

func (lx *Lexer) skipToEOL() {
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)})
}
