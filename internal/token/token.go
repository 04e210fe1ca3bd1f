package token

import "sumgen/internal/source"

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsIdent reports whether the token can serve as a name. Contextual
// keywords count.
func (t Token) IsIdent() bool {
	return t.Kind == Ident || IsContextual(t.Kind)
}

// IsLiteral reports whether the token is a literal value.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, RealLit, StringLit, CharLit, KwTrue, KwFalse, KwNull:
		return true
	}
	return false
}
