package token

import "sumgen/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocLine
	TriviaDirective // #region, #nullable, #if ...
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
