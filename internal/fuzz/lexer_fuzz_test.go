package fuzztests

import (
	"testing"

	"sumgen/internal/diag"
	"sumgen/internal/lexer"
	"sumgen/internal/source"
	"sumgen/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.cs", input))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		var prev uint32
		for i := 0; ; i++ {
			tok := lx.Next()
			if tok.Span.Start < prev || tok.Span.End < tok.Span.Start {
				t.Fatalf("token %d span %v goes backwards (prev end %d)", i, tok.Span, prev)
			}
			prev = tok.Span.End
			if tok.Kind == token.EOF {
				break
			}
			if i > len(input)+1 {
				t.Fatalf("lexer emitted more tokens than input bytes")
			}
		}
	})
}
