package fuzztests

import (
	"context"
	"testing"
	"time"

	"sumgen/internal/compose"
	"sumgen/internal/decl"
	"sumgen/internal/diag"
	"sumgen/internal/extract"
	"sumgen/internal/fix"
	"sumgen/internal/model"
	"sumgen/internal/parser"
	"sumgen/internal/source"
	"sumgen/internal/testkit"
	"sumgen/internal/validate"
)

// parseTimeout is the maximum time allowed for one input. Longer means a
// likely infinite loop in error recovery.
const parseTimeout = 5 * time.Second

func FuzzParserSpans(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.cs", input))
		bag := diag.NewBag(128)
		res := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 128})
		if err := testkit.CheckSpanInvariants(res.Tree, file); err != nil {
			t.Fatalf("span invariants: %v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}

// FuzzPipelineNoHang runs the whole pipeline on one file and requires it to
// finish without panicking. Valid targets must render and every attached fix
// must apply cleanly to the input.
func FuzzPipelineNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		failure := make(chan string, 1)
		go func() {
			defer close(failure)
			if msg := runPipeline(input); msg != "" {
				failure <- msg
			}
		}()

		select {
		case msg, ok := <-failure:
			if ok {
				t.Fatalf("%s\ninput: %q", msg, truncateForLog(input, 200))
			}
		case <-ctx.Done():
			t.Fatalf("pipeline hang detected: took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

func runPipeline(input []byte) string {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("fuzz.cs", input))
	res := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: diag.NewBag(128)}, MaxErrors: 128})
	decls := decl.FromTree(res.Tree, file)
	index := decl.NewIndex()
	index.Add(decls)

	var diags []diag.Diagnostic
	opts := model.GeneratorOptions{RuntimeNamespace: model.DefaultRuntimeNamespace}
	for _, d := range decl.DefaultMarker.Candidates(decls) {
		diags = append(diags, validate.Declaration(d, index)...)
		target, ok := extract.Target(d, index)
		if !ok {
			continue
		}
		if !target.Equal(target) {
			return "snapshot is not equal to itself"
		}
		if len(compose.Union(target, opts, "")) == 0 {
			return "valid target rendered nothing"
		}
	}
	for _, d := range fix.Attach(diags, decls) {
		for _, fx := range d.Fixes {
			if _, err := fix.ApplyDocument(input, fx); err != nil {
				return "fix " + fx.ID + " does not apply: " + err.Error()
			}
		}
	}
	return ""
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
