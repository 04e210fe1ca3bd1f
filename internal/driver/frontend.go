package driver

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"sumgen/internal/decl"
	"sumgen/internal/diag"
	"sumgen/internal/extract"
	"sumgen/internal/model"
	"sumgen/internal/parser"
	"sumgen/internal/source"
	"sumgen/internal/trace"
	"sumgen/internal/validate"
)

// parsedFile is the front-end result of one source file.
type parsedFile struct {
	file  *source.File
	decls []*decl.Decl
	bag   *diag.Bag
}

func jobsFor(jobs, work int) int {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, work))
}

// parseFiles parses every file in parallel. Results are written into
// per-index slots, so no locking is needed.
func parseFiles(ctx context.Context, files []*source.File, opts Options) ([]parsedFile, error) {
	results := make([]parsedFile, len(files))
	if len(files) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobsFor(opts.Jobs, len(files)))

	for i, file := range files {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			_, span := trace.StartSpan(gctx, trace.ScopeFile, "parse")
			span.WithExtra("file", file.Path)
			emit(opts.Progress, Event{File: file.Path, Stage: StageParse, Status: StatusWorking})

			bag := diag.NewBag(opts.MaxDiagnostics)
			res := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
			results[i] = parsedFile{
				file:  file,
				decls: decl.FromTree(res.Tree, file),
				bag:   bag,
			}

			status := StatusDone
			if bag.HasErrors() {
				status = StatusError
			}
			span.End(string(status))
			emit(opts.Progress, Event{File: file.Path, Stage: StageParse, Status: status, Elapsed: time.Since(start)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// analysis is the validator and extractor output for one candidate.
type analysis struct {
	diags  []diag.Diagnostic
	target model.UnionTarget
	ok     bool
}

// analyzeCandidates validates and extracts every candidate in parallel.
// The index is read-only at this point.
func analyzeCandidates(ctx context.Context, candidates []*decl.Decl, oracle decl.Oracle, opts Options) ([]analysis, error) {
	results := make([]analysis, len(candidates))
	if len(candidates) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobsFor(opts.Jobs, len(candidates)))

	for i, d := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tracer := trace.FromContext(gctx)
			ds := validate.Declaration(d, oracle)
			target, ok := extract.Target(d, oracle)
			results[i] = analysis{diags: ds, target: target, ok: ok}
			trace.Point(tracer, trace.ScopeDecl, "analyze", d.Symbol)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
