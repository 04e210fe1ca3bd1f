package driver

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/grafana/codejen"
	"golang.org/x/sync/errgroup"

	"sumgen/internal/arity"
	"sumgen/internal/compose"
	"sumgen/internal/decl"
	"sumgen/internal/diag"
	"sumgen/internal/fix"
	"sumgen/internal/model"
	"sumgen/internal/observ"
	"sumgen/internal/source"
	"sumgen/internal/trace"
)

// Options configures a Session.
type Options struct {
	// Jobs bounds parallelism; <= 0 means GOMAXPROCS.
	Jobs           int
	MaxDiagnostics int
	Generator      model.GeneratorOptions
	// Indent is the unit of indentation in generated code.
	Indent   string
	BaseDir  string
	Progress ProgressSink
	Timer    *observ.Timer
	// DiskCache, when set, persists rendered units between processes.
	DiskCache *DiskCache
	// SkipCompose stops after extraction (diag and fix commands).
	SkipCompose bool
}

// Stats counts how output units were obtained.
type Stats struct {
	Rendered int
	Memo     int
	Disk     int
}

// Result is the outcome of one pass.
type Result struct {
	Files   *source.FileSet
	Decls   []*decl.Decl
	Targets []model.UnionTarget
	Arities []model.Arity
	// Diagnostics are sorted and carry fixes where available.
	Diagnostics []diag.Diagnostic
	Units       *codejen.FS
	// Digest identifies the input file set.
	Digest model.Digest
	// Reused reports that the front-end result of the previous pass was
	// taken over because the inputs did not change.
	Reused bool
	Stats  Stats
}

// HasErrors reports whether any diagnostic is an error.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity >= diag.SevError {
			return true
		}
	}
	return false
}

// frontend is what a pass keeps for the next one.
type frontend struct {
	digest  model.Digest
	files   *source.FileSet
	decls   []*decl.Decl
	targets []model.UnionTarget
	diags   []diag.Diagnostic
}

// Session runs repeated passes over changing inputs and memoizes
// everything that did not change. Safe for sequential use from several
// goroutines; passes are serialized.
type Session struct {
	opts  Options
	mu    sync.Mutex
	last  *frontend
	units *UnitCache
}

func NewSession(opts Options) *Session {
	if opts.Generator.RuntimeNamespace == "" {
		opts.Generator.RuntimeNamespace = model.DefaultRuntimeNamespace
	}
	return &Session{opts: opts, units: NewUnitCache(32)}
}

// Units exposes the memo, mostly for tests and stats.
func (s *Session) Units() *UnitCache { return s.units }

// Run loads paths from disk and runs one pass. Unreadable files become
// IO6001 diagnostics instead of errors.
func (s *Session) Run(ctx context.Context, paths []string) (*Result, error) {
	if len(paths) == 0 {
		return nil, ErrNoSources
	}
	timer := s.opts.Timer
	idx := beginPhase(timer, string(StageLoad))
	emitStage(s.opts.Progress, StageLoad, StatusWorking, nil, 0)

	fs := source.NewFileSetWithBase(s.opts.BaseDir)
	var loadDiags []diag.Diagnostic
	for _, path := range paths {
		emit(s.opts.Progress, Event{File: path, Stage: StageParse, Status: StatusQueued})
		if _, err := fs.Load(path); err != nil {
			id := fs.Add(path, nil, 0)
			loadDiags = append(loadDiags, diag.New(diag.IOLoadFileError, source.Span{File: id}, "failed to load file: "+err.Error()))
			emit(s.opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
		}
	}
	endPhase(timer, idx, strconv.Itoa(len(paths))+" files")
	return s.run(ctx, fs, loadDiags)
}

// RunFileSet runs one pass over an already populated file set.
func (s *Session) RunFileSet(ctx context.Context, fs *source.FileSet) (*Result, error) {
	if fs == nil || fs.Len() == 0 {
		return nil, ErrNoSources
	}
	return s.run(ctx, fs, nil)
}

func (s *Session) run(ctx context.Context, fs *source.FileSet, loadDiags []diag.Diagnostic) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := trace.StartSpan(ctx, trace.ScopeDriver, "pass")
	defer span.End("")

	files := fs.Files()
	digest := filesDigest(files)
	span.WithExtra("digest", digest.String()[:12])

	res := &Result{Digest: digest}
	if s.last != nil && s.last.digest == digest && len(loadDiags) == 0 {
		res.Reused = true
		res.Files = s.last.files
		res.Decls = s.last.decls
		res.Targets = s.last.targets
		res.Diagnostics = s.last.diags
		trace.Point(trace.FromContext(ctx), trace.ScopeStage, "reuse", "inputs unchanged")
	} else {
		fe, err := s.frontend(ctx, fs, files, loadDiags)
		if err != nil {
			return nil, err
		}
		fe.digest = digest
		s.last = fe
		res.Files = fe.files
		res.Decls = fe.decls
		res.Targets = fe.targets
		res.Diagnostics = fe.diags
	}

	res.Arities = arity.Registry(res.Targets, s.opts.Generator)
	if s.opts.SkipCompose {
		return res, nil
	}

	units, stats, err := s.compose(ctx, res.Targets, res.Arities)
	res.Units = units
	res.Stats = stats
	if err != nil {
		return res, err
	}
	return res, nil
}

// frontend parses, indexes, validates and extracts.
func (s *Session) frontend(ctx context.Context, fs *source.FileSet, files []*source.File, loadDiags []diag.Diagnostic) (*frontend, error) {
	timer := s.opts.Timer

	// parse
	idx := beginPhase(timer, string(StageParse))
	stageCtx, span := trace.StartSpan(ctx, trace.ScopeStage, "parse")
	start := time.Now()
	emitStage(s.opts.Progress, StageParse, StatusWorking, nil, 0)
	parsed, err := parseFiles(stageCtx, files, s.opts)
	span.End("")
	if err != nil {
		emitStage(s.opts.Progress, StageParse, StatusError, err, time.Since(start))
		return nil, err
	}
	emitStage(s.opts.Progress, StageParse, StatusDone, nil, time.Since(start))
	endPhase(timer, idx, "")

	bag := diag.NewBag(s.opts.MaxDiagnostics)
	bag.AddAll(loadDiags)
	index := decl.NewIndex()
	var all []*decl.Decl
	for _, p := range parsed {
		bag.Merge(p.bag)
		index.Add(p.decls)
		all = append(all, p.decls...)
	}

	// validate + extract, after the barrier so every part is indexed
	idx = beginPhase(timer, string(StageValidate))
	stageCtx, span = trace.StartSpan(ctx, trace.ScopeStage, "validate")
	start = time.Now()
	emitStage(s.opts.Progress, StageValidate, StatusWorking, nil, 0)
	candidates := uniqueSymbols(decl.DefaultMarker.Candidates(all))
	analyses, err := analyzeCandidates(stageCtx, candidates, index, s.opts)
	span.WithExtra("candidates", strconv.Itoa(len(candidates))).End("")
	if err != nil {
		emitStage(s.opts.Progress, StageValidate, StatusError, err, time.Since(start))
		return nil, err
	}
	emitStage(s.opts.Progress, StageValidate, StatusDone, nil, time.Since(start))
	endPhase(timer, idx, strconv.Itoa(len(candidates))+" candidates")

	targets := make([]model.UnionTarget, 0, len(analyses))
	for _, a := range analyses {
		bag.AddAll(a.diags)
		if a.ok {
			targets = append(targets, a.target)
		}
	}
	bag.Dedup()
	bag.Sort()
	emitStage(s.opts.Progress, StageExtract, StatusDone, nil, 0)

	return &frontend{
		files:   fs,
		decls:   all,
		targets: targets,
		diags:   fix.Attach(bag.Items(), all),
	}, nil
}

type unit struct {
	key   model.Digest
	input any
}

// compose renders arity and target units in parallel, serving unchanged
// ones from the memo or the disk cache.
func (s *Session) compose(ctx context.Context, targets []model.UnionTarget, arities []model.Arity) (*codejen.FS, Stats, error) {
	timer := s.opts.Timer
	idx := beginPhase(timer, string(StageCompose))
	ctx, span := trace.StartSpan(ctx, trace.ScopeStage, "compose")
	defer span.End("")
	start := time.Now()
	emitStage(s.opts.Progress, StageCompose, StatusWorking, nil, 0)

	// the indent unit is part of every unit key
	optDigest := model.Combine(s.opts.Generator.Digest(), model.Digest(sha256.Sum256([]byte(s.opts.Indent))))
	units := make([]unit, 0, len(arities)+len(targets))
	for _, a := range arities {
		units = append(units, unit{key: model.Combine(a.Digest(), optDigest), input: compose.ArityInput{Arity: a, Options: s.opts.Generator}})
	}
	for _, t := range targets {
		units = append(units, unit{key: model.Combine(t.Digest(), optDigest), input: compose.UnionInput{Target: t, Options: s.opts.Generator}})
	}

	files := make([]codejen.File, len(units))
	origin := make([]int, len(units)) // 0 rendered, 1 memo, 2 disk
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobsFor(s.opts.Jobs, len(units)))
	for i, u := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, from, err := s.unit(u)
			if err != nil {
				return err
			}
			files[i], origin[i] = f, from
			trace.Point(trace.FromContext(gctx), trace.ScopeFile, "unit", f.RelativePath)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		emitStage(s.opts.Progress, StageCompose, StatusError, err, time.Since(start))
		return nil, Stats{}, err
	}

	var stats Stats
	keep := make(map[model.Digest]struct{}, len(units))
	out := codejen.NewFS()
	for i, f := range files {
		switch origin[i] {
		case 1:
			stats.Memo++
		case 2:
			stats.Disk++
		default:
			stats.Rendered++
		}
		keep[units[i].key] = struct{}{}
		if err := out.Add(f); err != nil {
			return nil, stats, fmt.Errorf("compose: %w", err)
		}
	}
	s.units.Retain(keep)

	emitStage(s.opts.Progress, StageCompose, StatusDone, nil, time.Since(start))
	endPhase(timer, idx, fmt.Sprintf("%d rendered, %d cached", stats.Rendered, stats.Memo+stats.Disk))
	return out, stats, nil
}

func (s *Session) unit(u unit) (codejen.File, int, error) {
	if f, ok := s.units.Get(u.key); ok {
		return f, 1, nil
	}
	indent := s.opts.Indent
	var jenny codejen.NamedJenny
	var render func() (*codejen.File, error)
	switch in := u.input.(type) {
	case compose.ArityInput:
		j := compose.ArityJenny{Indent: indent}
		jenny, render = j, func() (*codejen.File, error) { return j.Generate(in) }
	case compose.UnionInput:
		j := compose.UnionJenny{Indent: indent}
		jenny, render = j, func() (*codejen.File, error) { return j.Generate(in) }
	default:
		return codejen.File{}, 0, fmt.Errorf("compose: unexpected input %T", u.input)
	}

	var payload DiskPayload
	if ok, err := s.opts.DiskCache.Get(u.key, &payload); err == nil && ok && payload.Jenny == jenny.JennyName() {
		f := *codejen.NewFile(payload.Path, payload.Data, jenny)
		s.units.Put(u.key, f)
		return f, 2, nil
	}

	f, err := render()
	if err != nil {
		return codejen.File{}, 0, err
	}
	s.units.Put(u.key, *f)
	// кеш на диске - best effort
	_ = s.opts.DiskCache.Put(u.key, &DiskPayload{Path: f.RelativePath, Jenny: jenny.JennyName(), Data: f.Data})
	return *f, 0, nil
}

// uniqueSymbols keeps the first marked part of every type, so a union
// marked on two parts yields one target.
func uniqueSymbols(ds []*decl.Decl) []*decl.Decl {
	seen := make(map[string]struct{}, len(ds))
	out := ds[:0:0]
	for _, d := range ds {
		if _, ok := seen[d.Symbol]; ok {
			continue
		}
		seen[d.Symbol] = struct{}{}
		out = append(out, d)
	}
	return out
}

// filesDigest identifies a file set by path and content.
func filesDigest(files []*source.File) model.Digest {
	sorted := make([]*source.File, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })
	h := sha256.New()
	for _, f := range sorted {
		_, _ = h.Write([]byte(f.Path))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write(f.Hash[:])
	}
	var out model.Digest
	copy(out[:], h.Sum(nil))
	return out
}

func beginPhase(t *observ.Timer, name string) int {
	if t == nil {
		return -1
	}
	return t.Begin(name)
}

func endPhase(t *observ.Timer, idx int, note string) {
	if t != nil {
		t.End(idx, note)
	}
}
