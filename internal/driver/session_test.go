package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/grafana/codejen"

	"sumgen/internal/diag"
	"sumgen/internal/model"
	"sumgen/internal/observ"
	"sumgen/internal/source"
)

const resultSource = `using System;

namespace Tests;

[Union]
public partial record Result<T, TE>
{
    partial record Ok(T Value);
    partial record Err(TE Error);
}
`

const shapeSource = `namespace Tests;

[Union(GenerateAsyncExtensions = true)]
public partial record Shape
{
    partial record Circle(double Radius);
    partial record Square(double Side);
    partial record Empty;
}
`

func virtualSet(srcs map[string]string) *source.FileSet {
	fs := source.NewFileSet()
	for _, name := range []string{"result.cs", "shape.cs", "broken.cs"} {
		if text, ok := srcs[name]; ok {
			fs.AddVirtual(name, []byte(text))
		}
	}
	return fs
}

func unitPaths(fs *codejen.FS) []string {
	var out []string
	for _, f := range fs.AsFiles() {
		out = append(out, f.RelativePath)
	}
	return out
}

func unitData(t *testing.T, fs *codejen.FS, path string) string {
	t.Helper()
	for _, f := range fs.AsFiles() {
		if f.RelativePath == path {
			return string(f.Data)
		}
	}
	t.Fatalf("unit %s not found in %v", path, unitPaths(fs))
	return ""
}

func TestRunProducesUnits(t *testing.T) {
	s := NewSession(Options{Jobs: 2})
	res, err := s.RunFileSet(context.Background(), virtualSet(map[string]string{
		"result.cs": resultSource,
		"shape.cs":  shapeSource,
	}))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", diag.FormatShortDiagnostics(res.Diagnostics, res.Files, false))
	}
	if len(res.Targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(res.Targets))
	}
	if got := len(res.Arities); got != 2 || res.Arities[0].N != 2 || res.Arities[1].N != 3 {
		t.Fatalf("unexpected arities %+v", res.Arities)
	}
	if !res.Arities[0].Async {
		t.Fatalf("async descriptors must be global once any target asks for them")
	}
	if n := len(res.Units.AsFiles()); n != 4 {
		t.Fatalf("expected 4 units, got %v", unitPaths(res.Units))
	}
	if !strings.Contains(unitData(t, res.Units, "Tests.Result{T, TE}.g.cs"), "abstract partial record Result<T, TE>") {
		t.Fatalf("result unit does not declare the union")
	}
	unitData(t, res.Units, "Union3.g.cs")
	if res.Stats.Rendered != 4 || res.Reused {
		t.Fatalf("first pass must render everything: %+v reused=%v", res.Stats, res.Reused)
	}
}

func TestSecondPassReusesEverything(t *testing.T) {
	s := NewSession(Options{})
	srcs := map[string]string{"result.cs": resultSource, "shape.cs": shapeSource}
	first, err := s.RunFileSet(context.Background(), virtualSet(srcs))
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.RunFileSet(context.Background(), virtualSet(srcs))
	if err != nil {
		t.Fatal(err)
	}
	if !second.Reused {
		t.Fatalf("unchanged inputs must reuse the front end")
	}
	if second.Stats.Rendered != 0 || second.Stats.Memo != 4 {
		t.Fatalf("unexpected stats %+v", second.Stats)
	}
	for _, f := range first.Units.AsFiles() {
		if unitData(t, second.Units, f.RelativePath) != string(f.Data) {
			t.Fatalf("%s differs between passes", f.RelativePath)
		}
	}
}

func TestIndentChangeRerenders(t *testing.T) {
	s := NewSession(Options{})
	srcs := map[string]string{"result.cs": resultSource}
	if _, err := s.RunFileSet(context.Background(), virtualSet(srcs)); err != nil {
		t.Fatal(err)
	}
	s.opts.Indent = "\t"
	res, err := s.RunFileSet(context.Background(), virtualSet(srcs))
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Memo != 0 || res.Stats.Rendered != 2 {
		t.Fatalf("indent must invalidate memoized units: %+v", res.Stats)
	}
	if !strings.Contains(unitData(t, res.Units, "Tests.Result{T, TE}.g.cs"), "\n\tabstract partial record Result<T, TE>") {
		t.Fatalf("unit not rendered with tab indentation")
	}
}

func TestChangedFileRendersOnlyItsUnit(t *testing.T) {
	s := NewSession(Options{})
	if _, err := s.RunFileSet(context.Background(), virtualSet(map[string]string{
		"result.cs": resultSource,
		"shape.cs":  shapeSource,
	})); err != nil {
		t.Fatal(err)
	}
	changed := strings.Replace(resultSource, "partial record Err(TE Error);", "partial record Err(TE Error, int Code);", 1)
	res, err := s.RunFileSet(context.Background(), virtualSet(map[string]string{
		"result.cs": changed,
		"shape.cs":  shapeSource,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res.Reused {
		t.Fatalf("changed inputs must not reuse the front end")
	}
	if res.Stats.Rendered != 1 || res.Stats.Memo != 3 {
		t.Fatalf("only the changed target must be rendered: %+v", res.Stats)
	}
	if !strings.Contains(unitData(t, res.Units, "Tests.Result{T, TE}.g.cs"), "int Code") {
		t.Fatalf("changed unit not re-rendered")
	}
	if s.Units().Len() != 4 {
		t.Fatalf("memo must drop stale units, has %d", s.Units().Len())
	}
}

func TestInvalidUnionReportsAndSkips(t *testing.T) {
	s := NewSession(Options{})
	res, err := s.RunFileSet(context.Background(), virtualSet(map[string]string{
		"result.cs": strings.Replace(resultSource, "public partial record", "public sealed record", 1),
	}))
	if err != nil {
		t.Fatal(err)
	}
	got := diag.FormatShortDiagnostics(res.Diagnostics, res.Files, false)
	want := "error UL1001 result.cs:6:15 Type 'Result' marked for source generation is missing partial keyword\n" +
		"error UL1003 result.cs:6:15 Union Type 'Result' cannot be sealed"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
	for _, d := range res.Diagnostics {
		if len(d.Fixes) != 1 {
			t.Fatalf("%s: expected an attached fix", d.Code.ID())
		}
	}
	if len(res.Targets) != 0 || len(res.Units.AsFiles()) != 0 {
		t.Fatalf("invalid union must not be generated")
	}
}

func TestRunFromDisk(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "result.cs"), []byte(resultSource), 0o600); err != nil {
		t.Fatal(err)
	}
	paths, err := ListSources([]string{dir}, nil)
	if err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.cs")
	timer := observ.NewTimer()
	s := NewSession(Options{BaseDir: dir, Timer: timer})
	res, err := s.Run(context.Background(), append(paths, missing))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != diag.IOLoadFileError {
		t.Fatalf("expected one IO6001, got:\n%s", diag.FormatShortDiagnostics(res.Diagnostics, res.Files, false))
	}
	if len(res.Targets) != 1 {
		t.Fatalf("the readable file must still be processed")
	}
	if len(timer.Report().Phases) == 0 {
		t.Fatalf("phases not recorded")
	}

	if _, err := s.Run(context.Background(), nil); !errors.Is(err, ErrNoSources) {
		t.Fatalf("expected ErrNoSources, got %v", err)
	}
}

func TestDiskCacheServesNewSession(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srcs := map[string]string{"result.cs": resultSource}
	opts := Options{DiskCache: cache, Generator: model.GeneratorOptions{AsyncExtensions: true}}

	first, err := NewSession(opts).RunFileSet(context.Background(), virtualSet(srcs))
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewSession(opts).RunFileSet(context.Background(), virtualSet(srcs))
	if err != nil {
		t.Fatal(err)
	}
	if second.Stats.Disk != 2 || second.Stats.Rendered != 0 {
		t.Fatalf("expected units from disk, got %+v", second.Stats)
	}
	for _, f := range first.Units.AsFiles() {
		if unitData(t, second.Units, f.RelativePath) != string(f.Data) {
			t.Fatalf("%s differs after disk round trip", f.RelativePath)
		}
	}

	// другие опции - другой ключ
	third, err := NewSession(Options{DiskCache: cache}).RunFileSet(context.Background(), virtualSet(srcs))
	if err != nil {
		t.Fatal(err)
	}
	if third.Stats.Rendered != 2 {
		t.Fatalf("changed options must miss the cache: %+v", third.Stats)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	fourth, err := NewSession(opts).RunFileSet(context.Background(), virtualSet(srcs))
	if err != nil {
		t.Fatal(err)
	}
	if fourth.Stats.Disk != 0 || fourth.Stats.Rendered != 2 {
		t.Fatalf("cache not empty after DropAll: %+v", fourth.Stats)
	}
}

func TestCancelledPass(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSession(Options{}).RunFileSet(ctx, virtualSet(map[string]string{"result.cs": resultSource}))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestProgressEvents(t *testing.T) {
	var mu sync.Mutex
	stages := map[Stage]Status{}
	files := 0
	sink := SinkFunc(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		if ev.File != "" {
			if ev.Stage == StageParse && ev.Status == StatusDone {
				files++
			}
			return
		}
		stages[ev.Stage] = ev.Status
	})
	_, err := NewSession(Options{Progress: sink}).RunFileSet(context.Background(), virtualSet(map[string]string{
		"result.cs": resultSource,
		"shape.cs":  shapeSource,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if files != 2 {
		t.Fatalf("expected 2 parsed files, got %d", files)
	}
	for _, st := range []Stage{StageParse, StageValidate, StageCompose} {
		if stages[st] != StatusDone {
			t.Fatalf("stage %s ended with %q", st, stages[st])
		}
	}
}

func TestListSourcesSkipsOutput(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"a.cs", "sub/b.cs", "obj/sumgen/Union2.g.cs", ".git/x.cs", "notes.txt"} {
		full := filepath.Join(root, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	got, err := ListSources([]string{root, filepath.Join(root, "a.cs")}, nil, filepath.Join(root, "obj", "sumgen"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(root, "a.cs"), filepath.Join(root, "sub", "b.cs")}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v, want %v", got, want)
	}
}
