package fix

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sumgen/internal/decl"
	"sumgen/internal/diag"
	"sumgen/internal/parser"
	"sumgen/internal/source"
	"sumgen/internal/validate"
)

func TestGatherCandidatesSkipsDuplicateFixIDs(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cs", []byte(""))
	span := source.Span{File: fileID, Start: 0, End: 0}

	diagnostics := []diag.Diagnostic{{
		Code:    diag.UnionMissingPartial,
		Message: "missing partial",
		Primary: span,
		Fixes: []diag.Fix{
			{ID: "fix-duplicate", Title: "add partial", Edits: []diag.TextEdit{{Span: span, NewText: "partial "}}},
			{ID: "fix-duplicate", Title: "add partial again", Edits: []diag.TextEdit{{Span: span, NewText: "partial "}}},
		},
	}}

	candidates, skips := gatherCandidates(diagnostics)
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if len(skips) != 1 {
		t.Fatalf("expected 1 skipped fix, got %d", len(skips))
	}
	if skips[0].ID != "fix-duplicate" || skips[0].Reason != "duplicate fix id" {
		t.Fatalf("unexpected skip %+v", skips[0])
	}
}

func TestApplyDocument(t *testing.T) {
	content := []byte("public sealed record R;")
	tests := []struct {
		name    string
		edits   []diag.TextEdit
		want    string
		wantErr bool
	}{
		{
			name:  "delete",
			edits: []diag.TextEdit{{Span: source.Span{Start: 7, End: 14}, OldText: "sealed "}},
			want:  "public record R;",
		},
		{
			name: "two edits back to front",
			edits: []diag.TextEdit{
				{Span: source.Span{Start: 7, End: 14}, OldText: "sealed "},
				{Span: source.Span{Start: 14, End: 20}, NewText: "partial record", OldText: "record"},
			},
			want: "public partial record R;",
		},
		{
			name:    "stale guard",
			edits:   []diag.TextEdit{{Span: source.Span{Start: 0, End: 6}, OldText: "sealed"}},
			wantErr: true,
		},
		{
			name:    "out of range",
			edits:   []diag.TextEdit{{Span: source.Span{Start: 20, End: 40}}},
			wantErr: true,
		},
		{
			name: "overlap",
			edits: []diag.TextEdit{
				{Span: source.Span{Start: 0, End: 10}},
				{Span: source.Span{Start: 5, End: 12}},
			},
			wantErr: true,
		},
		{name: "empty", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyDocument(content, diag.Fix{Edits: tt.edits})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
	if string(content) != "public sealed record R;" {
		t.Fatalf("input was modified: %q", content)
	}
}

const sealedUnion = `namespace Tests;

public class Outer
{
    [Union]
    public sealed record Shape
    {
        partial record Circle(double Radius);
    }
}
`

// loadAndCheck parses path from disk and returns the attached diagnostics.
func loadAndCheck(t *testing.T, path string) (*source.FileSet, []diag.Diagnostic) {
	t.Helper()
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f := fs.Get(id)
	res := parser.ParseFile(f, parser.Options{})
	decls := decl.FromTree(res.Tree, f)
	idx := decl.NewIndex()
	idx.Add(decls)
	var ds []diag.Diagnostic
	for _, c := range decl.DefaultMarker.Candidates(decls) {
		ds = append(ds, validate.Declaration(c, idx)...)
	}
	return fs, Attach(ds, decls)
}

func TestApplyOnceFixesUntilClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shape.cs")
	if err := os.WriteFile(path, []byte(sealedUnion), 0o600); err != nil {
		t.Fatal(err)
	}

	// UL1002 на Outer, затем UL1001 и UL1003 на Shape
	for i := 0; i < 3; i++ {
		fs, ds := loadAndCheck(t, path)
		res, err := Apply(fs, ds, ApplyOptions{Mode: ApplyModeOnce})
		if err != nil {
			t.Fatalf("round %d: %v", i, err)
		}
		if len(res.Applied) != 1 || len(res.FileChanges) != 1 {
			t.Fatalf("round %d: expected exactly one applied fix, got %+v", i, res)
		}
	}

	fs, ds := loadAndCheck(t, path)
	if len(ds) != 0 {
		t.Fatalf("expected clean file, got:\n%s", diag.FormatShortDiagnostics(ds, fs, false))
	}
	if _, err := Apply(fs, ds, ApplyOptions{}); !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"public partial class Outer", "public partial record Shape"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("missing %q in:\n%s", want, data)
		}
	}
}

func TestApplyByID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shape.cs")
	if err := os.WriteFile(path, []byte(sealedUnion), 0o600); err != nil {
		t.Fatal(err)
	}
	fs, ds := loadAndCheck(t, path)

	var target string
	for _, d := range ds {
		if d.Code == diag.UnionCannotBeSealed && len(d.Fixes) == 1 {
			target = d.Fixes[0].ID
		}
	}
	if target == "" {
		t.Fatalf("no fix attached to UL1003")
	}

	res, err := Apply(fs, ds, ApplyOptions{Mode: ApplyModeID, TargetID: target})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if res.Applied[0].Code != diag.UnionCannotBeSealed {
		t.Fatalf("applied %v", res.Applied[0].Code)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "sealed") {
		t.Fatalf("sealed still present:\n%s", data)
	}

	if _, err := Apply(fs, ds, ApplyOptions{Mode: ApplyModeID, TargetID: "missing"}); !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes for unknown id, got %v", err)
	}
}

func TestApplySkipsVirtualFiles(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cs", []byte("record R;"))
	span := source.Span{File: id, Start: 0, End: 6}
	ds := []diag.Diagnostic{diag.New(diag.UnionMissingPartial, span, "R").
		WithFix(ReplaceSpan("Add partial", span, "partial record", "record"))}

	res, err := Apply(fs, ds, ApplyOptions{})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "target file is virtual" {
		t.Fatalf("unexpected skips %+v", res.Skipped)
	}
}
