package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"sumgen/internal/diag"
	"sumgen/internal/source"
)

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	d := missingPartial(fs, "result.cs")

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeFixes:     true,
		IncludePreviews:  true,
	}
	if err := JSON(&buf, []diag.Diagnostic{d}, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", output)
	}
	got := output.Diagnostics[0]
	if got.Severity != "error" || got.Code != "UL1001" || got.Category != "Union" {
		t.Errorf("unexpected header %+v", got)
	}
	if got.Location.File != "result.cs" || got.Location.StartLine != 4 || got.Location.StartCol != 8 {
		t.Errorf("unexpected location %+v", got.Location)
	}
	if len(got.Fixes) != 1 || len(got.Fixes[0].Edits) != 1 {
		t.Fatalf("expected one fix with one edit, got %+v", got.Fixes)
	}
	edit := got.Fixes[0].Edits[0]
	if edit.NewText != "partial record" || edit.OldText != "record" {
		t.Errorf("unexpected edit %+v", edit)
	}
	want := PreviewLineJSON{File: "result.cs", Line: 4, Before: "public record Result", After: "public partial record Result"}
	if len(got.Fixes[0].Preview) != 1 || got.Fixes[0].Preview[0] != want {
		t.Errorf("unexpected preview %+v", got.Fixes[0].Preview)
	}
}

func TestJSONMaxAndOmissions(t *testing.T) {
	fs := source.NewFileSet()
	ds := []diag.Diagnostic{missingPartial(fs, "a.cs"), missingPartial(fs, "b.cs")}

	var buf bytes.Buffer
	if err := JSON(&buf, ds, fs, JSONOpts{Max: 1}); err != nil {
		t.Fatal(err)
	}
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatal(err)
	}
	if output.Count != 1 {
		t.Fatalf("Max not applied: %d", output.Count)
	}
	if strings.Contains(buf.String(), "fixes") || strings.Contains(buf.String(), "start_line") {
		t.Fatalf("fixes and positions must be omitted:\n%s", buf.String())
	}
}

func TestShort(t *testing.T) {
	fs := source.NewFileSet()
	ds := []diag.Diagnostic{missingPartial(fs, "b.cs"), missingPartial(fs, "a.cs")}

	var buf bytes.Buffer
	if err := Short(&buf, ds, fs, false); err != nil {
		t.Fatal(err)
	}
	want := "error UL1001 a.cs:4:8 Type 'Result' marked for source generation is missing partial keyword\n" +
		"error UL1001 b.cs:4:8 Type 'Result' marked for source generation is missing partial keyword\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}

	buf.Reset()
	if err := Short(&buf, nil, fs, false); err != nil || buf.Len() != 0 {
		t.Fatalf("empty input must print nothing, got %q (%v)", buf.String(), err)
	}
}
