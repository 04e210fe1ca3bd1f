package diag

import (
	"testing"

	"sumgen/internal/source"
)

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		UnionMissingPartial: "UL1001",
		MemberMustBePublic:  "UL2005",
		LexUnknownChar:      "LEX5001",
		SynUnexpectedToken:  "SYN5101",
		IOLoadFileError:     "IO6001",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
}

func TestDescriptorMessages(t *testing.T) {
	d := New(UnionParentMissingPartial, source.Span{}, "Outer", "Result")
	if d.Message != "Type 'Outer' must be partial, as it contains type 'Result'" {
		t.Fatalf("message = %q", d.Message)
	}
	if d.Severity != SevError {
		t.Fatalf("severity = %s", d.Severity)
	}
	if New(MemberMustBeRecord, source.Span{}, "X").Severity != SevInfo {
		t.Fatalf("UL2004 must be informational")
	}
	for _, c := range []Code{UnionMissingPartial, UnionParentMissingPartial, UnionCannotBeSealed} {
		if !c.Describe().Fixable {
			t.Errorf("%s must be fixable", c.ID())
		}
	}
	if UnionCannotHaveBaseType.Describe().Fixable {
		t.Errorf("UL1004 has no fixer")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(0)
	b.Add(New(MemberMissingPartial, source.Span{File: 0, Start: 10, End: 12}, "B"))
	b.Add(New(UnionMissingPartial, source.Span{File: 0, Start: 2, End: 4}, "A"))
	b.Add(New(UnionMissingPartial, source.Span{File: 0, Start: 2, End: 4}, "A"))
	b.Dedup()
	b.Sort()
	if b.Len() != 2 {
		t.Fatalf("len = %d", b.Len())
	}
	if b.Items()[0].Code != UnionMissingPartial {
		t.Fatalf("unexpected order: %+v", b.Items())
	}
}

func TestBagLimit(t *testing.T) {
	b := NewBag(1)
	if !b.Add(New(UnionMissingPartial, source.Span{}, "A")) {
		t.Fatalf("first add must succeed")
	}
	if b.Add(New(UnionMissingPartial, source.Span{}, "B")) {
		t.Fatalf("second add must hit the limit")
	}
}

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.cs", []byte("namespace N;\npublic record R;\n"))
	got := FormatShortDiagnostics([]Diagnostic{
		New(UnionMissingPartial, source.Span{File: id, Start: 20, End: 28}, "R"),
		New(MemberMustBeRecord, source.Span{File: id, Start: 0, End: 9}, "N"),
	}, fs, false)
	want := "info UL2004 a.cs:1:1 'N' Is not a partial record and will not be considered as part of the union\n" +
		"error UL1001 a.cs:2:8 Type 'R' marked for source generation is missing partial keyword"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	b := NewBag(0)
	rb := ReportError(BagReporter{Bag: b}, SynUnexpectedToken, source.Span{}, "boom")
	rb.Emit()
	rb.Emit()
	if b.Len() != 1 {
		t.Fatalf("len = %d", b.Len())
	}
}
