package fix

import (
	"strings"
	"testing"

	"sumgen/internal/diag"
	"sumgen/internal/testkit"
	"sumgen/internal/validate"
)

const nestedUnion = `namespace Tests;

public class Outer
{
    [Union]
    public record class Option<T>
    {
        partial record Some(T Value);
        partial record None;
    }
}
`

func TestSuggestAddsPartialBeforeKeyword(t *testing.T) {
	c := testkit.CompileOne(t, nestedUnion)
	union := c.Find(t, "Option")
	ds := Attach(validate.Declaration(union, c.Index), c.Decls)

	file := c.Files.Get(union.Header.File)
	want := map[diag.Code]string{
		diag.UnionMissingPartial:       "public partial record class Option<T>",
		diag.UnionParentMissingPartial: "public partial class Outer",
	}
	for _, d := range ds {
		expect, ok := want[d.Code]
		if !ok {
			t.Fatalf("unexpected diagnostic %s", c.Short([]diag.Diagnostic{d}))
		}
		if len(d.Fixes) != 1 {
			t.Fatalf("%s: expected one fix, got %d", d.Code.ID(), len(d.Fixes))
		}
		out, err := ApplyDocument(file.Content, d.Fixes[0])
		if err != nil {
			t.Fatalf("%s: %v", d.Code.ID(), err)
		}
		if !strings.Contains(string(out), expect) {
			t.Fatalf("%s: %q not found in:\n%s", d.Code.ID(), expect, out)
		}
		delete(want, d.Code)
	}
	if len(want) != 0 {
		t.Fatalf("missing diagnostics: %v", want)
	}
}

func TestSuggestIsIdempotent(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"missing partial", strings.Replace(scenario, "public partial record", "public record", 1), diag.UnionMissingPartial},
		{"sealed", strings.Replace(scenario, "public partial record", "public sealed partial record", 1), diag.UnionCannotBeSealed},
		{"sealed with tabs", strings.Replace(scenario, "public partial record", "public sealed\t\tpartial record", 1), diag.UnionCannotBeSealed},
		{"parent", strings.Replace(scenario, "public partial class Host", "public class Host", 1), diag.UnionParentMissingPartial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testkit.CompileOne(t, tt.src)
			union := c.Find(t, "Result")
			fixed := fixFor(t, Attach(validate.Declaration(union, c.Index), c.Decls), tt.code)

			out, err := ApplyDocument(c.Files.Get(union.Header.File).Content, fixed)
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			after := testkit.CompileOne(t, string(out))
			for _, d := range validate.Declaration(after.Find(t, "Result"), after.Index) {
				if d.Code == tt.code {
					t.Fatalf("%s still reported after fix:\n%s", tt.code.ID(), out)
				}
			}
			if !validate.CanGenerate(after.Find(t, "Result")) {
				t.Fatalf("fixed union is not generatable:\n%s", out)
			}
		})
	}
}

const scenario = `namespace Tests;

public partial class Host
{
    [Union]
    public partial record Result<T, TE>
    {
        partial record Ok(T Value);
        partial record Err(TE Error);
    }
}
`

func fixFor(t *testing.T, ds []diag.Diagnostic, code diag.Code) diag.Fix {
	t.Helper()
	for _, d := range ds {
		if d.Code == code {
			if len(d.Fixes) != 1 {
				t.Fatalf("%s: expected one fix, got %d", code.ID(), len(d.Fixes))
			}
			return d.Fixes[0]
		}
	}
	t.Fatalf("%s not reported", code.ID())
	return diag.Fix{}
}

func TestSuggestRejectsOtherCodesAndStaleNodes(t *testing.T) {
	c := testkit.CompileOne(t, scenario)
	union := c.Find(t, "Result")

	if _, ok := Suggest(diag.New(diag.UnionCannotHaveBaseType, union.Header, "Result"), union, union.File); ok {
		t.Fatalf("UL1004 has no fix")
	}
	// уже partial
	if _, ok := Suggest(diag.New(diag.UnionMissingPartial, union.Header, "Result"), union, union.File); ok {
		t.Fatalf("partial declaration must not get another partial")
	}
	// не sealed
	if _, ok := Suggest(diag.New(diag.UnionCannotBeSealed, union.Header, "Result"), union, union.File); ok {
		t.Fatalf("nothing to remove")
	}
	if _, ok := Suggest(diag.New(diag.UnionMissingPartial, union.Span, "Result"), union, union.File); ok {
		t.Fatalf("diagnostic span must match the node header")
	}
}
