package decl

import (
	"slices"
	"testing"

	"sumgen/internal/diag"
	"sumgen/internal/parser"
	"sumgen/internal/source"
)

func load(t *testing.T, fs *source.FileSet, path, src string) []*Decl {
	t.Helper()
	f := fs.Get(fs.AddVirtual(path, []byte(src)))
	bag := diag.NewBag(0)
	res := parser.ParseFile(f, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("parse %s: %s", path, diag.FormatShortDiagnostics(bag.Items(), fs, false))
	}
	return FromTree(res.Tree, f)
}

func find(t *testing.T, decls []*Decl, name string) *Decl {
	t.Helper()
	var found *Decl
	for _, top := range decls {
		top.Walk(func(d *Decl) {
			if found == nil && d.Name == name {
				found = d
			}
		})
	}
	if found == nil {
		t.Fatalf("decl %s not found", name)
	}
	return found
}

const helloSource = `using System;
global using System.Linq;

namespace Tests
{
    using Alias = System.Collections.Generic.List<int>;

    public partial class Hello<TKey> where TKey : class
    {
        [Union(GenerateAsyncExtensions = true)]
        public partial record Option<T> : IEquatable<Option<T>>
        {
            partial record Some(T Value);
            partial record None;
            private Option() { }
        }
    }
}
`

func TestFromTreeShape(t *testing.T) {
	fs := source.NewFileSet()
	decls := load(t, fs, "hello.cs", helloSource)
	if len(decls) != 1 {
		t.Fatalf("expected 1 top-level decl, got %d", len(decls))
	}
	opt := find(t, decls, "Option")
	if opt.Symbol != "Tests.Hello`1+Option`1" {
		t.Fatalf("symbol = %q", opt.Symbol)
	}
	if opt.Kind != KindRecord || !opt.IsPartial() || opt.IsSealed() || opt.IsNonPublic() {
		t.Fatalf("unexpected flags on %+v", opt)
	}
	if !slices.Equal(opt.Namespace, []string{"Tests"}) {
		t.Fatalf("namespace = %v", opt.Namespace)
	}
	wantUsings := []string{"using System;", "using Alias = System.Collections.Generic.List<int>;"}
	if !slices.Equal(opt.Usings, wantUsings) {
		t.Fatalf("usings = %q", opt.Usings)
	}
	if !slices.Equal(opt.NamespaceUsings, wantUsings[1:]) {
		t.Fatalf("namespace usings = %q", opt.NamespaceUsings)
	}
	if opt.Aliases["Alias"] != "System.Collections.Generic.List<int>" {
		t.Fatalf("aliases = %v", opt.Aliases)
	}
	if got := opt.File.Text(opt.Header); got != "record Option<T>" {
		t.Fatalf("header = %q", got)
	}
	if opt.DisplayName() != "Option<T>" {
		t.Fatalf("display = %q", opt.DisplayName())
	}
	if len(opt.Members) != 2 || opt.Members[0].Name != "Some" || opt.Members[1].Name != "None" {
		t.Fatalf("members = %+v", opt.Members)
	}
	some := opt.Members[0]
	if !some.HasParamList || len(some.Params) != 1 || some.Params[0] != (Parameter{Type: "T", Name: "Value"}) {
		t.Fatalf("Some params = %+v", some.Params)
	}
	if opt.Members[1].HasParamList {
		t.Fatalf("None must not have a parameter list")
	}
	if len(opt.Ctors) != 1 || !opt.Ctors[0].Private() || opt.Ctors[0].Static() {
		t.Fatalf("ctors = %+v", opt.Ctors)
	}
	parents := opt.Parents()
	if len(parents) != 1 || parents[0].Name != "Hello" || parents[0].Constraints[0] != "where TKey : class" {
		t.Fatalf("parents = %+v", parents)
	}
	attr, ok := DefaultMarker.Find(opt)
	if !ok {
		t.Fatalf("marker not found")
	}
	if v, _ := attr.Arg("GenerateAsyncExtensions"); v != "true" {
		t.Fatalf("async arg = %q", v)
	}
}

func TestMarkerMatches(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Union", true},
		{"UnionAttribute", true},
		{"dotUnion.Attributes.Union", true},
		{"global::dotUnion.Attributes.UnionAttribute", true},
		{"Other.Union", false},
		{"Unions", false},
		{"Serializable", false},
	}
	for _, tt := range tests {
		if got := DefaultMarker.Matches(tt.name); got != tt.want {
			t.Fatalf("Matches(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCandidatesOnlyRecords(t *testing.T) {
	fs := source.NewFileSet()
	decls := load(t, fs, "c.cs", `
[Union] partial class NotRecord { }
[Union] partial record struct ValueShape;
[Union] partial record Shape { partial record Circle(double R); }
partial record Plain;
`)
	got := DefaultMarker.Candidates(decls)
	if len(got) != 1 || got[0].Name != "Shape" {
		t.Fatalf("candidates = %+v", got)
	}
}

func TestResolvesToInterface(t *testing.T) {
	fs := source.NewFileSet()
	ix := NewIndex()
	ix.Add(load(t, fs, "a.cs", `
namespace App.Contracts
{
    public interface IShape { }
    public class ShapeBase { }
}
`))
	decls := load(t, fs, "b.cs", `
using System;
using App.Contracts;
using C = App.Contracts;

namespace App
{
    partial record U1 : IShape;
    partial record U2 : ShapeBase;
    partial record U3 : Exception;
    partial record U4 : IEquatable<U4>;
    partial record U5 : C.IShape;
    partial record U6 : Unknown;
    partial record U7 : IUnknown;
    partial record U8 : global::System.IDisposable;
    partial record U9 : Contracts.ShapeBase;
    partial class Outer { interface Inner { } partial record U10 : Inner; }
}
`)
	ix.Add(decls)
	tests := []struct {
		name string
		want bool
	}{
		{"U1", true},
		{"U2", false},
		{"U3", false},
		{"U4", true},
		{"U5", true},
		{"U6", false},
		{"U7", true},
		{"U8", true},
		{"U9", false},
		{"U10", true},
	}
	for _, tt := range tests {
		d := find(t, decls, tt.name)
		if got := ix.ResolvesToInterface(d, d.Bases[0]); got != tt.want {
			t.Fatalf("%s: ResolvesToInterface(%s) = %v, want %v", tt.name, d.Bases[0].Text, got, tt.want)
		}
	}
}

func TestPartsAcrossFiles(t *testing.T) {
	fs := source.NewFileSet()
	ix := NewIndex()
	a := load(t, fs, "a.cs", "namespace N; [Union] public partial record R { partial record A; }")
	b := load(t, fs, "b.cs", "namespace N; public partial record R { partial record B; }")
	g := load(t, fs, "R.g.cs", "namespace N; public partial record R;")
	ix.Add(a)
	ix.Add(b)
	ix.Add(g)
	parts := ix.Parts(find(t, a, "R"))
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	authored := 0
	for _, p := range parts {
		if !p.Generated {
			authored++
		}
	}
	if authored != 2 {
		t.Fatalf("expected 2 authored parts, got %d", authored)
	}
}

func TestParseTypeRef(t *testing.T) {
	tests := []struct {
		text      string
		ok        bool
		name      string
		qualifier string
		arity     int
	}{
		{"int", true, "int", "", 0},
		{"IShape?", true, "IShape", "", 0},
		{"IEnumerable<int>", true, "IEnumerable", "", 1},
		{"Dictionary<string, List<(int, int)>>", true, "Dictionary", "", 2},
		{"System.Collections.Generic.IList<T>", true, "IList", "System.Collections.Generic", 1},
		{"global::IShape", true, "IShape", "global", 0},
		{"global::System.IDisposable", true, "IDisposable", "global::System", 0},
		{"IShape[]", false, "", "", 0},
		{"(int, string)", false, "", "", 0},
		{"int*", false, "", "", 0},
		{"List<int", false, "", "", 0},
	}
	for _, tt := range tests {
		ref, ok := ParseTypeRef(tt.text)
		if ok != tt.ok {
			t.Fatalf("%s: ok = %v", tt.text, ok)
		}
		if !ok {
			continue
		}
		if ref.Name != tt.name || ref.Qualifier != tt.qualifier || ref.Arity != tt.arity {
			t.Fatalf("%s: got %+v", tt.text, ref)
		}
	}
}
