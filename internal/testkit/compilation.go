// Package testkit builds small in-memory compilations for package tests.
package testkit

import (
	"testing"

	"sumgen/internal/decl"
	"sumgen/internal/diag"
	"sumgen/internal/parser"
	"sumgen/internal/source"
)

// Compilation is a parsed, indexed set of virtual files.
type Compilation struct {
	Files *source.FileSet
	Index *decl.Index
	Decls []*decl.Decl
	Diags *diag.Bag
}

// Src is one virtual file.
type Src struct {
	Path string
	Text string
}

// Compile parses every source and indexes the declarations. Parse errors
// fail the test unless allowErrors is set.
func Compile(t testing.TB, allowErrors bool, srcs ...Src) *Compilation {
	t.Helper()
	c := &Compilation{
		Files: source.NewFileSet(),
		Index: decl.NewIndex(),
		Diags: diag.NewBag(0),
	}
	for _, s := range srcs {
		f := c.Files.Get(c.Files.AddVirtual(s.Path, []byte(s.Text)))
		res := parser.ParseFile(f, parser.Options{Reporter: diag.BagReporter{Bag: c.Diags}})
		if err := CheckSpanInvariants(res.Tree, f); err != nil {
			t.Fatalf("%s: %v", s.Path, err)
		}
		decls := decl.FromTree(res.Tree, f)
		c.Index.Add(decls)
		c.Decls = append(c.Decls, decls...)
	}
	if !allowErrors && c.Diags.HasErrors() {
		t.Fatalf("unexpected parse errors:\n%s", diag.FormatShortDiagnostics(c.Diags.Items(), c.Files, false))
	}
	return c
}

// CompileOne is Compile for a single file named test.cs.
func CompileOne(t testing.TB, text string) *Compilation {
	t.Helper()
	return Compile(t, false, Src{Path: "test.cs", Text: text})
}

// Find returns the first declaration named name, nested ones included.
func (c *Compilation) Find(t testing.TB, name string) *decl.Decl {
	t.Helper()
	var found *decl.Decl
	for _, top := range c.Decls {
		top.Walk(func(d *decl.Decl) {
			if found == nil && d.Name == name {
				found = d
			}
		})
	}
	if found == nil {
		t.Fatalf("declaration %s not found", name)
	}
	return found
}

// Candidates returns the marked union records.
func (c *Compilation) Candidates() []*decl.Decl {
	return decl.DefaultMarker.Candidates(c.Decls)
}

// Short renders diagnostics in the one-line golden form.
func (c *Compilation) Short(ds []diag.Diagnostic) string {
	return diag.FormatShortDiagnostics(ds, c.Files, false)
}
