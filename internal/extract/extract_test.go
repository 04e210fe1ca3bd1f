package extract

import (
	"slices"
	"strings"
	"testing"

	"sumgen/internal/model"
	"sumgen/internal/testkit"
)

const resultSource = `using System;
using dotUnion.Attributes;

namespace Tests;

[Union]
public partial record Result<T, TE>
{
    partial record Ok(T Value);
    partial record Err(TE Error);
}
`

func TestResultSnapshot(t *testing.T) {
	c := testkit.CompileOne(t, resultSource)
	got, ok := Target(c.Find(t, "Result"), c.Index)
	if !ok {
		t.Fatalf("expected a snapshot")
	}
	want := model.UnionTarget{
		Namespace:      []string{"Tests"},
		Name:           "Result",
		TypeParameters: []string{"T", "TE"},
		Members: []model.UnionTargetMember{
			{Name: "Ok", Constructor: &model.RecordConstructor{Parameters: []model.ConstructorParameter{{Type: "T", Name: "Value"}}}},
			{Name: "Err", Constructor: &model.RecordConstructor{Parameters: []model.ConstructorParameter{{Type: "TE", Name: "Error"}}}},
		},
		Usings: []string{"using System;", "using dotUnion.Attributes;"},
	}
	if !got.Equal(want) {
		t.Fatalf("snapshot mismatch:\n got %+v\nwant %+v", got, want)
	}
	if got.Location.Empty() {
		t.Fatalf("location must point at the declaration header")
	}
}

func TestNoSnapshotWhenGatingFails(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing partial", strings.Replace(resultSource, "public partial record", "public record", 1)},
		{"sealed", strings.Replace(resultSource, "public partial record", "public sealed partial record", 1)},
		{"parent not partial", "public class Outer { [Union] public partial record U { partial record A; } }"},
	}
	for _, tt := range tests {
		c := testkit.CompileOne(t, tt.src)
		cands := c.Candidates()
		if len(cands) != 1 {
			t.Fatalf("%s: expected one candidate, got %d", tt.name, len(cands))
		}
		if _, ok := Target(cands[0], c.Index); ok {
			t.Fatalf("%s: unexpected snapshot", tt.name)
		}
	}
}

func TestMembersFilteredInSourceOrder(t *testing.T) {
	c := testkit.CompileOne(t, `
namespace Tests;

[Union]
public partial record Event
{
    partial record Started(DateTime At, string By);
    partial record Warning<TWarning>(TWarning Detail);
    class Helper { }
    private partial record Secret;
    partial record Derived : Exception;
    record NotPartial;
    partial record Tagged : IEquatable<Tagged>;
    partial record Stopped;
}
`)
	got, ok := Target(c.Find(t, "Event"), c.Index)
	if !ok {
		t.Fatalf("expected a snapshot")
	}
	var names []string
	for _, m := range got.Members {
		names = append(names, m.Name)
	}
	if !slices.Equal(names, []string{"Started", "Tagged", "Stopped"}) {
		t.Fatalf("members = %v", names)
	}
	started := got.Members[0].Constructor
	if started.Declaration() != "(DateTime At, string By)" {
		t.Fatalf("Started constructor = %s", started.Declaration())
	}
	if got.Members[1].Constructor != nil || got.Members[2].Constructor != nil {
		t.Fatalf("parameterless members must have no constructor")
	}
}

func TestParentChainOutermostFirst(t *testing.T) {
	c := testkit.CompileOne(t, `
namespace A.B
{
    using System.Text;

    public partial class Outer<TKey> where TKey : class
    {
        partial struct Middle
        {
            [Union(GenerateAsyncExtensions = true)]
            public partial record Option<T>
            {
                partial record Some(T Value);
                partial record None;
            }
        }
    }
}
`)
	got, ok := Target(c.Find(t, "Option"), c.Index)
	if !ok {
		t.Fatalf("expected a snapshot")
	}
	want := []model.ParentType{
		{Keyword: "class", Name: "Outer<TKey>", Constraints: "where TKey : class"},
		{Keyword: "struct", Name: "Middle"},
	}
	if !slices.Equal(got.Parents, want) {
		t.Fatalf("parents = %+v", got.Parents)
	}
	if !slices.Equal(got.Namespace, []string{"A", "B"}) {
		t.Fatalf("namespace = %v", got.Namespace)
	}
	if len(got.Usings) != 0 || !slices.Equal(got.NamespaceUsings, []string{"using System.Text;"}) {
		t.Fatalf("usings = %v, namespace usings = %v", got.Usings, got.NamespaceUsings)
	}
	if !got.AsyncExtensions {
		t.Fatalf("GenerateAsyncExtensions = true must be honoured")
	}
	if got.HintName() != "A.B.Outer.Middle.Option{T}.g.cs" {
		t.Fatalf("hint = %s", got.HintName())
	}
}

func TestAsyncArgumentMustBeLiteralTrue(t *testing.T) {
	for _, arg := range []string{"GenerateAsyncExtensions = false", "GenerateAsyncExtensions = Flags.On", "Other = true"} {
		c := testkit.CompileOne(t, "[Union("+arg+")] partial record U { partial record A; }")
		got, ok := Target(c.Find(t, "U"), c.Index)
		if !ok {
			t.Fatalf("%s: expected a snapshot", arg)
		}
		if got.AsyncExtensions {
			t.Fatalf("%s: async must stay off", arg)
		}
	}
}

func TestRepeatedExtractionIsValueEqual(t *testing.T) {
	first := testkit.CompileOne(t, resultSource)
	second := testkit.CompileOne(t, resultSource)
	a, _ := Target(first.Find(t, "Result"), first.Index)
	b, _ := Target(second.Find(t, "Result"), second.Index)
	if !a.Equal(b) || a.Digest() != b.Digest() {
		t.Fatalf("byte-identical input must give equal snapshots")
	}
}

func TestInterfaceParametersFlagged(t *testing.T) {
	c := testkit.CompileOne(t, `using System.Collections.Generic;

namespace Tests;

public interface IShape { }

[Union]
public partial record Bag<IItem>
{
    partial record Many(IEnumerable<int> Items);
    partial record Shaped(IShape Shape);
    partial record Own(IItem Item);
    partial record Listed(List<int> Items);
    partial record Optional(IShape? Shape);
    partial record Pair(IShape Left, int Right);
}
`)
	got, ok := Target(c.Find(t, "Bag"), c.Index)
	if !ok {
		t.Fatalf("expected a snapshot")
	}
	want := map[string][]bool{
		"Many":     {true},
		"Shaped":   {true},
		"Own":      {false},
		"Listed":   {false},
		"Optional": {true},
		"Pair":     {true, false},
	}
	for _, m := range got.Members {
		var flags []bool
		for _, p := range m.Constructor.Parameters {
			flags = append(flags, p.Interface)
		}
		if !slices.Equal(flags, want[m.Name]) {
			t.Fatalf("%s: interface flags = %v, want %v", m.Name, flags, want[m.Name])
		}
	}
}

func TestDefaultConstructorRecorded(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{"private U() { }", true},
		{"private U(int seed) { }", false},
		{"static U() { }", false},
		{"", false},
	}
	for _, tt := range tests {
		c := testkit.CompileOne(t, "[Union] public partial record U { "+tt.body+" partial record A; }")
		got, ok := Target(c.Find(t, "U"), c.Index)
		if !ok {
			t.Fatalf("%q: expected a snapshot", tt.body)
		}
		if got.HasDefaultConstructor != tt.want {
			t.Fatalf("%q: HasDefaultConstructor = %v", tt.body, got.HasDefaultConstructor)
		}
	}
}
