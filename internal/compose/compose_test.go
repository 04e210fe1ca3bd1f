package compose

import (
	"strings"
	"testing"

	"sumgen/internal/model"
)

func ctor(params ...string) *model.RecordConstructor {
	c := &model.RecordConstructor{}
	for i := 0; i+1 < len(params); i += 2 {
		c.Parameters = append(c.Parameters, model.ConstructorParameter{Type: params[i], Name: params[i+1]})
	}
	return c
}

func resultTarget() model.UnionTarget {
	return model.UnionTarget{
		Namespace:      []string{"Tests"},
		Name:           "Result",
		TypeParameters: []string{"T", "TE"},
		Members: []model.UnionTargetMember{
			{Name: "Ok", Constructor: ctor("T", "Value")},
			{Name: "Err", Constructor: ctor("TE", "Error")},
		},
		Usings: []string{"using System;"},
	}
}

func mustContain(t *testing.T, out string, lines ...string) {
	t.Helper()
	for _, l := range lines {
		if !strings.Contains(out, l) {
			t.Fatalf("output is missing %q:\n%s", l, out)
		}
	}
}

func mustNotContain(t *testing.T, out string, lines ...string) {
	t.Helper()
	for _, l := range lines {
		if strings.Contains(out, l) {
			t.Fatalf("output must not contain %q:\n%s", l, out)
		}
	}
}

func TestUnionShape(t *testing.T) {
	out := string(Union(resultTarget(), model.GeneratorOptions{}, ""))
	mustContain(t, out,
		"// <auto-generated />\n#nullable enable\nusing System;\n\nnamespace Tests\n{\n",
		"    abstract partial record Result<T, TE> : global::dotUnion.Union<Result<T, TE>, Result<T, TE>.Ok, Result<T, TE>.Err>\n    {\n        private Result() { }\n",
		"        public sealed partial record Ok : Result<T, TE>;\n        public sealed partial record Err : Result<T, TE>;\n",
		"public static implicit operator Result<T, TE>(T value) => new Ok(value);",
		"public static implicit operator Result<T, TE>(TE value) => new Err(value);",
		"public static Result<T, TE> CreateOk(T Value) => new Ok(Value);",
		"public static Result<T, TE> CreateErr(TE Error) => new Err(Error);",
		"public TOut Match<TOut>(global::System.Func<Ok, TOut> f1, global::System.Func<Err, TOut> f2) => this switch\n        {\n            Ok t1 => f1(t1),\n            Err t2 => f2(t2),\n",
		"public void Switch(global::System.Action<Ok> a1, global::System.Action<Err> a2)",
		"                case Err t2:\n                    a2(t2);\n                    break;\n",
		"public TOut Fold<TState, TOut>(TState state, global::System.Func<TState, Ok, TOut> f1, global::System.Func<TState, Err, TOut> f2) => this switch",
		"Err t2 => f2(state, t2),",
	)
	mustNotContain(t, out, "MatchAsync", "TaskExtensions")
	if !strings.HasSuffix(out, "    }\n}\n") {
		t.Fatalf("unexpected ending:\n%s", out)
	}
	// match arms keep declared order
	if strings.Index(out, "Ok t1 =>") > strings.Index(out, "Err t2 =>") {
		t.Fatalf("variants out of order")
	}
}

func TestConversionsOnlyForUniqueSignatures(t *testing.T) {
	tgt := model.UnionTarget{
		Name: "ApiResult",
		Members: []model.UnionTargetMember{
			{Name: "Ok", Constructor: ctor("string", "Message")},
			{Name: "BadRequest", Constructor: ctor("string", "Message")},
			{Name: "Moved", Constructor: ctor("string", "Location", "int", "Code")},
			{Name: "Wrapped", Constructor: ctor("ApiResult", "Inner")},
			{Name: "Empty"},
		},
	}
	out := string(Union(tgt, model.GeneratorOptions{}, ""))
	mustContain(t, out,
		"public static implicit operator ApiResult((string, int) tuple) => new Moved(tuple.Item1, tuple.Item2);",
		"public static ApiResult CreateEmpty() => new Empty();",
	)
	mustNotContain(t, out, "operator ApiResult(string value)", "operator ApiResult(ApiResult value)", "namespace")
}

func TestNoConversionFromInterface(t *testing.T) {
	many := ctor("IEnumerable<int>", "Items")
	many.Parameters[0].Interface = true
	pair := ctor("IShape", "Left", "int", "Right")
	pair.Parameters[0].Interface = true
	tgt := model.UnionTarget{
		Name: "Bag",
		Members: []model.UnionTargetMember{
			{Name: "Many", Constructor: many},
			{Name: "Pair", Constructor: pair},
			{Name: "Single", Constructor: ctor("int", "Value")},
		},
	}
	out := string(Union(tgt, model.GeneratorOptions{}, ""))
	mustContain(t, out,
		"public static Bag CreateMany(IEnumerable<int> Items) => new Many(Items);",
		"public static implicit operator Bag((IShape, int) tuple) => new Pair(tuple.Item1, tuple.Item2);",
		"public static implicit operator Bag(int value) => new Single(value);",
	)
	mustNotContain(t, out, "operator Bag(IEnumerable<int> value)")
}

func TestDeclaredDefaultConstructorNotRepeated(t *testing.T) {
	tgt := model.UnionTarget{Name: "U", HasDefaultConstructor: true, Members: []model.UnionTargetMember{{Name: "A"}}}
	out := string(Union(tgt, model.GeneratorOptions{}, ""))
	mustNotContain(t, out, "private U()")
	mustContain(t, out, "public sealed partial record A : U;")
}

func TestNamespaceUsingsStayInNamespace(t *testing.T) {
	tgt := model.UnionTarget{
		Namespace:       []string{"A", "B"},
		Name:            "U",
		Usings:          []string{"using System;"},
		NamespaceUsings: []string{"using Text;"},
		Members:         []model.UnionTargetMember{{Name: "X"}},
	}
	out := string(Union(tgt, model.GeneratorOptions{}, ""))
	mustContain(t, out, "using System;\n\nnamespace A.B\n{\n    using Text;\n\n    abstract partial record U")
}

func TestZeroMemberUnion(t *testing.T) {
	out := string(Union(model.UnionTarget{Namespace: []string{"N"}, Name: "Empty"}, model.GeneratorOptions{}, ""))
	mustContain(t, out, "abstract partial record Empty\n", "private Empty() { }")
	mustNotContain(t, out, "Union<", "Match", "Switch")
}

func TestParentsAndTaskExtensions(t *testing.T) {
	tgt := model.UnionTarget{
		Namespace:      []string{"Tests"},
		Name:           "Option",
		TypeParameters: []string{"T"},
		Constraints:    "where T : notnull",
		Parents: []model.ParentType{
			{Keyword: "class", Name: "Hello<TKey>", Constraints: "where TKey : class"},
			{Keyword: "record struct", Name: "Inner"},
		},
		Members: []model.UnionTargetMember{
			{Name: "Some", Constructor: ctor("T", "Value")},
			{Name: "None"},
		},
		AsyncExtensions: true,
	}
	out := string(Union(tgt, model.GeneratorOptions{}, "\t"))
	mustContain(t, out,
		"namespace Tests\n{\n\tpartial class Hello<TKey> where TKey : class\n\t{\n\t\tpartial record struct Inner\n\t\t{\n\t\t\tabstract partial record Option<T>",
		"public global::System.Threading.Tasks.Task<TOut> MatchAsync<TOut>(global::System.Func<Some, global::System.Threading.Tasks.Task<TOut>> f1, global::System.Func<None, global::System.Threading.Tasks.Task<TOut>> f2) => Match(f1, f2);",
		"public global::System.Threading.Tasks.ValueTask SwitchAsync(global::System.Func<Some, global::System.Threading.Tasks.ValueTask> a1, global::System.Func<None, global::System.Threading.Tasks.ValueTask> a2) => Match(a1, a2);",
		"\tpublic static partial class HelloInnerOption1TaskExtensions\n",
		"public static async global::System.Threading.Tasks.Task<TOut> Match<TKey, T, TOut>(this global::System.Threading.Tasks.Task<global::Tests.Hello<TKey>.Inner.Option<T>> task, global::System.Func<global::Tests.Hello<TKey>.Inner.Option<T>.Some, TOut> f1, global::System.Func<global::Tests.Hello<TKey>.Inner.Option<T>.None, TOut> f2) where TKey : class where T : notnull => (await task.ConfigureAwait(false)).Match(f1, f2);",
		".Fold(state, f1, f2);",
	)
	// the extension class sits in the namespace, after the parent chain closes
	if strings.Index(out, "TaskExtensions") < strings.LastIndex(out, "\t\t}\n\t}\n") {
		t.Fatalf("extension class must follow the parent chain:\n%s", out)
	}
}

func TestGlobalAsyncOptionEnablesHelpers(t *testing.T) {
	out := string(Union(resultTarget(), model.GeneratorOptions{AsyncExtensions: true}, ""))
	mustContain(t, out, "MatchAsync<TOut>", "public static partial class Result2TaskExtensions")
}

func TestArityInterface(t *testing.T) {
	out := string(Arity(model.NewArity(2, false), model.GeneratorOptions{}, ""))
	mustContain(t, out,
		"using System;\nusing System.Threading.Tasks;\n\nnamespace dotUnion\n{\n    public interface Union<T, T1, T2> where T : Union<T, T1, T2> where T1 : T where T2 : T\n    {\n",
		"        TOut Match<TOut>(Func<T1, TOut> f1, Func<T2, TOut> f2);\n",
		"        void Switch(Action<T1> a1, Action<T2> a2);\n",
		"        TOut Fold<TState, TOut>(TState state, Func<TState, T1, TOut> f1, Func<TState, T2, TOut> f2);\n",
	)
	mustNotContain(t, out, "MatchAsync")

	out = string(Arity(model.NewArity(1, true), model.GeneratorOptions{RuntimeNamespace: "My.Runtime"}, ""))
	mustContain(t, out,
		"namespace My.Runtime\n",
		"Task<TOut> MatchAsync<TOut>(Func<T1, Task<TOut>> f1) => Match(f1);",
		"ValueTask<TOut> MatchAsync<TOut>(Func<T1, ValueTask<TOut>> f1) => Match(f1);",
		"Task SwitchAsync(Func<T1, Task> a1) => Match(a1);",
		"ValueTask SwitchAsync(Func<T1, ValueTask> a1) => Match(a1);",
	)
}

func TestJenniesNameFiles(t *testing.T) {
	f, err := UnionJenny{}.Generate(UnionInput{Target: resultTarget()})
	if err != nil {
		t.Fatalf("union jenny: %v", err)
	}
	if f.RelativePath != "Tests.Result{T, TE}.g.cs" {
		t.Fatalf("union path = %q", f.RelativePath)
	}
	f, err = ArityJenny{}.Generate(ArityInput{Arity: model.NewArity(2, false)})
	if err != nil {
		t.Fatalf("arity jenny: %v", err)
	}
	if f.RelativePath != "Union2.g.cs" {
		t.Fatalf("arity path = %q", f.RelativePath)
	}
	if _, err := (ArityJenny{}).Generate(ArityInput{Arity: model.NewArity(0, false)}); err == nil {
		t.Fatalf("arity 0 must be rejected")
	}
	if _, err := (UnionJenny{}).Generate(UnionInput{}); err == nil {
		t.Fatalf("nameless target must be rejected")
	}
}

func TestFSCollectsEveryUnit(t *testing.T) {
	targets := []model.UnionTarget{resultTarget(), {Namespace: []string{"Tests"}, Name: "Shape", Members: []model.UnionTargetMember{{Name: "A"}}}}
	fs, err := FS(targets, []model.Arity{model.NewArity(1, false), model.NewArity(2, false)}, model.GeneratorOptions{}, "")
	if err != nil {
		t.Fatalf("FS: %v", err)
	}
	if n := len(fs.AsFiles()); n != 4 {
		t.Fatalf("expected 4 files, got %d", n)
	}
}
