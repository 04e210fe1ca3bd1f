package compose

import (
	"strings"

	"sumgen/internal/model"
)

// Arity renders the shared Union<T, T1..TN> interface.
func Arity(a model.Arity, opts model.GeneratorOptions, indent string) []byte {
	w := NewWriter(indent)
	writePreamble(w)
	w.Line("using System;")
	w.Line("using System.Threading.Tasks;")
	w.Blank()
	w.Open("namespace " + opts.Runtime())
	w.Open("public interface " + a.Declaration() + " " + a.WhereClauses())

	members := a.Members()
	params := func(prefix string, typ func(model.ArityMember) string) string {
		parts := make([]string, len(members))
		for i, m := range members {
			name := m.FuncName()
			if prefix == "a" {
				name = m.ActName()
			}
			parts[i] = typ(m) + " " + name
		}
		return strings.Join(parts, ", ")
	}
	n := len(members)

	w.Linef("TOut Match<TOut>(%s);", params("f", model.ArityMember.FuncDeclaration))
	w.Blank()
	w.Linef("void Switch(%s);", params("a", model.ArityMember.ActDeclaration))
	w.Blank()
	w.Linef("TOut Fold<TState, TOut>(TState state, %s);", params("f", model.ArityMember.FoldDeclaration))

	if a.Async {
		w.Blank()
		w.Linef("Task<TOut> MatchAsync<TOut>(%s) => Match(%s);",
			params("f", model.ArityMember.AsyncFuncDeclaration), argList(n, "f"))
		w.Linef("ValueTask<TOut> MatchAsync<TOut>(%s) => Match(%s);",
			params("f", model.ArityMember.AsyncValueFuncDeclaration), argList(n, "f"))
		w.Linef("Task SwitchAsync(%s) => Match(%s);",
			params("a", model.ArityMember.AsyncActDeclaration), argList(n, "a"))
		w.Linef("ValueTask SwitchAsync(%s) => Match(%s);",
			params("a", model.ArityMember.AsyncValueActDeclaration), argList(n, "a"))
	}

	w.Close("")
	w.Close("")
	return w.Bytes()
}
