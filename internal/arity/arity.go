// Package arity derives the shared Union<T, T1..TN> families a pass needs.
package arity

import (
	"slices"

	"sumgen/internal/model"
)

// Registry returns one descriptor per distinct positive variant count among
// targets, sorted by N. The async flag of every descriptor is the global
// option or-ed with any target asking for async helpers, since one shared
// interface serves unions of both kinds.
func Registry(targets []model.UnionTarget, opts model.GeneratorOptions) []model.Arity {
	async := opts.AsyncExtensions
	var ns []int
	for _, t := range targets {
		n := t.Arity()
		if n <= 0 {
			continue
		}
		if t.AsyncExtensions {
			async = true
		}
		if !slices.Contains(ns, n) {
			ns = append(ns, n)
		}
	}
	slices.Sort(ns)

	out := make([]model.Arity, len(ns))
	for i, n := range ns {
		out[i] = model.NewArity(n, async)
	}
	return out
}

// Counts returns the distinct positive arities, sorted.
func Counts(as []model.Arity) []int {
	out := make([]int, len(as))
	for i, a := range as {
		out[i] = a.N
	}
	return out
}
