package model

import (
	"strconv"
	"strings"
)

// ArityMember is one synthesized slot T<N> of an arity family.
type ArityMember struct {
	Index int
}

func (m ArityMember) Name() string         { return "T" + strconv.Itoa(m.Index) }
func (m ArityMember) VariableName() string { return "t" + strconv.Itoa(m.Index) }
func (m ArityMember) FuncName() string     { return "f" + strconv.Itoa(m.Index) }
func (m ArityMember) ActName() string      { return "a" + strconv.Itoa(m.Index) }

func (m ArityMember) FuncDeclaration() string {
	return "Func<" + m.Name() + ", TOut>"
}

func (m ArityMember) AsyncFuncDeclaration() string {
	return "Func<" + m.Name() + ", Task<TOut>>"
}

func (m ArityMember) AsyncValueFuncDeclaration() string {
	return "Func<" + m.Name() + ", ValueTask<TOut>>"
}

func (m ArityMember) ActDeclaration() string {
	return "Action<" + m.Name() + ">"
}

func (m ArityMember) AsyncActDeclaration() string {
	return "Func<" + m.Name() + ", Task>"
}

func (m ArityMember) AsyncValueActDeclaration() string {
	return "Func<" + m.Name() + ", ValueTask>"
}

// FoldDeclaration is the fold step for the slot: Func<TState, T1, TOut>.
func (m ArityMember) FoldDeclaration() string {
	return "Func<TState, " + m.Name() + ", TOut>"
}

// Arity describes one shared Union<T, T1..TN> interface.
type Arity struct {
	N int
	// Async adds default-implemented async dispatch members.
	Async bool
}

// NewArity builds the descriptor; n <= 0 yields an empty family.
func NewArity(n int, async bool) Arity {
	return Arity{N: max(n, 0), Async: async}
}

// Members returns the synthesized slots T1..TN.
func (a Arity) Members() []ArityMember {
	out := make([]ArityMember, a.N)
	for i := range out {
		out[i] = ArityMember{Index: i + 1}
	}
	return out
}

// TypeParameters renders "T, T1, T2".
func (a Arity) TypeParameters() string {
	names := []string{"T"}
	for _, m := range a.Members() {
		names = append(names, m.Name())
	}
	return strings.Join(names, ", ")
}

// Declaration renders "Union<T, T1, T2>".
func (a Arity) Declaration() string { return "Union<" + a.TypeParameters() + ">" }

// WhereClauses renders "where T : Union<T, T1, T2> where T1 : T where T2 : T".
func (a Arity) WhereClauses() string {
	clauses := []string{"where T : " + a.Declaration()}
	for _, m := range a.Members() {
		clauses = append(clauses, "where "+m.Name()+" : T")
	}
	return strings.Join(clauses, " ")
}

// HintName names the output unit: Union2.g.cs.
func (a Arity) HintName() string { return "Union" + strconv.Itoa(a.N) + ".g.cs" }

func (a Arity) Digest() Digest { return digestOf(a) }
