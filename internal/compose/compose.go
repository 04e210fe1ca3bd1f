// Package compose renders generated source for union targets and for the
// shared arity interfaces. Rendering is purely textual: whatever reaches
// this package is assumed to have passed validation.
package compose

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grafana/codejen"

	"sumgen/internal/model"
)

const (
	sysNS   = "global::System."
	tasksNS = "global::System.Threading.Tasks."
)

// UnionInput is one union target together with the pass options.
type UnionInput struct {
	Target  model.UnionTarget
	Options model.GeneratorOptions
}

// ArityInput is one arity descriptor together with the pass options.
type ArityInput struct {
	Arity   model.Arity
	Options model.GeneratorOptions
}

// UnionJenny renders one file per union target.
type UnionJenny struct {
	Indent string
}

var _ codejen.OneToOne[UnionInput] = UnionJenny{}

func (UnionJenny) JennyName() string { return "UnionJenny" }

func (j UnionJenny) Generate(in UnionInput) (*codejen.File, error) {
	if in.Target.Name == "" {
		return nil, fmt.Errorf("compose: union target without a name")
	}
	return codejen.NewFile(in.Target.HintName(), Union(in.Target, in.Options, j.Indent), j), nil
}

// ArityJenny renders one file per arity.
type ArityJenny struct {
	Indent string
}

var _ codejen.OneToOne[ArityInput] = ArityJenny{}

func (ArityJenny) JennyName() string { return "ArityJenny" }

func (j ArityJenny) Generate(in ArityInput) (*codejen.File, error) {
	if in.Arity.N <= 0 {
		return nil, fmt.Errorf("compose: arity %d has no variants", in.Arity.N)
	}
	return codejen.NewFile(in.Arity.HintName(), Arity(in.Arity, in.Options, j.Indent), j), nil
}

// FS renders every target and arity into one codejen file set.
func FS(targets []model.UnionTarget, arities []model.Arity, opts model.GeneratorOptions, indent string) (*codejen.FS, error) {
	fs := codejen.NewFS()
	uj, aj := UnionJenny{Indent: indent}, ArityJenny{Indent: indent}
	for _, a := range arities {
		f, err := aj.Generate(ArityInput{Arity: a, Options: opts})
		if err != nil {
			return nil, err
		}
		if err := fs.Add(*f); err != nil {
			return nil, fmt.Errorf("compose: %w", err)
		}
	}
	for _, t := range targets {
		f, err := uj.Generate(UnionInput{Target: t, Options: opts})
		if err != nil {
			return nil, err
		}
		if err := fs.Add(*f); err != nil {
			return nil, fmt.Errorf("compose: %w", err)
		}
	}
	return fs, nil
}

func writePreamble(w *Writer) {
	w.Line("// <auto-generated />")
	w.Line("#nullable enable")
}

func generic(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return "<" + strings.Join(names, ", ") + ">"
}

func funcOf(args ...string) string { return sysNS + "Func<" + strings.Join(args, ", ") + ">" }
func actionOf(arg string) string   { return sysNS + "Action<" + arg + ">" }

func taskOf(of string) string {
	if of == "" {
		return tasksNS + "Task"
	}
	return tasksNS + "Task<" + of + ">"
}

func valueTaskOf(of string) string {
	if of == "" {
		return tasksNS + "ValueTask"
	}
	return tasksNS + "ValueTask<" + of + ">"
}

// handlerList renders "<type(v1)> f1, <type(v2)> f2".
func handlerList(variants []string, prefix string, typ func(string) string) string {
	parts := make([]string, len(variants))
	for i, v := range variants {
		parts[i] = typ(v) + " " + prefix + strconv.Itoa(i+1)
	}
	return strings.Join(parts, ", ")
}

// argList renders "f1, f2".
func argList(n int, prefix string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = prefix + strconv.Itoa(i+1)
	}
	return strings.Join(parts, ", ")
}
