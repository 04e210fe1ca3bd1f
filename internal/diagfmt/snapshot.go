package diagfmt

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"sumgen/internal/model"
)

// MemberView is one variant as shown by inspect.
type MemberView struct {
	Name       string `json:"name" yaml:"name"`
	Parameters string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// TargetView is one union snapshot as shown by inspect.
type TargetView struct {
	Name           string       `json:"name" yaml:"name"`
	Qualified      string       `json:"qualified" yaml:"qualified"`
	Output         string       `json:"output" yaml:"output"`
	TypeParameters []string     `json:"type_parameters,omitempty" yaml:"type_parameters,omitempty"`
	Constraints    string       `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Parents        []string     `json:"parents,omitempty" yaml:"parents,omitempty"`
	Members        []MemberView `json:"members" yaml:"members"`
	Async          bool         `json:"async" yaml:"async"`
	Digest         string       `json:"digest" yaml:"digest"`
}

// ArityView is one shared interface descriptor.
type ArityView struct {
	N      int    `json:"n" yaml:"n"`
	Async  bool   `json:"async" yaml:"async"`
	Output string `json:"output" yaml:"output"`
}

// Snapshot is the inspect document.
type Snapshot struct {
	Runtime string       `json:"runtime_namespace" yaml:"runtime_namespace"`
	Targets []TargetView `json:"targets" yaml:"targets"`
	Arities []ArityView  `json:"arities" yaml:"arities"`
}

// BuildSnapshot turns pass output into the inspect document.
func BuildSnapshot(targets []model.UnionTarget, arities []model.Arity, opts model.GeneratorOptions) Snapshot {
	s := Snapshot{
		Runtime: opts.Runtime(),
		Targets: make([]TargetView, 0, len(targets)),
		Arities: make([]ArityView, 0, len(arities)),
	}
	for _, t := range targets {
		v := TargetView{
			Name:           t.Name,
			Qualified:      t.QualifiedName(),
			Output:         t.HintName(),
			TypeParameters: t.TypeParameters,
			Constraints:    t.Constraints,
			Members:        make([]MemberView, len(t.Members)),
			Async:          t.Async(opts),
			Digest:         t.Digest().String(),
		}
		for _, p := range t.Parents {
			v.Parents = append(v.Parents, p.Keyword+" "+p.Name)
		}
		for i, m := range t.Members {
			v.Members[i] = MemberView{Name: m.Name}
			if m.Constructor.Len() > 0 {
				v.Members[i].Parameters = m.Constructor.Declaration()
			}
		}
		s.Targets = append(s.Targets, v)
	}
	for _, a := range arities {
		s.Arities = append(s.Arities, ArityView{N: a.N, Async: a.Async, Output: a.HintName()})
	}
	return s
}

// SnapshotJSON writes s as indented JSON.
func SnapshotJSON(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// SnapshotYAML writes s as YAML.
func SnapshotYAML(w io.Writer, s Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}
