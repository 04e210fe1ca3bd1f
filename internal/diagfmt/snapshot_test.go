package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"

	"sumgen/internal/model"
)

func sampleSnapshot() Snapshot {
	target := model.UnionTarget{
		Namespace:      []string{"Tests"},
		Name:           "Result",
		TypeParameters: []string{"T", "TE"},
		Members: []model.UnionTargetMember{
			{Name: "Ok", Constructor: &model.RecordConstructor{Parameters: []model.ConstructorParameter{{Type: "T", Name: "Value"}}}},
			{Name: "None"},
		},
		Parents: []model.ParentType{{Keyword: "class", Name: "Host"}},
	}
	return BuildSnapshot([]model.UnionTarget{target}, []model.Arity{model.NewArity(2, false)}, model.GeneratorOptions{})
}

func TestBuildSnapshot(t *testing.T) {
	s := sampleSnapshot()
	if s.Runtime != model.DefaultRuntimeNamespace {
		t.Fatalf("runtime = %q", s.Runtime)
	}
	v := s.Targets[0]
	if v.Qualified != "Tests.Host.Result" || v.Output != "Tests.Host.Result{T, TE}.g.cs" {
		t.Fatalf("unexpected names %+v", v)
	}
	if v.Members[0].Parameters != "(T Value)" || v.Members[1].Parameters != "" {
		t.Fatalf("unexpected members %+v", v.Members)
	}
	if len(v.Parents) != 1 || v.Parents[0] != "class Host" {
		t.Fatalf("unexpected parents %v", v.Parents)
	}
	if s.Arities[0].Output != "Union2.g.cs" {
		t.Fatalf("unexpected arity %+v", s.Arities[0])
	}
}

func TestSnapshotEncodings(t *testing.T) {
	s := sampleSnapshot()

	var jbuf bytes.Buffer
	if err := SnapshotJSON(&jbuf, s); err != nil {
		t.Fatal(err)
	}
	var fromJSON Snapshot
	if err := json.Unmarshal(jbuf.Bytes(), &fromJSON); err != nil {
		t.Fatal(err)
	}

	var ybuf bytes.Buffer
	if err := SnapshotYAML(&ybuf, s); err != nil {
		t.Fatal(err)
	}
	var fromYAML Snapshot
	if err := yaml.Unmarshal(ybuf.Bytes(), &fromYAML); err != nil {
		t.Fatal(err)
	}

	for name, got := range map[string]Snapshot{"json": fromJSON, "yaml": fromYAML} {
		if got.Targets[0].Digest != s.Targets[0].Digest || got.Arities[0].N != 2 {
			t.Fatalf("%s: lost data: %+v", name, got)
		}
	}
}
