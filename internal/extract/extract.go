// Package extract turns a validated union declaration into a value
// snapshot the composer can work from without the declaration tree.
package extract

import (
	"slices"
	"strings"

	"sumgen/internal/decl"
	"sumgen/internal/model"
	"sumgen/internal/validate"
)

// AsyncArgument is the named marker argument requesting async helpers.
const AsyncArgument = "GenerateAsyncExtensions"

// Target builds the snapshot of d. It yields false when a generation-fatal
// rule fails; member violations only drop the offending member.
func Target(d *decl.Decl, o decl.Oracle) (model.UnionTarget, bool) {
	return TargetWithMarker(d, o, decl.DefaultMarker)
}

// TargetWithMarker is Target for a custom marker attribute.
func TargetWithMarker(d *decl.Decl, o decl.Oracle, marker decl.Marker) (model.UnionTarget, bool) {
	if d == nil || !d.IsRecord() || !validate.CanGenerate(d) {
		return model.UnionTarget{}, false
	}

	t := model.UnionTarget{
		Namespace:       slices.Clone(d.Namespace),
		Name:            d.Name,
		TypeParameters:  slices.Clone(d.TypeParams),
		Constraints:     strings.Join(d.Constraints, " "),
		Parents:         parentChain(d),
		Usings:          slices.Clone(d.Usings[:len(d.Usings)-len(d.NamespaceUsings)]),
		NamespaceUsings: slices.Clone(d.NamespaceUsings),
		AsyncExtensions: asyncRequested(d, marker),
		Location:        d.Header,
	}
	for _, c := range d.Ctors {
		if c.Parameterless && !c.Static() {
			t.HasDefaultConstructor = true
		}
	}
	for _, m := range d.Members {
		if !validate.IsVariant(m, o) {
			continue
		}
		t.Members = append(t.Members, model.UnionTargetMember{
			Name:        m.Name,
			Constructor: constructorOf(m, o),
		})
	}
	return t, true
}

// parentChain lists enclosing declarations outermost first.
func parentChain(d *decl.Decl) []model.ParentType {
	parents := d.Parents()
	out := make([]model.ParentType, 0, len(parents))
	for i := len(parents) - 1; i >= 0; i-- {
		p := parents[i]
		out = append(out, model.ParentType{
			Keyword:     p.Keyword,
			Name:        p.DisplayName(),
			Constraints: strings.Join(p.Constraints, " "),
		})
	}
	return out
}

func constructorOf(m *decl.Decl, o decl.Oracle) *model.RecordConstructor {
	if len(m.Params) == 0 {
		return nil
	}
	c := &model.RecordConstructor{Parameters: make([]model.ConstructorParameter, len(m.Params))}
	for i, p := range m.Params {
		c.Parameters[i] = model.ConstructorParameter{Type: p.Type, Name: p.Name, Interface: isInterface(m, p.Type, o)}
	}
	return c
}

// isInterface resolves a parameter type the way base types are resolved.
// Type parameters in scope shadow any type of the same name.
func isInterface(m *decl.Decl, typ string, o decl.Oracle) bool {
	if o == nil {
		return false
	}
	ref, ok := decl.ParseTypeRef(typ)
	if !ok {
		return false
	}
	if ref.Qualifier == "" && ref.Arity == 0 {
		for d := m; d != nil; d = d.Parent {
			if slices.Contains(d.TypeParams, ref.Name) {
				return false
			}
		}
	}
	return o.ResolvesToInterface(m, ref)
}

// asyncRequested is true only for a literal "true" argument value.
func asyncRequested(d *decl.Decl, marker decl.Marker) bool {
	attr, ok := marker.Find(d)
	if !ok {
		return false
	}
	v, ok := attr.Arg(AsyncArgument)
	return ok && v == "true"
}
