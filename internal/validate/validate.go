// Package validate checks union candidates against the structural contract
// and reports every violation as a diagnostic. Validation never decides
// whether code gets generated; the extractor applies its own gates.
package validate

import (
	"sumgen/internal/decl"
	"sumgen/internal/diag"
)

// Declaration evaluates the union-level rules and then the member rules
// for every nested declaration of d, in source order. It never mutates d.
func Declaration(d *decl.Decl, o decl.Oracle) []diag.Diagnostic {
	if d == nil {
		return nil
	}
	var out []diag.Diagnostic
	out = unionRules(out, d, o)
	for _, m := range d.Members {
		out = memberRules(out, m, o)
	}
	return out
}

func unionRules(out []diag.Diagnostic, d *decl.Decl, o decl.Oracle) []diag.Diagnostic {
	if !d.IsPartial() {
		out = append(out, diag.New(diag.UnionMissingPartial, d.Header, d.Name))
	}

	for _, p := range d.Parents() {
		if !p.Kind.CanContainUnion() {
			break
		}
		if !p.IsPartial() {
			out = append(out, diag.New(diag.UnionParentMissingPartial, p.Header, p.Name, d.Name))
		}
	}

	if d.IsSealed() {
		out = append(out, diag.New(diag.UnionCannotBeSealed, d.Header, d.Name))
	}

	if hasNonInterfaceBase(d, o) {
		out = append(out, diag.New(diag.UnionCannotHaveBaseType, d.Header, d.Name))
	}

	// a primary constructor is public by construction
	if d.HasParamList {
		out = append(out, diag.New(diag.UnionNonPrivateConstructor, d.Header, d.Name))
	}
	for _, c := range d.Ctors {
		if c.Static() || c.Private() {
			continue
		}
		out = append(out, diag.New(diag.UnionNonPrivateConstructor, c.Span, d.Name))
	}

	if o != nil {
		var authored []*decl.Decl
		for _, part := range o.Parts(d) {
			if !part.Generated {
				authored = append(authored, part)
			}
		}
		if len(authored) > 1 {
			for _, part := range authored {
				out = append(out, diag.New(diag.UnionOnlyOnePart, part.Span, d.Name))
			}
		}
	}
	return out
}

func memberRules(out []diag.Diagnostic, m *decl.Decl, o decl.Oracle) []diag.Diagnostic {
	switch {
	case m.Kind == decl.KindEnum:
		// enums are not type declarations with a body of members
		return out
	case !m.IsRecord():
		return append(out, diag.New(diag.MemberMustBeRecord, m.Header, m.Name))
	}

	// rule order: UL2001, UL2002, UL2003, UL2005
	if !m.IsPartial() {
		out = append(out, diag.New(diag.MemberMissingPartial, m.Header, m.Name))
	}
	if m.IsGeneric() {
		out = append(out, diag.New(diag.MemberCannotBeGeneric, m.Header, m.Name))
	}
	if hasNonInterfaceBase(m, o) {
		out = append(out, diag.New(diag.MemberCannotHaveBase, m.Header, m.Name))
	}
	if m.IsNonPublic() {
		out = append(out, diag.New(diag.MemberMustBePublic, m.Header, m.Name))
	}
	return out
}

// hasNonInterfaceBase looks at the first base entry only; later entries
// of a C#-style base list are always interfaces.
func hasNonInterfaceBase(d *decl.Decl, o decl.Oracle) bool {
	if len(d.Bases) == 0 {
		return false
	}
	if o == nil {
		return true
	}
	return !o.ResolvesToInterface(d, d.Bases[0])
}

// IsVariant reports whether a nested declaration passes every member gate
// and becomes part of the union.
func IsVariant(m *decl.Decl, o decl.Oracle) bool {
	return m.IsRecord() &&
		!m.IsNonPublic() &&
		!m.IsGeneric() &&
		!hasNonInterfaceBase(m, o) &&
		m.IsPartial()
}

// CanGenerate reports whether the generation-fatal rules pass: the union
// is partial, not sealed, and every enclosing declaration is a partial
// class, struct or record. Generated code cannot be re-nested inside an
// interface, so such a parent also blocks generation.
func CanGenerate(d *decl.Decl) bool {
	if !d.IsPartial() || d.IsSealed() {
		return false
	}
	for _, p := range d.Parents() {
		if !p.Kind.CanContainUnion() || !p.IsPartial() {
			return false
		}
	}
	return true
}
