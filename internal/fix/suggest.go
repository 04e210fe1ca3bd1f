package fix

import (
	"fmt"
	"strings"

	"sumgen/internal/decl"
	"sumgen/internal/diag"
	"sumgen/internal/source"
)

const (
	titleAddPartial   = "Add partial keyword"
	titleRemoveSealed = "Remove sealed keyword"
)

// Suggest builds the fix for a fixable diagnostic raised on node. The
// node is the declaration the diagnostic points at: the union itself for
// UL1001 and UL1003, the offending parent for UL1002.
func Suggest(d diag.Diagnostic, node *decl.Decl, file *source.File) (diag.Fix, bool) {
	if node == nil || node.Header != d.Primary {
		return diag.Fix{}, false
	}
	switch d.Code {
	case diag.UnionMissingPartial, diag.UnionParentMissingPartial:
		return addPartial(d, node, file)
	case diag.UnionCannotBeSealed:
		return removeSealed(d, node, file)
	}
	return diag.Fix{}, false
}

// addPartial places "partial" right before the type keyword, the only
// position the language accepts. The edit replaces the first keyword word
// so a stale fix cannot land anywhere else.
func addPartial(d diag.Diagnostic, node *decl.Decl, file *source.File) (diag.Fix, bool) {
	if node.IsPartial() {
		return diag.Fix{}, false
	}
	word, _, _ := strings.Cut(node.Keyword, " ")
	if word == "" {
		return diag.Fix{}, false
	}
	span := node.KeywordSpan
	span.End = span.Start + uint32(len(word)) // #nosec G115 -- keyword length is tiny
	if file != nil && file.Text(span) != word {
		return diag.Fix{}, false
	}
	return ReplaceSpan(titleAddPartial, span, "partial "+word, word,
		WithID(fixID(d)), Preferred()), true
}

// removeSealed deletes the modifier together with the blanks after it.
func removeSealed(d diag.Diagnostic, node *decl.Decl, file *source.File) (diag.Fix, bool) {
	m, ok := node.Modifier("sealed")
	if !ok {
		return diag.Fix{}, false
	}
	span := m.Span
	if file != nil {
		end := int(span.End)
		for end < len(file.Content) && (file.Content[end] == ' ' || file.Content[end] == '\t') {
			end++
		}
		span.End = uint32(end) // #nosec G115 -- bounded by file length
	}
	expect := "sealed"
	if file != nil {
		expect = file.Text(span)
	}
	return DeleteSpan(titleRemoveSealed, span, expect, WithID(fixID(d)), Preferred()), true
}

func fixID(d diag.Diagnostic) string {
	return fmt.Sprintf("%s-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start)
}

// Attach adds fixes to every fixable diagnostic whose primary span is the
// header of a declaration in decls, nested ones included. Diagnostics keep
// their order.
func Attach(ds []diag.Diagnostic, decls []*decl.Decl) []diag.Diagnostic {
	byHeader := make(map[source.Span]*decl.Decl)
	for _, d := range decls {
		d.Walk(func(n *decl.Decl) { byHeader[n.Header] = n })
	}
	out := make([]diag.Diagnostic, len(ds))
	for i, d := range ds {
		out[i] = d
		if !d.Code.Describe().Fixable || len(d.Fixes) > 0 {
			continue
		}
		node := byHeader[d.Primary]
		if node == nil {
			continue
		}
		if f, ok := Suggest(d, node, node.File); ok {
			out[i] = d.WithFix(f)
		}
	}
	return out
}
