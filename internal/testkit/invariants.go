package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"sumgen/internal/ast"
	"sumgen/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) file.Span is non-empty and within file content bounds
// 2) every type declaration span is non-empty and inside file.Span
// 3) the header span of a declaration lies inside its own span
// 4) nested declarations lie inside their parent
func CheckSpanInvariants(b *ast.Builder, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.File

	if f.Span.End <= f.Span.Start && len(sf.Content) > 0 {
		return fmt.Errorf("file span is empty: %v", f.Span)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, lenContent)
	}

	for _, id := range b.TypeIDs() {
		td := b.Type(id)
		sp := td.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("%s: empty span %v", td.Name, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("%s: span file mismatch: got=%d want=%d", td.Name, sp.File, sf.ID)
		}
		if !f.Span.Contains(sp) {
			return fmt.Errorf("%s: span %v is outside file span %v", td.Name, sp, f.Span)
		}
		if header := td.HeaderSpan(); !sp.Contains(header) {
			return fmt.Errorf("%s: header %v is outside declaration %v", td.Name, header, sp)
		}
		if td.Parent != 0 {
			if parent := b.Type(td.Parent); !parent.Span.Contains(sp) {
				return fmt.Errorf("%s: span %v is outside parent %s %v", td.Name, sp, parent.Name, parent.Span)
			}
		}
	}
	return nil
}
