package diag

import "sumgen/internal/source"

type Note struct {
	Span source.Span
	Msg  string
}

// TextEdit replaces Span with NewText. When OldText is set the fix engine
// refuses to apply the edit unless the current text matches.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// FixKind classifies a fix for UI listings.
type FixKind uint8

const (
	FixKindQuickFix FixKind = iota
	FixKindRefactor
)

func (k FixKind) String() string {
	if k == FixKindRefactor {
		return "refactor"
	}
	return "quickfix"
}

// FixApplicability is the confidence that a fix is correct.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	default:
		return "manual-review"
	}
}

// Fix is a data-only correction attached to a diagnostic.
type Fix struct {
	ID            string
	Title         string
	Kind          FixKind
	Applicability FixApplicability
	IsPreferred   bool
	Edits         []TextEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

// New builds a diagnostic with the code's default severity and formatted
// message.
func New(code Code, primary source.Span, args ...any) Diagnostic {
	return Diagnostic{
		Severity: code.Describe().Severity,
		Code:     code,
		Primary:  primary,
		Message:  code.Message(args...),
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: SevError, Code: code, Primary: primary, Message: msg}
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(fix Fix) Diagnostic {
	d.Fixes = append(d.Fixes, fix)
	return d
}
