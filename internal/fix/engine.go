package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"sumgen/internal/diag"
	"sumgen/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	// ApplyModeOnce picks the first fix in source order, preferring always-safe ones.
	ApplyModeOnce ApplyMode = iota
	// ApplyModeID picks the fix with ApplyOptions.TargetID.
	ApplyModeID
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
}

// ApplyResult aggregates the applied fix, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply selects one fix from diagnostics according to opts and writes the
// edited file back to disk.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied:     make([]AppliedFix, 0),
		Skipped:     make([]SkippedFix, 0),
		FileChanges: make([]FileChange, 0),
	}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, buildSkips := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, buildSkips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	cand, ok, reason := selectCandidate(candidates, opts)
	if !ok {
		result.Skipped = append(result.Skipped, SkippedFix{ID: opts.TargetID, Reason: reason})
		return result, ErrNoFixes
	}

	file := fs.Get(cand.diag.Primary.File)
	if reason := checkTarget(file, cand.fix); reason != "" {
		result.Skipped = append(result.Skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: reason})
		return result, ErrNoFixes
	}

	updated, err := ApplyDocument(file.Content, cand.fix)
	if err != nil {
		result.Skipped = append(result.Skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: err.Error()})
		return result, ErrNoFixes
	}

	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(file.Path); statErr == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(file.Path, updated, mode); err != nil {
		return result, fmt.Errorf("write %s: %w", file.Path, err)
	}

	baseDir := fs.BaseDir()
	result.Applied = append(result.Applied, AppliedFix{
		ID:            cand.fix.ID,
		Title:         cand.fix.Title,
		Code:          cand.diag.Code,
		Message:       cand.diag.Message,
		Applicability: cand.fix.Applicability,
		PrimaryPath:   file.FormatPath("auto", baseDir),
		EditCount:     len(cand.fix.Edits),
	})
	result.FileChanges = append(result.FileChanges, FileChange{
		Path:      file.FormatPath("relative", baseDir),
		EditCount: len(cand.fix.Edits),
	})
	return result, nil
}

// checkTarget rejects fixes that cannot be written: virtual documents and
// edits that leave the primary file.
func checkTarget(file *source.File, f diag.Fix) string {
	if file == nil {
		return "target file is unknown"
	}
	if file.Flags&source.FileVirtual != 0 {
		return "target file is virtual"
	}
	for _, e := range f.Edits {
		if e.Span.File != file.ID {
			return "fix spans several files"
		}
	}
	return ""
}

// ApplyDocument returns content with every edit of fix applied. Edits are
// applied back to front so earlier offsets stay valid; overlapping edits and
// guards that no longer match are errors.
func ApplyDocument(content []byte, f diag.Fix) ([]byte, error) {
	if len(f.Edits) == 0 {
		return nil, errors.New("fix has no edits")
	}
	edits := make([]diag.TextEdit, len(f.Edits))
	copy(edits, f.Edits)
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Span.Start == edits[j].Span.Start {
			return edits[i].Span.End > edits[j].Span.End
		}
		return edits[i].Span.Start > edits[j].Span.Start
	})
	for i := 1; i < len(edits); i++ {
		if spansConflict(edits[i-1], edits[i]) {
			return nil, errors.New("fix contains overlapping edits")
		}
	}

	working := append([]byte(nil), content...)
	for _, edit := range edits {
		start, end := int(edit.Span.Start), int(edit.Span.End)
		if end < start || end > len(working) {
			return nil, errors.New("edit span out of range")
		}
		if edit.OldText != "" && string(working[start:end]) != edit.OldText {
			return nil, errors.New("existing text does not match expected content")
		}
		suffix := append([]byte(nil), working[end:]...)
		working = append(append(working[:start], edit.NewText...), suffix...)
	}
	return working, nil
}

// gatherCandidates flattens attached fixes. A fix without an ID gets one
// derived from its diagnostic; later duplicates of an ID are skipped.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	cands := make([]candidate, 0)
	skips := make([]SkippedFix, 0)
	seen := make(map[string]struct{})

	order := 0
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			}
			if _, dup := seen[f.ID]; dup {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "duplicate fix id"})
				continue
			}
			seen[f.ID] = struct{}{}
			cands = append(cands, candidate{diag: d, fix: f, order: order})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders by file, span, insertion order, code, preference,
// then ID and title.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if candidates[i].order != candidates[j].order {
			return candidates[i].order < candidates[j].order
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		if candidates[i].fix.IsPreferred != candidates[j].fix.IsPreferred {
			return candidates[i].fix.IsPreferred
		}
		if candidates[i].fix.ID != candidates[j].fix.ID {
			return candidates[i].fix.ID < candidates[j].fix.ID
		}
		return candidates[i].fix.Title < candidates[j].fix.Title
	})
}

func selectCandidate(candidates []candidate, opts ApplyOptions) (candidate, bool, string) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.fix.ID == opts.TargetID {
				return cand, true, ""
			}
		}
		return candidate{}, false, "fix id not found"
	case ApplyModeOnce:
		for _, cand := range candidates {
			if cand.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				return cand, true, ""
			}
		}
		// ничего безопасного, берём первый
		return candidates[0], true, ""
	default:
		return candidate{}, false, "unknown apply mode"
	}
}

// spansConflict reports whether two text edits' spans overlap.
// Spans are half-open [Start, End). Two insertions never conflict; an
// insertion conflicts with a span that strictly contains its position.
func spansConflict(a, b diag.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart < aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart < bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}
