package diagfmt

import (
	"errors"
	"fmt"
	"slices"

	"sumgen/internal/diag"
	"sumgen/internal/source"
)

var errNoFileSet = errors.New("preview: nil file set")

// previewLine is one declaration line as it reads before and after a fix.
type previewLine struct {
	File   source.FileID
	Line   uint32
	Before string
	After  string
}

type lineKey struct {
	file source.FileID
	line uint32
}

// previewFix applies every edit of f to the lines it touches and returns
// them in file and line order. Header fixes (partial, sealed, access
// modifiers) never cross a line break, so an edit that does is refused.
func previewFix(fs *source.FileSet, f diag.Fix) ([]previewLine, error) {
	if fs == nil {
		return nil, errNoFileSet
	}
	edits := make(map[lineKey][]diag.TextEdit, len(f.Edits))
	for _, e := range f.Edits {
		if int(e.Span.File) >= fs.Len() {
			return nil, fmt.Errorf("preview: file %d not found", e.Span.File)
		}
		start, end := fs.Resolve(e.Span)
		if start.Line != end.Line {
			return nil, fmt.Errorf("preview: edit at %d:%d spans %d lines", start.Line, start.Col, end.Line-start.Line+1)
		}
		k := lineKey{file: e.Span.File, line: start.Line}
		edits[k] = append(edits[k], e)
	}

	keys := make([]lineKey, 0, len(edits))
	for k := range edits {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b lineKey) int {
		if a.file != b.file {
			return int(a.file) - int(b.file)
		}
		return int(a.line) - int(b.line)
	})

	out := make([]previewLine, 0, len(keys))
	for _, k := range keys {
		before := fs.Get(k.file).GetLine(k.line)
		after, err := applyOnLine(fs, before, edits[k])
		if err != nil {
			return nil, err
		}
		if after == before {
			continue
		}
		out = append(out, previewLine{File: k.file, Line: k.line, Before: before, After: after})
	}
	return out, nil
}

// applyOnLine splices edits into one line, rightmost first so earlier
// columns stay valid.
func applyOnLine(fs *source.FileSet, line string, edits []diag.TextEdit) (string, error) {
	slices.SortFunc(edits, func(a, b diag.TextEdit) int { return int(b.Span.Start) - int(a.Span.Start) })
	out := line
	limit := len(line)
	for _, e := range edits {
		start, end := fs.Resolve(e.Span)
		from, to := int(start.Col)-1, int(end.Col)-1
		if from < 0 || to < from || to > limit {
			return "", fmt.Errorf("preview: edits overlap on line %d", start.Line)
		}
		out = out[:from] + e.NewText + out[to:]
		limit = from
	}
	return out, nil
}
