package diagfmt

import (
	"io"

	"sumgen/internal/diag"
	"sumgen/internal/source"
)

// Short writes one line per diagnostic: "error UL1001 a.cs:6:8 message".
func Short(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, includeNotes bool) error {
	out := diag.FormatShortDiagnostics(items, fs, includeNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
