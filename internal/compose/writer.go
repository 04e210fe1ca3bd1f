package compose

import (
	"bytes"
	"fmt"
)

// Writer accumulates generated source and tracks indentation.
type Writer struct {
	buf         []byte
	indent      string
	indentLevel int
	atLineStart bool
}

// NewWriter creates a writer indenting with the given unit ("    " or "\t").
func NewWriter(indent string) *Writer {
	if indent == "" {
		indent = "    "
	}
	return &Writer{indent: indent, atLineStart: true, buf: make([]byte, 0, 4096)}
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) String() string { return string(w.buf) }

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	for range w.indentLevel {
		w.buf = append(w.buf, w.indent...)
	}
	w.atLineStart = false
}

// WriteString writes s, indenting at line starts. s must not contain
// newlines; use Line for whole lines.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf = append(w.buf, s...)
}

// Line writes one indented line.
func (w *Writer) Line(s string) {
	w.WriteString(s)
	w.Newline()
}

// Linef is Line with formatting.
func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Newline ends the current line.
func (w *Writer) Newline() {
	w.buf = append(w.buf, '\n')
	w.atLineStart = true
}

// Blank writes an empty line unless the output already ends with one or
// a block was just opened.
func (w *Writer) Blank() {
	if len(w.buf) == 0 || bytes.HasSuffix(w.buf, []byte("\n\n")) || bytes.HasSuffix(w.buf, []byte("{\n")) {
		return
	}
	w.Newline()
}

// IndentPush increases the indentation level.
func (w *Writer) IndentPush() { w.indentLevel++ }

// IndentPop decreases the indentation level.
func (w *Writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

// Open writes a header line followed by "{" and indents.
func (w *Writer) Open(header string) {
	w.Line(header)
	w.Line("{")
	w.IndentPush()
}

// Close dedents and writes "}" with an optional suffix (";" for switch
// expressions).
func (w *Writer) Close(suffix string) {
	w.IndentPop()
	w.Line("}" + suffix)
}
