package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"sumgen/internal/diag"
	"sumgen/internal/source"
)

type palette struct {
	err, warn, info, note, fix, gutter, caret, path *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		fix:    color.New(color.FgGreen),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		path:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.fix, p.gutter, p.caret, p.path} {
		// color.NoColor решает по TTY; здесь решает вызывающий
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	PrettyDiagnostics(w, bag.Items(), fs, opts)
}

// PrettyDiagnostics is Pretty over a plain slice.
func PrettyDiagnostics(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &items[i], fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	sev := strings.ToUpper(d.Severity.String())
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprint(location(fs, d.Primary, opts.PathMode)),
		p.severity(d.Severity).Sprint(sev),
		d.Code.ID(),
		d.Message)
	writeContext(w, fs, d.Primary, int(opts.Context), p)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
		}
	}
	if !opts.ShowFixes {
		return
	}
	for i, f := range d.Fixes {
		header := fmt.Sprintf("fix #%d: %s", i+1, f.Title)
		fmt.Fprintf(w, "  %s (%s, %s)", p.fix.Sprint(header), f.Kind, f.Applicability)
		if f.ID != "" {
			fmt.Fprintf(w, " id=%s", f.ID)
		}
		fmt.Fprintln(w)
		for _, e := range f.Edits {
			fmt.Fprintf(w, "    edit %s apply=%s\n", location(fs, e.Span, opts.PathMode), strconv.Quote(e.NewText))
		}
		if !opts.ShowPreview {
			continue
		}
		lines, err := previewFix(fs, f)
		if err != nil || len(lines) == 0 {
			continue
		}
		fmt.Fprintln(w, "    preview:")
		for _, l := range lines {
			fmt.Fprintf(w, "      %d - %s\n", l.Line, l.Before)
			fmt.Fprintf(w, "      %d + %s\n", l.Line, l.After)
		}
	}
}

func location(fs *source.FileSet, span source.Span, mode PathMode) string {
	if fs == nil || int(span.File) >= fs.Len() {
		return "<unknown>"
	}
	f := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, fs, mode), start.Line, start.Col)
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

// writeContext prints the primary line with ctx lines around it and an
// underline below the span.
func writeContext(w io.Writer, fs *source.FileSet, span source.Span, ctx int, p palette) {
	if fs == nil || int(span.File) >= fs.Len() {
		return
	}
	f := fs.Get(span.File)
	if len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(span)
	first := max(1, int(start.Line)-ctx)
	last := int(start.Line) + ctx
	gutter := len(strconv.Itoa(last))

	for ln := first; ln <= last; ln++ {
		line := f.GetLine(uint32(ln)) // #nosec G115 -- line numbers come from uint32
		if ln > int(start.Line) && line == "" && ln > len(f.LineIdx) {
			break
		}
		fmt.Fprintf(w, "  %s %s\n", p.gutter.Sprintf("%*d |", gutter, ln), line)
		if ln != int(start.Line) {
			continue
		}
		col := int(start.Col) - 1
		prefix := line[:min(col, len(line))]
		width := 1
		if end.Line == start.Line && end.Col > start.Col {
			stop := min(int(end.Col)-1, len(line))
			width = max(1, runewidth.StringWidth(line[min(col, len(line)):stop]))
		}
		underline := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "  %s %s%s\n",
			p.gutter.Sprintf("%*s |", gutter, ""),
			pad(prefix),
			p.caret.Sprint(underline))
	}
}

// pad blanks out prefix keeping tabs, so the caret lines up under the span.
func pad(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}
