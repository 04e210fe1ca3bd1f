package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sumgen/internal/diagfmt"
	"sumgen/internal/driver"
	"sumgen/internal/observ"
)

type reportOptions struct {
	format    string // pretty|json|short
	withNotes bool
	suggest   bool
	preview   bool
	fullPath  bool
}

// printDiagnostics renders result diagnostics to out in the chosen format.
// Nothing is printed for pretty and short output when there are none.
func printDiagnostics(cmd *cobra.Command, out *os.File, result *driver.Result, ro reportOptions) error {
	pathMode := diagfmt.PathModeAuto
	if ro.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	showFixes := ro.suggest || ro.preview

	switch ro.format {
	case "pretty", "":
		color, err := useColor(cmd, out)
		if err != nil {
			return err
		}
		diagfmt.PrettyDiagnostics(out, result.Diagnostics, result.Files, diagfmt.PrettyOpts{
			Color:       color,
			Context:     2,
			PathMode:    pathMode,
			ShowNotes:   ro.withNotes,
			ShowFixes:   showFixes,
			ShowPreview: ro.preview,
		})
		return nil
	case "short":
		if len(result.Diagnostics) == 0 {
			return nil
		}
		return diagfmt.Short(out, result.Diagnostics, result.Files, ro.withNotes)
	case "json":
		return diagfmt.JSON(out, result.Diagnostics, result.Files, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     ro.withNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  ro.preview,
		})
	default:
		return fmt.Errorf("unknown format: %s", ro.format)
	}
}

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	fmt.Fprint(out, timer.Summary())
}

// printStats is the one-line summary of a generating pass.
func printStats(out io.Writer, result *driver.Result, output string, elapsed time.Duration) {
	units := 0
	if result.Units != nil {
		units = len(result.Units.AsFiles())
	}
	reused := ""
	if result.Reused {
		reused = ", inputs unchanged"
	}
	fmt.Fprintf(out, "%d unions, %d units -> %s (rendered %d, memo %d, disk %d%s) in %.1f ms\n",
		len(result.Targets), units, output,
		result.Stats.Rendered, result.Stats.Memo, result.Stats.Disk, reused,
		toMillis(elapsed))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
