package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sumgen/internal/driver"
)

var genCmd = &cobra.Command{
	Use:   "gen [flags] [file.cs|directory]...",
	Short: "Generate union support code",
	Long:  "Validate [Union] records, report diagnostics and write one output unit per valid union plus one per arity family.",
	RunE:  runGen,
}

func init() {
	genCmd.Flags().StringP("output", "o", "", "output directory (overrides [generator].output)")
	genCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	genCmd.Flags().Bool("disk-cache", false, "reuse rendered units across runs from the user cache directory")
	genCmd.Flags().Bool("clear-cache", false, "drop the disk cache before generating")
	genCmd.Flags().Bool("prune", true, "remove stale *.g.cs files from the output directory")
	genCmd.Flags().Bool("dry-run", false, "list the units instead of writing them")
}

func runGen(cmd *cobra.Command, args []string) error {
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	useDiskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	prune, err := cmd.Flags().GetBool("prune")
	if err != nil {
		return fmt.Errorf("failed to get prune flag: %w", err)
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}

	p, err := loadProject(cmd, args)
	if err != nil {
		return err
	}
	opts, err := p.sessionOptions(cmd)
	if err != nil {
		return err
	}
	if useDiskCache || clearCache {
		cache, err := driver.OpenDiskCache("sumgen")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		if clearCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to clear disk cache: %w", err)
			}
		}
		if useDiskCache {
			opts.DiskCache = cache
		}
	}

	quiet := isQuiet(cmd)
	start := time.Now()
	var result *driver.Result
	if shouldUseTUI(mode, quiet) {
		result, err = runWithUI(cmd.Context(), "sumgen gen", p.files, opts)
	} else {
		result, err = driver.NewSession(opts).Run(cmd.Context(), p.files)
	}
	if err != nil {
		return fmt.Errorf("gen: %w", err)
	}

	if err := printDiagnostics(cmd, os.Stderr, result, reportOptions{format: "pretty"}); err != nil {
		return err
	}

	output := p.cfg.Generator.Output
	if dryRun {
		for _, f := range result.Units.AsFiles() {
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(output, f.RelativePath))
		}
	} else if err := writeUnits(cmd.Context(), result, output, prune); err != nil {
		return err
	}

	if !quiet {
		printStats(cmd.OutOrStdout(), result, output, time.Since(start))
	}
	printTimings(cmd.ErrOrStderr(), opts.Timer)
	if result.HasErrors() {
		return errHasErrors
	}
	return nil
}

// writeUnits writes the pass output under dir. With prune, generated files
// left over from unions that no longer exist are removed.
func writeUnits(ctx context.Context, result *driver.Result, dir string, prune bool) error {
	if result.Units == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := result.Units.Write(ctx, dir); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !prune {
		return nil
	}
	keep := make(map[string]struct{})
	for _, f := range result.Units.AsFiles() {
		keep[filepath.Clean(filepath.Join(dir, f.RelativePath))] = struct{}{}
	}
	_, err := pruneOutput(dir, keep)
	return err
}

// pruneOutput removes *.g.cs files under dir that are not in keep and
// returns how many were removed.
func pruneOutput(dir string, keep map[string]struct{}) (int, error) {
	removed := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".g.cs") {
			return nil
		}
		if _, ok := keep[filepath.Clean(path)]; ok {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove stale output: %w", err)
		}
		removed++
		return nil
	})
	return removed, err
}
