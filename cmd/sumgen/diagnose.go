package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sumgen/internal/driver"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] [file.cs|directory]...",
	Short: "Report union diagnostics without generating code",
	Long:  "Parse the sources and run structural validation and extraction; print diagnostics in the chosen format.",
	RunE:  runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	diagCmd.Flags().Bool("preview", false, "preview fix edits (implies --suggest)")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

// runDiagnose exits non-zero when any diagnostic is an error.
func runDiagnose(cmd *cobra.Command, args []string) error {
	var (
		ro  reportOptions
		err error
	)
	if ro.format, err = cmd.Flags().GetString("format"); err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch ro.format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unknown format: %s", ro.format)
	}
	if ro.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if ro.suggest, err = cmd.Flags().GetBool("suggest"); err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if ro.preview, err = cmd.Flags().GetBool("preview"); err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	if ro.fullPath, err = cmd.Flags().GetBool("fullpath"); err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}

	p, err := loadProject(cmd, args)
	if err != nil {
		return err
	}
	opts, err := p.sessionOptions(cmd)
	if err != nil {
		return err
	}
	opts.SkipCompose = true

	result, err := driver.NewSession(opts).Run(cmd.Context(), p.files)
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}
	if err := printDiagnostics(cmd, os.Stdout, result, ro); err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}
	printTimings(cmd.ErrOrStderr(), opts.Timer)
	if result.HasErrors() {
		return errHasErrors
	}
	return nil
}
