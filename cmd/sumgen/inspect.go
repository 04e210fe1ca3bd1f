package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sumgen/internal/diagfmt"
	"sumgen/internal/driver"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] [file.cs|directory]...",
	Short: "Dump extracted union snapshots and the arity set",
	Long:  "Run validation and extraction and print what the generator would work from, without rendering any code.",
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().String("format", "yaml", "output format (json|yaml)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unknown format: %s", format)
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
		return fmt.Errorf("inspect: %w", err)
	}
	// diagnostics go to stderr so stdout stays machine-readable
	if err := printDiagnostics(cmd, os.Stderr, result, reportOptions{format: "short"}); err != nil {
		return err
	}

	snap := diagfmt.BuildSnapshot(result.Targets, result.Arities, opts.Generator)
	if format == "json" {
		return diagfmt.SnapshotJSON(cmd.OutOrStdout(), snap)
	}
	return diagfmt.SnapshotYAML(cmd.OutOrStdout(), snap)
}
