package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sumgen/internal/driver"
	"sumgen/internal/fix"
)

// maxFixRounds bounds --all; every round re-runs the pass on the edited files.
const maxFixRounds = 64

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [file.cs|directory]...",
	Short: "Apply available fixes to union declarations",
	Long:  "Run diagnostics, surface available fixes, and apply them according to the chosen strategy.",
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply safe fixes until none are left")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply fix with a specific identifier")
}

func runFix(cmd *cobra.Command, args []string) error {
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	if targetID != "" && (applyAll || applyOnce) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	opts := fix.ApplyOptions{Mode: fix.ApplyModeOnce}
	if targetID != "" {
		opts = fix.ApplyOptions{Mode: fix.ApplyModeID, TargetID: targetID}
	}

	p, err := loadProject(cmd, args)
	if err != nil {
		return err
	}
	sessionOpts, err := p.sessionOptions(cmd)
	if err != nil {
		return err
	}
	sessionOpts.SkipCompose = true
	session := driver.NewSession(sessionOpts)

	rounds := 1
	if applyAll {
		rounds = maxFixRounds
	}
	total := &fix.ApplyResult{}
	applyErr := applyRounds(cmd.Context(), session, p.files, opts, rounds, total)
	return handleApplyResult(cmd.OutOrStdout(), total, applyErr)
}

// applyRounds applies one fix per pass until rounds are exhausted or no
// fix is left. Results accumulate into total.
func applyRounds(ctx context.Context, session *driver.Session, files []string, opts fix.ApplyOptions, rounds int, total *fix.ApplyResult) error {
	for round := 0; round < rounds; round++ {
		result, err := session.Run(ctx, files)
		if err != nil {
			return fmt.Errorf("fix: diagnose failed: %w", err)
		}
		res, err := fix.Apply(result.Files, result.Diagnostics, opts)
		if res != nil {
			total.Applied = append(total.Applied, res.Applied...)
			total.FileChanges = append(total.FileChanges, res.FileChanges...)
			if len(res.Applied) == 0 {
				total.Skipped = append(total.Skipped, res.Skipped...)
			}
		}
		if err != nil {
			if errors.Is(err, fix.ErrNoFixes) && round > 0 {
				return nil
			}
			return err
		}
	}
	return nil
}

func handleApplyResult(out io.Writer, res *fix.ApplyResult, applyErr error) error {
	if res == nil {
		return applyErr
	}

	if len(res.Applied) > 0 {
		fmt.Fprintf(out, "Applied %d fix(es):\n", len(res.Applied))
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(out, "  %s [%s] %s (%d edits, %s)\n",
				item.Title, item.ID, location, item.EditCount, item.Applicability.String())
		}
	}

	if len(res.FileChanges) > 0 {
		fmt.Fprintln(out, "Updated files:")
		for _, change := range res.FileChanges {
			fmt.Fprintf(out, "  %s (%d edits)\n", change.Path, change.EditCount)
		}
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			fmt.Fprintln(out, "No applicable fixes found.")
			return nil
		}
		return applyErr
	}
	if len(res.Applied) == 0 {
		fmt.Fprintln(out, "No fixes applied.")
	}
	return nil
}
