package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sumgen/internal/config"
	"sumgen/internal/driver"
	"sumgen/internal/observ"
)

// project is what every command resolves before running a pass: the
// manifest with flag overrides applied and the source list.
type project struct {
	cfg     config.Config
	roots   []string
	files   []string
	baseDir string
}

// loadProject reads sumgen.toml (explicit --config or discovered upward from
// the first root), applies --property and --jobs, and lists the sources.
// The output directory is never scanned.
func loadProject(cmd *cobra.Command, args []string) (*project, error) {
	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}
	flags := cmd.Root().PersistentFlags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.Discover(roots[0])
	}
	if err != nil {
		return nil, err
	}

	props, err := flags.GetStringArray("property")
	if err != nil {
		return nil, fmt.Errorf("failed to get property flag: %w", err)
	}
	for _, kv := range props {
		if err := cfg.SetProperty(kv); err != nil {
			return nil, fmt.Errorf("--property: %w", err)
		}
	}

	if flags.Changed("jobs") {
		jobs, err := flags.GetInt("jobs")
		if err != nil {
			return nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
		cfg.Generator.Jobs = jobs
	}
	if f := cmd.Flags().Lookup("output"); f != nil && f.Changed {
		cfg.Generator.Output = f.Value.String()
	}

	files, err := driver.ListSources(roots, cfg.Generator.Extensions, cfg.Generator.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	if len(files) == 0 {
		return nil, driver.ErrNoSources
	}

	baseDir := ""
	if cfg.Path != "" {
		baseDir = filepath.Dir(cfg.Path)
	} else if wd, err := os.Getwd(); err == nil {
		baseDir = wd
	}
	return &project{cfg: cfg, roots: roots, files: files, baseDir: baseDir}, nil
}

// sessionOptions builds driver options from the project and the global flags.
func (p *project) sessionOptions(cmd *cobra.Command) (driver.Options, error) {
	flags := cmd.Root().PersistentFlags()
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := flags.GetBool("timings")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	opts := driver.Options{
		Jobs:           p.cfg.Generator.Jobs,
		MaxDiagnostics: maxDiagnostics,
		Generator:      p.cfg.Options(),
		Indent:         p.cfg.Generator.Indent,
		BaseDir:        p.baseDir,
	}
	if showTimings {
		opts.Timer = observ.NewTimer()
	}
	return opts, nil
}

func isQuiet(cmd *cobra.Command) bool {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && quiet
}
