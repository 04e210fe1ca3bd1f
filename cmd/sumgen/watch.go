package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"sumgen/internal/driver"
	"sumgen/internal/trace"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] [directory]...",
	Short: "Regenerate whenever a source file changes",
	Long:  "Run gen, then keep watching the source directories and re-run the pass on every change. Unchanged unions are served from memory.",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringP("output", "o", "", "output directory (overrides [generator].output)")
	watchCmd.Flags().Duration("debounce", 200*time.Millisecond, "quiet period before a change triggers a pass")
}

func runWatch(cmd *cobra.Command, args []string) error {
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	p, err := loadProject(cmd, args)
	if err != nil {
		return err
	}
	opts, err := p.sessionOptions(cmd)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	output := p.cfg.Generator.Output
	for _, root := range p.roots {
		if err := watchTree(watcher, root, output); err != nil {
			return err
		}
	}

	w := &watchLoop{
		session:  driver.NewSession(opts),
		project:  p,
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
		debounce: debounce,
		report: func(result *driver.Result) error {
			return printDiagnostics(cmd, os.Stderr, result, reportOptions{format: "pretty"})
		},
	}
	return w.run(cmd.Context(), watcher)
}

// watchTree adds root and its subdirectories, skipping hidden ones and the
// output directory so writing units does not trigger another pass.
func watchTree(watcher *fsnotify.Watcher, root, output string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(root))
	}
	skip, _ := filepath.Abs(output)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if abs, absErr := filepath.Abs(path); absErr == nil && abs == skip {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

type watchLoop struct {
	session  *driver.Session
	project  *project
	out      io.Writer
	errOut   io.Writer
	debounce time.Duration
	report   func(*driver.Result) error
}

func (w *watchLoop) run(ctx context.Context, watcher *fsnotify.Watcher) error {
	tracer := trace.FromContext(ctx)
	if err := w.pass(ctx); err != nil {
		return err
	}
	fmt.Fprintln(w.errOut, "watching for changes (ctrl+c to stop)")

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, ev.Name, w.project.cfg.Generator.Output); err != nil {
						fmt.Fprintf(w.errOut, "watch: %v\n", err)
					}
					continue
				}
			}
			if !w.relevant(ev) {
				continue
			}
			trace.Point(tracer, trace.ScopeDriver, "watch.event", ev.Op.String()+" "+ev.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w.errOut, "watch: %v\n", err)
		case <-pending:
			pending = nil
			if err := w.pass(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				fmt.Fprintf(w.errOut, "watch: %v\n", err)
			}
		}
	}
}

func (w *watchLoop) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	exts := w.project.cfg.Generator.Extensions
	if len(exts) == 0 {
		exts = driver.DefaultExtensions
	}
	for _, ext := range exts {
		if strings.HasSuffix(ev.Name, ext) {
			return true
		}
	}
	return false
}

// pass re-lists the sources, so added and removed files are picked up, and
// runs one generating pass.
func (w *watchLoop) pass(ctx context.Context) error {
	cfg := w.project.cfg.Generator
	files, err := driver.ListSources(w.project.roots, cfg.Extensions, cfg.Output)
	if err != nil {
		return err
	}
	start := time.Now()
	result, err := w.session.Run(ctx, files)
	if errors.Is(err, driver.ErrNoSources) {
		fmt.Fprintln(w.errOut, "watch: no source files")
		return nil
	}
	if err != nil {
		return err
	}
	if w.report != nil {
		if err := w.report(result); err != nil {
			return err
		}
	}
	if err := writeUnits(ctx, result, cfg.Output, true); err != nil {
		return err
	}
	printStats(w.out, result, cfg.Output, time.Since(start))
	return nil
}
