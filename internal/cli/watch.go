package cli

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgcycle/pkg/scan"
)

// defaultDebounce is how long the tree must be quiet before re-analysis.
const defaultDebounce = 500 * time.Millisecond

// watchCommand creates the watch command, which re-analyzes the tree
// whenever a source file changes.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		opts  scanFlags
		delay time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-analyze a source tree whenever its sources change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd, rootArg(args), &opts, delay)
		},
	}

	opts.register(cmd)
	cmd.Flags().DurationVar(&delay, "debounce", defaultDebounce, "quiet period before re-analysis")
	return cmd
}

func (c *CLI) runWatch(cmd *cobra.Command, root string, f *scanFlags, delay time.Duration) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig(root)
	if err != nil {
		return err
	}
	popts := f.options(cmd, cfg, root)
	if err := popts.ValidateForScan(); err != nil {
		return err
	}
	s, err := scan.New(popts.Language, popts.ScanOptions())
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg.Cache, f.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	w, err := newTreeWatcher(root, s.Accepts, delay, c.Logger)
	if err != nil {
		return err
	}
	defer w.Close()

	out := cmd.OutOrStdout()
	analyze := func() {
		res, err := runner.Execute(ctx, popts)
		if err != nil {
			printError("Analysis failed: %v", err)
			return
		}
		printStats(res.Report, res.CacheInfo.ScanHit)
		writeCycles(out, res.Report)
	}

	analyze()
	printInfo("Watching %s (ctrl+c to stop)", root)
	return w.Run(ctx, analyze)
}

// =============================================================================
// treeWatcher - debounced recursive file watching
// =============================================================================

// treeWatcher watches every scanned directory below root and reports
// bursts of relevant changes as one event.
type treeWatcher struct {
	root    string
	accepts func(rel string) bool
	delay   time.Duration
	logger  *log.Logger
	fsw     *fsnotify.Watcher
}

// newTreeWatcher starts watching root. accepts decides which files, given
// as slash-separated paths relative to root, trigger a change.
func newTreeWatcher(root string, accepts func(rel string) bool, delay time.Duration, logger *log.Logger) (*treeWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &treeWatcher{root: root, accepts: accepts, delay: delay, logger: logger, fsw: fsw}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// addTree watches dir and every directory below it that scans descend into.
func (w *treeWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && scan.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		w.logger.Debug("watching", "dir", path)
		return w.fsw.Add(path)
	})
}

// relevant reports whether ev touches a file the scanner reads.
func (w *treeWatcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return w.accepts(rel) || filepath.Base(rel) == "go.mod"
}

// Run calls onChange once per burst of relevant events, after delay of
// quiet. It returns when ctx is done or the watcher is closed.
func (w *treeWatcher) Run(ctx context.Context, onChange func()) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !scan.SkipDir(info.Name()) {
					if err := w.addTree(ev.Name); err != nil {
						w.logger.Warn("watch new directory", "dir", ev.Name, "error", err)
					}
				}
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("change", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-fire:
			fire = nil
			onChange()
		}
	}
}

// Close stops watching.
func (w *treeWatcher) Close() error {
	return w.fsw.Close()
}

