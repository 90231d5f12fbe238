package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ppiankov/acctdiff/internal/logging"
	"github.com/ppiankov/acctdiff/internal/model"
	"github.com/ppiankov/acctdiff/internal/pipeline"
	"github.com/ppiankov/acctdiff/internal/worker"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// watchSettle lets editors finish writing before a file is re-read
const watchSettle = 50 * time.Millisecond

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <source> <target>",
	Short: "Re-run a comparison whenever either list changes",
	Long: `Watch compares two lists, then repeats the comparison each time one of
the files is saved. Every run replaces the previous result; runs are spaced
at least watch.interval apart.

Press Ctrl+C to stop.

Example:
  acctdiff watch logged-in.txt wished.txt
  acctdiff watch logged-in.txt wished.txt --interval 2s --format table`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	addReconcileFlags(watchCmd)
	watchCmd.Flags().StringP("format", "o", "text", "stdout format (text, table, json, yaml)")
	watchCmd.Flags().Duration("interval", model.DefaultConfig().Watch.Interval, "minimum time between runs")
	watchCmd.Flags().Bool("no-color", false, "disable highlighting of matched names")
}

func runWatch(cmd *cobra.Command, args []string) error {
	source, target := args[0], args[1]
	if source == pipeline.StdinPath || target == pipeline.StdinPath {
		return errors.New("watch needs two files; stdin cannot be watched")
	}

	cfg, err := loadConfig(cmd, map[string]string{
		"mode":                       "mode",
		"concurrency.parallel_sides": "parallel",
		"output.format":              "format",
		"watch.interval":             "interval",
	})
	if err != nil {
		return err
	}
	cfg.Output.Color = cfg.Output.Color && pipeline.IsTerminal()

	p, err := newPipeline(cmd, cfg)
	if err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	w := newPairWatcher(source, target, cfg.Watch, *logging.Default())
	// Watch directories so atomic saves (write temp, rename) are seen
	for _, dir := range w.dirs() {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	w.run = func(ctx context.Context) error {
		report, err := p.ComparePaths(ctx, "", source, target)
		if err != nil {
			return err
		}
		w.last = report
		fmt.Fprintf(out, "\n[%s]\n", report.ComparedAt.Local().Format(time.TimeOnly))
		return p.RenderReport(out, report, pipeline.Targets{})
	}

	return w.loop(ctx, fsw.Events, fsw.Errors)
}

// pairWatcher re-runs a comparison when either file of a pair changes
type pairWatcher struct {
	files   map[string]bool
	key     string
	limiter *worker.Limiter
	settle  time.Duration
	run     func(ctx context.Context) error
	last    *model.Report // latest result; each run replaces it
	log     zerolog.Logger
}

func newPairWatcher(source, target string, cfg model.WatchConfig, log zerolog.Logger) *pairWatcher {
	files := map[string]bool{
		absPath(source): true,
		absPath(target): true,
	}
	return &pairWatcher{
		files:   files,
		key:     absPath(source) + "\x00" + absPath(target),
		limiter: worker.Every(cfg.Interval, cfg.Burst),
		settle:  watchSettle,
		log:     log,
	}
}

func (w *pairWatcher) dirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for f := range w.files {
		d := filepath.Dir(f)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// relevant reports whether ev changes the content of a watched file
func (w *pairWatcher) relevant(ev fsnotify.Event) bool {
	if !w.files[absPath(ev.Name)] {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// loop runs once, then again after each relevant event, until ctx ends
func (w *pairWatcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("list changed")

			if err := w.limiter.WaitWithDelay(ctx, w.key, w.settle); err != nil {
				return nil
			}
			drain(events)
			w.runOnce(ctx)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *pairWatcher) runOnce(ctx context.Context) {
	if err := w.run(ctx); err != nil {
		// Files may be mid-save; the next event retries
		w.log.Error().Err(err).Msg("comparison failed")
	}
}

// drain discards events queued while waiting, they are covered by the next run
func drain(events <-chan fsnotify.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
