package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/acctdiff/internal/logging"
	"github.com/ppiankov/acctdiff/internal/model"
	"github.com/ppiankov/acctdiff/internal/pipeline"
	"github.com/ppiankov/acctdiff/internal/worker"
	"github.com/spf13/cobra"
)

var (
	outputDir    string
	batchTimeout time.Duration
	batchHTML    bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <manifest.yaml>",
	Short: "Compare many pairs of lists from a manifest in parallel",
	Long: `Batch compares every pair listed in a YAML manifest:
- Pairs run concurrently with a configurable worker count
- Relative paths resolve against the manifest's directory
- One JSON and one Markdown report is written per pair
- Identical pairs are compared once and served from the result cache

Manifest:
  mode: grammar        # optional, overrides the configured mode
  pairs:
    - name: north
      source: north/logged-in.txt
      target: north/wished.txt

Example:
  acctdiff batch pairs.yaml
  acctdiff batch pairs.yaml --concurrency 8 --output-dir ./reports --html`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	addReconcileFlags(batchCmd)
	batchCmd.Flags().IntP("concurrency", "c", model.DefaultConfig().Concurrency.Workers, "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./acctdiff-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 5*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&batchHTML, "html", false, "also write an HTML report per pair")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig(cmd, map[string]string{
		"mode":                       "mode",
		"concurrency.parallel_sides": "parallel",
		"concurrency.workers":        "concurrency",
	})
	if err != nil {
		return err
	}
	cfg.Output.Color = false

	manifest, err := worker.ReadManifest(file)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	if manifest.Mode != "" && !cmd.Flags().Changed("mode") {
		cfg.Mode = manifest.Mode
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	errOut := cmd.ErrOrStderr()
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "  acctdiff Batch Processing\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "  Manifest:     %s\n", file)
	fmt.Fprintf(errOut, "  Pairs:        %d\n", len(manifest.Pairs))
	fmt.Fprintf(errOut, "  Mode:         %s\n", cfg.Mode)
	fmt.Fprintf(errOut, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(errOut, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(errOut, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(errOut, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := newPipeline(cmd, cfg)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)
	results := processor.ProcessPairs(ctx, manifest.Pairs)

	log := logging.Default()
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(errOut, "✗ %s: %v\n", result.Pair.Name, result.Error)
			continue
		}

		slug := sanitizeFilename(result.Pair.Name)
		targets := pipeline.Targets{
			JSON:     filepath.Join(outputDir, slug+".json"),
			Markdown: filepath.Join(outputDir, slug+".md"),
		}
		if batchHTML {
			targets.HTML = filepath.Join(outputDir, slug+".html")
		}

		if err := writeTargets(p.Renderer(), result.Report, targets); err != nil {
			failureCount++
			fmt.Fprintf(errOut, "✗ %s: %v\n", result.Pair.Name, err)
			continue
		}

		successCount++
		res := result.Report.Result
		fmt.Fprintf(errOut, "✓ %s (coverage: %d/100, missing: %d, extra: %d)\n",
			result.Pair.Name, result.Report.Summary.Index, len(res.Missing), len(res.Extra))
		log.Debug().Str("pair", result.Pair.Name).Bool("cached", result.Report.Cached).Str("json", targets.JSON).Msg("pair written")
	}

	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "  Batch Complete\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "  Total:     %d pairs\n", len(results))
	fmt.Fprintf(errOut, "  Success:   %d\n", successCount)
	fmt.Fprintf(errOut, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(errOut, "  Output:    %s\n", outputDir)
	fmt.Fprintf(errOut, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d pairs failed", failureCount, len(results))
	}
	return nil
}

func writeTargets(r *pipeline.Renderer, report *model.Report, targets pipeline.Targets) error {
	if err := r.RenderJSON(report, targets.JSON); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	if err := r.RenderMarkdown(report, targets.Markdown); err != nil {
		return fmt.Errorf("write Markdown: %w", err)
	}
	if targets.HTML != "" {
		if err := r.RenderHTML(report, targets.HTML); err != nil {
			return fmt.Errorf("write HTML: %w", err)
		}
	}
	return nil
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename sanitizes a pair name for use as a filename
func sanitizeFilename(s string) string {
	s = filenameReplacer.Replace(strings.TrimSpace(s))
	s = strings.Trim(s, ".")

	// Limit length
	if r := []rune(s); len(r) > 100 {
		s = string(r[:100])
	}
	if s == "" {
		s = "report"
	}

	return s
}
