package cli

import (
	"errors"
	"fmt"

	"github.com/ppiankov/acctdiff/internal/logging"
	"github.com/ppiankov/acctdiff/internal/model"
	"github.com/ppiankov/acctdiff/internal/pipeline"
	"github.com/spf13/cobra"
)

// ErrDifferences is returned by --strict runs when the lists disagree
var ErrDifferences = errors.New("account lists differ")

var (
	compareName string
	outJSON     string
	outMD       string
	outHTML     string
	noCache     bool
	strict      bool
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <source> <target>",
	Short: "Compare two account lists",
	Long: `Compare reconciles two pasted account lists:
- Reduce every line to a store name (see 'acctdiff formats')
- Report names present in both lists
- Report names missing from the source and extra in the source
- Report names repeated within either list

Use "-" for one of the inputs to read it from stdin.

Example:
  acctdiff compare logged-in.txt wished.txt
  pbpaste | acctdiff compare - wished.txt --format table
  acctdiff compare a.txt b.txt --mode list --json report.json --html report.html`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	addReconcileFlags(compareCmd)
	compareCmd.Flags().StringP("format", "o", "text", "stdout format (text, table, json, yaml, none)")
	compareCmd.Flags().Bool("debug", false, "include left, right and matched name listings")
	compareCmd.Flags().Bool("no-color", false, "disable highlighting of matched names")

	// Output files
	compareCmd.Flags().StringVar(&compareName, "name", "", "report title (default: derived from file names)")
	compareCmd.Flags().StringVar(&outJSON, "json", "", "write JSON report to path")
	compareCmd.Flags().StringVar(&outMD, "md", "", "write Markdown report to path")
	compareCmd.Flags().StringVar(&outHTML, "html", "", "write HTML report to path")

	compareCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result memoization")
	compareCmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when accounts are missing or extra")
}

// addReconcileFlags adds the flags shared by every command that reconciles lists
func addReconcileFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("mode", "m", "grammar", "line mode (grammar, list)")
	cmd.Flags().Bool("parallel", false, "extract both lists concurrently")
}

var compareKeys = map[string]string{
	"mode":                       "mode",
	"concurrency.parallel_sides": "parallel",
	"output.format":              "format",
	"output.debug":               "debug",
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, compareKeys)
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	cfg.Output.Color = cfg.Output.Color && pipeline.IsTerminal()

	p, err := newPipeline(cmd, cfg)
	if err != nil {
		return err
	}

	report, err := p.ComparePaths(cmd.Context(), compareName, args[0], args[1])
	if err != nil {
		return fmt.Errorf("compare failed: %w", err)
	}

	targets := pipeline.Targets{JSON: outJSON, Markdown: outMD, HTML: outHTML}
	if err := p.RenderReport(cmd.OutOrStdout(), report, targets); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if strict && (len(report.Result.Missing) > 0 || len(report.Result.Extra) > 0) {
		return fmt.Errorf("%w: %d missing, %d extra", ErrDifferences, len(report.Result.Missing), len(report.Result.Extra))
	}

	return nil
}

// newPipeline builds a pipeline wired to the command's stdin and the configured logger
func newPipeline(cmd *cobra.Command, cfg *model.Config) (*pipeline.Pipeline, error) {
	p, err := pipeline.NewPipeline(cfg,
		pipeline.WithStdin(cmd.InOrStdin()),
		pipeline.WithLogger(*logging.Default()),
	)
	if err != nil {
		return nil, fmt.Errorf("configure: %w", err)
	}
	return p, nil
}
