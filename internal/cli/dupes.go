package cli

import (
	"fmt"

	"github.com/ppiankov/acctdiff/internal/extract"
	"github.com/ppiankov/acctdiff/internal/model"
	"github.com/ppiankov/acctdiff/internal/pipeline"
	"github.com/ppiankov/acctdiff/internal/reconcile"
	"github.com/spf13/cobra"
)

// dupesCmd represents the dupes command
var dupesCmd = &cobra.Command{
	Use:   "dupes <file>",
	Short: "Find repeated items in a single list",
	Long: `Dupes reports the items that occur more than once in one list.

By default the list is split on newlines, commas and semicolons and every
item is compared verbatim. Use --mode grammar to reduce each line to a store
name first, exactly as 'compare' does.

Example:
  acctdiff dupes stores.txt
  echo "a, b, a; c" | acctdiff dupes -
  acctdiff dupes logged-in.txt --mode grammar --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runDupes,
}

// DupesReport is the machine-readable output of the dupes command
type DupesReport struct {
	Path       string             `json:"path" yaml:"path"`
	Mode       string             `json:"mode" yaml:"mode"`
	Items      int                `json:"items" yaml:"items"`
	Distinct   int                `json:"distinct" yaml:"distinct"`
	Duplicates model.DuplicateMap `json:"duplicates" yaml:"duplicates"`
	Total      int                `json:"total_duplicates" yaml:"total_duplicates"`
}

func init() {
	rootCmd.AddCommand(dupesCmd)

	dupesCmd.Flags().StringP("mode", "m", string(extract.ModeList), "line mode (list, grammar)")
	dupesCmd.Flags().StringP("format", "o", "text", "stdout format (text, json, yaml)")
}

func runDupes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{"output.format": "format"})
	if err != nil {
		return err
	}
	// The flag default differs from compare's, so it is not layered through config
	cfg.Mode, _ = cmd.Flags().GetString("mode")
	cfg.Cache.Enabled = false

	p, err := newPipeline(cmd, cfg)
	if err != nil {
		return err
	}

	records, err := p.ExtractPath(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("dupes failed: %w", err)
	}

	ids := extract.ValidIdentifiers(records)
	dupes := reconcile.FindDuplicates(ids)
	report := DupesReport{
		Path:       args[0],
		Mode:       string(p.Mode()),
		Items:      len(ids),
		Distinct:   model.NewSet(ids...).Len(),
		Duplicates: dupes,
		Total:      dupes.Total(),
	}

	format, err := pipeline.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case pipeline.FormatJSON:
		return p.Renderer().WriteJSON(out, report)
	case pipeline.FormatYAML:
		return p.Renderer().WriteYAML(out, report)
	case pipeline.FormatNone:
		return nil
	}

	if len(dupes) == 0 {
		fmt.Fprintf(out, "No duplicates found in %d items.\n", report.Items)
		return nil
	}

	fmt.Fprintln(out, "Duplicate items:")
	for _, name := range dupes.Names() {
		fmt.Fprintf(out, "  %s: %d\n", name, dupes[name])
	}
	fmt.Fprintf(out, "Total duplicates: %d\n", report.Total)

	return nil
}
