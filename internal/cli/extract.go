package cli

import (
	"fmt"

	"github.com/ppiankov/acctdiff/internal/extract"
	"github.com/ppiankov/acctdiff/internal/pipeline"
	"github.com/ppiankov/acctdiff/internal/reconcile"
	"github.com/spf13/cobra"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Show the store name extracted from every line",
	Long: `Extract prints one row per non-blank line: its index, the store name
that was extracted, the line format that matched and whether the name is
repeated. Lines that match no format are shown as invalid.

Use it to check why a line did not take part in a comparison.

Example:
  acctdiff extract logged-in.txt
  acctdiff extract logged-in.txt --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("mode", "m", "grammar", "line mode (grammar, list)")
	extractCmd.Flags().StringP("format", "o", "table", "stdout format (table, text, json, yaml)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{"mode": "mode"})
	if err != nil {
		return err
	}
	cfg.Cache.Enabled = false

	p, err := newPipeline(cmd, cfg)
	if err != nil {
		return err
	}

	records, err := p.ExtractPath(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	// Shares output.format with compare, whose default differs
	formatName, _ := cmd.Flags().GetString("format")
	format, err := pipeline.ParseFormat(formatName)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	names := extract.ValidIdentifiers(records)
	dupes := reconcile.FindDuplicates(names)

	switch format {
	case pipeline.FormatJSON:
		return p.Renderer().WriteJSON(out, records)
	case pipeline.FormatYAML:
		return p.Renderer().WriteYAML(out, records)
	case pipeline.FormatNone:
		return nil
	case pipeline.FormatText:
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
		return nil
	default:
		if err := p.Renderer().RenderRecords(out, records, dupes); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		fmt.Fprintf(out, "%d lines, %d valid, %d invalid, %d duplicates\n",
			len(records), len(names), len(records)-len(names), dupes.Total())
		return nil
	}
}
