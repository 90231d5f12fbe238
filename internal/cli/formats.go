package cli

import (
	"fmt"

	"github.com/ppiankov/acctdiff/internal/extract"
	"github.com/spf13/cobra"
)

// formatsCmd represents the formats command
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "Describe the accepted line formats",
	Long:  `Print the line formats acctdiff understands, in the order they are tried.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "═══════════════════════════════════════════════════════════")
		fmt.Fprintln(out, "  Accepted Line Formats")
		fmt.Fprintln(out, "═══════════════════════════════════════════════════════════")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  Mode %q (default). Formats are tried in order, first match wins.\n", extract.ModeGrammar)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  1. %s\n", extract.GrammarDelimited)
		fmt.Fprintln(out, "     Store name, then '#', then any text, then '#'.")
		fmt.Fprintln(out, "     Example:  Acme Store#owner@example.com#2024-01-01")
		fmt.Fprintln(out, "     Name:     Acme Store")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  2. %s\n", extract.GrammarTabular)
		fmt.Fprintln(out, "     Row number, store name, e-mail address, one more column, then any text,")
		fmt.Fprintln(out, "     separated by single whitespace characters.")
		fmt.Fprintln(out, "     Example:  12 acme-store owner@example.com active since 2021")
		fmt.Fprintln(out, "     Name:     acme-store")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Lines matching neither format are reported as invalid and never compared.")
		fmt.Fprintln(out, "  Blank lines are ignored.")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  Mode %q: the text is split on newlines, ',' and ';' and every trimmed\n", extract.ModeList)
		fmt.Fprintln(out, "  item is a name.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Names are compared exactly; case and inner spacing matter.")
		fmt.Fprintln(out)
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
