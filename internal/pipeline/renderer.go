package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/ppiankov/acctdiff/internal/model"
	"github.com/ppiankov/acctdiff/internal/reconcile"
	"github.com/ppiankov/acctdiff/internal/score"
	"gopkg.in/yaml.v3"
)

const rule = "═══════════════════════════════════════════════════════════"

// Side labels shown to the user
const (
	SourceLabel = "Currently Logged-in Accounts"
	TargetLabel = "Wished Login Accounts"
)

// Renderer writes reports in the supported output formats
type Renderer struct {
	debug bool
	mark  *color.Color
}

// NewRenderer creates a renderer; useColor enables terminal highlighting of matched names
func NewRenderer(useColor bool, debug bool) *Renderer {
	mark := color.New(color.BgRed, color.FgWhite)
	if useColor {
		mark.EnableColor()
	} else {
		mark.DisableColor()
	}
	return &Renderer{debug: debug, mark: mark}
}

// RenderSummary writes the human-readable comparison summary
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	res := report.Result

	fmt.Fprintln(w, rule)
	if report.Name != "" {
		fmt.Fprintf(w, "  Account Comparison: %s\n", report.Name)
	} else {
		fmt.Fprintln(w, "  Account Comparison")
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Source:   %s (%s)\n", report.SourcePath, sideStats(res.Source))
	fmt.Fprintf(w, "  Target:   %s (%s)\n", report.TargetPath, sideStats(res.Target))
	fmt.Fprintf(w, "  Mode:     %s\n", report.Mode)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Matched:  %d distinct (%d source lines)\n", res.Matched.Len(), res.MatchCount)
	fmt.Fprintf(w, "  Coverage: %d/100 (confidence: %s)\n", report.Summary.Index, report.Summary.Confidence)

	if warning := score.DuplicateWarning(res); warning != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  ⚠ %s\n", warning)
		writeDuplicates(w, "In Logged-in Accounts:", res.LeftDuplicates())
		writeDuplicates(w, "In Wished Login Accounts:", res.RightDuplicates())
		fmt.Fprintf(w, "    Total duplicates: %d\n", res.LeftDuplicates().Total()+res.RightDuplicates().Total())
	}

	writeNames(w, "Missed Accounts", res.Missing)
	writeNames(w, "Extra Accounts", res.Extra)

	if len(report.Summary.Signals) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Signals:")
		for _, sig := range report.Summary.Signals {
			fmt.Fprintf(w, "    [%s] %s\n", sig.Severity, sig.Description)
		}
	}

	if r.debug {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Debug Information:")
		writeNames(w, "Left Names", res.Source.Identifiers)
		writeNames(w, "Right Names", res.Target.Identifiers)
		writeNames(w, "Matched Names", res.MatchedNames())
	}

	fmt.Fprintln(w)
}

// RenderLines writes both lists with matched names highlighted
func (r *Renderer) RenderLines(w io.Writer, report *model.Report) {
	r.renderSide(w, SourceLabel, report.SourceLines, report.Result.Source.Records, report.Result.Matched)
	r.renderSide(w, TargetLabel, report.TargetLines, report.Result.Target.Records, report.Result.Matched)
}

func (r *Renderer) renderSide(w io.Writer, label string, lines []string, records []model.Record, matched model.Set) {
	fmt.Fprintf(w, "  %s:\n", label)
	for i, line := range lines {
		pre, mid, post, ok := splitHighlight(line, i, records, matched)
		if !ok {
			fmt.Fprintf(w, "    %s\n", line)
			continue
		}
		fmt.Fprintf(w, "    %s%s%s\n", pre, r.mark.Sprint(mid), post)
	}
	fmt.Fprintln(w)
}

// RenderTable writes one row per extracted line with its reconciliation status
func (r *Renderer) RenderTable(w io.Writer, report *model.Report) error {
	rows := append(
		recordRows("source", report.Result.Source, report.Result.Matched),
		recordRows("target", report.Result.Target, report.Result.Matched)...,
	)
	return writeTable(w, []string{"Side", "Line", "Identifier", "Grammar", "Status", "Count"}, rows)
}

// RenderRecords writes the extraction records of a single list
func (r *Renderer) RenderRecords(w io.Writer, records []model.Record, dupes model.DuplicateMap) error {
	side := model.Side{Records: records, Duplicates: dupes}
	rows := recordRows("", side, nil)
	for i := range rows {
		rows[i] = rows[i][1:]
	}
	return writeTable(w, []string{"Line", "Identifier", "Grammar", "Status", "Count"}, rows)
}

// WriteJSON writes v as indented JSON
func (r *Renderer) WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes v as YAML, keeping the JSON field names and order
func (r *Renderer) WriteYAML(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("convert to yaml: %w", err)
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

// RenderJSON writes the report as JSON to path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return writeFileWith(path, func(w io.Writer) error {
		return r.WriteJSON(w, report)
	})
}

// RenderMarkdown writes the report as Markdown to path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFileWith(path, func(w io.Writer) error {
		return r.WriteMarkdown(w, report)
	})
}

// WriteMarkdown writes the Markdown report; matched names are set in bold
func (r *Renderer) WriteMarkdown(w io.Writer, report *model.Report) error {
	res := report.Result
	var b strings.Builder

	title := "Account Comparison"
	if report.Name != "" {
		title += ": " + report.Name
	}
	fmt.Fprintf(&b, "# %s\n\n", mdEscape(title))
	fmt.Fprintf(&b, "Compared %s against %s in %s mode.\n\n",
		mdEscape(report.SourcePath), mdEscape(report.TargetPath), report.Mode)

	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Coverage | %d/100 (%s) |\n", report.Summary.Index, report.Summary.Confidence)
	fmt.Fprintf(&b, "| Matched | %d distinct, %d lines |\n", res.Matched.Len(), res.MatchCount)
	fmt.Fprintf(&b, "| Missed accounts | %d |\n", len(res.Missing))
	fmt.Fprintf(&b, "| Extra accounts | %d |\n", len(res.Extra))
	fmt.Fprintf(&b, "| Invalid lines | %d source, %d target |\n\n", res.Source.Invalid, res.Target.Invalid)

	mdList(&b, "Missed Accounts", res.Missing)
	mdList(&b, "Extra Accounts", res.Extra)

	if warning := score.DuplicateWarning(res); warning != "" {
		b.WriteString("## Duplicate Store Names\n\n")
		fmt.Fprintf(&b, "%s.\n\n", warning)
		mdDuplicates(&b, "In Logged-in Accounts", res.LeftDuplicates())
		mdDuplicates(&b, "In Wished Login Accounts", res.RightDuplicates())
	}

	r.mdSide(&b, SourceLabel, report.SourceLines, res.Source.Records, res.Matched)
	r.mdSide(&b, TargetLabel, report.TargetLines, res.Target.Records, res.Matched)

	if r.debug {
		b.WriteString("## Debug Information\n\n")
		mdList(&b, fmt.Sprintf("Left Names (%d)", len(res.Source.Identifiers)), res.Source.Identifiers)
		mdList(&b, fmt.Sprintf("Right Names (%d)", len(res.Target.Identifiers)), res.Target.Identifiers)
		mdList(&b, fmt.Sprintf("Matched Names (%d)", res.MatchCount), res.MatchedNames())
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) mdSide(b *strings.Builder, label string, lines []string, records []model.Record, matched model.Set) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", label)
	for i, line := range lines {
		pre, mid, post, ok := splitHighlight(line, i, records, matched)
		if !ok {
			fmt.Fprintf(b, "- %s\n", mdEscape(line))
			continue
		}
		fmt.Fprintf(b, "- %s**%s**%s\n", mdEscape(pre), mdEscape(mid), mdEscape(post))
	}
	b.WriteString("\n")
}

// splitHighlight cuts line i around the highlight span of its own record, if it has one
func splitHighlight(line string, i int, records []model.Record, matched model.Set) (string, string, string, bool) {
	if i < 0 || i >= len(records) {
		return line, "", "", false
	}
	span, ok := reconcile.Locate(records[i], matched, line)
	if !ok {
		return line, "", "", false
	}
	runes := []rune(line)
	if span.Start < 0 || span.End > len(runes) || span.Start >= span.End {
		return line, "", "", false
	}
	return string(runes[:span.Start]), string(runes[span.Start:span.End]), string(runes[span.End:]), true
}

func recordRows(side string, data model.Side, matched model.Set) [][]string {
	rows := make([][]string, 0, len(data.Records))
	for _, rec := range data.Records {
		status := "valid"
		switch {
		case !rec.Valid():
			status = "invalid"
		case matched == nil:
		case matched.Has(rec.Identifier):
			status = "matched"
		case side == "source":
			status = "extra"
		default:
			status = "missing"
		}

		count := ""
		if n, ok := data.Duplicates[rec.Identifier]; ok && rec.Valid() {
			count = strconv.Itoa(n)
		}

		rows = append(rows, []string{side, strconv.Itoa(rec.Index + 1), rec.Identifier, rec.Grammar, status, count})
	}
	return rows
}

func writeTable(w io.Writer, headers []string, rows [][]string) error {
	config := tablewriter.Config{}
	align := make([]tw.Align, len(headers))
	for i, h := range headers {
		align[i] = tw.AlignLeft
		if h == "Line" || h == "Count" {
			align[i] = tw.AlignRight
		}
	}
	config.Header.Alignment = tw.CellAlignment{PerColumn: align}
	config.Row.Alignment = tw.CellAlignment{PerColumn: align}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))

	head := make([]any, len(headers))
	for i, h := range headers {
		head[i] = h
	}
	table.Header(head...)

	for _, row := range rows {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}

	return table.Render()
}

func sideStats(side model.Side) string {
	return fmt.Sprintf("%d lines, %d valid, %d invalid", len(side.Records), len(side.Identifiers), side.Invalid)
}

func writeDuplicates(w io.Writer, label string, dupes model.DuplicateMap) {
	if len(dupes) == 0 {
		return
	}
	fmt.Fprintf(w, "    %s\n", label)
	for _, name := range dupes.Names() {
		fmt.Fprintf(w, "      %q appears %d times\n", name, dupes[name])
	}
}

func writeNames(w io.Writer, label string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s (%d):\n", label, len(names))
	for _, name := range names {
		fmt.Fprintf(w, "    - %s\n", name)
	}
}

func mdList(b *strings.Builder, heading string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, name := range names {
		fmt.Fprintf(b, "- %s\n", mdEscape(name))
	}
	b.WriteString("\n")
}

func mdDuplicates(b *strings.Builder, heading string, dupes model.DuplicateMap) {
	if len(dupes) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", heading)
	for _, name := range dupes.Names() {
		fmt.Fprintf(b, "- \"%s\" appears %d times\n", mdEscape(name), dupes[name])
	}
	b.WriteString("\n")
}

var mdReplacer = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "|", `\|`)

func mdEscape(s string) string {
	return mdReplacer.Replace(s)
}

// blockStyle clears flow styles left over from the JSON source
func blockStyle(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style = 0
	}
	if n.Kind == yaml.ScalarNode && n.Style == yaml.DoubleQuotedStyle {
		n.Style = 0
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func writeFileWith(path string, write func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory for %s: %w", path, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()
	return write(f)
}
