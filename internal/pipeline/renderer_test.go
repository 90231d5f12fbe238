package pipeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ppiankov/acctdiff/internal/model"
	"github.com/ppiankov/acctdiff/internal/reconcile"
	"github.com/ppiankov/acctdiff/internal/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func buildReport(source, target string) *model.Report {
	eng := reconcile.NewEngine()
	res := eng.Reconcile(source, target)
	return &model.Report{
		Name:        "demo",
		SourcePath:  "left.txt",
		TargetPath:  "right.txt",
		Mode:        "grammar",
		Result:      res,
		Summary:     score.NewScorer().Summarize(res),
		SourceLines: eng.Extractor().Segments(source),
		TargetLines: eng.Extractor().Segments(target),
	}
}

func TestRenderer_Summary(t *testing.T) {
	r := NewRenderer(false, true)
	report := buildReport(loggedIn, wished)

	var out bytes.Buffer
	r.RenderSummary(&out, report)
	s := out.String()

	assert.Contains(t, s, "Matched:  1 distinct (2 source lines)")
	assert.Contains(t, s, "Duplicate store names found: 1 in logged-in accounts")
	assert.Contains(t, s, `"Acme" appears 2 times`)
	assert.Contains(t, s, "Total duplicates: 1")
	assert.Contains(t, s, "Missed Accounts (1)")
	assert.Contains(t, s, "Extra Accounts (1)")
	assert.Contains(t, s, "Debug Information")
	assert.Contains(t, s, "Matched Names (2)")
}

func TestRenderer_LinesHighlightWithColor(t *testing.T) {
	r := NewRenderer(true, false)
	report := buildReport("  Acme#x#y\nBeta#x#y", "Acme#x#y")

	var out bytes.Buffer
	r.RenderLines(&out, report)

	lines := strings.Split(out.String(), "\n")
	require.Greater(t, len(lines), 2)
	assert.Contains(t, lines[1], "\x1b[")
	assert.NotContains(t, lines[2], "\x1b[", "unmatched line must not be highlighted")
}

func TestRenderer_LinesWithoutColor(t *testing.T) {
	r := NewRenderer(false, false)
	report := buildReport("  Acme#x#y", "Acme#x#y")

	var out bytes.Buffer
	r.RenderLines(&out, report)

	assert.NotContains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "    "+"  Acme#x#y")
}

func TestRenderer_Markdown(t *testing.T) {
	r := NewRenderer(false, false)
	report := buildReport("1 Acme a@b.com tok ok\nnoise_line", "Acme#x#y\nGamma#x#y")

	var out bytes.Buffer
	require.NoError(t, r.WriteMarkdown(&out, report))
	md := out.String()

	assert.Contains(t, md, "# Account Comparison: demo")
	assert.Contains(t, md, "- 1 **Acme** a@b.com tok ok")
	assert.Contains(t, md, "- **Acme**#x#y")
	assert.Contains(t, md, "- Gamma#x#y")
	assert.Contains(t, md, `noise\_line`)
	assert.Contains(t, md, "## Missed Accounts")
}

func TestRenderer_HighlightsEachLineByItsOwnRecord(t *testing.T) {
	r := NewRenderer(false, false)
	report := buildReport("Acme#x#y\nAcme Store#x#y", "Acme Store#x#y\nAcme#x#y")

	var md bytes.Buffer
	require.NoError(t, r.WriteMarkdown(&md, report))
	assert.Contains(t, md.String(), "- **Acme**#x#y")
	assert.Contains(t, md.String(), "- **Acme Store**#x#y")

	var page bytes.Buffer
	require.NoError(t, r.WriteHTML(&page, report))
	assert.Contains(t, page.String(), "<mark>Acme Store</mark>")

	// Lines beyond the records are left plain
	pre, _, _, ok := splitHighlight("Acme#x#y", 5, report.Result.Source.Records, report.Result.Matched)
	assert.False(t, ok)
	assert.Equal(t, "Acme#x#y", pre)
}

func TestRenderer_HTML(t *testing.T) {
	r := NewRenderer(false, false)
	report := buildReport("1 Acme a@b.com tok ok", "Acme#<b>#y\nGamma#x#y")

	var out bytes.Buffer
	require.NoError(t, r.WriteHTML(&out, report))
	page := out.String()

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<mark>Acme</mark>")
	assert.Contains(t, page, "&lt;b&gt;")
	assert.NotContains(t, page, "<mark>Gamma</mark>")
}

func TestRenderer_Table(t *testing.T) {
	r := NewRenderer(false, false)
	report := buildReport(loggedIn, wished)

	var out bytes.Buffer
	require.NoError(t, r.RenderTable(&out, report))
	s := out.String()

	for _, want := range []string{"SIDE", "matched", "extra", "missing", "Gamma"} {
		assert.Contains(t, strings.ToLower(s), strings.ToLower(want))
	}
}

func TestRenderer_YAML(t *testing.T) {
	r := NewRenderer(false, false)
	report := buildReport(loggedIn, wished)

	var out bytes.Buffer
	require.NoError(t, r.WriteYAML(&out, report))

	var decoded struct {
		Mode   string `yaml:"mode"`
		Result struct {
			Matched []string `yaml:"matched"`
			Missing []string `yaml:"missing"`
		} `yaml:"result"`
	}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "grammar", decoded.Mode)
	assert.Equal(t, []string{"Acme"}, decoded.Result.Matched)
	assert.Equal(t, []string{"Gamma"}, decoded.Result.Missing)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
