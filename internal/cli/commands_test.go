package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/acctdiff/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDupes_ListMode(t *testing.T) {
	out, _, err := executeCommand(t, "a, b, a; c\nb\n", "dupes", "-")
	require.NoError(t, err)

	assert.Contains(t, out, "Duplicate items:")
	assert.Contains(t, out, "  a: 2")
	assert.Contains(t, out, "  b: 2")
	assert.Contains(t, out, "Total duplicates: 2")
	assert.NotContains(t, out, "  c:")
}

func TestDupes_GrammarModeJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeInput(t, dir, "logged.txt", loggedIn)

	out, _, err := executeCommand(t, "", "dupes", path, "--mode", "grammar", "--format", "json")
	require.NoError(t, err)

	var report DupesReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "grammar", report.Mode)
	assert.Equal(t, 3, report.Items)
	assert.Equal(t, 2, report.Distinct)
	assert.Equal(t, model.DuplicateMap{"Acme": 2}, report.Duplicates)
	assert.Equal(t, 1, report.Total)
}

func TestDupes_NoneFound(t *testing.T) {
	out, _, err := executeCommand(t, "x\ny\n", "dupes", "-")
	require.NoError(t, err)
	assert.Equal(t, "No duplicates found in 2 items.\n", out)
}

func TestExtract_Table(t *testing.T) {
	dir := t.TempDir()
	path := writeInput(t, dir, "logged.txt", loggedIn+"\nnot an account\n")

	out, _, err := executeCommand(t, "", "extract", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "not an account")
	assert.Contains(t, out, "4 lines, 3 valid, 1 invalid, 1 duplicates")
}

func TestExtract_JSONRecords(t *testing.T) {
	out, _, err := executeCommand(t, "  Acme#x#y\n\nbogus\n", "extract", "-", "--format", "json")
	require.NoError(t, err)

	var records []model.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)

	assert.Equal(t, "Acme", records[0].Identifier)
	require.NotNil(t, records[0].Span)
	assert.Equal(t, model.Span{Start: 2, End: 6}, *records[0].Span)

	assert.Equal(t, 1, records[1].Index)
	assert.False(t, records[1].Valid())
	assert.Equal(t, "bogus", records[1].Identifier)
}

func TestExtract_TextListsNames(t *testing.T) {
	out, _, err := executeCommand(t, loggedIn, "extract", "-", "-o", "text")
	require.NoError(t, err)
	assert.Equal(t, "Acme\nAcme\nBeta\n", out)
}

func TestBatch_WritesReportsPerPair(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "north-logged.txt", loggedIn)
	writeInput(t, dir, "north-wished.txt", wished)
	manifest := writeInput(t, dir, "pairs.yaml", `pairs:
  - name: north
    source: north-logged.txt
    target: north-wished.txt
  - name: south shop
    source: north-logged.txt
    target: north-wished.txt
`)
	outDir := filepath.Join(dir, "reports")

	_, stderr, err := executeCommand(t, "", "batch", manifest, "--output-dir", outDir, "--concurrency", "2", "--html")
	require.NoError(t, err)

	assert.Contains(t, stderr, "Success:   2")
	for _, name := range []string{"north.json", "north.md", "north.html", "south-shop.json"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "north.json"))
	require.NoError(t, err)
	var report model.Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "north", report.Name)
	assert.Equal(t, []string{"Gamma"}, report.Result.Missing)
}

func TestBatch_ManifestModeAndFailures(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "a.txt", "x, y")
	writeInput(t, dir, "b.txt", "y")
	manifest := writeInput(t, dir, "pairs.yaml", `mode: list
pairs:
  - {name: ok, source: a.txt, target: b.txt}
  - {name: broken, source: missing.txt, target: b.txt}
`)
	outDir := filepath.Join(dir, "reports")

	_, stderr, err := executeCommand(t, "", "batch", manifest, "--output-dir", outDir)
	require.Error(t, err)
	assert.Contains(t, stderr, "✗ broken")

	data, err := os.ReadFile(filepath.Join(outDir, "ok.json"))
	require.NoError(t, err)
	var report model.Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "list", report.Mode)
	assert.Equal(t, []string{"x"}, report.Result.Extra)
}

func TestBatch_EmptyManifest(t *testing.T) {
	manifest := writeInput(t, t.TempDir(), "pairs.yaml", "pairs: []\n")
	_, _, err := executeCommand(t, "", "batch", manifest)
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"north", "north"},
		{"south shop", "south-shop"},
		{"a/b:c", "a_b_c"},
		{"..", "report"},
		{"", "report"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}
}
