package extract

import (
	"errors"
	"reflect"
	"testing"
)

func TestExtractList_SkipsBlankLines(t *testing.T) {
	records := ExtractList("A#x#y\n\n\nB#x#y")

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Index != 0 || records[1].Index != 1 {
		t.Errorf("Expected indices 0 and 1, got %d and %d", records[0].Index, records[1].Index)
	}
	if records[0].Identifier != "A" || records[1].Identifier != "B" {
		t.Errorf("Unexpected identifiers %q, %q", records[0].Identifier, records[1].Identifier)
	}
}

func TestExtractList_WhitespaceOnlyLinesConsumeNoIndex(t *testing.T) {
	records := ExtractList("   \n\tA#x#y\n \t \nnoise\n")

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[1].Index != 1 || records[1].Valid() {
		t.Errorf("Expected invalid record at index 1, got %+v", records[1])
	}
}

func TestExtractList_Offsets(t *testing.T) {
	records := ExtractList("  Acme#x#y")

	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	r := records[0]
	if !r.Valid() {
		t.Fatalf("Expected valid record")
	}
	start, end := r.Offsets()
	if start != 2 || end != 6 {
		t.Errorf("Expected offsets 2..6, got %d..%d", start, end)
	}
	if r.Span.Len() != len("Acme") {
		t.Errorf("Span length %d does not match identifier", r.Span.Len())
	}
}

func TestExtractList_TabularOffsets(t *testing.T) {
	records := ExtractList("1 Acme a@b.com tok ok")

	start, end := records[0].Offsets()
	if start != 2 || end != 6 {
		t.Errorf("Expected offsets 2..6, got %d..%d", start, end)
	}
	if records[0].Grammar != GrammarTabular {
		t.Errorf("Expected tabular grammar, got %q", records[0].Grammar)
	}
}

func TestExtractList_RuneOffsets(t *testing.T) {
	records := ExtractList("ñ Café#x#y")

	if !records[0].Valid() {
		t.Fatalf("Expected valid record")
	}
	if records[0].Identifier != "ñ Café" {
		t.Fatalf("Unexpected identifier %q", records[0].Identifier)
	}
	start, end := records[0].Offsets()
	if start != 0 || end != 6 {
		t.Errorf("Expected rune offsets 0..6, got %d..%d", start, end)
	}
}

func TestExtractList_InvalidLineKeepsRawText(t *testing.T) {
	line := "  not a recognized line  "
	records := ExtractList(line)

	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.Valid() {
		t.Errorf("Expected invalid record")
	}
	if r.Identifier != line {
		t.Errorf("Expected raw line %q, got %q", line, r.Identifier)
	}
	if start, end := r.Offsets(); start != 0 || end != 0 {
		t.Errorf("Expected zero offsets, got %d..%d", start, end)
	}
	if r.Grammar != "" || r.Span != nil {
		t.Errorf("Invalid record should carry no grammar or span: %+v", r)
	}
}

func TestExtractList_CRLF(t *testing.T) {
	records := ExtractList("Acme#x#y\r\nnoise\r\n\r\nBeta#x#y\r")

	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[1].Identifier != "noise" {
		t.Errorf("Expected carriage return stripped, got %q", records[1].Identifier)
	}
	if records[2].Identifier != "Beta" {
		t.Errorf("Expected Beta, got %q", records[2].Identifier)
	}
}

func TestExtractList_Empty(t *testing.T) {
	for _, text := range []string{"", "\n\n", "   \r\n\t"} {
		if records := ExtractList(text); len(records) != 0 {
			t.Errorf("Expected no records for %q, got %d", text, len(records))
		}
	}
}

type shiftingGrammar struct{}

func (shiftingGrammar) Name() string { return "shifting" }

func (shiftingGrammar) Match(line string) (string, bool) {
	return "not-in-line", true
}

func TestExtractor_IdentifierNotInLineIsInvalid(t *testing.T) {
	e := NewExtractorWithParser(ModeGrammar, NewParser(shiftingGrammar{}))

	records := e.Extract("Acme#x#y")
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Valid() {
		t.Errorf("Expected invalid record when identifier is not a substring")
	}
	if records[0].Identifier != "Acme#x#y" {
		t.Errorf("Expected raw line, got %q", records[0].Identifier)
	}
}

func TestExtractor_ListMode(t *testing.T) {
	e := NewExtractor(ModeList)

	records := e.Extract(" Acme, Beta;\n\nAcme ;;")
	ids := ValidIdentifiers(records)

	want := []string{"Acme", "Beta", "Acme"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Expected %v, got %v", want, ids)
	}
	if records[0].Grammar != GrammarList {
		t.Errorf("Expected list grammar, got %q", records[0].Grammar)
	}
	if start, end := records[0].Offsets(); start != 1 || end != 5 {
		t.Errorf("Expected offsets 1..5, got %d..%d", start, end)
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList("a, b;c\r\n\n d ,,;")
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if items := SplitList(""); len(items) != 0 {
		t.Errorf("Expected no items, got %v", items)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"", ModeGrammar},
		{"grammar", ModeGrammar},
		{"LIST", ModeList},
		{" list ", ModeList},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if err != nil {
			t.Errorf("ParseMode(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := ParseMode("fuzzy"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Expected ErrUnknownMode, got %v", err)
	}
}

func TestRuneIndex(t *testing.T) {
	if i := RuneIndex("héllo world", "world"); i != 6 {
		t.Errorf("Expected 6, got %d", i)
	}
	if i := RuneIndex("abc", "z"); i != -1 {
		t.Errorf("Expected -1, got %d", i)
	}
}
