package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/acctdiff/internal/model"
)

// Mode selects how text is segmented and how identifiers are derived
type Mode string

const (
	ModeGrammar Mode = "grammar" // one record per line, identifiers via grammars
	ModeList    Mode = "list"    // items split on newlines, ',' and ';', item is the identifier
)

// ErrUnknownMode is returned by ParseMode for unsupported mode names
var ErrUnknownMode = errors.New("unknown extraction mode")

// ParseMode converts a mode name into a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeGrammar, "":
		return ModeGrammar, nil
	case ModeList:
		return ModeList, nil
	default:
		return "", fmt.Errorf("%w: %q (want grammar or list)", ErrUnknownMode, s)
	}
}

var (
	lineBreaks     = regexp.MustCompile(`\r\n|\n|\r`)
	listSeparators = regexp.MustCompile(`\r\n|\n|\r|,|;`)
)

// Extractor turns a block of text into extraction records
type Extractor struct {
	parser *Parser
	mode   Mode
}

// NewExtractor creates an extractor for the given mode using the built-in grammars
func NewExtractor(mode Mode) *Extractor {
	return NewExtractorWithParser(mode, NewParser())
}

// NewExtractorWithParser creates an extractor with a custom grammar parser
func NewExtractorWithParser(mode Mode, parser *Parser) *Extractor {
	if mode == "" {
		mode = ModeGrammar
	}
	if parser == nil {
		parser = NewParser()
	}
	return &Extractor{parser: parser, mode: mode}
}

// Mode returns the extractor's mode
func (e *Extractor) Mode() Mode {
	return e.mode
}

// Segments splits text into its non-blank units (lines, or list items in list mode).
// Units are returned untrimmed; index i corresponds to record index i.
func (e *Extractor) Segments(text string) []string {
	sep := lineBreaks
	if e.mode == ModeList {
		sep = listSeparators
	}

	var segments []string
	for _, s := range sep.Split(text, -1) {
		if strings.TrimSpace(s) == "" {
			continue
		}
		segments = append(segments, s)
	}
	return segments
}

// Extract produces one record per non-blank unit of text, in order
func (e *Extractor) Extract(text string) []model.Record {
	segments := e.Segments(text)
	records := make([]model.Record, 0, len(segments))

	for i, line := range segments {
		id, grammar, ok := e.identify(line)
		if !ok {
			records = append(records, model.Record{Index: i, Identifier: line})
			continue
		}

		start := RuneIndex(line, id)
		if start < 0 {
			// identifier must come from the line itself; fall back to invalid
			records = append(records, model.Record{Index: i, Identifier: line})
			continue
		}

		records = append(records, model.Record{
			Index:      i,
			Identifier: id,
			Grammar:    grammar,
			Span:       &model.Span{Start: start, End: start + utf8.RuneCountInString(id)},
		})
	}

	return records
}

func (e *Extractor) identify(line string) (string, string, bool) {
	if e.mode == ModeList {
		id := strings.TrimSpace(line)
		return id, GrammarList, id != ""
	}
	return e.parser.Parse(line)
}

var defaultExtractor = NewExtractor(ModeGrammar)

// ExtractList extracts records from text using the built-in grammars
func ExtractList(text string) []model.Record {
	return defaultExtractor.Extract(text)
}

// SplitList splits text on newlines, ',' and ';', trims items and drops empty ones
func SplitList(text string) []string {
	var items []string
	for _, s := range listSeparators.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			items = append(items, s)
		}
	}
	return items
}

// ValidIdentifiers projects records onto their identifiers, skipping invalid ones
func ValidIdentifiers(records []model.Record) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if r.Valid() {
			ids = append(ids, r.Identifier)
		}
	}
	return ids
}

// RuneIndex returns the character offset of the first occurrence of sub in s, or -1
func RuneIndex(s, sub string) int {
	i := strings.Index(s, sub)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(s[:i])
}
