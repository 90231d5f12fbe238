package extract

import (
	"regexp"
	"strings"
)

// Grammar recognizes one export format and pulls the account name out of a line
type Grammar interface {
	// Name returns the grammar name recorded on matching records
	Name() string

	// Match returns the trimmed identifier and whether the line matched
	Match(line string) (string, bool)
}

// Built-in grammar names
const (
	GrammarDelimited = "delimited" // name#email#password
	GrammarTabular   = "tabular"   // idx name email token ... status
	GrammarList      = "list"      // bare item in list mode
)

var (
	delimitedPattern = regexp.MustCompile(`^([^#]+)#([^#]+)#`)
	tabularPattern   = regexp.MustCompile(`\d+\s(\S+)\s[A-Za-z\d]+@[A-Za-z\d_]+\.[A-Za-z]+\s\S+\s.*`)
)

// regexGrammar matches a line against a pattern and takes the first capture group
type regexGrammar struct {
	name string
	re   *regexp.Regexp
}

// NewRegexGrammar creates a grammar whose identifier is the first capture group of re
func NewRegexGrammar(name string, re *regexp.Regexp) Grammar {
	return &regexGrammar{name: name, re: re}
}

// DelimitedGrammar matches credential-list lines like "Acme#a@b.com#secret"
func DelimitedGrammar() Grammar {
	return NewRegexGrammar(GrammarDelimited, delimitedPattern)
}

// TabularGrammar matches dashboard rows like "3 Acme a@b.com tok active"
func TabularGrammar() Grammar {
	return NewRegexGrammar(GrammarTabular, tabularPattern)
}

func (g *regexGrammar) Name() string {
	return g.name
}

func (g *regexGrammar) Match(line string) (string, bool) {
	m := g.re.FindStringSubmatch(line)
	if len(m) < 2 {
		return "", false
	}
	id := strings.TrimSpace(m[1])
	return id, id != ""
}

// DefaultGrammars returns the built-in grammars in dispatch order.
// Delimited goes first so the tabular pattern never sees '#' lines.
func DefaultGrammars() []Grammar {
	return []Grammar{DelimitedGrammar(), TabularGrammar()}
}

// Parser tries an ordered list of grammars; the first match wins
type Parser struct {
	grammars []Grammar
}

// NewParser creates a parser; with no grammars it uses DefaultGrammars
func NewParser(grammars ...Grammar) *Parser {
	if len(grammars) == 0 {
		grammars = DefaultGrammars()
	}
	return &Parser{grammars: grammars}
}

// Grammars returns the parser's grammars in dispatch order
func (p *Parser) Grammars() []Grammar {
	return append([]Grammar(nil), p.grammars...)
}

// Parse extracts the identifier from a line.
// It returns the identifier, the matching grammar name, and ok=false when no grammar matched.
func (p *Parser) Parse(line string) (string, string, bool) {
	for _, g := range p.grammars {
		if id, ok := g.Match(line); ok {
			return id, g.Name(), true
		}
	}
	return "", "", false
}

var defaultParser = NewParser()

// ParseLine returns the identifier of a line, or "" if no built-in grammar matches
func ParseLine(line string) string {
	id, _, _ := defaultParser.Parse(line)
	return id
}
