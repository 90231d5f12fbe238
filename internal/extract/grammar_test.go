package extract

import (
	"regexp"
	"testing"
)

func TestParseLine_Delimited(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"Acme#a@b.com#pw", "Acme"},
		{"  Acme Store  #a@b.com#pw", "Acme Store"},
		{"Acme#x#", "Acme"},
		{"Acme#x#y#z", "Acme"},
		{"A#x#y", "A"},
	}

	for _, tt := range tests {
		if got := ParseLine(tt.line); got != tt.want {
			t.Errorf("ParseLine(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestParseLine_Tabular(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"3 Acme a@b.com tok more stuff", "Acme"},
		{"1 Acme a@b.com tok ok", "Acme"},
		{"12\tBeta\tc1@d2.org\ttoken\tactive", "Beta"},
		{"1 Acme a@my_shop.com tok ok", "Acme"},
	}

	for _, tt := range tests {
		if got := ParseLine(tt.line); got != tt.want {
			t.Errorf("ParseLine(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestParseLine_Invalid(t *testing.T) {
	lines := []string{
		"not a recognized line",
		"Acme#only-one-hash",
		"##",
		"   #x#y",
		"3 Acme not-an-email tok more",
		"3 Acme a@b.com tok",
		"3 Acme a_b@shop.com tok ok",
		"",
	}

	for _, line := range lines {
		if got := ParseLine(line); got != "" {
			t.Errorf("ParseLine(%q) = %q, want empty", line, got)
		}
	}
}

func TestParser_DelimitedWinsOverTabular(t *testing.T) {
	p := NewParser()

	// Matches both shapes; the delimited grammar is tried first
	line := "1 Acme a@b.com tok ok#x#y"
	id, grammar, ok := p.Parse(line)
	if !ok {
		t.Fatalf("Expected line to parse")
	}
	if grammar != GrammarDelimited {
		t.Errorf("Expected grammar %q, got %q", GrammarDelimited, grammar)
	}
	if id != "1 Acme a@b.com tok ok" {
		t.Errorf("Unexpected identifier %q", id)
	}
}

func TestParser_ReportsGrammar(t *testing.T) {
	p := NewParser()

	_, grammar, ok := p.Parse("3 Acme a@b.com tok more stuff")
	if !ok || grammar != GrammarTabular {
		t.Errorf("Expected tabular match, got %q (ok=%v)", grammar, ok)
	}

	_, grammar, ok = p.Parse("nothing here")
	if ok || grammar != "" {
		t.Errorf("Expected no match, got %q (ok=%v)", grammar, ok)
	}
}

func TestParser_CustomGrammarAppended(t *testing.T) {
	pipe := NewRegexGrammar("pipe", regexp.MustCompile(`^([^|]+)\|`))
	p := NewParser(append(DefaultGrammars(), pipe)...)

	id, grammar, ok := p.Parse("Gamma | gamma@x.io")
	if !ok || id != "Gamma" || grammar != "pipe" {
		t.Errorf("Expected pipe grammar to yield Gamma, got %q/%q (ok=%v)", id, grammar, ok)
	}

	// Built-ins still take precedence
	id, grammar, _ = p.Parse("Acme#a|b#c")
	if id != "Acme" || grammar != GrammarDelimited {
		t.Errorf("Expected delimited match, got %q/%q", id, grammar)
	}

	if n := len(p.Grammars()); n != 3 {
		t.Errorf("Expected 3 grammars, got %d", n)
	}
}

func TestParser_EmptyCaptureFallsThrough(t *testing.T) {
	blank := NewRegexGrammar("blank", regexp.MustCompile(`^(\s*)!`))
	p := NewParser(blank, DelimitedGrammar())

	id, grammar, ok := p.Parse("  !Acme#x#y")
	if !ok {
		t.Fatalf("Expected delimited grammar to match after empty capture")
	}
	if grammar != GrammarDelimited || id != "!Acme" {
		t.Errorf("Unexpected result %q/%q", id, grammar)
	}
}
