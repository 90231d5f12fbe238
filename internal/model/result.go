package model

import "time"

// Side holds the extraction output for one of the two compared lists
type Side struct {
	Records     []Record     `json:"records"`              // One per non-blank line, in input order
	Identifiers []string     `json:"identifiers"`          // Valid identifiers in order, repeats kept
	Duplicates  DuplicateMap `json:"duplicates,omitempty"` // Identifiers occurring more than once
	Invalid     int          `json:"invalid"`              // Lines no grammar could parse
}

// Result is the outcome of reconciling a source list against a target list.
// It is built fresh for every comparison and never mutated afterwards.
type Result struct {
	Source Side `json:"source"` // Left list (logged-in accounts)
	Target Side `json:"target"` // Right list (wished login accounts)

	Matched    Set `json:"matched"`     // Distinct identifiers present on both sides
	MatchCount int `json:"match_count"` // Source identifiers found in target, repeats counted

	Missing []string `json:"missing"` // In target, absent from source (target order)
	Extra   []string `json:"extra"`   // In source, absent from target (source order)
}

// LeftDuplicates returns the duplicate map of the source side
func (r Result) LeftDuplicates() DuplicateMap {
	return r.Source.Duplicates
}

// RightDuplicates returns the duplicate map of the target side
func (r Result) RightDuplicates() DuplicateMap {
	return r.Target.Duplicates
}

// MatchedNames returns the source identifiers that matched, in source order with repeats
func (r Result) MatchedNames() []string {
	var names []string
	for _, id := range r.Source.Identifiers {
		if r.Matched.Has(id) {
			names = append(names, id)
		}
	}
	return names
}

// Summary is the diagnostic view of a Result shown to the user
type Summary struct {
	Index      int      `json:"index"`      // Coverage of the target list (0-100)
	Confidence string   `json:"confidence"` // "low", "medium", "high"
	Signals    []Signal `json:"signals"`    // Diagnostic signals with transparent data
}

// Signal represents a diagnostic signal with transparent data
type Signal struct {
	Type        SignalType             `json:"type"`           // Signal classification
	Severity    SignalSeverity         `json:"severity"`       // info, warning, critical
	Description string                 `json:"description"`    // Human-readable description
	Data        map[string]interface{} `json:"data,omitempty"` // Inputs behind the signal
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalCoverage         SignalType = "coverage"          // Share of target accounts found in source
	SignalSourceDuplicates SignalType = "source_duplicates" // Repeated names in the source list
	SignalTargetDuplicates SignalType = "target_duplicates" // Repeated names in the target list
	SignalInvalidLines     SignalType = "invalid_lines"     // Lines matching neither grammar
	SignalMissing          SignalType = "missing_accounts"  // Target accounts not logged in
	SignalExtra            SignalType = "extra_accounts"    // Logged-in accounts not wished for
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// Report bundles a comparison result with its diagnostics for rendering
type Report struct {
	Name        string    `json:"name,omitempty"`   // Pair name (batch mode) or empty
	SourcePath  string    `json:"source_path"`      // Where the source text came from
	TargetPath  string    `json:"target_path"`      // Where the target text came from
	Mode        string    `json:"mode"`             // Extraction mode used
	ComparedAt  time.Time `json:"compared_at"`      // When the comparison ran
	Cached      bool      `json:"cached,omitempty"` // Served from the result cache
	Result      Result    `json:"result"`
	Summary     Summary   `json:"summary"`
	SourceLines []string  `json:"-"` // Non-blank source lines, aligned with Result.Source.Records
	TargetLines []string  `json:"-"` // Non-blank target lines, aligned with Result.Target.Records
}
