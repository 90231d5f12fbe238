package score

import (
	"fmt"
	"strings"

	"github.com/ppiankov/acctdiff/internal/model"
)

// Scorer turns a comparison result into a coverage index and diagnostic signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Summarize calculates the coverage index and generates diagnostic signals
func (s *Scorer) Summarize(result model.Result) model.Summary {
	var signals []model.Signal

	// 1. Coverage of the target list (0-100)
	index, coverageSignal := s.calculateCoverage(result)
	signals = append(signals, coverageSignal)

	// 2. Duplicates per side
	if sig, ok := s.detectDuplicates(model.SignalSourceDuplicates, "source", result.Source); ok {
		signals = append(signals, sig)
	}
	if sig, ok := s.detectDuplicates(model.SignalTargetDuplicates, "target", result.Target); ok {
		signals = append(signals, sig)
	}

	// 3. Unparsable lines
	if sig, ok := s.detectInvalid(result); ok {
		signals = append(signals, sig)
	}

	// 4. Missing and extra accounts
	if len(result.Missing) > 0 {
		signals = append(signals, model.Signal{
			Type:        model.SignalMissing,
			Severity:    model.SeverityCritical,
			Description: fmt.Sprintf("%d wished account(s) not logged in", len(result.Missing)),
			Data: map[string]interface{}{
				"count":    len(result.Missing),
				"accounts": result.Missing,
			},
		})
	}
	if len(result.Extra) > 0 {
		signals = append(signals, model.Signal{
			Type:        model.SignalExtra,
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("%d logged-in account(s) not in the wished list", len(result.Extra)),
			Data: map[string]interface{}{
				"count":    len(result.Extra),
				"accounts": result.Extra,
			},
		})
	}

	return model.Summary{
		Index:      index,
		Confidence: s.determineConfidence(index, result),
		Signals:    signals,
	}
}

// calculateCoverage computes the share of distinct target accounts found in the source
func (s *Scorer) calculateCoverage(result model.Result) (int, model.Signal) {
	distinctTarget := model.NewSet(result.Target.Identifiers...).Len()

	if distinctTarget == 0 {
		return 0, model.Signal{
			Type:        model.SignalCoverage,
			Severity:    model.SeverityCritical,
			Description: "No target accounts extracted",
			Data: map[string]interface{}{
				"target":  0,
				"matched": result.Matched.Len(),
			},
		}
	}

	ratio := float64(result.Matched.Len()) / float64(distinctTarget)
	index := int(ratio * 100)

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityCritical
	} else if ratio < 1.0 {
		severity = model.SeverityWarning
	}

	return index, model.Signal{
		Type:        model.SignalCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("Matched %d of %d wished accounts (%.0f%%)", result.Matched.Len(), distinctTarget, ratio*100),
		Data: map[string]interface{}{
			"matched":     result.Matched.Len(),
			"match_count": result.MatchCount,
			"target":      distinctTarget,
			"ratio":       ratio,
			"formula":     "distinct(matched) / distinct(target) * 100",
		},
	}
}

func (s *Scorer) detectDuplicates(typ model.SignalType, side string, data model.Side) (model.Signal, bool) {
	if len(data.Duplicates) == 0 {
		return model.Signal{}, false
	}

	return model.Signal{
		Type:        typ,
		Severity:    model.SeverityWarning,
		Description: fmt.Sprintf("%d duplicate store name(s) in %s list", len(data.Duplicates), side),
		Data: map[string]interface{}{
			"names":      len(data.Duplicates),
			"surplus":    data.Duplicates.Total(),
			"duplicates": map[string]int(data.Duplicates),
		},
	}, true
}

func (s *Scorer) detectInvalid(result model.Result) (model.Signal, bool) {
	invalid := result.Source.Invalid + result.Target.Invalid
	if invalid == 0 {
		return model.Signal{}, false
	}

	total := len(result.Source.Records) + len(result.Target.Records)
	ratio := float64(invalid) / float64(total)

	severity := model.SeverityInfo
	if ratio >= 0.5 {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalInvalidLines,
		Severity:    severity,
		Description: fmt.Sprintf("%d line(s) matched no known format", invalid),
		Data: map[string]interface{}{
			"source": result.Source.Invalid,
			"target": result.Target.Invalid,
			"lines":  total,
			"ratio":  ratio,
		},
	}, true
}

// determineConfidence rates how much the index can be trusted
func (s *Scorer) determineConfidence(index int, result model.Result) string {
	total := len(result.Source.Records) + len(result.Target.Records)
	invalid := result.Source.Invalid + result.Target.Invalid
	if total == 0 || invalid*2 >= total {
		return "low"
	}

	if len(result.Source.Duplicates) > 0 || len(result.Target.Duplicates) > 0 {
		return "medium"
	}

	if index >= 90 {
		return "high"
	} else if index >= 50 {
		return "medium"
	}
	return "low"
}

// DuplicateWarning builds the user-facing duplicate message, or "" when there are none
func DuplicateWarning(result model.Result) string {
	left := len(result.LeftDuplicates())
	right := len(result.RightDuplicates())
	if left == 0 && right == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Duplicate store names found: ")
	if left > 0 {
		fmt.Fprintf(&b, "%d in logged-in accounts", left)
	}
	if left > 0 && right > 0 {
		b.WriteString(" and ")
	}
	if right > 0 {
		fmt.Fprintf(&b, "%d in wished login accounts", right)
	}
	return b.String()
}
