package score

import (
	"testing"

	"github.com/ppiankov/acctdiff/internal/model"
	"github.com/ppiankov/acctdiff/internal/reconcile"
)

func findSignal(summary model.Summary, typ model.SignalType) (model.Signal, bool) {
	for _, s := range summary.Signals {
		if s.Type == typ {
			return s, true
		}
	}
	return model.Signal{}, false
}

func TestScorer_Summarize_FullCoverage(t *testing.T) {
	scorer := NewScorer()

	result := reconcile.Reconcile("Acme#x#y\nBeta#x#y", "1 Acme a@b.com tok ok\n2 Beta c@d.com tok ok")
	summary := scorer.Summarize(result)

	if summary.Index != 100 {
		t.Errorf("Expected index 100, got %d", summary.Index)
	}
	if summary.Confidence != "high" {
		t.Errorf("Expected high confidence, got %s", summary.Confidence)
	}
	if len(summary.Signals) != 1 {
		t.Errorf("Expected only the coverage signal, got %d signals", len(summary.Signals))
	}
	if sig, _ := findSignal(summary, model.SignalCoverage); sig.Severity != model.SeverityInfo {
		t.Errorf("Expected info severity for full coverage, got %s", sig.Severity)
	}
}

func TestScorer_Summarize_EmptyInput(t *testing.T) {
	scorer := NewScorer()

	summary := scorer.Summarize(reconcile.Reconcile("", ""))

	if summary.Index != 0 {
		t.Errorf("Expected index 0 for empty input, got %d", summary.Index)
	}
	if summary.Confidence != "low" {
		t.Errorf("Expected low confidence, got %s", summary.Confidence)
	}
	sig, ok := findSignal(summary, model.SignalCoverage)
	if !ok || sig.Severity != model.SeverityCritical {
		t.Errorf("Expected critical coverage signal, got %+v", sig)
	}
}

func TestScorer_Summarize_Scenario(t *testing.T) {
	scorer := NewScorer()

	result := reconcile.Reconcile(
		"1 Acme a@b.com tok ok\n1 Acme a@b.com tok ok\n2 Beta c@d.com tok ok",
		"Acme#x#y\nGamma#x#y",
	)
	summary := scorer.Summarize(result)

	if summary.Index != 50 {
		t.Errorf("Expected index 50, got %d", summary.Index)
	}
	if summary.Confidence != "medium" {
		t.Errorf("Expected medium confidence with duplicates, got %s", summary.Confidence)
	}

	dup, ok := findSignal(summary, model.SignalSourceDuplicates)
	if !ok {
		t.Fatal("Expected source duplicates signal")
	}
	if dup.Data["surplus"] != 1 {
		t.Errorf("Expected surplus 1, got %v", dup.Data["surplus"])
	}
	if _, ok := findSignal(summary, model.SignalTargetDuplicates); ok {
		t.Error("Did not expect target duplicates signal")
	}

	missing, ok := findSignal(summary, model.SignalMissing)
	if !ok || missing.Severity != model.SeverityCritical {
		t.Errorf("Expected critical missing signal, got %+v", missing)
	}
	if _, ok := findSignal(summary, model.SignalExtra); !ok {
		t.Error("Expected extra accounts signal")
	}
}

func TestScorer_Summarize_InvalidLines(t *testing.T) {
	scorer := NewScorer()

	result := reconcile.Reconcile("junk\nmore junk\nAcme#x#y", "Acme#x#y\nnoise")
	summary := scorer.Summarize(result)

	sig, ok := findSignal(summary, model.SignalInvalidLines)
	if !ok {
		t.Fatal("Expected invalid lines signal")
	}
	if sig.Data["source"] != 2 || sig.Data["target"] != 1 {
		t.Errorf("Unexpected invalid counts %v", sig.Data)
	}
	if sig.Severity != model.SeverityWarning {
		t.Errorf("Expected warning when most lines are invalid, got %s", sig.Severity)
	}
	if summary.Confidence != "low" {
		t.Errorf("Expected low confidence, got %s", summary.Confidence)
	}
}

func TestDuplicateWarning(t *testing.T) {
	tests := []struct {
		name   string
		source string
		target string
		want   string
	}{
		{"none", "a#1#", "a#1#", ""},
		{"left", "a#1#\na#1#", "a#1#", "Duplicate store names found: 1 in logged-in accounts"},
		{"right", "a#1#", "a#1#\na#1#\nb#1#\nb#1#", "Duplicate store names found: 2 in wished login accounts"},
		{"both", "a#1#\na#1#", "b#1#\nb#1#", "Duplicate store names found: 1 in logged-in accounts and 1 in wished login accounts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DuplicateWarning(reconcile.Reconcile(tt.source, tt.target))
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
