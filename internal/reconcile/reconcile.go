// Package reconcile compares two extracted account lists.
//
// Everything here is a pure function of its inputs: no logging, no I/O and
// no state kept between calls, so a Result can be recomputed at will and
// replaced wholesale by the caller.
package reconcile

import (
	"sync"

	"github.com/ppiankov/acctdiff/internal/extract"
	"github.com/ppiankov/acctdiff/internal/model"
)

// Engine reconciles a source list against a target list
type Engine struct {
	extractor *extract.Extractor
	parallel  bool
}

// Option configures an Engine
type Option func(*Engine)

// WithExtractor sets the extractor used for both sides
func WithExtractor(e *extract.Extractor) Option {
	return func(eng *Engine) {
		if e != nil {
			eng.extractor = e
		}
	}
}

// WithMode uses the built-in grammars in the given mode
func WithMode(mode extract.Mode) Option {
	return func(eng *Engine) {
		eng.extractor = extract.NewExtractor(mode)
	}
}

// WithParallel extracts the two sides concurrently
func WithParallel(parallel bool) Option {
	return func(eng *Engine) {
		eng.parallel = parallel
	}
}

// NewEngine creates an engine; by default it uses grammar mode and runs sequentially
func NewEngine(opts ...Option) *Engine {
	eng := &Engine{extractor: extract.NewExtractor(extract.ModeGrammar)}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// Extractor returns the extractor shared by both sides
func (e *Engine) Extractor() *extract.Extractor {
	return e.extractor
}

// Reconcile extracts both texts and computes matched, missing, extra and duplicates.
// It accepts any input, including empty strings, and never fails.
func (e *Engine) Reconcile(sourceText, targetText string) model.Result {
	var sourceRecords, targetRecords []model.Record

	if e.parallel {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			sourceRecords = e.extractor.Extract(sourceText)
		}()
		go func() {
			defer wg.Done()
			targetRecords = e.extractor.Extract(targetText)
		}()
		wg.Wait()
	} else {
		sourceRecords = e.extractor.Extract(sourceText)
		targetRecords = e.extractor.Extract(targetText)
	}

	return Compare(sourceRecords, targetRecords)
}

// Compare reconciles two already-extracted record sequences
func Compare(sourceRecords, targetRecords []model.Record) model.Result {
	source := buildSide(sourceRecords)
	target := buildSide(targetRecords)

	sourceSet := model.NewSet(source.Identifiers...)
	targetSet := model.NewSet(target.Identifiers...)

	matched := make(model.Set)
	matchCount := 0
	extra := make([]string, 0)
	for _, id := range source.Identifiers {
		if targetSet.Has(id) {
			matched[id] = struct{}{}
			matchCount++
			continue
		}
		extra = append(extra, id)
	}

	missing := make([]string, 0)
	for _, id := range target.Identifiers {
		if !sourceSet.Has(id) {
			missing = append(missing, id)
		}
	}

	return model.Result{
		Source:     source,
		Target:     target,
		Matched:    matched,
		MatchCount: matchCount,
		Missing:    missing,
		Extra:      extra,
	}
}

func buildSide(records []model.Record) model.Side {
	if records == nil {
		records = []model.Record{}
	}
	ids := extract.ValidIdentifiers(records)
	return model.Side{
		Records:     records,
		Identifiers: ids,
		Duplicates:  FindDuplicates(ids),
		Invalid:     len(records) - len(ids),
	}
}

var defaultEngine = NewEngine()

// Reconcile compares source and target text using the built-in grammars
func Reconcile(sourceText, targetText string) model.Result {
	return defaultEngine.Reconcile(sourceText, targetText)
}
