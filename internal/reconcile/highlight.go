package reconcile

import (
	"github.com/ppiankov/acctdiff/internal/extract"
	"github.com/ppiankov/acctdiff/internal/model"
)

// Locate returns the span to emphasize for a record rendered as blockText.
// The span is only returned for valid, matched records whose identifier still
// starts at the recorded offset in blockText, so stale records after an edit
// are never highlighted.
func Locate(rec model.Record, matched model.Set, blockText string) (model.Span, bool) {
	if !rec.Valid() || !matched.Has(rec.Identifier) {
		return model.Span{}, false
	}
	if extract.RuneIndex(blockText, rec.Identifier) != rec.Span.Start {
		return model.Span{}, false
	}
	return *rec.Span, true
}

// LocateBlock finds the highlight span for a rendered block without knowing
// which record produced it: the first valid record whose identifier begins at
// its recorded offset in blockText is taken as the block's record.
func LocateBlock(records []model.Record, matched model.Set, blockText string) (model.Span, bool) {
	for _, rec := range records {
		if !rec.Valid() {
			continue
		}
		if extract.RuneIndex(blockText, rec.Identifier) == rec.Span.Start {
			return Locate(rec, matched, blockText)
		}
	}
	return model.Span{}, false
}
