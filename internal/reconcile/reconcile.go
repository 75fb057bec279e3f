// Package reconcile merges the per-provider, per-document field candidates
// for one person into a single authoritative value per field.
package reconcile

import (
	"sort"

	"docverify/internal/documents"
	"docverify/internal/normalize"
	"docverify/internal/textutil"
)

const defaultFuzzyThreshold = 0.85

// Fields compared by exact canonical equality. Everything else groups by
// token-overlap similarity.
var strictFields = map[documents.FieldName]struct{}{
	documents.FieldDateOfBirth:         {},
	documents.FieldPhoneNumber:         {},
	documents.FieldEmail:               {},
	documents.FieldNationalID:          {},
	documents.FieldTaxID:               {},
	documents.FieldEmployeeID:          {},
	documents.FieldExpiryDate:          {},
	documents.FieldEmploymentStartDate: {},
}

// Source is one surviving normalized candidate. Rules that compare values
// across documents read Sources rather than the merged authoritative value.
type Source struct {
	DocumentID   string
	DocumentType documents.Type
	Provider     string
	Value        string
	Confidence   float64
	IngestOrder  int
}

// Reconciled is the per-field reconciliation outcome.
type Reconciled struct {
	// Field is the authoritative normalized value for this field name.
	Field normalize.Field
	// Conflicted is set when no candidate group held a strict majority.
	// The value above is still chosen deterministically; the disagreement
	// is surfaced as evidence, never silently resolved.
	Conflicted bool
	// Sources holds every surviving normalized candidate in ingest order.
	Sources []Source
}

// Discard records a candidate that failed normalization. Discards feed
// Warn-level reporting; they never abort the pipeline.
type Discard struct {
	DocumentID string
	Field      documents.FieldName
	Provider   string
	Raw        string
	Err        error
}

// Result is the reconciled view of one person's document set. It is
// recomputed from the documents whenever the set changes, never edited.
type Result struct {
	Fields   map[documents.FieldName]Reconciled
	Discards []Discard
}

// Options configures reconciliation behavior.
type Options struct {
	// FuzzyThreshold is the minimum token-overlap ratio for two fuzzy-field
	// values to land in the same group.
	FuzzyThreshold float64
}

// Reconciler groups normalized candidates and selects authoritative values.
type Reconciler struct {
	norm      *normalize.Normalizer
	threshold float64
}

// New constructs a Reconciler around the given normalizer.
func New(norm *normalize.Normalizer, opts Options) *Reconciler {
	threshold := opts.FuzzyThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = defaultFuzzyThreshold
	}
	return &Reconciler{norm: norm, threshold: threshold}
}

type entry struct {
	field  normalize.Field
	source Source
	// order preserves overall candidate position for the final tie-break.
	order int
}

// Reconcile produces the authoritative per-field view for one person's
// documents. Only documents in a terminal extraction state contribute.
func (r *Reconciler) Reconcile(docs []documents.Document) Result {
	result := Result{Fields: make(map[documents.FieldName]Reconciled)}

	byField := make(map[documents.FieldName][]entry)
	var fieldOrder []documents.FieldName
	position := 0
	for _, doc := range docs {
		if doc.Status != documents.StatusExtracted {
			continue
		}
		for _, cand := range doc.Candidates {
			position++
			normalized, err := r.norm.Candidate(doc.ID, cand)
			if err != nil {
				result.Discards = append(result.Discards, Discard{
					DocumentID: doc.ID,
					Field:      cand.Field,
					Provider:   cand.Provider,
					Raw:        cand.RawValue,
					Err:        err,
				})
				continue
			}
			if _, seen := byField[cand.Field]; !seen {
				fieldOrder = append(fieldOrder, cand.Field)
			}
			byField[cand.Field] = append(byField[cand.Field], entry{
				field: normalized,
				source: Source{
					DocumentID:   doc.ID,
					DocumentType: doc.Type,
					Provider:     cand.Provider,
					Value:        normalized.Value,
					Confidence:   normalized.Confidence,
					IngestOrder:  doc.IngestOrder,
				},
				order: position,
			})
		}
	}

	for _, name := range fieldOrder {
		entries := byField[name]
		reconciled := r.selectAuthoritative(name, entries)
		result.Fields[name] = reconciled
	}
	return result
}

func (r *Reconciler) selectAuthoritative(name documents.FieldName, entries []entry) Reconciled {
	groups := r.group(name, entries)

	// Order groups by size, then by the quality of their best member so the
	// choice is reproducible run to run.
	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i]) != len(groups[j]) {
			return len(groups[i]) > len(groups[j])
		}
		return better(bestOf(groups[i]), bestOf(groups[j]))
	})

	winner := bestOf(groups[0])

	conflicted := false
	if len(groups) > 1 {
		survivors := 0
		for _, g := range groups {
			survivors += len(g)
		}
		// A strict majority means the largest group outnumbers all others
		// combined. Anything less is a conflict worth surfacing.
		if len(groups[0])*2 <= survivors {
			conflicted = true
		}
	}

	sources := make([]Source, 0, len(entries))
	for _, e := range entries {
		sources = append(sources, e.source)
	}

	return Reconciled{Field: winner.field, Conflicted: conflicted, Sources: sources}
}

// group partitions entries into agreement groups: exact equality for strict
// fields, token-overlap similarity against the group representative for
// fuzzy fields.
func (r *Reconciler) group(name documents.FieldName, entries []entry) [][]entry {
	_, strict := strictFields[name]

	var groups [][]entry
	for _, e := range entries {
		placed := false
		for i, g := range groups {
			rep := g[0]
			if strict {
				if rep.field.Value == e.field.Value {
					groups[i] = append(groups[i], e)
					placed = true
				}
			} else if textutil.TokenOverlap(rep.field.Value, e.field.Value) >= r.threshold {
				groups[i] = append(groups[i], e)
				placed = true
			}
			if placed {
				break
			}
		}
		if !placed {
			groups = append(groups, []entry{e})
		}
	}
	return groups
}

// bestOf picks the highest-confidence member, ties broken by earliest
// document ingestion order, then candidate position.
func bestOf(group []entry) entry {
	best := group[0]
	for _, e := range group[1:] {
		if better(e, best) {
			best = e
		}
	}
	return best
}

func better(a, b entry) bool {
	if a.field.Confidence != b.field.Confidence {
		return a.field.Confidence > b.field.Confidence
	}
	if a.source.IngestOrder != b.source.IngestOrder {
		return a.source.IngestOrder < b.source.IngestOrder
	}
	return a.order < b.order
}
