// Package rules evaluates cross-document consistency checks against a
// person's reconciled fields. Rules are declarative records in an ordered
// catalogue; evaluation order never affects outcomes.
package rules

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"docverify/internal/documents"
	"docverify/internal/reconcile"
	"docverify/internal/services"
)

// Status is the verdict of one rule evaluation.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	// StatusWarn marks missing input: a required document or field that is
	// absent rather than contradictory.
	StatusWarn Status = "warn"
)

// Outcome is the result of evaluating one rule, with the compared values
// attached as evidence. Never a bare verdict.
type Outcome struct {
	RuleID   string            `json:"rule_id"`
	Status   Status            `json:"status"`
	Message  string            `json:"message"`
	Evidence map[string]string `json:"evidence"`
}

// Input is the read-only view a predicate evaluates against.
type Input struct {
	PersonID  string
	Documents []documents.Document
	Fields    map[documents.FieldName]reconcile.Reconciled
	Discards  []reconcile.Discard
	// Now is the injected evaluation clock; predicates never read the wall
	// clock themselves.
	Now time.Time
}

// Predicate is a pure function from Input to an Outcome. The RuleID on the
// returned outcome is filled in by Evaluate.
type Predicate func(Input) Outcome

// Rule is one declarative verification check.
type Rule struct {
	ID            string
	Summary       string
	DocumentTypes []documents.Type
	Predicate     Predicate
}

// Catalogue is the ordered rule registry supplied at process start. It is
// read-only once built and safe for concurrent use.
type Catalogue struct {
	rules []Rule
	ids   map[string]struct{}
}

// NewCatalogue returns an empty catalogue.
func NewCatalogue() *Catalogue {
	return &Catalogue{ids: make(map[string]struct{})}
}

// Register appends a rule, validating its definition. A malformed rule is a
// startup error tagged services.ErrConfiguration; it is never silently
// skipped at runtime.
func (c *Catalogue) Register(rule Rule) error {
	id := strings.TrimSpace(rule.ID)
	if id == "" {
		return definitionError("empty rule id")
	}
	if _, dup := c.ids[id]; dup {
		return definitionError(fmt.Sprintf("duplicate rule id %q", id))
	}
	if len(rule.DocumentTypes) == 0 {
		return definitionError(fmt.Sprintf("rule %q declares no applicable document types", id))
	}
	for _, t := range rule.DocumentTypes {
		if _, ok := documents.ParseType(string(t)); !ok {
			return definitionError(fmt.Sprintf("rule %q references unknown document type %q", id, t))
		}
	}
	if rule.Predicate == nil {
		return definitionError(fmt.Sprintf("rule %q has no predicate", id))
	}
	rule.ID = id
	c.ids[id] = struct{}{}
	c.rules = append(c.rules, rule)
	return nil
}

func definitionError(message string) error {
	return services.Wrap(services.ErrConfiguration, "rules", "rule definition", message, nil)
}

// Rules returns the registered rules in registration order.
func (c *Catalogue) Rules() []Rule {
	cp := make([]Rule, len(c.rules))
	copy(cp, c.rules)
	return cp
}

// Len reports the number of registered rules.
func (c *Catalogue) Len() int {
	return len(c.rules)
}

// Evaluate runs one rule against the input. A rule whose required document
// types are not all present yields Warn, never Fail: absence of input is
// distinguished from contradiction of input.
func Evaluate(rule Rule, in Input) Outcome {
	present := documents.TypesPresent(in.Documents)
	var missing []string
	for _, t := range rule.DocumentTypes {
		if _, ok := present[t]; !ok {
			missing = append(missing, string(t))
		}
	}
	if len(missing) > 0 {
		return Outcome{
			RuleID:   rule.ID,
			Status:   StatusWarn,
			Message:  "required document missing: " + strings.Join(missing, ", "),
			Evidence: map[string]string{"missing_documents": strings.Join(missing, ", ")},
		}
	}

	outcome := rule.Predicate(in)
	outcome.RuleID = rule.ID
	if outcome.Evidence == nil {
		outcome.Evidence = map[string]string{}
	}
	return outcome
}

// sourcesFor returns the surviving normalized values for a field, in ingest
// order.
func sourcesFor(in Input, name documents.FieldName) []reconcile.Source {
	rec, ok := in.Fields[name]
	if !ok {
		return nil
	}
	return rec.Sources
}

// valueFor returns the authoritative reconciled value for a field.
func valueFor(in Input, name documents.FieldName) (string, bool) {
	rec, ok := in.Fields[name]
	if !ok || rec.Field.Value == "" {
		return "", false
	}
	return rec.Field.Value, true
}

// evidence renders per-document source values keyed by document type.
// Duplicate types are disambiguated with the document ID.
func evidence(sources []reconcile.Source) map[string]string {
	out := make(map[string]string, len(sources))
	for _, src := range sources {
		key := string(src.DocumentType)
		if _, taken := out[key]; taken {
			key = fmt.Sprintf("%s(%s)", src.DocumentType, src.DocumentID)
		}
		out[key] = src.Value
	}
	return out
}

// warnMissingField builds the Warn outcome for a field with no surviving
// value, citing any recorded discards for that field.
func warnMissingField(in Input, name documents.FieldName) Outcome {
	out := Outcome{
		Status:   StatusWarn,
		Message:  fmt.Sprintf("no usable value for %s", name),
		Evidence: map[string]string{},
	}
	var reasons []string
	for _, d := range in.Discards {
		if d.Field == name && d.Err != nil {
			reasons = append(reasons, d.Err.Error())
		}
	}
	if len(reasons) > 0 {
		sort.Strings(reasons)
		out.Evidence["discarded_candidates"] = strings.Join(reasons, "; ")
	}
	return out
}

// distinctValues returns the unique source values in first-seen order.
func distinctValues(sources []reconcile.Source) []string {
	seen := make(map[string]struct{}, len(sources))
	var out []string
	for _, src := range sources {
		if _, ok := seen[src.Value]; ok {
			continue
		}
		seen[src.Value] = struct{}{}
		out = append(out, src.Value)
	}
	return out
}
