package tabular

import (
	"strings"

	"netops-cockpit/internal/model"
)

// Predicate is one field-level filter condition. An empty Value means the
// predicate is inactive. Exact predicates compare the resolved field value
// verbatim (dropdown-style fields such as status or location); otherwise the
// match is a case-insensitive substring test.
type Predicate struct {
	Value string
	Exact bool
}

// Predicates maps field name to its active condition.
type Predicates map[string]Predicate

// MultiSelect restricts one field to an explicit set of checked values.
// A field value missing from Include is kept: an unrecognized category is
// visible by default rather than silently hidden.
type MultiSelect struct {
	Field   string
	Include map[string]bool
}

// Filter applies all active predicates as a logical AND, preserving input
// order. It is total: missing fields resolve to "" and simply fail exact
// and substring matches against non-empty predicate values.
func Filter(records []model.Record, preds Predicates, sel MultiSelect) []model.Record {
	out := make([]model.Record, 0, len(records))
	for _, rec := range records {
		if matches(rec, preds, sel) {
			out = append(out, rec)
		}
	}
	return out
}

func matches(rec model.Record, preds Predicates, sel MultiSelect) bool {
	for field, pred := range preds {
		if pred.Value == "" {
			continue
		}
		resolved := rec.Resolve(field)
		if pred.Exact {
			if resolved != pred.Value {
				return false
			}
			continue
		}
		if !strings.Contains(strings.ToLower(resolved), strings.ToLower(pred.Value)) {
			return false
		}
	}

	if sel.Field != "" && sel.Include != nil {
		value := rec.Resolve(sel.Field)
		if included, known := sel.Include[value]; known && !included {
			return false
		}
	}

	return true
}
