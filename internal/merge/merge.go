// Package merge combines newly extracted records with previously persisted
// ones without losing prior data or creating duplicates.
//
// Two strategies exist, chosen by record shape. Deep-fill covers singleton
// documents (the scoreboard): the first non-default value ever written to a
// field wins permanently, so re-running a batch can only fill gaps.
// Append-dedupe covers collections: new records append after existing ones,
// and actions drop when their title already exists.
package merge

import "github.com/complianceworxs-lifescience/chief-of-staff/internal/report"

// DeepFill walks existing and incoming field by field. Nested documents
// recurse; scalar leaves keep the existing value when it is already
// non-default, otherwise take the incoming one; list leaves keep existing
// when non-empty. The result is a fresh document — neither input is
// mutated. Repeated application of the same incoming document is a no-op
// after the first.
func DeepFill(existing, incoming map[string]any) map[string]any {
	if existing == nil {
		existing = map[string]any{}
	}
	out := make(map[string]any, len(existing)+len(incoming))
	for k, v := range existing {
		out[k] = v
	}
	for k, newVal := range incoming {
		oldVal, ok := out[k]
		if !ok {
			out[k] = newVal
			continue
		}
		oldMap, oldIsMap := oldVal.(map[string]any)
		newMap, newIsMap := newVal.(map[string]any)
		if oldIsMap && newIsMap {
			out[k] = DeepFill(oldMap, newMap)
			continue
		}
		if isDefault(oldVal) {
			out[k] = newVal
		}
	}
	return out
}

// isDefault reports whether a JSON-decoded value counts as "never written":
// null, empty string, numeric zero, false, or an empty list.
func isDefault(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case float64:
		return val == 0
	case int:
		return val == 0
	case bool:
		return !val
	case []any:
		return len(val) == 0
	default:
		return false
	}
}

// Actions appends incoming actions after existing ones, dropping any whose
// title exactly matches an already-present title. First occurrence wins;
// the match is case-sensitive.
func Actions(existing, incoming []report.Action) []report.Action {
	seen := make(map[string]bool, len(existing))
	out := make([]report.Action, 0, len(existing)+len(incoming))
	for _, a := range existing {
		if seen[a.Title] {
			continue
		}
		seen[a.Title] = true
		out = append(out, a)
	}
	for _, a := range incoming {
		if seen[a.Title] {
			continue
		}
		seen[a.Title] = true
		out = append(out, a)
	}
	return out
}

// Append appends incoming records after existing ones, preserving order.
// Meetings, insights and decisions have no identity key; duplicates are an
// accepted tradeoff.
func Append[T any](existing, incoming []T) []T {
	out := make([]T, 0, len(existing)+len(incoming))
	out = append(out, existing...)
	return append(out, incoming...)
}
