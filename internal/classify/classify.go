// Package classify routes messages to extractors by subject line.
//
// Each category owns a keyword set; a category applies when the lowercased
// subject contains ANY of its phrases. Categories are not mutually
// exclusive — one message can fan out to several extractors — and a subject
// matching nothing is archived but produces no structured record.
package classify

import "strings"

// Category tags a message for one extractor.
type Category string

const (
	CategoryExecutiveSummary Category = "executive_summary"
	CategoryContentDigest    Category = "content_digest"
	CategoryOperational      Category = "operational"
)

// categoryOrder fixes the fan-out order so runs are deterministic.
var categoryOrder = []Category{
	CategoryExecutiveSummary,
	CategoryContentDigest,
	CategoryOperational,
}

// DefaultKeywordSets returns the built-in subject keyword sets. These are a
// starting point; deployments override them in config.
func DefaultKeywordSets() map[Category][]string {
	return map[Category][]string{
		CategoryExecutiveSummary: {"ceo oversight", "ceo summary", "executive summary"},
		CategoryContentDigest:    {"content digest", "content report", "marketing summary"},
		CategoryOperational:      {"operations", "workflow", "process", "bottleneck"},
	}
}

// Classifier matches subjects against per-category keyword sets.
type Classifier struct {
	sets map[Category][]string
}

// New builds a Classifier from keyword sets. Nil or empty sets fall back to
// the defaults; keywords are matched case-insensitively.
func New(sets map[Category][]string) *Classifier {
	if len(sets) == 0 {
		sets = DefaultKeywordSets()
	}
	lowered := make(map[Category][]string, len(sets))
	for cat, words := range sets {
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				lowered[cat] = append(lowered[cat], w)
			}
		}
	}
	return &Classifier{sets: lowered}
}

// Categories returns every category whose keyword set matches the subject,
// in fixed category order. Zero matches is a valid outcome.
func (c *Classifier) Categories(subject string) []Category {
	subj := strings.ToLower(subject)
	var matched []Category
	for _, cat := range categoryOrder {
		for _, kw := range c.sets[cat] {
			if strings.Contains(subj, kw) {
				matched = append(matched, cat)
				break
			}
		}
	}
	return matched
}
