package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/complianceworxs-lifescience/chief-of-staff/internal/report"
)

// revenueRe parses the "value (target value)" idiom in a single pass, e.g.
// "Net New MRR: $500 (target $1000)". The target group is optional so a
// bare figure still yields the realized value.
var revenueRe = regexp.MustCompile(`(?i)net new mrr[:\s]+\$?\s*([\d,]+(?:\.\d+)?)(?:\s*\(\s*target[:\s]*\$?\s*([\d,]+(?:\.\d+)?)\s*\))?`)

// aggregation picks how a rule combines multiple matching lines.
type aggregation int

const (
	// aggFirst applies the primitive to the first matching line.
	aggFirst aggregation = iota

	// aggMax applies the primitive to every matching line and keeps the
	// maximum. Reports repeat severity counts across sections; taking the
	// max instead of the sum avoids double counting.
	aggMax
)

// fieldRule maps one scoreboard field path to the keyword set that locates
// its line and the primitive that pulls the value out of it. Each field is
// independent: adding a field means adding a row, not touching control flow.
type fieldRule struct {
	path     string
	keywords []string
	value    func(line string) any
	agg      aggregation
}

func asAny[T any](f func(string) T) func(string) any {
	return func(line string) any { return f(line) }
}

var scoreboardRules = []fieldRule{
	{path: "revenue.upsells", keywords: []string{"upsell"}, value: asAny(Money)},
	{path: "initiatives.on_time_pct", keywords: []string{"on-time"}, value: asAny(Percent)},
	{path: "initiatives.risk_inverted", keywords: []string{"initiative", "risk"}, value: asAny(Integer)},
	{path: "initiatives.resource_ok_pct", keywords: []string{"resource"}, value: asAny(Percent)},
	{path: "initiatives.dependency_clear_pct", keywords: []string{"dependenc"}, value: asAny(Percent)},
	{path: "alignment.work_tied_to_objectives_pct", keywords: []string{"objective"}, value: asAny(Percent)},
	{path: "autonomy.auto_resolve_pct", keywords: []string{"autonomy"}, value: asAny(Percent)},
	{path: "autonomy.mttr_min", keywords: []string{"mttr"}, value: asAny(Money)},
	{path: "risk.score", keywords: []string{"risk", "score"}, value: asAny(Integer)},
	{path: "risk.high", keywords: []string{"risk", "high"}, value: asAny(Integer), agg: aggMax},
	{path: "risk.medium", keywords: []string{"risk", "medium"}, value: asAny(Integer), agg: aggMax},
	{path: "risk.next_deadline_hours", keywords: []string{"deadline"}, value: asAny(Integer)},
	{path: "narrative.topic", keywords: []string{"topic"}, value: func(line string) any { return After(line, "topic:") }},
	{path: "narrative.linkedin_er_delta_pct", keywords: []string{"linkedin"}, value: asAny(Percent)},
	{path: "narrative.email_ctr_delta_pct", keywords: []string{"email", "ctr"}, value: asAny(Percent)},
	{path: "narrative.quiz_to_paid_delta_pct", keywords: []string{"quiz"}, value: asAny(Percent)},
	{path: "narrative.conversions", keywords: []string{"conversions"}, value: asAny(Integer)},
}

// Scoreboard maps an executive-summary body onto a scoreboard document.
// Fields with no signal in the text keep their zero defaults; the deep-fill
// merge later treats those as unfilled.
func Scoreboard(text string, now time.Time) map[string]any {
	doc := report.NewScoreboard(now.Format("2006-01-02"))

	// Primary revenue figure: one composite pass for "value (target value)".
	if m := revenueRe.FindStringSubmatch(text); m != nil {
		setPath(doc, "revenue.realized_week", Money(m[1]))
		if m[2] != "" {
			setPath(doc, "revenue.target_week", Money(m[2]))
		}
	}

	for _, rule := range scoreboardRules {
		switch rule.agg {
		case aggMax:
			if v, ok := maxInteger(text, rule.keywords); ok {
				setPath(doc, rule.path, v)
			}
		default:
			line := FindLine(text, rule.keywords...)
			if line == "" {
				continue
			}
			setPath(doc, rule.path, rule.value(line))
		}
	}
	return doc
}

// maxInteger applies Integer to every line matching all keywords and
// returns the maximum, reporting whether any line matched.
func maxInteger(text string, keywords []string) (int, bool) {
	best, found := 0, false
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		all := true
		for _, kw := range keywords {
			if !strings.Contains(lower, strings.ToLower(kw)) {
				all = false
				break
			}
		}
		if !all {
			continue
		}
		found = true
		if v := Integer(line); v > best {
			best = v
		}
	}
	return best, found
}

// setPath writes a value at a dot-separated path inside a nested document.
// Unknown paths are ignored rather than grown: the scoreboard shape is a
// compatibility contract.
func setPath(doc map[string]any, path string, value any) {
	keys := strings.Split(path, ".")
	cur := doc
	for _, key := range keys[:len(keys)-1] {
		next, ok := cur[key].(map[string]any)
		if !ok {
			return
		}
		cur = next
	}
	leaf := keys[len(keys)-1]
	if _, ok := cur[leaf]; ok {
		cur[leaf] = value
	}
}
