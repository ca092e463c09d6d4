package extract

import (
	"time"

	"github.com/complianceworxs-lifescience/chief-of-staff/internal/report"
)

// Operational extraction constants.
const (
	bottleneckLabel = "bottleneck:"

	// opInsightConfidence is the fixed confidence for bottleneck insights;
	// the rule is a plain keyword match, not a model.
	opInsightConfidence = 0.8

	opInsightType   = "operational_risk"
	opInsightSource = "operational_email"

	// opDecisionDueDays is the fixed due-date offset for bottleneck
	// resolution decisions.
	opDecisionDueDays = 3
)

// OperationalResult holds what one operational message produced. Both
// slices are empty when the message has no bottleneck line — no
// zero-valued placeholders are ever emitted.
type OperationalResult struct {
	Insights  []report.Insight
	Decisions []report.Decision
}

// Operational looks for exactly one "Bottleneck:" labeled line. When found
// it emits exactly one insight and one matching decision; otherwise it
// emits nothing.
func Operational(text string, now time.Time) OperationalResult {
	line := FindLine(text, bottleneckLabel)
	if line == "" {
		return OperationalResult{}
	}
	detail := After(line, bottleneckLabel)
	if detail == "" {
		return OperationalResult{}
	}

	return OperationalResult{
		Insights: []report.Insight{{
			Type:       opInsightType,
			Insight:    "Process bottleneck identified: " + detail,
			Confidence: opInsightConfidence,
			Source:     opInsightSource,
			Timestamp:  now.Format(time.RFC3339),
		}},
		Decisions: []report.Decision{{
			Decision:  "Resolve bottleneck: " + detail,
			Impact:    "high",
			Owner:     "COO",
			Due:       now.AddDate(0, 0, opDecisionDueDays).Format("2006-01-02"),
			Rationale: "Critical operational efficiency issue",
		}},
	}
}
