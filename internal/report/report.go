// Package report defines the structured records the pipeline produces and
// the document namespaces they persist under.
//
// Field names and JSON shapes here are a compatibility contract with the
// downstream dashboards; renaming a field is a breaking change.
package report

import "encoding/json"

// Document namespaces in the store.
const (
	DocScoreboard = "scoreboard"
	DocActions    = "actions"
	DocMeetings   = "meetings"
	DocInsights   = "insights"
	DocDecisions  = "decisions"
)

// Meeting kinds. A single tagged-union Meeting type covers both shapes the
// extractors produce; MarshalJSON emits each kind's historical JSON shape.
const (
	MeetingSummary   = "summary"
	MeetingScheduled = "scheduled"
)

// Action is a single operational action item. Title is the identity key
// within the persisted collection: no two stored actions share a title.
type Action struct {
	Title   string `json:"title"`
	Owner   string `json:"owner"`
	ETADays int    `json:"eta_days"`
	Reason  string `json:"reason"`
}

// Meeting is either a digest summary record (Summary/Actions) or a
// scheduled meeting (Attendees/Agenda), discriminated by Kind.
type Meeting struct {
	Kind      string   `json:"kind"`
	Title     string   `json:"title"`
	Date      string   `json:"date"`
	Summary   []string `json:"summary,omitempty"`
	Actions   []string `json:"actions,omitempty"`
	Attendees []string `json:"attendees,omitempty"`
	Agenda    string   `json:"agenda,omitempty"`
}

// summaryMeetingJSON and scheduledMeetingJSON are the persisted shapes of
// the two Meeting variants. The summary shape always carries "summary" and
// "actions", even when empty.
type summaryMeetingJSON struct {
	Kind    string   `json:"kind"`
	Title   string   `json:"title"`
	Date    string   `json:"date"`
	Summary []string `json:"summary"`
	Actions []string `json:"actions"`
}

type scheduledMeetingJSON struct {
	Kind      string   `json:"kind"`
	Title     string   `json:"title"`
	Date      string   `json:"date"`
	Attendees []string `json:"attendees"`
	Agenda    string   `json:"agenda"`
}

// MarshalJSON emits the variant's shape for the meeting's kind, so a
// summary record never drops its empty actions list and a scheduled record
// never grows summary fields.
func (m Meeting) MarshalJSON() ([]byte, error) {
	if m.Kind == MeetingScheduled {
		return json.Marshal(scheduledMeetingJSON{
			Kind:      m.Kind,
			Title:     m.Title,
			Date:      m.Date,
			Attendees: notNil(m.Attendees),
			Agenda:    m.Agenda,
		})
	}
	return json.Marshal(summaryMeetingJSON{
		Kind:    m.Kind,
		Title:   m.Title,
		Date:    m.Date,
		Summary: notNil(m.Summary),
		Actions: notNil(m.Actions),
	})
}

func notNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Insight is an extracted operational observation.
type Insight struct {
	Type       string  `json:"type"`
	Insight    string  `json:"insight"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
	Timestamp  string  `json:"timestamp"`
}

// Decision is an extracted operational decision with an owner and due date.
type Decision struct {
	Decision  string `json:"decision"`
	Impact    string `json:"impact"`
	Owner     string `json:"owner"`
	Due       string `json:"due"`
	Rationale string `json:"rationale"`
}

// Headers holds the message headers the archive preserves.
type Headers struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
}

// ArchiveEntry is the immutable per-message archive record. Written once,
// never updated.
type ArchiveEntry struct {
	Headers  Headers `json:"headers"`
	Snippet  string  `json:"snippet"`
	BodyText string  `json:"body_text"`
	ID       string  `json:"id"`
}

// NewScoreboard returns the default scoreboard document for a date. Every
// numeric leaf starts at zero and every string leaf empty, so a deep-fill
// merge can tell "never extracted" apart from nothing at all — at the
// record level a missing signal and a true zero are deliberately the same.
func NewScoreboard(date string) map[string]any {
	return map[string]any{
		"date": date,
		"revenue": map[string]any{
			"realized_week": 0.0,
			"target_week":   0.0,
			"upsells":       0.0,
		},
		"initiatives": map[string]any{
			"on_time_pct":          0.0,
			"risk_inverted":        0,
			"resource_ok_pct":      0.0,
			"dependency_clear_pct": 0.0,
		},
		"alignment": map[string]any{
			"work_tied_to_objectives_pct": 0.0,
		},
		"autonomy": map[string]any{
			"auto_resolve_pct": 0.0,
			"mttr_min":         0.0,
		},
		"risk": map[string]any{
			"score":               0,
			"high":                0,
			"medium":              0,
			"next_deadline_hours": 0,
		},
		"narrative": map[string]any{
			"topic":                  "",
			"linkedin_er_delta_pct":  0.0,
			"email_ctr_delta_pct":    0.0,
			"quiz_to_paid_delta_pct": 0.0,
			"conversions":            0,
		},
	}
}
