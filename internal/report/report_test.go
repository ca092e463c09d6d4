package report

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSummaryMeetingKeepsEmptyActions(t *testing.T) {
	m := Meeting{
		Kind:    MeetingSummary,
		Title:   "Content Digest Review",
		Date:    "2026-09-01",
		Summary: []string{"Top piece: A"},
		Actions: []string{},
	}

	raw, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"actions":[]`) {
		t.Errorf("summary meeting lost its actions field: %s", raw)
	}
	if !strings.Contains(string(raw), `"summary":["Top piece: A"]`) {
		t.Errorf("summary field = %s", raw)
	}
	if strings.Contains(string(raw), "attendees") || strings.Contains(string(raw), "agenda") {
		t.Errorf("summary meeting grew scheduled fields: %s", raw)
	}
}

func TestScheduledMeetingShape(t *testing.T) {
	m := Meeting{
		Kind:      MeetingScheduled,
		Title:     "Regulatory Impact Review",
		Date:      "2026-09-02",
		Attendees: []string{"CCO", "CoS"},
		Agenda:    "Assess impact of: EU annex 11 revision",
	}

	raw, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"attendees":["CCO","CoS"]`) {
		t.Errorf("attendees = %s", raw)
	}
	if strings.Contains(string(raw), "summary") || strings.Contains(string(raw), `"actions"`) {
		t.Errorf("scheduled meeting grew summary fields: %s", raw)
	}
}

func TestMeetingRoundTrip(t *testing.T) {
	in := Meeting{
		Kind:    MeetingSummary,
		Title:   "Content Digest Review",
		Date:    "2026-09-01",
		Summary: []string{"a", "b"},
		Actions: []string{},
	}

	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out Meeting
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Kind != in.Kind || out.Title != in.Title || len(out.Summary) != 2 {
		t.Errorf("round trip = %+v", out)
	}
}
