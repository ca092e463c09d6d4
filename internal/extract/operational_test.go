package extract

import "testing"

func TestOperationalBottleneck(t *testing.T) {
	res := Operational("Status green\nBottleneck: CRO approval queue backed up", testNow)

	if len(res.Insights) != 1 || len(res.Decisions) != 1 {
		t.Fatalf("expected exactly one insight and one decision, got %d/%d",
			len(res.Insights), len(res.Decisions))
	}

	in := res.Insights[0]
	if in.Type != "operational_risk" {
		t.Errorf("type = %q", in.Type)
	}
	if in.Insight != "Process bottleneck identified: CRO approval queue backed up" {
		t.Errorf("insight = %q", in.Insight)
	}
	if in.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", in.Confidence)
	}
	if in.Source != "operational_email" {
		t.Errorf("source = %q", in.Source)
	}
	if in.Timestamp == "" {
		t.Error("timestamp empty")
	}

	d := res.Decisions[0]
	if d.Decision != "Resolve bottleneck: CRO approval queue backed up" {
		t.Errorf("decision = %q", d.Decision)
	}
	if d.Owner != "COO" {
		t.Errorf("owner = %q", d.Owner)
	}
	if d.Impact != "high" {
		t.Errorf("impact = %q", d.Impact)
	}
	if d.Due != "2026-09-04" {
		t.Errorf("due = %q, want +3 days", d.Due)
	}
}

func TestOperationalNoBottleneckEmitsNothing(t *testing.T) {
	res := Operational("All systems nominal\nQueue Backlog: 2 items", testNow)

	// No zero-valued placeholders: both collections stay empty.
	if len(res.Insights) != 0 {
		t.Errorf("insights = %d, want 0", len(res.Insights))
	}
	if len(res.Decisions) != 0 {
		t.Errorf("decisions = %d, want 0", len(res.Decisions))
	}
}

func TestOperationalOnlyFirstBottleneckLine(t *testing.T) {
	res := Operational("Bottleneck: first\nBottleneck: second", testNow)

	if len(res.Insights) != 1 {
		t.Fatalf("insights = %d, want 1", len(res.Insights))
	}
	if res.Insights[0].Insight != "Process bottleneck identified: first" {
		t.Errorf("insight = %q", res.Insights[0].Insight)
	}
}
