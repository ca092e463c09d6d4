package extract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/complianceworxs-lifescience/chief-of-staff/internal/report"
)

func TestDigestActionLines(t *testing.T) {
	text := "Weekly roundup\nAction: Refresh landing page\nAction: Retire old webinar funnel"
	res := Digest(text, testNow, DefaultDigestOpts())

	if len(res.Actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(res.Actions))
	}
	first := res.Actions[0]
	if first.Title != "Refresh landing page" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Owner != "CMO" {
		t.Errorf("owner = %q, want CMO", first.Owner)
	}
	if first.ETADays != 2 {
		t.Errorf("eta_days = %d, want 2", first.ETADays)
	}
}

func TestDigestActionTitleTruncated(t *testing.T) {
	long := strings.Repeat("x", 200)
	res := Digest("Action: "+long, testNow, DefaultDigestOpts())

	if len(res.Actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(res.Actions))
	}
	if len(res.Actions[0].Title) != MaxActionTitleLen {
		t.Errorf("title length = %d, want %d", len(res.Actions[0].Title), MaxActionTitleLen)
	}
}

func TestDigestActionTitleTruncatedOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 200)
	res := Digest("Action: "+long, testNow, DefaultDigestOpts())

	if len(res.Actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(res.Actions))
	}
	title := res.Actions[0].Title
	if !utf8.ValidString(title) {
		t.Errorf("truncated title is not valid UTF-8: %q", title)
	}
	if n := utf8.RuneCountInString(title); n != MaxActionTitleLen {
		t.Errorf("title runes = %d, want %d", n, MaxActionTitleLen)
	}
}

func TestDigestTopPiece(t *testing.T) {
	res := Digest(`Top Piece: "GMP Readiness Checklist"`, testNow, DefaultDigestOpts())

	if len(res.Actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(res.Actions))
	}
	if res.Actions[0].Title != "Amplify: GMP Readiness Checklist" {
		t.Errorf("title = %q", res.Actions[0].Title)
	}
	if res.Actions[0].Owner != "CMO" {
		t.Errorf("owner = %q", res.Actions[0].Owner)
	}
}

func TestDigestChannelThresholds(t *testing.T) {
	text := "LinkedIn ER lift: 12.5%\nEmail CTR lift: 6.0%"
	res := Digest(text, testNow, DefaultDigestOpts())

	if len(res.Actions) != 2 {
		t.Fatalf("expected 2 threshold actions, got %d", len(res.Actions))
	}

	// Below both thresholds: nothing fires.
	low := Digest("LinkedIn ER lift: 3%\nEmail CTR lift: 1%", testNow, DefaultDigestOpts())
	if len(low.Actions) != 0 {
		t.Errorf("expected no actions below thresholds, got %d", len(low.Actions))
	}

	// Exactly at threshold fires.
	at := Digest("LinkedIn ER lift: 10%", testNow, DefaultDigestOpts())
	if len(at.Actions) != 1 {
		t.Errorf("expected action at exact threshold, got %d", len(at.Actions))
	}
}

func TestDigestRegulatoryUpdateSchedulesMeeting(t *testing.T) {
	res := Digest("Regulatory Update: EU annex 11 revision", testNow, DefaultDigestOpts())

	if len(res.Actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(res.Actions))
	}
	if res.Actions[0].Owner != "CCO" || res.Actions[0].ETADays != 3 {
		t.Errorf("action = %+v", res.Actions[0])
	}

	var scheduled *report.Meeting
	for i := range res.Meetings {
		if res.Meetings[i].Kind == report.MeetingScheduled {
			scheduled = &res.Meetings[i]
		}
	}
	if scheduled == nil {
		t.Fatal("expected a scheduled meeting")
	}
	if scheduled.Date != "2026-09-02" {
		t.Errorf("meeting date = %q, want next day", scheduled.Date)
	}
	if len(scheduled.Attendees) != 2 {
		t.Errorf("attendees = %v", scheduled.Attendees)
	}
}

func TestDigestLabelsWithoutColon(t *testing.T) {
	text := "Content Gap — validation templates\nRegulatory Update - EU annex 11 revision"
	res := Digest(text, testNow, DefaultDigestOpts())

	if len(res.Actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(res.Actions))
	}
	if res.Actions[0].Title != "Create content: validation templates" {
		t.Errorf("gap title = %q", res.Actions[0].Title)
	}
	if res.Actions[1].Title != "Review regulatory change: EU annex 11 revision" {
		t.Errorf("regulatory title = %q", res.Actions[1].Title)
	}
}

func TestDigestContentGapWithColon(t *testing.T) {
	res := Digest("Content Gap: audit readiness guide", testNow, DefaultDigestOpts())

	if len(res.Actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(res.Actions))
	}
	if res.Actions[0].Title != "Create content: audit readiness guide" {
		t.Errorf("title = %q", res.Actions[0].Title)
	}
	if res.Actions[0].Owner != "Content Manager" || res.Actions[0].ETADays != 5 {
		t.Errorf("action = %+v", res.Actions[0])
	}
}

func TestDigestSummaryMeetingCappedAtThree(t *testing.T) {
	text := `Top Piece: "A"
Action: one
Action: two
Action: three
Content Gap: validation templates`
	res := Digest(text, testNow, DefaultDigestOpts())

	var summary *report.Meeting
	for i := range res.Meetings {
		if res.Meetings[i].Kind == report.MeetingSummary {
			summary = &res.Meetings[i]
		}
	}
	if summary == nil {
		t.Fatal("expected a summary meeting")
	}
	if len(summary.Summary) != 3 {
		t.Fatalf("summary bullets = %d, want 3", len(summary.Summary))
	}
	// Discovery order: top piece first, then the first two action lines.
	if summary.Summary[0] != "Top piece: A" {
		t.Errorf("first bullet = %q", summary.Summary[0])
	}
	if summary.Summary[1] != "Action: one" {
		t.Errorf("second bullet = %q", summary.Summary[1])
	}
}

func TestDigestEmptyText(t *testing.T) {
	res := Digest("", testNow, DefaultDigestOpts())
	if len(res.Actions) != 0 || len(res.Meetings) != 0 {
		t.Errorf("expected nothing from empty text, got %+v", res)
	}
}
