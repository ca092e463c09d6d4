package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/complianceworxs-lifescience/chief-of-staff/internal/report"
)

// Content-digest extraction constants.
const (
	// MaxActionTitleLen caps titles taken from "Action:" lines.
	MaxActionTitleLen = 80

	// DefaultLinkedInLiftPct is the LinkedIn engagement-rate lift at or
	// above which a double-down action fires.
	DefaultLinkedInLiftPct = 10.0

	// DefaultEmailCTRLiftPct is the email click-through lift at or above
	// which a scale-up action fires.
	DefaultEmailCTRLiftPct = 5.0

	// maxDigestSummaryBullets caps the meeting-summary bullet list.
	maxDigestSummaryBullets = 3
)

// Canned owners and ETAs for digest-derived actions.
const (
	ownerCMO            = "CMO"
	ownerContentManager = "Content Manager"
	ownerCCO            = "CCO"
)

// DigestOpts configures threshold-triggered digest actions.
type DigestOpts struct {
	LinkedInLiftPct float64
	EmailCTRLiftPct float64
}

// DefaultDigestOpts returns the built-in thresholds.
func DefaultDigestOpts() DigestOpts {
	return DigestOpts{
		LinkedInLiftPct: DefaultLinkedInLiftPct,
		EmailCTRLiftPct: DefaultEmailCTRLiftPct,
	}
}

// DigestResult holds everything one content-digest message produced.
type DigestResult struct {
	Actions  []report.Action
	Meetings []report.Meeting
}

// Digest extracts action candidates and meeting records from a
// content-digest body. Action candidates come from three independent
// sources — the top-performer line, explicit "Action:" lines, and channel
// lifts at or above their thresholds — plus the content-gap and
// regulatory-update lines. At most one digest summary meeting is emitted
// per message, capped at the first three signals in discovery order.
func Digest(text string, now time.Time, opts DigestOpts) DigestResult {
	if opts.LinkedInLiftPct <= 0 {
		opts.LinkedInLiftPct = DefaultLinkedInLiftPct
	}
	if opts.EmailCTRLiftPct <= 0 {
		opts.EmailCTRLiftPct = DefaultEmailCTRLiftPct
	}

	var res DigestResult
	var signals []string

	// Source 1: explicit top-performer line.
	if line := FindLine(text, "top piece"); line != "" {
		title := Quoted(line)
		if title == "" {
			title = strings.Trim(labelDetail(line, "top piece"), `"`)
		}
		if title != "" {
			res.Actions = append(res.Actions, report.Action{
				Title:   "Amplify: " + title,
				Owner:   ownerCMO,
				ETADays: 2,
				Reason:  "Top-performing piece in Content Digest",
			})
			signals = append(signals, "Top piece: "+title)
		}
	}

	// Source 2: one action per standalone "Action:" line.
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(strings.TrimRight(line, "\r"))
		if !strings.HasPrefix(strings.ToLower(trimmed), "action:") {
			continue
		}
		title := strings.TrimSpace(trimmed[len("action:"):])
		if title == "" {
			continue
		}
		title = truncateTitle(title, MaxActionTitleLen)
		res.Actions = append(res.Actions, report.Action{
			Title:   title,
			Owner:   ownerCMO,
			ETADays: 2,
			Reason:  "Directed action in Content Digest",
		})
		signals = append(signals, "Action: "+title)
	}

	// Source 3: channel lifts at or above threshold fire canned actions.
	if line := FindLine(text, "linkedin"); line != "" {
		if lift := Percent(line); lift >= opts.LinkedInLiftPct {
			res.Actions = append(res.Actions, report.Action{
				Title:   "Double down on LinkedIn engagement format",
				Owner:   ownerCMO,
				ETADays: 2,
				Reason:  fmt.Sprintf("LinkedIn ER lift %.1f%% at or above %.1f%% threshold", lift, opts.LinkedInLiftPct),
			})
			signals = append(signals, fmt.Sprintf("LinkedIn ER lift %.1f%%", lift))
		}
	}
	if line := FindLine(text, "email", "ctr"); line != "" {
		if lift := Percent(line); lift >= opts.EmailCTRLiftPct {
			res.Actions = append(res.Actions, report.Action{
				Title:   "Scale winning email CTR variant",
				Owner:   ownerCMO,
				ETADays: 2,
				Reason:  fmt.Sprintf("Email CTR lift %.1f%% at or above %.1f%% threshold", lift, opts.EmailCTRLiftPct),
			})
			signals = append(signals, fmt.Sprintf("Email CTR lift %.1f%%", lift))
		}
	}

	// Content gap and regulatory update lines carry their own canned
	// routing; the regulatory one also schedules an impact review.
	if gap := labelDetail(FindLine(text, "content gap"), "content gap"); gap != "" {
		res.Actions = append(res.Actions, report.Action{
			Title:   "Create content: " + gap,
			Owner:   ownerContentManager,
			ETADays: 5,
			Reason:  "Identified content gap from digest",
		})
		signals = append(signals, "Content gap: "+gap)
	}
	if reg := labelDetail(FindLine(text, "regulatory update"), "regulatory update"); reg != "" {
		res.Actions = append(res.Actions, report.Action{
			Title:   "Review regulatory change: " + reg,
			Owner:   ownerCCO,
			ETADays: 3,
			Reason:  "Regulatory update requiring review",
		})
		res.Meetings = append(res.Meetings, report.Meeting{
			Kind:      report.MeetingScheduled,
			Title:     "Regulatory Impact Review",
			Date:      now.AddDate(0, 0, 1).Format("2006-01-02"),
			Attendees: []string{ownerCCO, "CoS"},
			Agenda:    "Assess impact of: " + reg,
		})
		signals = append(signals, "Regulatory update: "+reg)
	}

	// At most one summary meeting per message, first three signals only.
	if len(signals) > 0 {
		if len(signals) > maxDigestSummaryBullets {
			signals = signals[:maxDigestSummaryBullets]
		}
		res.Meetings = append(res.Meetings, report.Meeting{
			Kind:    report.MeetingSummary,
			Title:   "Content Digest Review",
			Date:    now.Format("2006-01-02"),
			Summary: signals,
			Actions: []string{},
		})
	}

	return res
}

// labelDetail returns the text after a label on its line. Labels appear in
// the wild with and without a separator ("Content Gap: x",
// "Content Gap — x", "Content Gap x"), so the colon is optional.
func labelDetail(line, label string) string {
	return strings.TrimSpace(strings.TrimLeft(After(line, label), ":-–— \t"))
}

// truncateTitle caps a title at max characters on a rune boundary, never
// splitting a multi-byte rune.
func truncateTitle(title string, max int) string {
	r := []rune(title)
	if len(r) <= max {
		return title
	}
	return string(r[:max])
}
