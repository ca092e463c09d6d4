// Package pipeline runs the batch pass: retrieve messages, normalize and
// archive each one, fan out to the matching extractors, then merge the
// accumulated records into the document store in one step at the end.
//
// Execution is single-threaded and strictly sequential by design; a batch
// never observes its own partial structured output mid-run. Concurrent runs
// against one store are an operator responsibility.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/complianceworxs-lifescience/chief-of-staff/internal/classify"
	"github.com/complianceworxs-lifescience/chief-of-staff/internal/config"
	"github.com/complianceworxs-lifescience/chief-of-staff/internal/docstore"
	"github.com/complianceworxs-lifescience/chief-of-staff/internal/extract"
	"github.com/complianceworxs-lifescience/chief-of-staff/internal/logging"
	"github.com/complianceworxs-lifescience/chief-of-staff/internal/mailbox"
	"github.com/complianceworxs-lifescience/chief-of-staff/internal/merge"
	"github.com/complianceworxs-lifescience/chief-of-staff/internal/normalize"
	"github.com/complianceworxs-lifescience/chief-of-staff/internal/report"
)

// ErrRetrieval marks an upstream listing/authentication failure. Fatal to
// the run: archive entries already flushed remain, but no structured-record
// merge occurs. The remedy is to re-run the batch.
var ErrRetrieval = errors.New("message retrieval failed")

// Pipeline is one configured batch processor.
type Pipeline struct {
	source     mailbox.Source
	store      *docstore.Store
	classifier *classify.Classifier
	cfg        config.Config
	log        *zap.SugaredLogger
	now        func() time.Time
}

// RunStats summarizes one batch run.
type RunStats struct {
	Retrieved        int
	Archived         int
	DecodeDegraded   int
	Unclassified     int
	Actions          int
	Meetings         int
	Insights         int
	Decisions        int
	ScoreboardMerged bool
}

// New builds a pipeline. The logger may be nil.
func New(source mailbox.Source, store *docstore.Store, cfg config.Config, log *zap.SugaredLogger) *Pipeline {
	if log == nil {
		log = logging.Nop()
	}
	return &Pipeline{
		source:     source,
		store:      store,
		classifier: classify.New(cfg.KeywordSets()),
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

// batch accumulates extraction output across the message loop.
type batch struct {
	scoreboard map[string]any
	actions    []report.Action
	meetings   []report.Meeting
	insights   []report.Insight
	decisions  []report.Decision
}

// Run executes one full batch pass.
func (p *Pipeline) Run(ctx context.Context) (*RunStats, error) {
	msgs, err := p.source.List(ctx, p.cfg.Gmail.Query, p.cfg.Gmail.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}

	stats := &RunStats{Retrieved: len(msgs)}
	p.log.Infow("retrieved messages", "count", len(msgs))

	var acc batch
	for _, msg := range msgs {
		p.process(ctx, msg, &acc, stats)
	}

	if err := p.persist(ctx, &acc, stats); err != nil {
		return stats, err
	}
	return stats, nil
}

// process handles one message: normalize, archive, classify, extract.
// Decode degradation is non-fatal — the message is archived with an empty
// body and the run continues.
func (p *Pipeline) process(ctx context.Context, msg mailbox.Message, acc *batch, stats *RunStats) {
	now := p.now()
	body := normalize.Payload(msg.Payload)
	if body.Text == "" {
		stats.DecodeDegraded++
		p.log.Warnw("message body degraded to empty", "id", msg.ID, "subject", msg.Subject)
	}

	bodyText := body.Text
	if len(bodyText) > p.cfg.BodyTextLimit {
		bodyText = bodyText[:p.cfg.BodyTextLimit]
	}
	entry := report.ArchiveEntry{
		Headers: report.Headers{
			From:    msg.From,
			To:      msg.To,
			Subject: msg.Subject,
			Date:    msg.Date,
		},
		Snippet:  msg.Snippet,
		BodyText: bodyText,
		ID:       msg.ID,
	}
	raw, err := json.Marshal(entry)
	if err == nil {
		err = p.store.Archive(ctx, docstore.ArchiveKey(now, msg.Subject), raw)
	}
	if err != nil {
		p.log.Warnw("archiving message failed", "id", msg.ID, "error", err)
	} else {
		stats.Archived++
	}

	categories := p.classifier.Categories(msg.Subject)
	if len(categories) == 0 {
		stats.Unclassified++
		return
	}

	for _, cat := range categories {
		switch cat {
		case classify.CategoryExecutiveSummary:
			p.log.Infow("processing executive summary", "subject", msg.Subject)
			sb := extract.Scoreboard(body.Text, now)
			if acc.scoreboard == nil {
				acc.scoreboard = sb
			} else {
				// Earlier messages in the batch win, same as earlier runs do.
				acc.scoreboard = merge.DeepFill(acc.scoreboard, sb)
			}
		case classify.CategoryContentDigest:
			p.log.Infow("processing content digest", "subject", msg.Subject)
			res := extract.Digest(body.Text, now, p.cfg.DigestOpts())
			acc.actions = append(acc.actions, res.Actions...)
			acc.meetings = append(acc.meetings, res.Meetings...)
		case classify.CategoryOperational:
			p.log.Infow("processing operational report", "subject", msg.Subject)
			res := extract.Operational(body.Text, now)
			acc.insights = append(acc.insights, res.Insights...)
			acc.decisions = append(acc.decisions, res.Decisions...)
		}
	}
}

// persist merges the accumulated batch into the store, once, after the
// whole message loop. An unreadable existing document is treated as absent
// and replaced by its default — corruption never stops the run.
func (p *Pipeline) persist(ctx context.Context, acc *batch, stats *RunStats) error {
	if acc.scoreboard != nil {
		existing := p.readDoc(ctx, report.DocScoreboard)
		merged := merge.DeepFill(existing, acc.scoreboard)
		if err := p.putDoc(ctx, report.DocScoreboard, merged); err != nil {
			return err
		}
		stats.ScoreboardMerged = true
		p.log.Infow("scoreboard merged")
	}

	if len(acc.actions) > 0 {
		var existing []report.Action
		p.readCollection(ctx, report.DocActions, &existing)
		merged := merge.Actions(existing, acc.actions)
		if err := p.putDoc(ctx, report.DocActions, merged); err != nil {
			return err
		}
		stats.Actions = len(merged) - len(existing)
		p.log.Infow("actions merged", "new", stats.Actions, "dropped", len(acc.actions)-stats.Actions)
	}
	if len(acc.meetings) > 0 {
		var existing []report.Meeting
		p.readCollection(ctx, report.DocMeetings, &existing)
		if err := p.putDoc(ctx, report.DocMeetings, merge.Append(existing, acc.meetings)); err != nil {
			return err
		}
		stats.Meetings = len(acc.meetings)
	}
	if len(acc.insights) > 0 {
		var existing []report.Insight
		p.readCollection(ctx, report.DocInsights, &existing)
		if err := p.putDoc(ctx, report.DocInsights, merge.Append(existing, acc.insights)); err != nil {
			return err
		}
		stats.Insights = len(acc.insights)
	}
	if len(acc.decisions) > 0 {
		var existing []report.Decision
		p.readCollection(ctx, report.DocDecisions, &existing)
		if err := p.putDoc(ctx, report.DocDecisions, merge.Append(existing, acc.decisions)); err != nil {
			return err
		}
		stats.Decisions = len(acc.decisions)
	}
	return nil
}

// readDoc reads a singleton document as a nested map. Missing or corrupt
// documents come back nil.
func (p *Pipeline) readDoc(ctx context.Context, ns string) map[string]any {
	raw, err := p.store.Get(ctx, ns)
	if err != nil {
		p.log.Warnw("reading document failed, treating as absent", "namespace", ns, "error", err)
		return nil
	}
	if raw == nil {
		return nil
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		p.log.Warnw("corrupt document, treating as absent", "namespace", ns, "error", err)
		return nil
	}
	return doc
}

// readCollection reads a collection document into out, leaving it empty
// when the stored value is missing or corrupt.
func (p *Pipeline) readCollection(ctx context.Context, ns string, out any) {
	raw, err := p.store.Get(ctx, ns)
	if err != nil {
		p.log.Warnw("reading collection failed, treating as absent", "namespace", ns, "error", err)
		return
	}
	if raw == nil {
		return
	}
	if err := json.Unmarshal(raw, out); err != nil {
		p.log.Warnw("corrupt collection, treating as absent", "namespace", ns, "error", err)
	}
}

func (p *Pipeline) putDoc(ctx context.Context, ns string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", ns, err)
	}
	return p.store.Put(ctx, ns, raw)
}
