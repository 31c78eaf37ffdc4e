// Package analyzer runs the full lunch analysis pipeline: fetch, classify,
// deduplicate, score, rank.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"sort"
	"time"

	"github.com/lauraqiu/clio-lunch-analyzer/internal/classify"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/dedupe"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/domain"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/extract"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/lexicon"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/metrics"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/score"
)

const (
	excerptLen          = 150
	defaultReplyTimeout = 10 * time.Second
)

// Analyzer wires the pipeline stages around a message source. Stages are
// pure; the only blocking calls are the source fetches.
type Analyzer struct {
	source       domain.MessageSource
	classifier   *classify.Classifier
	extractor    *extract.Extractor
	deduper      *dedupe.Deduper
	scorer       *score.Scorer
	loc          *time.Location
	replyTimeout time.Duration
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithReplyTimeout overrides the per-thread fetch timeout.
func WithReplyTimeout(d time.Duration) Option {
	return func(a *Analyzer) { a.replyTimeout = d }
}

func New(source domain.MessageSource, lex lexicon.Set, loc *time.Location, opts ...Option) *Analyzer {
	a := &Analyzer{
		source:       source,
		classifier:   classify.New(lex.Classifier, loc),
		extractor:    extract.New(lex),
		deduper:      dedupe.New(lex),
		scorer:       score.New(lex),
		loc:          loc,
		replyTimeout: defaultReplyTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze fetches channel history back to since and produces ranked lunch
// records, highest sentiment first. An empty channel yields an empty slice
// and no error; callers render that as a "no data" state.
func (a *Analyzer) Analyze(ctx context.Context, since time.Time) ([]domain.LunchRecord, error) {
	started := time.Now()

	messages, err := a.source.FetchMessages(ctx, since)
	if err != nil {
		metrics.AnalysisRuns.WithLabelValues("error").Inc()
		if errors.Is(err, domain.ErrSourceAuth) {
			return nil, err
		}
		return nil, fmt.Errorf("fetching channel history: %w", err)
	}
	slog.Info("channel history fetched", "messages", len(messages), "since", since.Format("2006-01-02"))

	selected := a.deduper.Select(a.classifyAll(messages))
	records := make([]domain.LunchRecord, 0, len(selected))
	for _, c := range selected {
		records = append(records, a.buildRecord(ctx, c))
	}

	// Stable sort keeps the date-iteration order between equal ratings, so
	// ranks stay deterministic for tied days.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].SentimentRating > records[j].SentimentRating
	})
	for i := range records {
		records[i].Rank = i + 1
	}

	metrics.AnalysisRuns.WithLabelValues("ok").Inc()
	metrics.AnalysisDuration.Observe(time.Since(started).Seconds())
	metrics.LunchDays.Set(float64(len(records)))
	slog.Info("analysis complete", "lunches", len(records), "duration", time.Since(started))
	return records, nil
}

// classifyAll turns the raw stream into candidates, tagging each with its
// reference-timezone date and dedup priority.
func (a *Analyzer) classifyAll(messages []domain.Message) []domain.Candidate {
	candidates := make([]domain.Candidate, 0)
	for _, m := range messages {
		if !a.classifier.IsLunch(m) {
			metrics.MessagesClassified.WithLabelValues("rejected").Inc()
			continue
		}
		metrics.MessagesClassified.WithLabelValues("accepted").Inc()

		local := m.Timestamp.In(a.loc)
		candidates = append(candidates, domain.Candidate{
			Message:  m,
			When:     local,
			Date:     local.Format("2006-01-02"),
			Priority: a.deduper.Priority(m, local),
		})
	}
	return candidates
}

// buildRecord extracts, scores and assembles one lunch day. A failed thread
// fetch degrades the record to zero replies instead of failing the run.
func (a *Analyzer) buildRecord(ctx context.Context, c domain.Candidate) domain.LunchRecord {
	var replies []domain.Message
	if c.Message.HasThread() {
		fetchCtx, cancel := context.WithTimeout(ctx, a.replyTimeout)
		fetched, err := a.source.FetchReplies(fetchCtx, c.Message.ThreadID)
		cancel()
		if err != nil {
			metrics.ThreadFetchFailures.Inc()
			slog.Warn("thread fetch failed, scoring without replies", "date", c.Date, "error", err)
		} else {
			replies = fetched
		}
	}

	date := time.Date(c.When.Year(), c.When.Month(), c.When.Day(), 0, 0, 0, 0, a.loc)
	return domain.LunchRecord{
		Date:            date,
		Weekday:         date.Format("Mon"),
		Vendor:          a.extractor.Vendor(c.Message),
		Menu:            html.UnescapeString(a.extractor.Menu(c.Message)),
		SentimentRating: a.scorer.Score(c.Message, replies),
		ReplyCount:      len(replies),
		Excerpt:         excerpt(c.Message.Text),
	}
}

func excerpt(text string) string {
	clean := html.UnescapeString(text)
	runes := []rune(clean)
	if len(runes) <= excerptLen {
		return clean
	}
	return string(runes[:excerptLen])
}
