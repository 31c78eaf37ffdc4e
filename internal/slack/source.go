// Package slack adapts the Slack Web API to the domain.MessageSource
// interface used by the analysis pipeline.
package slack

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"golang.org/x/time/rate"

	"github.com/lauraqiu/clio-lunch-analyzer/internal/domain"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/metrics"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/platform/retry"
)

const (
	historyPageSize = 200
	repliesPageSize = 200

	// Web API tier 3 allows ~50 requests per minute.
	requestInterval = 1200 * time.Millisecond
)

var retryPolicy = retry.Policy{
	MaxAttempts:      3,
	InitialBackoff:   time.Second,
	RateLimitBackoff: 30 * time.Second,
	OnRetry: func(attempt int, err error, backoff time.Duration) {
		slog.Warn("slack call failed, retrying", "attempt", attempt, "backoff", backoff, "error", err)
	},
}

// Source fetches channel history and thread replies from Slack.
type Source struct {
	client  *slack.Client
	channel string
	limiter *rate.Limiter
}

// New creates a Source for the given bot token and channel ID.
func New(token, channelID string) *Source {
	return &Source{
		client:  slack.New(token),
		channel: channelID,
		limiter: rate.NewLimiter(rate.Every(requestInterval), 1),
	}
}

// FetchMessages pages through conversation history from newest to oldest and
// returns every root message posted at or after since. A page failure after
// retries degrades to the messages collected so far.
func (s *Source) FetchMessages(ctx context.Context, since time.Time) ([]domain.Message, error) {
	oldest := strconv.FormatInt(since.Unix(), 10)
	var out []domain.Message
	cursor := ""

	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return out, err
		}

		params := &slack.GetConversationHistoryParameters{
			ChannelID: s.channel,
			Limit:     historyPageSize,
			Oldest:    oldest,
			Cursor:    cursor,
		}

		resp, err := retry.Do(ctx, retryPolicy, classifySlackError, func() (*slack.GetConversationHistoryResponse, error) {
			r, callErr := s.client.GetConversationHistoryContext(ctx, params)
			observeCall("conversations.history", callErr)
			return r, callErr
		})
		if err != nil {
			var permanent *retry.PermanentError
			if errors.As(err, &permanent) && isAuthError(permanent.Err) {
				return nil, domain.ErrSourceAuth
			}
			// History pages already collected are still usable for a
			// partial analysis.
			slog.Warn("history page fetch failed, continuing with partial history",
				"messages", len(out), "error", err)
			return out, nil
		}
		metrics.SlackPagesFetched.Inc()

		for _, m := range resp.Messages {
			out = append(out, toDomain(m))
		}

		cursor = resp.ResponseMetaData.NextCursor
		if !resp.HasMore || cursor == "" {
			break
		}
	}

	return out, nil
}

// FetchReplies returns the replies of a thread, excluding the root message.
func (s *Source) FetchReplies(ctx context.Context, threadID string) ([]domain.Message, error) {
	var out []domain.Message
	cursor := ""
	first := true

	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		params := &slack.GetConversationRepliesParameters{
			ChannelID: s.channel,
			Timestamp: threadID,
			Limit:     repliesPageSize,
			Cursor:    cursor,
		}

		type repliesPage struct {
			messages []slack.Message
			hasMore  bool
			cursor   string
		}
		page, err := retry.Do(ctx, retryPolicy, classifySlackError, func() (repliesPage, error) {
			msgs, hasMore, next, callErr := s.client.GetConversationRepliesContext(ctx, params)
			observeCall("conversations.replies", callErr)
			return repliesPage{messages: msgs, hasMore: hasMore, cursor: next}, callErr
		})
		if err != nil {
			var permanent *retry.PermanentError
			if errors.As(err, &permanent) && isAuthError(permanent.Err) {
				return nil, domain.ErrSourceAuth
			}
			return nil, err
		}

		msgs := page.messages
		if first && len(msgs) > 0 {
			// The first message of the first page is the thread root.
			msgs = msgs[1:]
		}
		first = false

		for _, m := range msgs {
			out = append(out, toDomain(m))
		}

		cursor = page.cursor
		if !page.hasMore || cursor == "" {
			break
		}
	}

	return out, nil
}

// toDomain converts a Slack API message into the pipeline representation.
func toDomain(m slack.Message) domain.Message {
	reactions := make([]domain.Reaction, 0, len(m.Reactions))
	for _, r := range m.Reactions {
		reactions = append(reactions, domain.Reaction{Name: r.Name, Count: r.Count})
	}

	threadID := ""
	// Only a root with replies carries a thread worth fetching.
	if m.ThreadTimestamp == m.Timestamp && m.ReplyCount > 0 {
		threadID = m.ThreadTimestamp
	}

	return domain.Message{
		Text:      m.Text,
		Timestamp: parseTimestamp(m.Timestamp),
		Reactions: reactions,
		ThreadID:  threadID,
	}
}

// parseTimestamp converts a Slack "seconds.fraction" timestamp to time.Time.
func parseTimestamp(ts string) time.Time {
	secs, frac, _ := strings.Cut(ts, ".")
	sec, err := strconv.ParseInt(secs, 10, 64)
	if err != nil {
		return time.Time{}
	}
	var nsec int64
	if frac != "" {
		f, err := strconv.ParseInt(frac, 10, 64)
		if err == nil {
			for i := len(frac); i < 9; i++ {
				f *= 10
			}
			nsec = f
		}
	}
	return time.Unix(sec, nsec).UTC()
}

func classifySlackError(err error) retry.Action {
	var rateLimited *slack.RateLimitedError
	if errors.As(err, &rateLimited) {
		return retry.After
	}
	if isAuthError(err) {
		return retry.Stop
	}
	return retry.Retry
}

func isAuthError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, code := range []string{"invalid_auth", "not_authed", "token_revoked", "account_inactive", "missing_scope"} {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}

func observeCall(method string, err error) {
	status := "ok"
	if err != nil {
		var rateLimited *slack.RateLimitedError
		if errors.As(err, &rateLimited) {
			status = "rate_limited"
		} else {
			status = "error"
		}
	}
	metrics.SlackAPICalls.WithLabelValues(method, status).Inc()
}
