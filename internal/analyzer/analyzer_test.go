package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lauraqiu/clio-lunch-analyzer/internal/domain"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/lexicon"
)

type fakeSource struct {
	messages   []domain.Message
	replies    map[string][]domain.Message
	err        error
	repliesErr error
}

func (f *fakeSource) FetchMessages(_ context.Context, _ time.Time) ([]domain.Message, error) {
	return f.messages, f.err
}

func (f *fakeSource) FetchReplies(_ context.Context, threadID string) ([]domain.Message, error) {
	if f.repliesErr != nil {
		return nil, f.repliesErr
	}
	return f.replies[threadID], nil
}

func newTestAnalyzer(source domain.MessageSource) *Analyzer {
	return New(source, lexicon.Default(), time.UTC)
}

func TestAnalyze_RanksByRating(t *testing.T) {
	source := &fakeSource{
		messages: []domain.Message{
			{
				Text:      "@toronto lunch is here from Calii Love!",
				Timestamp: time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC),
				Reactions: []domain.Reaction{{Name: "heart", Count: 1}},
			},
			{
				Text:      "Lunch has arrived! @toronto We have Toben: Bowl (GF, DF) Rice (V)",
				Timestamp: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
				Reactions: []domain.Reaction{{Name: "heart_eyes", Count: 3}},
				ThreadID:  "1001",
			},
		},
		replies: map[string][]domain.Message{
			"1001": {{Text: "so good"}, {Text: "so good"}},
		},
	}

	records, err := newTestAnalyzer(source).Analyze(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 1, records[0].Rank)
	assert.Equal(t, "Toben", records[0].Vendor)
	assert.Equal(t, "Mon", records[0].Weekday)
	assert.Equal(t, "Items: Bowl (GF, DF), Rice (V)", records[0].Menu)
	assert.Equal(t, 17, records[0].SentimentRating)
	assert.Equal(t, 2, records[0].ReplyCount)

	assert.Equal(t, 2, records[1].Rank)
	assert.Equal(t, "Calii Love", records[1].Vendor)
	assert.Equal(t, 2, records[1].SentimentRating)
	assert.Equal(t, 0, records[1].ReplyCount)

	assert.GreaterOrEqual(t, records[0].SentimentRating, records[1].SentimentRating)
}

func TestAnalyze_EmptyChannel(t *testing.T) {
	records, err := newTestAnalyzer(&fakeSource{}).Analyze(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestAnalyze_NonLunchMessagesIgnored(t *testing.T) {
	source := &fakeSource{
		messages: []domain.Message{
			{Text: "standup moved to 3pm", Timestamp: time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)},
			{Text: "@toronto Monday: Makers, Tuesday: O&B", Timestamp: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)},
		},
	}
	records, err := newTestAnalyzer(source).Analyze(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAnalyze_ThreadFetchFailureDegrades(t *testing.T) {
	source := &fakeSource{
		messages: []domain.Message{{
			Text:      "Lunch has arrived! @toronto",
			Timestamp: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
			Reactions: []domain.Reaction{{Name: "heart", Count: 2}},
			ThreadID:  "1001",
		}},
		repliesErr: errors.New("slack is down"),
	}

	records, err := newTestAnalyzer(source).Analyze(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 0, records[0].ReplyCount)
	assert.Equal(t, 4, records[0].SentimentRating)
}

func TestAnalyze_AuthErrorPassesThrough(t *testing.T) {
	source := &fakeSource{err: domain.ErrSourceAuth}
	_, err := newTestAnalyzer(source).Analyze(context.Background(), time.Time{})
	assert.ErrorIs(t, err, domain.ErrSourceAuth)
}

func TestAnalyze_ExcerptTruncated(t *testing.T) {
	long := "Lunch has arrived! @toronto "
	for len(long) < 400 {
		long += "really long announcement text "
	}
	source := &fakeSource{
		messages: []domain.Message{{
			Text:      long,
			Timestamp: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
		}},
	}
	records, err := newTestAnalyzer(source).Analyze(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, []rune(records[0].Excerpt), 150)
}
