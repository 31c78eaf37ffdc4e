package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lauraqiu/clio-lunch-analyzer/internal/domain"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/lexicon"
)

func newTestScorer() *Scorer {
	return New(lexicon.Default())
}

func TestScore_RootReactionTiers(t *testing.T) {
	s := newTestScorer()
	m := domain.Message{
		Text: "Lunch has arrived!",
		Reactions: []domain.Reaction{
			{Name: "heart_eyes", Count: 2}, // enthusiastic, 3 each
			{Name: "heart", Count: 1},      // positive, 2
			{Name: "eyes", Count: 1},       // unrecognized, 1
		},
	}
	assert.Equal(t, 9, s.Score(m, nil))
}

func TestScore_NoReactionsNoReplies(t *testing.T) {
	s := newTestScorer()
	assert.Equal(t, 0, s.Score(domain.Message{Text: "Lunch has arrived!"}, nil))
}

func TestScore_RepliesAddBaseAndSentiment(t *testing.T) {
	s := newTestScorer()
	m := domain.Message{Text: "Lunch has arrived!"}
	replies := []domain.Message{
		{Text: "so good :fire:"}, // +2 phrase, +2 "fire" phrase, +2 emoji = 6
		{Text: "meh"},            // -2
	}
	// 2 replies * 2 points + 6 - 2
	assert.Equal(t, 8, s.Score(m, replies))
}

func TestScore_AgreementReactionOnPositiveReply(t *testing.T) {
	s := newTestScorer()
	m := domain.Message{Text: "Lunch has arrived!"}
	replies := []domain.Message{{
		Text:      "loved it",
		Reactions: []domain.Reaction{{Name: "white_check_mark", Count: 1}},
	}}
	// reply base 2 + sentiment 2 ("love" and "loved" both match) is 4... the
	// phrase list hits twice, so sentiment is +4; agreement reaction adds 3
	assert.Equal(t, 2+4+3, s.Score(m, replies))
}

func TestScore_SameReactionWorthLessOnNeutralReply(t *testing.T) {
	s := newTestScorer()
	m := domain.Message{Text: "Lunch has arrived!"}
	replies := []domain.Message{{
		Text:      "picked mine up",
		Reactions: []domain.Reaction{{Name: "white_check_mark", Count: 1}},
	}}
	// reply base 2, no sentiment, check reaction tiers at 1 on a neutral reply
	assert.Equal(t, 3, s.Score(m, replies))
}

func TestScore_AnyReactionScoresOnPositiveReply(t *testing.T) {
	s := newTestScorer()
	m := domain.Message{Text: "Lunch has arrived!"}
	replies := []domain.Message{{
		Text:      "so good",
		Reactions: []domain.Reaction{{Name: "eyes", Count: 2}},
	}}
	// base 2 + sentiment 2 + unrecognized reactions still score 1 each
	assert.Equal(t, 6, s.Score(m, replies))
}

func TestScore_ReschedulingHalvesPerContribution(t *testing.T) {
	s := newTestScorer()
	m := domain.Message{
		Text: "Change in plans, lunch is rescheduled to 1pm",
		Reactions: []domain.Reaction{
			{Name: "heart_eyes", Count: 1}, // 3 -> 1
			{Name: "fire", Count: 1},       // 3 -> 1
		},
	}
	// Each contribution truncates on its own: 1+1 from reactions, 1 from the
	// reply base, 1 from reply sentiment. Halving the unscaled total of 10
	// would give 5 instead.
	replies := []domain.Message{{Text: "so good"}}
	assert.Equal(t, 4, s.Score(m, replies))
}

func TestIsRescheduling(t *testing.T) {
	s := newTestScorer()
	assert.True(t, s.IsRescheduling("Lunch is cancelled today"))
	assert.True(t, s.IsRescheduling("quick change: food at 1pm"))
	assert.False(t, s.IsRescheduling("Lunch has arrived!"))
}

func TestTextSentiment_PhraseAndEmojiDoubleCount(t *testing.T) {
	s := newTestScorer()
	// "fire" counts once as a phrase and once as the :fire: emoji name
	assert.Equal(t, 4, s.TextSentiment("fire :fire:"))
}

func TestTextSentiment_PhraseCountsOncePerPhrase(t *testing.T) {
	s := newTestScorer()
	assert.Equal(t, 2, s.TextSentiment("amazing amazing amazing"))
}

func TestTextSentiment_Negative(t *testing.T) {
	s := newTestScorer()
	assert.Equal(t, -4, s.TextSentiment("bland and disappointing :thumbsdown:"))
}

func TestTextSentiment_Neutral(t *testing.T) {
	s := newTestScorer()
	assert.Equal(t, 0, s.TextSentiment("picked mine up"))
}
