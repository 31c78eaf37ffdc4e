// Package score computes the integer sentiment rating for a selected lunch
// post from its emoji reactions and thread replies.
package score

import (
	"strings"

	"github.com/lauraqiu/clio-lunch-analyzer/internal/domain"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/lexicon"
)

// Reaction tier weights.
const (
	weightEnthusiastic = 3
	weightPositive     = 2
	weightNeutral      = 1
	weightAgreement    = 3
	perReplyPoints     = 2
)

// reschedulingFactor halves contributions on rescheduling posts: reactions
// there tend to be about the schedule change, not the food.
const reschedulingFactor = 0.5

// Scorer rates posts against the configured sentiment lexicons.
type Scorer struct {
	lex lexicon.Set
}

func New(lex lexicon.Set) *Scorer {
	return &Scorer{lex: lex}
}

// Score computes the sentiment rating for a root message and its replies.
// When the message announces a rescheduling, every reaction and reply
// contribution is halved, truncated toward zero per contribution rather than
// once on the total.
func (s *Scorer) Score(m domain.Message, replies []domain.Message) int {
	factor := 1.0
	if s.IsRescheduling(m.Text) {
		factor = reschedulingFactor
	}

	total := 0
	for _, r := range m.Reactions {
		total += scale(r.Count*s.rootWeight(r.Name), factor)
	}

	if len(replies) == 0 {
		return total
	}

	total += scale(len(replies)*perReplyPoints, factor)
	for _, reply := range replies {
		sentiment := s.TextSentiment(reply.Text)
		total += scale(sentiment, factor)

		positive := sentiment > 0
		for _, r := range reply.Reactions {
			total += scale(r.Count*s.replyWeight(r.Name, positive), factor)
		}
	}
	return total
}

// IsRescheduling reports whether the text announces a cancelled or moved
// lunch.
func (s *Scorer) IsRescheduling(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range s.lex.Rescheduling {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// rootWeight tiers a reaction on the announcement itself.
func (s *Scorer) rootWeight(name string) int {
	name = strings.ToLower(name)
	switch {
	case matchesAny(name, s.lex.Reactions.Enthusiastic):
		return weightEnthusiastic
	case matchesAny(name, s.lex.Reactions.Positive):
		return weightPositive
	default:
		return weightNeutral
	}
}

// replyWeight tiers a reaction on a reply. On a positive reply every
// reaction reads as agreement, so even unrecognized emoji score; this
// asymmetry against neutral replies is deliberate.
func (s *Scorer) replyWeight(name string, positiveReply bool) int {
	name = strings.ToLower(name)
	if positiveReply {
		switch {
		case matchesAny(name, s.lex.Reactions.Agreement):
			return weightAgreement
		case matchesAny(name, s.lex.Reactions.PositiveReplyEnthusiastic):
			return weightEnthusiastic
		case matchesAny(name, s.lex.Reactions.PositiveReplyPositive):
			return weightPositive
		default:
			return weightNeutral
		}
	}
	switch {
	case matchesAny(name, s.lex.Reactions.NeutralReplyEnthusiastic):
		return weightPositive
	case matchesAny(name, s.lex.Reactions.NeutralReplyPositive):
		return weightNeutral
	default:
		return weightNeutral
	}
}

// TextSentiment scores free text: +2 for each positive lexicon phrase the
// text contains, -2 for each negative one, and ±2 per inline :emoji_name:
// token whose name contains a positive or negative emoji substring. Matches
// are independent substring checks; overlapping hits double-count on purpose
// ("fire" the phrase and :fire: the emoji both score).
func (s *Scorer) TextSentiment(text string) int {
	lower := strings.ToLower(text)

	total := 0
	for _, phrase := range s.lex.Sentiment.PositivePhrases {
		if strings.Contains(lower, phrase) {
			total += 2
		}
	}
	for _, phrase := range s.lex.Sentiment.NegativePhrases {
		if strings.Contains(lower, phrase) {
			total -= 2
		}
	}

	for _, match := range lexicon.EmojiToken.FindAllStringSubmatch(lower, -1) {
		name := match[1]
		switch {
		case matchesAny(name, s.lex.Sentiment.PositiveEmoji):
			total += 2
		case matchesAny(name, s.lex.Sentiment.NegativeEmoji):
			total -= 2
		}
	}
	return total
}

// scale applies the rescheduling factor to one contribution, truncating
// toward zero at the integer boundary.
func scale(points int, factor float64) int {
	if factor == 1.0 {
		return points
	}
	return int(float64(points) * factor)
}

func matchesAny(name string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(name, sub) {
			return true
		}
	}
	return false
}
