// Package lexicon holds the phrase and emoji tables the pipeline stages match
// against. The tables are plain immutable data handed to each stage at
// construction time, so tests can swap in fixtures without touching package
// state.
package lexicon

import "regexp"

// Shared structural patterns. These are matching machinery rather than tuned
// phrase data, so they live here as fixed package values.
var (
	// DietaryTag matches a parenthetical carrying dietary shorthand,
	// e.g. "(GF, DF)" or "(vg, halal)".
	DietaryTag = regexp.MustCompile(`(?i)\([^)]*?(?:GF|DF|VG|V|HALAL|NF)[^)]*?\)`)

	// EmojiToken matches an inline :emoji_name: token and captures the name.
	EmojiToken = regexp.MustCompile(`:(\w+(?:[-_]\w+)*):`)
)

// Classifier groups the phrase lists used to decide whether a message is a
// lunch announcement.
type Classifier struct {
	// ExclusionPhrases mark future-menu previews ("next week ..."), which are
	// never announcements for today.
	ExclusionPhrases []string
	// PreviewVendors are vendor tokens that, following a weekday-colon label,
	// identify a weekly preview listing.
	PreviewVendors []string
	// SecondaryMarkers flag leftover/missed/reminder follow-up posts.
	SecondaryMarkers []string
	// AudienceTags are the office channel-group mentions, literal and
	// tag-encoded. A lunch announcement always carries one.
	AudienceTags []string
	// ArrivalPhrases announce that lunch is physically here. Includes the
	// recurring "lunch is very" misspelling seen in the channel.
	ArrivalPhrases []string
	// MenuTriggers introduce an explicit menu listing.
	MenuTriggers []string
	// FoodContext are food and vendor words that make a bare "we have ..."
	// read as a lunch post.
	FoodContext []string
}

// Sentiment groups the phrase and emoji-substring lists used to score free
// text in thread replies.
type Sentiment struct {
	PositivePhrases []string
	NegativePhrases []string
	// PositiveEmoji and NegativeEmoji are substrings matched against emoji
	// names written inline as :name: tokens.
	PositiveEmoji []string
	NegativeEmoji []string
}

// Reactions groups the emoji-name substrings that sort reactions into scoring
// tiers. Root-message reactions and reply reactions use different tiers; the
// reply tiers additionally depend on whether the reply itself read positive.
type Reactions struct {
	// Enthusiastic and Positive tier root-message reactions (weights 3 and 2).
	Enthusiastic []string
	Positive     []string
	// Agreement marks reactions that signal "+1 to this reply" on a positive
	// reply (weight 3).
	Agreement []string
	// PositiveReplyEnthusiastic and PositiveReplyPositive tier the remaining
	// reactions on a positive reply (weights 3 and 2).
	PositiveReplyEnthusiastic []string
	PositiveReplyPositive     []string
	// NeutralReplyEnthusiastic and NeutralReplyPositive tier reactions on a
	// reply that did not read positive (weights 2 and 1).
	NeutralReplyEnthusiastic []string
	NeutralReplyPositive     []string
}

// Set is the full rule-table bundle for one pipeline configuration.
type Set struct {
	Classifier Classifier
	Sentiment  Sentiment
	Reactions  Reactions
	// Rescheduling marks announcements about cancelled or moved lunches,
	// which halve all reaction and reply contributions.
	Rescheduling []string
	// PriorityMenuPhrases earn the explicit-menu dedup bonus.
	PriorityMenuPhrases []string
	// Ingredients are words that mark a menu line as an ingredient
	// description rather than a dish name.
	Ingredients []string
	// StartIndicators open a menu region during line scanning, StopKeywords
	// close it.
	StartIndicators []string
	StopKeywords    []string
}

// Default returns the production rule tables, tuned against the Toronto lunch
// channel's posting habits.
func Default() Set {
	return Set{
		Classifier: Classifier{
			ExclusionPhrases: []string{
				"next week", "next week -", "here's what to expect", "anchor day lunch menu",
			},
			PreviewVendors: []string{"makers", "o&b", "calii", "pizza", "pizzaiolo"},
			SecondaryMarkers: []string{
				"leftover", "missed out", "reminder", "mixer",
			},
			AudienceTags: []string{"@toronto", "<!subteam"},
			ArrivalPhrases: []string{
				"lunch has arrived", "lunch is ready", "lunch is here",
				"lunch is very", "lunch is", "lunch today",
			},
			MenuTriggers: []string{
				"menu:", "options:", "on the menu", "what's on the menu",
				"what's in the menu", "here's what",
			},
			FoodContext: []string{
				"pizza", "bowl", "salad", "chicken", "salmon", "beef", "pork",
				"sandwich", "wrap", "taco", "burrito", "soup", "rice", "noodles",
				"pasta", "catering", "vendor", "maker", "calii", "african", "thai",
				"mexican", "japanese", "chinese", "indian", "italian", "toben", "choose",
			},
		},
		Sentiment: Sentiment{
			PositivePhrases: []string{
				"so good", "really good", "amazing", "delicious", "love", "loved",
				"excellent", "great", "fantastic", "best", "favorite", "yummy",
				"tasty", "perfect", "incredible", "wow", "fire", "🔥", "this",
				"yes", "agreed", "same", "facts", "truth",
			},
			NegativePhrases: []string{
				"bad", "terrible", "awful", "disgusting", "hate", "worst",
				"disappointed", "not good", "meh", "bland",
			},
			PositiveEmoji: []string{
				"chef", "kiss", "fire", "heart", "star", "drool", "yum", "100",
				"exploding", "party", "clap", "raised_hands", "thumbsup", "thumbs_up",
				"muscle", "ok_hand", "check", "white_check_mark", "checkmark",
			},
			NegativeEmoji: []string{
				"thumbsdown", "thumbs_down", "x", "cross", "disappointed", "sad",
			},
		},
		Reactions: Reactions{
			Enthusiastic: []string{
				"heart_eyes", "star_struck", "drooling", "yum", "fire", "100", "exploding_head",
			},
			Positive: []string{
				"heart", "star", "thumbsup", "+1", "clap", "party", "raised_hands",
			},
			Agreement: []string{
				"check", "white_check_mark", "checkmark", "thumbsup", "+1", "this",
			},
			PositiveReplyEnthusiastic: []string{
				"heart_eyes", "star_struck", "drooling", "yum", "fire", "chef", "kiss",
			},
			PositiveReplyPositive: []string{
				"heart", "star", "clap", "party", "raised_hands",
			},
			NeutralReplyEnthusiastic: []string{
				"heart_eyes", "star_struck", "drooling", "yum", "fire",
			},
			NeutralReplyPositive: []string{
				"heart", "star", "thumbsup", "+1", "check",
			},
		},
		Rescheduling: []string{
			"rescheduled", "reschedule", "cancelled", "canceled", "cancellation",
			"change in plans", "quick change", "originally planning", "postponed",
		},
		PriorityMenuPhrases: []string{
			"here's what", "what's on the menu", "what's in the menu",
		},
		Ingredients: []string{
			"sauce", "seasonal", "pickled", "seeds", "dressing", "marinated",
			"topped with", "served with",
		},
		StartIndicators: []string{
			"here's what", "menu:", "options:", "today we have", "in the menu", "we have",
		},
		StopKeywords: []string{
			"please check", "enjoy", "happy", "@toronto",
		},
	}
}
