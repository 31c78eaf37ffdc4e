// Package classify decides whether a channel message is a lunch announcement.
package classify

import (
	"regexp"
	"strings"
	"time"

	"github.com/lauraqiu/clio-lunch-analyzer/internal/domain"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/lexicon"
)

// Announcements land between 11:00 and 12:15 in the reference timezone.
const (
	windowStartHour = 11
	windowEndHour   = 12
	windowEndMinute = 15
)

var fromVendorPattern = regexp.MustCompile(`(?i:from)\s+[A-Z][a-zA-Z\s&]+`)

// Classifier applies the announcement decision policy: exclusion rules first,
// then the audience-tag gate, then the accept rules in order. The rules are
// fixed at construction; swapping the lexicon swaps the behavior.
type Classifier struct {
	rules   lexicon.Classifier
	loc     *time.Location
	preview *regexp.Regexp
}

func New(rules lexicon.Classifier, loc *time.Location) *Classifier {
	return &Classifier{
		rules:   rules,
		loc:     loc,
		preview: compilePreviewPattern(rules.PreviewVendors),
	}
}

// compilePreviewPattern builds the weekday-colon-vendor matcher that flags
// weekly menu previews ("Monday: Makers ...").
func compilePreviewPattern(vendors []string) *regexp.Regexp {
	quoted := make([]string, len(vendors))
	for i, v := range vendors {
		quoted[i] = regexp.QuoteMeta(v)
	}
	return regexp.MustCompile(
		`(?i)(monday|tuesday|wednesday|thursday|friday|saturday|sunday):\s*(` +
			strings.Join(quoted, "|") + `)`)
}

// IsLunch reports whether the message announces today's lunch.
func (c *Classifier) IsLunch(m domain.Message) bool {
	lower := strings.ToLower(m.Text)

	// Exclusions run first and are final: a secondary post never becomes an
	// announcement no matter what else the text contains.
	if c.isFuturePreview(lower) || c.isWeeklyListing(lower) {
		return false
	}
	if c.IsSecondaryPost(lower) {
		return false
	}

	// Every announcement tags the office group.
	if !c.hasAudienceTag(lower) {
		return false
	}

	accepts := []func() bool{
		func() bool { return c.inLunchWindow(m.Timestamp) },
		func() bool { return c.hasArrivalPhrase(lower) },
		func() bool { return c.hasMenuTrigger(lower) },
		func() bool { return HasDietaryTag(m.Text) },
		func() bool { return c.hasWeHaveFood(lower) },
		func() bool { return hasFromVendor(m.Text) },
	}
	for _, accept := range accepts {
		if accept() {
			return true
		}
	}
	return false
}

func (c *Classifier) isFuturePreview(lower string) bool {
	return containsAny(lower, c.rules.ExclusionPhrases)
}

func (c *Classifier) isWeeklyListing(lower string) bool {
	return c.preview.MatchString(lower)
}

// IsSecondaryPost reports whether the text reads as a leftover/missed/reminder
// follow-up. Exported because the deduplicator reuses the same judgement.
func (c *Classifier) IsSecondaryPost(lower string) bool {
	return containsAny(lower, c.rules.SecondaryMarkers)
}

func (c *Classifier) hasAudienceTag(lower string) bool {
	return containsAny(lower, c.rules.AudienceTags)
}

func (c *Classifier) inLunchWindow(ts time.Time) bool {
	local := ts.In(c.loc)
	h, m := local.Hour(), local.Minute()
	return h == windowStartHour || (h == windowEndHour && m <= windowEndMinute)
}

func (c *Classifier) hasArrivalPhrase(lower string) bool {
	return containsAny(lower, c.rules.ArrivalPhrases)
}

func (c *Classifier) hasMenuTrigger(lower string) bool {
	return containsAny(lower, c.rules.MenuTriggers)
}

func (c *Classifier) hasWeHaveFood(lower string) bool {
	return strings.Contains(lower, "we have") && containsAny(lower, c.rules.FoodContext)
}

// hasFromVendor matches "from <Capitalized Name>"; the capital letter is the
// proper-noun signal, so this one check runs on the original-case text.
func hasFromVendor(text string) bool {
	return fromVendorPattern.MatchString(text)
}

// HasDietaryTag reports whether the text carries a dietary-shorthand
// parenthetical like "(GF, DF)".
func HasDietaryTag(text string) bool {
	return lexicon.DietaryTag.MatchString(text)
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
