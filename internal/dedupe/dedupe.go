// Package dedupe collapses classified candidates to at most one lunch per
// calendar day, preferring the highest-quality post closest to noon.
package dedupe

import (
	"regexp"
	"strings"
	"time"

	"github.com/lauraqiu/clio-lunch-analyzer/internal/domain"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/lexicon"
)

// Time-proximity scoring. Inside the core window a candidate starts at 1000
// minus its distance from noon in minutes; outside it starts at 500 minus the
// distance, which can go negative for far-off posts.
const (
	noonMinutes     = 12 * 60
	coreWindowStart = 11 * 60
	coreWindowEnd   = 13 * 60
	coreWindowBase  = 1000
	offWindowBase   = 500
)

// Quality bonuses. All are independent and stack.
const (
	arrivalBonus = 500
	dietaryBonus = 300
	menuBonus    = 200
	vendorBonus  = 100
)

// vendorPattern spots a "we have <Name>" / "from <Name>" vendor mention
// without running full extraction. The whole match is case-sensitive: the
// lowercase phrase plus a capitalized name is the signal, and a sentence-case
// "We have ..." earns no bonus.
var vendorPattern = regexp.MustCompile(`(?:we have|today we have|from)\s+[A-Z][a-zA-Z\s&'-]+`)

// Deduper scores candidates and selects one winner per date.
type Deduper struct {
	menuPhrases []string
}

func New(lex lexicon.Set) *Deduper {
	return &Deduper{
		menuPhrases: lex.PriorityMenuPhrases,
	}
}

// Priority computes the quality/time-proximity score used to pick between
// candidates sharing a date. local must be the message timestamp in the
// reference timezone.
func (d *Deduper) Priority(m domain.Message, local time.Time) int {
	minutes := local.Hour()*60 + local.Minute()
	distance := abs(minutes - noonMinutes)

	score := offWindowBase - distance
	if minutes >= coreWindowStart && minutes <= coreWindowEnd {
		score = coreWindowBase - distance
	}

	lower := strings.ToLower(m.Text)
	if strings.Contains(lower, "lunch has arrived") {
		score += arrivalBonus
	}
	if lexicon.DietaryTag.MatchString(m.Text) {
		score += dietaryBonus
	}
	for _, phrase := range d.menuPhrases {
		if strings.Contains(lower, phrase) {
			score += menuBonus
			break
		}
	}
	if vendorPattern.MatchString(m.Text) {
		score += vendorBonus
	}
	return score
}

// Select keeps exactly one candidate per date: the one with the strictly
// higher priority, first-seen winning exact ties. Weekend candidates are
// dropped before selection. The returned slice preserves the order in which
// dates were first encountered in the input.
func (d *Deduper) Select(candidates []domain.Candidate) []domain.Candidate {
	byDate := make(map[string]domain.Candidate)
	var order []string

	for _, c := range candidates {
		if wd := c.When.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		existing, ok := byDate[c.Date]
		if !ok {
			byDate[c.Date] = c
			order = append(order, c.Date)
			continue
		}
		if c.Priority > existing.Priority {
			byDate[c.Date] = c
		}
	}

	selected := make([]domain.Candidate, 0, len(order))
	for _, date := range order {
		selected = append(selected, byDate[date])
	}
	return selected
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
