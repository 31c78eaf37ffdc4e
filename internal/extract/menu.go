package extract

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/lauraqiu/clio-lunch-analyzer/internal/domain"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/lexicon"
)

// NoMenu is the fallback when no dish entries could be parsed.
const NoMenu = "Menu details in post"

const (
	menuPreviewItems = 3
	minEntryLen      = 5
	minDisplayLen    = 3
)

var (
	leadingBullet = regexp.MustCompile(`^[-•*]\s*`)

	// capitalAfterParen marks the boundary between concatenated dish entries:
	// a closing dietary bracket followed by the next entry's capitalized word.
	capitalAfterParen = regexp.MustCompile(`\)\s*[A-Z][a-z]`)

	// separatorAfterParen is the second splitting strategy: entries joined by
	// a comma or "and" after the dietary bracket.
	separatorAfterParen = regexp.MustCompile(`\)\s*(?:,\s*|(?i:and)\s+)`)
)

// region scanner states. A menu region opens at a start-indicator line and
// closes at the first stop-keyword line.
type regionState int

const (
	beforeRegion regionState = iota
	inRegion
	regionEnded
)

// Menu extracts a short dish summary from the message: "Items: " plus the
// first three parsed entries (with a "(+K)" suffix for the rest), or NoMenu.
func (e *Extractor) Menu(m domain.Message) string {
	text := html.UnescapeString(m.Text)

	var items []string
	seen := make(map[string]bool)
	state := beforeRegion

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		// An indicator line opens (or re-announces) the region. It only
		// carries content itself when it already lists a dietary bracket;
		// otherwise capture starts on the next line.
		if containsAny(lower, e.lex.StartIndicators) {
			if state == beforeRegion {
				state = inRegion
			}
			if !lexicon.DietaryTag.MatchString(line) {
				continue
			}
			line = contentAfterIndicator(line, lower, e.lex.StartIndicators)
			lower = strings.ToLower(line)
		}

		if state != inRegion {
			continue
		}

		// Stop keywords match before cleanup, so a keyword buried in an
		// emoji name still closes the region.
		if containsAny(lower, e.lex.StopKeywords) {
			state = regionEnded
			break
		}

		line = strings.TrimSpace(emojiName.ReplaceAllString(line, ""))
		line = leadingBullet.ReplaceAllString(line, "")
		if len(line) < minEntryLen {
			continue
		}

		for _, entry := range splitEntries(line) {
			entry = strings.TrimSpace(entry)
			if len(entry) < minEntryLen {
				continue
			}
			if e.isIngredientLine(entry) {
				continue
			}
			name := displayName(entry)
			if len(name) > minDisplayLen && !seen[name] {
				seen[name] = true
				items = append(items, name)
			}
		}
	}

	if len(items) == 0 {
		return NoMenu
	}
	preview := strings.Join(items[:min(len(items), menuPreviewItems)], ", ")
	if len(items) > menuPreviewItems {
		preview += fmt.Sprintf(" (+%d)", len(items)-menuPreviewItems)
	}
	return "Items: " + preview
}

// contentAfterIndicator trims the announcement prefix off an indicator line
// that carries menu content: everything through the indicator phrase goes,
// and so does a short leading "<Vendor>:" label if one follows.
func contentAfterIndicator(line, lower string, indicators []string) string {
	start, end := -1, -1
	for _, ind := range indicators {
		if i := strings.Index(lower, ind); i >= 0 && (start == -1 || i < start) {
			start, end = i, i+len(ind)
		}
	}
	if start == -1 {
		return line
	}
	rest := line[end:]
	if c := strings.Index(rest, ":"); c >= 0 && c < 40 && !strings.Contains(rest[:c], "(") {
		rest = rest[c+1:]
	}
	return strings.TrimSpace(rest)
}

// splitEntries breaks a line into candidate dish entries. Strategy one splits
// after a closing parenthesis followed by a capitalized word; strategy two
// splits after a closing parenthesis followed by a comma or "and". A line
// matching neither is a single entry.
func splitEntries(line string) []string {
	if locs := capitalAfterParen.FindAllStringIndex(line, -1); len(locs) > 0 {
		var entries []string
		last := 0
		for _, loc := range locs {
			if entry := strings.TrimSpace(line[last : loc[0]+1]); len(entry) > minEntryLen {
				entries = append(entries, entry)
			}
			// The next entry starts at the capitalized word, two runes
			// before the match end.
			last = loc[1] - 2
		}
		if last < len(line) {
			if entry := strings.TrimSpace(line[last:]); len(entry) > minEntryLen {
				entries = append(entries, entry)
			}
		}
		return entries
	}

	if locs := separatorAfterParen.FindAllStringIndex(line, -1); len(locs) > 0 {
		var entries []string
		last := 0
		for _, loc := range locs {
			if entry := strings.TrimSpace(line[last : loc[0]+1]); len(entry) > minEntryLen {
				entries = append(entries, entry)
			}
			last = loc[1]
		}
		if last < len(line) {
			if entry := strings.TrimSpace(line[last:]); len(entry) > minEntryLen {
				entries = append(entries, entry)
			}
		}
		return entries
	}

	return []string{line}
}

// isIngredientLine filters out long ingredient descriptions masquerading as
// entries: two or more ingredient keywords plus either real length or heavy
// comma use.
func (e *Extractor) isIngredientLine(entry string) bool {
	lower := strings.ToLower(entry)
	hits := 0
	for _, kw := range e.lex.Ingredients {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return hits >= 2 && (len(entry) > 60 || strings.Count(entry, ",") > 3)
}

// displayName derives the shortened dish name for an entry: cut after the
// first dietary bracket when present, otherwise truncate at a reasonable
// comma or length boundary for comma-heavy or overlong entries.
func displayName(entry string) string {
	if loc := lexicon.DietaryTag.FindStringIndex(entry); loc != nil {
		return strings.TrimSpace(entry[:loc[1]])
	}

	if strings.Count(entry, ",") > 3 {
		var commas []int
		for i, r := range entry {
			if r == ',' {
				commas = append(commas, i)
			}
		}
		switch {
		case len(commas) >= 2 && commas[1] < 60:
			return strings.TrimSpace(entry[:commas[1]])
		case len(commas) >= 1 && commas[0] < 50:
			return strings.TrimSpace(entry[:commas[0]])
		default:
			return strings.TrimSpace(truncateRunes(entry, 60))
		}
	}
	if len(entry) > 80 {
		return strings.TrimSpace(truncateRunes(entry, 60))
	}
	return strings.TrimSpace(entry)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
