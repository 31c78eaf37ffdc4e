package extract

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lauraqiu/clio-lunch-analyzer/internal/domain"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/lexicon"
)

// NoVendor is returned when no pattern produced a plausible vendor name.
const NoVendor = "N/A"

// Vendor name length gates, exclusive on both ends. The multi-vendor form
// "X & Y" needs the wider bound; the bare "from X" fallback captures greedily
// so it gets the tight one.
const (
	vendorMaxLen       = 100
	vendorMinLen       = 2
	fromFallbackMaxLen = 50
)

var (
	// Slack link markup: <https://url|label> keeps the label, <https://url>
	// and a malformed trailing "<https..." are dropped entirely.
	labeledLink   = regexp.MustCompile(`<https?://[^|>]+\|([^>]+)>`)
	bareLink      = regexp.MustCompile(`<https?://[^>]+>`)
	malformedLink = regexp.MustCompile(`<https?://[^>]+`)
	residualTag   = regexp.MustCompile(`<[^>]+>`)

	emojiName    = regexp.MustCompile(`:\w+(?:-\w+)*:`)
	trailingJunk = regexp.MustCompile(`[.,;:!?]+$`)
	trailingNote = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	asterisks    = regexp.MustCompile(`\*+`)

	// Trailing qualifiers chop everything after the vendor proper. The "and"
	// variant is only safe once multi-vendor splitting has been ruled out.
	qualifierTail      = regexp.MustCompile(`(?i)\s+(today|and|here|menu|arrived|with).*$`)
	partQualifierTail  = regexp.MustCompile(`(?i)\s+(today|with).*$`)
	withClauseTail     = regexp.MustCompile(`(?i)\s+with\s+.*$`)
	multiVendorSplit   = regexp.MustCompile(`(?i)\s+and\s+`)

	// Ordered primary patterns, earliest match wins. Capture stops at a
	// terminal token: today, colon, " and <Capital>", " with ", sentence end.
	// The capital letter after "from" is the proper-noun signal and stays
	// case-sensitive while everything around it does not.
	vendorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i:from)\s+([A-Z][a-zA-Z\s&'-]+?)(?:\s*!|\.|$)`),
		regexp.MustCompile(`(?i:choose)\s+(?:(?i:a)\s+)?[^f]*?\s+(?i:from)\s+([A-Z][a-zA-Z\s&'-]+?)(?:\s*!|\.|$)`),
		regexp.MustCompile(`(?i:today we have )(.*?)(?:\s+(?i:today)|:|\s+(?i:and)\s+[A-Z]|\s+(?i:with)\s+|\.|$)`),
		regexp.MustCompile(`(?i:we have )(.*?)(?:\s+(?i:today)|:|\s+(?i:and)\s+[A-Z]|\s+(?i:with)\s+|\.|$)`),
		regexp.MustCompile(`(?i:lunch has arrived).*?(?i:we have )(.*?)(?::|\.)`),
		regexp.MustCompile(`(?i:arrived - we have )(.*?)(?i: today)`),
	}

	fromFallback   = regexp.MustCompile(`(?i:from)\s+([A-Z][a-zA-Z\s&'-]+?)(?:\s*!|\.|$)`)
	weHaveFallback = regexp.MustCompile(`(?i:we have\s+)([^:.!?]+?)(?:\s+(?i:today)|\s+(?i:and)\s+[A-Z]|\s+(?i:with)\s+|\s*:|\.|!|\?|$)`)
)

// Extractor derives vendor and menu text from announcement messages.
type Extractor struct {
	lex lexicon.Set
}

func New(lex lexicon.Set) *Extractor {
	return &Extractor{lex: lex}
}

// Vendor extracts the caterer name from the message, or NoVendor.
func (e *Extractor) Vendor(m domain.Message) string {
	text := stripLinks(html.UnescapeString(m.Text))

	for _, pattern := range vendorPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		vendor := cleanCapture(match[1])
		if vendor == "" {
			continue
		}
		if n := utf8.RuneCountInString(vendor); n > vendorMinLen && n < vendorMaxLen {
			return finishVendor(vendor)
		}
	}

	// Fallback 1: a bare "from X" anywhere, with only light cleanup.
	if match := fromFallback.FindStringSubmatch(text); match != nil {
		vendor := strings.TrimSpace(match[1])
		vendor = strings.TrimSpace(emojiName.ReplaceAllString(vendor, ""))
		vendor = residualTag.ReplaceAllString(vendor, "")
		vendor = strings.TrimSpace(trailingJunk.ReplaceAllString(vendor, ""))
		if !looksLikeURL(vendor) {
			if n := utf8.RuneCountInString(vendor); n > vendorMinLen && n < fromFallbackMaxLen {
				return finishVendor(vendor)
			}
		}
	}

	// Fallback 2: a bare "we have X" up to the first hard terminator.
	if match := weHaveFallback.FindStringSubmatch(text); match != nil {
		vendor := strings.TrimSpace(match[1])
		vendor = strings.TrimSpace(emojiName.ReplaceAllString(vendor, ""))
		vendor = residualTag.ReplaceAllString(vendor, "")
		if strings.Contains(strings.ToLower(vendor), " and ") {
			vendor = joinVendorParts(vendor)
		} else {
			vendor = withClauseTail.ReplaceAllString(vendor, "")
			vendor = strings.TrimSpace(trailingJunk.ReplaceAllString(vendor, ""))
		}
		if !looksLikeURL(vendor) {
			if n := utf8.RuneCountInString(vendor); n > vendorMinLen && n < vendorMaxLen {
				return finishVendor(vendor)
			}
		}
	}

	return NoVendor
}

// cleanCapture post-processes a captured vendor span: emoji and link residue
// gone, multi-vendor "X and Y" collapsed to "X & Y", qualifiers and trailing
// punctuation stripped. Returns "" when the result reads as a URL fragment.
func cleanCapture(raw string) string {
	vendor := strings.TrimSpace(raw)
	vendor = strings.TrimSpace(emojiName.ReplaceAllString(vendor, ""))
	vendor = residualTag.ReplaceAllString(vendor, "")

	if strings.Contains(strings.ToLower(vendor), " and ") {
		vendor = joinVendorParts(vendor)
	} else {
		vendor = qualifierTail.ReplaceAllString(vendor, "")
		vendor = trailingNote.ReplaceAllString(vendor, "")
		vendor = trailingJunk.ReplaceAllString(vendor, "")
	}

	vendor = strings.TrimSpace(vendor)
	if looksLikeURL(vendor) {
		return ""
	}
	return vendor
}

// joinVendorParts turns "Maker Pizza today and Pi Co (Gluten Free)" into
// "Maker Pizza & Pi Co": each side loses its trailing qualifier, trailing
// parenthetical note and punctuation before joining.
func joinVendorParts(vendor string) string {
	parts := multiVendorSplit.Split(vendor, -1)
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		part = partQualifierTail.ReplaceAllString(part, "")
		part = strings.TrimSpace(trailingNote.ReplaceAllString(part, ""))
		part = strings.TrimSpace(trailingJunk.ReplaceAllString(part, ""))
		if utf8.RuneCountInString(part) > vendorMinLen && !strings.HasPrefix(part, "<") && !looksLikeURL(part) {
			cleaned = append(cleaned, part)
		}
	}
	if len(cleaned) == 0 {
		return vendor
	}
	return strings.Join(cleaned, " & ")
}

// finishVendor applies the final display cleanup: one more entity unescape
// and bold-asterisk strip. Re-running a finished vendor through this is a
// no-op, which the dashboard relies on when it re-cleans loaded data.
func finishVendor(vendor string) string {
	return strings.TrimSpace(html.UnescapeString(asterisks.ReplaceAllString(vendor, "")))
}

func stripLinks(text string) string {
	text = labeledLink.ReplaceAllString(text, "$1")
	text = bareLink.ReplaceAllString(text, "")
	text = malformedLink.ReplaceAllString(text, "")
	return text
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http") || strings.HasPrefix(s, "<") || strings.Contains(s, "://")
}
