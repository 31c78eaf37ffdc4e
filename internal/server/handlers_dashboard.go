package server

import (
	"bytes"
	"html/template"
	"log/slog"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/lauraqiu/clio-lunch-analyzer/internal/domain"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/extract"
)

// dashboardRow is one rendered leaderboard line. RatingPct scales the rating
// bar relative to the best day on the page.
type dashboardRow struct {
	Rank            int
	Date            string
	Weekday         string
	Vendor          string
	Menu            string
	SentimentRating int
	RatingPct       int
	ReplyCount      int
	Excerpt         string
}

func (s *Server) handleDashboard(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	snapshot, err := s.snapshots.Get(c.Request().Context())
	if err != nil {
		return s.wrapSnapshotError(err)
	}

	records := filter.apply(snapshot.Records)

	maxRating := 0
	for _, r := range records {
		if r.SentimentRating > maxRating {
			maxRating = r.SentimentRating
		}
	}

	rows := make([]dashboardRow, 0, len(records))
	for _, r := range records {
		pct := 0
		if maxRating > 0 && r.SentimentRating > 0 {
			pct = r.SentimentRating * 100 / maxRating
		}
		rows = append(rows, dashboardRow{
			Rank:            r.Rank,
			Date:            r.Date.Format("2006-01-02"),
			Weekday:         r.Weekday,
			Vendor:          r.Vendor,
			Menu:            r.Menu,
			SentimentRating: r.SentimentRating,
			RatingPct:       pct,
			ReplyCount:      r.ReplyCount,
			Excerpt:         r.Excerpt,
		})
	}

	data := map[string]any{
		"Rows":        rows,
		"TotalDays":   len(records),
		"AvgRating":   averageRating(records),
		"TopVendor":   topVendor(snapshot.Records),
		"Vendors":     vendorOptions(snapshot.Records),
		"GeneratedAt": snapshot.FetchedAt.Format("2006-01-02 15:04 MST"),
		"HasData":     len(snapshot.Records) > 0,
		"MinRating":   c.QueryParam("min_rating"),
	}

	return renderTemplate(c, s.dashboardTemplate, data)
}

func averageRating(records []domain.LunchRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0
	for _, r := range records {
		sum += r.SentimentRating
	}
	return float64(sum) / float64(len(records))
}

// topVendor returns the best-rated named vendor, ignoring days where
// extraction found nothing.
func topVendor(records []domain.LunchRecord) string {
	for _, r := range records {
		if r.Vendor != extract.NoVendor {
			return r.Vendor
		}
	}
	return extract.NoVendor
}

// vendorOptions lists distinct vendors for the filter control, sorted.
func vendorOptions(records []domain.LunchRecord) []string {
	seen := make(map[string]bool)
	for _, r := range records {
		if r.Vendor != extract.NoVendor && !seen[r.Vendor] {
			seen[r.Vendor] = true
		}
	}
	vendors := make([]string, 0, len(seen))
	for v := range seen {
		vendors = append(vendors, v)
	}
	sort.Strings(vendors)
	return vendors
}

// renderTemplate renders to a buffer first so a failed execution never sends
// partial HTML.
func renderTemplate(c echo.Context, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		slog.Error("template execution failed", "path", c.Request().URL.Path, "error", err)
		return c.String(500, "Failed to render page")
	}
	return c.HTMLBlob(200, buf.Bytes())
}
