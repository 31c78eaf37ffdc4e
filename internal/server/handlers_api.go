package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lauraqiu/clio-lunch-analyzer/internal/domain"
	apperrors "github.com/lauraqiu/clio-lunch-analyzer/internal/errors"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/export"
)

// lunchFilter narrows a snapshot for the API and the dashboard.
type lunchFilter struct {
	vendors   map[string]bool
	minRating int
	hasMin    bool
}

// parseFilter reads vendors (comma separated) and min_rating query params.
func parseFilter(c echo.Context) (lunchFilter, error) {
	f := lunchFilter{}

	if raw := c.QueryParam("vendors"); raw != "" {
		f.vendors = make(map[string]bool)
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				f.vendors[v] = true
			}
		}
	}

	if raw := c.QueryParam("min_rating"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, apperrors.ValidationError("min_rating must be an integer").WithField("min_rating", raw)
		}
		f.minRating = n
		f.hasMin = true
	}

	return f, nil
}

func (f lunchFilter) apply(records []domain.LunchRecord) []domain.LunchRecord {
	out := make([]domain.LunchRecord, 0, len(records))
	for _, r := range records {
		if f.vendors != nil && !f.vendors[r.Vendor] {
			continue
		}
		if f.hasMin && r.SentimentRating < f.minRating {
			continue
		}
		out = append(out, r)
	}
	return out
}

type lunchesResponse struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Count       int             `json:"count"`
	Lunches     []export.Record `json:"lunches"`
}

func (s *Server) handleListLunches(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	snapshot, err := s.snapshots.Get(c.Request().Context())
	if err != nil {
		return s.wrapSnapshotError(err)
	}

	filtered := filter.apply(snapshot.Records)
	return c.JSON(200, lunchesResponse{
		GeneratedAt: snapshot.FetchedAt,
		Count:       len(filtered),
		Lunches:     export.FromRecords(filtered),
	})
}

func (s *Server) handleRefresh(c echo.Context) error {
	snapshot, err := s.snapshots.Refresh(c.Request().Context(), "manual")
	if err != nil {
		return s.wrapSnapshotError(err)
	}
	return c.JSON(200, map[string]any{
		"status":       "refreshed",
		"generated_at": snapshot.FetchedAt,
		"count":        len(snapshot.Records),
	})
}

func (s *Server) wrapSnapshotError(err error) error {
	if errors.Is(err, domain.ErrSourceAuth) {
		return apperrors.ExternalError("slack authentication failed", err)
	}
	return apperrors.ExternalError("could not load lunch data", err)
}
