package server

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lauraqiu/clio-lunch-analyzer/internal/cache"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/config"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/domain"
)

func testRecords() []domain.LunchRecord {
	return []domain.LunchRecord{
		{
			Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), Weekday: "Mon",
			Vendor: "Toben", Menu: "Items: Bowl (GF)", SentimentRating: 17, ReplyCount: 2, Rank: 1,
		},
		{
			Date: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), Weekday: "Tue",
			Vendor: "Calii Love", Menu: "Items: Salad (VG)", SentimentRating: 5, ReplyCount: 0, Rank: 2,
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	refresh := func(context.Context) ([]domain.LunchRecord, error) {
		return testRecords(), nil
	}
	snapshots := cache.NewService(refresh, time.Hour, clockwork.NewRealClock(), nil)

	e := echo.New()
	srv := &Server{
		echo:              e,
		config:            &config.Config{Port: "8080"},
		snapshots:         snapshots,
		dashboardTemplate: template.Must(template.New("dashboard").Parse("days={{.TotalDays}} top={{.TopVendor}}")),
		startTime:         time.Now(),
	}
	e.HTTPErrorHandler = srv.handleError
	srv.registerRoutes()
	return srv
}

func doRequest(srv *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func TestListLunches_ReturnsAll(t *testing.T) {
	rec := doRequest(newTestServer(t), http.MethodGet, "/api/lunches")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp lunchesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "Toben", resp.Lunches[0].Vendor)
	assert.Equal(t, "2025-06-02", resp.Lunches[0].Date)
}

func TestListLunches_VendorFilter(t *testing.T) {
	rec := doRequest(newTestServer(t), http.MethodGet, "/api/lunches?vendors=Calii+Love")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp lunchesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Calii Love", resp.Lunches[0].Vendor)
}

func TestListLunches_MinRatingFilter(t *testing.T) {
	rec := doRequest(newTestServer(t), http.MethodGet, "/api/lunches?min_rating=10")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp lunchesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, 17, resp.Lunches[0].SentimentRating)
}

func TestListLunches_InvalidMinRating(t *testing.T) {
	rec := doRequest(newTestServer(t), http.MethodGet, "/api/lunches?min_rating=high")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "min_rating")
}

func TestRefresh_ReturnsCount(t *testing.T) {
	rec := doRequest(newTestServer(t), http.MethodPost, "/api/refresh")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":2`)
}

func TestRefresh_UpstreamFailure(t *testing.T) {
	refresh := func(context.Context) ([]domain.LunchRecord, error) {
		return nil, context.DeadlineExceeded
	}
	srv := newTestServer(t)
	srv.snapshots = cache.NewService(refresh, time.Hour, clockwork.NewRealClock(), nil)

	rec := doRequest(srv, http.MethodPost, "/api/refresh")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestDashboard_Renders(t *testing.T) {
	rec := doRequest(newTestServer(t), http.MethodGet, "/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "days=2")
	assert.Contains(t, rec.Body.String(), "top=Toben")
}

func TestRoot_RedirectsToDashboard(t *testing.T) {
	rec := doRequest(newTestServer(t), http.MethodGet, "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestLiveness(t *testing.T) {
	rec := doRequest(newTestServer(t), http.MethodGet, "/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestReadiness_NoStoreConfigured(t *testing.T) {
	rec := doRequest(newTestServer(t), http.MethodGet, "/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return context.DeadlineExceeded }

func TestReadiness_StoreDown(t *testing.T) {
	srv := newTestServer(t)
	srv.store = failingPinger{}

	rec := doRequest(srv, http.MethodGet, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis")
}

func TestMetricsEndpoint(t *testing.T) {
	rec := doRequest(newTestServer(t), http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}
