package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	httpadapter "github.com/couchcryptid/quake-map/internal/adapter/http"
	"github.com/couchcryptid/quake-map/internal/dashboard"
	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDashboard struct {
	status      dashboard.Status
	events      []domain.Event
	lastUpdated time.Time
	refreshOK   bool
	refreshes   int
	readyErr    error
}

func (m *mockDashboard) View(filter domain.MagnitudeFilter) dashboard.View {
	v := dashboard.View{
		Status:     m.status,
		Filter:     filter,
		Events:     []domain.Event{},
		Markers:    []domain.Marker{},
		CanRefresh: m.status != dashboard.StatusLoading,
	}
	if !m.lastUpdated.IsZero() {
		v.LastUpdated = &m.lastUpdated
	}
	switch m.status {
	case dashboard.StatusError:
		v.ErrorMessage = domain.StatusMessage
	case dashboard.StatusSuccess:
		v.Events = domain.Filter(m.events, filter)
		v.Markers = domain.Markers(v.Events)
		v.Shown = len(v.Events)
		v.Total = len(m.events)
	}
	return v
}

func (m *mockDashboard) Refresh() bool {
	m.refreshes++
	return m.refreshOK
}

func (m *mockDashboard) CheckReadiness(_ context.Context) error { return m.readyErr }

func scenarioEvents() []domain.Event {
	return []domain.Event{
		{ID: "ci1", Magnitude: 2.5, Place: "5km N of Ridgecrest, CA", Latitude: 35.7, Longitude: -117.6, OccurredAt: 1713968400000, DetailURL: "https://earthquake.usgs.gov/earthquakes/eventpage/ci1"},
		{ID: "us2", Magnitude: 4.0, Place: "Hualien City, Taiwan", Latitude: 23.9, Longitude: 121.6, OccurredAt: 1713968500000},
		{ID: "us3", Magnitude: 6.1, Place: "Fiji <region>", Latitude: -17.8, Longitude: -178.5, OccurredAt: 1713968600000},
	}
}

func newTestServer(dash *mockDashboard) *httpadapter.Server {
	settings := httpadapter.MapSettings{
		TileURL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		TileAttribution: "OpenStreetMap contributors",
	}
	return httpadapter.NewServer(":0", dash, settings, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func serve(srv *httpadapter.Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	srv.ServeHTTP(rec, req)
	return rec
}

// --- health ---

func TestHealthzReturns200(t *testing.T) {
	rec := serve(newTestServer(&mockDashboard{}), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := serve(newTestServer(&mockDashboard{}), http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	dash := &mockDashboard{readyErr: errors.New("no earthquake data loaded yet")}
	rec := serve(newTestServer(dash), http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(newTestServer(&mockDashboard{}), http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

// --- page ---

func TestPage_Loading(t *testing.T) {
	rec := serve(newTestServer(&mockDashboard{status: dashboard.StatusLoading}), http.MethodGet, "/?magnitude=major", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, "Earthquake Visualizer")
	assert.Contains(t, body, "Loading earthquake data...")
	assert.Contains(t, body, `http-equiv="refresh"`)
	assert.Contains(t, body, "magnitude=major")
	assert.Contains(t, body, "USGS Earthquake API")
	assert.NotContains(t, body, `id="map"`)
}

func TestPage_Error(t *testing.T) {
	rec := serve(newTestServer(&mockDashboard{status: dashboard.StatusError}), http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, domain.StatusMessage)
	assert.Contains(t, body, "Try Again")
	assert.Contains(t, body, `action="/refresh"`)
	assert.NotContains(t, body, `id="map"`)
	assert.NotContains(t, body, `http-equiv="refresh"`)
}

func TestPage_Success(t *testing.T) {
	dash := &mockDashboard{
		status:      dashboard.StatusSuccess,
		events:      scenarioEvents(),
		lastUpdated: time.Date(2024, time.April, 24, 15, 0, 0, 0, time.UTC),
	}
	rec := serve(newTestServer(dash), http.MethodGet, "/?magnitude=moderate", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="map"`)
	assert.Contains(t, body, "Showing <strong>1</strong> of <strong>3</strong> earthquakes")
	assert.Contains(t, body, `<option value="moderate" selected>Moderate (3.0 - 5.0)</option>`)
	assert.Contains(t, body, `datetime="2024-04-24T15:00:00Z"`)
	assert.Contains(t, body, "Last updated")
	assert.Contains(t, body, domain.ColorModerate)
	assert.Contains(t, body, "leaflet")
	assert.Contains(t, body, "us2")
	assert.NotContains(t, body, "ci1", "filtered events are not rendered")
}

func TestPage_LastUpdatedRendersInUTC(t *testing.T) {
	dash := &mockDashboard{
		status:      dashboard.StatusSuccess,
		events:      scenarioEvents(),
		lastUpdated: time.Date(2024, time.April, 24, 8, 0, 0, 0, time.FixedZone("PDT", -7*3600)),
	}
	rec := serve(newTestServer(dash), http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "15:00:00 UTC")
	assert.NotContains(t, body, "08:00:00 PDT")
}

func TestPage_EscapesPlaceInMarkerData(t *testing.T) {
	dash := &mockDashboard{status: dashboard.StatusSuccess, events: scenarioEvents()}
	rec := serve(newTestServer(dash), http.MethodGet, "/?magnitude=major", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Fiji <region>")
}

func TestPage_InvalidFilter(t *testing.T) {
	rec := serve(newTestServer(&mockDashboard{status: dashboard.StatusSuccess}), http.MethodGet, "/?magnitude=huge", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPage_UnknownPath(t *testing.T) {
	rec := serve(newTestServer(&mockDashboard{}), http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- refresh ---

func TestRefresh_RedirectsKeepingFilter(t *testing.T) {
	tests := []struct {
		form     string
		location string
	}{
		{"", "/"},
		{"magnitude=all", "/"},
		{"magnitude=major", "/?magnitude=major"},
	}

	for _, tt := range tests {
		t.Run(tt.form, func(t *testing.T) {
			dash := &mockDashboard{refreshOK: true}
			rec := serve(newTestServer(dash), http.MethodPost, "/refresh", strings.NewReader(tt.form))

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
			assert.Equal(t, 1, dash.refreshes)
		})
	}
}

func TestRefresh_WhilePendingStillRedirects(t *testing.T) {
	dash := &mockDashboard{status: dashboard.StatusLoading, refreshOK: false}
	form := url.Values{"magnitude": {"minor"}}.Encode()
	rec := serve(newTestServer(dash), http.MethodPost, "/refresh", strings.NewReader(form))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?magnitude=minor", rec.Header().Get("Location"))
}

func TestRefresh_InvalidFilter(t *testing.T) {
	dash := &mockDashboard{refreshOK: true}
	rec := serve(newTestServer(dash), http.MethodPost, "/refresh", strings.NewReader("magnitude=huge"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, dash.refreshes)
}

// --- API ---

func TestAPIEvents(t *testing.T) {
	dash := &mockDashboard{status: dashboard.StatusSuccess, events: scenarioEvents()}
	rec := serve(newTestServer(dash), http.MethodGet, "/api/events?magnitude=major", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var v dashboard.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, dashboard.StatusSuccess, v.Status)
	assert.Equal(t, domain.FilterMajor, v.Filter)
	assert.Equal(t, 1, v.Shown)
	assert.Equal(t, 3, v.Total)
	require.Len(t, v.Markers, 1)
	assert.Equal(t, domain.ColorMajor, v.Markers[0].Color)
	assert.InDelta(t, 12.2, v.Markers[0].Radius, 1e-9)
}

func TestAPIEvents_Error(t *testing.T) {
	rec := serve(newTestServer(&mockDashboard{status: dashboard.StatusError}), http.MethodGet, "/api/events", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, domain.StatusMessage, body["error_message"])
	assert.Empty(t, body["markers"])
}

func TestAPIEvents_InvalidFilter(t *testing.T) {
	rec := serve(newTestServer(&mockDashboard{}), http.MethodGet, "/api/events?magnitude=huge", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIRefresh(t *testing.T) {
	rec := serve(newTestServer(&mockDashboard{refreshOK: true}), http.MethodPost, "/api/refresh", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = serve(newTestServer(&mockDashboard{refreshOK: false}), http.MethodPost, "/api/refresh", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPIRefresh_MethodNotAllowed(t *testing.T) {
	rec := serve(newTestServer(&mockDashboard{}), http.MethodGet, "/api/refresh", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
