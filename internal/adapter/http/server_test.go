package http_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/pogodynka/internal/adapter/http"
	"github.com/couchcryptid/pogodynka/internal/domain"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockLookup struct {
	report domain.Report
	err    error
	calls  []domain.Location
}

func (m *mockLookup) Lookup(_ context.Context, loc domain.Location) (domain.Report, error) {
	m.calls = append(m.calls, loc)
	if m.err != nil {
		return domain.Report{}, m.err
	}
	r := m.report
	r.Location = loc
	return r, nil
}

func (m *mockLookup) Locations() domain.LocationTable { return domain.DefaultLocations }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(lookup *mockLookup, readyErr error) *httpadapter.Server {
	return httpadapter.NewServer(":0", lookup, &mockReadiness{err: readyErr}, discardLogger())
}

func postForm(srv http.Handler, values url.Values) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pogoda", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.ServeHTTP(rec, req)
	return rec
}

var sunnyReport = domain.Report{
	Snapshot: domain.Snapshot{
		TemperatureC:  20.0,
		FeelsLikeC:    19.0,
		HumidityPct:   50,
		PressureHpa:   1012.0,
		WindSpeedMps:  3.0,
		ConditionText: "Słonecznie",
	},
	ObservedAt: time.Date(2025, time.May, 4, 8, 15, 30, 0, time.UTC),
}

func TestFormListsLocations(t *testing.T) {
	srv := newTestServer(&mockLookup{}, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `action="/pogoda"`)
	for _, country := range domain.DefaultLocations {
		assert.Contains(t, body, `<option value="`+country.Name+`"`)
		for _, city := range country.Cities {
			assert.Contains(t, body, `<option value="`+city+`"`)
		}
	}
	assert.Less(t, strings.Index(body, "Polska"), strings.Index(body, "Niemcy"), "table order is preserved")
}

func TestUnknownPathIs404(t *testing.T) {
	srv := newTestServer(&mockLookup{}, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWeatherRendersSnapshot(t *testing.T) {
	lookup := &mockLookup{report: sunnyReport}
	srv := newTestServer(lookup, nil)

	rec := postForm(srv, url.Values{"country": {"Polska"}, "city": {"Warszawa"}})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []domain.Location{{City: "Warszawa", Country: "Polska"}}, lookup.calls)

	body := rec.Body.String()
	assert.Contains(t, body, "Warszawa, Polska")
	assert.Contains(t, body, "20.0°C")
	assert.Contains(t, body, "19.0°C")
	assert.Contains(t, body, "50 %")
	assert.Contains(t, body, "1012.0 hPa")
	assert.Contains(t, body, "3.0 m/s")
	assert.Contains(t, body, "Słonecznie")
	assert.Contains(t, body, "2025-05-04 08:15:30")
}

func TestWeatherPassesUnlistedLocation(t *testing.T) {
	lookup := &mockLookup{report: sunnyReport}
	srv := newTestServer(lookup, nil)

	rec := postForm(srv, url.Values{"country": {"Francja"}, "city": {"Paryż"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []domain.Location{{City: "Paryż", Country: "Francja"}}, lookup.calls)
}

func TestWeatherPassesValuesUnchanged(t *testing.T) {
	lookup := &mockLookup{report: sunnyReport}
	srv := newTestServer(lookup, nil)

	rec := postForm(srv, url.Values{"country": {" Polska"}, "city": {"Warszawa "}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []domain.Location{{City: "Warszawa ", Country: " Polska"}}, lookup.calls)
}

func TestWeatherMissingFieldsIs422(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		want   string
	}{
		{"no city", url.Values{"country": {"Polska"}}, "Pole miasto jest wymagane."},
		{"no country", url.Values{"city": {"Warszawa"}}, "Pole kraj jest wymagane."},
		{"too long", url.Values{"country": {"Polska"}, "city": {strings.Repeat("x", 101)}}, "Pole miasto jest za długie."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := &mockLookup{report: sunnyReport}
			rec := postForm(newTestServer(lookup, nil), tt.values)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
			assert.Empty(t, lookup.calls)
		})
	}
}

func TestWeatherUpstreamErrorIs502WithBody(t *testing.T) {
	body := `{"error":{"code":1006,"message":"No matching location found."}}`
	lookup := &mockLookup{err: &domain.UpstreamError{StatusCode: 400, Body: body}}

	rec := postForm(newTestServer(lookup, nil), url.Values{"country": {"Polska"}, "city": {"Warszawa"}})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "No matching location found.")
}

func TestWeatherUpstreamErrorShowsWholeBody(t *testing.T) {
	body := strings.Repeat("x", 3000) + "END"
	lookup := &mockLookup{err: &domain.UpstreamError{StatusCode: 500, Body: body}}

	rec := postForm(newTestServer(lookup, nil), url.Values{"country": {"Polska"}, "city": {"Warszawa"}})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), body)
}

func TestWeatherTimeoutIs502(t *testing.T) {
	lookup := &mockLookup{err: &domain.UpstreamError{Err: fmt.Errorf("current weather request: %w", context.DeadlineExceeded)}}

	rec := postForm(newTestServer(lookup, nil), url.Values{"country": {"Polska"}, "city": {"Warszawa"}})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "context deadline exceeded")
}

func TestWeatherMalformedIs502(t *testing.T) {
	lookup := &mockLookup{err: &domain.MalformedResponseError{Field: "current.temp_c"}}

	rec := postForm(newTestServer(lookup, nil), url.Values{"country": {"Polska"}, "city": {"Warszawa"}})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "current.temp_c")
}

func TestWeatherUnknownLocationIs400(t *testing.T) {
	lookup := &mockLookup{err: fmt.Errorf("%w: Berlin,Polska", domain.ErrUnknownLocation)}

	rec := postForm(newTestServer(lookup, nil), url.Values{"country": {"Polska"}, "city": {"Berlin"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Berlin, Polska")
}

func TestWeatherUnexpectedErrorIs500(t *testing.T) {
	lookup := &mockLookup{err: errors.New("boom")}

	rec := postForm(newTestServer(lookup, nil), url.Values{"country": {"Polska"}, "city": {"Warszawa"}})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestWeatherEscapesUserInput(t *testing.T) {
	lookup := &mockLookup{report: sunnyReport}

	rec := postForm(newTestServer(lookup, nil), url.Values{"country": {"Polska"}, "city": {"<script>x</script>"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script>x</script>")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}

func TestWeatherRequiresPost(t *testing.T) {
	srv := newTestServer(&mockLookup{}, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pogoda", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(&mockLookup{}, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(&mockLookup{}, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(&mockLookup{}, errors.New("weather upstream unreachable on last request"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockLookup{}, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
