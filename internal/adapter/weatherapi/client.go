package weatherapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/couchcryptid/pogodynka/internal/config"
	"github.com/couchcryptid/pogodynka/internal/domain"
	"github.com/couchcryptid/pogodynka/internal/observability"
)

// maxBodySize caps how much of an upstream response is read.
const maxBodySize = 1 << 20

// Client implements domain.WeatherProvider using the weatherapi.com current endpoint.
type Client struct {
	apiKey     string
	lang       string
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewClient creates a weatherapi.com client from the service configuration.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  cfg.WeatherAPIKey,
		lang:    cfg.WeatherAPILang,
		baseURL: cfg.WeatherAPIBaseURL,
		httpClient: &http.Client{
			Timeout:   cfg.WeatherAPITimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		metrics: metrics,
		logger:  logger,
		tracer:  otel.Tracer("github.com/couchcryptid/pogodynka/internal/adapter/weatherapi"),
	}
}

// FetchWeather returns the current conditions for "{city},{country}".
func (c *Client) FetchWeather(ctx context.Context, city, country string) (domain.Snapshot, error) {
	loc := domain.Location{City: city, Country: country}

	ctx, span := c.tracer.Start(ctx, "weatherapi.current",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("weather.query", loc.Query())),
	)
	defer span.End()

	params := url.Values{
		"key":  {c.apiKey},
		"q":    {loc.Query()},
		"lang": {c.lang},
	}

	body, err := c.doRequest(ctx, c.baseURL+"/current.json?"+params.Encode())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream request failed")
		return domain.Snapshot{}, err
	}

	snap, err := parseCurrent(body)
	if err != nil {
		c.logger.Warn("malformed weatherapi response", "query", loc.Query(), "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed response")
		return domain.Snapshot{}, err
	}

	span.SetAttributes(attribute.Float64("weather.temperature_c", snap.TemperatureC))
	return snap, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamResponses.WithLabelValues("error").Inc()
		err = redactURLError(err)
		c.logger.Warn("weatherapi request failed", "error", err)
		return nil, &domain.UpstreamError{Err: fmt.Errorf("current weather request: %w", err)}
	}
	defer resp.Body.Close()

	c.metrics.UpstreamResponses.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		// The connection broke mid-response; treat it like any transport failure.
		c.logger.Warn("weatherapi response body read failed", "status", resp.StatusCode, "error", err)
		return nil, &domain.UpstreamError{Err: fmt.Errorf("read response body: %w", redactURLError(err))}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("weatherapi returned error status", "status", resp.StatusCode, "body", string(body))
		return nil, &domain.UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// redactURLError hides the API key in *url.Error messages, which embed the
// full request URL.
func redactURLError(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	u, perr := url.Parse(urlErr.URL)
	if perr != nil {
		urlErr.URL = "<redacted>"
		return err
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	urlErr.URL = u.String()
	return err
}
