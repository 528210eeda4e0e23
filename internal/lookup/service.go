package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/pogodynka/internal/domain"
	"github.com/couchcryptid/pogodynka/internal/observability"
)

const (
	publishTimeout = 2 * time.Second

	// upstreamCooldown bounds how long a transport failure keeps the
	// service not-ready. Readiness recovers on its own once it elapses.
	upstreamCooldown = 30 * time.Second
)

// Publisher receives one event per completed lookup.
type Publisher interface {
	Publish(ctx context.Context, event domain.LookupEvent) error
}

// Service resolves a location to a weather report.
type Service struct {
	provider  domain.WeatherProvider
	publisher Publisher
	locations domain.LocationTable
	enforce   bool
	logger    *slog.Logger
	metrics   *observability.Metrics

	// downUntil is the unix-nano deadline set by the most recent upstream
	// call that failed without receiving a response. Zero means healthy.
	downUntil atomic.Int64
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher publishes a LookupEvent after every lookup.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithEnforcedLocations rejects locations that are not in the table
// before calling the provider.
func WithEnforcedLocations(enforce bool) Option {
	return func(s *Service) { s.enforce = enforce }
}

// WithLocations replaces the default location table.
func WithLocations(t domain.LocationTable) Option {
	return func(s *Service) { s.locations = t }
}

// New creates a Service around a weather provider.
func New(provider domain.WeatherProvider, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Service {
	s := &Service{
		provider:  provider,
		locations: domain.DefaultLocations,
		logger:    logger,
		metrics:   metrics,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Locations returns the table offered to users.
func (s *Service) Locations() domain.LocationTable {
	return s.locations
}

// Lookup fetches the current weather for loc. Provider errors are returned
// unchanged so callers can inspect them with errors.As.
func (s *Service) Lookup(ctx context.Context, loc domain.Location) (domain.Report, error) {
	if s.enforce && !s.locations.Contains(loc) {
		err := fmt.Errorf("%w: %s", domain.ErrUnknownLocation, loc.Query())
		s.finish(ctx, loc, domain.OutcomeRejected, nil, err)
		return domain.Report{}, err
	}

	snap, err := s.provider.FetchWeather(ctx, loc.City, loc.Country)
	if err != nil {
		outcome := classify(ctx, err)
		s.trackUpstream(err)
		s.logger.Warn("weather lookup failed",
			"city", loc.City,
			"country", loc.Country,
			"outcome", outcome,
			"error", err,
		)
		s.finish(ctx, loc, outcome, nil, err)
		return domain.Report{}, err
	}
	s.downUntil.Store(0)

	report := domain.NewReport(loc, snap)
	s.logger.Debug("weather lookup succeeded",
		"city", loc.City,
		"country", loc.Country,
		"temperature_c", snap.TemperatureC,
	)
	s.finish(ctx, loc, domain.OutcomeSuccess, &snap, nil)
	return report, nil
}

// CheckReadiness returns an error for up to upstreamCooldown after an
// upstream call failed at the transport level. A successful lookup clears it
// early.
func (s *Service) CheckReadiness(_ context.Context) error {
	until := s.downUntil.Load()
	if until != 0 && domain.Now().UnixNano() < until {
		return errors.New("weather upstream unreachable on recent request")
	}
	return nil
}

func (s *Service) finish(ctx context.Context, loc domain.Location, outcome string, snap *domain.Snapshot, err error) {
	s.metrics.Lookups.WithLabelValues(outcome).Inc()
	if s.publisher == nil {
		return
	}
	event := domain.NewLookupEvent(loc, outcome, snap, err)
	// Publish even when the inbound request was canceled.
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if perr := s.publisher.Publish(pctx, event); perr != nil {
		s.metrics.EventPublishErrors.Inc()
		s.logger.Warn("publish lookup event failed", "event_id", event.ID, "error", perr)
	}
}

// trackUpstream marks the upstream down only for failures where no response
// arrived; caller cancellation says nothing about upstream health.
func (s *Service) trackUpstream(err error) {
	var upErr *domain.UpstreamError
	if !errors.As(err, &upErr) {
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	if upErr.StatusCode != 0 {
		s.downUntil.Store(0)
		return
	}
	s.downUntil.Store(domain.Now().Add(upstreamCooldown).UnixNano())
}

func classify(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedResponse):
		return domain.OutcomeMalformed
	case ctx.Err() != nil && errors.Is(err, context.Canceled):
		return domain.OutcomeCanceled
	default:
		return domain.OutcomeUpstream
	}
}
