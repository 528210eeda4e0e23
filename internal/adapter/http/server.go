package http

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/couchcryptid/pogodynka/internal/domain"
)

// WeatherLookup resolves form submissions to weather reports.
type WeatherLookup interface {
	Lookup(ctx context.Context, loc domain.Location) (domain.Report, error)
	Locations() domain.LocationTable
}

// Server exposes the weather form, health, readiness, and metrics HTTP endpoints.
type Server struct {
	httpServer *http.Server
	weather    WeatherLookup
	templates  *template.Template
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /, /pogoda, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, weather WeatherLookup, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           otelhttp.NewHandler(mux, "pogodynka"),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			// Must outlast the upstream timeout so 502 pages still reach the client.
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		weather:   weather,
		templates: mustParseTemplates(),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
	}

	mux.HandleFunc("GET /{$}", s.handleForm)
	mux.HandleFunc("POST /pogoda", s.handleWeather)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
