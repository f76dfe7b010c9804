package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/product-explorer/internal/infrastructure/config"
	"github.com/mrops-br/product-explorer/internal/infrastructure/http/handler"
	"github.com/mrops-br/product-explorer/internal/infrastructure/http/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
)

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	config    *config.ServerConfig
	products  *handler.ProductHandler
	favorites *handler.FavoritesHandler
	meter     metric.Meter
	provider  metric.MeterProvider
	registry  *prometheus.Registry
	logger    *slog.Logger
	srv       *http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.ServerConfig,
	products *handler.ProductHandler,
	favorites *handler.FavoritesHandler,
	provider metric.MeterProvider,
	registry *prometheus.Registry,
	logger *slog.Logger,
) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		products:  products,
		favorites: favorites,
		meter:     provider.Meter("product-explorer"),
		provider:  provider,
		registry:  registry,
		logger:    logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.srv = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler: s.Handler(),
	}

	return s
}

// setupMiddleware configures the middleware chain
func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.RouteTagging())
	s.router.Use(middleware.ActiveRequestsMiddleware(s.meter))

	if s.config.DurationMetricMs {
		s.router.Use(middleware.DurationMillisecondsMiddleware(s.meter))
	}
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Route("/products", func(r chi.Router) {
		r.Get("/", s.products.ListProducts)
		r.Get("/{id}", s.products.GetProduct)
	})
	s.router.Get("/categories", s.products.ListCategories)
	s.router.Post("/catalog/refresh", s.products.Refresh)

	s.router.Route("/favorites", func(r chi.Router) {
		r.Get("/", s.favorites.List)
		r.Get("/{id}", s.favorites.Status)
		r.Put("/{id}", s.favorites.Add)
		r.Delete("/{id}", s.favorites.Remove)
		r.Post("/{id}/toggle", s.favorites.Toggle)
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// OpenTelemetry metrics bridged through the Prometheus exporter
	if s.registry != nil {
		s.router.Get("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}).ServeHTTP)
	}
}

// Handler returns the instrumented root handler
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "http-server",
		// Renamed to "METHOD route" by RouteTagging once chi has matched
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return r.Method
		}),
		otelhttp.WithMeterProvider(s.provider),
	)
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		slog.String("address", s.srv.Addr),
	)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.srv.Shutdown(ctx)
}
