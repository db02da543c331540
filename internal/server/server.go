// Package server exposes the journal over a small JSON HTTP API.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/zzanghsi8873/bplog/internal/service"
	"github.com/zzanghsi8873/bplog/internal/store"
)

const userHeader = "X-User-ID"

type Config struct {
	DB          *sql.DB
	Store       store.Readings
	Backend     string
	DefaultUser string
	CORSOrigins []string
	Logger      zerolog.Logger
}

type Server struct {
	db          *sql.DB
	store       store.Readings
	backend     string
	agg         *service.Aggregator
	defaultUser string
	corsOrigins []string
	logger      zerolog.Logger
	startTime   time.Time
}

func New(cfg Config) *Server {
	return &Server{
		db:          cfg.DB,
		store:       cfg.Store,
		backend:     cfg.Backend,
		agg:         service.NewAggregator(cfg.Store, cfg.Backend, cfg.Logger),
		defaultUser: strings.TrimSpace(cfg.DefaultUser),
		corsOrigins: cfg.CORSOrigins,
		logger:      cfg.Logger,
		startTime:   time.Now(),
	}
}

// Handler returns the routed API wrapped in recovery, CORS, request logging
// and metrics middleware. Unrouted requests are observed too.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/classify", s.classifyHandler).Methods(http.MethodGet)
	api.HandleFunc("/readings", s.listReadingsHandler).Methods(http.MethodGet)
	api.HandleFunc("/readings", s.createReadingHandler).Methods(http.MethodPost)
	api.HandleFunc("/readings/{id}", s.getReadingHandler).Methods(http.MethodGet)
	api.HandleFunc("/readings/{id}", s.updateReadingHandler).Methods(http.MethodPatch)
	api.HandleFunc("/readings/{id}", s.deleteReadingHandler).Methods(http.MethodDelete)
	api.HandleFunc("/stats", s.statsHandler).Methods(http.MethodGet)
	api.HandleFunc("/calendar", s.calendarHandler).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", s.dashboardHandler).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.getSettingsHandler).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.updateSettingsHandler).Methods(http.MethodPatch)
	api.HandleFunc("/tips", s.tipsHandler).Methods(http.MethodGet)

	r.Use(tagRoute)

	h := metricsMiddleware(s.loggingMiddleware(r))
	if len(s.corsOrigins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(s.corsOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type", userHeader}),
		)(h)
	}
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.logger}),
		handlers.PrintRecoveryStack(false),
	)(h)
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests for up to five seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Str("backend", s.backend).Msg("bplog API starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info().Msg("bplog API shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return nil
}

func (s *Server) userID(r *http.Request) (string, error) {
	if id := strings.TrimSpace(r.Header.Get(userHeader)); id != "" {
		return id, nil
	}
	if s.defaultUser != "" {
		return s.defaultUser, nil
	}
	return "", errMissingUser
}
