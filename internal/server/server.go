// Package server exposes the market state and the insight pipeline over HTTP
// and pushes store changes to websocket clients.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-pulse/internal/logger"
	"github.com/rxtech-lab/argo-pulse/internal/store"
	"github.com/rxtech-lab/argo-pulse/internal/types"
	"github.com/rxtech-lab/argo-pulse/pkg/errors"
)

// InsightService answers insight requests. *pulse.Service implements it.
type InsightService interface {
	// Analyze runs the never-failing insight request for the asset's current snapshot.
	Analyze(ctx context.Context, asset types.AssetID) (types.AIAnalysisResult, error)
	// AnalyzeStrict analyzes a caller-supplied snapshot and reports model failures.
	AnalyzeStrict(ctx context.Context, snapshot types.MarketSnapshot) (types.AIAnalysisResult, error)
}

// Config holds the listener settings.
type Config struct {
	Address           string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Server serves the REST and websocket API.
type Server struct {
	config   Config
	store    *store.Store
	insights InsightService
	router   *mux.Router
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// New creates a server and registers its routes.
func New(config Config, st *store.Store, insights InsightService, log *logger.Logger) *Server {
	s := &Server{
		config:   config,
		store:    st,
		insights: insights,
		router:   mux.NewRouter(),
		//nolint:exhaustruct // library defaults for buffer sizes
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		logger: log.Named("server"),
	}

	s.routes()

	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/markets", s.handleMarkets).Methods(http.MethodGet)
	api.HandleFunc("/markets/{asset}", s.handleMarket).Methods(http.MethodGet)
	api.HandleFunc("/markets/{asset}/insight", s.handleInsight).Methods(http.MethodPost)
	api.HandleFunc("/selection", s.handleSelect).Methods(http.MethodPut)
	api.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)

	s.router.HandleFunc("/ws/markets", s.handleWebSocket)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to listen on %s", s.config.Address)
	}

	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	//nolint:exhaustruct // remaining fields use net/http defaults
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server listening", zap.String("address", listener.Addr().String()))
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// errorMessage returns the message of a coded error without its code prefix.
func errorMessage(err error) string {
	var e *errors.Error
	if errors.As(err, &e) {
		return e.Message
	}

	return err.Error()
}
