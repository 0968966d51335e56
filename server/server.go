// Package server exposes the exchange desk over HTTP: login against the
// shared user directory, then authenticated JSON endpoints for
// transactions, holdings, rates, dashboard and activity.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hzein/exchange"
	"github.com/hzein/exchange/kvstore"
)

// Server wires the ledger, rate table and user directory behind a chi
// router. The JWT secret signs login tokens; every authenticated request
// carries its actor explicitly from the token claims into the ledger calls.
type Server struct {
	ledger *exchange.Ledger
	rates  *exchange.RateTable
	users  *exchange.Users
	secret []byte
	log    *slog.Logger
	router chi.Router
}

// New creates a server over the given store.
func New(store *kvstore.Store, secret []byte, log *slog.Logger) *Server {
	s := &Server{
		ledger: exchange.NewLedger(store),
		rates:  exchange.NewRateTable(store),
		users:  exchange.NewUsers(store),
		secret: secret,
		log:    log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Post("/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/transactions", s.handleListTransactions)
		r.Post("/transactions", s.handleCreateTransaction)
		r.Post("/transactions/{id}/void", s.handleVoidTransaction)

		r.Get("/holdings", s.handleHoldings)
		r.Get("/holdings/{currency}", s.handleHolding)

		r.Get("/rates", s.handleListRates)
		r.Put("/rates/{currency}", s.handlePutRate)
		r.Delete("/rates/{currency}", s.handleDeleteRate)

		r.Get("/dashboard", s.handleDashboard)
		r.Get("/activity", s.handleActivity)
	})
	s.router = r
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe runs the server until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps the ledger's sentinel errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, exchange.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, exchange.ErrInsufficientFunds):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, exchange.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, exchange.ErrPermission):
		status = http.StatusForbidden
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
