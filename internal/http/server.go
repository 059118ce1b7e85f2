// Package http is the JSON command surface over the ledger. One route per
// inbound command, one for the derived snapshot; the handlers stay thin and
// every rule lives in services and core.
package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Yordi314/lanomina/internal/metrics"
	"github.com/Yordi314/lanomina/internal/services"
)

type Server struct {
	http.Server

	ledger         *services.Ledger
	projector      *services.Projector
	defaultAccount string
	rateLimiter    *rateLimiter
}

func NewServer(addr string, ledger *services.Ledger, projector *services.Projector, defaultAccount string) *Server {
	s := &Server{
		ledger:         ledger,
		projector:      projector,
		defaultAccount: defaultAccount,
		rateLimiter:    newRateLimiter(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.withRateLimit)
	r.Use(withSecurityHeaders)
	r.Use(withRequestMetrics)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/snapshot", s.handleSnapshot)

	r.Route("/incomes", func(r chi.Router) {
		r.Get("/", s.handleListIncomes)
		r.Post("/", s.handleRecordIncome)
		r.Post("/external", s.handleRecordExternalIncome)
		r.Patch("/{id}", s.handleUpdateIncome)
		r.Delete("/{id}", s.handleDeleteIncome)
	})

	r.Post("/transfers", s.handleTransfer)

	r.Route("/expenses", func(r chi.Router) {
		r.Get("/", s.handleListExpenses)
		r.Post("/", s.handleAddExpense)
		r.Patch("/{id}", s.handleUpdateExpense)
		r.Delete("/{id}", s.handleDeleteExpense)
	})

	r.Route("/goals", func(r chi.Router) {
		r.Post("/", s.handleAddGoal)
		r.Patch("/{id}", s.handleUpdateGoal)
		r.Delete("/{id}", s.handleDeleteGoal)
		r.Post("/{id}/fund", s.handleFundGoal)
	})

	r.Route("/periodic-expenses", func(r chi.Router) {
		r.Post("/", s.handleAddPeriodicExpense)
		r.Patch("/{id}", s.handleUpdatePeriodicExpense)
		r.Delete("/{id}", s.handleDeletePeriodicExpense)
		r.Post("/{id}/fund", s.handleFundPeriodicExpense)
	})

	r.Route("/fixed-bills", func(r chi.Router) {
		r.Post("/", s.handleAddFixedBill)
		r.Patch("/{id}", s.handleUpdateFixedBill)
		r.Delete("/{id}", s.handleDeleteFixedBill)
	})

	r.Route("/loans", func(r chi.Router) {
		r.Post("/", s.handleAddLoan)
		r.Patch("/{id}", s.handleUpdateLoan)
		r.Delete("/{id}", s.handleDeleteLoan)
		r.Post("/{id}/status", s.handleToggleLoanStatus)
		r.Post("/{id}/pay", s.handlePayLoan)
	})

	r.Post("/admin/reset", s.handleResetAllData)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.stop()
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.allow(r.RemoteAddr) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

func withRequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(route, r.Method, strconv.Itoa(rw.status)).
			Observe(float64(time.Since(start).Milliseconds()))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
