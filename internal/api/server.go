// Package api exposes the allocation service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartkollect/kollect/internal/allocation"
	"github.com/smartkollect/kollect/internal/common"
	"github.com/smartkollect/kollect/internal/llm"
	"github.com/smartkollect/kollect/internal/metrics"
	"github.com/smartkollect/kollect/internal/payment"
	"github.com/smartkollect/kollect/internal/postgres"
)

// Store is everything the handlers need from the persistence layer. The
// Postgres store satisfies it; tests substitute fakes.
type Store interface {
	allocation.Store
	payment.Store

	ListAgents(ctx context.Context) ([]allocation.Agent, error)
	AgentAllocations(ctx context.Context, agentID uuid.UUID) ([]postgres.AllocationDetail, error)
	AllocationForAccount(ctx context.Context, accountID uuid.UUID) (*allocation.Allocation, error)
	AccountByID(ctx context.Context, id uuid.UUID) (*postgres.Account, error)
	PaymentBatch(ctx context.Context, id uuid.UUID) (*payment.Batch, error)
	PaymentsForAccount(ctx context.Context, accountID uuid.UUID) ([]postgres.PaymentDetail, error)
}

// Config controls request handling limits.
type Config struct {
	MaxUploadBytes int64
}

func DefaultConfig() Config {
	return Config{MaxUploadBytes: 32 << 20}
}

func (c Config) Merge(override Config) Config {
	result := c
	if override.MaxUploadBytes > 0 {
		result.MaxUploadBytes = override.MaxUploadBytes
	}
	return result
}

type Server struct {
	router   chi.Router
	store    Store
	alloc    *allocation.Service
	importer *payment.Importer
	provider llm.Provider
	cfg      Config
}

// NewServer wires the handlers. A nil store is tolerated: every data
// endpoint then answers with a configuration error, mirroring a deployment
// whose database credentials are missing.
func NewServer(store Store, provider llm.Provider, cfg *Config) *Server {
	logger := common.Logger()
	configuration := DefaultConfig()
	if cfg != nil {
		configuration = configuration.Merge(*cfg)
	}
	srv := &Server{
		router:   chi.NewRouter(),
		store:    store,
		provider: provider,
		cfg:      configuration,
	}
	if store != nil {
		srv.alloc = allocation.NewService(store)
		srv.importer = payment.NewImporter(store)
	} else {
		logger.Warn("api: no store configured; data endpoints will fail")
	}
	srv.routes()
	logger.Info("api: server ready", "store_configured", store != nil)
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = r.URL.Path
			}
			metrics.RequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(recorder.status)).Inc()
			logger.Debug("request", "method", r.Method, "path", r.URL.Path,
				"status", recorder.status, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	s.router.Get("/api/agents", s.handleListAgents)
	s.router.Get("/api/allocations", s.handleListAllocations)
	s.router.Post("/api/allocations", s.handleAllocate)
	s.router.Post("/api/allocations/bulk", s.handleBulkAllocate)
	s.router.Post("/api/payments/import", s.handlePaymentImport)
	s.router.Get("/api/payments/batches/{batchID}", s.handlePaymentBatch)
	s.router.Post("/api/analysis/customer", s.handleCustomerAnalysis)
	s.router.Get("/api/logs", s.handleLogs)
}

// requireStore answers with the configuration error when no database is
// wired and tells the caller whether to continue.
func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeError(w, http.StatusInternalServerError, "Server configuration error")
		return false
	}
	return true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", message)
	} else {
		logger.Warn("request failed", "status", status, "error", message)
	}
	writeJSON(w, status, map[string]string{"error": message})
}
