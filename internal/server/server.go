// Package server exposes the advisor over HTTP: the three scoring
// operations under /v1, cache management, health, and prometheus metrics.
// Malformed input is the only client-visible failure; upstream trouble
// degrades inside the orchestrators and the endpoints still answer 200.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/exportdesk/advisor-cli/internal/cache"
	"github.com/exportdesk/advisor-cli/internal/matching"
	"github.com/exportdesk/advisor-cli/internal/model"
	"github.com/exportdesk/advisor-cli/internal/provider"
	"github.com/exportdesk/advisor-cli/internal/recommend"
	"github.com/exportdesk/advisor-cli/internal/simulate"
)

const (
	opRecommend = "recommend"
	opSimulate  = "simulate"
	opMatch     = "match"

	outcomeOK      = "ok"
	outcomeInvalid = "invalid"
	outcomeError   = "error"

	codeInvalidBody  = "invalid_body"
	codeInvalidInput = "invalid_input"
	codeInternal     = "internal_error"
)

// Config carries the server's dependencies. Everything is injected; the
// server owns no goroutines and no state beyond its metrics registry.
type Config struct {
	Recommender *recommend.Recommender
	Simulator   *simulate.Simulator
	Matcher     *matching.Matcher
	Cache       *cache.Cache
	Provider    provider.Interface

	// AllowedOrigins feeds the CORS middleware; nil allows any origin.
	AllowedOrigins []string
}

// Server is the HTTP front of the advisor.
type Server struct {
	cfg     Config
	metrics *metrics
	router  chi.Router
}

// New wires the route tree. Metrics live on a private registry so two
// servers in one process never fight over collector registration.
func New(cfg Config) *Server {
	s := &Server{cfg: cfg, metrics: newMetrics(cfg.Cache)}
	s.router = s.routes()
	return s
}

// Handler returns the fully wired route tree.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(requestLogger)

	r.Route("/v1", func(v1 chi.Router) {
		v1.Post("/recommendations", s.handleRecommend)
		v1.Post("/simulations", s.handleSimulate)
		v1.Post("/matches", s.handleMatch)
	})
	r.Get("/health", s.handleHealth)
	r.Get("/cache/stats", s.handleCacheStats)
	r.Delete("/cache", s.handleCacheClear)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())
	return r
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommend.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.reject(w, opRecommend, codeInvalidBody, "request body is not valid JSON")
		return
	}

	timer := prometheus.NewTimer(s.metrics.duration.WithLabelValues(opRecommend))
	res, err := s.cfg.Recommender.Recommend(r.Context(), req)
	timer.ObserveDuration()
	if err != nil {
		s.fail(w, opRecommend, err)
		return
	}

	s.metrics.requests.WithLabelValues(opRecommend, outcomeOK).Inc()
	if res.Source != recommend.SourceLive {
		s.metrics.fallbacks.WithLabelValues(res.Source).Inc()
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulate.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.reject(w, opSimulate, codeInvalidBody, "request body is not valid JSON")
		return
	}

	timer := prometheus.NewTimer(s.metrics.duration.WithLabelValues(opSimulate))
	res, err := s.cfg.Simulator.Simulate(r.Context(), req)
	timer.ObserveDuration()
	if err != nil {
		s.fail(w, opSimulate, err)
		return
	}

	s.metrics.requests.WithLabelValues(opSimulate, outcomeOK).Inc()
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matching.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.reject(w, opMatch, codeInvalidBody, "request body is not valid JSON")
		return
	}

	timer := prometheus.NewTimer(s.metrics.duration.WithLabelValues(opMatch))
	res, err := s.cfg.Matcher.Match(r.Context(), req)
	timer.ObserveDuration()
	if err != nil {
		s.fail(w, opMatch, err)
		return
	}

	s.metrics.requests.WithLabelValues(opMatch, outcomeOK).Inc()
	s.writeJSON(w, http.StatusOK, res)
}

type healthResponse struct {
	Status   string               `json:"status"`
	Provider model.ProviderStatus `json:"provider"`
	Time     time.Time            `json:"time"`
}

// handleHealth reports process liveness. The provider field carries
// upstream truth; the advisor keeps answering through its fallback tiers
// even when upstream is gone, so overall status stays "ok".
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Provider: s.cfg.Provider.Status(),
		Time:     time.Now().UTC(),
	})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.cfg.Cache.Stats())
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	n, err := s.cfg.Cache.Clear(r.Context())
	if err != nil {
		zap.L().Error("cache clear failed", zap.Error(err))
		s.writeErr(w, http.StatusInternalServerError, codeInternal, "cache could not be cleared")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"cleared": n})
}

// reject answers a request that never reached its orchestrator.
func (s *Server) reject(w http.ResponseWriter, op, code, msg string) {
	s.metrics.requests.WithLabelValues(op, outcomeInvalid).Inc()
	s.writeErr(w, http.StatusBadRequest, code, msg)
}

// fail translates an orchestrator error. Input validation is the only
// expected class; anything else means the caller's own context died.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	if model.IsInvalidInput(err) {
		s.metrics.requests.WithLabelValues(op, outcomeInvalid).Inc()
		s.writeErr(w, http.StatusBadRequest, codeInvalidInput, err.Error())
		return
	}
	s.metrics.requests.WithLabelValues(op, outcomeError).Inc()
	zap.L().Error("request failed", zap.String("operation", op), zap.Error(err))
	s.writeErr(w, http.StatusInternalServerError, codeInternal, "request could not be completed")
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("response write failed", zap.Error(err))
	}
}

func (s *Server) writeErr(w http.ResponseWriter, status int, code, msg string) {
	s.writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

// requestLogger logs one line per request. /metrics is skipped, scrapers
// would drown the log.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", chimw.GetReqID(r.Context())),
		)
	})
}
