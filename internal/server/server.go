// Package server wires the HTTP API.
package server

import (
	"net/http"
	"time"

	"Wheelcalc/internal/auth"
	"Wheelcalc/internal/calc/batch"
	"Wheelcalc/internal/calc/importer"
	"Wheelcalc/internal/calc/plotting"
	"Wheelcalc/internal/calc/report"
	"Wheelcalc/internal/calc/request"
	"Wheelcalc/internal/config"
	"Wheelcalc/internal/httputil"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// CORS answers preflight requests and allows any origin.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logging tags every request with an id and logs it once it completes.
// Panics become a 500 response.
func Logging(log *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", id)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			defer func() {
				if p := recover(); p != nil {
					log.Error("handler panicked",
						zap.String("request_id", id),
						zap.Any("panic", p),
						zap.Stack("stack"))
					httputil.InternalServerError(rec, "Internal server error")
				}
				log.Info("request",
					zap.String("request_id", id),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", rec.status),
					zap.Duration("took", time.Since(start)))
			}()
			next.ServeHTTP(rec, r)
		})
	}
}

// New builds the router. When cfg.TokenKey is set every calculation route
// requires a bearer token; /api/health stays open.
func New(cfg config.Config, log *zap.Logger) http.Handler {
	eval := request.NewEvaluator(log)
	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.Rate), cfg.Burst)

	// Calculation routes carry the limiter and, with a key, token auth.
	var tokens *auth.Tokens
	if cfg.TokenKey != "" {
		tokens = &auth.Tokens{Key: []byte(cfg.TokenKey)}
	}
	protect := func(h http.HandlerFunc) http.Handler {
		var out http.Handler = h
		if tokens != nil {
			out = tokens.AuthMiddleware(out)
		}
		return limiter.LimitMiddleware(out)
	}

	r := mux.NewRouter()
	r.Use(Logging(log))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSONError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSONOK(w, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	requestH := &request.Handler{Eval: eval, MaxBody: cfg.MaxBody}
	batchH := &batch.Handler{Eval: eval, Workers: cfg.BatchWorkers, MaxBody: cfg.MaxBody}
	reportH := &report.Handler{Eval: eval, MaxBody: cfg.MaxBody}
	plotH := &plotting.Handler{Eval: eval, MaxBody: cfg.MaxBody}
	importH := &importer.Handler{MaxBody: 8 * cfg.MaxBody}

	r.Handle("/api/calculate", protect(requestH.Calc)).Methods(http.MethodPost)
	r.Handle("/api/batch", protect(batchH.Calc)).Methods(http.MethodPost)
	r.Handle("/api/tools/report/pdf", protect(reportH.Generate)).Methods(http.MethodPost)
	r.Handle("/api/tools/plot", protect(plotH.Deformation)).Methods(http.MethodPost)
	r.Handle("/api/tools/import/xlsx", protect(importH.Wheels)).Methods(http.MethodPost)

	return CORS(r)
}
