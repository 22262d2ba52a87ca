package httpapi

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"willena/internal/logger"
)

func NewRouter(handler *Handler, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handler.healthz)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /swagger", handler.swaggerUI)
	mux.HandleFunc("GET /swagger/openapi.json", handler.swaggerSpec)
	mux.HandleFunc("GET /api/v1/progress/summary", handler.progressSummary)
	mux.HandleFunc("GET /api/v1/progress/stars", handler.starCounts)
	mux.HandleFunc("GET /api/v1/progress/challenging", handler.challengingWords)
	mux.HandleFunc("GET /api/v1/events", handler.eventRows)
	mux.HandleFunc("POST /api/v1/events/attempts", handler.recordAttempt)
	mux.HandleFunc("POST /api/v1/events/sessions", handler.startSession)
	mux.HandleFunc("POST /api/v1/events/sessions/close", handler.closeSession)

	return withRequestLogging(log, withCORS(withJSONContentType(mux)))
}

func withJSONContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.Header.Get("Content-Type") == "" {
			r.Header.Set("Content-Type", "application/json")
		}
		next.ServeHTTP(w, r)
	})
}

func withRequestLogging(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("request",
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"status", rec.status,
			"duration", time.Since(start).Truncate(time.Millisecond).String(),
			"remote", r.RemoteAddr,
		)
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "600")

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

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
