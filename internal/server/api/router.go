package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// NewRouter wires the handler behind request id, logging and panic recovery.
func NewRouter(h *Handler, log logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		h.respondJSON(w, req, http.StatusMethodNotAllowed, errorResponse{Error: "Method Not Allowed"})
	})
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		h.respondError(w, req, common.ErrNotFound, "Not found.")
	})

	r.Post("/api/proxy", h.Proxy)
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		h.respondJSON(w, req, http.StatusOK, messageResponse{Message: "ok"})
	})

	return r
}

// requestID reuses an incoming X-Request-Id or assigns a fresh UUID, storing
// it where middleware.GetReqID finds it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestLogger(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Info(r.Context(), "request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
