package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/linguacards/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type authResponse struct {
	Message  string `json:"message"`
	Username string `json:"username,omitempty"`
	Token    string `json:"token"`
}

type dataResponse struct {
	Data any `json:"data"`
}

func (h *Handler) respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error(r.Context(), "failed to encode JSON response", "error", err)
	}
}

// respondError maps err to a status. Client errors carry msg; server errors
// are logged and answered with a generic message.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)

	switch {
	case status == http.StatusServiceUnavailable:
		h.log.Warn(r.Context(), "store unavailable", "error", err)
		msg = "Sync storage is busy or unavailable, try again later."
	case status >= http.StatusInternalServerError:
		h.log.Error(r.Context(), "request failed", "error", err)
		msg = "An internal server error occurred."
	case msg == "":
		msg = err.Error()
	}

	h.respondJSON(w, r, status, errorResponse{Error: msg})
}

// statusFor maps sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, common.ErrVersionConflict),
		errors.Is(err, common.ErrRemoteUnavailable),
		errors.Is(err, common.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
