package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/logging"
	"github.com/dmitrijs2005/linguacards/internal/models"
	"github.com/dmitrijs2005/linguacards/internal/server/services"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 16 << 20

type Accounts interface {
	Register(ctx context.Context, username, password string) (*services.Session, error)
	Login(ctx context.Context, username, password string) (*services.Session, error)
	Authenticate(token string) (string, error)
}

type Syncer interface {
	Load(ctx context.Context, username string) (*models.SyncData, error)
	Merge(ctx context.Context, username string, data models.SyncData) (models.SyncData, error)
}

type Handler struct {
	accounts  Accounts
	sync      Syncer
	validator *validator.Validate
	log       logging.Logger
}

func NewHandler(accounts Accounts, sync Syncer, log logging.Logger) *Handler {
	return &Handler{
		accounts:  accounts,
		sync:      sync,
		validator: validator.New(),
		log:       log,
	}
}

type envelope struct {
	Action string `json:"action"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loadRequest struct {
	Username string `json:"username" validate:"required"`
}

type mergeRequest struct {
	Username string           `json:"username" validate:"required"`
	Data     *models.SyncData `json:"data" validate:"required"`
}

// Proxy dispatches on the "action" field of the body.
func (h *Handler) Proxy(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.respondError(w, r, fmt.Errorf("%w: %w", common.ErrInvalidPayload, err), "Request body is too large or unreadable.")
		return
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		h.respondError(w, r, fmt.Errorf("%w: %w", common.ErrInvalidPayload, err), "Invalid request format.")
		return
	}

	switch env.Action {
	case common.ActionPing:
		h.respondJSON(w, r, http.StatusOK, messageResponse{Message: "pong"})
	case common.ActionRegister:
		h.register(w, r, body)
	case common.ActionLogin:
		h.login(w, r, body)
	case common.ActionLoad:
		h.load(w, r, body)
	case common.ActionMerge:
		h.merge(w, r, body)
	default:
		h.respondError(w, r, common.ErrInvalidPayload, "Invalid or missing action.")
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request, body []byte) {
	var req registerRequest
	if !h.decode(w, r, body, &req) {
		return
	}

	session, err := h.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		msg := ""
		if errors.Is(err, common.ErrConflict) {
			msg = "Username is already taken."
		}
		h.respondError(w, r, err, msg)
		return
	}

	h.respondJSON(w, r, http.StatusCreated, authResponse{
		Message: "User registered successfully.",
		Token:   session.Token,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, body []byte) {
	var req loginRequest
	if !h.decode(w, r, body, &req) {
		return
	}

	session, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		msg := ""
		if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrUnauthorized) {
			msg = "Invalid username or password."
		}
		h.respondError(w, r, err, msg)
		return
	}

	h.respondJSON(w, r, http.StatusOK, authResponse{
		Message:  "Login successful.",
		Username: session.Username,
		Token:    session.Token,
	})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request, body []byte) {
	var req loadRequest
	if !h.decode(w, r, body, &req) || !h.authorize(w, r, req.Username) {
		return
	}

	data, err := h.sync.Load(r.Context(), req.Username)
	if err != nil {
		h.respondError(w, r, err, "")
		return
	}

	h.respondJSON(w, r, http.StatusOK, dataResponse{Data: data})
}

func (h *Handler) merge(w http.ResponseWriter, r *http.Request, body []byte) {
	var req mergeRequest
	if !h.decode(w, r, body, &req) || !h.authorize(w, r, req.Username) {
		return
	}

	if err := req.Data.Validate(); err != nil {
		h.respondError(w, r, err, "")
		return
	}

	merged, err := h.sync.Merge(r.Context(), req.Username, *req.Data)
	if err != nil {
		msg := ""
		if errors.Is(err, common.ErrNotFound) {
			msg = "User not found for sync."
		}
		h.respondError(w, r, err, msg)
		return
	}

	h.respondJSON(w, r, http.StatusOK, dataResponse{Data: merged})
}

// decode unmarshals and validates the action payload, answering 400 itself.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, body []byte, dst any) bool {
	if err := json.Unmarshal(body, dst); err != nil {
		h.respondError(w, r, fmt.Errorf("%w: %w", common.ErrInvalidPayload, err), "Invalid request format.")
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		h.respondError(w, r, fmt.Errorf("%w: %w", common.ErrInvalidPayload, err), validationMessage(err))
		return false
	}
	return true
}

// authorize checks that the bearer token was issued to username.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, username string) bool {
	header := r.Header.Get(common.AuthorizationHeaderName)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		h.respondError(w, r, common.ErrUnauthorized, "Authorization header required.")
		return false
	}

	owner, err := h.accounts.Authenticate(token)
	if err != nil {
		h.respondError(w, r, err, "Invalid or expired token.")
		return false
	}
	if owner != common.NormalizeUsername(username) {
		h.respondError(w, r, common.ErrUnauthorized, "Token does not belong to this user.")
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request."
	}

	fe := verrs[0]
	switch {
	case fe.Tag() == "required" && isCredentials(fe.StructNamespace()):
		return "Username and password are required."
	case fe.Tag() == "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case fe.Tag() == "min":
		return fmt.Sprintf("%s must be at least %s characters.", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid.", fe.Field())
}

func isCredentials(namespace string) bool {
	return strings.HasPrefix(namespace, "registerRequest.") || strings.HasPrefix(namespace, "loginRequest.")
}
