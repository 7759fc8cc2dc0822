package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/planmesh-api/internal/domain/account"
	"github.com/FACorreiaa/planmesh-api/internal/storage"
	"github.com/FACorreiaa/planmesh-api/internal/types"
	"github.com/FACorreiaa/planmesh-api/pkg/respond"
)

// TokenIssuer mints a bearer token bound to a client's session slot.
type TokenIssuer interface {
	Issue(clientID, email string) (string, error)
}

type AccountHandler struct {
	svc    account.Service
	tokens TokenIssuer
	logger *slog.Logger
}

func NewAccountHandler(svc account.Service, tokens TokenIssuer, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{svc: svc, tokens: tokens, logger: logger}
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the session user and a token for non-browser clients.
type AuthResponse struct {
	User  *types.User `json:"user"`
	Token string      `json:"token,omitempty"`
}

// Signup handles POST /v1/auth/signup.
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.svc.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respond.ServiceError(w, r, h.logger, err)
		return
	}
	h.writeAuth(w, r, http.StatusCreated, user, "account created")
}

// Login handles POST /v1/auth/login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.ServiceError(w, r, h.logger, err)
		return
	}
	h.writeAuth(w, r, http.StatusOK, user, "logged in")
}

// Logout handles POST /v1/auth/logout.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context()); err != nil {
		respond.ServiceError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, nil, "logged out")
}

// Me handles GET /v1/auth/me.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.CurrentUser(r.Context())
	if err != nil {
		respond.ServiceError(w, r, h.logger, err)
		return
	}
	if user == nil {
		respond.ServiceError(w, r, h.logger, types.ErrUnauthenticated)
		return
	}
	respond.JSON(w, r, http.StatusOK, user, "")
}

// UpdateProfile handles PUT /v1/profile. Only the session user may change
// their own record.
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	current, err := h.svc.CurrentUser(r.Context())
	if err != nil {
		respond.ServiceError(w, r, h.logger, err)
		return
	}
	if current == nil {
		respond.ServiceError(w, r, h.logger, types.ErrUnauthenticated)
		return
	}

	var user types.User
	if !h.decodeAndValidate(w, r, &user) {
		return
	}
	if user.Email != current.Email {
		respond.ServiceError(w, r, h.logger, fmt.Errorf("update profile of %s: %w", user.Email, types.ErrForbidden))
		return
	}

	updated, err := h.svc.UpdateProfile(r.Context(), user)
	if err != nil {
		respond.ServiceError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, updated, "profile updated")
}

func (h *AccountHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := respond.Decode(w, r, dst); err != nil {
		respond.ServiceError(w, r, h.logger, err)
		return false
	}
	if err := respond.Validate(dst); err != nil {
		respond.ServiceError(w, r, h.logger, err)
		return false
	}
	return true
}

func (h *AccountHandler) writeAuth(w http.ResponseWriter, r *http.Request, code int, user *types.User, message string) {
	resp := AuthResponse{User: user}
	if clientID, ok := storage.SessionSlotFromContext(r.Context()); ok && h.tokens != nil {
		token, err := h.tokens.Issue(clientID, user.Email)
		if err != nil {
			respond.ServiceError(w, r, h.logger, err)
			return
		}
		resp.Token = token
	}
	respond.JSON(w, r, code, resp, message)
}
