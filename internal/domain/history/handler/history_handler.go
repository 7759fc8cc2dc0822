package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/planmesh-api/internal/domain/history"
	"github.com/FACorreiaa/planmesh-api/internal/types"
	"github.com/FACorreiaa/planmesh-api/pkg/respond"
)

// SessionReader resolves the account logged in on the calling client.
type SessionReader interface {
	CurrentUser(ctx context.Context) (*types.User, error)
}

type HistoryHandler struct {
	svc      history.Service
	sessions SessionReader
	logger   *slog.Logger
}

func NewHistoryHandler(svc history.Service, sessions SessionReader, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{svc: svc, sessions: sessions, logger: logger}
}

// SaveTrip handles POST /v1/trips.
func (h *HistoryHandler) SaveTrip(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}

	var plan types.Itinerary
	if err := respond.Decode(w, r, &plan); err != nil {
		respond.ServiceError(w, r, h.logger, err)
		return
	}
	if err := respond.Validate(plan); err != nil {
		respond.ServiceError(w, r, h.logger, err)
		return
	}

	saved, err := h.svc.SaveTrip(r.Context(), user.Email, plan)
	if err != nil {
		respond.ServiceError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusCreated, saved, "trip saved")
}

// GetHistory handles GET /v1/trips.
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}

	trips, err := h.svc.GetHistory(r.Context(), user.Email)
	if err != nil {
		respond.ServiceError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, trips, "")
}

func (h *HistoryHandler) sessionUser(w http.ResponseWriter, r *http.Request) (*types.User, bool) {
	user, err := h.sessions.CurrentUser(r.Context())
	if err != nil {
		respond.ServiceError(w, r, h.logger, err)
		return nil, false
	}
	if user == nil {
		respond.ServiceError(w, r, h.logger, types.ErrUnauthenticated)
		return nil, false
	}
	return user, true
}
