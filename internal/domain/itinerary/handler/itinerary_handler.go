package handler

import (
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/planmesh-api/internal/domain/itinerary"
	"github.com/FACorreiaa/planmesh-api/internal/types"
	"github.com/FACorreiaa/planmesh-api/pkg/respond"
)

// ItineraryHandler exposes itinerary and avatar generation over HTTP.
type ItineraryHandler struct {
	svc    itinerary.Service
	logger *slog.Logger
}

func NewItineraryHandler(svc itinerary.Service, logger *slog.Logger) *ItineraryHandler {
	return &ItineraryHandler{svc: svc, logger: logger}
}

type ProfileImageRequest struct {
	Prompt string `json:"prompt" validate:"required,max=500"`
}

type ProfileImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

// GenerateItinerary handles POST /v1/itineraries.
func (h *ItineraryHandler) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	var form types.TripFormData
	if err := respond.Decode(w, r, &form); err != nil {
		respond.ServiceError(w, r, h.logger, err)
		return
	}
	if err := respond.Validate(form); err != nil {
		respond.ServiceError(w, r, h.logger, err)
		return
	}

	plan, err := h.svc.GenerateItinerary(r.Context(), form)
	if err != nil {
		respond.ServiceError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, plan, "itinerary generated")
}

// GenerateProfileImage handles POST /v1/profile/avatar.
func (h *ItineraryHandler) GenerateProfileImage(w http.ResponseWriter, r *http.Request) {
	var req ProfileImageRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.ServiceError(w, r, h.logger, err)
		return
	}
	if err := respond.Validate(req); err != nil {
		respond.ServiceError(w, r, h.logger, err)
		return
	}

	url, err := h.svc.GenerateProfileImage(r.Context(), req.Prompt)
	if err != nil {
		respond.ServiceError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, ProfileImageResponse{ImageURL: url}, "avatar generated")
}
