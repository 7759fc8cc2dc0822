package types

import (
	"encoding/json"
	"fmt"
)

type Coordinates struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

type Activity struct {
	Time          string `json:"time" validate:"required"`
	Title         string `json:"title" validate:"required"`
	Description   string `json:"description" validate:"required"`
	Location      string `json:"location,omitempty"`
	EstimatedCost string `json:"estimatedCost,omitempty"`
}

type DayPlan struct {
	DayNumber  int        `json:"dayNumber" validate:"min=1"`
	DailyQuote string     `json:"dailyQuote" validate:"required"`
	Theme      string     `json:"theme" validate:"required"`
	Summary    string     `json:"summary" validate:"required"`
	Activities []Activity `json:"activities" validate:"required,dive"`
}

type BookingSuggestions struct {
	HotelArea     string `json:"hotelArea" validate:"required"`
	TransportType string `json:"transportType" validate:"required"`
}

// Itinerary is the complete structured trip plan returned by the model.
// TransportMode is not generated; it is copied from the originating request.
type Itinerary struct {
	DestinationName    string             `json:"destinationName" validate:"required"`
	Coordinates        *Coordinates       `json:"coordinates" validate:"required"`
	OriginCoordinates  *Coordinates       `json:"originCoordinates" validate:"required"`
	DurationDays       int                `json:"durationDays" validate:"min=1"`
	TotalEstimatedCost string             `json:"totalEstimatedCost" validate:"required"`
	Currency           string             `json:"currency,omitempty"`
	ExchangeRateInfo   string             `json:"exchangeRateInfo" validate:"required"`
	Overview           string             `json:"overview" validate:"required"`
	Days               []DayPlan          `json:"days" validate:"required,min=1,dive"`
	PackingTips        []string           `json:"packingTips" validate:"required"`
	Precautions        []string           `json:"precautions" validate:"required"`
	YoutubeSearchTerms []string           `json:"youtubeSearchTerms" validate:"required"`
	SecretTips         []string           `json:"secretTips" validate:"required"`
	BookingSuggestions BookingSuggestions `json:"bookingSuggestions"`
	TransportMode      TransportMode      `json:"transportMode"`
}

// Clone returns a deep copy of the itinerary.
func (it *Itinerary) Clone() (*Itinerary, error) {
	raw, err := json.Marshal(it)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot itinerary: %w", err)
	}
	var out Itinerary
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to snapshot itinerary: %w", err)
	}
	return &out, nil
}
