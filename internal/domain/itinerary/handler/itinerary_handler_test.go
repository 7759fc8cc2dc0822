package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/planmesh-api/internal/types"
	"github.com/FACorreiaa/planmesh-api/pkg/respond"
)

type stubService struct {
	itinerary  *types.Itinerary
	imageURL   string
	err        error
	lastForm   types.TripFormData
	lastPrompt string
	calls      int
}

func (s *stubService) GenerateItinerary(ctx context.Context, form types.TripFormData) (*types.Itinerary, error) {
	s.calls++
	s.lastForm = form
	return s.itinerary, s.err
}

func (s *stubService) GenerateProfileImage(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	return s.imageURL, s.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const validForm = `{
	"origin": "Mumbai",
	"destination": "Tokyo",
	"days": 3,
	"budget": "Moderate",
	"travelers": "Friends",
	"transportMode": "Train",
	"style": ["Cultural"]
}`

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) respond.Envelope {
	t.Helper()
	var raw struct {
		respond.Envelope
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.Envelope
}

func TestGenerateItinerary_Succeeds(t *testing.T) {
	svc := &stubService{itinerary: &types.Itinerary{DestinationName: "Tokyo", DurationDays: 3, TransportMode: types.TransportTrain}}
	h := NewItineraryHandler(svc, newTestLogger())

	rec := httptest.NewRecorder()
	h.GenerateItinerary(rec, httptest.NewRequest(http.MethodPost, "/v1/itineraries", strings.NewReader(validForm)))

	require.Equal(t, http.StatusOK, rec.Code)
	var got types.Itinerary
	env := decode(t, rec, &got)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "Tokyo", got.DestinationName)
	assert.Equal(t, types.TransportTrain, got.TransportMode)
	assert.Equal(t, "Mumbai", svc.lastForm.Origin)
	assert.Equal(t, []types.TravelStyle{types.TravelStyleCultural}, svc.lastForm.Style)
}

func TestGenerateItinerary_RejectsInvalidForms(t *testing.T) {
	tests := map[string]string{
		"too many days":     strings.Replace(validForm, `"days": 3`, `"days": 15`, 1),
		"zero days":         strings.Replace(validForm, `"days": 3`, `"days": 0`, 1),
		"missing origin":    strings.Replace(validForm, `"origin": "Mumbai",`, ``, 1),
		"unknown transport": strings.Replace(validForm, `"Train"`, `"Rocket"`, 1),
		"unknown style":     strings.Replace(validForm, `["Cultural"]`, `["Spooky"]`, 1),
		"unknown budget":    strings.Replace(validForm, `"Moderate"`, `"Infinite"`, 1),
		"malformed":         `{"origin":`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			svc := &stubService{}
			h := NewItineraryHandler(svc, newTestLogger())

			rec := httptest.NewRecorder()
			h.GenerateItinerary(rec, httptest.NewRequest(http.MethodPost, "/v1/itineraries", strings.NewReader(body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, svc.calls, "invalid forms never reach the model")
		})
	}
}

func TestGenerateItinerary_EmptyStyleIsAccepted(t *testing.T) {
	svc := &stubService{itinerary: &types.Itinerary{DestinationName: "Tokyo"}}
	h := NewItineraryHandler(svc, newTestLogger())

	body := strings.Replace(validForm, `["Cultural"]`, `[]`, 1)
	rec := httptest.NewRecorder()
	h.GenerateItinerary(rec, httptest.NewRequest(http.MethodPost, "/v1/itineraries", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.calls)
}

func TestGenerateItinerary_ServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing key", fmt.Errorf("generate: %w", types.ErrConfiguration), http.StatusServiceUnavailable},
		{"bad model output", fmt.Errorf("parse: %w", types.ErrGeneration), http.StatusBadGateway},
		{"unexpected", fmt.Errorf("network down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewItineraryHandler(&stubService{err: tt.err}, newTestLogger())

			rec := httptest.NewRecorder()
			h.GenerateItinerary(rec, httptest.NewRequest(http.MethodPost, "/v1/itineraries", strings.NewReader(validForm)))

			assert.Equal(t, tt.want, rec.Code)
			env := decode(t, rec, nil)
			assert.Equal(t, "error", env.Status)
		})
	}
}

func TestGenerateProfileImage(t *testing.T) {
	t.Run("succeeds", func(t *testing.T) {
		svc := &stubService{imageURL: "data:image/png;base64,aW1n"}
		h := NewItineraryHandler(svc, newTestLogger())

		rec := httptest.NewRecorder()
		h.GenerateProfileImage(rec, httptest.NewRequest(http.MethodPost, "/v1/profile/avatar", strings.NewReader(`{"prompt":"pixel art explorer"}`)))

		require.Equal(t, http.StatusOK, rec.Code)
		var got ProfileImageResponse
		decode(t, rec, &got)
		assert.Equal(t, "data:image/png;base64,aW1n", got.ImageURL)
		assert.Equal(t, "pixel art explorer", svc.lastPrompt)
	})

	t.Run("empty prompt", func(t *testing.T) {
		svc := &stubService{}
		h := NewItineraryHandler(svc, newTestLogger())

		rec := httptest.NewRecorder()
		h.GenerateProfileImage(rec, httptest.NewRequest(http.MethodPost, "/v1/profile/avatar", strings.NewReader(`{"prompt":""}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, svc.calls)
	})

	t.Run("no image", func(t *testing.T) {
		h := NewItineraryHandler(&stubService{err: fmt.Errorf("%w: no image generated", types.ErrGeneration)}, newTestLogger())

		rec := httptest.NewRecorder()
		h.GenerateProfileImage(rec, httptest.NewRequest(http.MethodPost, "/v1/profile/avatar", strings.NewReader(`{"prompt":"cat"}`)))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}
