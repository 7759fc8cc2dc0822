package itinerary

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/FACorreiaa/planmesh-api/internal/llm"
	"github.com/FACorreiaa/planmesh-api/internal/types"
	"github.com/FACorreiaa/planmesh-api/pkg/observability"
)

const (
	jsonMimeType     = "application/json"
	defaultImageMime = "image/png"
)

// Config holds the generation settings. An empty APIKey disables both
// operations with types.ErrConfiguration. Temperature is sent as given,
// zero included.
type Config struct {
	APIKey      string
	Model       string
	ImageModel  string
	Temperature float32
}

var _ Service = (*ServiceImpl)(nil)

// Service turns trip requests into structured itineraries and avatar prompts
// into images.
type Service interface {
	GenerateItinerary(ctx context.Context, form types.TripFormData) (*types.Itinerary, error)
	GenerateProfileImage(ctx context.Context, prompt string) (string, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	client llm.ContentClient
	cfg    Config
}

// NewServiceImpl creates the itinerary service. client may be nil when no
// API key is configured.
func NewServiceImpl(cfg Config, client llm.ContentClient, logger *slog.Logger) *ServiceImpl {
	if cfg.Model == "" {
		cfg.Model = llm.DefaultTextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = llm.DefaultImageModel
	}
	return &ServiceImpl{logger: logger, client: client, cfg: cfg}
}

func (s *ServiceImpl) configured() error {
	if s.cfg.APIKey == "" || s.client == nil {
		return fmt.Errorf("%w: API key is missing, check GEMINI_API_KEY", types.ErrConfiguration)
	}
	return nil
}

// GenerateItinerary makes a single model call and returns the parsed,
// validated itinerary. The returned TransportMode always equals the form's.
func (s *ServiceImpl) GenerateItinerary(ctx context.Context, form types.TripFormData) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateItinerary", trace.WithAttributes(
		attribute.String("trip.origin", form.Origin),
		attribute.String("trip.destination", form.Destination),
		attribute.Int("trip.days", form.Days),
		attribute.String("trip.transport_mode", string(form.TransportMode)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GenerateItinerary"), slog.String("destination", form.Destination))

	if err := s.configured(); err != nil {
		l.WarnContext(ctx, "Itinerary requested without API key")
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing API key")
		observability.GenerationsTotal.WithLabelValues("itinerary", "unconfigured").Inc()
		return nil, err
	}

	form = form.WithDefaults()
	prompt := buildItineraryPrompt(form)
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: jsonMimeType,
		ResponseSchema:   itinerarySchema(),
		Temperature:      genai.Ptr(s.cfg.Temperature),
	}

	l.DebugContext(ctx, "Calling LLM for itinerary", slog.String("model", s.cfg.Model), slog.Int("prompt_length", len(prompt)))

	start := time.Now()
	resp, err := s.client.GenerateContent(ctx, s.cfg.Model, genai.Text(prompt), config)
	observability.GenerationDuration.WithLabelValues("itinerary").Observe(time.Since(start).Seconds())
	if err != nil {
		l.ErrorContext(ctx, "LLM request failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "LLM request failed")
		observability.GenerationsTotal.WithLabelValues("itinerary", "error").Inc()
		return nil, fmt.Errorf("itinerary request failed: %w", err)
	}

	itinerary, err := parseItinerary(responseText(resp))
	if err != nil {
		l.ErrorContext(ctx, "Failed to parse itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid itinerary payload")
		observability.GenerationsTotal.WithLabelValues("itinerary", "invalid").Inc()
		return nil, err
	}

	// The model does not echo the mode back reliably.
	itinerary.TransportMode = form.TransportMode

	l.InfoContext(ctx, "Itinerary generated",
		slog.Int("days", len(itinerary.Days)),
		slog.Duration("latency", time.Since(start)))
	span.SetStatus(codes.Ok, "itinerary generated")
	observability.GenerationsTotal.WithLabelValues("itinerary", "ok").Inc()
	return itinerary, nil
}

// GenerateProfileImage returns the generated avatar as a data URL.
func (s *ServiceImpl) GenerateProfileImage(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateProfileImage")
	defer span.End()

	l := s.logger.With(slog.String("method", "GenerateProfileImage"))

	if err := s.configured(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing API key")
		observability.GenerationsTotal.WithLabelValues("avatar", "unconfigured").Inc()
		return "", err
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	}

	start := time.Now()
	resp, err := s.client.GenerateContent(ctx, s.cfg.ImageModel, genai.Text(buildProfileImagePrompt(prompt)), config)
	observability.GenerationDuration.WithLabelValues("avatar").Observe(time.Since(start).Seconds())
	if err != nil {
		l.ErrorContext(ctx, "Image request failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "image request failed")
		observability.GenerationsTotal.WithLabelValues("avatar", "error").Inc()
		return "", fmt.Errorf("profile image request failed: %w", err)
	}

	blob := firstInlineData(resp)
	if blob == nil || len(blob.Data) == 0 {
		err := fmt.Errorf("%w: no image generated", types.ErrGeneration)
		l.WarnContext(ctx, "Image response carried no inline data")
		span.RecordError(err)
		span.SetStatus(codes.Error, "no image")
		observability.GenerationsTotal.WithLabelValues("avatar", "invalid").Inc()
		return "", err
	}

	mime := blob.MIMEType
	if mime == "" {
		mime = defaultImageMime
	}

	l.InfoContext(ctx, "Profile image generated", slog.Int("bytes", len(blob.Data)))
	span.SetStatus(codes.Ok, "image generated")
	observability.GenerationsTotal.WithLabelValues("avatar", "ok").Inc()
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(blob.Data), nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

func firstInlineData(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil {
			return part.InlineData
		}
	}
	return nil
}

// parseItinerary decodes and validates the model payload. Every failure is
// an ErrGeneration carrying the underlying reason.
func parseItinerary(payload string) (*types.Itinerary, error) {
	payload = stripCodeFence(payload)
	if payload == "" {
		return nil, fmt.Errorf("%w: no content generated", types.ErrGeneration)
	}

	var it types.Itinerary
	if err := json.Unmarshal([]byte(payload), &it); err != nil {
		return nil, fmt.Errorf("%w: malformed itinerary JSON: %w", types.ErrGeneration, err)
	}
	if err := types.Validator().Struct(it); err != nil {
		return nil, fmt.Errorf("%w: itinerary failed validation: %w", types.ErrGeneration, err)
	}
	for i, day := range it.Days {
		if day.DayNumber != i+1 {
			return nil, fmt.Errorf("%w: day %d is numbered %d", types.ErrGeneration, i+1, day.DayNumber)
		}
	}
	return &it, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
