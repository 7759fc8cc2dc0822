package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/planmesh-api/internal/storage"
	"github.com/FACorreiaa/planmesh-api/internal/types"
	"github.com/FACorreiaa/planmesh-api/pkg/observability"
)

// dateLayout matches the en-US short date the web client shows, e.g. 3/14/2025.
const dateLayout = "1/2/2006"

var _ Service = (*ServiceImpl)(nil)

// Service keeps an append-only, newest-first list of saved trips per account.
type Service interface {
	SaveTrip(ctx context.Context, email string, itinerary types.Itinerary) (*types.SavedTrip, error)
	GetHistory(ctx context.Context, email string) ([]types.SavedTrip, error)
}

type ServiceImpl struct {
	logger  *slog.Logger
	gateway *storage.Gateway
	now     func() time.Time
	newID   func() (uuid.UUID, error)
}

func NewServiceImpl(gateway *storage.Gateway, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		gateway: gateway,
		now:     time.Now,
		newID:   uuid.NewV7,
	}
}

// SaveTrip always inserts a new snapshot at the head of the account's list.
func (s *ServiceImpl) SaveTrip(ctx context.Context, email string, itinerary types.Itinerary) (saved *types.SavedTrip, err error) {
	ctx, span := otel.Tracer("HistoryService").Start(ctx, "SaveTrip", trace.WithAttributes(
		attribute.String("user.email", email),
		attribute.String("trip.destination", itinerary.DestinationName),
	))
	defer span.End()
	defer func() { observability.AccountOperationsTotal.WithLabelValues("save_trip", observability.Outcome(err)).Inc() }()

	l := s.logger.With(slog.String("method", "SaveTrip"), slog.String("email", email))

	snapshot, err := itinerary.Clone()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	id, err := s.newID()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to generate trip id: %w", err)
	}

	trip := types.SavedTrip{
		ID:          id.String(),
		Date:        s.now().Format(dateLayout),
		Destination: snapshot.DestinationName,
		Data:        *snapshot,
	}

	err = s.gateway.UpdateTrips(ctx, func(trips map[string][]types.SavedTrip) error {
		list := trips[email]
		next := make([]types.SavedTrip, 0, len(list)+1)
		next = append(next, trip)
		trips[email] = append(next, list...)
		return nil
	})
	if err != nil {
		l.ErrorContext(ctx, "Failed to save trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		return nil, fmt.Errorf("save trip: %w", err)
	}

	l.InfoContext(ctx, "Trip saved", slog.String("tripID", trip.ID), slog.String("destination", trip.Destination))
	span.SetStatus(codes.Ok, "trip saved")
	return &trip, nil
}

// GetHistory returns the saved trips of email, newest first. An account with
// no trips gets an empty, non-nil slice.
func (s *ServiceImpl) GetHistory(ctx context.Context, email string) ([]types.SavedTrip, error) {
	ctx, span := otel.Tracer("HistoryService").Start(ctx, "GetHistory", trace.WithAttributes(
		attribute.String("user.email", email),
	))
	defer span.End()

	trips, err := s.gateway.Trips(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load trips", slog.String("email", email), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, fmt.Errorf("get history: %w", err)
	}

	list := trips[email]
	if list == nil {
		list = []types.SavedTrip{}
	}
	span.SetAttributes(attribute.Int("trip.count", len(list)))
	return list, nil
}
