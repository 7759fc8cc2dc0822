package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/FACorreiaa/planmesh-api/internal/types"
)

// Collection keys. The values are serialized JSON documents.
const (
	UsersKey   = "planmesh_users"
	TripsKey   = "planmesh_trips"
	SessionKey = "planmesh_session"
)

// Gateway exposes the store as three named collections: users (email to
// record), trips (email to saved trips, newest first) and the session slot.
//
// Read-modify-write cycles are serialized within the process. Processes that
// share a backend are not coordinated and the last write wins.
type Gateway struct {
	store  Store
	logger *slog.Logger

	usersMu sync.Mutex
	tripsMu sync.Mutex
}

func NewGateway(store Store, logger *slog.Logger) *Gateway {
	return &Gateway{store: store, logger: logger}
}

// Store returns the underlying key-value store.
func (g *Gateway) Store() Store {
	return g.store
}

// Users returns the whole users collection. A missing collection is empty.
func (g *Gateway) Users(ctx context.Context) (map[string]types.UserRecord, error) {
	users := map[string]types.UserRecord{}
	if err := g.load(ctx, UsersKey, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUsers loads the users collection, applies fn and writes the result
// back. Nothing is written when fn returns an error.
func (g *Gateway) UpdateUsers(ctx context.Context, fn func(users map[string]types.UserRecord) error) error {
	g.usersMu.Lock()
	defer g.usersMu.Unlock()

	users, err := g.Users(ctx)
	if err != nil {
		return err
	}
	if err := fn(users); err != nil {
		return err
	}
	return g.save(ctx, UsersKey, users)
}

// Trips returns the whole trips collection. A missing collection is empty.
func (g *Gateway) Trips(ctx context.Context) (map[string][]types.SavedTrip, error) {
	trips := map[string][]types.SavedTrip{}
	if err := g.load(ctx, TripsKey, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

// UpdateTrips is the trips counterpart of UpdateUsers.
func (g *Gateway) UpdateTrips(ctx context.Context, fn func(trips map[string][]types.SavedTrip) error) error {
	g.tripsMu.Lock()
	defer g.tripsMu.Unlock()

	trips, err := g.Trips(ctx)
	if err != nil {
		return err
	}
	if err := fn(trips); err != nil {
		return err
	}
	return g.save(ctx, TripsKey, trips)
}

// Session returns the record held in the session slot of ctx, or nil.
func (g *Gateway) Session(ctx context.Context) (*types.UserRecord, error) {
	var rec types.UserRecord
	raw, err := g.store.Get(ctx, sessionKey(ctx))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &rec, nil
}

func (g *Gateway) SetSession(ctx context.Context, rec types.UserRecord) error {
	return g.save(ctx, sessionKey(ctx), rec)
}

func (g *Gateway) ClearSession(ctx context.Context) error {
	if err := g.store.Remove(ctx, sessionKey(ctx)); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func sessionKey(ctx context.Context) string {
	if slot, ok := SessionSlotFromContext(ctx); ok {
		return SessionKey + ":" + slot
	}
	return SessionKey
}

func (g *Gateway) load(ctx context.Context, key string, dst any) error {
	raw, err := g.store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		g.logger.ErrorContext(ctx, "Stored collection is not valid JSON", slog.String("key", key), slog.Any("error", err))
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (g *Gateway) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := g.store.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
