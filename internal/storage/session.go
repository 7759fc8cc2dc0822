package storage

import "context"

type sessionSlotKey struct{}

// WithSessionSlot binds the session slot of one client to ctx. Every client
// gets its own slot; without one the gateway uses the bare session key.
func WithSessionSlot(ctx context.Context, slot string) context.Context {
	return context.WithValue(ctx, sessionSlotKey{}, slot)
}

// SessionSlotFromContext returns the slot bound with WithSessionSlot.
func SessionSlotFromContext(ctx context.Context) (string, bool) {
	slot, ok := ctx.Value(sessionSlotKey{}).(string)
	return slot, ok && slot != ""
}
