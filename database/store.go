// Package database provides optional durable storage for the event log.
// Persistence is a collaborator, not part of the store's core contract: the
// in-memory log stays authoritative and a persistence failure never rolls
// back a committed append.
package database

import (
	"context"

	"histograph/graph"
)

// EventStore durably records committed events and replays them at startup.
// Implementations must keep events in version order.
type EventStore interface {
	// AppendEvent records one committed event.
	AppendEvent(ctx context.Context, e graph.Event) error

	// LoadEvents returns all persisted events in version order.
	LoadEvents(ctx context.Context) ([]graph.Event, error)

	// Close releases the underlying storage.
	Close() error
}
