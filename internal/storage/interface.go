package storage

import (
	"context"

	"github.com/yourname/sleeprelay/internal"
)

// EventJournal is the local audit trail of relay triggers. It is never consulted to
// decide which sleep record to close.
type EventJournal interface {
	Record(ctx context.Context, ev *internal.RelayEvent) error
	// List returns at most limit events, newest first.
	List(ctx context.Context, limit int) ([]internal.RelayEvent, error)
	Close() error
}
