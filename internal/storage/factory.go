package storage

import (
	"context"
	"fmt"

	"github.com/yourname/sleeprelay/internal"
)

// NewJournal picks a backend by name: "file", "postgres" or "none".
func NewJournal(ctx context.Context, backend, file, dsn string, logger internal.Logger) (EventJournal, error) {
	switch backend {
	case "file":
		return NewFileJournal(file, logger)
	case "postgres":
		return NewPostgresJournal(ctx, dsn, logger)
	case "none":
		return NopJournal{}, nil
	default:
		return nil, fmt.Errorf("storage: unknown journal backend %q", backend)
	}
}

type NopJournal struct{}

func (NopJournal) Record(context.Context, *internal.RelayEvent) error { return nil }
func (NopJournal) List(context.Context, int) ([]internal.RelayEvent, error) {
	return []internal.RelayEvent{}, nil
}
func (NopJournal) Close() error { return nil }

var _ EventJournal = NopJournal{}
