package storage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourname/sleeprelay/internal"
)

const createEventsTable = `CREATE TABLE IF NOT EXISTS relay_events (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	page_id     TEXT NOT NULL DEFAULT '',
	occurred_at TIMESTAMPTZ NOT NULL,
	hours_slept DOUBLE PRECISION,
	status      TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	request_id  TEXT NOT NULL DEFAULT ''
)`

type PostgresJournal struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresJournal(ctx context.Context, dsn string, logger internal.Logger) (*PostgresJournal, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if _, err := pool.Exec(ctx, createEventsTable); err != nil {
		logger.Errorf("failed to create relay_events table: %v", err)
		pool.Close()
		return nil, err
	}
	return &PostgresJournal{pool: pool, logger: logger}, nil
}

func (p *PostgresJournal) Record(ctx context.Context, ev *internal.RelayEvent) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO relay_events (id, kind, page_id, occurred_at, hours_slept, status, error, request_id) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ev.ID, string(ev.Kind), ev.PageID, ev.OccurredAt, ev.HoursSlept, string(ev.Status), ev.Error, ev.RequestID)
	if err != nil {
		p.logger.Errorf("failed to insert relay event: %v", err)
		return err
	}
	return nil
}

func (p *PostgresJournal) List(ctx context.Context, limit int) ([]internal.RelayEvent, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, kind, page_id, occurred_at, hours_slept, status, error, request_id FROM relay_events ORDER BY occurred_at DESC LIMIT $1`, limit)
	if err != nil {
		p.logger.Errorf("failed to query relay events: %v", err)
		return nil, err
	}
	defer rows.Close()

	events := []internal.RelayEvent{}
	for rows.Next() {
		var ev internal.RelayEvent
		var kind, status string
		if err := rows.Scan(&ev.ID, &kind, &ev.PageID, &ev.OccurredAt, &ev.HoursSlept, &status, &ev.Error, &ev.RequestID); err != nil {
			p.logger.Errorf("failed to scan relay event: %v", err)
			return nil, err
		}
		ev.Kind = internal.EventKind(kind)
		ev.Status = internal.EventStatus(status)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (p *PostgresJournal) Close() error {
	p.pool.Close()
	return nil
}

var _ EventJournal = (*PostgresJournal)(nil)
