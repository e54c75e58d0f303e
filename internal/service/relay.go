package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/yourname/sleeprelay/internal"
	"github.com/yourname/sleeprelay/internal/lock"
	"github.com/yourname/sleeprelay/internal/notion"
	"github.com/yourname/sleeprelay/internal/storage"
)

const (
	SleepLoggedMessage = "Sleep time logged successfully!"
	NoOpenEntryMessage = "No recent sleep entry found to update with wake time."
	HealthMessage      = "Server is running. Try /log_sleep or /log_wake for logging."
)

// NotionAPI is the part of notion.Client the relay uses.
type NotionAPI interface {
	CreatePage(ctx context.Context, page notion.CreatePageRequest) (*notion.Response, error)
	QueryDatabase(ctx context.Context, databaseID string, query notion.QueryRequest) (*notion.Response, *notion.QueryResponse, error)
	UpdatePage(ctx context.Context, pageID string, update notion.UpdatePageRequest) (*notion.Response, error)
}

type RelayDeps struct {
	Notion     NotionAPI
	DatabaseID string
	Locker     lock.Locker
	Journal    storage.EventJournal
	Logger     internal.Logger
	Now        func() time.Time
}

// Relay turns sleep and wake triggers into Notion calls.
type Relay struct {
	notion     NotionAPI
	databaseID string
	locker     lock.Locker
	journal    storage.EventJournal
	logger     internal.Logger
	now        func() time.Time
}

func NewRelay(d RelayDeps) *Relay {
	if d.Locker == nil {
		d.Locker = lock.NewMemory()
	}
	if d.Journal == nil {
		d.Journal = storage.NopJournal{}
	}
	if d.Logger == nil {
		d.Logger = internal.NopLogger()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Relay{
		notion:     d.Notion,
		databaseID: d.DatabaseID,
		locker:     d.Locker,
		journal:    d.Journal,
		logger:     d.Logger,
		now:        d.Now,
	}
}

type SleepResult struct {
	Message string    `json:"message"`
	PageID  string    `json:"page_id,omitempty"`
	SleptAt time.Time `json:"sleep_time"`
}

type WakeResult struct {
	Message    string    `json:"message"`
	PageID     string    `json:"page_id"`
	WokeAt     time.Time `json:"wake_time"`
	HoursSlept float64   `json:"hours_slept"`
}

// latestFirst asks the store to order pages newest first instead of relying on
// its default order.
var latestFirst = notion.QueryRequest{
	Sorts: []notion.Sort{{Timestamp: "created_time", Direction: "descending"}},
}

func (r *Relay) RecordSleepStart(ctx context.Context) (*SleepResult, error) {
	now := r.now().UTC()
	ev := r.newEvent(ctx, internal.EventSleep, now)

	resp, err := r.notion.CreatePage(ctx, sleepPage(r.databaseID, now))
	if err != nil {
		r.fail(ctx, ev, err)
		return nil, err
	}
	if !resp.OK() {
		err := internal.ExternalError(string(resp.Body))
		r.fail(ctx, ev, err)
		return nil, err
	}

	ev.PageID = pageID(resp.Body)
	r.record(ctx, ev)
	r.logger.Infof("sleep entry created page=%s at=%s", ev.PageID, FormatTime(now))
	return &SleepResult{Message: SleepLoggedMessage, PageID: ev.PageID, SleptAt: now}, nil
}

func (r *Relay) RecordWakeEvent(ctx context.Context) (*WakeResult, error) {
	now := r.now().UTC()
	ev := r.newEvent(ctx, internal.EventWake, now)

	release, err := r.locker.Acquire(ctx, "wake:"+r.databaseID)
	if err != nil {
		if errors.Is(err, internal.ErrWakeInProgress) {
			err = internal.BusinessError(http.StatusConflict, "Wake already in progress, try again shortly.", err)
		}
		r.fail(ctx, ev, err)
		return nil, err
	}
	defer release()

	resp, result, err := r.notion.QueryDatabase(ctx, r.databaseID, latestFirst)
	if err != nil {
		r.fail(ctx, ev, err)
		return nil, err
	}
	if !resp.OK() {
		err := internal.ExternalError(string(resp.Body))
		r.fail(ctx, ev, err)
		return nil, err
	}

	if result.HasMore {
		r.logger.Warnf("query for %s returned a partial page of %d results; older entries were not scanned", r.databaseID, len(result.Results))
	}

	page, ok := FirstOpen(result.Results)
	if !ok {
		err := internal.BusinessError(http.StatusBadRequest, NoOpenEntryMessage, internal.ErrNoOpenRecord)
		r.fail(ctx, ev, err)
		return nil, err
	}
	rec, err := RecordFromPage(page)
	if err != nil {
		err = internal.TransportError("malformed sleep entry "+page.ID, err)
		r.fail(ctx, ev, err)
		return nil, err
	}

	hours := HoursSlept(*rec.SleepTime, now)
	ev.PageID = rec.ID
	ev.HoursSlept = &hours

	resp, err = r.notion.UpdatePage(ctx, rec.ID, wakeUpdate(now, hours))
	if err != nil {
		r.fail(ctx, ev, err)
		return nil, err
	}
	if !resp.OK() {
		err := internal.ExternalError(string(resp.Body))
		r.fail(ctx, ev, err)
		return nil, err
	}

	r.record(ctx, ev)
	r.logger.Infof("sleep entry closed page=%s hours=%.2f", rec.ID, hours)
	return &WakeResult{
		Message:    fmt.Sprintf("Wake time logged successfully! You slept %s hours.", strconv.FormatFloat(hours, 'f', -1, 64)),
		PageID:     rec.ID,
		WokeAt:     now,
		HoursSlept: hours,
	}, nil
}

// Events lists the journal, newest first.
func (r *Relay) Events(ctx context.Context, limit int) ([]internal.RelayEvent, error) {
	return r.journal.List(ctx, limit)
}

func (r *Relay) newEvent(ctx context.Context, kind internal.EventKind, at time.Time) *internal.RelayEvent {
	return &internal.RelayEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		OccurredAt: at,
		Status:     internal.StatusOK,
		RequestID:  RequestIDFrom(ctx),
	}
}

func (r *Relay) fail(ctx context.Context, ev *internal.RelayEvent, err error) {
	ev.Status = internal.StatusFailed
	ev.Error = err.Error()
	r.record(ctx, ev)
}

// record never fails the trigger; the journal is best effort.
func (r *Relay) record(ctx context.Context, ev *internal.RelayEvent) {
	if err := r.journal.Record(ctx, ev); err != nil {
		r.logger.Warnf("journal: failed to record %s event %s: %v", ev.Kind, ev.ID, err)
	}
}
