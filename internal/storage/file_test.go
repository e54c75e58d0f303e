package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/sleeprelay/internal"
)

func event(id string, at time.Time) *internal.RelayEvent {
	return &internal.RelayEvent{ID: id, Kind: internal.EventSleep, OccurredAt: at, Status: internal.StatusOK}
}

func TestFileJournal_ListNewestFirst(t *testing.T) {
	file := filepath.Join(t.TempDir(), "events.json")
	j, err := newFileJournal(file, 10*time.Millisecond, internal.NopLogger())
	require.NoError(t, err)
	defer j.Close()

	now := time.Now().UTC()
	ctx := context.Background()
	require.NoError(t, j.Record(ctx, event("middle", now.Add(-time.Hour))))
	require.NoError(t, j.Record(ctx, event("newest", now)))
	require.NoError(t, j.Record(ctx, event("oldest", now.Add(-2*time.Hour))))

	events, err := j.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "newest", events[0].ID)
	assert.Equal(t, "middle", events[1].ID)
	assert.Equal(t, "oldest", events[2].ID)

	events, err = j.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestFileJournal_PersistsAcrossReopen(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "events.json")
	j, err := newFileJournal(file, time.Hour, internal.NopLogger())
	require.NoError(t, err)

	hours := 7.5
	ev := event("wake-1", time.Now().UTC())
	ev.Kind = internal.EventWake
	ev.HoursSlept = &hours
	require.NoError(t, j.Record(context.Background(), ev))
	require.NoError(t, j.Close())
	require.NoError(t, j.Close(), "close is idempotent")

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.True(t, info.Size() > 0)

	reopened, err := newFileJournal(file, time.Hour, internal.NopLogger())
	require.NoError(t, err)
	defer reopened.Close()
	events, err := reopened.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, internal.EventWake, events[0].Kind)
	require.NotNil(t, events[0].HoursSlept)
	assert.Equal(t, 7.5, *events[0].HoursSlept)
}

func TestFileJournal_DebouncedSave(t *testing.T) {
	file := filepath.Join(t.TempDir(), "events.json")
	j, err := newFileJournal(file, 10*time.Millisecond, internal.NopLogger())
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.Record(context.Background(), event("e1", time.Now())))
	assert.Eventually(t, func() bool {
		_, err := os.Stat(file)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFileJournal_EmptyFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	j, err := NewFileJournal(file, internal.NopLogger())
	require.NoError(t, err)
	defer j.Close()

	events, err := j.List(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestNewJournal_Backends(t *testing.T) {
	j, err := NewJournal(context.Background(), "none", "", "", internal.NopLogger())
	require.NoError(t, err)
	assert.IsType(t, NopJournal{}, j)

	_, err = NewJournal(context.Background(), "sqlite", "", "", internal.NopLogger())
	assert.Error(t, err)
}
