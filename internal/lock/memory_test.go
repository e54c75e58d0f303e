package lock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/sleeprelay/internal"
)

func TestMemory_AcquireRelease(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	release, err := m.Acquire(ctx, "wake:db")
	require.NoError(t, err)

	_, err = m.Acquire(ctx, "wake:db")
	assert.ErrorIs(t, err, internal.ErrWakeInProgress)

	other, err := m.Acquire(ctx, "wake:other")
	require.NoError(t, err)
	other()

	release()
	release()

	again, err := m.Acquire(ctx, "wake:db")
	require.NoError(t, err)
	again()
}

func TestMemory_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemory().Acquire(ctx, "wake:db")
	assert.ErrorIs(t, err, context.Canceled)
}
