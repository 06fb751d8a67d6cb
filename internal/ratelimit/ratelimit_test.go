package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacerSpacesCallsByInterval(t *testing.T) {
	clock := time.Unix(1000, 0)
	var slept []time.Duration

	p := NewPacer(2 * time.Second)
	p.now = func() time.Time { return clock }
	p.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		clock = clock.Add(d)
		return nil
	}

	ctx := context.Background()

	require.NoError(t, p.Wait(ctx)) // first call is free
	assert.Empty(t, slept)

	require.NoError(t, p.Wait(ctx))
	require.Len(t, slept, 1)
	assert.Equal(t, 2*time.Second, slept[0])

	// caller was busy longer than the interval: no extra wait
	clock = clock.Add(5 * time.Second)
	require.NoError(t, p.Wait(ctx))
	assert.Len(t, slept, 1)
}

func TestPacerZeroIntervalNeverWaits(t *testing.T) {
	p := NewPacer(0)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Wait(ctx))
	}
}

func TestPacerHonorsCancellation(t *testing.T) {
	p := NewPacer(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, p.Wait(ctx))
	cancel()
	assert.ErrorIs(t, p.Wait(ctx), context.Canceled)
}

func TestBudget(t *testing.T) {
	b := NewBudget(2)
	assert.True(t, b.Take())
	assert.True(t, b.Take())
	assert.False(t, b.Take())
	assert.Equal(t, 2, b.Used())
}

func TestBudgetUnlimited(t *testing.T) {
	b := NewBudget(0)
	for i := 0; i < 100; i++ {
		require.True(t, b.Take())
	}
	assert.Equal(t, 100, b.Used())
}
