package generate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock - 대기 없이 Pacer를 검증하기 위한 가짜 시계
type fakeClock struct {
	current time.Time
	slept   []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) now() time.Time {
	return f.current
}

func (f *fakeClock) sleep(ctx context.Context, d time.Duration) error {
	f.slept = append(f.slept, d)
	f.current = f.current.Add(d)
	return nil
}

func TestPacer(t *testing.T) {
	ctx := context.Background()

	t.Run("first call passes immediately", func(t *testing.T) {
		clock := newFakeClock()
		p := NewPacer(10 * time.Second)
		p.now = clock.now
		p.sleep = clock.sleep

		require.NoError(t, p.Wait(ctx))
		assert.Empty(t, clock.slept)
	})

	t.Run("back-to-back calls wait the full interval", func(t *testing.T) {
		clock := newFakeClock()
		p := NewPacer(10 * time.Second)
		p.now = clock.now
		p.sleep = clock.sleep

		require.NoError(t, p.Wait(ctx))
		require.NoError(t, p.Wait(ctx))

		require.Len(t, clock.slept, 1)
		assert.Equal(t, 10*time.Second, clock.slept[0])
	})

	t.Run("elapsed time reduces the wait", func(t *testing.T) {
		clock := newFakeClock()
		p := NewPacer(10 * time.Second)
		p.now = clock.now
		p.sleep = clock.sleep

		require.NoError(t, p.Wait(ctx))
		clock.current = clock.current.Add(7 * time.Second)
		require.NoError(t, p.Wait(ctx))

		require.Len(t, clock.slept, 1)
		assert.Equal(t, 3*time.Second, clock.slept[0])
	})

	t.Run("no wait after the interval has fully passed", func(t *testing.T) {
		clock := newFakeClock()
		p := NewPacer(10 * time.Second)
		p.now = clock.now
		p.sleep = clock.sleep

		require.NoError(t, p.Wait(ctx))
		clock.current = clock.current.Add(15 * time.Second)
		require.NoError(t, p.Wait(ctx))

		assert.Empty(t, clock.slept)
	})

	t.Run("cancelled context interrupts the wait", func(t *testing.T) {
		clock := newFakeClock()
		p := NewPacer(10 * time.Second)
		p.now = clock.now
		p.sleep = func(ctx context.Context, d time.Duration) error {
			return context.Canceled
		}

		require.NoError(t, p.Wait(ctx))
		err := p.Wait(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
