package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestBreaker(t *testing.T) {
	t.Run("opens after threshold consecutive failures", func(t *testing.T) {
		b := New("backend", WithFailureThreshold(3))
		assert.Equal(t, StateChange{}, b.RecordFailure())
		assert.Equal(t, StateChange{}, b.RecordFailure())
		assert.Equal(t, StateChange{Opened: true}, b.RecordFailure())
		assert.Equal(t, StateOpen, b.State())
		assert.False(t, b.Allow())
	})

	t.Run("success resets the failure streak", func(t *testing.T) {
		b := New("backend", WithFailureThreshold(2))
		b.RecordFailure()
		b.RecordSuccess()
		b.RecordFailure()
		assert.Equal(t, StateClosed, b.State())
	})

	t.Run("allows a probe after cooldown and closes on success", func(t *testing.T) {
		clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
		b := New("backend", WithFailureThreshold(1), WithCooldown(time.Minute), WithClock(clock.Now))
		b.RecordFailure()
		assert.False(t, b.Allow())

		clock.t = clock.t.Add(time.Minute)
		assert.True(t, b.Allow())
		assert.Equal(t, StateHalfOpen, b.State())
		assert.Equal(t, StateChange{Closed: true}, b.RecordSuccess())
		assert.Equal(t, StateClosed, b.State())
	})

	t.Run("failed probe reopens the circuit", func(t *testing.T) {
		clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
		b := New("backend", WithFailureThreshold(1), WithCooldown(time.Second), WithClock(clock.Now))
		b.RecordFailure()
		clock.t = clock.t.Add(2 * time.Second)
		assert.True(t, b.Allow())
		assert.Equal(t, StateChange{Opened: true}, b.RecordFailure())
		assert.False(t, b.Allow())
	})

	t.Run("reset closes the circuit", func(t *testing.T) {
		b := New("backend", WithFailureThreshold(1))
		b.RecordFailure()
		b.Reset()
		assert.True(t, b.Allow())
		assert.Equal(t, "closed", b.State().String())
	})
}
