package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fast returns a policy with millisecond delays so tests stay quick.
func fast(attempts int) Policy {
	return Policy{
		MaxAttempts: attempts,
		Delays:      []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond},
	}
}

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
	assert.Equal(t, 3, Default().MaxAttempts)
}

func TestValidateRejectsBadSchedules(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
	}{
		{"zero attempts", Policy{MaxAttempts: 0}},
		{"too few delays", Policy{MaxAttempts: 3, Delays: []time.Duration{time.Second}}},
		{"non-increasing", Policy{MaxAttempts: 3, Delays: []time.Duration{time.Second, time.Second}}},
		{"decreasing", Policy{MaxAttempts: 3, Delays: []time.Duration{2 * time.Second, time.Second}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.policy.Validate())
		})
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := fast(3).Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRecoversMidSchedule(t *testing.T) {
	calls := 0
	var seen []Attempt
	err := fast(3).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	}, func(a Attempt) { seen = append(seen, a) })

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, seen, 2)
	assert.Equal(t, time.Duration(0), seen[0].Delay)
	assert.Error(t, seen[0].Err)
	assert.Equal(t, time.Millisecond, seen[1].Delay)
	assert.NoError(t, seen[1].Err)
}

func TestDoExhaustsSchedule(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := fast(3).Do(context.Background(), func(context.Context) error {
		calls++
		return boom
	}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := fast(3).Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return errors.New("transient")
	}, nil)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDelaysStrictlyIncrease(t *testing.T) {
	p := Default()
	for i := 2; i < p.MaxAttempts; i++ {
		assert.Greater(t, p.delayBefore(i+1), p.delayBefore(i))
	}
}
