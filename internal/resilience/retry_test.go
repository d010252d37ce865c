package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}
}

func TestDoVal_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()
	calls := 0
	var retried []int
	cfg := fastRetry(3)
	cfg.OnRetry = func(attempt int, _ error) { retried = append(retried, attempt) }

	got, err := DoVal(context.Background(), cfg, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", NewTransientError(errors.New("overloaded"), 529)
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	t.Parallel()
	calls := 0
	err := Do(context.Background(), fastRetry(5), func(context.Context) error {
		calls++
		return errors.New("bad request")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	t.Parallel()
	calls := 0
	err := Do(context.Background(), fastRetry(3), func(context.Context) error {
		calls++
		return NewTransientError(errors.New("503"), 503)
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, RetryConfig{MaxAttempts: 5, InitialBackoff: time.Hour, MaxBackoff: time.Hour}, func(context.Context) error {
		calls++
		cancel()
		return NewTransientError(errors.New("timeout"), 504)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_CustomShouldRetry(t *testing.T) {
	t.Parallel()
	calls := 0
	cfg := fastRetry(3)
	cfg.ShouldRetry = func(error) bool { return true }
	_ = Do(context.Background(), cfg, func(context.Context) error {
		calls++
		return errors.New("anything")
	})
	assert.Equal(t, 3, calls)
}

func TestBackoff_CappedAndNonNegative(t *testing.T) {
	t.Parallel()
	cfg := applyDefaults(RetryConfig{InitialBackoff: time.Second, MaxBackoff: 2 * time.Second, JitterFraction: 0.5})
	for attempt := 0; attempt < 6; attempt++ {
		d := backoff(attempt, cfg)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 3*time.Second)
	}
}

func TestRetryLogger_DoesNotPanic(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() { RetryLogger("anthropic", "create_message")(1, errors.New("x")) })
}
