package resilience

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() Policy {
	return Policy{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestRetry_SuccessOnFirstAttempt(t *testing.T) {
	calls := 0
	v, err := Retry(context.Background(), fastPolicy(), func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 1, calls)
}

func TestRetry_SuccessAfterTransientFailures(t *testing.T) {
	calls := 0
	var retried []int
	p := fastPolicy()
	p.OnRetry = func(attempt int, _ error) { retried = append(retried, attempt) }

	v, err := Retry(context.Background(), p, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, Transient(errors.New("overloaded"))
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastPolicy(), func(context.Context) (int, error) {
		calls++
		return 0, Transient(errors.New("always"))
	})
	require.Error(t, err)
	assert.Equal(t, "always", err.Error())
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastPolicy(), func(context.Context) (int, error) {
		calls++
		return 0, errors.New("bad request")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_CustomRetryable(t *testing.T) {
	calls := 0
	p := fastPolicy()
	p.Retryable = func(err error) bool { return err.Error() == "again" }
	_, err := Retry(context.Background(), p, func(context.Context) (int, error) {
		calls++
		return 0, errors.New("again")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	p := Policy{Attempts: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}
	p.OnRetry = func(int, error) { cancel() }

	_, err := Retry(ctx, p, func(context.Context) (int, error) {
		calls++
		return 0, Transient(errors.New("slow"))
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestBackoff_CappedAndGrowing(t *testing.T) {
	p := Policy{BaseDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond}.withDefaults()
	assert.Equal(t, 100*time.Millisecond, p.backoff(0))
	assert.Equal(t, 200*time.Millisecond, p.backoff(1))
	assert.Equal(t, 300*time.Millisecond, p.backoff(5))

	p.Jitter = 0.5
	for range 20 {
		d := p.backoff(0)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "deadline" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"explicit", Transient(errors.New("x")), true},
		{"wrapped explicit", eris.Wrap(Transient(errors.New("x")), "narrate"), true},
		{"net timeout", fmt.Errorf("call: %w", timeoutErr{}), true},
		{"conn reset", fmt.Errorf("read: %w", syscall.ECONNRESET), true},
		{"string match", errors.New("write tcp: broken pipe"), true},
		{"permanent", errors.New("invalid api key"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
	assert.Nil(t, Transient(nil))
}

func TestLimiter(t *testing.T) {
	l := NewLimiter(0)
	for range 5 {
		require.NoError(t, l.Wait(context.Background()))
	}

	slow := NewLimiter(1)
	require.NoError(t, slow.Wait(context.Background()))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, slow.Wait(ctx), "second call within a second must wait past the deadline")
}

func TestKeyRing(t *testing.T) {
	r := NewKeyRing([]string{"a", "b", "c"})
	assert.Equal(t, 3, r.Len())

	var got []string
	for range 4 {
		k, _, ok := r.Next()
		require.True(t, ok)
		got = append(got, k)
	}
	assert.Equal(t, []string{"a", "b", "c", "a"}, got)

	_, slot, _ := r.Next() // b
	r.Retire(slot)
	assert.Equal(t, 2, r.Len())
	k, _, _ := r.Next()
	assert.Equal(t, "c", k)
	k, _, _ = r.Next()
	assert.Equal(t, "a", k)
	k, _, _ = r.Next()
	assert.Equal(t, "c", k)

	r.Retire(0)
	r.Retire(2)
	r.Retire(99)
	_, _, ok := r.Next()
	assert.False(t, ok)
	assert.Zero(t, r.Len())

	_, _, ok = NewKeyRing(nil).Next()
	assert.False(t, ok)
}
