package browser

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCallTimeout(t *testing.T) {
	t.Run("no deadline uses fallback", func(t *testing.T) {
		got, err := callTimeout(context.Background(), 0, 30*time.Second)
		if err != nil || got != 30*time.Second {
			t.Errorf("callTimeout() = %v, %v; want 30s", got, err)
		}
	})

	t.Run("explicit timeout wins over fallback", func(t *testing.T) {
		got, err := callTimeout(context.Background(), 5*time.Second, 30*time.Second)
		if err != nil || got != 5*time.Second {
			t.Errorf("callTimeout() = %v, %v; want 5s", got, err)
		}
	})

	t.Run("deadline shortens the call", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		got, err := callTimeout(ctx, 0, 30*time.Second)
		if err != nil {
			t.Fatalf("callTimeout() error = %v", err)
		}
		if got <= 0 || got > 2*time.Second {
			t.Errorf("callTimeout() = %v, want at most 2s", got)
		}
	})

	t.Run("later deadline keeps the driver timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
		defer cancel()

		got, err := callTimeout(ctx, 0, 30*time.Second)
		if err != nil || got != 30*time.Second {
			t.Errorf("callTimeout() = %v, %v; want 30s", got, err)
		}
	})

	t.Run("expired deadline", func(t *testing.T) {
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()

		if _, err := callTimeout(ctx, 0, 30*time.Second); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("callTimeout() error = %v, want deadline exceeded", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := callTimeout(ctx, 0, 30*time.Second); !errors.Is(err, context.Canceled) {
			t.Errorf("callTimeout() error = %v, want canceled", err)
		}
	})
}

func TestClassify(t *testing.T) {
	if err := classify("click", "#checkout", nil); err != nil {
		t.Errorf("classify(nil) = %v", err)
	}
	if err := classify("click", "#checkout", context.DeadlineExceeded); !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
	if err := classify("click", "#checkout", errors.New("detached")); errors.Is(err, ErrTimeout) {
		t.Errorf("unexpected ErrTimeout for %v", err)
	}
}
