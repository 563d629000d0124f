package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockmarket/internal/apperrors"
	"stockmarket/internal/model"
	"stockmarket/internal/scheduler"
	"stockmarket/internal/testutil"
)

// fakeUpdater records batch invocations without touching a database.
type fakeUpdater struct {
	calls int
}

func (f *fakeUpdater) PopulateStocks(_ context.Context) (model.BatchReport, error) {
	f.calls++
	return model.BatchReport{Updated: true}, nil
}

func newTestNightly(t *testing.T) *scheduler.Nightly {
	t.Helper()

	n, err := scheduler.NewNightly(&fakeUpdater{}, testutil.NewTestLogger(t), time.UTC, time.Minute)
	if err != nil {
		t.Fatalf("NewNightly failed: %v", err)
	}
	return n
}

func TestNightly_NextWake(t *testing.T) {
	n := newTestNightly(t)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "before target wakes same day",
			now:  time.Date(2026, 8, 27, 15, 0, 0, 0, time.UTC),
			want: time.Date(2026, 8, 27, 16, 30, 0, 0, time.UTC),
		},
		{
			name: "after target rolls to next day",
			now:  time.Date(2026, 8, 27, 17, 0, 0, 0, time.UTC),
			want: time.Date(2026, 8, 28, 16, 30, 0, 0, time.UTC),
		},
		{
			name: "exactly at target rolls to next day",
			now:  time.Date(2026, 8, 27, 16, 30, 0, 0, time.UTC),
			want: time.Date(2026, 8, 28, 16, 30, 0, 0, time.UTC),
		},
		{
			name: "just before midnight wakes next day",
			now:  time.Date(2026, 8, 27, 23, 59, 0, 0, time.UTC),
			want: time.Date(2026, 8, 28, 16, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.NextWake(tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("NextWake(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestNightly_Lifecycle(t *testing.T) {
	t.Run("start then stop succeeds", func(t *testing.T) {
		n := newTestNightly(t)

		if err := n.Start(); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		if err := n.Stop(); err != nil {
			t.Fatalf("Stop failed: %v", err)
		}
	})

	t.Run("double start reports already running", func(t *testing.T) {
		n := newTestNightly(t)

		if err := n.Start(); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		if err := n.Start(); !errors.Is(err, apperrors.ErrAlreadyRunning) {
			t.Errorf("Expected ErrAlreadyRunning, got %v", err)
		}
		if err := n.Stop(); err != nil {
			t.Fatalf("Stop failed: %v", err)
		}
	})

	t.Run("stop without start reports not running", func(t *testing.T) {
		n := newTestNightly(t)

		if err := n.Stop(); !errors.Is(err, apperrors.ErrNotRunning) {
			t.Errorf("Expected ErrNotRunning, got %v", err)
		}
	})

	t.Run("double stop reports not running", func(t *testing.T) {
		n := newTestNightly(t)

		if err := n.Start(); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		if err := n.Stop(); err != nil {
			t.Fatalf("Stop failed: %v", err)
		}
		if err := n.Stop(); !errors.Is(err, apperrors.ErrNotRunning) {
			t.Errorf("Expected ErrNotRunning, got %v", err)
		}
	})

	t.Run("can restart after stop", func(t *testing.T) {
		n := newTestNightly(t)

		if err := n.Start(); err != nil {
			t.Fatalf("First start failed: %v", err)
		}
		if err := n.Stop(); err != nil {
			t.Fatalf("Stop failed: %v", err)
		}
		if err := n.Start(); err != nil {
			t.Fatalf("Restart failed: %v", err)
		}
		if err := n.Stop(); err != nil {
			t.Fatalf("Final stop failed: %v", err)
		}
	})

	t.Run("stop does not trigger an update", func(t *testing.T) {
		updater := &fakeUpdater{}
		n, err := scheduler.NewNightly(updater, testutil.NewTestLogger(t), time.UTC, time.Minute)
		if err != nil {
			t.Fatalf("NewNightly failed: %v", err)
		}

		if err := n.Start(); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		if err := n.Stop(); err != nil {
			t.Fatalf("Stop failed: %v", err)
		}

		if updater.calls != 0 {
			t.Errorf("Expected no update during wait, got %d calls", updater.calls)
		}
	})
}
