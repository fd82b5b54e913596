package countdown

import (
	"context"
	"testing"
	"time"
)

func TestTick(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		now         time.Time
		expiredAt   time.Time
		want        Remaining
		wantDisplay string
	}{
		{
			name:        "one hour left",
			now:         base,
			expiredAt:   base.Add(1 * time.Hour),
			want:        Remaining{Hours: 1},
			wantDisplay: "01:00:00",
		},
		{
			name:        "mixed components",
			now:         base,
			expiredAt:   base.Add(2*time.Hour + 5*time.Minute + 9*time.Second),
			want:        Remaining{Hours: 2, Minutes: 5, Seconds: 9},
			wantDisplay: "02:05:09",
		},
		{
			name:        "sub-second remainder truncates",
			now:         base,
			expiredAt:   base.Add(1500 * time.Millisecond),
			want:        Remaining{Seconds: 1},
			wantDisplay: "00:00:01",
		},
		{
			name:        "exactly at deadline",
			now:         base,
			expiredAt:   base,
			want:        Remaining{Expired: true},
			wantDisplay: "00:00:00",
		},
		{
			name:        "past deadline stays expired",
			now:         base.Add(10 * time.Minute),
			expiredAt:   base,
			want:        Remaining{Expired: true},
			wantDisplay: "00:00:00",
		},
		{
			name:        "hours are not capped at a day",
			now:         base,
			expiredAt:   base.Add(24 * time.Hour),
			want:        Remaining{Hours: 24},
			wantDisplay: "24:00:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tick(tt.now, tt.expiredAt)
			if got != tt.want {
				t.Errorf("Tick() = %+v, want %+v", got, tt.want)
			}
			if got.String() != tt.wantDisplay {
				t.Errorf("Tick().String() = %q, want %q", got.String(), tt.wantDisplay)
			}
		})
	}
}

func TestTickDescendsPerSecond(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expiredAt := base.Add(24 * time.Hour)

	want := []string{"23:59:59", "23:59:58", "23:59:57"}
	for i, w := range want {
		now := base.Add(time.Duration(i+1) * time.Second)
		if got := Tick(now, expiredAt).String(); got != w {
			t.Errorf("tick %d = %q, want %q", i+1, got, w)
		}
	}
}

func TestTickMonotoneExpiry(t *testing.T) {
	expiredAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Once past the deadline, every later now must still report Expired.
	for _, offset := range []time.Duration{0, time.Millisecond, time.Second, time.Hour, 48 * time.Hour} {
		got := Tick(expiredAt.Add(offset), expiredAt)
		if !got.Expired {
			t.Fatalf("Tick at deadline+%v: Expired = false, want true", offset)
		}
	}
}

func TestTickerFiresImmediately(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ticker := NewTicker(base.Add(time.Minute), func() time.Time { return base })
	defer ticker.Stop()

	var got []Remaining
	ticker.Start(context.Background(), func(r Remaining) {
		got = append(got, r)
	}, nil)

	// The first tick is synchronous with Start.
	if len(got) == 0 {
		t.Fatal("expected an immediate tick")
	}
	if got[0].Expired || got[0].Minutes != 1 {
		t.Errorf("first tick = %+v, want 1 minute remaining", got[0])
	}
	if !ticker.Running() {
		t.Error("ticker should be running after Start")
	}
}

func TestTickerExpiredFiresOnce(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	// Clock already past the deadline: the immediate tick reports expiry.
	ticker := NewTicker(base.Add(-time.Second), func() time.Time { return base })
	defer ticker.Stop()

	expiredCount := 0
	ticker.Start(context.Background(), nil, func() {
		expiredCount++
	})
	if expiredCount != 1 {
		t.Fatalf("onExpired fired %d times, want 1", expiredCount)
	}

	// A second Start must not re-fire the expiry transition.
	ticker.Start(context.Background(), nil, func() {
		expiredCount++
	})
	if expiredCount != 1 {
		t.Fatalf("onExpired fired %d times after restart attempt, want 1", expiredCount)
	}
}

func TestTickerStopIsIdempotent(t *testing.T) {
	ticker := NewTicker(time.Now().Add(time.Hour), nil)
	ticker.Start(context.Background(), nil, nil)

	ticker.Stop()
	ticker.Stop()

	if ticker.Running() {
		t.Error("ticker still running after Stop")
	}
}
