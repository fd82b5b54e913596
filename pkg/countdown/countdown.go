package countdown

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Remaining is the decomposed time left until an expiry deadline.
// Zero value with Expired=true is the terminal output.
type Remaining struct {
	Hours   int
	Minutes int
	Seconds int
	Expired bool
}

// String formats the remaining time as zero-padded HH:MM:SS.
func (r Remaining) String() string {
	if r.Expired {
		return "00:00:00"
	}
	return fmt.Sprintf("%02d:%02d:%02d", r.Hours, r.Minutes, r.Seconds)
}

// Tick converts an absolute expiry timestamp into the remaining time at now.
// Pure function: integer division of the millisecond difference, clamped at
// the expiry boundary. Once now >= expiredAt the result is Expired and stays
// Expired for every later now, clock skew included.
func Tick(now, expiredAt time.Time) Remaining {
	diffMs := expiredAt.UnixMilli() - now.UnixMilli()
	if diffMs <= 0 {
		return Remaining{Expired: true}
	}

	totalSeconds := diffMs / 1000
	return Remaining{
		Hours:   int(totalSeconds / 3600),
		Minutes: int(totalSeconds % 3600 / 60),
		Seconds: int(totalSeconds % 60),
	}
}

// Ticker owns the one-second repeating schedule for a single expiry deadline.
// The owning page session must call Stop exactly once on teardown; a dangling
// ticker is a resource leak.
type Ticker struct {
	expiredAt time.Time
	interval  time.Duration
	now       func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	expired bool
}

// NewTicker prepares a ticker for expiredAt. nowFn may be nil, defaulting to
// time.Now; tests inject a fake clock.
func NewTicker(expiredAt time.Time, nowFn func() time.Time) *Ticker {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Ticker{
		expiredAt: expiredAt,
		interval:  time.Second,
		now:       nowFn,
	}
}

// Start begins the repeating schedule and invokes onTick once immediately,
// then once per second. The expired transition is reported exactly once;
// later ticks keep the Expired output but onExpired does not re-fire.
// Start is a no-op if the ticker is already running.
func (t *Ticker) Start(ctx context.Context, onTick func(Remaining), onExpired func()) {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	ctx, t.cancel = context.WithCancel(ctx)
	t.running = true
	t.mu.Unlock()

	t.fire(onTick, onExpired)

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.fire(onTick, onExpired)
			}
		}
	}()
}

func (t *Ticker) fire(onTick func(Remaining), onExpired func()) {
	r := Tick(t.now(), t.expiredAt)

	t.mu.Lock()
	firstExpiry := r.Expired && !t.expired
	if firstExpiry {
		t.expired = true
	}
	t.mu.Unlock()

	if onTick != nil {
		onTick(r)
	}
	if firstExpiry && onExpired != nil {
		onExpired()
	}
}

// Stop releases the repeating schedule. Safe to call more than once.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.running = false
}

// Running reports whether the schedule is active. Used by leak checks.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
