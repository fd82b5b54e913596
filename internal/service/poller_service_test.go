package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ramein-web/internal/entity"
	"ramein-web/internal/pkg/apperrors"
)

type stubFetcher struct {
	mu    sync.Mutex
	calls int
	txn   *entity.Transaction
	err   error
	block chan struct{}
}

func (f *stubFetcher) FetchStatus(ctx context.Context, orderId string) (*entity.Transaction, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.txn, f.err
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *stubFetcher) set(txn *entity.Transaction, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txn = txn
	f.err = err
}

func pendingTxn(orderId string) *entity.Transaction {
	return &entity.Transaction{
		OrderId:       orderId,
		PaymentStatus: entity.PaymentStatusPending,
		Amount:        50000,
		AdminFee:      5000,
		TotalAmount:   55000,
	}
}

func paidTxn(orderId string) *entity.Transaction {
	txn := pendingTxn(orderId)
	txn.PaymentStatus = entity.PaymentStatusPaid
	return txn
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name   string
		state  PollState
		result FetchResult
		want   PollState
	}{
		{
			name:   "pending keeps polling",
			state:  PollPolling,
			result: FetchResult{Transaction: pendingTxn("A")},
			want:   PollPolling,
		},
		{
			name:   "terminal status halts",
			state:  PollPolling,
			result: FetchResult{Transaction: paidTxn("A")},
			want:   PollTerminal,
		},
		{
			name:   "fetch error keeps polling",
			state:  PollPolling,
			result: FetchResult{Err: errors.New("boom")},
			want:   PollPolling,
		},
		{
			name:   "idle starts polling",
			state:  PollIdle,
			result: FetchResult{Transaction: pendingTxn("A")},
			want:   PollPolling,
		},
		{
			name:   "terminal is absorbing",
			state:  PollTerminal,
			result: FetchResult{Transaction: pendingTxn("A")},
			want:   PollTerminal,
		},
		{
			name:   "terminal absorbs errors too",
			state:  PollTerminal,
			result: FetchResult{Err: errors.New("boom")},
			want:   PollTerminal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transition(tt.state, tt.result))
		})
	}
}

func TestPollerHaltsOnTerminal(t *testing.T) {
	fetcher := &stubFetcher{txn: paidTxn("ORDER-1")}
	poller := NewPoller(fetcher, time.Second, nil)

	txn, err := poller.Check(context.Background(), "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, txn.PaymentStatus)
	assert.Equal(t, PollTerminal, poller.State())
	assert.Equal(t, 1, fetcher.callCount())

	// Further checks serve the snapshot without fetching.
	txn, err = poller.Check(context.Background(), "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, txn.PaymentStatus)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestPollerToleratesFetchErrors(t *testing.T) {
	fetcher := &stubFetcher{err: apperrors.NewNetworkError("/transactions/ORDER-1", errors.New("timeout"))}
	poller := NewPoller(fetcher, time.Second, nil)

	_, err := poller.Check(context.Background(), "ORDER-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsNetworkError(err))
	assert.Equal(t, PollPolling, poller.State())

	// A later check fetches again and can still succeed.
	fetcher.set(pendingTxn("ORDER-1"), nil)
	txn, err := poller.Check(context.Background(), "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPending, txn.PaymentStatus)
	assert.Equal(t, 2, fetcher.callCount())
}

// raceFetcher blocks its first fetch (pending) until released; later fetches
// return paid immediately.
type raceFetcher struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
}

func newRaceFetcher() *raceFetcher {
	return &raceFetcher{started: make(chan struct{}), release: make(chan struct{})}
}

func (f *raceFetcher) FetchStatus(ctx context.Context, orderId string) (*entity.Transaction, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()
	if n == 1 {
		close(f.started)
		<-f.release
		return pendingTxn(orderId), nil
	}
	return paidTxn(orderId), nil
}

func TestPollerLateFetchDoesNotClobberTerminal(t *testing.T) {
	fetcher := newRaceFetcher()
	poller := NewPoller(fetcher, time.Second, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		poller.Check(context.Background(), "ORDER-1")
	}()
	<-fetcher.started

	// A second check lands while the first fetch is still in flight.
	txn, err := poller.Check(context.Background(), "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, txn.PaymentStatus)
	assert.Equal(t, PollTerminal, poller.State())

	close(fetcher.release)
	<-done

	// The slower pending result must not roll the snapshot back.
	assert.Equal(t, entity.PaymentStatusPaid, poller.Snapshot().PaymentStatus)
	assert.Equal(t, PollTerminal, poller.State())
}

func TestPollerManualCheckDebounce(t *testing.T) {
	fetcher := &stubFetcher{txn: pendingTxn("ORDER-1")}
	poller := NewPoller(fetcher, 100*time.Millisecond, nil)

	_, err := poller.CheckManual(context.Background(), "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount())

	// Inside the window: suppressed, snapshot served instead.
	txn, err := poller.CheckManual(context.Background(), "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPending, txn.PaymentStatus)
	assert.Equal(t, 1, fetcher.callCount())

	// After the window a manual check fetches again.
	time.Sleep(150 * time.Millisecond)
	_, err = poller.CheckManual(context.Background(), "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.callCount())
}
