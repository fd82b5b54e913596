// FILE: internal/service/poller_service.go
package service

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"ramein-web/internal/entity"
	"ramein-web/internal/pkg/logger"
)

// StatusFetcher is the external fetch capability the poller pulls from.
// Implementations report NotFound/Network/Auth failures upward untouched.
type StatusFetcher interface {
	FetchStatus(ctx context.Context, orderId string) (*entity.Transaction, error)
}

// PollState is the explicit polling state machine. "Stop on terminal" is a
// structural rule of Transition, not a scattered conditional.
type PollState int

const (
	PollIdle PollState = iota
	PollPolling
	PollTerminal
)

func (s PollState) String() string {
	switch s {
	case PollIdle:
		return "idle"
	case PollPolling:
		return "polling"
	case PollTerminal:
		return "terminal"
	}
	return "unknown"
}

// FetchResult is one status-fetch outcome fed into Transition.
type FetchResult struct {
	Transaction *entity.Transaction
	Err         error
}

// Transition computes the next poll state. Terminal is absorbing; a failed
// fetch keeps the machine in Polling (transient failures are expected and
// tolerated, they never halt future checks).
func Transition(state PollState, result FetchResult) PollState {
	if state == PollTerminal {
		return PollTerminal
	}
	if result.Err != nil {
		return PollPolling
	}
	if result.Transaction != nil && result.Transaction.PaymentStatus.IsTerminal() {
		return PollTerminal
	}
	return PollPolling
}

// Poller performs caller-driven status checks for one order. There is no
// autonomous retry loop: one fetch per timer tick or per manual action, and
// once the machine is Terminal further checks are refused without fetching.
type Poller struct {
	fetcher  StatusFetcher
	debounce *cache.Cache
	logger   logger.ILogger

	mu    sync.Mutex
	state PollState
	last  *entity.Transaction
}

func NewPoller(fetcher StatusFetcher, minCheckInterval time.Duration, log logger.ILogger) *Poller {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &Poller{
		fetcher:  fetcher,
		debounce: cache.New(minCheckInterval, time.Minute),
		logger:   log,
	}
}

func (p *Poller) State() PollState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Snapshot returns the last transaction this poller observed.
func (p *Poller) Snapshot() *entity.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Check performs one pull. In Terminal state it returns the last snapshot
// without touching the fetcher.
func (p *Poller) Check(ctx context.Context, orderId string) (*entity.Transaction, error) {
	p.mu.Lock()
	if p.state == PollTerminal {
		last := p.last
		p.mu.Unlock()
		return last, nil
	}
	p.state = PollPolling
	p.mu.Unlock()

	txn, err := p.fetcher.FetchStatus(ctx, orderId)

	p.mu.Lock()
	if p.state == PollTerminal {
		// A concurrent check reached Terminal while this fetch was in
		// flight. The terminal snapshot wins; this result is discarded.
		last := p.last
		p.mu.Unlock()
		return last, nil
	}
	p.state = Transition(p.state, FetchResult{Transaction: txn, Err: err})
	if txn != nil {
		p.last = txn
	}
	terminal := p.state == PollTerminal
	p.mu.Unlock()

	if err != nil {
		p.logger.Warn("POLLER", "Status check failed", map[string]interface{}{
			"order_id": orderId,
			"error":    err.Error(),
		})
		return nil, err
	}

	if vErr := txn.ValidateTotals(); vErr != nil {
		// Data-integrity anomaly: log it, keep the server-provided total.
		p.logger.Error("POLLER", "Transaction totals mismatch", map[string]interface{}{
			"order_id": orderId,
			"error":    vErr.Error(),
		})
	}

	if terminal {
		p.logger.Info("POLLER", "Terminal status observed, polling halts", map[string]interface{}{
			"order_id": orderId,
			"status":   string(txn.PaymentStatus),
		})
	}
	return txn, nil
}

// CheckManual is the "check status" button path. Repeated clicks inside the
// minimum interval are suppressed and get the cached snapshot instead.
func (p *Poller) CheckManual(ctx context.Context, orderId string) (*entity.Transaction, error) {
	if _, suppressed := p.debounce.Get(orderId); suppressed {
		p.logger.Debug("POLLER", "Manual check debounced", map[string]interface{}{
			"order_id": orderId,
		})
		return p.Snapshot(), nil
	}
	p.debounce.Set(orderId, struct{}{}, cache.DefaultExpiration)
	return p.Check(ctx, orderId)
}
