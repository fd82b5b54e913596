// FILE: internal/service/session_service.go
package service

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"ramein-web/internal/dto"
	"ramein-web/internal/entity"
	"ramein-web/internal/pkg/apperrors"
	"ramein-web/internal/pkg/logger"
	"ramein-web/pkg/countdown"
)

// Routes builds the client-observable outcome destinations, each taking
// order_id as a query parameter.
type Routes struct {
	ClientURL string
}

func (r Routes) Success(orderId string) string { return r.outcome("success", orderId) }
func (r Routes) Pending(orderId string) string { return r.outcome("pending", orderId) }
func (r Routes) Error(orderId string) string   { return r.outcome("error", orderId) }

func (r Routes) outcome(page, orderId string) string {
	return r.ClientURL + "/payment/" + page + "?order_id=" + url.QueryEscape(orderId)
}

// PaymentSession models one mounted payment page. It exclusively owns the
// transient Transaction snapshot (every write is a full replace), the
// countdown ticker, and the one-shot navigation gate shared by the poller
// and the widget outcomes. Unmount must be called exactly once on teardown.
type PaymentSession struct {
	Id      string
	OrderId string
	token   string

	routes Routes
	poller *Poller
	coord  *RedirectCoordinator
	logger logger.ILogger
	nowFn  func() time.Time

	mu             sync.Mutex
	mounted        bool
	generation     uint64
	snapshot       *entity.Transaction
	remaining      countdown.Remaining
	displayExpired bool
	processing     bool
	inv            *PaymentInvocation
	redirectTo     string
	navigated      bool
	ticker         *countdown.Ticker
}

func NewPaymentSession(token string, routes Routes, poller *Poller, coord *RedirectCoordinator, log logger.ILogger, nowFn func() time.Time) *PaymentSession {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	if nowFn == nil {
		nowFn = time.Now
	}
	return &PaymentSession{
		Id:      uuid.NewString(),
		token:   token,
		routes:  routes,
		poller:  poller,
		coord:   coord,
		logger:  log,
		nowFn:   nowFn,
		mounted: true,
	}
}

// Attach binds the "pay now" invocation to the session: snapshot the created
// transaction and start the countdown when a settlement deadline applies.
func (s *PaymentSession) Attach(ctx context.Context, inv *PaymentInvocation) {
	s.mu.Lock()
	s.inv = inv
	s.OrderId = inv.Transaction.OrderId
	s.processing = true
	s.mu.Unlock()

	s.applySnapshot(ctx, s.currentGeneration(), inv.Transaction)
}

// Resume rebuilds a session from a fetched transaction (pending page visited
// directly, or after a restart).
func (s *PaymentSession) Resume(ctx context.Context, txn *entity.Transaction) {
	s.mu.Lock()
	s.OrderId = txn.OrderId
	s.mu.Unlock()

	s.applySnapshot(ctx, s.currentGeneration(), txn)
}

// Poll performs one caller-driven status check. A response landing after
// Unmount or after a newer generation is discarded without any state write.
func (s *PaymentSession) Poll(ctx context.Context) error {
	return s.check(ctx, false)
}

// CheckNow is the manual "check status" action; it goes through the same
// poller but is debounced against repeated clicks.
func (s *PaymentSession) CheckNow(ctx context.Context) error {
	return s.check(ctx, true)
}

func (s *PaymentSession) check(ctx context.Context, manual bool) error {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return apperrors.ErrSessionClosed
	}
	gen := s.generation
	orderId := s.OrderId
	s.mu.Unlock()

	var (
		txn *entity.Transaction
		err error
	)
	if manual {
		txn, err = s.poller.CheckManual(ctx, orderId)
	} else {
		txn, err = s.poller.Check(ctx, orderId)
	}
	if err != nil {
		// Transient: the page stays interactive and keeps polling.
		return err
	}
	if txn != nil {
		s.applySnapshot(ctx, gen, txn)
	}
	return nil
}

// applySnapshot replaces the snapshot wholesale and reacts to what it says.
// Only the backend's paid verdict navigates; the timer's expiry never does.
func (s *PaymentSession) applySnapshot(ctx context.Context, gen uint64, txn *entity.Transaction) {
	s.mu.Lock()
	if !s.mounted || gen != s.generation {
		s.mu.Unlock()
		return
	}
	if s.snapshot != nil && s.snapshot.PaymentStatus.IsTerminal() &&
		txn.PaymentStatus != s.snapshot.PaymentStatus {
		// The first terminal result wins. A slower fetch that started
		// earlier must not roll the page back to a stale status.
		s.mu.Unlock()
		return
	}
	s.snapshot = txn
	paid := txn.PaymentStatus == entity.PaymentStatusPaid
	needsCountdown := txn.HasExpiry() && s.ticker == nil
	var staleTicker *countdown.Ticker
	if !txn.HasExpiry() && s.ticker != nil {
		// Deadline gone (superseded fetch or terminal state): release the
		// repeating schedule now instead of waiting for Unmount.
		staleTicker = s.ticker
		s.ticker = nil
	}
	s.mu.Unlock()

	if staleTicker != nil {
		staleTicker.Stop()
	}
	if needsCountdown {
		s.startCountdown(ctx, *txn.ExpiredAt)
	}
	if paid {
		s.ToSuccess(txn.OrderId)
	}
}

func (s *PaymentSession) startCountdown(ctx context.Context, expiredAt time.Time) {
	t := countdown.NewTicker(expiredAt, s.nowFn)

	s.mu.Lock()
	if !s.mounted || s.ticker != nil {
		s.mu.Unlock()
		return
	}
	s.ticker = t
	s.mu.Unlock()

	t.Start(ctx, s.onTick, s.onExpired)
}

func (s *PaymentSession) onTick(r countdown.Remaining) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted {
		return
	}
	s.remaining = r
}

func (s *PaymentSession) onExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted {
		return
	}
	// Display state only. The authoritative outcome comes from the backend,
	// so an expired clock never triggers navigation.
	s.displayExpired = true
	s.logger.Info("SESSION", "Countdown expired", map[string]interface{}{
		"order_id": s.OrderId,
	})
}

// HandleWidgetOutcome relays one widget callback into the coordinator.
func (s *PaymentSession) HandleWidgetOutcome(outcome entity.WidgetOutcome) error {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return apperrors.ErrSessionClosed
	}
	inv := s.inv
	s.mu.Unlock()

	if inv == nil {
		return apperrors.ErrWidgetNotReady
	}

	s.coord.HandleOutcome(s, inv, outcome)

	if outcome.Kind == entity.WidgetOutcomeClosed {
		s.mu.Lock()
		s.processing = false
		s.mu.Unlock()
	}
	return nil
}

// Navigator implementation: each destination passes through the shared
// one-shot gate, so repeated terminal observations cannot double-navigate.

func (s *PaymentSession) ToSuccess(orderId string) { s.navigate(s.routes.Success(orderId)) }
func (s *PaymentSession) ToPending(orderId string) { s.navigate(s.routes.Pending(orderId)) }
func (s *PaymentSession) ToError(orderId string)   { s.navigate(s.routes.Error(orderId)) }

func (s *PaymentSession) navigate(dest string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted || s.navigated {
		return
	}
	s.navigated = true
	s.redirectTo = dest
	s.logger.Info("SESSION", "Navigation decided", map[string]interface{}{
		"order_id": s.OrderId,
		"to":       dest,
	})
}

// Status renders the page-facing view of the session.
func (s *PaymentSession) Status() *dto.StatusResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := &dto.StatusResponse{
		OrderId:    s.OrderId,
		Expired:    s.displayExpired,
		RedirectTo: s.redirectTo,
	}
	if s.snapshot != nil {
		res.PaymentStatus = string(s.snapshot.PaymentStatus)
		res.Amount = s.snapshot.Amount
		res.AdminFee = s.snapshot.AdminFee
		res.TotalAmount = s.snapshot.TotalAmount
		res.PaymentMethod = s.snapshot.PaymentMethod
		res.VaNumber = s.snapshot.VaNumber
		res.BankName = s.snapshot.BankName
		if s.snapshot.HasExpiry() {
			res.Countdown = s.remaining.String()
		}
	}
	return res
}

// Snapshot returns the current transaction copy owned by this page.
func (s *PaymentSession) Snapshot() *entity.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Processing reports whether a "pay now" action is in flight.
func (s *PaymentSession) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

func (s *PaymentSession) Token() string {
	return s.token
}

// Unmount tears the page down: stops the countdown schedule and renders any
// in-flight fetch inert. Safe to call more than once.
func (s *PaymentSession) Unmount() {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = false
	s.generation++
	t := s.ticker
	s.ticker = nil
	s.mu.Unlock()

	if t != nil {
		t.Stop()
	}
}

// Mounted reports whether the page is still live.
func (s *PaymentSession) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

func (s *PaymentSession) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}
