// FILE: internal/service/redirect_service.go
package service

import (
	"context"
	"sync"

	"ramein-web/internal/apiclient"
	"ramein-web/internal/entity"
	"ramein-web/internal/gateway"
	"ramein-web/internal/pkg/apperrors"
	"ramein-web/internal/pkg/logger"
)

// Navigator owns the navigation decision to the terminal pages. The page
// session implements it with a one-shot gate; tests inject a recorder.
type Navigator interface {
	ToSuccess(orderId string)
	ToPending(orderId string)
	ToError(orderId string)
}

// PaymentInvocation is one "pay now" click: the created transaction plus the
// defensive one-shot guard over the widget's callback contract.
type PaymentInvocation struct {
	Transaction *entity.Transaction

	mu      sync.Mutex
	handled bool
}

// RedirectCoordinator bridges the "pay now" action to the widget's four
// possible outcomes and funnels each to exactly one destination.
type RedirectCoordinator struct {
	client  apiclient.IRameinClient
	gateway gateway.IMidtransGateway
	logger  logger.ILogger
}

func NewRedirectCoordinator(client apiclient.IRameinClient, gw gateway.IMidtransGateway, log logger.ILogger) *RedirectCoordinator {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &RedirectCoordinator{client: client, gateway: gw, logger: log}
}

// InitiatePayment creates the transaction and decides the path:
// already-paid (free event / instant approval) navigates straight to success
// with no widget; otherwise a snap token is required to open the widget.
// Creation failures are recoverable: the caller re-enables "pay now".
func (c *RedirectCoordinator) InitiatePayment(ctx context.Context, nav Navigator, token, eventId string) (*PaymentInvocation, error) {
	if !c.gateway.Ready() {
		return nil, apperrors.ErrWidgetNotReady
	}

	txn, err := c.client.CreateTransaction(ctx, token, eventId)
	if err != nil {
		c.logger.Warn("REDIRECT", "Transaction creation failed", map[string]interface{}{
			"event_id": eventId,
			"error":    err.Error(),
		})
		return nil, err
	}

	if vErr := txn.ValidateTotals(); vErr != nil {
		c.logger.Error("REDIRECT", "Transaction totals mismatch", map[string]interface{}{
			"order_id": txn.OrderId,
			"error":    vErr.Error(),
		})
	}

	if txn.PaymentStatus == entity.PaymentStatusPaid {
		c.logger.Info("REDIRECT", "Instant-paid transaction, skipping widget", map[string]interface{}{
			"order_id": txn.OrderId,
		})
		nav.ToSuccess(txn.OrderId)
		return &PaymentInvocation{Transaction: txn, handled: true}, nil
	}

	if txn.SnapToken == "" {
		return nil, apperrors.ErrGatewayUnavailable
	}

	return &PaymentInvocation{Transaction: txn}, nil
}

// HandleOutcome funnels one widget callback to its destination. The widget
// contract says only one callback fires per invocation; a callback firing
// twice is dropped here so navigation cannot double. Returns false when the
// outcome was a duplicate.
func (c *RedirectCoordinator) HandleOutcome(nav Navigator, inv *PaymentInvocation, outcome entity.WidgetOutcome) bool {
	inv.mu.Lock()
	if inv.handled {
		inv.mu.Unlock()
		c.logger.Warn("REDIRECT", "Duplicate widget callback dropped", map[string]interface{}{
			"order_id": outcome.OrderId,
			"kind":     string(outcome.Kind),
		})
		return false
	}
	inv.handled = true
	inv.mu.Unlock()

	switch outcome.Kind {
	case entity.WidgetOutcomeSuccess:
		nav.ToSuccess(outcome.OrderId)
	case entity.WidgetOutcomePending:
		nav.ToPending(outcome.OrderId)
	case entity.WidgetOutcomeError:
		nav.ToError(outcome.OrderId)
	case entity.WidgetOutcomeClosed:
		// User dismissed without a definitive outcome: control returns to
		// the page, no navigation.
	}

	c.logger.Info("REDIRECT", "Widget outcome handled", map[string]interface{}{
		"order_id": outcome.OrderId,
		"kind":     string(outcome.Kind),
	})
	return true
}
