package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ramein-web/internal/apiclient"
	"ramein-web/internal/entity"
	"ramein-web/internal/pkg/apperrors"
)

type stubClient struct {
	apiclient.IRameinClient
	createTxn    *entity.Transaction
	createErr    error
	getTxn       *entity.Transaction
	getErr       error
	summary      *entity.PaymentSummary
	summaryCalls int
}

func (c *stubClient) CreateTransaction(ctx context.Context, token, eventId string) (*entity.Transaction, error) {
	return c.createTxn, c.createErr
}

func (c *stubClient) GetTransaction(ctx context.Context, token, orderId string) (*entity.Transaction, error) {
	return c.getTxn, c.getErr
}

func (c *stubClient) GetPaymentSummary(ctx context.Context, token, eventId string) (*entity.PaymentSummary, error) {
	c.summaryCalls++
	return c.summary, nil
}

type stubGateway struct {
	ready     bool
	clientKey string
	status    entity.PaymentStatus
	err       error
}

func (g *stubGateway) Ready() bool       { return g.ready }
func (g *stubGateway) ClientKey() string { return g.clientKey }
func (g *stubGateway) CheckTransaction(orderId string) (entity.PaymentStatus, error) {
	return g.status, g.err
}

type navRecorder struct {
	success []string
	pending []string
	failed  []string
}

func (n *navRecorder) ToSuccess(orderId string) { n.success = append(n.success, orderId) }
func (n *navRecorder) ToPending(orderId string) { n.pending = append(n.pending, orderId) }
func (n *navRecorder) ToError(orderId string)   { n.failed = append(n.failed, orderId) }

func (n *navRecorder) total() int {
	return len(n.success) + len(n.pending) + len(n.failed)
}

func TestInitiatePaymentWidgetNotReady(t *testing.T) {
	coord := NewRedirectCoordinator(&stubClient{}, &stubGateway{ready: false}, nil)

	_, err := coord.InitiatePayment(context.Background(), &navRecorder{}, "token", "EVT-1")
	assert.ErrorIs(t, err, apperrors.ErrWidgetNotReady)
}

func TestInitiatePaymentCreateFailureIsRecoverable(t *testing.T) {
	client := &stubClient{createErr: apperrors.NewNetworkError("/transactions", errors.New("timeout"))}
	coord := NewRedirectCoordinator(client, &stubGateway{ready: true}, nil)
	nav := &navRecorder{}

	_, err := coord.InitiatePayment(context.Background(), nav, "token", "EVT-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsRecoverable(err))
	assert.Zero(t, nav.total(), "a failed creation must not navigate")
}

func TestInitiatePaymentInstantPaidSkipsWidget(t *testing.T) {
	txn := paidTxn("ORDER-FREE")
	coord := NewRedirectCoordinator(&stubClient{createTxn: txn}, &stubGateway{ready: true}, nil)
	nav := &navRecorder{}

	inv, err := coord.InitiatePayment(context.Background(), nav, "token", "EVT-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"ORDER-FREE"}, nav.success)

	// The invocation is already handled: a stray widget callback is dropped.
	handled := coord.HandleOutcome(nav, inv, entity.WidgetOutcome{Kind: entity.WidgetOutcomeSuccess, OrderId: "ORDER-FREE"})
	assert.False(t, handled)
	assert.Equal(t, 1, nav.total())
}

func TestInitiatePaymentMissingSnapToken(t *testing.T) {
	txn := pendingTxn("ORDER-1") // no snap token set
	coord := NewRedirectCoordinator(&stubClient{createTxn: txn}, &stubGateway{ready: true}, nil)

	_, err := coord.InitiatePayment(context.Background(), &navRecorder{}, "token", "EVT-1")
	assert.ErrorIs(t, err, apperrors.ErrGatewayUnavailable)
}

func TestInitiatePaymentReturnsWidgetInvocation(t *testing.T) {
	txn := pendingTxn("ORDER-1")
	txn.SnapToken = "snap-abc123"
	coord := NewRedirectCoordinator(&stubClient{createTxn: txn}, &stubGateway{ready: true}, nil)
	nav := &navRecorder{}

	inv, err := coord.InitiatePayment(context.Background(), nav, "token", "EVT-1")
	require.NoError(t, err)
	assert.Equal(t, "snap-abc123", inv.Transaction.SnapToken)
	assert.Zero(t, nav.total(), "widget path must not navigate before a callback")
}

func TestHandleOutcomeRouting(t *testing.T) {
	tests := []struct {
		kind        entity.WidgetOutcomeKind
		wantSuccess int
		wantPending int
		wantFailed  int
	}{
		{entity.WidgetOutcomeSuccess, 1, 0, 0},
		{entity.WidgetOutcomePending, 0, 1, 0},
		{entity.WidgetOutcomeError, 0, 0, 1},
		{entity.WidgetOutcomeClosed, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			coord := NewRedirectCoordinator(&stubClient{}, &stubGateway{ready: true}, nil)
			nav := &navRecorder{}
			inv := &PaymentInvocation{Transaction: pendingTxn("ORDER-1")}

			handled := coord.HandleOutcome(nav, inv, entity.WidgetOutcome{Kind: tt.kind, OrderId: "ORDER-1"})
			assert.True(t, handled)
			assert.Len(t, nav.success, tt.wantSuccess)
			assert.Len(t, nav.pending, tt.wantPending)
			assert.Len(t, nav.failed, tt.wantFailed)
		})
	}
}

func TestHandleOutcomeDropsDuplicateCallback(t *testing.T) {
	coord := NewRedirectCoordinator(&stubClient{}, &stubGateway{ready: true}, nil)
	nav := &navRecorder{}
	inv := &PaymentInvocation{Transaction: pendingTxn("ORDER-1")}

	outcome := entity.WidgetOutcome{Kind: entity.WidgetOutcomeSuccess, OrderId: "ORDER-1"}
	assert.True(t, coord.HandleOutcome(nav, inv, outcome))
	assert.False(t, coord.HandleOutcome(nav, inv, outcome))
	assert.Equal(t, []string{"ORDER-1"}, nav.success, "navigation must fire exactly once")
}
