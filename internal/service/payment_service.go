// FILE: internal/service/payment_service.go
package service

import (
	"context"

	"ramein-web/internal/apiclient"
	"ramein-web/internal/config"
	"ramein-web/internal/dto"
	"ramein-web/internal/entity"
	"ramein-web/internal/gateway"
	"ramein-web/internal/mapper"
	"ramein-web/internal/pkg/apperrors"
	"ramein-web/internal/pkg/logger"
)

// IPaymentService is the page-facing payment surface: summary, checkout,
// status polling, widget outcome relay, and session teardown.
type IPaymentService interface {
	GetSummary(ctx context.Context, token, eventId string) (*entity.PaymentSummary, error)
	Checkout(ctx context.Context, token string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	PollStatus(ctx context.Context, token, orderId string) (*dto.StatusResponse, error)
	CheckStatus(ctx context.Context, token, orderId string) (*dto.StatusResponse, error)
	WidgetOutcome(ctx context.Context, token string, req *dto.WidgetOutcomeRequest) (*dto.StatusResponse, error)
	Cancel(ctx context.Context, token, orderId string) error
	MyTransactions(ctx context.Context, token string) ([]*dto.TransactionResponse, error)
	CloseSession(token, orderId string)
	Config() *dto.PaymentConfigResponse
}

type paymentService struct {
	client   apiclient.IRameinClient
	gw       gateway.IMidtransGateway
	coord    *RedirectCoordinator
	sessions *SessionStore
	routes   Routes
	cfg      config.PaymentConfig
	logger   logger.ILogger
}

func NewPaymentService(client apiclient.IRameinClient, gw gateway.IMidtransGateway, sessions *SessionStore, routes Routes, cfg config.PaymentConfig, log logger.ILogger) IPaymentService {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &paymentService{
		client:   client,
		gw:       gw,
		coord:    NewRedirectCoordinator(client, gw, log),
		sessions: sessions,
		routes:   routes,
		cfg:      cfg,
		logger:   log,
	}
}

// GetSummary serves the pre-payment summary (event, buyer, pricing). Fetched
// fresh on every visit: the summary is the input to transaction creation and
// must never be served stale across visits.
func (s *paymentService) GetSummary(ctx context.Context, token, eventId string) (*entity.PaymentSummary, error) {
	return s.client.GetPaymentSummary(ctx, token, eventId)
}

// Checkout is the "pay now" action: create the transaction, mount a payment
// session for it, and hand back either an instant redirect (free events) or
// the snap token that opens the widget.
func (s *paymentService) Checkout(ctx context.Context, token string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	sess := s.newSession(token)

	inv, err := s.coord.InitiatePayment(ctx, sess, token, req.EventId)
	if err != nil {
		return nil, err
	}

	// The countdown ticker must outlive this request.
	sess.Attach(context.Background(), inv)
	s.sessions.Put(sess)

	txn := inv.Transaction
	status := sess.Status()
	return &dto.CheckoutResponse{
		OrderId:    txn.OrderId,
		Status:     string(txn.PaymentStatus),
		SnapToken:  txn.SnapToken,
		RedirectTo: status.RedirectTo,
		SessionId:  sess.Id,
	}, nil
}

// PollStatus is one tick of the pending page's poll loop.
func (s *paymentService) PollStatus(ctx context.Context, token, orderId string) (*dto.StatusResponse, error) {
	sess, err := s.ensureSession(ctx, token, orderId)
	if err != nil {
		return nil, err
	}
	if err := sess.Poll(ctx); err != nil {
		return nil, err
	}
	return sess.Status(), nil
}

// CheckStatus is the manual "check status" action, debounced in the poller.
func (s *paymentService) CheckStatus(ctx context.Context, token, orderId string) (*dto.StatusResponse, error) {
	sess, err := s.ensureSession(ctx, token, orderId)
	if err != nil {
		return nil, err
	}
	if err := sess.CheckNow(ctx); err != nil {
		return nil, err
	}
	return sess.Status(), nil
}

// WidgetOutcome relays the Snap widget's callback for a live session. Only
// the session's owner may fire outcomes; a foreign caller must not be able
// to consume the one-shot navigation gate.
func (s *paymentService) WidgetOutcome(ctx context.Context, token string, req *dto.WidgetOutcomeRequest) (*dto.StatusResponse, error) {
	sess, ok := s.sessions.Get(req.OrderId)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if sess.Token() != token {
		return nil, apperrors.ErrAuth
	}

	outcome := entity.WidgetOutcome{
		Kind:    entity.WidgetOutcomeKind(req.Result),
		OrderId: req.OrderId,
		Message: req.Message,
	}
	if !outcome.Kind.Valid() {
		return nil, apperrors.ErrInternalServer
	}
	if err := sess.HandleWidgetOutcome(outcome); err != nil {
		return nil, err
	}
	return sess.Status(), nil
}

// Cancel aborts a pending transaction, then refreshes the session so the
// page sees the cancelled state on its next render.
func (s *paymentService) Cancel(ctx context.Context, token, orderId string) error {
	if err := s.client.CancelTransaction(ctx, token, orderId); err != nil {
		return err
	}
	if sess, ok := s.sessions.Get(orderId); ok {
		if err := sess.Poll(ctx); err != nil {
			s.logger.Warn("PAYMENT", "Post-cancel refresh failed", map[string]interface{}{
				"order_id": orderId,
				"error":    err.Error(),
			})
		}
	}
	return nil
}

func (s *paymentService) MyTransactions(ctx context.Context, token string) ([]*dto.TransactionResponse, error) {
	list, err := s.client.MyTransactions(ctx, token)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.TransactionResponse, 0, len(list))
	for _, txn := range list {
		res = append(res, mapper.ToTransactionResponse(txn))
	}
	return res, nil
}

// CloseSession is the page unmount signal. Only the owner may tear down.
func (s *paymentService) CloseSession(token, orderId string) {
	if sess, ok := s.sessions.Get(orderId); !ok || sess.Token() != token {
		return
	}
	s.sessions.Close(orderId)
}

// Config exposes the widget client key and the intended poll tick rate.
func (s *paymentService) Config() *dto.PaymentConfigResponse {
	return &dto.PaymentConfigResponse{
		ClientKey:      s.gw.ClientKey(),
		PollIntervalMs: s.cfg.PollInterval.Milliseconds(),
	}
}

func (s *paymentService) newSession(token string) *PaymentSession {
	fetcher := &backendStatusFetcher{
		client: s.client,
		gw:     s.gw,
		token:  token,
		logger: s.logger,
	}
	poller := NewPoller(fetcher, s.cfg.CheckDebounce, s.logger)
	return NewPaymentSession(token, s.routes, poller, s.coord, s.logger, nil)
}

// ensureSession returns the live session for orderId, rebuilding one from the
// backend when the page is visited without a prior checkout in this process.
func (s *paymentService) ensureSession(ctx context.Context, token, orderId string) (*PaymentSession, error) {
	if sess, ok := s.sessions.Get(orderId); ok {
		return sess, nil
	}

	txn, err := s.client.GetTransaction(ctx, token, orderId)
	if err != nil {
		return nil, err
	}
	sess := s.newSession(token)
	sess.Resume(context.Background(), txn)
	s.sessions.Put(sess)
	return sess, nil
}

// backendStatusFetcher pulls status from the Ramein backend, falling back to
// the gateway's own status endpoint when the backend is unreachable. The
// fallback snapshot carries status only, so the display degrades but the
// terminal decision still lands.
type backendStatusFetcher struct {
	client apiclient.IRameinClient
	gw     gateway.IMidtransGateway
	token  string
	logger logger.ILogger
}

func (f *backendStatusFetcher) FetchStatus(ctx context.Context, orderId string) (*entity.Transaction, error) {
	txn, err := f.client.GetTransaction(ctx, f.token, orderId)
	if err == nil {
		return txn, nil
	}
	if !apperrors.IsNetworkError(err) || !f.gw.Ready() {
		return nil, err
	}

	status, gwErr := f.gw.CheckTransaction(orderId)
	if gwErr != nil {
		return nil, err
	}
	f.logger.Warn("POLLER", "Backend unreachable, status served from gateway", map[string]interface{}{
		"order_id": orderId,
		"status":   string(status),
	})
	return &entity.Transaction{OrderId: orderId, PaymentStatus: status}, nil
}
