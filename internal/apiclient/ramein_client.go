// FILE: internal/apiclient/ramein_client.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ramein-web/internal/dto"
	"ramein-web/internal/entity"
	"ramein-web/internal/mapper"
	"ramein-web/internal/pkg/apperrors"
)

// IRameinClient wraps the external Ramein backend REST API. Every call takes
// the caller's bearer token explicitly; the client holds no ambient session
// state.
type IRameinClient interface {
	GetPaymentSummary(ctx context.Context, token, eventId string) (*entity.PaymentSummary, error)
	CreateTransaction(ctx context.Context, token, eventId string) (*entity.Transaction, error)
	GetTransaction(ctx context.Context, token, orderId string) (*entity.Transaction, error)
	CancelTransaction(ctx context.Context, token, orderId string) error
	MyTransactions(ctx context.Context, token string) ([]*entity.Transaction, error)

	// Admin reporting (read-only)
	ListTransactions(ctx context.Context, token string, filter *dto.TransactionListFilter) (*dto.TransactionListResponse, error)
	TransactionStats(ctx context.Context, token string) (*dto.TransactionStatsResponse, error)
	ExportTransactionsCSV(ctx context.Context, token string, filter *dto.TransactionListFilter) ([]byte, error)
}

type rameinClient struct {
	baseURL string
	http    *http.Client
}

func NewRameinClient(baseURL string, timeout time.Duration) IRameinClient {
	return &rameinClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *rameinClient) GetPaymentSummary(ctx context.Context, token, eventId string) (*entity.PaymentSummary, error) {
	var res dto.PaymentSummaryResponse
	path := fmt.Sprintf("/events/%s/payment-summary", url.PathEscape(eventId))
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &res); err != nil {
		return nil, err
	}
	return mapper.ToPaymentSummary(&res), nil
}

func (c *rameinClient) CreateTransaction(ctx context.Context, token, eventId string) (*entity.Transaction, error) {
	var res dto.TransactionResponse
	req := dto.CreateTransactionRequest{EventId: eventId}
	if err := c.doJSON(ctx, http.MethodPost, "/transactions", token, req, &res); err != nil {
		return nil, err
	}
	return mapper.ToTransaction(&res), nil
}

func (c *rameinClient) GetTransaction(ctx context.Context, token, orderId string) (*entity.Transaction, error) {
	var res dto.TransactionResponse
	path := "/transactions/" + url.PathEscape(orderId)
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &res); err != nil {
		return nil, err
	}
	return mapper.ToTransaction(&res), nil
}

func (c *rameinClient) CancelTransaction(ctx context.Context, token, orderId string) error {
	path := fmt.Sprintf("/transactions/%s/cancel", url.PathEscape(orderId))
	return c.doJSON(ctx, http.MethodPost, path, token, nil, nil)
}

func (c *rameinClient) MyTransactions(ctx context.Context, token string) ([]*entity.Transaction, error) {
	var res []dto.TransactionResponse
	if err := c.doJSON(ctx, http.MethodGet, "/transactions/mine", token, nil, &res); err != nil {
		return nil, err
	}
	list := make([]*entity.Transaction, 0, len(res))
	for i := range res {
		list = append(list, mapper.ToTransaction(&res[i]))
	}
	return list, nil
}

func (c *rameinClient) ListTransactions(ctx context.Context, token string, filter *dto.TransactionListFilter) (*dto.TransactionListResponse, error) {
	var res dto.TransactionListResponse
	path := "/admin/transactions" + filterQuery(filter)
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *rameinClient) TransactionStats(ctx context.Context, token string) (*dto.TransactionStatsResponse, error) {
	var res dto.TransactionStatsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/admin/transactions/stats", token, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *rameinClient) ExportTransactionsCSV(ctx context.Context, token string, filter *dto.TransactionListFilter) ([]byte, error) {
	path := "/admin/transactions/export" + filterQuery(filter)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "text/csv")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError(path, err)
	}
	defer resp.Body.Close()

	if err := statusToError(resp.StatusCode, path); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

// doJSON performs one backend call and decodes the enveloped `data` payload
// into out. Transport failures and error statuses map onto the error
// taxonomy; nothing is swallowed.
func (c *rameinClient) doJSON(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.NewNetworkError(path, err)
	}
	defer resp.Body.Close()

	if err := statusToError(resp.StatusCode, path); err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewNetworkError(path, err)
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		return json.Unmarshal(envelope.Data, out)
	}
	// Backend also serves bare payloads on some routes
	return json.Unmarshal(raw, out)
}

func statusToError(status int, path string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return apperrors.ErrNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.ErrAuth
	case status >= 500:
		return apperrors.NewNetworkError(path, fmt.Errorf("backend returned %d", status))
	default:
		return fmt.Errorf("%w: backend returned %d for %s", apperrors.ErrInternalServer, status, path)
	}
}

func filterQuery(filter *dto.TransactionListFilter) string {
	if filter == nil {
		return ""
	}
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.DateFrom != "" {
		q.Set("date_from", filter.DateFrom)
	}
	if filter.DateTo != "" {
		q.Set("date_to", filter.DateTo)
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(filter.PerPage))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
