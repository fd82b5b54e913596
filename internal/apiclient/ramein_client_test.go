package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ramein-web/internal/dto"
	"ramein-web/internal/entity"
	"ramein-web/internal/pkg/apperrors"
)

func newTestClient(handler http.Handler) (IRameinClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewRameinClient(srv.URL, 5*time.Second), srv
}

func TestGetTransactionDecodesEnvelope(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions/ORDER-1", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":{"order_id":"ORDER-1","payment_status":"pending","amount":50000,"admin_fee":5000,"total_amount":55000,"created_at":"2025-06-01T12:00:00Z"}}`))
	}))
	defer srv.Close()

	txn, err := client.GetTransaction(context.Background(), "tok", "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", txn.OrderId)
	assert.Equal(t, entity.PaymentStatusPending, txn.PaymentStatus)
	assert.Equal(t, int64(55000), txn.TotalAmount)
}

func TestGetTransactionBarePayload(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order_id":"ORDER-2","payment_status":"paid","amount":0,"admin_fee":0,"total_amount":0,"created_at":"2025-06-01T12:00:00Z"}`))
	}))
	defer srv.Close()

	txn, err := client.GetTransaction(context.Background(), "tok", "ORDER-2")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, txn.PaymentStatus)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		check      func(t *testing.T, err error)
	}{
		{
			name:       "404 maps to not found",
			statusCode: http.StatusNotFound,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, apperrors.ErrNotFound)
			},
		},
		{
			name:       "401 maps to auth",
			statusCode: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, apperrors.ErrAuth)
			},
		},
		{
			name:       "403 maps to auth",
			statusCode: http.StatusForbidden,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, apperrors.ErrAuth)
			},
		},
		{
			name:       "500 maps to network",
			statusCode: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsNetworkError(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer srv.Close()

			_, err := client.GetTransaction(context.Background(), "tok", "ORDER-1")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	client := NewRameinClient("http://127.0.0.1:1", 200*time.Millisecond)

	_, err := client.GetTransaction(context.Background(), "tok", "ORDER-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsNetworkError(err))
}

func TestListTransactionsFilterQuery(t *testing.T) {
	var gotQuery string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":{"data":[],"page":2,"per_page":20,"total_items":0,"total_pages":0}}`))
	}))
	defer srv.Close()

	filter := &dto.TransactionListFilter{Status: "paid", Page: 2, PerPage: 20}
	_, err := client.ListTransactions(context.Background(), "tok", filter)
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "status=paid")
	assert.Contains(t, gotQuery, "page=2")
	assert.Contains(t, gotQuery, "per_page=20")
}

func TestCancelTransaction(t *testing.T) {
	var gotPath string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	require.NoError(t, client.CancelTransaction(context.Background(), "tok", "ORDER-1"))
	assert.Equal(t, "/transactions/ORDER-1/cancel", gotPath)
}
