// FILE: internal/gateway/midtrans_gateway.go
package gateway

import (
	"net/http"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"

	"ramein-web/internal/entity"
	"ramein-web/internal/pkg/apperrors"
)

// IMidtransGateway is the client-side view of the payment gateway: a
// readiness precondition for opening the Snap widget, and a direct status
// check used as an alternative fetch source for manual "check status".
type IMidtransGateway interface {
	Ready() bool
	ClientKey() string
	CheckTransaction(orderId string) (entity.PaymentStatus, error)
}

type midtransGateway struct {
	core      coreapi.Client
	clientKey string
	ready     bool
}

func NewMidtransGateway(serverKey, clientKey string, isProduction bool) IMidtransGateway {
	env := midtrans.Sandbox
	if isProduction {
		env = midtrans.Production
	}

	var core coreapi.Client
	core.New(serverKey, env)

	return &midtransGateway{
		core:      core,
		clientKey: clientKey,
		ready:     serverKey != "" && clientKey != "",
	}
}

// Ready reports whether the widget can be opened at all. An unconfigured
// gateway must fail fast before any widget invocation.
func (g *midtransGateway) Ready() bool {
	return g.ready
}

func (g *midtransGateway) ClientKey() string {
	return g.clientKey
}

func (g *midtransGateway) CheckTransaction(orderId string) (entity.PaymentStatus, error) {
	res, err := g.core.CheckTransaction(orderId)
	if err != nil {
		if err.StatusCode == http.StatusNotFound {
			return "", apperrors.ErrNotFound
		}
		if err.StatusCode == http.StatusUnauthorized {
			return "", apperrors.ErrAuth
		}
		return "", apperrors.NewNetworkError("midtrans:check", err)
	}
	return MapGatewayStatus(res.TransactionStatus), nil
}

// MapGatewayStatus translates the gateway's transaction_status values onto
// the client's payment status enum.
func MapGatewayStatus(status string) entity.PaymentStatus {
	switch status {
	case "capture", "settlement":
		return entity.PaymentStatusPaid
	case "deny", "failure":
		return entity.PaymentStatusFailed
	case "cancel":
		return entity.PaymentStatusCancelled
	case "expire":
		return entity.PaymentStatusExpired
	case "refund", "partial_refund":
		return entity.PaymentStatusRefunded
	default:
		return entity.PaymentStatusPending
	}
}
