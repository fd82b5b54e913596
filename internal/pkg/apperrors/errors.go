package apperrors

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeNotFound           = 4040
	CodeAuth               = 4010
	CodeWidgetNotReady     = 4220
	CodeGatewayUnavailable = 4221
	CodeTotalMismatch      = 4222

	// 5xxx - Server / transport errors
	CodeNetwork        = 5020
	CodeInternalServer = 5000
)

var (
	// ErrNotFound is returned when an order or event does not exist server-side
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned on transport-level failure reaching the backend
	ErrNetwork = errors.New("network error")

	// ErrAuth is returned when the caller's session token is invalid or expired
	ErrAuth = errors.New("session invalid or expired")

	// ErrWidgetNotReady is returned when payment is initiated before the
	// gateway widget is configured and loaded
	ErrWidgetNotReady = errors.New("payment widget not ready")

	// ErrGatewayUnavailable is returned when a non-paid transaction comes back
	// without a widget token
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrSessionClosed is returned for operations on an unmounted page session
	ErrSessionClosed = errors.New("payment session closed")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAuth):
		return CodeAuth
	case errors.Is(err, ErrWidgetNotReady):
		return CodeWidgetNotReady
	case errors.Is(err, ErrGatewayUnavailable):
		return CodeGatewayUnavailable
	case errors.Is(err, ErrNetwork):
		return CodeNetwork
	default:
		return CodeInternalServer
	}
}

// NetworkError wraps a transport failure with the endpoint that produced it.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is checks if the target error is an ErrNetwork
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// LogFields returns a map of fields for structured logging
func (e *NetworkError) LogFields() map[string]interface{} {
	return map[string]interface{}{
		"error_type": "network_error",
		"endpoint":   e.Endpoint,
		"error":      e.Err.Error(),
		"error_code": CodeNetwork,
	}
}

// NewNetworkError wraps a transport-level failure
func NewNetworkError(endpoint string, err error) error {
	return &NetworkError{Endpoint: endpoint, Err: err}
}

// TotalMismatchError flags a transaction whose totalAmount does not equal
// amount + adminFee. It is a data-integrity anomaly, not a payment failure:
// callers log it and keep displaying the server-provided total.
type TotalMismatchError struct {
	OrderID     string
	Amount      int64
	AdminFee    int64
	TotalAmount int64
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("total mismatch for order %s: total %d != amount %d + admin fee %d",
		e.OrderID, e.TotalAmount, e.Amount, e.AdminFee)
}

// LogFields returns a map of fields for structured logging
func (e *TotalMismatchError) LogFields() map[string]interface{} {
	return map[string]interface{}{
		"error_type":   "total_mismatch",
		"order_id":     e.OrderID,
		"amount":       e.Amount,
		"admin_fee":    e.AdminFee,
		"total_amount": e.TotalAmount,
		"error_code":   CodeTotalMismatch,
	}
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNetworkError checks if the error is a transport-level failure
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsAuthError checks if the error is a session/token failure
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuth)
}

// IsRecoverable reports whether the page should stay interactive after err.
// Terminal payment outcomes never reach here; they are states, not errors.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrNetwork) ||
		errors.Is(err, ErrWidgetNotReady) ||
		errors.Is(err, ErrGatewayUnavailable)
}
