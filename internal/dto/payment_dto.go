// FILE: internal/dto/payment_dto.go
package dto

import "time"

// --- Backend wire DTOs ---

type TransactionResponse struct {
	OrderId       string     `json:"order_id"`
	PaymentStatus string     `json:"payment_status"`
	Amount        int64      `json:"amount"`
	AdminFee      int64      `json:"admin_fee"`
	TotalAmount   int64      `json:"total_amount"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	VaNumber      string     `json:"va_number,omitempty"`
	BankName      string     `json:"bank_name,omitempty"`
	SnapToken     string     `json:"snap_token,omitempty"`
	ExpiredAt     *time.Time `json:"expired_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

type PaymentSummaryResponse struct {
	Event struct {
		Id        string    `json:"id"`
		Title     string    `json:"title"`
		Slug      string    `json:"slug"`
		Venue     string    `json:"venue"`
		StartDate time.Time `json:"start_date"`
		BannerURL string    `json:"banner_url"`
	} `json:"event"`
	User struct {
		Id       string `json:"id"`
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
	} `json:"user"`
	Pricing struct {
		Amount      int64 `json:"amount"`
		AdminFee    int64 `json:"admin_fee"`
		TotalAmount int64 `json:"total_amount"`
		IsFree      bool  `json:"is_free"`
	} `json:"pricing"`
}

type CreateTransactionRequest struct {
	EventId string `json:"event_id" validate:"required"`
}

// --- Page-facing DTOs ---

type CheckoutRequest struct {
	EventId string `json:"event_id" validate:"required"`
}

// CheckoutResponse carries either an immediate redirect (free / instant-paid
// events) or the snap token the page hands to the widget.
type CheckoutResponse struct {
	OrderId    string `json:"order_id"`
	Status     string `json:"status"`
	SnapToken  string `json:"snap_token,omitempty"`
	RedirectTo string `json:"redirect_to,omitempty"`
	SessionId  string `json:"session_id,omitempty"`
}

// PaymentConfigResponse tells the page how to run: the widget client key and
// the poll loop's intended tick rate.
type PaymentConfigResponse struct {
	ClientKey      string `json:"client_key"`
	PollIntervalMs int64  `json:"poll_interval_ms"`
}

type WidgetOutcomeRequest struct {
	OrderId string `json:"order_id" validate:"required"`
	Result  string `json:"result" validate:"required,oneof=success pending error close"`
	Message string `json:"message"`
}

// StatusResponse is what the pending page polls for. RedirectTo is set at
// most once per session, by the one-shot navigation gate.
type StatusResponse struct {
	OrderId       string `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
	Amount        int64  `json:"amount"`
	AdminFee      int64  `json:"admin_fee"`
	TotalAmount   int64  `json:"total_amount"`
	PaymentMethod string `json:"payment_method,omitempty"`
	VaNumber      string `json:"va_number,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
	Countdown     string `json:"countdown,omitempty"`
	Expired       bool   `json:"expired"`
	RedirectTo    string `json:"redirect_to,omitempty"`
}
