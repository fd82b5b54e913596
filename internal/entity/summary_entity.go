// FILE: internal/entity/summary_entity.go
package entity

import "time"

// EventSnapshot is the read-only event view embedded in a payment summary.
type EventSnapshot struct {
	Id        string
	Title     string
	Slug      string
	Venue     string
	StartDate time.Time
	BannerURL string
}

// UserSnapshot is the read-only registrant view embedded in a payment summary.
type UserSnapshot struct {
	Id       string
	FullName string
	Email    string
	Phone    string
}

type Pricing struct {
	Amount      int64
	AdminFee    int64
	TotalAmount int64
	IsFree      bool
}

// PaymentSummary is the pre-payment view fetched fresh per page visit.
// It has no lifecycle of its own and is never mutated; it is the input to
// transaction creation.
type PaymentSummary struct {
	Event   EventSnapshot
	User    UserSnapshot
	Pricing Pricing
}
