package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusExpired PaymentStatus = "expired"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type Payment struct {
	ID         string        `json:"id"`
	TeamID     string        `json:"team_id"`
	Stage      Stage         `json:"stage"`
	Amount     int64         `json:"amount"`
	InvoiceID  string        `json:"invoice_id"`
	InvoiceURL string        `json:"invoice_url"`
	Status     PaymentStatus `json:"status"`
	ExpiresAt  time.Time     `json:"expires_at"`
	PaidAt     *time.Time    `json:"paid_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Usable reports whether a pending invoice can still be paid at now.
func (p *Payment) Usable(now time.Time) bool {
	return p.Status == PaymentStatusPending && now.Before(p.ExpiresAt)
}
