package models

import "encoding/json"

// Payment statuses as stored. The provider reference is the primary key and
// the sole idempotency guard: one row per reference, later verifications
// update it instead of duplicating.
const (
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

type Payment struct {
	Reference     string          `json:"reference"`
	BookingID     int64           `json:"booking_id,omitempty"`
	Amount        int64           `json:"amount"` // naira; provider kobo / 100
	Status        string          `json:"status"`
	Channel       string          `json:"channel,omitempty"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	PaidAt        string          `json:"paid_at,omitempty"`
	RawData       json.RawMessage `json:"raw_data,omitempty"` // verbatim provider payload
}
