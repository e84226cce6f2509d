package paystack

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Stringish tolerates string/number/bool JSON values as string. Paystack
// metadata fields arrive with inconsistent types depending on the checkout
// surface that set them.
type Stringish string

func (s *Stringish) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case string(b) == "null" || len(b) == 0:
		*s = ""
		return nil
	case len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Stringish(str)
		return nil
	default:
		*s = Stringish(strings.Trim(string(b), `"`))
		return nil
	}
}

func (s Stringish) String() string { return string(s) }

// Metadata is the subset of charge metadata the backend acts on. A charge
// tagged purpose=wallet_funding credits the wallet instead of a booking.
type Metadata struct {
	Purpose   Stringish `json:"purpose"`
	UserID    Stringish `json:"user_id"`
	BookingID Stringish `json:"booking_id"`
}

// UnmarshalJSON tolerates Paystack sending metadata as "" when unset.
func (m *Metadata) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" || string(b) == `""` {
		*m = Metadata{}
		return nil
	}
	type alias Metadata
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		// string or array metadata -> ignore
		*m = Metadata{}
		return nil
	}
	*m = Metadata(a)
	return nil
}

const PurposeWalletFunding = "wallet_funding"

type Customer struct {
	Email string `json:"email"`
}

// TransactionData is the provider's transaction payload, shared by the
// verify response and webhook events. Amount is in kobo.
type TransactionData struct {
	Reference string   `json:"reference"`
	Status    string   `json:"status"`
	Amount    int64    `json:"amount"`
	Channel   string   `json:"channel"`
	PaidAt    string   `json:"paid_at"`
	Customer  Customer `json:"customer"`
	Metadata  Metadata `json:"metadata"`
}

func (d TransactionData) Success() bool {
	return strings.EqualFold(d.Status, "success")
}

type verifyResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Event is the webhook envelope.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

const (
	EventChargeSuccess = "charge.success"
	EventChargeFailed  = "charge.failed"
)
