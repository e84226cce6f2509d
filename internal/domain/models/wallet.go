package models

import "time"

const (
	TxnCredit = "credit"
	TxnDebit  = "debit"
)

// WalletTransaction is a ledger row. Balance never moves without one.
type WalletTransaction struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Reference string    `json:"reference"`
	Type      string    `json:"type"`
	Amount    int64     `json:"amount"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	FundRequestPending  = "pending"
	FundRequestApproved = "approved"
	FundRequestRejected = "rejected"
)

// FundRequest is a withdrawal awaiting manual admin approval. There is no
// provider transfer here; settlement is human-in-the-loop.
type FundRequest struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Amount        int64     `json:"amount"`
	BankName      string    `json:"bank_name"`
	AccountNumber string    `json:"account_number"`
	AccountName   string    `json:"account_name"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
