package services

import (
	"context"
	"database/sql"
	"fmt"

	"transitpay/internal/domain"
	"transitpay/internal/domain/models"
	"transitpay/internal/events"
	"transitpay/internal/paystack"
	"transitpay/internal/repositories"
	"transitpay/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// WalletService covers client-initiated funding re-verification, withdrawal
// requests, and PIN management.
type WalletService struct {
	DB        *sql.DB
	Provider  Verifier
	Events    *events.Publisher
	RequestID string
}

// VerifyTopup re-verifies a wallet funding reference with the provider and
// credits the wallet once per reference, mirroring the webhook path.
func (s WalletService) VerifyTopup(ctx context.Context, reference string, userID int64) (int64, error) {
	if reference == "" {
		return 0, domain.ValidationError{Field: "reference", Msg: "reference is required"}
	}
	if userID <= 0 {
		return 0, domain.ValidationError{Field: "user_id", Msg: "invalid id"}
	}

	data, raw, err := s.Provider.Verify(ctx, reference)
	if err != nil {
		return 0, err
	}
	if !data.Success() {
		return 0, domain.PaymentFailedError{Reference: reference}
	}
	if data.Metadata.Purpose.String() != paystack.PurposeWalletFunding {
		return 0, domain.ValidationError{Field: "reference", Msg: "charge is not a wallet top-up"}
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return 0, domain.InternalError{Msg: "failed to start transaction", Err: err}
	}
	defer tx.Rollback()

	txWallets := repositories.WalletRepository{Q: tx}
	txPayments := repositories.PaymentRepository{Q: tx}

	// Reads before writes. The locking balance read serializes this path
	// against the webhook crediting the same reference.
	if _, err := txWallets.GetBalanceForUpdate(userID); err != nil {
		return 0, err
	}
	exists, err := txWallets.LedgerEntryExists(reference)
	if err != nil {
		return 0, err
	}

	amount := utils.KoboToNaira(data.Amount)
	if err := txPayments.Upsert(models.Payment{
		Reference:     reference,
		Amount:        amount,
		Status:        models.PaymentSuccess,
		Channel:       data.Channel,
		CustomerEmail: data.Customer.Email,
		PaidAt:        data.PaidAt,
		RawData:       raw,
	}); err != nil {
		return 0, err
	}
	if !exists {
		if err := txWallets.Credit(userID, amount, reference, "wallet top-up"); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, domain.InternalError{Msg: "failed to commit", Err: err}
	}

	if !exists {
		s.Events.Publish(events.WalletCredited, map[string]any{
			"user_id":   userID,
			"reference": reference,
			"amount":    amount,
		})
	}
	utils.LogEvent(s.RequestID, "wallet", "verify_topup", fmt.Sprintf("user_id=%d reference=%s credited=%t", userID, reference, !exists))

	return (repositories.WalletRepository{}).GetBalance(userID)
}

// RequestWithdrawal checks the wallet PIN and files a pending fund request
// for manual admin approval. No balance moves until approval.
func (s WalletService) RequestWithdrawal(userID, amount int64, pin, bankName, accountNumber, accountName string) (int64, error) {
	if userID <= 0 {
		return 0, domain.ValidationError{Field: "user_id", Msg: "invalid id"}
	}
	if amount <= 0 {
		return 0, domain.ValidationError{Field: "amount", Msg: "must be positive"}
	}
	if accountNumber == "" || bankName == "" {
		return 0, domain.ValidationError{Field: "bank", Msg: "bank name and account number are required"}
	}

	wallets := repositories.WalletRepository{}
	pinHash, err := wallets.GetPinHash(userID)
	if err != nil {
		return 0, err
	}
	if pinHash == "" {
		return 0, domain.ValidationError{Field: "pin", Msg: "wallet pin not set"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(pinHash), []byte(pin)); err != nil {
		return 0, domain.ValidationError{Field: "pin", Msg: "incorrect wallet pin"}
	}

	balance, err := wallets.GetBalance(userID)
	if err != nil {
		return 0, err
	}
	if balance < amount {
		return 0, domain.ConflictError{Resource: "wallet", Msg: "insufficient balance"}
	}

	id, err := (repositories.FundRequestRepository{}).Create(models.FundRequest{
		UserID:        userID,
		Amount:        amount,
		BankName:      bankName,
		AccountNumber: accountNumber,
		AccountName:   accountName,
	})
	if err != nil {
		return 0, err
	}
	utils.LogEvent(s.RequestID, "wallet", "withdrawal_request", fmt.Sprintf("user_id=%d amount=%d fund_request=%d", userID, amount, id))
	return id, nil
}

// SettleFundRequest is the admin approval step. Approval debits the wallet
// and appends the ledger row in one transaction; rejection just flips status.
func (s WalletService) SettleFundRequest(id int64, approve bool) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "invalid id"}
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return domain.InternalError{Msg: "failed to start transaction", Err: err}
	}
	defer tx.Rollback()

	txFunds := repositories.FundRequestRepository{Q: tx}
	txWallets := repositories.WalletRepository{Q: tx}

	// Read before writes.
	req, err := txFunds.GetByID(id)
	if err != nil {
		return err
	}
	if req.Status != models.FundRequestPending {
		return domain.ConflictError{Resource: "fund request", Msg: "not pending"}
	}

	if !approve {
		if err := txFunds.UpdateStatus(id, models.FundRequestRejected); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return domain.InternalError{Msg: "failed to commit", Err: err}
		}
		utils.LogEvent(s.RequestID, "wallet", "withdrawal_reject", fmt.Sprintf("fund_request=%d", id))
		return nil
	}

	if err := txFunds.UpdateStatus(id, models.FundRequestApproved); err != nil {
		return err
	}
	if err := txWallets.Debit(req.UserID, req.Amount, fmt.Sprintf("withdrawal-%d", id), "withdrawal"); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.InternalError{Msg: "failed to commit", Err: err}
	}
	utils.LogEvent(s.RequestID, "wallet", "withdrawal_approve", fmt.Sprintf("fund_request=%d user_id=%d amount=%d", id, req.UserID, req.Amount))
	return nil
}

// SetPin hashes and stores the wallet PIN.
func (s WalletService) SetPin(userID int64, pin string) error {
	if len(pin) < 4 {
		return domain.ValidationError{Field: "pin", Msg: "pin must be at least 4 digits"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return domain.InternalError{Msg: "failed to hash pin", Err: err}
	}
	return (repositories.WalletRepository{}).SetPin(userID, string(hash))
}
