package repositories

import (
	"database/sql"
	"errors"

	intconfig "transitpay/internal/config"
	intdb "transitpay/internal/db"
	"transitpay/internal/domain"
	"transitpay/internal/domain/models"
)

// WalletRepository mutates wallet balances. Balance changes only happen
// next to a ledger row, inside the caller's transaction.
type WalletRepository struct {
	Q intdb.Querier
}

func (r WalletRepository) q() intdb.Querier {
	if r.Q != nil {
		return r.Q
	}
	return intconfig.DB
}

func (r WalletRepository) GetBalance(userID int64) (int64, error) {
	return r.balance(userID, "")
}

// GetBalanceForUpdate reads the balance under a row lock. Funding paths take
// this lock before the ledger-existence check, so a concurrent credit for the
// same reference blocks here and then sees the winner's ledger row.
func (r WalletRepository) GetBalanceForUpdate(userID int64) (int64, error) {
	return r.balance(userID, " FOR UPDATE")
}

func (r WalletRepository) balance(userID int64, lock string) (int64, error) {
	if userID <= 0 {
		return 0, domain.ValidationError{Field: "user_id", Msg: "invalid id"}
	}
	var balance int64
	err := r.q().QueryRow(`SELECT COALESCE(wallet_balance,0) FROM users WHERE id=? LIMIT 1`+lock, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.NotFoundError{Resource: "user"}
	}
	return balance, err
}

// LedgerEntryExists is the idempotency guard for wallet credits: one ledger
// row per provider reference.
func (r WalletRepository) LedgerEntryExists(reference string) (bool, error) {
	if reference == "" {
		return false, nil
	}
	var one int
	err := r.q().QueryRow(`SELECT 1 FROM wallet_transactions WHERE reference=? LIMIT 1`, reference).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Credit atomically increments the balance and appends the credit row.
func (r WalletRepository) Credit(userID, amount int64, reference, note string) error {
	if userID <= 0 {
		return domain.ValidationError{Field: "user_id", Msg: "invalid id"}
	}
	if amount <= 0 {
		return domain.ValidationError{Field: "amount", Msg: "must be positive"}
	}

	res, err := r.q().Exec(`UPDATE users SET wallet_balance = COALESCE(wallet_balance,0) + ?, updated_at=NOW() WHERE id=?`, amount, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "user"}
	}

	_, err = r.q().Exec(`
		INSERT INTO wallet_transactions (user_id, reference, type, amount, note, created_at)
		VALUES (?, ?, ?, ?, ?, NOW())`,
		userID, reference, models.TxnCredit, amount, note)
	return err
}

// Debit decrements the balance and appends the debit row. Fails on
// insufficient funds.
func (r WalletRepository) Debit(userID, amount int64, reference, note string) error {
	if userID <= 0 {
		return domain.ValidationError{Field: "user_id", Msg: "invalid id"}
	}
	if amount <= 0 {
		return domain.ValidationError{Field: "amount", Msg: "must be positive"}
	}

	res, err := r.q().Exec(`
		UPDATE users SET wallet_balance = wallet_balance - ?, updated_at=NOW()
		WHERE id=? AND COALESCE(wallet_balance,0) >= ?`, amount, userID, amount)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ConflictError{Resource: "wallet", Msg: "insufficient balance"}
	}

	_, err = r.q().Exec(`
		INSERT INTO wallet_transactions (user_id, reference, type, amount, note, created_at)
		VALUES (?, ?, ?, ?, ?, NOW())`,
		userID, reference, models.TxnDebit, amount, note)
	return err
}

// ListTransactions returns the most recent ledger rows for a user.
func (r WalletRepository) ListTransactions(userID int64, limit int) ([]models.WalletTransaction, error) {
	if userID <= 0 {
		return nil, domain.ValidationError{Field: "user_id", Msg: "invalid id"}
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.q().Query(`
		SELECT id, user_id, COALESCE(reference,''), type, amount, COALESCE(note,''), created_at
		FROM wallet_transactions
		WHERE user_id=?
		ORDER BY id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.WalletTransaction{}
	for rows.Next() {
		var t models.WalletTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Reference, &t.Type, &t.Amount, &t.Note, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SetPin stores the bcrypt hash gating withdrawal requests.
func (r WalletRepository) SetPin(userID int64, pinHash string) error {
	if userID <= 0 {
		return domain.ValidationError{Field: "user_id", Msg: "invalid id"}
	}
	res, err := r.q().Exec(`UPDATE users SET wallet_pin_hash=?, updated_at=NOW() WHERE id=?`, pinHash, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "user"}
	}
	return nil
}

func (r WalletRepository) GetPinHash(userID int64) (string, error) {
	// Older user tables predate the wallet pin migration.
	if !intdb.HasColumn(r.q(), "users", "wallet_pin_hash") {
		return "", nil
	}

	var hash sql.NullString
	err := r.q().QueryRow(`SELECT wallet_pin_hash FROM users WHERE id=? LIMIT 1`, userID).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return "", err
	}
	return hash.String, nil
}
