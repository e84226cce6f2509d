package repositories

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	intconfig "transitpay/internal/config"
	intdb "transitpay/internal/db"
	"transitpay/internal/domain"
	"transitpay/internal/domain/models"
)

type UserRepository struct {
	Q intdb.Querier
}

func (r UserRepository) q() intdb.Querier {
	if r.Q != nil {
		return r.Q
	}
	return intconfig.DB
}

const userColumns = `id, COALESCE(name,''), COALESCE(username,''), COALESCE(email,''), COALESCE(phone,''),
	COALESCE(password_hash,''), COALESCE(role,'user'), COALESCE(status,'active'),
	COALESCE(wallet_balance,0), COALESCE(wallet_pin_hash,''), created_at, updated_at`

func (r UserRepository) scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone,
		&u.PasswordHash, &u.Role, &u.Status,
		&u.WalletBalance, &u.WalletPinHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, err
}

func (r UserRepository) GetByID(id int64) (models.User, error) {
	if id <= 0 {
		return models.User{}, domain.ValidationError{Field: "user_id", Msg: "invalid id"}
	}
	return r.scanUser(r.q().QueryRow(`SELECT `+userColumns+` FROM users WHERE id=? LIMIT 1`, id))
}

// GetByLogin matches email or username, the way the login form submits either.
func (r UserRepository) GetByLogin(login string) (models.User, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return models.User{}, domain.ValidationError{Field: "email", Msg: "email or username is required"}
	}
	return r.scanUser(r.q().QueryRow(`SELECT `+userColumns+` FROM users WHERE email=? OR username=? LIMIT 1`, login, login))
}

func (r UserRepository) ExistsByEmailOrUsername(email, username string) (bool, error) {
	var count int
	err := r.q().QueryRow(`SELECT COUNT(*) FROM users WHERE email=? OR username=?`, email, username).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r UserRepository) Create(u models.User) (int64, error) {
	role := u.Role
	if role == "" {
		role = "user"
	}
	res, err := r.q().Exec(`
		INSERT INTO users (name, username, email, phone, password_hash, role, status, wallet_balance, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 'active', 0, NOW(), NOW())`,
		u.Name, u.Username, u.Email, u.Phone, u.PasswordHash, role)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ParseID turns metadata ids (strings from the provider) into int64.
func ParseID(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
