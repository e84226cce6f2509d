package repositories

import (
	"encoding/json"
	"testing"

	intconfig "transitpay/internal/config"
	"transitpay/internal/domain"
	"transitpay/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPaymentUpsertKeyedByReference(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectExec("ON DUPLICATE KEY UPDATE").
		WithArgs("ref-1", int64(5), int64(15000), models.PaymentSuccess, "card", "ada@example.com", "2026-08-20T10:00:00Z", `{"reference":"ref-1"}`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := PaymentRepository{}
	err = repo.Upsert(models.Payment{
		Reference:     "ref-1",
		BookingID:     5,
		Amount:        15000,
		Status:        models.PaymentSuccess,
		Channel:       "card",
		CustomerEmail: "ada@example.com",
		PaidAt:        "2026-08-20T10:00:00Z",
		RawData:       json.RawMessage(`{"reference":"ref-1"}`),
	})
	if err != nil {
		t.Fatalf("upsert error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPaymentUpsertNullsEmptyOptionalColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectExec("ON DUPLICATE KEY UPDATE").
		WithArgs("ref-2", nil, int64(5000), models.PaymentFailed, "", "", nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := PaymentRepository{}
	if err := repo.Upsert(models.Payment{Reference: "ref-2", Amount: 5000, Status: models.PaymentFailed}); err != nil {
		t.Fatalf("upsert error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPaymentUpsertRequiresReference(t *testing.T) {
	repo := PaymentRepository{}
	if err := repo.Upsert(models.Payment{}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPaymentExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectQuery("SELECT 1 FROM payments").WithArgs("ref-1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery("SELECT 1 FROM payments").WithArgs("ref-404").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	repo := PaymentRepository{}
	if ok, err := repo.Exists("ref-1"); err != nil || !ok {
		t.Fatalf("expected ref-1 to exist, got ok=%t err=%v", ok, err)
	}
	if ok, err := repo.Exists("ref-404"); err != nil || ok {
		t.Fatalf("expected ref-404 missing, got ok=%t err=%v", ok, err)
	}
	if ok, err := repo.Exists(""); err != nil || ok {
		t.Fatalf("empty reference should read as missing, got ok=%t err=%v", ok, err)
	}
}

func TestPaymentGetByReferenceNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectQuery("FROM payments").WithArgs("ref-404").
		WillReturnRows(sqlmock.NewRows([]string{"reference", "booking_id", "amount", "status", "channel", "customer_email", "paid_at", "raw_data"}))

	repo := PaymentRepository{}
	if _, err := repo.GetByReference("ref-404"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
