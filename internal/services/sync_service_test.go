package services

import (
	"context"
	"testing"
	"time"

	intconfig "transitpay/internal/config"
	"transitpay/internal/paystack"

	"github.com/DATA-DOG/go-sqlmock"
)

type fakeLister struct {
	pages [][]paystack.TransactionData
}

func (f *fakeLister) ListTransactions(ctx context.Context, from, to time.Time, page int) ([]paystack.TransactionData, error) {
	if page > len(f.pages) {
		return nil, nil
	}
	return f.pages[page-1], nil
}

func TestSyncSkipsKnownReferences(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery("FROM payments").WithArgs("known-1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery("FROM payments").WithArgs("new-1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectExec("INSERT INTO payments").WillReturnResult(sqlmock.NewResult(1, 1))

	lister := &fakeLister{pages: [][]paystack.TransactionData{{
		{Reference: "known-1", Status: "success", Amount: 100000},
		{Reference: "new-1", Status: "success", Amount: 200000},
		{Reference: ""},
	}}}

	svc := SyncService{DB: db, Provider: lister}
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	result, err := svc.Run(context.Background(), from, to)
	if err != nil {
		t.Fatalf("sync error: %v", err)
	}
	if result.Fetched != 3 || result.Created != 1 || result.Skipped != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSyncRejectsInvertedRange(t *testing.T) {
	svc := SyncService{Provider: &fakeLister{}}
	from := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Run(context.Background(), from, from.AddDate(0, 0, -1)); err == nil {
		t.Fatal("expected error for inverted date range")
	}
}
