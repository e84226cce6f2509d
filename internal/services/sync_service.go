package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"transitpay/internal/domain"
	"transitpay/internal/domain/models"
	"transitpay/internal/paystack"
	"transitpay/internal/repositories"
	"transitpay/internal/utils"
)

// TransactionLister is the provider surface the sync job needs.
type TransactionLister interface {
	ListTransactions(ctx context.Context, from, to time.Time, page int) ([]paystack.TransactionData, error)
}

// SyncService re-pulls a date range of provider transactions and upserts
// payment rows, skipping references already present. This is the manual
// "retry" an admin runs when callbacks were missed; nothing here touches
// bookings or seats.
type SyncService struct {
	DB        *sql.DB
	Provider  TransactionLister
	RequestID string
}

type SyncResult struct {
	Fetched int `json:"fetched"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

func (s SyncService) Run(ctx context.Context, from, to time.Time) (SyncResult, error) {
	if to.Before(from) {
		return SyncResult{}, domain.ValidationError{Field: "to", Msg: "end date before start date"}
	}

	payments := repositories.PaymentRepository{}
	var result SyncResult

	for page := 1; ; page++ {
		batch, err := s.Provider.ListTransactions(ctx, from, to, page)
		if err != nil {
			return result, err
		}
		if len(batch) == 0 {
			break
		}
		result.Fetched += len(batch)

		for _, data := range batch {
			if data.Reference == "" {
				continue
			}
			exists, err := payments.Exists(data.Reference)
			if err != nil {
				return result, err
			}
			if exists {
				result.Skipped++
				continue
			}

			status := models.PaymentFailed
			if data.Success() {
				status = models.PaymentSuccess
			}
			raw, _ := json.Marshal(data)
			if err := payments.Upsert(models.Payment{
				Reference:     data.Reference,
				Amount:        utils.KoboToNaira(data.Amount),
				Status:        status,
				Channel:       data.Channel,
				CustomerEmail: data.Customer.Email,
				PaidAt:        data.PaidAt,
				RawData:       raw,
			}); err != nil {
				return result, err
			}
			result.Created++
		}

		if len(batch) < 100 {
			break
		}
	}

	utils.LogEvent(s.RequestID, "sync", "run",
		fmt.Sprintf("from=%s to=%s fetched=%d created=%d skipped=%d",
			from.Format("2006-01-02"), to.Format("2006-01-02"), result.Fetched, result.Created, result.Skipped))
	return result, nil
}
