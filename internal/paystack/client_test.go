package paystack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"transitpay/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestVerifySuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/REF-1", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_x", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"reference":"REF-1","status":"success","amount":150000,"channel":"card","paid_at":"2026-01-10T08:00:00Z","customer":{"email":"a@b.c"},"metadata":{"booking_id":"12"}}}`))
	}))
	defer srv.Close()

	c := NewClient("sk_test_x", srv.URL)
	data, raw, err := c.Verify(context.Background(), "REF-1")
	assert.NoError(t, err)
	assert.True(t, data.Success())
	assert.Equal(t, int64(150000), data.Amount)
	assert.Equal(t, "12", data.Metadata.BookingID.String())
	assert.NotEmpty(t, raw)

	// raw payload stays verbatim provider data
	var echo map[string]any
	assert.NoError(t, json.Unmarshal(raw, &echo))
	assert.Equal(t, "REF-1", echo["reference"])
}

func TestVerifyProviderReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":false,"message":"Transaction reference not found"}`))
	}))
	defer srv.Close()

	c := NewClient("sk_test_x", srv.URL)
	_, _, err := c.Verify(context.Background(), "REF-missing")
	assert.True(t, domain.IsPaymentFailed(err))
}

func TestVerifyUnreachableProvider(t *testing.T) {
	c := NewClient("sk_test_x", "http://127.0.0.1:1")
	c.HTTPC = &http.Client{Timeout: 200 * time.Millisecond}
	_, _, err := c.Verify(context.Background(), "REF-1")
	assert.True(t, domain.IsUpstream(err))
}

func TestVerifyMissingSecret(t *testing.T) {
	c := NewClient("", "")
	_, _, err := c.Verify(context.Background(), "REF-1")
	assert.True(t, domain.IsConfig(err))
}

func TestMetadataToleratesEmptyString(t *testing.T) {
	var d TransactionData
	err := json.Unmarshal([]byte(`{"reference":"R","status":"success","amount":5000,"metadata":""}`), &d)
	assert.NoError(t, err)
	assert.Equal(t, "", d.Metadata.Purpose.String())
}

func TestMetadataToleratesNumericIDs(t *testing.T) {
	var d TransactionData
	err := json.Unmarshal([]byte(`{"reference":"R","status":"success","amount":5000,"metadata":{"purpose":"wallet_funding","user_id":42}}`), &d)
	assert.NoError(t, err)
	assert.Equal(t, PurposeWalletFunding, d.Metadata.Purpose.String())
	assert.Equal(t, "42", d.Metadata.UserID.String())
}
