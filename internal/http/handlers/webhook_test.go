package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	intconfig "transitpay/internal/config"
	"transitpay/internal/http/middleware"
	"transitpay/internal/paystack"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webhookRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.POST("/api/paystack/webhook", PaystackWebhook)
	return r
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	Configure(AppDeps{Env: intconfig.Env{PaystackSecretKey: "sk_test_secret"}})

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	intconfig.DB = db

	body := []byte(`{"event":"charge.success","data":{"reference":"ref-1"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/paystack/webhook", bytes.NewReader(body))
	w := httptest.NewRecorder()
	webhookRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRejectsTamperedBody(t *testing.T) {
	Configure(AppDeps{Env: intconfig.Env{PaystackSecretKey: "sk_test_secret"}})

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	intconfig.DB = db

	signed := []byte(`{"event":"charge.success","data":{"reference":"ref-1"}}`)
	tampered := []byte(`{"event":"charge.success","data":{"reference":"ref-2"}}`)

	req := httptest.NewRequest(http.MethodPost, "/api/paystack/webhook", bytes.NewReader(tampered))
	req.Header.Set("x-paystack-signature", paystack.SignBody(signed, "sk_test_secret"))
	w := httptest.NewRecorder()
	webhookRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookFailsWhenSecretUnconfigured(t *testing.T) {
	Configure(AppDeps{Env: intconfig.Env{}})

	req := httptest.NewRequest(http.MethodPost, "/api/paystack/webhook", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	webhookRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhookAcknowledgesUnknownEvent(t *testing.T) {
	Configure(AppDeps{Env: intconfig.Env{PaystackSecretKey: "sk_test_secret"}})

	body := []byte(`{"event":"subscription.create","data":{}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/paystack/webhook", bytes.NewReader(body))
	req.Header.Set("x-paystack-signature", paystack.SignBody(body, "sk_test_secret"))
	w := httptest.NewRecorder()
	webhookRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookAcknowledgesProcessingErrorsWith200(t *testing.T) {
	Configure(AppDeps{Env: intconfig.Env{PaystackSecretKey: "sk_test_secret"}})

	// charge.success without a reference fails validation inside processing,
	// but the provider still gets a 200.
	body := []byte(`{"event":"charge.success","data":{"status":"success"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/paystack/webhook", bytes.NewReader(body))
	req.Header.Set("x-paystack-signature", paystack.SignBody(body, "sk_test_secret"))
	w := httptest.NewRecorder()
	webhookRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
