package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// SignBody computes the webhook signature Paystack sends in
// x-paystack-signature: hex HMAC-SHA512 of the raw body under the secret key.
func SignBody(body []byte, secretKey string) string {
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidSignature compares a received signature against the computed one in
// constant time.
func ValidSignature(body []byte, signature, secretKey string) bool {
	if signature == "" {
		return false
	}
	expected := SignBody(body, secretKey)
	return hmac.Equal([]byte(expected), []byte(signature))
}
