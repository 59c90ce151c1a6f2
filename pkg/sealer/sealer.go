// Package sealer signs and verifies payloads exchanged with the payment gateway.
package sealer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sign returns the lowercase hex HMAC-SHA256 of payload under secret.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares signature with the expected one in constant time. Case of
// the hex digits is ignored.
func Verify(payload []byte, signature string, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected := Sign(payload, secret)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// PaymentPayload is the string the gateway signs for a checkout:
// "<order_id>|<payment_id>".
func PaymentPayload(orderID, paymentID string) []byte {
	return []byte(orderID + "|" + paymentID)
}
