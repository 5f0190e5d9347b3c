package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureVerifier checks Razorpay payment signatures. The gateway signs
// "<payment_id>|<subscription_id>" with the key secret using HMAC-SHA256
// and sends the hex digest alongside the checkout callback.
type SignatureVerifier struct {
	keySecret []byte
}

// NewSignatureVerifier creates a verifier for the given key secret.
func NewSignatureVerifier(keySecret string) (*SignatureVerifier, error) {
	if keySecret == "" {
		return nil, ErrMissingKeySecret
	}
	return &SignatureVerifier{keySecret: []byte(keySecret)}, nil
}

// Verify recomputes the expected signature and compares it in constant time.
func (v *SignatureVerifier) Verify(paymentID, subscriptionID, signature string) error {
	mac := hmac.New(sha256.New, v.keySecret)
	mac.Write([]byte(paymentID + "|" + subscriptionID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
