package billing_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaanhq/dukaan/modules/billing"
)

func sign(secret, paymentID, subscriptionID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(paymentID + "|" + subscriptionID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestSignatureVerifier(t *testing.T) {
	t.Parallel()

	t.Run("accepts a correctly signed payment", func(t *testing.T) {
		t.Parallel()
		verifier, err := billing.NewSignatureVerifier("s3cret")
		require.NoError(t, err)

		signature := sign("s3cret", "pay_1", "sub_1")
		assert.NoError(t, verifier.Verify("pay_1", "sub_1", signature))
	})

	t.Run("rejects a signature for different ids", func(t *testing.T) {
		t.Parallel()
		verifier, err := billing.NewSignatureVerifier("s3cret")
		require.NoError(t, err)

		signature := sign("s3cret", "pay_1", "sub_1")
		assert.ErrorIs(t, verifier.Verify("pay_2", "sub_1", signature), billing.ErrInvalidSignature)
		assert.ErrorIs(t, verifier.Verify("pay_1", "sub_2", signature), billing.ErrInvalidSignature)
	})

	t.Run("rejects a signature made with another secret", func(t *testing.T) {
		t.Parallel()
		verifier, err := billing.NewSignatureVerifier("s3cret")
		require.NoError(t, err)

		signature := sign("wrong", "pay_1", "sub_1")
		assert.ErrorIs(t, verifier.Verify("pay_1", "sub_1", signature), billing.ErrInvalidSignature)
	})

	t.Run("rejects garbage and empty signatures", func(t *testing.T) {
		t.Parallel()
		verifier, err := billing.NewSignatureVerifier("s3cret")
		require.NoError(t, err)

		assert.ErrorIs(t, verifier.Verify("pay_1", "sub_1", "not-hex"), billing.ErrInvalidSignature)
		assert.ErrorIs(t, verifier.Verify("pay_1", "sub_1", ""), billing.ErrInvalidSignature)
	})

	t.Run("requires a key secret", func(t *testing.T) {
		t.Parallel()
		_, err := billing.NewSignatureVerifier("")
		assert.ErrorIs(t, err, billing.ErrMissingKeySecret)
	})
}
