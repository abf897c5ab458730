package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// SignatureHeader carries the HMAC of a webhook delivery body.
const SignatureHeader = "BTCPay-Sig"

const signaturePrefix = "sha256="

var (
	ErrNoSecret         = errors.New("webhook secret is not configured")
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// HMACVerifier checks "sha256=<hex>" signatures computed with a shared secret
// over the raw request body.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(signature string, body []byte) error {
	if len(v.secret) == 0 {
		return ErrNoSecret
	}

	signature = strings.TrimSpace(signature)
	if signature == "" {
		return ErrMissingSignature
	}
	if !strings.HasPrefix(strings.ToLower(signature), signaturePrefix) {
		return ErrInvalidSignature
	}

	provided, err := hex.DecodeString(signature[len(signaturePrefix):])
	if err != nil {
		return ErrInvalidSignature
	}
	if !hmac.Equal(provided, mac(v.secret, body)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign returns the signature header value for body.
func Sign(secret string, body []byte) string {
	return signaturePrefix + hex.EncodeToString(mac([]byte(secret), body))
}

func mac(secret, body []byte) []byte {
	h := hmac.New(sha256.New, secret)
	h.Write(body)
	return h.Sum(nil)
}
