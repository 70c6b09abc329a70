package relay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

const signaturePrefix = "sha256="

// constantTimeEqual is swapped out in tests to observe the comparison.
var constantTimeEqual = hmac.Equal

// Sign returns the X-Hub-Signature-256 value GitHub would send for body.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether header is the signature of body under secret.
// A missing header never matches.
func Verify(body []byte, header, secret string) bool {
	expected := Sign(body, secret)
	return constantTimeEqual([]byte(expected), []byte(header))
}
