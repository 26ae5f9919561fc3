package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Sign computes the base64 HMAC-SHA256 signature LINE expects over a raw
// webhook body.
func Sign(body []byte, channelSecret string) string {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ValidateSignature reports whether signature matches the body under the
// channel secret. A missing signature or secret never passes, and the
// comparison is constant time.
func ValidateSignature(body []byte, signature, channelSecret string) bool {
	if signature == "" || channelSecret == "" {
		return false
	}
	provided, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	expected, err := base64.StdEncoding.DecodeString(Sign(body, channelSecret))
	if err != nil {
		return false
	}
	return hmac.Equal(provided, expected)
}
