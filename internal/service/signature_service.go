package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const nodeKeyInfo = "cbdc-settlement node request v1"

// HMACSignatureService implements ports.SignatureService using HMAC-SHA256.
// It authenticates requests between FI nodes and the central bank.
type HMACSignatureService struct{}

func NewHMACSignatureService() *HMACSignatureService {
	return &HMACSignatureService{}
}

// DeriveKey expands a shared secret into the request-signing key of nodeID.
func (s *HMACSignatureService) DeriveKey(sharedSecret, nodeID string) string {
	r := hkdf.New(sha256.New, []byte(sharedSecret), []byte(nodeID), []byte(nodeKeyInfo))
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		// hkdf only fails past 255*HashLen bytes of output.
		panic(err)
	}
	return hex.EncodeToString(key)
}

// Sign returns lowercase hex HMAC-SHA256(secretKey, payload).
func (s *HMACSignatureService) Sign(secretKey string, payload string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares in constant time.
func (s *HMACSignatureService) Verify(secretKey string, payload string, signature string) bool {
	return hmac.Equal([]byte(s.Sign(secretKey, payload)), []byte(signature))
}

// BuildCanonicalString returns METHOD|PATH|TIMESTAMP|NONCE|hex(sha256(BODY)).
func (s *HMACSignatureService) BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string {
	sum := sha256.Sum256([]byte(body))
	return strings.Join([]string{
		strings.ToUpper(method),
		path,
		strconv.FormatInt(timestamp, 10),
		nonce,
		hex.EncodeToString(sum[:]),
	}, "|")
}
