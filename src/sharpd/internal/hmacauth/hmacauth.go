// Package hmacauth signs and verifies message bodies exchanged with the
// analysis server using a per-session shared secret.
package hmacauth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

const (
	// HeaderName is the header carrying the body digest on every request and response.
	HeaderName = "X-Ycm-Hmac"

	// SecretLength is the fixed length of a shared session secret.
	SecretLength = 16
)

// Secret is a per-session shared secret. It is generated once at session
// start and never transmitted in responses.
type Secret []byte

// GenerateSecret produces a new secret from a cryptographically strong source.
func GenerateSecret() (Secret, error) {
	s := make(Secret, SecretLength)
	if _, err := rand.Read(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Sign computes the header value for the given body: the hex HMAC-SHA256
// digest of the exact body bytes, base64-encoded for header transport.
// An empty body is signed as an empty byte sequence.
func Sign(body []byte, secret Secret) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return base64.StdEncoding.EncodeToString([]byte(hex.EncodeToString(mac.Sum(nil))))
}

// Verify recomputes the digest over body and compares it against the header
// value in constant time.
func Verify(body []byte, digest string, secret Secret) bool {
	return CompareDigests([]byte(Sign(body, secret)), []byte(digest))
}

// CompareDigests compares two digests without short-circuiting on the first
// mismatching byte. Inputs of differing length are rejected immediately;
// digest length is fixed and known, so length itself is not secret.
func CompareDigests(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
