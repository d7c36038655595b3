// Package password hashes credentials with PBKDF2-SHA256 and a random
// per-hash salt. The encoded form is base64(salt || derived key).
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLen    = 16
	keyLen     = 32
	iterations = 10000
)

func Hash(plain string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := pbkdf2.Key([]byte(plain), salt, iterations, keyLen, sha256.New)
	buf := make([]byte, 0, saltLen+keyLen)
	buf = append(buf, salt...)
	buf = append(buf, key...)
	return base64.StdEncoding.EncodeToString(buf), nil
}

// Verify reports whether plain is the password behind encoded. Malformed
// encodings verify as false rather than erroring.
func Verify(plain, encoded string) bool {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) != saltLen+keyLen {
		return false
	}
	salt, want := raw[:saltLen], raw[saltLen:]
	got := pbkdf2.Key([]byte(plain), salt, iterations, keyLen, sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
