// Package otp issues and checks the 6-digit one-time codes used for
// email verification.
package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"math/big"
	"strconv"
	"time"
)

const (
	codeMin = 100000
	codeMax = 999999

	// RegisterTTL covers the code issued at registration, LoginTTL the
	// codes issued by an unverified login or a resend.
	RegisterTTL = 10 * time.Minute
	LoginTTL    = 5 * time.Minute
)

var (
	ErrMismatch = errors.New("code mismatch")
	ErrExpired  = errors.New("code expired")
)

// Generate returns a uniformly random 6-digit code and its expiry as a
// unix timestamp ttl from now.
func Generate(ttl time.Duration) (string, int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", 0, err
	}
	code := strconv.FormatInt(codeMin+n.Int64(), 10)
	return code, time.Now().Add(ttl).Unix(), nil
}

// Validate checks a submitted code against the stored one. Expiry wins
// over mismatch so the caller can tell the user to request a new code.
func Validate(submitted, stored string, expiry int64) error {
	if stored == "" || expiry == 0 || time.Now().Unix() > expiry {
		return ErrExpired
	}
	if subtle.ConstantTimeCompare([]byte(submitted), []byte(stored)) != 1 {
		return ErrMismatch
	}
	return nil
}
