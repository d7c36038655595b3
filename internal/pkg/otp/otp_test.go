package otp

import (
	"strconv"
	"testing"
	"time"
)

func TestGenerateFormat(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, expiry, err := Generate(RegisterTTL)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not 6 digits", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("code %q is not numeric", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code %d out of range", n)
		}
		wantExpiry := time.Now().Add(RegisterTTL).Unix()
		if expiry < wantExpiry-2 || expiry > wantExpiry+2 {
			t.Fatalf("expiry %d not about %d", expiry, wantExpiry)
		}
	}
}

func TestValidate(t *testing.T) {
	future := time.Now().Add(time.Minute).Unix()
	past := time.Now().Add(-time.Minute).Unix()

	tests := []struct {
		name      string
		submitted string
		stored    string
		expiry    int64
		want      error
	}{
		{"match before expiry", "123456", "123456", future, nil},
		{"mismatch before expiry", "123457", "123456", future, ErrMismatch},
		{"match after expiry", "123456", "123456", past, ErrExpired},
		{"mismatch after expiry", "000000", "123456", past, ErrExpired},
		{"no stored code", "123456", "", future, ErrExpired},
		{"zero expiry", "123456", "123456", 0, ErrExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(tt.submitted, tt.stored, tt.expiry); got != tt.want {
				t.Fatalf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}
