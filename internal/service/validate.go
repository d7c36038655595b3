package service

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"

	"github.com/relieforg/reliefhub/internal/model"
	appErr "github.com/relieforg/reliefhub/internal/pkg/errors"
)

var phoneRegex = regexp.MustCompile(`^[0-9+\-\s()]{10,15}$`)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeRegister(in RegisterInput) RegisterInput {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Role = strings.TrimSpace(in.Role)
	return in
}

func validateRegister(in RegisterInput) error {
	ve := appErr.NewValidationError()
	if in.FullName == "" {
		ve.Add("full_name", "Full Name is required")
	} else if len(in.FullName) > 100 {
		ve.Add("full_name", "Full Name cannot exceed 100 characters")
	}
	if in.Email == "" {
		ve.Add("email", "Email Address is required")
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		ve.Add("email", "Please enter a valid email address")
	}
	if in.Phone != "" && !phoneRegex.MatchString(in.Phone) {
		ve.Add("phone", "Please enter a valid phone number")
	}
	if in.Password == "" {
		ve.Add("password", "Password is required")
	} else if msg := checkPasswordPolicy(in.Password); msg != "" {
		ve.Add("password", msg)
	}
	if in.ConfirmPassword != in.Password {
		ve.Add("confirm_password", "The password and confirmation do not match")
	}
	if in.Role == "" {
		ve.Add("role", "Please select an account type")
	} else if !model.ValidRole(in.Role) {
		ve.Add("role", "Unknown account type")
	}
	if ve.Empty() {
		return nil
	}
	return ve
}

func validateLogin(in LoginInput) error {
	ve := appErr.NewValidationError()
	if in.Email == "" {
		ve.Add("email", "Email Address is required")
	}
	if in.Password == "" {
		ve.Add("password", "Password is required")
	}
	if ve.Empty() {
		return nil
	}
	return ve
}

// checkPasswordPolicy mirrors the registration policy: at least 8
// characters with one uppercase, one lowercase, one digit and one
// non-alphanumeric character.
func checkPasswordPolicy(pw string) string {
	if len(pw) < 8 {
		return "Password must be at least 8 characters long"
	}
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"
	}
	return ""
}
