package service

import "testing"

func TestCheckPasswordPolicy(t *testing.T) {
	tests := []struct {
		name string
		pw   string
		ok   bool
	}{
		{"valid", "Aa1!aaaa", true},
		{"too short", "Aa1!a", false},
		{"no upper", "aa1!aaaa", false},
		{"no lower", "AA1!AAAA", false},
		{"no digit", "Aaa!aaaa", false},
		{"no special", "Aa1aaaaa", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := checkPasswordPolicy(tt.pw)
			if (msg == "") != tt.ok {
				t.Errorf("checkPasswordPolicy(%q) = %q, want ok=%v", tt.pw, msg, tt.ok)
			}
		})
	}
}

func TestValidateRegisterPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		ok    bool
	}{
		{"empty optional", "", true},
		{"local format", "0821234567", true},
		{"international", "+27 82 123 4567", true},
		{"too short", "12345", false},
		{"letters", "08212345ab", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := RegisterInput{
				FullName:        "Thandi Nkosi",
				Email:           "thandi@example.org",
				Phone:           tt.phone,
				Password:        "Aa1!aaaa",
				ConfirmPassword: "Aa1!aaaa",
				Role:            "User",
			}
			err := validateRegister(in)
			if tt.ok && err != nil {
				t.Errorf("validateRegister with phone %q: %v", tt.phone, err)
			}
			if !tt.ok && err == nil {
				t.Errorf("validateRegister accepted phone %q", tt.phone)
			}
		})
	}
}
