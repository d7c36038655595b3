package model

const (
	RoleUser      = "User"
	RoleVolunteer = "Volunteer"
	RoleAdmin     = "Admin"
)

// User is the identity record behind every account. TwoFactorCode and
// TwoFactorExpiry hold the live email challenge; both are zero when no
// challenge is outstanding.
type User struct {
	ID              int64  `json:"id"`
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	PasswordHash    string `json:"-"`
	Role            string `json:"role"`
	EmailVerified   bool   `json:"email_verified"`
	TwoFactorCode   string `json:"-"`
	TwoFactorExpiry int64  `json:"-"`
	Ctime           int64  `json:"ctime"`
	Mtime           int64  `json:"mtime"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}
