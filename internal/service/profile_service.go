package service

import (
	"context"
	"strings"

	"github.com/relieforg/reliefhub/internal/model"
	appErr "github.com/relieforg/reliefhub/internal/pkg/errors"
	"github.com/relieforg/reliefhub/internal/pkg/timeutil"
)

type ProfileInput struct {
	FullName string
	Phone    string
}

// Profile returns the stored record behind an authenticated identity.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile changes the mutable account fields. When the full name
// changes the identity token is re-issued so the claims stay current;
// the returned token is empty otherwise.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, in ProfileInput) (*model.User, string, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)

	ve := appErr.NewValidationError()
	if in.FullName == "" {
		ve.Add("full_name", "Full Name is required")
	} else if len(in.FullName) > 100 {
		ve.Add("full_name", "Full Name cannot exceed 100 characters")
	}
	if in.Phone != "" && !phoneRegex.MatchString(in.Phone) {
		ve.Add("phone", "Please enter a valid phone number")
	}
	if !ve.Empty() {
		return nil, "", ve
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	nameChanged := user.FullName != in.FullName

	if err := s.users.UpdateProfile(ctx, userID, in.FullName, in.Phone, timeutil.NowUnix()); err != nil {
		return nil, "", err
	}
	user.FullName = in.FullName
	user.Phone = in.Phone

	var token string
	if nameChanged {
		if token, err = s.issueIdentity(user); err != nil {
			return nil, "", err
		}
	}
	return user, token, nil
}
