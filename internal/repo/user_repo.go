package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/relieforg/reliefhub/internal/model"
	"github.com/relieforg/reliefhub/internal/pkg/dbutil"
	appErr "github.com/relieforg/reliefhub/internal/pkg/errors"
)

var userColumns = []string{
	"id", "full_name", "email", "phone", "password_hash", "role",
	"email_verified", "two_factor_code", "two_factor_expiry", "ctime", "mtime",
}

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts the credential record and fills in the generated id.
// A duplicate email maps to ErrConflict; losing the single-admin index
// race maps to ErrForbidden, same as failing the pre-insert check.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	sqlStr, args, err := builder.BuildInsert("users", []map[string]interface{}{{
		"full_name":         user.FullName,
		"email":             user.Email,
		"phone":             user.Phone,
		"password_hash":     user.PasswordHash,
		"role":              user.Role,
		"email_verified":    user.EmailVerified,
		"two_factor_code":   user.TwoFactorCode,
		"two_factor_expiry": user.TwoFactorExpiry,
		"ctime":             user.Ctime,
		"mtime":             user.Mtime,
	}})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr+" RETURNING id", args)
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&user.ID); err != nil {
		switch dbutil.ConflictConstraint(err) {
		case "users_email_key":
			return appErr.ErrConflict
		case "users_single_admin_key":
			return appErr.ErrForbidden
		}
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, map[string]interface{}{"email": email})
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	return r.getOne(ctx, map[string]interface{}{"id": userID})
}

func (r *UserRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.User, error) {
	sqlStr, args, err := builder.BuildSelect("users", where, userColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var user model.User
	if err := rows.Scan(&user.ID, &user.FullName, &user.Email, &user.Phone,
		&user.PasswordHash, &user.Role, &user.EmailVerified,
		&user.TwoFactorCode, &user.TwoFactorExpiry, &user.Ctime, &user.Mtime); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) AdminExists(ctx context.Context) (bool, error) {
	where := map[string]interface{}{"role": model.RoleAdmin, "_limit": []uint{0, 1}}
	sqlStr, args, err := builder.BuildSelect("users", where, []string{"id"})
	if err != nil {
		return false, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()
	return rows.Next(), nil
}

// SetChallenge replaces the live two-factor challenge; the previous
// code, if any, stops being valid.
func (r *UserRepo) SetChallenge(ctx context.Context, userID int64, code string, expiry, mtime int64) error {
	return r.update(ctx, userID, map[string]interface{}{
		"two_factor_code":   code,
		"two_factor_expiry": expiry,
		"mtime":             mtime,
	})
}

// ClearChallengeAndVerify consumes the challenge and flags the email as
// verified in one write.
func (r *UserRepo) ClearChallengeAndVerify(ctx context.Context, userID int64, mtime int64) error {
	return r.update(ctx, userID, map[string]interface{}{
		"two_factor_code":   "",
		"two_factor_expiry": 0,
		"email_verified":    true,
		"mtime":             mtime,
	})
}

func (r *UserRepo) UpdateProfile(ctx context.Context, userID int64, fullName, phone string, mtime int64) error {
	return r.update(ctx, userID, map[string]interface{}{
		"full_name": fullName,
		"phone":     phone,
		"mtime":     mtime,
	})
}

func (r *UserRepo) update(ctx context.Context, userID int64, set map[string]interface{}) error {
	sqlStr, args, err := builder.BuildUpdate("users", map[string]interface{}{"id": userID}, set)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

// PurgeExpiredChallenges blanks out challenges whose expiry has passed.
// Validation does not depend on this; it only keeps dead codes from
// lingering in the table.
func (r *UserRepo) PurgeExpiredChallenges(ctx context.Context, now int64) (int64, error) {
	sqlStr, args, err := builder.BuildUpdate("users",
		map[string]interface{}{
			"two_factor_expiry >": 0,
			"two_factor_expiry <": now,
		},
		map[string]interface{}{
			"two_factor_code":   "",
			"two_factor_expiry": 0,
		})
	if err != nil {
		return 0, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
