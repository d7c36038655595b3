package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/relieforg/reliefhub/internal/mail"
	"github.com/relieforg/reliefhub/internal/metrics"
	"github.com/relieforg/reliefhub/internal/model"
	appErr "github.com/relieforg/reliefhub/internal/pkg/errors"
	"github.com/relieforg/reliefhub/internal/pkg/jwt"
	"github.com/relieforg/reliefhub/internal/pkg/otp"
	"github.com/relieforg/reliefhub/internal/pkg/password"
	"github.com/relieforg/reliefhub/internal/pkg/timeutil"
	"github.com/relieforg/reliefhub/internal/session"
)

// UserStore is the credential store the auth flow runs over,
// implemented by repo.UserRepo.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, userID int64) (*model.User, error)
	AdminExists(ctx context.Context) (bool, error)
	SetChallenge(ctx context.Context, userID int64, code string, expiry, mtime int64) error
	ClearChallengeAndVerify(ctx context.Context, userID int64, mtime int64) error
	UpdateProfile(ctx context.Context, userID int64, fullName, phone string, mtime int64) error
}

// AuthService drives the Anonymous -> PendingVerification ->
// Authenticated handshake across registration, login, verification,
// resend and logout.
type AuthService struct {
	users     UserStore
	sessions  session.Store
	mailer    mail.Enqueuer
	collector metrics.Collector
	jwtSecret []byte
	jwtTTL    time.Duration
}

func NewAuthService(users UserStore, sessions session.Store, mailer mail.Enqueuer, collector metrics.Collector, jwtSecret []byte, jwtTTL time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		mailer:    mailer,
		collector: collector,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
	}
}

type RegisterInput struct {
	FullName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	Role            string
}

type LoginInput struct {
	Email    string
	Password string
}

// Outcome is what every flow step hands back to the HTTP layer: either
// a signed identity token (terminal) or a pending session token, plus
// the destination the client should navigate to.
type Outcome struct {
	Token        string      `json:"token,omitempty"`
	SessionToken string      `json:"session_token,omitempty"`
	Redirect     string      `json:"redirect"`
	User         *model.User `json:"user,omitempty"`
}

const (
	RedirectVerify = "/auth/verify"
	RedirectLogin  = "/auth/login"
)

// roleDestinations is the total role-to-dashboard routing table; any
// unknown role falls through to defaultDestination.
var roleDestinations = map[string]string{
	model.RoleAdmin:     "/admin/dashboard",
	model.RoleVolunteer: "/volunteer/dashboard",
	model.RoleUser:      "/dashboard",
}

const defaultDestination = "/"

func destinationForRole(role string) string {
	if dest, ok := roleDestinations[role]; ok {
		return dest
	}
	return defaultDestination
}

// Register creates an unverified credential with a fresh 10-minute
// challenge and binds a new pending session. A previously presented
// session token is superseded and cleared.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, presentedToken string) (*Outcome, error) {
	in = normalizeRegister(in)
	if err := validateRegister(in); err != nil {
		return nil, err
	}

	if in.Role == model.RoleAdmin {
		exists, err := s.users.AdminExists(ctx)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, appErr.ErrForbidden
		}
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	code, expiry, err := otp.Generate(otp.RegisterTTL)
	if err != nil {
		return nil, err
	}
	s.collector.RecordCodeIssued()

	now := timeutil.NowUnix()
	user := &model.User{
		FullName:        in.FullName,
		Email:           in.Email,
		Phone:           in.Phone,
		PasswordHash:    hash,
		Role:            in.Role,
		EmailVerified:   false,
		TwoFactorCode:   code,
		TwoFactorExpiry: expiry,
		Ctime:           now,
		Mtime:           now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.enqueueVerificationMail(ctx, user, code, otp.RegisterTTL, false)

	if presentedToken != "" {
		s.clearBinding(ctx, presentedToken)
	}
	token, err := s.bindPending(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.collector.RecordRegistration()
	logutil.GetLogger(ctx).Info("registration pending verification",
		zap.Int64("user_id", user.ID), zap.String("role", user.Role))
	return &Outcome{SessionToken: token, Redirect: RedirectVerify}, nil
}

// Login authenticates directly when the email is already verified;
// otherwise it issues a 5-minute challenge and re-enters the pending
// handshake. Unknown email and wrong password are indistinguishable to
// the caller. A previously presented session token is superseded once
// the credentials check out, so a stale binding cannot outlive a new
// sign-in.
func (s *AuthService) Login(ctx context.Context, in LoginInput, presentedToken string) (*Outcome, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateLogin(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if appErr.IsNotFound(err) {
			s.collector.RecordLogin(false)
			return nil, appErr.ErrUnauthorized
		}
		return nil, err
	}
	if !password.Verify(in.Password, user.PasswordHash) {
		s.collector.RecordLogin(false)
		return nil, appErr.ErrUnauthorized
	}

	if presentedToken != "" {
		s.clearBinding(ctx, presentedToken)
	}

	if user.EmailVerified {
		token, err := s.issueIdentity(user)
		if err != nil {
			return nil, err
		}
		s.collector.RecordLogin(true)
		return &Outcome{Token: token, Redirect: destinationForRole(user.Role), User: user}, nil
	}

	code, expiry, err := otp.Generate(otp.LoginTTL)
	if err != nil {
		return nil, err
	}
	s.collector.RecordCodeIssued()
	if err := s.users.SetChallenge(ctx, user.ID, code, expiry, timeutil.NowUnix()); err != nil {
		return nil, err
	}

	s.enqueueVerificationMail(ctx, user, code, otp.LoginTTL, true)

	token, err := s.bindPending(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	s.collector.RecordLogin(true)
	return &Outcome{SessionToken: token, Redirect: RedirectVerify}, nil
}

// Verify consumes the pending binding and the submitted code. A missing
// binding routes back to login instead of erroring; a bad or expired
// code leaves the handshake pending.
func (s *AuthService) Verify(ctx context.Context, sessionToken, code string) (*Outcome, error) {
	user, outcome, err := s.resolvePending(ctx, sessionToken)
	if err != nil || outcome != nil {
		return outcome, err
	}

	switch err := otp.Validate(code, user.TwoFactorCode, user.TwoFactorExpiry); err {
	case otp.ErrExpired:
		s.collector.RecordVerification(metrics.VerifyResultExpired)
		return nil, appErr.ErrCodeExpired
	case otp.ErrMismatch:
		s.collector.RecordVerification(metrics.VerifyResultMismatch)
		return nil, appErr.ErrUnauthorized
	case nil:
	default:
		return nil, err
	}

	if err := s.users.ClearChallengeAndVerify(ctx, user.ID, timeutil.NowUnix()); err != nil {
		return nil, err
	}
	user.EmailVerified = true
	user.TwoFactorCode = ""
	user.TwoFactorExpiry = 0

	s.clearBinding(ctx, sessionToken)

	token, err := s.issueIdentity(user)
	if err != nil {
		return nil, err
	}
	s.collector.RecordVerification(metrics.VerifyResultSuccess)
	logutil.GetLogger(ctx).Info("email verified", zap.Int64("user_id", user.ID))
	return &Outcome{Token: token, Redirect: destinationForRole(user.Role), User: user}, nil
}

// Resend regenerates a 5-minute challenge for the pending user and
// stays in the verification state.
func (s *AuthService) Resend(ctx context.Context, sessionToken string) (*Outcome, error) {
	user, outcome, err := s.resolvePending(ctx, sessionToken)
	if err != nil || outcome != nil {
		return outcome, err
	}

	code, expiry, err := otp.Generate(otp.LoginTTL)
	if err != nil {
		return nil, err
	}
	s.collector.RecordCodeIssued()
	if err := s.users.SetChallenge(ctx, user.ID, code, expiry, timeutil.NowUnix()); err != nil {
		return nil, err
	}

	s.enqueueVerificationMail(ctx, user, code, otp.LoginTTL, true)
	return &Outcome{SessionToken: sessionToken, Redirect: RedirectVerify}, nil
}

// Logout discards any pending binding for the presented session token.
// The identity token itself is a bearer credential the client forgets.
func (s *AuthService) Logout(ctx context.Context, sessionToken string) *Outcome {
	if sessionToken != "" {
		s.clearBinding(ctx, sessionToken)
	}
	return &Outcome{Redirect: RedirectLogin}
}

// resolvePending maps a session token to its pending user. A nil user
// with a non-nil outcome means the handshake is gone and the caller
// should surface the login redirect.
func (s *AuthService) resolvePending(ctx context.Context, sessionToken string) (*model.User, *Outcome, error) {
	if sessionToken == "" {
		return nil, &Outcome{Redirect: RedirectLogin}, nil
	}
	userID, err := s.sessions.Resolve(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, session.ErrNoBinding) {
			return nil, &Outcome{Redirect: RedirectLogin}, nil
		}
		return nil, nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if appErr.IsNotFound(err) {
			s.clearBinding(ctx, sessionToken)
			return nil, &Outcome{Redirect: RedirectLogin}, nil
		}
		return nil, nil, err
	}
	return user, nil, nil
}

func (s *AuthService) bindPending(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if err := s.sessions.Bind(ctx, token, userID); err != nil {
		return "", err
	}
	return token, nil
}

func (s *AuthService) clearBinding(ctx context.Context, token string) {
	if err := s.sessions.Clear(ctx, token); err != nil {
		logutil.GetLogger(ctx).Warn("clear pending binding failed", zap.Error(err))
	}
}

func (s *AuthService) issueIdentity(user *model.User) (string, error) {
	return jwt.GenerateToken(user.ID, user.FullName, user.Email, user.Role, s.jwtSecret, s.jwtTTL)
}

func (s *AuthService) enqueueVerificationMail(ctx context.Context, user *model.User, code string, ttl time.Duration, resend bool) {
	msg, err := mail.VerificationMessage(user.Email, user.FullName, code, ttl, resend)
	if err != nil {
		logutil.GetLogger(ctx).Error("compose verification mail failed",
			zap.Int64("user_id", user.ID), zap.Error(err))
		return
	}
	s.mailer.Enqueue(msg)
}
