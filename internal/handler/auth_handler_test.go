package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/relieforg/reliefhub/internal/handler"
	"github.com/relieforg/reliefhub/internal/mail"
	"github.com/relieforg/reliefhub/internal/metrics"
	"github.com/relieforg/reliefhub/internal/middleware"
	"github.com/relieforg/reliefhub/internal/model"
	appErr "github.com/relieforg/reliefhub/internal/pkg/errors"
	"github.com/relieforg/reliefhub/internal/service"
	"github.com/relieforg/reliefhub/internal/session"
)

type memUserStore struct {
	mu     sync.Mutex
	users  map[int64]*model.User
	nextID int64
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]*model.User), nextID: 1}
}

func (f *memUserStore) Create(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return appErr.ErrConflict
		}
	}
	user.ID = f.nextID
	f.nextID++
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *memUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (f *memUserStore) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *memUserStore) AdminExists(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Role == model.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (f *memUserStore) SetChallenge(ctx context.Context, userID int64, code string, expiry, mtime int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return appErr.ErrNotFound
	}
	u.TwoFactorCode = code
	u.TwoFactorExpiry = expiry
	u.Mtime = mtime
	return nil
}

func (f *memUserStore) ClearChallengeAndVerify(ctx context.Context, userID int64, mtime int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return appErr.ErrNotFound
	}
	u.TwoFactorCode = ""
	u.TwoFactorExpiry = 0
	u.EmailVerified = true
	u.Mtime = mtime
	return nil
}

func (f *memUserStore) UpdateProfile(ctx context.Context, userID int64, fullName, phone string, mtime int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return appErr.ErrNotFound
	}
	u.FullName = fullName
	u.Phone = phone
	u.Mtime = mtime
	return nil
}

func (f *memUserStore) code(userID int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		return u.TwoFactorCode
	}
	return ""
}

type noopMailer struct{}

func (noopMailer) Enqueue(mail.Message) {}

func setupRouter(t *testing.T) (http.Handler, *memUserStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := newMemUserStore()
	sessions := session.NewMemoryStore(64, 30*time.Minute)
	jwtSecret := []byte("test-secret")
	authService := service.NewAuthService(users, sessions, noopMailer{}, metrics.Noop{}, jwtSecret, time.Hour)

	deps := handler.RouterDeps{
		Auth:      handler.NewAuthHandler(authService),
		Profile:   handler.NewProfileHandler(authService),
		JWTSecret: jwtSecret,
		JWTTTL:    time.Hour,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)
	return engine, users
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	router, users := setupRouter(t)

	resp := postJSON(t, router, "/api/v1/auth/register", map[string]string{
		"full_name":        "Test User",
		"email":            "test@example.com",
		"phone":            "0821234567",
		"password":         "Aa1!aaaa",
		"confirm_password": "Aa1!aaaa",
		"role":             "User",
	}, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	sessionToken := resp.Header().Get(handler.SessionTokenHeader)
	require.NotEmpty(t, sessionToken)

	code := users.code(1)
	require.Len(t, code, 6)

	resp = postJSON(t, router, "/api/v1/auth/verify", map[string]string{"code": code},
		map[string]string{handler.SessionTokenHeader: sessionToken})
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "token")
	require.Contains(t, resp.Body.String(), "/dashboard")

	resp = postJSON(t, router, "/api/v1/auth/login", map[string]string{
		"email":    "test@example.com",
		"password": "Aa1!aaaa",
	}, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "token")
	require.Empty(t, resp.Header().Get(handler.SessionTokenHeader))
}

func TestVerifyWithoutSessionRedirectsToLogin(t *testing.T) {
	router, _ := setupRouter(t)

	resp := postJSON(t, router, "/api/v1/auth/verify", map[string]string{"code": "123456"}, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "/auth/login")
}

func TestProfileRequiresToken(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Contains(t, resp.Body.String(), "authorization")
}
