package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cinebook/internal/shared/config"
	"cinebook/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memRepo struct {
	mu    sync.Mutex
	users map[string]*users.User
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string]*users.User{}}
}

func (m *memRepo) CreateUser(_ context.Context, user *users.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[normalizeEmail(user.Email)]; ok {
		return ErrUserAlreadyExists
	}
	user.ID = uuid.New()
	m.users[normalizeEmail(user.Email)] = user
	return nil
}

func (m *memRepo) GetUserByEmail(_ context.Context, email string) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[normalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (m *memRepo) GetUserByID(_ context.Context, id string) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memRepo) UpdateUserPassword(ctx context.Context, userID, hashed string) error {
	u, err := m.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

func (m *memRepo) EmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[normalizeEmail(email)]
	return ok, nil
}

type captureNotifier struct {
	codes map[string]string
}

func (c *captureNotifier) SendOTP(_ context.Context, email, code, purpose string, _ time.Duration) error {
	c.codes[purpose+":"+email] = code
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: time.Hour,
		},
		OTP: config.OTPConfig{
			TTL:             300 * time.Second,
			MaxAttempts:     5,
			VerificationTTL: 10 * time.Minute,
		},
	}
}

func newTestService(t *testing.T) (Service, *memRepo, *captureNotifier) {
	store, _ := newTestOTPStore(t)
	repo := newMemRepo()
	notifier := &captureNotifier{codes: map[string]string{}}
	return NewService(repo, store, notifier, testConfig()), repo, notifier
}

func TestRegistrationFlow(t *testing.T) {
	svc, repo, notifier := newTestService(t)
	ctx := context.Background()

	resp, err := svc.RequestOTP(ctx, &OTPRequest{Email: "Lan@example.com", Purpose: OTPPurposeRegister})
	require.NoError(t, err)
	assert.Equal(t, int64(300), resp.ExpiresIn)

	code := notifier.codes["register:lan@example.com"]
	require.Len(t, code, 6)

	verified, err := svc.VerifyOTP(ctx, &OTPVerifyRequest{Email: "lan@example.com", Purpose: OTPPurposeRegister, Code: code})
	require.NoError(t, err)

	user, err := svc.CompleteRegistration(ctx, &CompleteRegistrationRequest{
		VerificationToken: verified.VerificationToken,
		FirstName:         "Lan",
		LastName:          "Nguyen",
		Password:          "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "lan@example.com", user.Email)
	assert.Equal(t, string(users.RoleUser), user.Role)

	stored, err := repo.GetUserByEmail(ctx, "lan@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret1")))

	// a second registration for the same address is refused up front
	_, err = svc.RequestOTP(ctx, &OTPRequest{Email: "lan@example.com", Purpose: OTPPurposeRegister})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	auth, err := svc.Login(ctx, &LoginRequest{Email: "lan@example.com", Password: "secret1"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(auth.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.Equal(t, stored.ID.String(), claims.UserID)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, repo, notifier := newTestService(t)
	ctx := context.Background()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("oldpass"), bcrypt.MinCost)
	require.NoError(t, repo.CreateUser(ctx, &users.User{Email: "lan@example.com", Password: string(hashed), Role: users.RoleUser}))

	_, err := svc.RequestOTP(ctx, &OTPRequest{Email: "nobody@example.com", Purpose: OTPPurposeResetPassword})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.RequestOTP(ctx, &OTPRequest{Email: "lan@example.com", Purpose: OTPPurposeResetPassword})
	require.NoError(t, err)

	verified, err := svc.VerifyOTP(ctx, &OTPVerifyRequest{
		Email:   "lan@example.com",
		Purpose: OTPPurposeResetPassword,
		Code:    notifier.codes["reset_password:lan@example.com"],
	})
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, &ResetPasswordRequest{VerificationToken: verified.VerificationToken, NewPassword: "newpass"}))

	_, err = svc.Login(ctx, &LoginRequest{Email: "lan@example.com", Password: "oldpass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &LoginRequest{Email: "lan@example.com", Password: "newpass"})
	assert.NoError(t, err)

	// the verification token cannot be replayed
	err = svc.ResetPassword(ctx, &ResetPasswordRequest{VerificationToken: verified.VerificationToken, NewPassword: "again1"})
	assert.ErrorIs(t, err, ErrVerificationInvalid)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, repo.CreateUser(ctx, &users.User{Email: "lan@example.com", Password: string(hashed), Role: users.RoleAdmin}))

	auth, err := svc.Login(ctx, &LoginRequest{Email: "lan@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(ctx, auth.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	pair, err := svc.RefreshToken(ctx, auth.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
}

func TestControllerValidationAndErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _, _ := newTestService(t)
	r := gin.New()
	NewRouter(NewController(svc), testConfig()).SetupRoutes(r.Group("/api/v1"))

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"bad purpose", "/api/v1/auth/otp/request", `{"email":"a@b.co","purpose":"other"}`, http.StatusBadRequest},
		{"bad email", "/api/v1/auth/otp/request", `{"email":"nope","purpose":"register"}`, http.StatusBadRequest},
		{"code not requested", "/api/v1/auth/otp/verify", `{"email":"a@b.co","purpose":"register","code":"123456"}`, http.StatusGone},
		{"non numeric code", "/api/v1/auth/otp/verify", `{"email":"a@b.co","purpose":"register","code":"12a456"}`, http.StatusBadRequest},
		{"wrong login", "/api/v1/auth/login", `{"email":"a@b.co","password":"secret1"}`, http.StatusUnauthorized},
		{"request ok", "/api/v1/auth/otp/request", `{"email":"a@b.co","purpose":"register"}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}
