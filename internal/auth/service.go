package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"cinebook/internal/shared/config"
	"cinebook/internal/users"
	"cinebook/pkg/logger"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidPurpose     = errors.New("invalid otp purpose")
)

// OTPNotifier delivers codes to the user's mailbox
type OTPNotifier interface {
	SendOTP(ctx context.Context, email, code, purpose string, ttl time.Duration) error
}

type Service interface {
	RequestOTP(ctx context.Context, req *OTPRequest) (*OTPRequestResponse, error)
	VerifyOTP(ctx context.Context, req *OTPVerifyRequest) (*OTPVerifyResponse, error)
	CompleteRegistration(ctx context.Context, req *CompleteRegistrationRequest) (*UserResponse, error)
	ResetPassword(ctx context.Context, req *ResetPasswordRequest) error
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error
	ValidateToken(tokenString string) (*JWTClaims, error)
}

type service struct {
	repo     Repository
	otp      *OTPStore
	notifier OTPNotifier
	config   *config.Config
	log      *logger.Logger
}

func NewService(repo Repository, otp *OTPStore, notifier OTPNotifier, cfg *config.Config) Service {
	return &service{
		repo:     repo,
		otp:      otp,
		notifier: notifier,
		config:   cfg,
		log:      logger.GetDefault(),
	}
}

func (s *service) RequestOTP(ctx context.Context, req *OTPRequest) (*OTPRequestResponse, error) {
	if !req.Purpose.Valid() {
		return nil, ErrInvalidPurpose
	}

	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	switch req.Purpose {
	case OTPPurposeRegister:
		if exists {
			return nil, ErrUserAlreadyExists
		}
	case OTPPurposeResetPassword:
		if !exists {
			return nil, ErrUserNotFound
		}
	}

	code, err := s.otp.Issue(ctx, req.Purpose, req.Email)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendOTP(ctx, normalizeEmail(req.Email), code, string(req.Purpose), s.otp.TTL()); err != nil {
		return nil, fmt.Errorf("failed to send otp: %w", err)
	}
	s.log.LogOTPIssued(ctx, string(req.Purpose), normalizeEmail(req.Email))

	return &OTPRequestResponse{ExpiresIn: int64(s.otp.TTL().Seconds())}, nil
}

func (s *service) VerifyOTP(ctx context.Context, req *OTPVerifyRequest) (*OTPVerifyResponse, error) {
	if !req.Purpose.Valid() {
		return nil, ErrInvalidPurpose
	}

	token, err := s.otp.Verify(ctx, req.Purpose, req.Email, req.Code)
	if err != nil {
		return nil, err
	}

	return &OTPVerifyResponse{
		VerificationToken: token,
		ExpiresIn:         int64(s.config.OTP.VerificationTTL.Seconds()),
	}, nil
}

// CompleteRegistration creates the account but does not sign the user in;
// the client logs in explicitly afterwards.
func (s *service) CompleteRegistration(ctx context.Context, req *CompleteRegistrationRequest) (*UserResponse, error) {
	email, err := s.otp.Consume(ctx, OTPPurposeRegister, req.VerificationToken)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &users.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     email,
		Password:  string(hashedPassword),
		Role:      users.RoleUser,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.InfoWithContext(ctx, "User registered", map[string]interface{}{"user_id": user.ID.String()})
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *service) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	email, err := s.otp.Consume(ctx, OTPPurposeResetPassword, req.VerificationToken)
	if err != nil {
		return err
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdateUserPassword(ctx, user.ID.String(), string(hashedPassword))
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokenPair, err := s.generateTokenPair(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	s.log.LogAuthSuccess(ctx, user.ID.String(), "password")
	return &AuthResponse{
		User:         toUserResponse(user),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.validateToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if claims.Type != TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	return s.generateTokenPair(user.ID.String(), user.Email, string(user.Role))
}

func (s *service) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdateUserPassword(ctx, userID, string(hashedPassword))
}

func (s *service) ValidateToken(tokenString string) (*JWTClaims, error) {
	return s.validateToken(tokenString)
}

func (s *service) signToken(userID, email, role, tokenType string, now time.Time, ttl time.Duration) (string, error) {
	claims := JWTClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "cinebook",
			Subject:   userID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWT.Secret))
}

func (s *service) generateTokenPair(userID, email, role string) (*TokenPair, error) {
	now := time.Now()

	accessToken, err := s.signToken(userID, email, role, TokenTypeAccess, now, s.config.JWT.JWTExpiresIn)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.signToken(userID, email, role, TokenTypeRefresh, now, s.config.JWT.RefreshExpiresIn)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.JWTExpiresIn.Seconds()),
	}, nil
}

func (s *service) validateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.JWT.Secret), nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
