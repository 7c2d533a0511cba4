package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"cinebook/internal/shared/constants"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type OTPPurpose string

const (
	OTPPurposeRegister      OTPPurpose = "register"
	OTPPurposeResetPassword OTPPurpose = "reset_password"
)

func (p OTPPurpose) Valid() bool {
	return p == OTPPurposeRegister || p == OTPPurposeResetPassword
}

const OTPLength = 6

var (
	ErrOTPExpired          = errors.New("verification code expired or not requested")
	ErrInvalidOTP          = errors.New("invalid verification code")
	ErrOTPAttemptsExceeded = errors.New("too many invalid attempts, request a new code")
	ErrVerificationInvalid = errors.New("verification token is invalid or expired")
)

// OTPStore keeps one live code per (purpose, email). Issuing again supersedes
// the previous code and resets the attempt counter.
type OTPStore struct {
	client          *redis.Client
	ttl             time.Duration
	maxAttempts     int
	verificationTTL time.Duration
}

func NewOTPStore(client *redis.Client, ttl time.Duration, maxAttempts int, verificationTTL time.Duration) *OTPStore {
	return &OTPStore{
		client:          client,
		ttl:             ttl,
		maxAttempts:     maxAttempts,
		verificationTTL: verificationTTL,
	}
}

func (s *OTPStore) TTL() time.Duration { return s.ttl }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *OTPStore) Issue(ctx context.Context, purpose OTPPurpose, email string) (string, error) {
	code, err := generateOTP()
	if err != nil {
		return "", err
	}

	key := constants.BuildOTPSessionKey(string(purpose), normalizeEmail(email))
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, "code", code, "attempts", 0)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to store otp: %w", err)
	}
	return code, nil
}

// verifyAttempt counts an attempt only while the session exists, so an
// expired key is never recreated without a TTL.
var verifyAttempt = redis.NewScript(`
local code = redis.call('HGET', KEYS[1], 'code')
if not code then
	return false
end
local attempts = redis.call('HINCRBY', KEYS[1], 'attempts', 1)
return {attempts, code}
`)

// Verify checks the code and, on success, swaps the OTP session for a
// single-use verification token bound to the same purpose and email.
func (s *OTPStore) Verify(ctx context.Context, purpose OTPPurpose, email, code string) (string, error) {
	email = normalizeEmail(email)
	key := constants.BuildOTPSessionKey(string(purpose), email)

	res, err := verifyAttempt.Run(ctx, s.client, []string{key}).Slice()
	if errors.Is(err, redis.Nil) {
		return "", ErrOTPExpired
	}
	if err != nil {
		return "", fmt.Errorf("failed to count otp attempt: %w", err)
	}
	attempts, _ := res[0].(int64)
	stored, _ := res[1].(string)
	if int(attempts) > s.maxAttempts {
		s.client.Del(ctx, key)
		return "", ErrOTPAttemptsExceeded
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return "", ErrInvalidOTP
	}

	token := uuid.NewString()
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.Set(ctx, constants.BuildOTPVerificationKey(token), string(purpose)+"|"+email, s.verificationTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to store verification: %w", err)
	}
	return token, nil
}

// Consume redeems a verification token once and returns the verified email.
func (s *OTPStore) Consume(ctx context.Context, purpose OTPPurpose, token string) (string, error) {
	val, err := s.client.GetDel(ctx, constants.BuildOTPVerificationKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrVerificationInvalid
	}
	if err != nil {
		return "", fmt.Errorf("failed to load verification: %w", err)
	}

	p, email, ok := strings.Cut(val, "|")
	if !ok || OTPPurpose(p) != purpose {
		return "", ErrVerificationInvalid
	}
	return email, nil
}

func generateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < OTPLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	code := strconv.FormatInt(n.Int64(), 10)
	return strings.Repeat("0", OTPLength-len(code)) + code, nil
}
