package auth

import (
	"context"
	"testing"
	"time"

	"cinebook/internal/shared/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOTPStore(t *testing.T) (*OTPStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewOTPStore(client, 300*time.Second, 3, 10*time.Minute), mr
}

func TestOTPIssueAndVerify(t *testing.T) {
	store, _ := newTestOTPStore(t)
	ctx := context.Background()

	code, err := store.Issue(ctx, OTPPurposeRegister, "Lan@Example.com ")
	require.NoError(t, err)
	assert.Len(t, code, OTPLength)

	token, err := store.Verify(ctx, OTPPurposeRegister, "lan@example.com", code)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// code is single use
	_, err = store.Verify(ctx, OTPPurposeRegister, "lan@example.com", code)
	assert.ErrorIs(t, err, ErrOTPExpired)

	email, err := store.Consume(ctx, OTPPurposeRegister, token)
	require.NoError(t, err)
	assert.Equal(t, "lan@example.com", email)

	_, err = store.Consume(ctx, OTPPurposeRegister, token)
	assert.ErrorIs(t, err, ErrVerificationInvalid)
}

func TestOTPExpiresAfterTTL(t *testing.T) {
	store, mr := newTestOTPStore(t)
	ctx := context.Background()

	code, err := store.Issue(ctx, OTPPurposeRegister, "lan@example.com")
	require.NoError(t, err)

	mr.FastForward(301 * time.Second)

	_, err = store.Verify(ctx, OTPPurposeRegister, "lan@example.com", code)
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestOTPResendSupersedesPreviousCode(t *testing.T) {
	store, _ := newTestOTPStore(t)
	ctx := context.Background()

	first, err := store.Issue(ctx, OTPPurposeResetPassword, "lan@example.com")
	require.NoError(t, err)

	var second string
	for {
		second, err = store.Issue(ctx, OTPPurposeResetPassword, "lan@example.com")
		require.NoError(t, err)
		if second != first {
			break
		}
	}

	_, err = store.Verify(ctx, OTPPurposeResetPassword, "lan@example.com", first)
	assert.ErrorIs(t, err, ErrInvalidOTP)

	_, err = store.Verify(ctx, OTPPurposeResetPassword, "lan@example.com", second)
	assert.NoError(t, err)
}

func TestOTPAttemptLimit(t *testing.T) {
	store, _ := newTestOTPStore(t)
	ctx := context.Background()

	code, err := store.Issue(ctx, OTPPurposeRegister, "lan@example.com")
	require.NoError(t, err)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	for i := 0; i < 3; i++ {
		_, err = store.Verify(ctx, OTPPurposeRegister, "lan@example.com", wrong)
		assert.ErrorIs(t, err, ErrInvalidOTP)
	}

	_, err = store.Verify(ctx, OTPPurposeRegister, "lan@example.com", code)
	assert.ErrorIs(t, err, ErrOTPAttemptsExceeded)

	// session is gone after lockout
	_, err = store.Verify(ctx, OTPPurposeRegister, "lan@example.com", code)
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestOTPConsumeChecksPurpose(t *testing.T) {
	store, _ := newTestOTPStore(t)
	ctx := context.Background()

	code, err := store.Issue(ctx, OTPPurposeRegister, "lan@example.com")
	require.NoError(t, err)
	token, err := store.Verify(ctx, OTPPurposeRegister, "lan@example.com", code)
	require.NoError(t, err)

	_, err = store.Consume(ctx, OTPPurposeResetPassword, token)
	assert.ErrorIs(t, err, ErrVerificationInvalid)
}

func TestGenerateOTPFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateOTP()
		require.NoError(t, err)
		require.Len(t, code, OTPLength)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}

func TestOTPVerifyKeepsSessionTTL(t *testing.T) {
	store, mr := newTestOTPStore(t)
	ctx := context.Background()
	key := constants.BuildOTPSessionKey(string(OTPPurposeRegister), "lan@example.com")

	code, err := store.Issue(ctx, OTPPurposeRegister, "lan@example.com")
	require.NoError(t, err)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	_, err = store.Verify(ctx, OTPPurposeRegister, "lan@example.com", wrong)
	assert.ErrorIs(t, err, ErrInvalidOTP)
	assert.Equal(t, "1", mr.HGet(key, "attempts"))
	assert.Greater(t, mr.TTL(key), time.Duration(0))
}

func TestOTPVerifyMissingSessionCreatesNoKey(t *testing.T) {
	store, mr := newTestOTPStore(t)
	ctx := context.Background()

	_, err := store.Verify(ctx, OTPPurposeRegister, "nobody@example.com", "123456")
	assert.ErrorIs(t, err, ErrOTPExpired)
	assert.False(t, mr.Exists(constants.BuildOTPSessionKey(string(OTPPurposeRegister), "nobody@example.com")))
}
