package auth

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTPRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := GenerateOTP()
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestIssueOTPExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	otp := IssueOTP(now, 10*time.Minute)

	assert.Len(t, otp.Code, 6)
	assert.Equal(t, now.Add(10*time.Minute), otp.ExpiresAt)
}

func TestVerifyOTP(t *testing.T) {
	now := time.Now()
	expires := now.Add(10 * time.Minute)

	assert.NoError(t, VerifyOTP("123456", "123456", expires, now))
	assert.ErrorIs(t, VerifyOTP("123456", "654321", expires, now), ErrOTPInvalid)
}

func TestVerifyOTPExpiredWinsOverMismatch(t *testing.T) {
	now := time.Now()
	expires := now.Add(-time.Second)

	// A correct code past the window is Expired, not Invalid.
	assert.ErrorIs(t, VerifyOTP("123456", "123456", expires, now), ErrOTPExpired)
	assert.ErrorIs(t, VerifyOTP("123456", "000000", expires, now), ErrOTPExpired)
}

func TestVerifyOTPExactMatchOnly(t *testing.T) {
	now := time.Now()
	expires := now.Add(time.Minute)

	// No normalization: whitespace or truncation does not match.
	assert.ErrorIs(t, VerifyOTP("123456", " 123456", expires, now), ErrOTPInvalid)
	assert.ErrorIs(t, VerifyOTP("123456", "12345", expires, now), ErrOTPInvalid)
}
