package auth

import (
	"crypto/rand"
	"errors"
	"math/big"
	"time"
)

var (
	// ErrOTPExpired means the code was correct or not, but its window is
	// over. Checked before the value comparison so callers can tell the
	// two apart.
	ErrOTPExpired = errors.New("otp has expired")

	// ErrOTPInvalid means the submitted code does not match the stored
	// one exactly.
	ErrOTPInvalid = errors.New("invalid otp")
)

const (
	otpMin  = 100000
	otpSpan = 900000
)

// OTP is a one-time code bound to an expiry. The pair travels together;
// persistence is the caller's problem.
type OTP struct {
	Code      string
	ExpiresAt time.Time
}

// GenerateOTP returns a 6-digit numeric code in [100000, 999999].
func GenerateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		// crypto/rand failing means the process has bigger problems.
		panic(err)
	}
	return big.NewInt(otpMin + n.Int64()).String()
}

// IssueOTP pairs a fresh code with an expiry ttl from now.
func IssueOTP(now time.Time, ttl time.Duration) OTP {
	return OTP{Code: GenerateOTP(), ExpiresAt: now.Add(ttl)}
}

// VerifyOTP checks a submitted code against the stored pair. Expiry wins
// over mismatch: a correct-but-late code reports ErrOTPExpired. The value
// comparison is an exact match, no normalization.
func VerifyOTP(stored, submitted string, expiresAt, now time.Time) error {
	if now.After(expiresAt) {
		return ErrOTPExpired
	}
	if stored != submitted {
		return ErrOTPInvalid
	}
	return nil
}
