package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"strconv"
	"time"
)

const (
	VerifyOTPTTL = 24 * time.Hour
	ResetOTPTTL  = 15 * time.Minute

	otpMin  = 100000
	otpSpan = 900000
)

// OTPGenerator returns a fresh 6-digit code.
type OTPGenerator func() (string, error)

// GenerateOTP draws uniformly from 100000..999999.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(otpMin+n.Int64(), 10), nil
}

// checkOTP validates a supplied code against a stored challenge. A wrong
// code reports MsgInvalidOTP even when the challenge has also expired.
func checkOTP(stored, supplied string, expiresAt, now time.Time) error {
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) != 1 {
		return ErrAuth(MsgInvalidOTP)
	}
	if now.After(expiresAt) {
		return ErrAuth(MsgOTPExpired)
	}
	return nil
}
