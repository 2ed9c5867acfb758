package auth

import "time"

// Account is the single persisted entity. An OTP field is either empty
// (no active challenge) or a 6-digit code with its expiry set.
type Account struct {
	ID                 string
	Name               string
	Email              string
	PasswordHash       string
	Verified           bool
	VerifyOTP          string
	VerifyOTPExpiresAt time.Time
	ResetOTP           string
	ResetOTPExpiresAt  time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (a *Account) clearVerifyOTP() {
	a.VerifyOTP = ""
	a.VerifyOTPExpiresAt = time.Time{}
}

func (a *Account) clearResetOTP() {
	a.ResetOTP = ""
	a.ResetOTPExpiresAt = time.Time{}
}

// UserData is the public projection returned by /api/user/data.
type UserData struct {
	Name              string `json:"name"`
	IsAccountVerified bool   `json:"isAccountVerified"`
}
