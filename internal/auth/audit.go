package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Audit event types.
const (
	EventRegister      = "register"
	EventLogin         = "login"
	EventLoginFailed   = "login_failed"
	EventLogout        = "logout"
	EventVerifyOTPSent = "verify_otp_sent"
	EventEmailVerified = "email_verified"
	EventResetOTPSent  = "reset_otp_sent"
	EventPasswordReset = "password_reset"
)

type AuditEvent struct {
	EventType string    `json:"eventType"`
	AccountID string    `json:"accountId,omitempty"`
	Email     string    `json:"email,omitempty"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Auditor interface {
	Log(ctx context.Context, e AuditEvent) error
}

// AuditLogger appends events to capped Redis lists, one per account plus
// a global "audit" list for events without an account.
type AuditLogger struct {
	Redis  *redis.Client
	MaxLen int64
}

func auditKey(accountID string) string {
	if accountID == "" {
		return "audit"
	}
	return "audit:" + accountID
}

func (a *AuditLogger) Log(ctx context.Context, e AuditEvent) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	key := auditKey(e.AccountID)
	pipe := a.Redis.Pipeline()
	pipe.RPush(ctx, key, data)
	if a.MaxLen > 0 {
		pipe.LTrim(ctx, key, -a.MaxLen, -1)
	}
	_, err = pipe.Exec(ctx)
	return err
}
