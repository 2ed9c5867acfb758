package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseVars() map[string]string {
	return map[string]string{
		"DATABASE_URL": "postgres://localhost/authflow",
		"JWT_SECRET":   "0123456789abcdef0123",
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(baseVars())
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 587, cfg.Email.Port)
	assert.Equal(t, int64(1000), cfg.AuditMaxLen)
	assert.False(t, cfg.Production())
	assert.False(t, cfg.Email.Enabled())
}

func TestLoadFrom_MissingRequired(t *testing.T) {
	vars := baseVars()
	delete(vars, "DATABASE_URL")

	_, err := LoadFrom(vars)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadFrom_ShortSecret(t *testing.T) {
	vars := baseVars()
	vars["JWT_SECRET"] = "short"

	_, err := LoadFrom(vars)
	require.Error(t, err)
}

func TestLoadFrom_EmailAndProduction(t *testing.T) {
	vars := baseVars()
	vars["APP_ENV"] = "Production"
	vars["SMTP_HOST"] = " 'smtp.example.com' "
	vars["SMTP_PORT"] = "465"
	vars["SENDER_EMAIL"] = "\"noreply@example.com\""
	vars["SMTP_SECURE"] = "true"

	cfg, err := LoadFrom(vars)
	require.NoError(t, err)

	assert.True(t, cfg.Production())
	assert.Equal(t, "smtp.example.com", cfg.Email.Host)
	assert.Equal(t, "noreply@example.com", cfg.Email.From)
	assert.Equal(t, 465, cfg.Email.Port)
	assert.True(t, cfg.Email.Secure)
	assert.True(t, cfg.Email.Enabled())
}

func TestLoadFrom_TrustedProxies(t *testing.T) {
	vars := baseVars()
	vars["TRUSTED_PROXIES"] = "10.0.0.0/8,127.0.0.1"

	cfg, err := LoadFrom(vars)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)
}

func TestLoadFrom_CORSOrigins(t *testing.T) {
	vars := baseVars()
	cfg, err := LoadFrom(vars)
	require.NoError(t, err)
	assert.Empty(t, cfg.CORSOrigins)

	vars["CORS_ORIGINS"] = "https://app.example.com,http://localhost:5173"
	cfg, err = LoadFrom(vars)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:5173"}, cfg.CORSOrigins)
}
