package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const EnvProduction = "production"

type Config struct {
	Port          string        `env:"PORT" envDefault:"5000"`
	Env           string        `env:"APP_ENV" envDefault:"development"`
	AppName       string        `env:"APP_NAME" envDefault:"Braking Bad"`
	DatabaseURL   string        `env:"DATABASE_URL,required"`
	RedisURL      string        `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	JWTSecret     string        `env:"JWT_SECRET,required"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	LogFile       string        `env:"LOG_FILE"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	MigrationsDir string        `env:"MIGRATIONS_DIR" envDefault:"./migrations"`
	AuditMaxLen   int64         `env:"AUDIT_MAX_LEN" envDefault:"1000"`
	// Forwarded headers are honoured only from these addresses or CIDRs.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	// Browser origins allowed to call the API with credentials. Empty disables CORS.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
	Email       EmailConfig
}

type EmailConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SENDER_EMAIL"`
	Secure   bool   `env:"SMTP_SECURE"`
}

func (e EmailConfig) Enabled() bool {
	return e.Host != "" && e.Port != 0 && e.From != ""
}

// Production reports whether the session cookie must be Secure with SameSite=None.
func (c Config) Production() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom parses the configuration from vars, or from the process
// environment when vars is nil.
func LoadFrom(vars map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{}
	if vars != nil {
		opts.Environment = vars
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Email.Host = clean(cfg.Email.Host)
	cfg.Email.Username = clean(cfg.Email.Username)
	cfg.Email.Password = clean(cfg.Email.Password)
	cfg.Email.From = clean(cfg.Email.From)

	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("TOKEN_TTL must be positive")
	}
	if len(cfg.JWTSecret) < 16 {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least 16 bytes")
	}
	return cfg, nil
}

func clean(val string) string {
	return strings.Trim(val, "\"' \t\r\n")
}
