// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config is decoded from the process environment. A .env file in the working
// directory is loaded first when present.
type Config struct {
	Env         string `env:"ENV,default=production"`
	Port        int    `env:"PORT,default=3001"`
	Version     string `env:"APP_VERSION,default=1.0.0"`
	FrontendURL string `env:"FRONTEND_URL,default=http://localhost:3000"`

	Database  DatabaseConfig
	Auth      AuthConfig
	Email     EmailConfig
	Queue     QueueConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Schedule  ScheduleConfig
}

type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	Host            string        `env:"DB_HOST,default=localhost"`
	Port            int           `env:"DB_PORT,default=5432"`
	User            string        `env:"DB_USER,default=postgres"`
	Password        string        `env:"DB_PASSWORD"`
	Name            string        `env:"DB_NAME,default=hvac"`
	SSLMode         string        `env:"DB_SSLMODE,default=disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`
}

type AuthConfig struct {
	JWTSecret    string        `env:"JWT_SECRET"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN,default=24h"`
}

type EmailConfig struct {
	Host         string `env:"EMAIL_HOST"`
	Port         int    `env:"EMAIL_PORT,default=587"`
	User         string `env:"EMAIL_USER"`
	Password     string `env:"EMAIL_PASSWORD"`
	From         string `env:"EMAIL_FROM,default=noreply@hvacpro.com"`
	CompanyPhone string `env:"COMPANY_PHONE,default=(555) 123-4567"`
}

type QueueConfig struct {
	AMQPURL string `env:"AMQP_URL"`
}

type RateLimitConfig struct {
	Requests int           `env:"RATE_LIMIT_MAX,default=100"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW,default=15m"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL,default=info"`
	Format string `env:"LOG_FORMAT,default=text"`
}

type ScheduleConfig struct {
	Cleanup   string `env:"CLEANUP_SCHEDULE,default=0 0 3 * * *"`
	Reminders string `env:"REMINDER_SCHEDULE,default=0 0 9 * * *"`
}

// Load reads .env (if any) and decodes the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the server cannot run without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("JWT_SECRET is required")
		}
		c.Auth.JWTSecret = "dev-secret-change-me"
	}
	if c.Auth.JWTExpiresIn <= 0 {
		return errors.New("JWT_EXPIRES_IN must be positive")
	}
	if c.RateLimit.Requests < 1 || c.RateLimit.Window <= 0 {
		return errors.New("rate limit settings must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "test"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// DSN returns DATABASE_URL when set, otherwise builds one from the DB_* parts.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// EmailEnabled reports whether SMTP delivery is configured.
func (e EmailConfig) EmailEnabled() bool {
	return e.Host != ""
}

// String masks secrets so the config can be logged at startup.
func (c *Config) String() string {
	return fmt.Sprintf("env=%s port=%d db=%s@%s:%d/%s smtp=%s amqp=%t jwt_secret=%s",
		c.Env, c.Port, c.Database.User, c.Database.Host, c.Database.Port, c.Database.Name,
		c.Email.Host, c.Queue.AMQPURL != "", mask(c.Auth.JWTSecret))
}

func mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + "****" + s[len(s)-2:]
}
