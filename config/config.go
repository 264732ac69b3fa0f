package config

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/shopspring/decimal"
)

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Google  GoogleConfig
	Session SessionConfig
	Shop    ShopConfig
	Admin   AdminConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// DBConfig selects the driver from the URL: postgres:// and postgresql:// go to
// PostgreSQL, anything else is a SQLite file path.
type DBConfig struct {
	URL      string `env:"DATABASE_URL" envDefault:"site.db"`
	LogLevel string `env:"DB_LOG_LEVEL" envDefault:"warn"`
}

type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `env:"GOOGLE_REDIRECT_URL" envDefault:"http://localhost:8080/login/google/callback"`
}

// Enabled is false until a client id is configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != ""
}

type SessionConfig struct {
	RawSessionKey string `env:"SESSION_KEY"`
	RawCSRFKey    string `env:"CSRF_KEY"`
	RawStateKey   string `env:"STATE_SECRET"`
	CookieSecure  bool   `env:"COOKIE_SECURE" envDefault:"false"`
	CookieDomain  string `env:"COOKIE_DOMAIN"`

	SessionKey []byte
	CSRFKey    []byte
	StateKey   []byte
}

type ShopConfig struct {
	DeliveryCostIQD int64  `env:"DELIVERY_COST" envDefault:"5000"`
	UploadDir       string `env:"UPLOAD_DIR" envDefault:"static/uploads"`
}

// DeliveryCost is the fixed delivery charge added to every order.
func (s ShopConfig) DeliveryCost() decimal.Decimal {
	return decimal.NewFromInt(s.DeliveryCostIQD)
}

type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME" envDefault:"admin"`
	Password string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Shop.DeliveryCostIQD < 0 {
		return nil, fmt.Errorf("parse config: DELIVERY_COST must not be negative")
	}

	cfg.Session.SessionKey = decodeKey("SESSION_KEY", cfg.Session.RawSessionKey)
	cfg.Session.CSRFKey = decodeKey("CSRF_KEY", cfg.Session.RawCSRFKey)
	if cfg.Session.RawStateKey != "" {
		cfg.Session.StateKey = []byte(cfg.Session.RawStateKey)
	} else {
		sum := sha256.Sum256(append([]byte("oauth-state:"), cfg.Session.SessionKey...))
		cfg.Session.StateKey = sum[:]
	}
	return cfg, nil
}

// decodeKey reads a base64 key of at least 32 bytes. A missing or short key falls back
// to a random one, which invalidates sessions on every restart.
func decodeKey(name, raw string) []byte {
	if raw == "" {
		slog.Warn("key not set, generating a random one; sessions will not survive a restart", "env", name)
		return randomBytes(32)
	}
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(key) < 32 {
		slog.Warn("key is invalid or shorter than 32 bytes, generating a random one", "env", name)
		return randomBytes(32)
	}
	return key
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("read random bytes: %v", err))
	}
	return b
}
