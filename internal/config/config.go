package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const minSecretLen = 16

type Config struct {
	Env           string
	Port          string
	DBDriver      string // postgres | sqlite
	DBURL         string
	Origin        string // CORS
	JWTSecret     string
	TokenTTL      time.Duration
	RatePerMinute int
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// LoadEnvFile merges a dotenv file into the process environment. Variables
// already set win. An empty path means ".env" and a missing default file is
// ignored; an explicit path must exist.
func LoadEnvFile(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from the environment. It fails when JWT_SECRET is
// missing or too short; there is no fallback secret.
func Load() (Config, error) {
	cfg := Config{
		Env:      env("APP_ENV", "dev"),
		Port:     env("API_PORT", "8080"),
		DBDriver: strings.ToLower(env("DB_DRIVER", "postgres")),
		Origin:   env("CORS_ORIGIN", "http://localhost:3000"),
	}

	switch cfg.DBDriver {
	case "postgres":
		cfg.DBURL = os.Getenv("DB_DSN")
		if cfg.DBURL == "" {
			return Config{}, errors.New("DB_DSN is required when DB_DRIVER=postgres")
		}
	case "sqlite":
		cfg.DBURL = env("DB_DSN", "helpdesk.db")
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is not set")
	}
	if len(cfg.JWTSecret) < minSecretLen {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLen)
	}

	ttl, err := time.ParseDuration(env("TOKEN_TTL", "2h"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return Config{}, errors.New("TOKEN_TTL must be positive")
	}
	cfg.TokenTTL = ttl

	rate, err := strconv.Atoi(env("RATE_LIMIT_PER_MIN", "200"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_PER_MIN: %w", err)
	}
	if rate <= 0 {
		return Config{}, errors.New("RATE_LIMIT_PER_MIN must be positive")
	}
	cfg.RatePerMinute = rate

	return cfg, nil
}

// String masks the secret and any DSN password.
func (c Config) String() string {
	return fmt.Sprintf("Config{env=%s port=%s db=%s dsn=%s origin=%s ttl=%s secret=***}",
		c.Env, c.Port, c.DBDriver, redactDSN(c.DBURL), c.Origin, c.TokenTTL)
}

var dsnPassword = regexp.MustCompile(`(?i)(password\s*=\s*)('[^']*'|\S+)`)

// redactDSN masks the password of a URL DSN or a key=value DSN.
func redactDSN(dsn string) string {
	if !strings.Contains(dsn, "://") {
		return dsnPassword.ReplaceAllString(dsn, "${1}xxxxx")
	}
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
