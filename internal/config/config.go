package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// insecureDevSecret is the legacy fallback signing secret. Prod refuses to
// start without a real secret; dev keeps the fallback so the server runs out
// of the box.
const insecureDevSecret = "dev-secret"

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	TLSMode  string
}

// Configured reports whether mail dispatch can be attempted at all.
func (s SMTP) Configured() bool { return s.Host != "" }

type Config struct {
	Env       string
	Addr      string
	DBDSN     string
	LogLevel  string
	JWTSecret string

	// BaseURL is the public frontend origin embedded in reset links.
	BaseURL *url.URL

	SMTP SMTP
}

func Load() (Config, error) {
	return LoadFromEnv(os.Getenv)
}

func LoadFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:       getenv("APP_ENV"),
		Addr:      getenv("APP_ADDR"),
		DBDSN:     getenv("APP_DB_DSN"),
		LogLevel:  getenv("APP_LOG_LEVEL"),
		JWTSecret: getenv("APP_JWT_SECRET"),
		SMTP: SMTP{
			Host:     getenv("APP_SMTP_HOST"),
			Username: getenv("APP_SMTP_USERNAME"),
			Password: getenv("APP_SMTP_PASSWORD"),
			From:     getenv("APP_SMTP_FROM"),
			TLSMode:  getenv("APP_SMTP_TLS"),
		},
	}

	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}

	switch cfg.Env {
	case "dev", "prod", "test":
	default:
		return Config{}, errors.New("APP_ENV: must be one of dev, test, prod")
	}

	baseURLRaw := getenv("APP_BASE_URL")
	if baseURLRaw != "" {
		parsed, err := url.Parse(baseURLRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_BASE_URL: %w", err)
		}
		if !parsed.IsAbs() || parsed.Host == "" {
			return Config{}, errors.New("APP_BASE_URL: must be an absolute URL")
		}
		switch parsed.Scheme {
		case "http", "https":
		default:
			return Config{}, errors.New("APP_BASE_URL: scheme must be http or https")
		}
		cfg.BaseURL = parsed
	}

	portRaw := getenv("APP_SMTP_PORT")
	if portRaw == "" {
		cfg.SMTP.Port = 587
	} else {
		port, err := strconv.Atoi(portRaw)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, errors.New("APP_SMTP_PORT: must be a valid port")
		}
		cfg.SMTP.Port = port
	}
	if cfg.SMTP.Configured() && strings.TrimSpace(cfg.SMTP.From) == "" {
		cfg.SMTP.From = cfg.SMTP.Username
	}

	if cfg.IsProd() {
		if cfg.DBDSN == "" {
			return Config{}, errors.New("APP_DB_DSN: required in prod")
		}
		if cfg.BaseURL == nil {
			return Config{}, errors.New("APP_BASE_URL: required in prod")
		}
		if len(cfg.JWTSecret) < 32 {
			return Config{}, errors.New("APP_JWT_SECRET: must be at least 32 bytes in prod")
		}
	} else if cfg.JWTSecret == "" {
		cfg.JWTSecret = insecureDevSecret
	}

	return cfg, nil
}

func (c Config) IsProd() bool { return c.Env == "prod" }

// UsingInsecureSecret reports whether the legacy fallback secret is in play,
// so startup can log a loud warning.
func (c Config) UsingInsecureSecret() bool { return c.JWTSecret == insecureDevSecret }
