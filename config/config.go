package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "agrovision-dev-secret"

type AppConfig struct {
	Port     string
	Env      string
	Timezone string
	DBPath   string
	LogLevel string

	JWTSecret     string
	JWTExpiration time.Duration
	JWTIssuer     string
	BcryptCost    int

	CORSOrigins []string

	LoginRatePerMinute int
	LoginRateBurst     int

	ReportJobsEnabled bool
}

func (c AppConfig) IsProduction() bool { return c.Env == "production" }

// CORSCredentials is false while the origin list has the "*" wildcard.
// Browsers reject credentialed responses to a wildcard origin.
func (c AppConfig) CORSCredentials() bool {
	return len(c.CORSOrigins) > 0 && !slices.Contains(c.CORSOrigins, "*")
}

// String hides the secret so the config can be logged.
func (c AppConfig) String() string {
	secret := "unset"
	if c.JWTSecret != "" {
		secret = "set"
	}
	return fmt.Sprintf("{Port:%s Env:%s TZ:%s DB:%s JWT:%s exp=%s Bcrypt:%d CORS:%v Login:%d/min burst %d Jobs:%v Log:%s}",
		c.Port, c.Env, c.Timezone, c.DBPath, secret, c.JWTExpiration, c.BcryptCost,
		c.CORSOrigins, c.LoginRatePerMinute, c.LoginRateBurst, c.ReportJobsEnabled, c.LogLevel)
}

func Load() (AppConfig, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	var errs []error
	getInt := func(k string, def int) int {
		v := get(k, strconv.Itoa(def))
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", k, err))
			return def
		}
		return n
	}

	cfg := AppConfig{
		Port:               get("PORT", "3000"),
		Env:                get("APP_ENV", "development"),
		Timezone:           get("TZ", "America/Sao_Paulo"),
		DBPath:             get("DB_PATH", "agrovision.db"),
		LogLevel:           get("LOG_LEVEL", "info"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTIssuer:          get("JWT_ISSUER", "agrovision"),
		BcryptCost:         getInt("BCRYPT_COST", 12),
		CORSOrigins:        splitList(get("CORS_ORIGINS", "*")),
		LoginRatePerMinute: getInt("LOGIN_RATE_LIMIT", 10),
		LoginRateBurst:     getInt("LOGIN_RATE_BURST", 5),
		ReportJobsEnabled:  get("REPORT_JOBS_ENABLED", "true") == "true",
	}

	exp, err := ParseExpiration(get("JWT_EXPIRATION", "24h"))
	if err != nil {
		errs = append(errs, fmt.Errorf("JWT_EXPIRATION: %w", err))
	}
	cfg.JWTExpiration = exp

	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = devJWTSecret
		log.Printf("[cfg] JWT_SECRET not set, using development secret")
	}

	if err := errors.Join(append(errs, cfg.Validate())...); err != nil {
		return cfg, err
	}
	log.Printf("[cfg] %s", cfg)
	return cfg, nil
}

func (c AppConfig) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required in production"))
	}
	if c.IsProduction() && c.JWTSecret == devJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must not be the development secret in production"))
	}
	if c.JWTExpiration <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION must be positive"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST %d out of range 4..31", c.BcryptCost))
	}
	if c.LoginRatePerMinute <= 0 || c.LoginRateBurst <= 0 {
		errs = append(errs, errors.New("LOGIN_RATE_LIMIT and LOGIN_RATE_BURST must be positive"))
	}
	return errors.Join(errs...)
}

// ParseExpiration accepts Go durations ("24h", "90m") and whole days ("7d").
func ParseExpiration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
