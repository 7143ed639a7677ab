package config

import (
	"testing"
	"time"
)

func TestParseExpiration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"24h", 24 * time.Hour, false},
		{"90m", 90 * time.Minute, false},
		{"7d", 7 * 24 * time.Hour, false},
		{" 1d ", 24 * time.Hour, false},
		{"xd", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseExpiration(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseExpiration() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseExpiration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want 3000", cfg.Port)
	}
	if cfg.JWTSecret != devJWTSecret {
		t.Error("development should fall back to the dev secret")
	}
	if cfg.JWTExpiration != 24*time.Hour {
		t.Errorf("JWTExpiration = %v", cfg.JWTExpiration)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadProductionNeedsSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() in production without JWT_SECRET should fail")
	}

	t.Setenv("JWT_SECRET", "s3cr3t")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false")
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("BCRYPT_COST", "twelve")
	if _, err := Load(); err == nil {
		t.Fatal("Load() with non-numeric BCRYPT_COST should fail")
	}
}

func TestCORSCredentials(t *testing.T) {
	tests := []struct {
		origins []string
		want    bool
	}{
		{[]string{"*"}, false},
		{[]string{"http://app.test", "*"}, false},
		{[]string{"http://app.test"}, true},
		{nil, false},
	}
	for _, tt := range tests {
		if got := (AppConfig{CORSOrigins: tt.origins}).CORSCredentials(); got != tt.want {
			t.Errorf("CORSCredentials(%v) = %v, want %v", tt.origins, got, tt.want)
		}
	}
}
