package config

import (
	"reflect"
	"testing"
	"time"
)

func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	base := map[string]string{
		"PORT":                 "",
		"DATABASE_URL":         "postgres://localhost:5432/app",
		"JWT_SECRET":           "test-secret",
		"TOKEN_TTL_HOURS":      "",
		"CORS_ALLOWED_ORIGINS": "",
	}
	for k, v := range vars {
		base[k] = v
	}
	for k, v := range base {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, nil)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.TokenTTL != 720*time.Hour {
		t.Fatalf("expected default TTL 720h, got %v", cfg.TokenTTL)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"*"}) {
		t.Fatalf("expected open CORS by default, got %v", cfg.CORSOrigins)
	}
	if cfg.HTTPAddress() != ":8080" {
		t.Fatalf("expected address :8080, got %q", cfg.HTTPAddress())
	}
}

func TestLoad_TokenTTL(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"", 720 * time.Hour},
		{"24", 24 * time.Hour},
		{"0", 720 * time.Hour},
		{"-5", 720 * time.Hour},
		{"not-a-number", 720 * time.Hour},
	}
	for _, tc := range cases {
		setEnv(t, map[string]string{"TOKEN_TTL_HOURS": tc.raw})
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load with TTL %q: %v", tc.raw, err)
		}
		if cfg.TokenTTL != tc.want {
			t.Fatalf("TTL %q: expected %v, got %v", tc.raw, tc.want, cfg.TokenTTL)
		}
	}
}

func TestLoad_CORSOrigins(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"", []string{"*"}},
		{"https://a.example, https://b.example", []string{"https://a.example", "https://b.example"}},
		{" , ,", []string{"*"}},
	}
	for _, tc := range cases {
		setEnv(t, map[string]string{"CORS_ALLOWED_ORIGINS": tc.raw})
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load with origins %q: %v", tc.raw, err)
		}
		if !reflect.DeepEqual(cfg.CORSOrigins, tc.want) {
			t.Fatalf("origins %q: expected %v, got %v", tc.raw, tc.want, cfg.CORSOrigins)
		}
	}
}

func TestLoad_RequiredVars(t *testing.T) {
	setEnv(t, map[string]string{"DATABASE_URL": ""})
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is empty")
	}

	setEnv(t, map[string]string{"JWT_SECRET": "   "})
	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET is blank")
	}
}
