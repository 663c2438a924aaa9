package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("PORT", "")
	t.Setenv("API_PREFIX", "")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.StoreBackend != BackendDynamoDB {
		t.Fatalf("expected dynamodb backend, got %q", cfg.StoreBackend)
	}
	if cfg.DynamoDB.Table != "Season" {
		t.Fatalf("expected Season table, got %q", cfg.DynamoDB.Table)
	}
	if cfg.APIPrefix != "/v1" {
		t.Fatalf("expected /v1 prefix, got %q", cfg.APIPrefix)
	}
	if cfg.LeagueSize != DefaultLeagueSize {
		t.Fatalf("expected league size %d, got %d", DefaultLeagueSize, cfg.LeagueSize)
	}
	if cfg.StrictWrites {
		t.Fatal("strict writes should be off by default")
	}
	if !cfg.AutoProvision {
		t.Fatal("auto provision should be on by default")
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected 10s shutdown timeout, got %s", cfg.ShutdownTimeout)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "Memory")
	t.Setenv("LEAGUE_SIZE", "10")
	t.Setenv("STRICT_WRITES", "true")
	t.Setenv("API_PREFIX", "api/")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("DYNAMODB_ENDPOINT", "http://localhost:8000")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" || cfg.StoreBackend != BackendMemory || cfg.LeagueSize != 10 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !cfg.StrictWrites {
		t.Fatal("expected strict writes")
	}
	if cfg.APIPrefix != "/api" {
		t.Fatalf("expected /api prefix, got %q", cfg.APIPrefix)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("expected 3s, got %s", cfg.ShutdownTimeout)
	}
	if cfg.DynamoDB.Endpoint != "http://localhost:8000" {
		t.Fatalf("unexpected endpoint %q", cfg.DynamoDB.Endpoint)
	}
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "dynamodb")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("port", "", "")
	fs.String("store", "", "")
	fs.String("log-level", "", "")
	if err := fs.Parse([]string{"--port=7070", "--store=memory"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("expected flag port 7070, got %q", cfg.Port)
	}
	if cfg.StoreBackend != BackendMemory {
		t.Fatalf("expected memory backend from flag, got %q", cfg.StoreBackend)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "unknown backend",
			env:  map[string]string{"STORE_BACKEND": "redis"},
			want: "unknown STORE_BACKEND",
		},
		{
			name: "postgres without url",
			env:  map[string]string{"STORE_BACKEND": "postgres", "DATABASE_URL": ""},
			want: "DATABASE_URL is required",
		},
		{
			name: "league size zero",
			env:  map[string]string{"STORE_BACKEND": "memory", "LEAGUE_SIZE": "0"},
			want: "LEAGUE_SIZE must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestNormalizePrefix(t *testing.T) {
	cases := map[string]string{
		"":      "",
		"/":     "",
		"v1":    "/v1",
		"/v1/":  "/v1",
		" /v2 ": "/v2",
	}
	for in, want := range cases {
		if got := normalizePrefix(in); got != want {
			t.Fatalf("normalizePrefix(%q) = %q, want %q", in, got, want)
		}
	}
}
