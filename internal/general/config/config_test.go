package config

import (
	"strings"
	"testing"
	"time"
)

const sampleYAML = `
# local dev settings
database:
  host: db.internal
  port: 5433
  user: carpool
  password: "secret pass"
  database: carpool

rabbitmq:
  host: mq.internal
  user: guest
  password: guest

redis:
  host: cache.internal
  cache_ttl: 45s

http:
  port: 8080

jwt:
  secret_key: 'signing-key'
`

func TestParseYAML(t *testing.T) {
	var cfg Config
	if err := parseYAML(strings.NewReader(sampleYAML), &cfg); err != nil {
		t.Fatalf("parseYAML: %v", err)
	}

	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 5433 {
		t.Errorf("database = %+v, want db.internal:5433", cfg.Database)
	}
	if cfg.Database.Password != "secret pass" {
		t.Errorf("password = %q, quotes not stripped", cfg.Database.Password)
	}
	if cfg.RabbitMQ.Host != "mq.internal" {
		t.Errorf("rabbitmq host = %q", cfg.RabbitMQ.Host)
	}
	if cfg.Redis.CacheTTL != 45*time.Second {
		t.Errorf("cache_ttl = %v, want 45s", cfg.Redis.CacheTTL)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("http port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.JWT.SecretKey != "signing-key" {
		t.Errorf("secret_key = %q, quotes not stripped", cfg.JWT.SecretKey)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"unknown section", "storage:\n  host: x\n"},
		{"unknown key", "database:\n  hostname: x\n"},
		{"key without section", "  host: x\n"},
		{"bad port", "http:\n  port: eighty\n"},
		{"bad duration", "redis:\n  cache_ttl: soon\n"},
		{"duplicate section", "http:\n  port: 1\nhttp:\n  port: 2\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var cfg Config
			if err := parseYAML(strings.NewReader(tc.in), &cfg); err == nil {
				t.Fatalf("parseYAML accepted %q", tc.in)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)

	if cfg.Database.Host != "localhost" || cfg.Database.Port != 5432 {
		t.Errorf("database defaults = %+v", cfg.Database)
	}
	if cfg.Redis.CacheTTL != 30*time.Second {
		t.Errorf("cache_ttl default = %v, want 30s", cfg.Redis.CacheTTL)
	}
	if cfg.HTTP.Port != 3000 {
		t.Errorf("http port default = %d, want 3000", cfg.HTTP.Port)
	}
	if cfg.JWT.SecretKey == "" {
		t.Error("jwt secret not generated")
	}
}

func TestValidateRejectsMissingCredentials(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)
	cfg.Database.User = ""
	cfg.Database.Password = ""

	if err := cfg.validate(); err == nil {
		t.Fatal("validate accepted a config without database credentials")
	}
}
