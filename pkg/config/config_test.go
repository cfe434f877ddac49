package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNBuildsFromParts(t *testing.T) {
	t.Parallel()

	cfg := DBConfig{Host: "localhost", Port: 5432, User: "pos", Password: "secret", Name: "pos"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(cfg.DSN, "host=localhost") || !strings.Contains(cfg.DSN, "dbname=pos") {
		t.Fatalf("unexpected DSN %q", cfg.DSN)
	}
}

func TestEnsureDSNKeepsExplicitDSN(t *testing.T) {
	t.Parallel()

	cfg := DBConfig{DSN: "host=db dbname=pos"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DSN != "host=db dbname=pos" {
		t.Fatalf("DSN should be untouched, got %q", cfg.DSN)
	}
}

func TestEnsureDSNRequiresParts(t *testing.T) {
	t.Parallel()

	cfg := DBConfig{Host: "localhost"}
	if err := cfg.ensureDSN(); err == nil {
		t.Fatal("expected error for incomplete DB config")
	}
}

func TestAppEnvHelpers(t *testing.T) {
	t.Parallel()

	if !(AppConfig{Env: "Dev"}).IsDev() {
		t.Fatal("expected IsDev for Dev")
	}
	if !(AppConfig{Env: "PROD"}).IsProd() {
		t.Fatal("expected IsProd for PROD")
	}
	if (AppConfig{Env: "staging"}).IsProd() {
		t.Fatal("staging is not prod")
	}
}
