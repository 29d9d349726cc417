package gamemaster

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("gamemaster", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "game-master.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.Transport != "stdio" {
		t.Fatalf("expected default transport stdio, got %q", cfg.Transport)
	}
}

func TestParseConfigEnv(t *testing.T) {
	t.Setenv("GAME_MASTER_DB_PATH", "/tmp/env-ledger.db")

	fs := flag.NewFlagSet("gamemaster", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "/tmp/env-ledger.db" {
		t.Fatalf("expected env db path, got %q", cfg.DBPath)
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("GAME_MASTER_DB_PATH", "/tmp/env-ledger.db")

	fs := flag.NewFlagSet("gamemaster", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-db", "/tmp/flag-ledger.db", "-transport", "stdio"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "/tmp/flag-ledger.db" {
		t.Fatalf("expected flag db path, got %q", cfg.DBPath)
	}
}
