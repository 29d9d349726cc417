// Package gamemaster parses server flags and wires the MCP server over the
// SQLite-backed ledger.
package gamemaster

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/thedeuce2/Game-Master/internal/ledger/projection"
	"github.com/thedeuce2/Game-Master/internal/mcp"
	"github.com/thedeuce2/Game-Master/internal/platform/config"
	"github.com/thedeuce2/Game-Master/internal/platform/otel"
	"github.com/thedeuce2/Game-Master/internal/storage"
	"github.com/thedeuce2/Game-Master/internal/storage/sqlite"
	"github.com/thedeuce2/Game-Master/internal/turn"
	"github.com/thedeuce2/Game-Master/internal/world"
)

// Config holds server command configuration.
type Config struct {
	DBPath    string `env:"GAME_MASTER_DB_PATH"       envDefault:"game-master.db"`
	Transport string `env:"GAME_MASTER_MCP_TRANSPORT" envDefault:"stdio"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the SQLite ledger database")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "MCP transport: stdio")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens the ledger store and serves MCP until the context ends.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "game-master")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open ledger store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close ledger store: %v", err)
		}
	}()

	cache := projection.NewCache(store)
	deps := mcp.Deps{
		Resolver: turn.NewResolver(store, store, turn.WithCache(cache)),
		World:    world.NewService(store, storage.ErrNotFound),
		Events:   store,
		Headers:  store,
		Cache:    cache,
	}

	return mcp.Run(ctx, mcp.Config{Transport: mcp.TransportKind(cfg.Transport)}, deps)
}
