package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	gmcmd "github.com/thedeuce2/Game-Master/internal/cmd/gamemaster"
	"github.com/thedeuce2/Game-Master/internal/platform/config"
)

// main serves the game ledger over MCP stdio.
func main() {
	cfg, err := gmcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[GAME-MASTER] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := gmcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
