// Command client runs the tile client. Commands are read one per line from
// stdin; see the input package for the vocabulary.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/tileclient/internal/config"
	"github.com/Faultbox/tileclient/internal/game"
	"github.com/Faultbox/tileclient/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	if config.WriteRequested() {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(filepath.Join(config.ConfigDir(), "config.yaml"))
		return
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}

	os.Exit(run(cfg))
}

// run owns every deferred cleanup so main can exit with its status.
func run(cfg *config.Config) int {
	defer logger.Sync()

	log := logger.Named("main")
	log.Info("=== Tile Client ===",
		zap.String("server", cfg.Network.Server),
		zap.Bool("offline", cfg.Game.OfflineMode),
		zap.String("map", cfg.Data.StartMap),
		zap.String("level", logger.Level()))
	logger.Sugar.Debugf("config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := game.New(cfg)
	if err != nil {
		log.Error("failed to create game", zap.Error(err))
		return 1
	}
	defer g.Close()

	g.Input().Start(ctx, os.Stdin)

	if err := g.Run(ctx); err != nil {
		log.Error("game error", zap.Error(err))
		return 1
	}
	log.Info("game closed normally")
	return 0
}
