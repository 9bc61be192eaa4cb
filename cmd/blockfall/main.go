package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/plus3/blockfall/audio"
	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/leaderboard"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "blockfall: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// The screen owns stdout, so logs always go to a file.
	if cfg.LogFile == "" {
		cfg.LogFile = "blockfall.log"
	}
	log, logCloser, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := game.Options{
		Engine: cfg.Engine(log),
		Log:    log,
	}

	var highScores []int
	cfg.Leaderboard.Log = log
	store, closeStore, err := leaderboard.Open(ctx, cfg.Leaderboard)
	if err != nil {
		log.WithError(err).Warn("leaderboard disabled")
	} else {
		defer closeStore()
		board := leaderboard.New(store)
		if err := board.SeedIfEmpty(ctx, leaderboard.DefaultSeed); err != nil {
			log.WithError(err).Warn("failed to seed leaderboard")
		}
		if highScores, err = board.Top(ctx); err != nil {
			log.WithError(err).Warn("failed to load leaderboard")
		}
		opts.Leaderboard = board
	}

	if cfg.Audio {
		player := audio.NewPlayer(cfg.AudioVolume)
		if err := player.Init(); err != nil {
			log.WithError(err).Warn("audio initialization failed")
		} else {
			defer player.Close()
			opts.Sounds = player
		}
	}

	world := game.NewWorld(opts)
	world.HighScores = highScores
	scheduler := game.NewScheduler(world)

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	log.WithFields(logrus.Fields{
		"rows":        cfg.Rows,
		"cols":        cfg.Cols,
		"leaderboard": cfg.Leaderboard.Backend,
	}).Info("blockfall started")

	NewTerminal(screen, world, scheduler, cfg.Tick).Run(ctx)

	log.Info("blockfall stopped")
	return nil
}
