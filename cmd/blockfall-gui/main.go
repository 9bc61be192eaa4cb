package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/blockfall/audio"
	"github.com/plus3/blockfall/config"
	debugui_ebiten "github.com/plus3/blockfall/debugui/ebiten"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/leaderboard"
)

func main() {
	inspector := flag.Bool("inspector", false, "Show the ImGui inspector window.")
	flag.Parse()

	if err := run(*inspector); err != nil {
		fmt.Fprintf(os.Stderr, "blockfall-gui: %v\n", err)
		os.Exit(1)
	}
}

func run(showInspector bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, logCloser, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx := context.Background()
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

	width, height := windowSize(cfg.Rows, cfg.Cols)
	backend := debugui_ebiten.NewImguiBackend("Blockfall", width, height)

	gui := NewGUI(world, scheduler, backend, showInspector, cfg)
	log.Info("blockfall-gui started")
	return ebiten.RunGame(gui)
}
