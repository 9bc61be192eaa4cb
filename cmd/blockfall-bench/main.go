package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/leaderboard"
)

// Commands a simulated player chooses from, weighted towards movement.
var playerCommands = []game.Command{
	game.CommandLeft, game.CommandLeft,
	game.CommandRight, game.CommandRight,
	game.CommandRotate, game.CommandRotate,
	game.CommandDown,
	game.CommandDrop,
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	step := flag.Duration("step", 16*time.Millisecond, "Simulated time between frames.")
	inputs := flag.Int("inputs", 2, "Maximum random commands queued per frame.")
	rows := flag.Int("rows", 20, "Board rows.")
	cols := flag.Int("cols", 10, "Board columns.")
	seed := flag.Uint64("seed", 1, "Seed for pieces and simulated input.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	verbose := flag.Bool("v", false, "Log game sessions while running.")
	flag.Parse()

	log := logrus.New()
	gameLog := logrus.New()
	gameLog.SetLevel(logrus.WarnLevel)
	if *verbose {
		gameLog.SetLevel(logrus.DebugLevel)
	}

	log.Info("Starting blockfall stress test...")

	cfg := engine.DefaultConfig()
	cfg.Rows = *rows
	cfg.Cols = *cols
	cfg.Seed = *seed

	scores := leaderboard.New(leaderboard.NewMemoryStore())
	world := game.NewWorld(game.Options{
		Engine:      cfg,
		Log:         gameLog,
		Leaderboard: scores,
	})
	scheduler := game.NewScheduler(world)
	player := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))

	report := &Report{
		Duration:       *duration,
		Step:           *step,
		Rows:           *rows,
		Cols:           *cols,
		Seed:           *seed,
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Infof("Running simulation for %s...", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var simulated time.Duration

	world.Input.Push(game.CommandStart)

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			if world.Engine.State() == engine.GameOver {
				report.Sessions++
				report.TotalLines += world.Engine.Lines()
				world.Input.Push(game.CommandStart)
			}
			for range player.IntN(*inputs + 1) {
				world.Input.Push(playerCommands[player.IntN(len(playerCommands))])
			}

			updateStart := time.Now()
			scheduler.Once(simulated)
			updateDuration := time.Since(updateStart)

			simulated += *step
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			report.TotalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.SimulatedTime = simulated
	report.UpdateTime.Finalize()
	report.Systems = scheduler.Stats().Systems
	report.SpawnCounts = world.Engine.SpawnCounts()
	report.DroppedInputs = world.Input.Dropped()
	if top, err := scores.Top(context.Background()); err == nil {
		report.TopScores = top
	}
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Info("Simulation finished.")

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}
