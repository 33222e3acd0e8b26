package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tiles/config"
	"tiles/engine"
	"tiles/experiments"
	"tiles/game"
	"tiles/render"
	"tiles/searcher"
	"tiles/searcher/agent"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	mode := flag.String("mode", "play", "play, serve or experiment")
	iterations := flag.Int("iterations", cfg.Iterations, "Number of playouts per search")
	workers := flag.Int("workers", cfg.Workers, "Number of batches per candidate move")
	maxWorkers := flag.Int("max-workers", cfg.MaxWorkers, "Capacity of the worker pool")
	seed := flag.Uint64("seed", cfg.Seed, "Random seed, 0 picks one from the clock")
	advisorURL := flag.String("advisor", "", "Advisor server URL for play mode, empty searches locally")
	experiment := flag.String("experiment", "budget", "budget or throughput")
	games := flag.Int("games", cfg.Games, "Games per config in experiment mode")
	flag.Parse()

	maxWorkersSet := false
	flag.Visit(func(f *flag.Flag) {
		maxWorkersSet = maxWorkersSet || f.Name == "max-workers"
	})
	if !maxWorkersSet {
		*maxWorkers = cfg.PoolSize(*workers)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	switch *mode {
	case "play":
		advisor := newAdvisor(*advisorURL, *maxWorkers, *seed, *iterations, *workers)
		play(advisor, *seed, cfg.MaxMoves)
	case "serve":
		server := agent.NewServer(newScheduler(*maxWorkers, *seed), *iterations, *workers)
		if err := server.Start(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server exited")
		}
	case "experiment":
		settings := experiments.Settings{Games: *games, Dir: cfg.ExperimentDir, MaxMoves: cfg.MaxMoves, Seed: *seed}
		run := experiments.RunBudgetExperiment
		if *experiment == "throughput" {
			run = experiments.RunThroughputExperiment
		}
		dir, err := run(settings)
		if err != nil {
			log.Fatal().Err(err).Msg("experiment failed")
		}
		log.Info().Str("dir", dir).Msg("experiment written")
	default:
		log.Fatal().Msgf("unknown mode %q", *mode)
	}
}

func newScheduler(maxWorkers int, seed uint64) *searcher.Scheduler {
	return searcher.NewScheduler(
		searcher.WithMaxWorkers(maxWorkers),
		searcher.WithSeed(seed),
		searcher.WithMetrics(),
	)
}

// newAdvisor asks the server at url for moves, or searches locally when url
// is empty.
func newAdvisor(url string, maxWorkers int, seed uint64, iterations, workers int) engine.Advisor {
	if url != "" {
		return engine.RemoteAdvisor{URL: url, Iterations: iterations, Workers: workers}
	}
	return engine.SchedulerAdapter{
		Scheduler:  newScheduler(maxWorkers, seed),
		Iterations: iterations,
		Workers:    workers,
	}
}

// play autoplays one game and prints the board after every move
func play(advisor engine.Advisor, seed uint64, maxMoves int) {
	out := termenv.NewOutput(os.Stdout)
	e := engine.LocalEngine(seed, advisor,
		engine.WithMaxMoves(maxMoves),
		engine.WithMoveHook(func(step int, move game.Direction, state *game.GameState) {
			fmt.Fprintf(out, "\n#%d %s\n%s\n", step, move, render.Board(out, state))
		}),
	)

	gameMetric, _, err := e.Run(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("game aborted")
	}
	fmt.Fprintf(out, "\nfinal score %d, max tile %d, %d moves in %s\n",
		gameMetric.Score, gameMetric.MaxTile, gameMetric.TotalMoves, gameMetric.Duration.Round(time.Millisecond))
}
