package experiments

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"tiles/engine"
	"tiles/experiments/metrics"
	"tiles/meta"
	"tiles/searcher"
)

// Settings shared by every experiment.
type Settings struct {
	Games    int    // Per agent config
	Dir      string // Root for run directories
	MaxMoves int
	Seed     uint64 // Seed of the first game, later games count up from it
}

func (s Settings) withDefaults() Settings {
	if s.Games <= 0 {
		s.Games = meta.GAMES
	}
	if s.Dir == "" {
		s.Dir = meta.EXPERIMENT_DIR
	}
	if s.MaxMoves <= 0 {
		s.MaxMoves = meta.MAX_MOVES
	}
	if s.Seed == 0 {
		s.Seed = 1
	}
	return s
}

// RunBudgetExperiment varies the playout budget at a fixed worker count.
func RunBudgetExperiment(settings Settings) (string, error) {
	const Workers = 2
	configs := []metrics.AgentConfig{
		{ID: 1, Workers: Workers, Iterations: 40},
		{ID: 2, Workers: Workers, Iterations: 100},
		{ID: 3, Workers: Workers, Iterations: 400},
		{ID: 4, Workers: Workers, Iterations: 1000},
	}
	return Run("budget", configs, settings)
}

// Run plays settings.Games games per config, with the same seeds for every
// config, and writes the records under settings.Dir/name. It returns the run
// directory.
func Run(name string, configs []metrics.AgentConfig, settings Settings) (string, error) {
	settings = settings.withDefaults()

	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for ci, config := range configs {
		log.Info().Msgf("starting config %d of %d: %+v", ci+1, len(configs), config)

		for i := 0; i < settings.Games; i++ {
			seed := settings.Seed + uint64(i)
			gameMetric, moveMetrics, err := runGame(config, seed, settings.MaxMoves)
			if err != nil {
				return "", fmt.Errorf("config %d game %d: %w", config.ID, i+1, err)
			}
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent:      config.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed config %d game %d of %d with score %d", config.ID, i+1, settings.Games, gameMetric.Score)
		}
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(filepath.Join(settings.Dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored records in %s", writer.Dir())

	return writer.Dir(), nil
}

// runGame autoplays one game with a fresh scheduler for config
func runGame(config metrics.AgentConfig, seed uint64, maxMoves int) (metrics.GameMetric, []metrics.MoveMetric, error) {
	adapter := engine.SchedulerAdapter{
		Scheduler:  createScheduler(config, seed),
		Iterations: config.Iterations,
		Workers:    config.Workers,
	}
	e := engine.LocalEngine(seed, adapter, engine.WithMaxMoves(maxMoves))
	return e.Run(context.Background())
}

func createScheduler(config metrics.AgentConfig, seed uint64) *searcher.Scheduler {
	options := []searcher.Option{
		searcher.WithSeed(seed),
		searcher.WithMetrics(),
	}
	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4 * config.Workers
	}
	options = append(options, searcher.WithMaxWorkers(maxWorkers))
	return searcher.NewScheduler(options...)
}
