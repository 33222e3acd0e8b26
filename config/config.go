package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"tiles/meta"
)

// Config holds process settings. Load fills it from the environment, a
// .env file in the working directory is read first when present.
type Config struct {
	MaxWorkers    int
	Workers       int
	Iterations    int
	Seed          uint64
	MaxMoves      int
	Games         int
	LogLevel      string
	Port          string
	ExperimentDir string

	maxWorkersSet bool // TILES_MAX_WORKERS was given
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Port:          getEnv("PORT", meta.PORT),
		ExperimentDir: getEnv("TILES_EXPERIMENT_DIR", meta.EXPERIMENT_DIR),
	}

	var err error
	cfg.maxWorkersSet = os.Getenv("TILES_MAX_WORKERS") != ""
	if cfg.Workers, err = getInt("TILES_WORKERS", meta.WORKERS); err != nil {
		return cfg, err
	}
	if cfg.MaxWorkers, err = getInt("TILES_MAX_WORKERS", 4*cfg.Workers); err != nil {
		return cfg, err
	}
	if cfg.Iterations, err = getInt("TILES_ITERATIONS", meta.ITERATIONS); err != nil {
		return cfg, err
	}
	if cfg.MaxMoves, err = getInt("TILES_MAX_MOVES", meta.MAX_MOVES); err != nil {
		return cfg, err
	}
	if cfg.Games, err = getInt("TILES_GAMES", meta.GAMES); err != nil {
		return cfg, err
	}
	if v := os.Getenv("TILES_SEED"); v != "" {
		if cfg.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return cfg, fmt.Errorf("TILES_SEED: %w", err)
		}
	}
	return cfg, nil
}

// PoolSize returns the pool capacity for searches with workers batches per
// move. A capacity set in the environment is kept as is, otherwise the pool
// grows to fit one unit per batch.
func (c Config) PoolSize(workers int) int {
	if c.maxWorkersSet {
		return c.MaxWorkers
	}
	return max(c.MaxWorkers, 4*workers)
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s: must be positive, got %d", k, n)
	}
	return n, nil
}
