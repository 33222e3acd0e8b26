package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tiles/meta"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		chdir(t, t.TempDir())
		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, meta.ITERATIONS, cfg.Iterations)
		require.Equal(t, meta.WORKERS, cfg.Workers)
		require.Equal(t, 4*cfg.Workers, cfg.MaxWorkers, "Pool fits one batch per move per worker")
		require.Equal(t, "info", cfg.LogLevel)
		require.Equal(t, meta.PORT, cfg.Port)
		require.Zero(t, cfg.Seed)
	})

	t.Run("environment overrides", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("TILES_WORKERS", "3")
		t.Setenv("TILES_ITERATIONS", "1200")
		t.Setenv("TILES_SEED", "42")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, 3, cfg.Workers)
		require.Equal(t, 12, cfg.MaxWorkers)
		require.Equal(t, 1200, cfg.Iterations)
		require.Equal(t, uint64(42), cfg.Seed)
		require.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("dotenv file", func(t *testing.T) {
		dir := t.TempDir()
		chdir(t, dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=9999\nTILES_GAMES=7\n"), 0o644))
		t.Cleanup(func() {
			os.Unsetenv("PORT")
			os.Unsetenv("TILES_GAMES")
		})

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "9999", cfg.Port)
		require.Equal(t, 7, cfg.Games)
	})

	t.Run("bad numbers", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("TILES_ITERATIONS", "lots")
		_, err := Load()
		require.ErrorContains(t, err, "TILES_ITERATIONS")

		t.Setenv("TILES_ITERATIONS", "0")
		_, err = Load()
		require.ErrorContains(t, err, "must be positive")
	})
}

func TestPoolSize(t *testing.T) {
	t.Run("grows with workers", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("TILES_WORKERS", "2")
		cfg, err := Load()
		require.NoError(t, err)

		require.Equal(t, 8, cfg.PoolSize(2))
		require.Equal(t, 64, cfg.PoolSize(16), "Pool must fit 4*workers batches")
		require.Equal(t, 8, cfg.PoolSize(1), "Pool never shrinks below the configured size")
	})

	t.Run("explicit capacity is kept", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("TILES_MAX_WORKERS", "6")
		cfg, err := Load()
		require.NoError(t, err)

		require.Equal(t, 6, cfg.PoolSize(16))
	})
}
