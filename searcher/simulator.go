package searcher

import (
	"context"

	"golang.org/x/exp/rand"

	"tiles/experiments/metrics"
	"tiles/game"
)

// RunPlayout plays first on a private copy of state, then random moves until
// the copy is stuck, and returns the copy's score. A first move that changes
// nothing is not treated specially.
func RunPlayout(state *game.GameState, first game.Direction, rng *rand.Rand) int64 {
	playout := state.CloneWithRand(rng)
	playout.Move(first)
	for playout.CanMove() {
		playout.Move(game.Direction(rng.Intn(game.NumDirections)))
	}
	return playout.Score()
}

// RunBatch sums iterations independent playouts that all start from state.
// It stops early with ctx's error once ctx is done.
func RunBatch(ctx context.Context, state *game.GameState, first game.Direction, iterations int, rng *rand.Rand, m metrics.Collector) (uint64, error) {
	var total uint64
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		total += uint64(RunPlayout(state, first, rng))
		m.AddPlayout()
	}
	return total, nil
}

// simulate is the default Runner: it decodes its own copy of the snapshot
// with a private random source.
func simulate(ctx context.Context, req BatchRequest, m metrics.Collector) (uint64, error) {
	rng := rand.New(rand.NewSource(req.Seed))
	state := game.Deserialize(req.Code, rng)
	return RunBatch(ctx, state, req.First, req.Iterations, rng, m)
}
