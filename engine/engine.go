package engine

import (
	"context"

	"tiles/experiments/metrics"
	"tiles/game"
)

// Advisor recommends a move for a state without changing it.
type Advisor interface {
	FindMove(ctx context.Context, state *game.GameState) (game.Direction, metrics.SearchMetric, error)
}

type Runner interface {
	// Run plays until the grid is stuck or a max number of moves is reached
	Run(ctx context.Context) (gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
