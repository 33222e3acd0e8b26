package searcher

import (
	"context"
	"errors"

	"tiles/experiments/metrics"
	"tiles/game"
)

var (
	ErrPoolExhausted   = errors.New("worker pool exhausted")
	ErrSimulationFault = errors.New("simulation fault")
	ErrInvalidRequest  = errors.New("invalid search request")
)

// BatchRequest is everything a unit needs to run one batch.
type BatchRequest struct {
	Code       game.Code
	First      game.Direction
	Iterations int
	Seed       uint64
}

type BatchResponse struct {
	Move       game.Direction
	TotalScore uint64
}

// Runner executes a batch and returns the summed playout score.
type Runner func(ctx context.Context, req BatchRequest, m metrics.Collector) (uint64, error)

// Result is the outcome of one search task.
type Result struct {
	TaskID string
	Move   game.Direction
	Scores [game.NumDirections]uint64
	Metric metrics.SearchMetric
}
