package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"tiles/experiments/metrics"
	"tiles/game"
	"tiles/meta"
	"tiles/searcher"
)

type Option func(e *Engine)

func WithMaxMoves(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxMoves = n
		}
	}
}

// WithMoveHook is called after every applied move.
func WithMoveHook(hook func(step int, move game.Direction, state *game.GameState)) Option {
	return func(e *Engine) {
		e.onMove = hook
	}
}

// Engine autoplays one game, asking its advisor for every move.
type Engine struct {
	State    *game.GameState
	Advisor  Advisor
	seed     uint64
	maxMoves int
	onMove   func(step int, move game.Direction, state *game.GameState)
}

func LocalEngine(seed uint64, advisor Advisor, options ...Option) *Engine {
	if advisor == nil {
		panic("engine needs an advisor")
	}
	e := &Engine{
		State:    game.NewGameState(rand.New(rand.NewSource(seed))),
		Advisor:  advisor,
		seed:     seed,
		maxMoves: meta.MAX_MOVES,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the game loop until the grid is stuck.
func (e *Engine) Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{Seed: e.seed, StartTime: time.Now()}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("game %d started", e.seed)

	step := 1
	for e.State.CanMove() && step <= e.maxMoves {
		move, searchMetric, err := e.Advisor.FindMove(ctx, e.State)
		if err != nil {
			return gameMetric, moveMetrics, fmt.Errorf("move %d: %w", step, err)
		}

		if !e.State.Move(move) {
			// Every playout total can tie on a nearly locked grid
			fallback := e.playFirstLegal()
			log.Debug().Msgf("recommended %s changed nothing, played %s", move, fallback)
			move = fallback
			gameMetric.Fallbacks++
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Move:         move.String(),
			Score:        e.State.Score(),
			SearchMetric: searchMetric,
		})
		if e.onMove != nil {
			e.onMove(step, move, e.State)
		}
		step++
	}

	if e.State.CanMove() {
		log.Warn().Msgf("stopped after %d moves (game not over)", e.maxMoves)
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.Score = e.State.Score()
	gameMetric.MaxTile = e.State.MaxTile()
	gameMetric.TotalMoves = len(moveMetrics)

	log.Info().Msgf("game %d over: score %d, max tile %d, %d moves", e.seed, gameMetric.Score, gameMetric.MaxTile, gameMetric.TotalMoves)
	return gameMetric, moveMetrics, nil
}

func (e *Engine) playFirstLegal() game.Direction {
	for _, d := range game.Directions {
		if e.State.Move(d) {
			return d
		}
	}
	panic("no legal move on a grid that can move")
}

// SchedulerAdapter asks a local scheduler for moves.
type SchedulerAdapter struct {
	Scheduler  *searcher.Scheduler
	Iterations int
	Workers    int
}

func (a SchedulerAdapter) FindMove(ctx context.Context, state *game.GameState) (game.Direction, metrics.SearchMetric, error) {
	result, err := a.Scheduler.Search(ctx, state, a.Iterations, a.Workers)
	if err != nil {
		return game.Left, metrics.SearchMetric{}, err
	}
	return result.Move, result.Metric, nil
}
