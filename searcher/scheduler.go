package searcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"tiles/experiments/metrics"
	"tiles/game"
	"tiles/meta"
	"tiles/utils"
)

type Option func(s *Scheduler)

func WithMaxWorkers(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.maxWorkers = n
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(s *Scheduler) {
		s.seed = seed
	}
}

// WithRunner replaces the playout simulation run by each unit.
func WithRunner(run Runner) Option {
	return func(s *Scheduler) {
		if run != nil {
			s.run = run
		}
	}
}

func WithMetrics() Option {
	return func(s *Scheduler) {
		s.newCollector = metrics.NewCollector
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// Scheduler runs search tasks one at a time, in submission order, spreading
// each task's batches over its worker pool.
type Scheduler struct {
	maxWorkers   int
	seed         uint64
	run          Runner
	newCollector func() metrics.Collector
	logger       zerolog.Logger
	pool         *Pool

	mu         sync.Mutex
	rng        *rand.Rand // batch seeds
	queue      []*SearchTask
	processing bool
}

func NewScheduler(options ...Option) *Scheduler {
	s := &Scheduler{ // Default values
		maxWorkers:   meta.MAX_WORKERS,
		seed:         uint64(time.Now().UnixNano()),
		run:          simulate,
		newCollector: metrics.NewDummyCollector,
		logger:       log.Logger,
	}
	for _, option := range options {
		option(s)
	}
	s.pool = NewPool(s.maxWorkers)
	s.rng = rand.New(rand.NewSource(s.seed))
	return s
}

func (s *Scheduler) Pool() *Pool {
	return s.pool
}

// Pending returns the number of queued tasks that have not started.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// RequestBestMove searches state and returns the recommended direction.
func (s *Scheduler) RequestBestMove(ctx context.Context, state *game.GameState, iterations, workers int) (game.Direction, error) {
	result, err := s.Search(ctx, state, iterations, workers)
	if err != nil {
		return game.Left, err
	}
	return result.Move, nil
}

// Search submits a task and waits for it.
func (s *Scheduler) Search(ctx context.Context, state *game.GameState, iterations, workers int) (Result, error) {
	task, err := s.Submit(ctx, state, iterations, workers)
	if err != nil {
		return Result{}, err
	}
	return task.Wait(ctx)
}

// Submit snapshots state and queues a task for it. The snapshot is taken
// now, so later changes to state do not affect the search. ctx is checked
// once more when the task reaches the head of the queue.
func (s *Scheduler) Submit(ctx context.Context, state *game.GameState, iterations, workers int) (*SearchTask, error) {
	if state == nil {
		return nil, fmt.Errorf("%w: nil state", ErrInvalidRequest)
	}
	if iterations < 1 || workers < 1 {
		return nil, fmt.Errorf("%w: iterations=%d workers=%d", ErrInvalidRequest, iterations, workers)
	}
	code, err := state.Serialize()
	if err != nil {
		return nil, err
	}

	task := newSearchTask(ctx, code, iterations, workers)
	s.mu.Lock()
	s.queue = append(s.queue, task)
	s.mu.Unlock()

	s.logger.Debug().Str("task", task.ID).Msgf("queued search over %s", code)
	s.processQueue()
	return task, nil
}

func (s *Scheduler) processQueue() {
	s.mu.Lock()
	if s.processing || len(s.queue) == 0 {
		s.mu.Unlock()
		return
	}
	s.processing = true
	task := s.queue[0]
	s.queue = s.queue[1:]
	s.mu.Unlock()

	go func() {
		s.runTask(task)

		s.mu.Lock()
		s.processing = false
		s.mu.Unlock()
		s.processQueue()
	}()
}

func (s *Scheduler) runTask(task *SearchTask) {
	if err := task.ctx.Err(); err != nil {
		task.reject(err)
		return
	}

	result, err := s.evaluate(task)
	if err != nil {
		s.logger.Warn().Err(err).Str("task", task.ID).Msg("search task rejected")
		task.reject(err)
		return
	}

	s.logger.Debug().Str("task", task.ID).Msgf("best move %s with scores %v", result.Move, result.Scores)
	task.resolve(result)
}

// evaluate fans the task out as NumDirections*workers batches, one unit each,
// and sums the batch totals per candidate move.
func (s *Scheduler) evaluate(task *SearchTask) (Result, error) {
	perBatch := task.Iterations / game.NumDirections / task.Workers
	batches := game.NumDirections * task.Workers

	units, err := s.acquire(batches)
	if err != nil {
		return Result{}, err
	}
	seeds := s.seeds(batches)

	collector := s.newCollector()
	collector.Start(task.Workers, task.Iterations, perBatch)

	// A failed batch cancels its siblings between playouts.
	g, ctx := errgroup.WithContext(context.Background())
	totals := make([]uint64, batches)
	for i, unit := range units {
		req := BatchRequest{
			Code:       task.Code,
			First:      game.Direction(i / task.Workers),
			Iterations: perBatch,
			Seed:       seeds[i],
		}
		g.Go(func() error {
			defer s.pool.Release(unit)

			resp, err := unit.Run(ctx, s.run, req, collector)
			if err != nil {
				return err
			}
			collector.AddBatch()
			totals[i] = resp.TotalScore
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var scores [game.NumDirections]uint64
	for i, total := range totals {
		scores[i/task.Workers] += total
	}
	return Result{
		TaskID: task.ID,
		Move:   game.Direction(utils.ArgMax(scores[:])),
		Scores: scores,
		Metric: collector.Complete(),
	}, nil
}

// acquire checks out n units or none at all.
func (s *Scheduler) acquire(n int) ([]*Unit, error) {
	units := make([]*Unit, 0, n)
	for i := 0; i < n; i++ {
		unit, err := s.pool.Acquire()
		if err != nil {
			for _, u := range units {
				s.pool.Release(u)
			}
			return nil, fmt.Errorf("dispatching %d batches: %w", n, err)
		}
		units = append(units, unit)
	}
	return units, nil
}

func (s *Scheduler) seeds(n int) []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = s.rng.Uint64()
	}
	return seeds
}

// SearchTask is one queued best-move request. It is resolved or rejected
// exactly once.
type SearchTask struct {
	ID         string
	Code       game.Code
	Iterations int
	Workers    int
	Enqueued   time.Time

	ctx    context.Context
	once   sync.Once
	done   chan struct{}
	result Result
	err    error
}

func newSearchTask(ctx context.Context, code game.Code, iterations, workers int) *SearchTask {
	return &SearchTask{
		ID:         uuid.NewString(),
		Code:       code,
		Iterations: iterations,
		Workers:    workers,
		Enqueued:   time.Now(),
		ctx:        ctx,
		done:       make(chan struct{}),
	}
}

func (t *SearchTask) resolve(result Result) {
	t.once.Do(func() {
		t.result = result
		close(t.done)
	})
}

func (t *SearchTask) reject(err error) {
	t.once.Do(func() {
		t.err = err
		close(t.done)
	})
}

// Done is closed once the task has a result or an error.
func (t *SearchTask) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx is done. Giving up on the wait
// does not stop batches that are already running.
func (t *SearchTask) Wait(ctx context.Context) (Result, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
