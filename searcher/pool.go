package searcher

import (
	"context"
	"fmt"
	"sync"

	"tiles/experiments/metrics"
)

// Unit is a reusable executor. It keeps no state between batches.
type Unit struct {
	id         int
	checkedOut bool // guarded by Pool.mu
}

func (u *Unit) ID() int {
	return u.id
}

// Run executes one batch. Errors and panics from the runner are reported as
// ErrSimulationFault.
func (u *Unit) Run(ctx context.Context, run Runner, req BatchRequest, m metrics.Collector) (resp BatchResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: unit %d panicked: %v", ErrSimulationFault, u.id, r)
		}
	}()

	total, err := run(ctx, req, m)
	if err != nil {
		return BatchResponse{}, fmt.Errorf("%w: unit %d: %w", ErrSimulationFault, u.id, err)
	}
	return BatchResponse{Move: req.First, TotalScore: total}, nil
}

type PoolStats struct {
	Idle  int
	Busy  int
	Total int
	Max   int
}

// Pool hands out at most size units. Units are created on first demand and
// reused afterwards.
type Pool struct {
	mu    sync.Mutex
	idle  []*Unit
	total int
	max   int
}

func NewPool(size int) *Pool {
	if size < 1 {
		panic("pool needs at least one unit")
	}
	return &Pool{max: size}
}

// Acquire returns an idle unit, creates one while below capacity, or fails
// with ErrPoolExhausted. It never blocks.
func (p *Pool) Acquire() (*Unit, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var u *Unit
	if n := len(p.idle); n > 0 {
		u = p.idle[n-1]
		p.idle = p.idle[:n-1]
	} else if p.total < p.max {
		p.total++
		u = &Unit{id: p.total}
	} else {
		return nil, fmt.Errorf("%w: all %d units busy", ErrPoolExhausted, p.max)
	}
	u.checkedOut = true
	return u, nil
}

// Release puts a checked out unit back in the idle set.
func (p *Pool) Release(u *Unit) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !u.checkedOut {
		panic(fmt.Sprintf("unit %d released twice", u.id))
	}
	u.checkedOut = false
	p.idle = append(p.idle, u)
}

func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PoolStats{
		Idle:  len(p.idle),
		Busy:  p.total - len(p.idle),
		Total: p.total,
		Max:   p.max,
	}
}
