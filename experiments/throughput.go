package experiments

import (
	"tiles/experiments/metrics"
	"tiles/meta"
)

// RunThroughputExperiment keeps the playout budget fixed and varies the
// number of batches per move, to measure the speedup from parallel units.
func RunThroughputExperiment(settings Settings) (string, error) {
	const Iterations = meta.ITERATIONS
	configs := []metrics.AgentConfig{
		{ID: 1, Workers: 1, Iterations: Iterations},
		{ID: 2, Workers: 2, Iterations: Iterations},
		{ID: 3, Workers: 4, Iterations: Iterations},
		{ID: 4, Workers: 8, Iterations: Iterations},
	}
	return Run("throughput", configs, settings)
}
