// meta/meta.go
package meta

import "runtime"

// WORKERS defines the default number of batches per candidate move.
var WORKERS = runtime.NumCPU()

// MAX_WORKERS defines the default pool capacity: one unit per candidate move per worker.
var MAX_WORKERS = 4 * WORKERS

// ITERATIONS defines the default playout budget per search.
const ITERATIONS = 400

// MAX_MOVES caps the length of an autoplayed game.
const MAX_MOVES = 10000

// GAMES defines the number of games per configuration in an experiment.
const GAMES = 5

// PORT defines the default port of the advisor server.
const PORT = "8080"

// EXPERIMENT_DIR is where experiment runs are written.
const EXPERIMENT_DIR = "experiments/runs"
