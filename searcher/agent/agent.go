package agent

import "tiles/game"

// BestMoveRequest is the body of POST /bestmove. Zero iterations or workers
// fall back to the server defaults.
type BestMoveRequest struct {
	Grid       game.Grid `json:"grid"`
	Iterations int       `json:"iterations"`
	Workers    int       `json:"workers"`
}

type BestMoveResponse struct {
	Move   string                     `json:"move"`
	Index  int                        `json:"index"`
	Scores [game.NumDirections]uint64 `json:"scores"`
	Task   string                     `json:"task"`
}

type errorResponse struct {
	Error string `json:"error"`
}
