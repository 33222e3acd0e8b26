package game

import (
	"fmt"
	"strings"

	"golang.org/x/exp/rand"
)

// GameState owns a grid and its score. Only Move, Reset and Load mutate it.
type GameState struct {
	grid  Grid
	score int64
	rng   *rand.Rand
}

// NewGameState returns a fresh game seeded with two random tiles.
func NewGameState(rng *rand.Rand) *GameState {
	if rng == nil {
		panic("game state needs a random source")
	}
	gs := &GameState{rng: rng}
	gs.Reset()
	return gs
}

// NewGameStateFromGrid builds a state with a fixed grid and zero score.
// No tiles are spawned.
func NewGameStateFromGrid(grid Grid, rng *rand.Rand) *GameState {
	if rng == nil {
		panic("game state needs a random source")
	}
	return &GameState{grid: grid, rng: rng}
}

// Reset empties the grid, zeroes the score and spawns two tiles.
func (gs *GameState) Reset() {
	gs.grid = Grid{}
	gs.score = 0
	gs.AddRandomTile()
	gs.AddRandomTile()
}

// AddRandomTile places a 2 (90%) or a 4 (10%) in a uniformly chosen empty
// cell. It reports false when the grid is full.
func (gs *GameState) AddRandomTile() bool {
	var empty [Cells]int
	n := 0
	for i := 0; i < Cells; i++ {
		if gs.grid[i/Size][i%Size] == 0 {
			empty[n] = i
			n++
		}
	}
	if n == 0 {
		return false
	}

	i := empty[gs.rng.Intn(n)]
	value := 2
	if gs.rng.Float64() < SpawnFourProb {
		value = 4
	}
	gs.grid[i/Size][i%Size] = value
	return true
}

// CanMove reports whether any move can still change the grid.
func (gs *GameState) CanMove() bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			v := gs.grid[row][col]
			if v == 0 {
				return true
			}
			if col < Size-1 && v == gs.grid[row][col+1] {
				return true
			}
			if row < Size-1 && v == gs.grid[row+1][col] {
				return true
			}
		}
	}
	return false
}

// Clone deep copies the grid and score. The copy shares the random source,
// so it must stay on the same goroutine as the original.
func (gs *GameState) Clone() *GameState {
	return &GameState{grid: gs.grid, score: gs.score, rng: gs.rng}
}

// CloneWithRand is Clone with a private random source.
func (gs *GameState) CloneWithRand(rng *rand.Rand) *GameState {
	c := gs.Clone()
	c.rng = rng
	return c
}

func (gs *GameState) Grid() Grid {
	return gs.grid
}

func (gs *GameState) Score() int64 {
	return gs.score
}

func (gs *GameState) MaxTile() int {
	best := 0
	for _, row := range gs.grid {
		for _, v := range row {
			best = max(best, v)
		}
	}
	return best
}

func (gs *GameState) EmptyCells() int {
	n := 0
	for _, row := range gs.grid {
		for _, v := range row {
			if v == 0 {
				n++
			}
		}
	}
	return n
}

func (gs *GameState) String() string {
	var sb strings.Builder
	for _, row := range gs.grid {
		for col, v := range row {
			if col > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%5d", v)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "score: %d", gs.score)
	return sb.String()
}
