package game

import (
	"fmt"
	"math/bits"

	"golang.org/x/exp/rand"
)

// Code is a grid packed into 16 nibbles, row-major, cell i at bit i*4.
// Each nibble holds the tile's base-2 exponent; 0 is an empty cell.
// The score is not part of a Code.
type Code uint64

func (c Code) String() string {
	return fmt.Sprintf("%016x", uint64(c))
}

// Serialize packs the grid. It fails on tiles above MaxEncodable or on
// values that are not powers of two.
func (gs *GameState) Serialize() (Code, error) {
	return Encode(gs.grid)
}

// Encode packs a grid into a Code.
func Encode(grid Grid) (Code, error) {
	var code Code
	for i := 0; i < Cells; i++ {
		v := grid[i/Size][i%Size]
		exp, err := exponent(v)
		if err != nil {
			return 0, fmt.Errorf("cell (%d,%d): %w", i/Size, i%Size, err)
		}
		code |= Code(exp) << (i * BitsPerCell)
	}
	return code, nil
}

// Decode unpacks a Code into a grid.
func Decode(code Code) Grid {
	var grid Grid
	for i := 0; i < Cells; i++ {
		exp := int(code>>(i*BitsPerCell)) & cellMask
		if exp != 0 {
			grid[i/Size][i%Size] = 1 << exp
		}
	}
	return grid
}

// Deserialize returns a new state holding the decoded grid and a zero score.
func Deserialize(code Code, rng *rand.Rand) *GameState {
	return NewGameStateFromGrid(Decode(code), rng)
}

// Load replaces the grid with the decoded one and resets the score.
func (gs *GameState) Load(code Code) {
	gs.grid = Decode(code)
	gs.score = 0
}

func exponent(v int) (int, error) {
	switch {
	case v == 0:
		return 0, nil
	case v < 2 || v&(v-1) != 0:
		return 0, fmt.Errorf("%w: %d is not a tile value", ErrEncodingOverflow, v)
	case v > MaxEncodable:
		return 0, fmt.Errorf("%w: %d exceeds %d", ErrEncodingOverflow, v, MaxEncodable)
	}
	return bits.TrailingZeros(uint(v)), nil
}
