package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tiles/utils"
)

// Cells are packed as base-2 exponents, so a Code holds tiles up to 2^15.
const (
	Size          = 4
	Cells         = Size * Size
	BitsPerCell   = 4
	SpawnFourProb = 0.1
	MaxEncodable  = 1 << 15
	cellMask      = 1<<BitsPerCell - 1
)

var (
	ErrEncodingOverflow = errors.New("cell value cannot be encoded")
	ErrInvalidDirection = errors.New("invalid direction")
)

// Direction is one of the four moves, in the order used by move indices.
type Direction int

const (
	Left Direction = iota
	Up
	Right
	Down
)

const NumDirections = 4

var directionNames = []string{"left", "up", "right", "down"}

// Directions lists every direction in index order.
var Directions = [NumDirections]Direction{Left, Up, Right, Down}

func (d Direction) Valid() bool {
	return d >= Left && d <= Down
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection accepts a direction name or its index.
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := utils.FindIndex(directionNames, s); i >= 0 {
		return Direction(i), nil
	}
	if n, err := strconv.Atoi(s); err == nil && Direction(n).Valid() {
		return Direction(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Grid is a row-major view of the board.
type Grid [Size][Size]int
