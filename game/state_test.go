package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewGameState(t *testing.T) {
	gs := NewGameState(newRand(42))

	require.Equal(t, 2, countTiles(gs.Grid()), "New game should start with two tiles")
	require.Equal(t, int64(0), gs.Score())
	for _, row := range gs.Grid() {
		for _, v := range row {
			require.Contains(t, []int{0, 2, 4}, v, "Spawned tiles are 2 or 4")
		}
	}

	require.Panics(t, func() { NewGameState(nil) }, "Random source is required")
}

func TestSeededGamesAreReproducible(t *testing.T) {
	play := func() (Grid, int64) {
		rng := newRand(99)
		gs := NewGameState(rng)
		for i := 0; i < 200 && gs.CanMove(); i++ {
			gs.Move(Direction(rng.Intn(NumDirections)))
		}
		return gs.Grid(), gs.Score()
	}

	grid1, score1 := play()
	grid2, score2 := play()
	require.Equal(t, grid1, grid2, "Same seed should give the same game")
	require.Equal(t, score1, score2)
}

func TestReset(t *testing.T) {
	gs := NewGameStateFromGrid(Grid{{2, 2, 4, 4}, {8, 8, 0, 0}}, newRand(1))
	gs.Move(Left)
	require.Positive(t, gs.Score())

	gs.Reset()

	require.Equal(t, int64(0), gs.Score(), "Reset should clear the score")
	require.Equal(t, 2, countTiles(gs.Grid()), "Reset should seed two tiles")
}

func TestAddRandomTile(t *testing.T) {
	t.Run("spawn distribution", func(t *testing.T) {
		rng := newRand(8)
		fours := 0
		const trials = 5000
		for i := 0; i < trials; i++ {
			gs := NewGameStateFromGrid(Grid{}, rng)
			require.True(t, gs.AddRandomTile())
			if gs.MaxTile() == 4 {
				fours++
			}
		}
		ratio := float64(fours) / trials
		require.InDelta(t, SpawnFourProb, ratio, 0.02, "About one spawn in ten should be a 4")
	})

	t.Run("full grid", func(t *testing.T) {
		grid := Grid{
			{2, 4, 2, 4},
			{4, 2, 4, 2},
			{2, 4, 2, 4},
			{4, 2, 4, 2},
		}
		gs := NewGameStateFromGrid(grid, newRand(1))
		require.False(t, gs.AddRandomTile(), "Full grid has nowhere to spawn")
		require.Equal(t, grid, gs.Grid())
	})

	t.Run("single empty cell is always chosen", func(t *testing.T) {
		gs := NewGameStateFromGrid(Grid{
			{2, 4, 2, 4},
			{4, 2, 4, 2},
			{2, 4, 0, 4},
			{4, 2, 4, 2},
		}, newRand(1))
		require.True(t, gs.AddRandomTile())
		require.NotZero(t, gs.Grid()[2][2])
	})
}

func TestCanMove(t *testing.T) {
	cases := []struct {
		name string
		grid Grid
		want bool
	}{
		{"empty cell", Grid{{2, 4, 2, 4}, {4, 2, 4, 2}, {2, 4, 2, 4}, {4, 2, 4, 0}}, true},
		{"horizontal pair", Grid{{2, 2, 8, 4}, {4, 8, 4, 2}, {2, 4, 2, 4}, {4, 2, 4, 2}}, true},
		{"vertical pair", Grid{{2, 4, 2, 4}, {4, 2, 4, 2}, {2, 4, 2, 8}, {4, 2, 4, 8}}, true},
		{"locked", Grid{{2, 4, 2, 4}, {4, 2, 4, 2}, {2, 4, 2, 4}, {4, 2, 4, 2}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gs := NewGameStateFromGrid(tc.grid, newRand(1))
			require.Equal(t, tc.want, gs.CanMove())
			require.Equal(t, tc.grid, gs.Grid(), "CanMove must not mutate")
		})
	}
}

func TestClone(t *testing.T) {
	gs := NewGameStateFromGrid(Grid{{2, 2, 0, 0}}, newRand(1))
	gs.Move(Left)

	c := gs.Clone()
	require.Equal(t, gs.Grid(), c.Grid())
	require.Equal(t, gs.Score(), c.Score())

	c.grid[0][0] = 1024
	c.score += 10
	require.Equal(t, 4, gs.Grid()[0][0], "Clone must not share the grid")
	require.Equal(t, int64(4), gs.Score(), "Original score should be untouched")

	other := gs.CloneWithRand(newRand(2))
	require.Equal(t, gs.Grid(), other.Grid())
	require.NotSame(t, gs.rng, other.rng)
}

func TestParseDirection(t *testing.T) {
	for _, d := range Directions {
		got, err := ParseDirection(d.String())
		require.NoError(t, err)
		require.Equal(t, d, got)
	}

	got, err := ParseDirection(" UP ")
	require.NoError(t, err)
	require.Equal(t, Up, got)

	got, err = ParseDirection("3")
	require.NoError(t, err)
	require.Equal(t, Down, got)

	_, err = ParseDirection("north")
	require.ErrorIs(t, err, ErrInvalidDirection)
	_, err = ParseDirection("7")
	require.ErrorIs(t, err, ErrInvalidDirection)

	require.Equal(t, "Direction(9)", Direction(9).String())
}
