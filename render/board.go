package render

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"tiles/game"
)

// Tile colours by exponent, 2 to 2048; larger tiles reuse the last one.
var palette = []string{
	"#eee4da", "#ede0c8", "#f2b179", "#f59563", "#f67c5f", "#f65e3b",
	"#edcf72", "#edcc61", "#edc850", "#edc53f", "#edc22e",
}

// Board draws the grid with one coloured cell per tile, then the score.
func Board(out *termenv.Output, state *game.GameState) string {
	var sb strings.Builder
	for _, row := range state.Grid() {
		for col, v := range row {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(cell(out, v))
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "score %d  max %d", state.Score(), state.MaxTile())
	return sb.String()
}

func cell(out *termenv.Output, v int) string {
	text := fmt.Sprintf("%6s", "·")
	if v == 0 {
		return out.String(text).Faint().String()
	}
	text = fmt.Sprintf("%6d", v)
	return out.String(text).Foreground(out.Color(colorFor(v))).Bold().String()
}

func colorFor(v int) string {
	i := 0
	for t := v; t > 2; t >>= 1 {
		i++
	}
	return palette[min(i, len(palette)-1)]
}
