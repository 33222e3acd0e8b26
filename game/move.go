package game

// Every direction is a compress-left of the grid rotated clockwise by
// turns[d] quarter turns. The rotation is never materialised: cellAt maps a
// position of the rotated grid back onto the real one.
var turns = [NumDirections]int{Left: 0, Up: 3, Right: 2, Down: 1}

// cellAt returns the row and column of the real grid that sits at
// (line, pos) once the grid is rotated clockwise k times.
func cellAt(k, line, pos int) (int, int) {
	switch k {
	case 1:
		return Size - 1 - pos, line
	case 2:
		return Size - 1 - line, Size - 1 - pos
	case 3:
		return pos, Size - 1 - line
	default:
		return line, pos
	}
}

// Move slides and merges the grid towards d. When anything changed a random
// tile is spawned afterwards. An unknown direction changes nothing.
func (gs *GameState) Move(d Direction) bool {
	if !d.Valid() {
		return false
	}
	moved := gs.slide(d)
	if moved {
		gs.AddRandomTile()
	}
	return moved
}

// slide applies the reduction without spawning.
func (gs *GameState) slide(d Direction) bool {
	k := turns[d]
	moved := false
	for line := 0; line < Size; line++ {
		var before [Size]int
		for pos := 0; pos < Size; pos++ {
			row, col := cellAt(k, line, pos)
			before[pos] = gs.grid[row][col]
		}

		after, gained := compressLeft(before)
		if after == before {
			continue
		}
		moved = true
		gs.score += gained
		for pos := 0; pos < Size; pos++ {
			row, col := cellAt(k, line, pos)
			gs.grid[row][col] = after[pos]
		}
	}
	return moved
}

// compressLeft removes gaps, merges each equal neighbour pair once from the
// left and pads with zeros. It returns the line and the points gained.
func compressLeft(line [Size]int) ([Size]int, int64) {
	var packed [Size]int
	n := 0
	for _, v := range line {
		if v != 0 {
			packed[n] = v
			n++
		}
	}

	var out [Size]int
	var gained int64
	w := 0
	for i := 0; i < n; i++ {
		if i+1 < n && packed[i] == packed[i+1] {
			merged := packed[i] * 2
			out[w] = merged
			gained += int64(merged)
			i++
		} else {
			out[w] = packed[i]
		}
		w++
	}
	return out, gained
}
