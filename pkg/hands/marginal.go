package hands

// MarginalCells returns the boundary hands of m: cells with at least one
// up/down/left/right neighbour holding a different value. Edge and corner
// cells are compared only against the neighbours that exist. The result is
// in row-major order.
func MarginalCells(m Matrix) []Cell {
	var out []Cell
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			if isMarginal(&m, i, j) {
				out = append(out, Cell{Row: i, Col: j})
			}
		}
	}
	return out
}

var neighbourOffsets = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

func isMarginal(m *Matrix, i, j int) bool {
	v := m[i][j]
	for _, d := range neighbourOffsets {
		ni, nj := i+d[0], j+d[1]
		if ni < 0 || ni >= Size || nj < 0 || nj >= Size {
			continue
		}
		if m[ni][nj] != v {
			return true
		}
	}
	return false
}

// MarginalCellsUnion returns the deduplicated union of the marginal cells of
// every matrix, in row-major order.
func MarginalCellsUnion(ms ...Matrix) []Cell {
	var seen Matrix
	for _, m := range ms {
		for _, c := range MarginalCells(m) {
			seen[c.Row][c.Col] = true
		}
	}
	return seen.Cells()
}
