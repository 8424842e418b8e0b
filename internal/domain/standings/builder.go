package standings

import "strconv"

const cellsPerRow = 3

// BuildRows groups cells into (team, wins, losses) triples and emits one
// row per completed triple, in source order. Leftover cells are dropped.
func BuildRows(cells []CellRecord) []Row {
	rows := make([]Row, 0, len(cells)/cellsPerRow)

	var slots [cellsPerRow]string
	for i, cell := range cells {
		slot := i % cellsPerRow
		slots[slot] = cell.Content
		if slot == cellsPerRow-1 {
			rows = append(rows, NewRow(slots[0], slots[1], slots[2]))
			slots = [cellsPerRow]string{}
		}
	}

	return rows
}

func NewRow(teamName, wins, losses string) Row {
	return Row{
		TeamName:      teamName,
		Wins:          wins,
		Losses:        losses,
		WinPercentage: WinPercentage(wins, losses),
	}
}

// WinPercentage returns wins/(wins+losses) rounded to three decimals, half
// away from zero. It returns NoWinPercentage when either value is not a
// non-negative integer or no games were played.
func WinPercentage(wins, losses string) float64 {
	w, ok := parseCount(wins)
	if !ok {
		return NoWinPercentage
	}
	l, ok := parseCount(losses)
	if !ok {
		return NoWinPercentage
	}

	total := int64(w) + int64(l)
	if total <= 0 {
		return NoWinPercentage
	}

	// floor((w/total)*1000 + 1/2) in integer arithmetic keeps ties exact.
	thousandths := (2*int64(w)*1000 + total) / (2 * total)
	return float64(thousandths) / 1000
}

// FormatWinPercentage renders v with exactly three decimals, e.g. "0.833"
// or "-1.000" for the sentinel.
func FormatWinPercentage(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
