package standings

import (
	"strconv"
	"testing"
)

func cellsOf(values ...string) []CellRecord {
	out := make([]CellRecord, 0, len(values))
	for _, v := range values {
		out = append(out, CellRecord{Content: v})
	}
	return out
}

func TestBuildRows_ThreeTeams(t *testing.T) {
	t.Parallel()

	rows := BuildRows(cellsOf("Team A", "5", "0", "Team B", "5", "1", "Team C", "0", "5"))

	want := []Row{
		{TeamName: "Team A", Wins: "5", Losses: "0", WinPercentage: 1.000},
		{TeamName: "Team B", Wins: "5", Losses: "1", WinPercentage: 0.833},
		{TeamName: "Team C", Wins: "0", Losses: "5", WinPercentage: 0.000},
	}
	if len(rows) != len(want) {
		t.Fatalf("unexpected row count: got=%d want=%d", len(rows), len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("row %d mismatch: got=%+v want=%+v", i, rows[i], want[i])
		}
	}
}

func TestBuildRows_NonNumericWins(t *testing.T) {
	t.Parallel()

	rows := BuildRows(cellsOf("Team A", "x", "0"))
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}

	row := rows[0]
	if row.TeamName != "Team A" || row.Wins != "x" {
		t.Fatalf("unexpected row: %+v", row)
	}
	if losses, ok := row.LossesValue(); !ok || losses != 0 {
		t.Fatalf("expected losses=0, got %d ok=%v", losses, ok)
	}
	if _, ok := row.WinsValue(); ok {
		t.Fatalf("expected wins to be non-numeric")
	}
	if row.WinPercentage != NoWinPercentage {
		t.Fatalf("expected sentinel, got %v", row.WinPercentage)
	}
	if got := row.FormattedWinPercentage(); got != "-1.000" {
		t.Fatalf("unexpected formatted sentinel: %q", got)
	}
}

func TestBuildRows_DropsTrailingPartialGroup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cells []CellRecord
		want  int
	}{
		{name: "empty", cells: nil, want: 0},
		{name: "one leftover", cells: cellsOf("A", "1", "2", "B"), want: 1},
		{name: "two leftover", cells: cellsOf("A", "1", "2", "B", "3"), want: 1},
		{name: "exact", cells: cellsOf("A", "1", "2", "B", "3", "4"), want: 2},
		{name: "short", cells: cellsOf("A", "1"), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(BuildRows(tt.cells)); got != tt.want {
				t.Fatalf("row count: got=%d want=%d", got, tt.want)
			}
		})
	}
}

func TestWinPercentage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		wins   string
		losses string
		want   float64
	}{
		{name: "perfect", wins: "5", losses: "0", want: 1},
		{name: "winless", wins: "0", losses: "5", want: 0},
		{name: "round down", wins: "2", losses: "4", want: 0.333},
		{name: "round up", wins: "2", losses: "1", want: 0.667},
		{name: "exact three places", wins: "1", losses: "7", want: 0.125},
		{name: "tie rounds away from zero", wins: "1001", losses: "999", want: 0.501},
		{name: "tie at 0.0005", wins: "1", losses: "1999", want: 0.001},
		{name: "just below tie", wins: "1", losses: "2000", want: 0},
		{name: "surrounding whitespace", wins: " 4 ", losses: "1", want: 0.8},
		{name: "no games", wins: "0", losses: "0", want: NoWinPercentage},
		{name: "non numeric wins", wins: "x", losses: "0", want: NoWinPercentage},
		{name: "non numeric losses", wins: "3", losses: "n/a", want: NoWinPercentage},
		{name: "empty", wins: "", losses: "", want: NoWinPercentage},
		{name: "negative", wins: "-1", losses: "3", want: NoWinPercentage},
		{name: "fractional", wins: "1.5", losses: "3", want: NoWinPercentage},
		{name: "whole decimal spelling", wins: "3.0", losses: "1", want: 0.75},
		{name: "exponent spelling", wins: "1e1", losses: "10", want: 0.5},
		{name: "hex rejected", wins: "0x1p4", losses: "1", want: NoWinPercentage},
		{name: "infinity rejected", wins: "Inf", losses: "1", want: NoWinPercentage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WinPercentage(tt.wins, tt.losses); got != tt.want {
				t.Fatalf("WinPercentage(%q, %q)=%v want=%v", tt.wins, tt.losses, got, tt.want)
			}
		})
	}
}

func TestWinPercentage_MatchesRoundedQuotient(t *testing.T) {
	t.Parallel()

	for w := 0; w <= 40; w++ {
		for l := 0; l <= 40; l++ {
			if w+l == 0 {
				continue
			}
			got := WinPercentage(strconv.Itoa(w), strconv.Itoa(l))
			// half away from zero on thousandths, computed independently
			num := w * 1000
			den := w + l
			q := num / den
			if (num%den)*2 >= den {
				q++
			}
			want := float64(q) / 1000
			if got != want {
				t.Fatalf("w=%d l=%d: got=%v want=%v", w, l, got, want)
			}
		}
	}
}

func TestFormatWinPercentage(t *testing.T) {
	t.Parallel()

	tests := map[float64]string{
		1:               "1.000",
		0.833:           "0.833",
		0:               "0.000",
		NoWinPercentage: "-1.000",
	}
	for in, want := range tests {
		if got := FormatWinPercentage(in); got != want {
			t.Fatalf("FormatWinPercentage(%v)=%q want=%q", in, got, want)
		}
	}
}
