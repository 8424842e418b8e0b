package standings

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultOptionKey is the persisted key holding the latest fetched blob.
	DefaultOptionKey = "tp_get_standings.get_standings_json"
	// DefaultRefreshTaskID identifies the recurring refresh registration.
	DefaultRefreshTaskID = "TablePress_GetStandings_update_table_event"

	DefaultFirstFireDelay  = 15 * time.Second
	DefaultRefreshInterval = time.Hour

	DefaultSourceURL = "https://query.yahooapis.com/v1/public/yql?q=select%20*%20from%20html%20where%20xpath%3D%22%2F%2Ftable%5B%40id%3D'standings_table'%5D%2Ftbody%2Ftr%2Ftd%5Bposition()%20%3C%3D%203%5D%22%20and%20%0Aurl%3D%22http%3A%2F%2Ftxhighschoolbaseball.com%2F6a%2F14-6a%2F%22%0A&format=json"
)

// NoWinPercentage marks a row whose win percentage could not be computed.
const NoWinPercentage = -1.0

// Blob is the raw serialized standings payload as last fetched.
type Blob string

func (b Blob) String() string {
	return string(b)
}

func (b Blob) IsEmpty() bool {
	return strings.TrimSpace(string(b)) == ""
}

// CellRecord is one scraped table cell. Styling attributes are carried but
// never interpreted.
type CellRecord struct {
	Class   string `json:"class,omitempty"`
	Width   string `json:"width,omitempty"`
	Content string `json:"content"`
}

// Row is one standings line. Wins and losses keep the raw cell text so
// unparseable values survive into the rendered table.
type Row struct {
	TeamName      string
	Wins          string
	Losses        string
	WinPercentage float64
}

func (r Row) WinsValue() (int, bool) {
	return parseCount(r.Wins)
}

func (r Row) LossesValue() (int, bool) {
	return parseCount(r.Losses)
}

func (r Row) HasWinPercentage() bool {
	return r.WinPercentage != NoWinPercentage
}

func (r Row) FormattedWinPercentage() string {
	return FormatWinPercentage(r.WinPercentage)
}

// Cells returns the row laid out as table columns.
func (r Row) Cells() []string {
	return []string{r.TeamName, r.Wins, r.Losses, r.FormattedWinPercentage()}
}

// parseCount accepts a non-negative whole number, including decimal and
// exponent spellings such as "5.0" or "1e1". Hex forms are rejected.
func parseCount(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if value, err := strconv.ParseInt(raw, 10, 32); err == nil {
		return int(value), value >= 0
	}
	if raw == "" || strings.ContainsAny(raw, "xX") {
		return 0, false
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
