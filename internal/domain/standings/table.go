package standings

// HeaderRow is the table row owned by the caller; rows are merged below it.
const HeaderRow = 0

// Table is a caller-supplied grid whose first row is a header.
type Table struct {
	Data [][]string `json:"data"`
}

// NewTable returns a table with a single header row.
func NewTable(header ...string) Table {
	return Table{Data: [][]string{append([]string(nil), header...)}}
}

func (t Table) Clone() Table {
	if t.Data == nil {
		return Table{}
	}
	out := make([][]string, len(t.Data))
	for i, row := range t.Data {
		out[i] = append([]string(nil), row...)
	}
	return Table{Data: out}
}

// MergeRows writes rows into the table starting at index 1. Existing rows are
// overwritten column by column; extra columns beyond the four standings
// columns are kept.
func (t *Table) MergeRows(rows []Row) {
	t.ensureHeader()

	for i, row := range rows {
		target := HeaderRow + 1 + i
		for len(t.Data) <= target {
			t.Data = append(t.Data, nil)
		}

		cells := row.Cells()
		current := t.Data[target]
		if len(current) < len(cells) {
			grown := make([]string, len(cells))
			copy(grown, current)
			current = grown
		}
		copy(current, cells)
		t.Data[target] = current
	}
}

// SetHeaderNote writes note into the first header cell.
func (t *Table) SetHeaderNote(note string) {
	t.ensureHeader()
	if len(t.Data[HeaderRow]) == 0 {
		t.Data[HeaderRow] = []string{note}
		return
	}
	t.Data[HeaderRow][0] = note
}

func (t *Table) ensureHeader() {
	if len(t.Data) == 0 {
		t.Data = [][]string{{}}
	}
}
