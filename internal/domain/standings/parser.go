package standings

import (
	"bytes"

	sonic "github.com/bytedance/sonic"
)

// Envelope is the typed form of the query-service payload:
//
//	{"query":{"count":N,"created":"...","lang":"...","results":{"td":[...]}}}
type Envelope struct {
	Query *EnvelopeQuery `json:"query"`
}

type EnvelopeQuery struct {
	Count   int              `json:"count"`
	Created string           `json:"created,omitempty"`
	Lang    string           `json:"lang,omitempty"`
	Results *EnvelopeResults `json:"results"`
}

type EnvelopeResults struct {
	TD CellList `json:"td"`
}

// CellList accepts either a JSON array of cells or a single cell object.
// The upstream service collapses one-element lists into a bare object.
type CellList []CellRecord

func (l *CellList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}

	if trimmed[0] == '{' {
		var single CellRecord
		if err := sonic.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*l = CellList{single}
		return nil
	}

	var items []CellRecord
	if err := sonic.Unmarshal(trimmed, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

func (c *CellRecord) UnmarshalJSON(data []byte) error {
	var wire struct {
		Class   styleAttr   `json:"class"`
		Width   styleAttr   `json:"width"`
		Content cellContent `json:"content"`
	}
	if err := sonic.Unmarshal(data, &wire); err != nil {
		return err
	}

	c.Class = string(wire.Class)
	c.Width = string(wire.Width)
	c.Content = string(wire.Content)
	return nil
}

// cellContent holds a cell value. Strings are taken as-is and numbers keep
// their literal text.
type cellContent string

func (c *cellContent) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*c = ""
		return nil
	case trimmed[0] == '"':
		var s string
		if err := sonic.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*c = cellContent(s)
		return nil
	case trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9'):
		var n float64
		if err := sonic.Unmarshal(trimmed, &n); err != nil {
			return err
		}
		*c = cellContent(trimmed)
		return nil
	default:
		return decodeErrorf("unsupported cell content %.40q", string(trimmed))
	}
}

// styleAttr keeps string styling values and drops anything else.
type styleAttr string

func (s *styleAttr) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		*s = ""
		return nil
	}
	var v string
	if err := sonic.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	*s = styleAttr(v)
	return nil
}

// DecodeBlob decodes a raw blob into its envelope without interpreting the
// cells.
func DecodeBlob(blob Blob) (Envelope, error) {
	if blob.IsEmpty() {
		return Envelope{}, decodeErrorf("standings payload is empty")
	}

	var env Envelope
	if err := sonic.UnmarshalString(string(blob), &env); err != nil {
		return Envelope{}, wrapDecodeError(err, "decode standings payload")
	}
	if env.Query == nil {
		return Envelope{}, decodeErrorf("standings payload has no query object")
	}

	return env, nil
}

// ParseBlob decodes blob and returns its first count cells in source order.
func ParseBlob(blob Blob) ([]CellRecord, error) {
	env, err := DecodeBlob(blob)
	if err != nil {
		return nil, err
	}
	return ParseEnvelope(env)
}

// ParseEnvelope returns the cells of an already decoded payload, bounded by
// the declared record count. A trailing group shorter than three cells is
// returned as-is; BuildRows emits no row for it.
func ParseEnvelope(env Envelope) ([]CellRecord, error) {
	if env.Query == nil {
		return nil, decodeErrorf("standings payload has no query object")
	}

	count := env.Query.Count
	if count < 0 {
		return nil, decodeErrorf("standings payload declares negative count %d", count)
	}
	if count == 0 {
		return []CellRecord{}, nil
	}
	if env.Query.Results == nil {
		return nil, decodeErrorf("standings payload declares %d cells but has no results", count)
	}

	available := len(env.Query.Results.TD)
	if count > available {
		return nil, decodeErrorf("standings payload declares %d cells but carries %d", count, available)
	}

	out := make([]CellRecord, count)
	copy(out, env.Query.Results.TD[:count])
	return out, nil
}
