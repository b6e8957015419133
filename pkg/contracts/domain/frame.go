package domain

// Frame is a chart-ready table in a uniform shape, used by exporters and
// renderers. Rows is never nil; an empty view is a Frame with zero rows.
type Frame struct {
	Name    string          `json:"name"`
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// NewFrame creates an empty frame with the given columns.
func NewFrame(name string, columns ...string) *Frame {
	return &Frame{
		Name:    name,
		Columns: columns,
		Rows:    [][]interface{}{},
	}
}

// Append adds a row. Values must be in column order.
func (f *Frame) Append(values ...interface{}) {
	f.Rows = append(f.Rows, values)
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// Empty reports whether the frame has no rows.
func (f *Frame) Empty() bool {
	return len(f.Rows) == 0
}

// ColumnIndex returns the position of a column or -1.
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}
