package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// utf8BOM is stripped from the first header cell when present.
const utf8BOM = "\ufeff"

// row is one data record with the line it started on.
type row struct {
	line   int
	fields []string
}

// table is a parsed CSV file with its header resolved to column positions.
type table struct {
	name    Name
	path    string
	columns map[string]int
	rows    []row
}

// readTable opens path and checks the header against the dataset's
// required columns.
func readTable(name Name, path string) (*table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Dataset: name, Path: path, Err: err}
	}
	defer file.Close()

	return parseTable(name, path, file)
}

func parseTable(name Name, path string, r io.Reader) (*table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("file is empty")
		}
		return nil, &LoadError{Dataset: name, Path: path, Line: 1, Err: fmt.Errorf("read header: %w", err)}
	}

	t := &table{
		name:    name,
		path:    path,
		columns: make(map[string]int, len(header)),
	}
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, utf8BOM)
		}
		col = strings.TrimSpace(col)
		if _, dup := t.columns[col]; !dup {
			t.columns[col] = i
		}
	}

	for _, col := range requiredColumns[name] {
		if _, ok := t.columns[col]; !ok {
			return nil, &LoadError{Dataset: name, Path: path, Line: 1, Column: col, Err: errors.New("missing required column")}
		}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			loadErr := &LoadError{Dataset: name, Path: path, Err: err}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				loadErr.Line = parseErr.StartLine
			}
			return nil, loadErr
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}
		t.rows = append(t.rows, row{line: line, fields: record})
	}

	return t, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// cell returns the trimmed value of col in r. Short records read as blank.
func (t *table) cell(r row, col string) string {
	idx := t.columns[col]
	if idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

func (t *table) fail(r row, col string, err error) error {
	return &LoadError{Dataset: t.name, Path: t.path, Line: r.line, Column: col, Err: err}
}

func (t *table) text(r row, col string) (string, error) {
	v := t.cell(r, col)
	if v == "" {
		return "", t.fail(r, col, errors.New("empty value"))
	}
	return v, nil
}

// year parses an integer year within [minYear, maxYear]. Values written
// as floats such as "2022.0" are accepted when integral.
func (t *table) year(r row, col string, minYear, maxYear int) (int, error) {
	v := t.cell(r, col)
	if v == "" {
		return 0, t.fail(r, col, errors.New("empty value"))
	}
	y, err := strconv.Atoi(v)
	if err != nil {
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != math.Trunc(f) {
			return 0, t.fail(r, col, fmt.Errorf("invalid year %q", v))
		}
		y = int(f)
	}
	if y < minYear || y > maxYear {
		return 0, t.fail(r, col, fmt.Errorf("year %d outside [%d, %d]", y, minYear, maxYear))
	}
	return y, nil
}

// amount parses a finite, non-negative float. When allowBlank is set an
// empty cell reads as NaN.
func (t *table) amount(r row, col string, allowBlank bool) (float64, error) {
	v := t.cell(r, col)
	if v == "" {
		if allowBlank {
			return math.NaN(), nil
		}
		return 0, t.fail(r, col, errors.New("empty value"))
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, t.fail(r, col, fmt.Errorf("invalid number %q", v))
	}
	if math.IsNaN(f) {
		if allowBlank {
			return f, nil
		}
		return 0, t.fail(r, col, errors.New("value is NaN"))
	}
	if math.IsInf(f, 0) {
		return 0, t.fail(r, col, fmt.Errorf("value %q is not finite", v))
	}
	if f < 0 {
		return 0, t.fail(r, col, fmt.Errorf("negative value %g", f))
	}
	return f, nil
}
