package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"co2dash/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// StreamWriter writes CSV rows to an underlying writer
type StreamWriter struct {
	writer *csv.Writer
}

// NewStreamWriter writes the BOM and headers, then returns a writer for
// the rows.
func NewStreamWriter(w io.Writer, headers []string) (*StreamWriter, error) {
	if _, err := w.Write(utf8BOM); err != nil {
		return nil, fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}
	return &StreamWriter{writer: writer}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes buffered rows
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	return s.writer.Error()
}

// WriteCSV writes frame as CSV with a BOM and header row
func WriteCSV(w io.Writer, frame *domain.Frame) error {
	stream, err := NewStreamWriter(w, frame.Columns)
	if err != nil {
		return err
	}

	record := make([]string, len(frame.Columns))
	for i, row := range frame.Rows {
		if len(row) != len(frame.Columns) {
			return fmt.Errorf("%s row %d: %d values for %d columns", frame.Name, i, len(row), len(frame.Columns))
		}
		for j, v := range row {
			record[j] = formatValue(v)
		}
		if err := stream.WriteRecord(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return stream.Close()
}
