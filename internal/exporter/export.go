package exporter

import (
	"io"

	"co2dash/pkg/contracts/domain"
)

// Export writes frame to w in the given format
func Export(w io.Writer, frame *domain.Frame, format Format) error {
	f, err := ParseFormat(string(format))
	if err != nil {
		return err
	}
	if f == FormatXLSX {
		return WriteXLSX(w, frame)
	}
	return WriteCSV(w, frame)
}
