// Package exporter writes chart-ready frames as CSV or XLSX.
//
// CSV output carries a UTF-8 BOM so spreadsheet tools detect the encoding,
// then a header row of column names. XLSX output is a single sheet named
// after the view.
//
// Example usage:
//
//	frame := views.CountriesFrame(views.TopNByEmission(totals, 15))
//	err := exporter.Export(w, frame, exporter.FormatXLSX)
package exporter
