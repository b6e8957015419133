package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"co2dash/pkg/contracts"
	"co2dash/pkg/contracts/domain"
)

//go:embed web/index.html
var webFS embed.FS

var indexTemplate = template.Must(template.ParseFS(webFS, "web/index.html"))

// indexPage is the data of the dashboard shell
type indexPage struct {
	Title   string
	Version string
	Tabs    []domain.TabInfo
	Active  domain.Tab
}

// ServeIndex serves the dashboard shell with the tab list and the
// currently selected tab baked in.
func ServeIndex(state NavigationService, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := state.Snapshot()
		page := indexPage{
			Title:   "CO₂ Emissions Dashboard",
			Version: contracts.Version,
			Tabs:    snap.Tabs,
			Active:  snap.Active,
		}

		var buf bytes.Buffer
		if err := indexTemplate.Execute(&buf, page); err != nil {
			logger.ErrorContext(r.Context(), "render index page failed",
				slog.String("error", err.Error()))
			http.Error(w, "Error rendering page", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(buf.Bytes())
	}
}
