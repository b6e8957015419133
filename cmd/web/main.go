package main

import (
	"log/slog"
	"os"

	"co2dash/internal/app"
	"co2dash/internal/dataset"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		if dataset.IsDataLoadError(err) {
			slog.Error("Dataset load failed, refusing to start", slog.String("error", err.Error()))
		} else {
			slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
