// Command co2export renders one dashboard view to a file without starting
// the web server.
//
//	co2export -view countries -top-n 20 -format xlsx
//	co2export -view forecast -country India -format svg -out india.svg
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"co2dash/internal/app"
	"co2dash/internal/charts"
	"co2dash/internal/config"
	"co2dash/internal/exporter"
	"co2dash/internal/infrastructure"
	"co2dash/internal/services"
)

type options struct {
	configFile string
	view       string
	format     string
	out        string
	year       int
	topN       int
	country    string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("co2export", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configFile, "config", "", "config file (defaults to config.yaml or configs/config.yaml)")
	fs.StringVar(&opts.view, "view", "", "view to export: "+viewNames())
	fs.StringVar(&opts.format, "format", "csv", "csv | xlsx | png | svg")
	fs.StringVar(&opts.out, "out", "", "output file, - for stdout (defaults to <view>.<format>)")
	fs.IntVar(&opts.year, "year", 0, "choropleth year (defaults to the configured year)")
	fs.IntVar(&opts.topN, "top-n", 0, "number of countries for the countries view")
	fs.StringVar(&opts.country, "country", "", "country for the forecast view")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.view == "" {
		return nil, fmt.Errorf("-view is required")
	}
	if opts.out == "" {
		opts.out = fmt.Sprintf("%s.%s", strings.ToLower(opts.view), strings.ToLower(opts.format))
	}
	return opts, nil
}

func viewNames() string {
	names := make([]string, 0, len(services.Views()))
	for _, v := range services.Views() {
		names = append(names, string(v))
	}
	return strings.Join(names, " | ")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// render writes the view to w in the requested format. Table formats go
// through the exporter and image formats through the chart renderer.
func render(ctx context.Context, dashboard *services.DashboardService, w io.Writer, opts *options) error {
	view, err := services.ParseView(opts.view)
	if err != nil {
		return err
	}
	q := services.ViewQuery{Year: opts.year, TopN: opts.topN, Country: strings.TrimSpace(opts.country)}

	if format, err := exporter.ParseFormat(opts.format); err == nil {
		return dashboard.Export(ctx, w, view, q, format)
	}
	format, err := charts.ParseFormat(opts.format)
	if err != nil {
		return fmt.Errorf("unsupported format %q: want one of %s, %s", opts.format,
			strings.Join(exporter.Formats(), ", "), strings.Join(charts.Formats(), ", "))
	}
	return dashboard.Chart(ctx, w, view, q, format)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := infrastructure.NewLogger(stderr, cfg.Logging.Level, "text")
	logger.Info("Starting export",
		slog.String("view", opts.view),
		slog.String("format", opts.format),
		slog.String("out", opts.out))

	store := app.NewStore(cfg, logger, nil)
	loadCtx, cancel := context.WithTimeout(ctx, config.DatasetLoadTimeout)
	defer cancel()
	if _, err := store.Tables(loadCtx); err != nil {
		return err
	}
	artifacts, extender := app.NewArtifacts(cfg, logger, nil)
	forecaster := services.NewForecastService(store, artifacts, extender, nil, logger)
	dashboard := services.NewDashboardService(store, forecaster, cfg.Dashboard, nil, logger)

	// Buffer so a failed render leaves no partial file behind
	var buf bytes.Buffer
	if err := render(ctx, dashboard, &buf, opts); err != nil {
		return err
	}

	if opts.out == "-" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(opts.out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.out, err)
	}
	logger.Info("Export complete",
		slog.String("out", opts.out),
		slog.Int("bytes", buf.Len()))
	return nil
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "co2export: %v\n", err)
		os.Exit(1)
	}
}
