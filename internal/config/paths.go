package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// resolve joins a relative path onto the base directory.
func (c *Config) resolve(parts ...string) string {
	p := filepath.Join(parts...)
	if filepath.IsAbs(p) {
		return p
	}
	base := c.Paths.BaseDir
	if base == "" {
		base = "."
	}
	return filepath.Join(base, p)
}

// GetDataDir returns the resolved data directory
func (c *Config) GetDataDir() string {
	return c.resolve(c.Paths.DataDir)
}

// GetArtifactsDir returns the resolved forecast artifacts directory
func (c *Config) GetArtifactsDir() string {
	return c.resolve(c.Paths.ArtifactsDir)
}

// GetLogsDir returns the resolved logs directory
func (c *Config) GetLogsDir() string {
	return c.resolve(c.Paths.LogsDir)
}

// GetLogFile returns the log file path. An explicit Logging.FilePath
// wins over the logs directory.
func (c *Config) GetLogFile() string {
	if c.Logging.FilePath != "" {
		return c.resolve(c.Logging.FilePath)
	}
	return filepath.Join(c.GetLogsDir(), DefaultLogFile)
}

// DataFile returns the resolved path of a dataset file. Absolute file
// names are used as they are.
func (c *Config) DataFile(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(c.GetDataDir(), file)
}

// ScalerPath returns the resolved scaler artifact path
func (c *Config) ScalerPath() string {
	if filepath.IsAbs(c.Forecast.ScalerFile) {
		return c.Forecast.ScalerFile
	}
	return filepath.Join(c.GetArtifactsDir(), c.Forecast.ScalerFile)
}

// ModelPath returns the resolved model artifact path
func (c *Config) ModelPath() string {
	if filepath.IsAbs(c.Forecast.ModelFile) {
		return c.Forecast.ModelFile
	}
	return filepath.Join(c.GetArtifactsDir(), c.Forecast.ModelFile)
}

func (c *Config) dataFiles() map[string]string {
	return map[string]string{
		"co2":           c.Data.CO2File,
		"gdp":           c.Data.CO2PerGDPFile,
		"country_total": c.Data.CountryTotalFile,
		"top_emitters":  c.Data.TopEmittersFile,
		"sector_latest": c.Data.SectorLatestFile,
		"sector_all":    c.Data.SectorAllFile,
	}
}

// EnsureDirectories creates the logs directory when logging to a file
func (c *Config) EnsureDirectories() error {
	if c.Logging.Output == "console" {
		return nil
	}
	dir := filepath.Dir(c.GetLogFile())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// LogPathResolution logs the resolved paths for debugging
func (c *Config) LogPathResolution(logger *slog.Logger) {
	logger.Info("Path resolution",
		slog.String("base_dir", c.Paths.BaseDir),
		slog.String("data_dir", c.GetDataDir()),
		slog.String("artifacts_dir", c.GetArtifactsDir()),
		slog.String("logs_dir", c.GetLogsDir()))
}
