package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. CO2DASH_SERVER_PORT.
const EnvPrefix = "CO2DASH"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Dashboard DashboardConfig `yaml:"dashboard" envconfig:"DASHBOARD"`
	Forecast  ForecastConfig  `yaml:"forecast" envconfig:"FORECAST"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig selects the OpenTelemetry exporters
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME"`
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	EnableTracing  bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	EnableMetrics  bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
}

// PathsConfig contains file system paths. Relative directories resolve
// against BaseDir, which defaults to the working directory.
type PathsConfig struct {
	BaseDir      string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir      string `yaml:"data_dir" envconfig:"DATA_DIR"`
	ArtifactsDir string `yaml:"artifacts_dir" envconfig:"ARTIFACTS_DIR"`
	LogsDir      string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// DataConfig names the six dataset files inside DataDir
type DataConfig struct {
	CO2File          string `yaml:"co2_file" envconfig:"CO2_FILE"`
	CO2PerGDPFile    string `yaml:"co2_per_gdp_file" envconfig:"CO2_PER_GDP_FILE"`
	CountryTotalFile string `yaml:"country_total_file" envconfig:"COUNTRY_TOTAL_FILE"`
	TopEmittersFile  string `yaml:"top_emitters_file" envconfig:"TOP_EMITTERS_FILE"`
	SectorLatestFile string `yaml:"sector_latest_file" envconfig:"SECTOR_LATEST_FILE"`
	SectorAllFile    string `yaml:"sector_all_file" envconfig:"SECTOR_ALL_FILE"`
	MinYear          int    `yaml:"min_year" envconfig:"MIN_YEAR"`
}

// DashboardConfig holds the control defaults and bounds
type DashboardConfig struct {
	DefaultYear int `yaml:"default_year" envconfig:"DEFAULT_YEAR"`
	DefaultTopN int `yaml:"default_top_n" envconfig:"DEFAULT_TOP_N"`
	MinTopN     int `yaml:"min_top_n" envconfig:"MIN_TOP_N"`
	MaxTopN     int `yaml:"max_top_n" envconfig:"MAX_TOP_N"`
}

// ForecastConfig locates the artifacts and sizes the roll-forward
type ForecastConfig struct {
	ScalerFile string `yaml:"scaler_file" envconfig:"SCALER_FILE"`
	ModelFile  string `yaml:"model_file" envconfig:"MODEL_FILE"`
	Window     int    `yaml:"window" envconfig:"WINDOW"`
	Horizon    int    `yaml:"horizon" envconfig:"HORIZON"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT"`
}

// Load builds the configuration from defaults, then the first config
// file found, then environment variables.
func Load() (*Config, error) {
	return LoadFrom(findConfigFile())
}

// LoadFrom is Load with an explicit config file. An empty path skips the
// file layer.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Unset variables leave the field untouched, so env only overrides
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML onto cfg; keys absent from the file keep
// their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}
	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported log format: %s", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		return fmt.Errorf("unsupported log output: %s", c.Logging.Output)
	}

	d := c.Dashboard
	if d.MinTopN <= 0 || d.MaxTopN < d.MinTopN {
		return fmt.Errorf("invalid top-n bounds [%d, %d]", d.MinTopN, d.MaxTopN)
	}
	if d.DefaultTopN < d.MinTopN || d.DefaultTopN > d.MaxTopN {
		return fmt.Errorf("default top-n %d outside [%d, %d]", d.DefaultTopN, d.MinTopN, d.MaxTopN)
	}
	if c.Data.MinYear <= 0 {
		return fmt.Errorf("invalid minimum year: %d", c.Data.MinYear)
	}

	if c.Forecast.Window <= 0 {
		return fmt.Errorf("forecast window must be positive")
	}
	if c.Forecast.Horizon <= 0 {
		return fmt.Errorf("forecast horizon must be positive")
	}

	for name, file := range c.dataFiles() {
		if file == "" {
			return fmt.Errorf("data file for %s is not set", name)
		}
	}
	return nil
}

// findConfigFile returns the first config file in the usual locations
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "",
			Port:            8050,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8050"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "",
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppID,
			Environment:    "development",
			EnableTracing:  false,
			EnableMetrics:  true,
			TraceExporter:  "stdout",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
		Paths: PathsConfig{
			DataDir:      DefaultDataDir,
			ArtifactsDir: DefaultArtifactsDir,
			LogsDir:      DefaultLogsDir,
		},
		Data: DataConfig{
			CO2File:          "cleaned_co2_data.csv",
			CO2PerGDPFile:    "co2_per_gdp_latest.csv",
			CountryTotalFile: "country_wise_total_emissions.csv",
			TopEmittersFile:  "top_10_emitters_latest_year.csv",
			SectorLatestFile: "sector_wise_contribution_latest_year.csv",
			SectorAllFile:    "sector_wise_all_time.csv",
			MinYear:          1850,
		},
		Dashboard: DashboardConfig{
			DefaultYear: 2022,
			DefaultTopN: 15,
			MinTopN:     5,
			MaxTopN:     50,
		},
		Forecast: ForecastConfig{
			ScalerFile: "scaler.json",
			ModelFile:  "model.json",
			Window:     5,
			Horizon:    10,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      WebSocketPingPeriod,
			PongWait:        WebSocketPongWait,
		},
	}
}

// Address returns the listen address of the HTTP server
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
