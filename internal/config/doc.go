// Package config provides centralized configuration management for the
// dashboard. Configuration is layered in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. YAML configuration file (config.yaml or configs/config.yaml)
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables use the CO2DASH_ prefix followed by the
// section and field:
//
//	CO2DASH_SERVER_PORT=8050
//	CO2DASH_PATHS_DATA_DIR=/srv/co2/data
//	CO2DASH_DASHBOARD_DEFAULT_YEAR=2021
//	CO2DASH_FORECAST_HORIZON=10
//	CO2DASH_LOGGING_LEVEL=debug
//
// # Paths
//
// Dataset files live in Paths.DataDir and forecast artifacts in
// Paths.ArtifactsDir. Relative paths resolve against Paths.BaseDir:
//
//	cfg.DataFile(cfg.Data.CO2File)  // data/cleaned_co2_data.csv
//	cfg.ScalerPath()                // models/scaler.json
package config
