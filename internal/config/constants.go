package config

import "time"

// Application constants
const (
	AppName = "CO2 Emissions Dashboard"
	AppID   = "co2dash"

	// File Paths (relative to the base directory)
	DefaultDataDir      = "data"
	DefaultArtifactsDir = "models"
	DefaultLogsDir      = "logs"
	DefaultLogFile      = "app.log"

	// WebSocket keepalive
	WebSocketPingPeriod = 30 * time.Second
	WebSocketPongWait   = 60 * time.Second
	WebSocketWriteWait  = 10 * time.Second

	// Startup
	DatasetLoadTimeout = 30 * time.Second
)
