// Package app wires the dashboard together and manages its lifecycle.
//
// # Initialization Flow
//
//  1. Load configuration from defaults, a YAML file and CO2DASH_* variables
//  2. Initialize logging and OpenTelemetry
//  3. Load the six datasets; any failure aborts startup
//  4. Prepare the forecast artifacts, the websocket hub and navigation state
//  5. Build the services and the chi router
//  6. Serve until SIGINT or SIGTERM, then shut down gracefully
//
// Errors are returned to the caller; the package never calls os.Exit.
package app
