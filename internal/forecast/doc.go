// Package forecast extends an annual emissions series with a short
// horizon of predicted values.
//
// The extender depends only on two capabilities: a Scaler that maps raw
// values to the model's normalized range and back, and a Predictor that
// maps a fixed window of normalized values to the next one. Both are
// produced by an external training pipeline and read from JSON artifact
// files by an ArtifactLoader.
//
// # Roll-forward
//
// The whole history is normalized, the last Window values seed the
// input, and Horizon predictions are made one step at a time, each one
// sliding into the window as the oldest value drops out. Predictions are
// denormalized and labelled with the years following the last observed
// year.
//
// # Errors
//
// A missing or corrupt artifact yields an *UnavailableError matching
// ErrUnavailable. It is fatal to the forecast view only.
package forecast
