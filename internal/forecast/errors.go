package forecast

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable is matched by every artifact load failure.
	ErrUnavailable = errors.New("forecast unavailable")

	// ErrInsufficientHistory means the series is shorter than the window.
	ErrInsufficientHistory = errors.New("insufficient history for forecast")
)

// UnavailableMessage is shown to users when the artifacts cannot be used.
const UnavailableMessage = "Model or scaler not found. Please train and save them first."

// Artifact names a forecast input file.
type Artifact string

const (
	ArtifactScaler Artifact = "scaler"
	ArtifactModel  Artifact = "model"
)

// UnavailableError describes which artifact could not be loaded.
type UnavailableError struct {
	Artifact Artifact
	Path     string
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s artifact %s: %v", e.Artifact, e.Path, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrUnavailable) true for every UnavailableError.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}
