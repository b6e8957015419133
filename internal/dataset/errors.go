package dataset

import (
	"errors"
	"fmt"
)

// ErrDataLoad is matched by every error returned from a failed load.
var ErrDataLoad = errors.New("dataset load failed")

// LoadError describes why a table could not be loaded.
type LoadError struct {
	Dataset Name
	Path    string
	Line    int
	Column  string
	Err     error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("load %s (%s)", e.Dataset, e.Path)
	if e.Line > 0 {
		msg += fmt.Sprintf(" line %d", e.Line)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(" column %q", e.Column)
	}
	return msg + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDataLoad) true for every LoadError.
func (e *LoadError) Is(target error) bool {
	return target == ErrDataLoad
}

// IsDataLoadError reports whether err came from a failed dataset load.
func IsDataLoadError(err error) bool {
	return errors.Is(err, ErrDataLoad)
}
