package services

import "errors"

var (
	// ErrUnknownCountry is returned for a country absent from the emissions table
	ErrUnknownCountry = errors.New("unknown country")

	// ErrYearOutOfRange is returned for a year outside the loaded data
	ErrYearOutOfRange = errors.New("year out of range")

	// ErrTopNOutOfRange is returned for a top-n outside the configured bounds
	ErrTopNOutOfRange = errors.New("top-n out of range")

	// ErrUnknownView is returned for a view name that has no frame
	ErrUnknownView = errors.New("unknown view")

	// ErrForecastDisabled is returned when no forecaster was wired
	ErrForecastDisabled = errors.New("forecast disabled")
)
