package http

import (
	"errors"
	"net/http"

	"co2dash/internal/charts"
	apierrors "co2dash/internal/errors"
	"co2dash/internal/exporter"
	"co2dash/internal/navigation"
	"co2dash/internal/services"
)

// toAPIError maps service sentinels to API errors. Errors it does not
// know, such as dataset and forecast failures, pass through unchanged for
// the ErrorHandler to classify.
func toAPIError(err error, q services.ViewQuery) error {
	switch {
	case errors.Is(err, services.ErrUnknownCountry):
		return apierrors.NotFoundError("country", q.Country)
	case errors.Is(err, services.ErrYearOutOfRange):
		return apierrors.ErrValidation("year", err.Error())
	case errors.Is(err, services.ErrTopNOutOfRange):
		return apierrors.ErrValidation("top_n", err.Error())
	case errors.Is(err, services.ErrUnknownView):
		return apierrors.ErrValidation("view", err.Error())
	case errors.Is(err, services.ErrForecastDisabled):
		return apierrors.New(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Forecasting is disabled")
	case errors.Is(err, navigation.ErrUnknownTab):
		return apierrors.ErrValidation("tab", err.Error())
	case errors.Is(err, charts.ErrUnsupportedView):
		return apierrors.NewWithDetails(http.StatusUnsupportedMediaType, "VALIDATION_FAILED",
			"This view has no server-side chart", []apierrors.ValidationError{{Field: "view", Message: err.Error()}})
	case errors.Is(err, charts.ErrUnsupportedFormat), errors.Is(err, exporter.ErrUnsupportedFormat):
		return apierrors.ErrValidation("format", err.Error())
	}
	return err
}
