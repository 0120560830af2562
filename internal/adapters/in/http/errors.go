package http

import (
	"errors"
	"net/http"

	"workshop/internal/core/domain/services"
	"workshop/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusOf maps an operation error to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, services.ErrAuditWriteFailed):
		return http.StatusInternalServerError
	case errors.Is(err, errs.ErrStorageConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrDelayReasonNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidCurrentStage),
		errors.Is(err, services.ErrNoNextStage),
		errors.Is(err, services.ErrInvalidStageForDelay),
		errors.Is(err, services.ErrInvalidStageForIrreparable),
		errors.Is(err, services.ErrNoOpenInterval),
		errors.Is(err, services.ErrStageMismatch):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	status := statusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError && !errors.Is(err, services.ErrAuditWriteFailed) {
		c.Logger().Error(err)
		message = http.StatusText(status)
	}
	return c.JSON(status, Error{Code: status, Message: message})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
