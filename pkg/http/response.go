package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sony/gobreaker"

	"FinSight/internal/domain/models"
	"FinSight/internal/domain/repository"
)

// DataResponse writes the {status, message, data} envelope with statusCode.
func DataResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, APIResponse{
		Status:  statusCode,
		Message: http.StatusText(statusCode),
		Data:    data,
	})
}

// SuccessResponse writes success response.
func SuccessResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusOK, data)
}

// BadRequestResponse writes bad request error.
func BadRequestResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusBadRequest, data)
}

// InternalServerErrorResponse writes internal server error.
func InternalServerErrorResponse(c echo.Context) error {
	return DataResponse(c, http.StatusInternalServerError, "Something went wrong")
}

// AppErrorResponse maps err onto an HTTP status. Unknown errors become 500
// without leaking their text.
func AppErrorResponse(c echo.Context, err error) error {
	if appErr := ToAppError(err); appErr != nil {
		return DataResponse(c, appErr.Status, []*AppError{appErr})
	}
	return InternalServerErrorResponse(c)
}

// ToAppError classifies known domain and infrastructure errors. It returns
// nil for anything it does not recognise.
func ToAppError(err error) *AppError {
	var appErr *AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, models.ErrInvalidParameter):
		return NewAppError("ERR_INVALID_PARAMETER", "", err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrNotFound):
		return NotFoundError(err.Error())
	case errors.Is(err, repository.ErrUnavailable),
		errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests):
		return ServiceUnavailableError("storage temporarily unavailable")
	default:
		return nil
	}
}
