package http

import (
	"errors"
	"log/slog"
	"net/http"

	"orderledger/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// KindUnauthorized is reported for requests rejected by ActorMiddleware.
const KindUnauthorized errs.Kind = "unauthorized"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    int            `json:"code"`
	Kind    string         `json:"kind"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

var statusByKind = map[errs.Kind]int{
	errs.KindValidation:        http.StatusBadRequest,
	errs.KindInvalidTransition: http.StatusUnprocessableEntity,
	errs.KindTerminalState:     http.StatusUnprocessableEntity,
	errs.KindInsufficientFunds: http.StatusUnprocessableEntity,
	errs.KindConflict:          http.StatusConflict,
	errs.KindLockTimeout:       http.StatusLocked,
	errs.KindNotFound:          http.StatusNotFound,
}

// NewErrorResponse maps err onto the HTTP error contract. Internal failures
// keep their message out of the response.
func NewErrorResponse(err error) ErrorResponse {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		var kind errs.Kind
		switch {
		case he.Code >= http.StatusInternalServerError:
			kind = errs.KindInternal
		case he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed:
			kind = errs.KindNotFound
		case he.Code == http.StatusUnauthorized:
			kind = KindUnauthorized
		default:
			kind = errs.KindValidation
		}
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		return ErrorResponse{Code: he.Code, Kind: string(kind), Message: msg}
	}

	kind := errs.KindOf(err)
	code, ok := statusByKind[kind]
	if !ok {
		return ErrorResponse{
			Code:    http.StatusInternalServerError,
			Kind:    string(errs.KindInternal),
			Message: http.StatusText(http.StatusInternalServerError),
		}
	}
	return ErrorResponse{Code: code, Kind: string(kind), Message: err.Error(), Details: errs.Details(err)}
}

// ErrorHandler replaces echo's default error handler. Handlers return domain
// errors unchanged and this writes them out.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := NewErrorResponse(err)
		if resp.Code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(resp.Code)
		} else {
			err = c.JSON(resp.Code, resp)
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "failed to write error response", "error", err)
		}
	}
}
