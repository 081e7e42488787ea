package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/notas/core"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "professor not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")

	msgStoreUnavailable = "store unavailable, try again"
)

// statusOf maps the error taxonomy to an HTTP status.
func statusOf(err error) int {
	switch {
	case core.IsValidation(err):
		return http.StatusBadRequest
	case core.IsNotFound(err):
		return http.StatusNotFound
	case core.IsStoreUnavailable(err):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func fieldErrors(err error, translator ut.Translator) (map[string]string, bool) {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		fldErrs := make(map[string]string, len(vErrs))
		for _, fErr := range core.TranslateValidationErrors(vErrs, translator) {
			fldErrs[fErr.Field] = fErr.Error
		}
		return fldErrs, true
	}
	var vErr *core.ValidationError
	if errors.As(err, &vErr) && len(vErr.Fields) > 0 {
		fldErrs := make(map[string]string, len(vErr.Fields))
		for _, fErr := range vErr.Fields {
			fldErrs[fErr.Field] = fErr.Error
		}
		return fldErrs, true
	}
	return nil, false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		var httpErr *echo.HTTPError
		var wfErr *core.WorkflowError

		switch {
		case errors.As(err, &httpErr):
			if httpErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = httpErr.Message
				break
			}
			if httpErr.Internal != nil {
				if herr, ok := httpErr.Internal.(*echo.HTTPError); ok {
					httpErr = herr
				}
			}
			code = httpErr.Code
			message = httpErr.Message

		case errors.As(err, &wfErr):
			// the user sees the workflow message only
			code = statusOf(wfErr.Err)
			message = wfErr.Message
			if fldErrs, ok := fieldErrors(wfErr.Err, translator); ok {
				message = fldErrs
			}

		case core.IsValidation(err):
			code = http.StatusBadRequest
			if fldErrs, ok := fieldErrors(err, translator); ok {
				message = fldErrs
			} else {
				message = err.Error()
			}

		case core.IsNotFound(err):
			code = http.StatusNotFound
			message = errors.Cause(err).Error()

		case core.IsStoreUnavailable(err):
			code = http.StatusServiceUnavailable
			message = msgStoreUnavailable

		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(code)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if code >= http.StatusInternalServerError {
			args := []interface{}{err}
			if prof, ok := contextProfessor(ctx); ok {
				args = append(args, prof)
			}
			logger.Error(http.StatusText(code)+": "+err.Error(), args...)
			if ctx.Echo().Debug {
				message = err.Error()
			}
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
