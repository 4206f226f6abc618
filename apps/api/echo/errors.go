package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/mergington/activities/core"
	"github.com/mergington/activities/core/activity"
	"github.com/mergington/activities/core/teacher"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "teacher not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errTeacherNotFound      = echo.NewHTTPError(http.StatusNotFound, "Teacher not found")
	errActivityNotFound     = echo.NewHTTPError(http.StatusNotFound, "Activity not found")
	errAlreadySignedUp      = echo.NewHTTPError(http.StatusBadRequest, "Student is already signed up for this activity")
	errNotSignedUp          = echo.NewHTTPError(http.StatusBadRequest, "Student is not signed up for this activity")
	errActivityFull         = echo.NewHTTPError(http.StatusBadRequest, "Activity is full")
)

// domainHTTPError maps the domain sentinel errors to their HTTP representation.
func domainHTTPError(err error) error {
	switch err {
	case teacher.ErrNotFound:
		return errTeacherNotFound
	case teacher.ErrInvalidCredentials:
		return errAuthenticationFailed
	case activity.ErrNotFound:
		return errActivityNotFound
	case activity.ErrAlreadySignedUp:
		return errAlreadySignedUp
	case activity.ErrNotSignedUp:
		return errNotSignedUp
	case activity.ErrFull:
		return errActivityFull
	}
	return err
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := domainHTTPError(errors.Cause(err)).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				message = origErr.FieldMap()
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var t teacher.Teacher
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				t.Username = claims.Subject
				t.DisplayName = claims.DisplayName
				t.Role = claims.Role
			}
			logger.Error(msg, errors.Wrap(err, msg), t)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
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
