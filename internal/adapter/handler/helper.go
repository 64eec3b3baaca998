package handler

import (
	stdErrors "errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/aigymos/gym-console/errors"
	"github.com/aigymos/gym-console/internal/domain/entities"
	httpmw "github.com/aigymos/gym-console/internal/infrastructure/http/middleware"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) {
		appErr = errors.ErrInternal(err)
	}

	if logger != nil {
		log := logger.Warn
		if appErr.HTTPCode >= http.StatusInternalServerError {
			log = logger.Error
		}
		log("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Any("app_code", appErr.Code),
			zap.Error(err),
		)
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	body := errs{
		Code:    appErr.Code,
		Message: appErr.Message,
		Info:    info,
		Details: appErr.Details,
	}

	return c.JSON(appErr.HTTPCode, body)
}

// HTTPErrorHandler renders errors that escape handlers, such as those
// returned by middleware or by echo's router, in the same envelope.
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *echo.HTTPError
		if stdErrors.As(err, &httpErr) {
			err = fromHTTPError(httpErr)
		}

		if c.Request().Method == http.MethodHead {
			var appErr errors.AppError
			status := http.StatusInternalServerError
			if stdErrors.As(err, &appErr) {
				status = appErr.HTTPCode
			}
			_ = c.NoContent(status)
			return
		}

		if writeErr := HandleError(logger, c, err); writeErr != nil && logger != nil {
			logger.Error("http.response.write_failed", zap.Error(writeErr))
		}
	}
}

func fromHTTPError(he *echo.HTTPError) errors.AppError {
	message := http.StatusText(he.Code)
	if he.Message != nil {
		message = fmt.Sprint(he.Message)
	}

	code := errors.ErrorCode_INTERNAL
	switch he.Code {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		code = errors.ErrorCode_INVALID_ARGUMENT
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		code = errors.ErrorCode_NOT_FOUND
	case http.StatusUnauthorized:
		code = errors.ErrorCode_UNAUTHENTICATED
	case http.StatusForbidden:
		code = errors.ErrorCode_PERMISSION_DENIED
	case http.StatusServiceUnavailable:
		code = errors.ErrorCode_INTEGRATION_BACKEND_UNAVAILABLE
	}

	return errors.AppError{
		Raw:      he.Internal,
		HTTPCode: he.Code,
		Code:     code,
		Message:  message,
	}
}

// principal returns the authenticated caller or an UNAUTHENTICATED error
func principal(c echo.Context) (entities.Principal, error) {
	p, ok := httpmw.GetPrincipal(c)
	if !ok {
		return entities.Principal{}, errors.ErrUnauthenticated()
	}
	return p, nil
}

// bindAndValidate binds the request into req and runs the registered validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidPayload()
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}
