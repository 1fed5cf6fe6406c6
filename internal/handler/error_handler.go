package handler

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cmrpai/internal/auth"
	"cmrpai/internal/errors"
	"cmrpai/internal/view"
)

// ErrorHandler renders failures as an HTML error page, or as ErrorResponse JSON under /api.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Error interno del servidor"
		code := "INTERNAL_ERROR"

		var he *echo.HTTPError
		if stderrors.As(err, &he) {
			status = he.Code
			switch m := he.Message.(type) {
			case errors.ErrorResponse:
				message, code = m.Error, m.Code
			case string:
				message, code = m, http.StatusText(status)
			default:
				message, code = fmt.Sprint(m), http.StatusText(status)
			}
		}

		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", status),
				zap.Error(err),
			)
			message = "Error interno del servidor"
		}

		var renderErr error
		switch {
		case c.Request().Method == http.MethodHead:
			renderErr = c.NoContent(status)
		case auth.IsAPIRequest(c):
			renderErr = c.JSON(status, errors.ErrorResponse{Error: message, Code: code})
		default:
			renderErr = renderPage(c, status, view.PageError, "Error", view.ErrorData{Status: status, Message: message})
		}
		if renderErr != nil {
			logger.Error("render error response", zap.Error(renderErr))
		}
	}
}
