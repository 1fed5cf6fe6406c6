package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"cmrpai/internal/auth"
	"cmrpai/internal/handler"
	"cmrpai/internal/view"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	NNA       *handler.NNAHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, logger *zap.Logger, authn auth.Authenticator, h Handlers) error {
	renderer, err := view.New()
	if err != nil {
		return err
	}
	e.Renderer = renderer
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = handler.ErrorHandler(logger)

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if id, ok := auth.CurrentIdentity(c); ok {
				fields = append(fields, zap.String("user", id.Username))
			}
			if v.Error != nil {
				logger.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.GET(auth.LoginPath, h.Auth.LoginForm)
	e.POST(auth.LoginPath, h.Auth.Login)

	// Secured routes (require a session cookie)
	secured := e.Group("", auth.RequireSession(authn))
	secured.GET("/logout", h.Auth.Logout)
	secured.GET("/", h.Dashboard.Dashboard)
	secured.GET("/nna", h.NNA.List)
	secured.GET("/nna/nuevo", h.NNA.NewForm)
	secured.POST("/nna/nuevo", h.NNA.Create)

	api := secured.Group("/api")
	api.GET("/dashboard", h.Dashboard.Stats)
	api.GET("/nna", h.NNA.ListJSON)
	api.GET("/nna/:id/atenciones", h.NNA.Attentions)

	return nil
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
