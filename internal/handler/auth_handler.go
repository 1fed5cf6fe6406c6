package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"cmrpai/internal/auth"
	"cmrpai/internal/service"
	"cmrpai/internal/view"
)

const msgInvalidCredentials = "Usuario o contraseña inválidos"

// AuthHandler handles login and logout pages.
type AuthHandler struct {
	authService   service.AuthService
	secureCookies bool
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookies: secureCookies}
}

// LoginRequest represents the login form.
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return renderPage(c, http.StatusOK, view.PageLogin, "Ingresar", view.LoginData{
		Next: safeNext(c.QueryParam("next")),
	})
}

// Login authenticates the form credentials and opens a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Solicitud inválida")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Faltan campos obligatorios")
	}

	next := safeNext(c.QueryParam("next"))
	token, claims, _, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return renderPage(c, http.StatusOK, view.PageLogin, "Ingresar",
				view.LoginData{Username: req.Username, Next: next},
				view.Flash{Category: "danger", Message: msgInvalidCredentials})
		}
		return err
	}

	auth.SetSessionCookie(c, token, claims, h.secureCookies)
	if next == "" {
		next = "/"
	}
	return c.Redirect(http.StatusSeeOther, next)
}

// Logout ends the current session.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(auth.SessionCookie); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(c.Request().Context(), cookie.Value); err != nil && !errors.Is(err, service.ErrInvalidSession) {
			return err
		}
	}
	auth.ClearSessionCookie(c, h.secureCookies)
	addFlash(c, "info", "Sesión cerrada")
	return c.Redirect(http.StatusSeeOther, auth.LoginPath)
}

func safeNext(next string) string {
	if auth.SafeNext(next) {
		return next
	}
	return ""
}
