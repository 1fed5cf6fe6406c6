package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	// SessionCookie holds the signed session token.
	SessionCookie = "session"
	// LoginPath is where unauthenticated browsers are sent.
	LoginPath = "/login"

	claimsContextKey = "session_claims"
)

// Authenticator resolves a raw session token into claims.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Claims, error)
}

// RequireSession rejects requests without a valid session cookie. Browser requests are
// redirected to the login page, /api requests get 401. Authenticator failures other than
// ErrInvalidSession are server errors and keep the cookie.
func RequireSession(authn Authenticator) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsContextKey,
		TokenLookup: "cookie:" + SessionCookie,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return authn.Authenticate(c.Request().Context(), token)
		},
		SuccessHandler: func(c echo.Context) {
			claims, ok := c.Get(claimsContextKey).(*Claims)
			if !ok {
				return
			}
			id := claims.Identity()
			c.Set(IdentityContextKey, id)
			c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), id)))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var parseErr *echojwt.TokenParsingError
			if errors.As(err, &parseErr) && !errors.Is(err, ErrInvalidSession) {
				return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
			}
			if IsAPIRequest(c) {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if _, cookieErr := c.Cookie(SessionCookie); cookieErr == nil {
				ClearSessionCookie(c, false)
			}
			return c.Redirect(http.StatusFound, LoginRedirect(c.Request().URL.RequestURI()))
		},
	})
}

// IsAPIRequest reports whether the request targets the JSON API.
func IsAPIRequest(c echo.Context) bool {
	path := c.Request().URL.Path
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

// LoginRedirect builds the login URL remembering where the user was going.
func LoginRedirect(next string) string {
	if next == "" || next == "/" || !SafeNext(next) {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// SafeNext reports whether next is a local absolute path.
func SafeNext(next string) bool {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return false
	}
	return !strings.HasPrefix(next, LoginPath)
}

// SetSessionCookie stores the session token on the response.
func SetSessionCookie(c echo.Context, token string, claims *Claims, secure bool) {
	cookie := &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if claims != nil && claims.ExpiresAt != nil {
		cookie.Expires = claims.ExpiresAt.Time
	}
	c.SetCookie(cookie)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
