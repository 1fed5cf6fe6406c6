package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator struct {
	claims *Claims
	err    error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.claims == nil || token != "good" {
		return nil, ErrInvalidSession
	}
	return f.claims, nil
}

func newProtectedEcho(authn Authenticator, reached *bool) *echo.Echo {
	e := echo.New()
	g := e.Group("", RequireSession(authn))
	handler := func(c echo.Context) error {
		*reached = true
		id, ok := CurrentIdentity(c)
		if !ok {
			return c.String(http.StatusInternalServerError, "no identity")
		}
		ctxID, ok := IdentityFromContext(c.Request().Context())
		if !ok || ctxID != id {
			return c.String(http.StatusInternalServerError, "identity missing from request context")
		}
		return c.String(http.StatusOK, id.Username)
	}
	g.GET("/", handler)
	g.GET("/nna", handler)
	g.GET("/api/nna", handler)
	return e
}

func TestRequireSession_RedirectsWithoutCookie(t *testing.T) {
	reached := false
	e := newProtectedEcho(&fakeAuthenticator{}, &reached)

	for path, want := range map[string]string{
		"/":    "/login",
		"/nna": "/login?next=%2Fnna",
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, want, rec.Header().Get(echo.HeaderLocation), path)
	}
	assert.False(t, reached)
}

func TestRequireSession_InvalidCookieIsClearedAndRedirected(t *testing.T) {
	reached := false
	e := newProtectedEcho(&fakeAuthenticator{}, &reached)

	req := httptest.NewRequest(http.MethodGet, "/nna", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "forged"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), SessionCookie+"=;")
	assert.False(t, reached)
}

func TestRequireSession_APIGetsUnauthorized(t *testing.T) {
	reached := false
	e := newProtectedEcho(&fakeAuthenticator{}, &reached)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nna", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestRequireSession_StoreFailureIsServerError(t *testing.T) {
	for _, path := range []string{"/nna", "/api/nna"} {
		reached := false
		e := newProtectedEcho(&fakeAuthenticator{err: fmt.Errorf("load session user: %w", errors.New("db down"))}, &reached)

		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		assert.Empty(t, rec.Header().Get(echo.HeaderLocation), path)
		assert.Empty(t, rec.Header().Get("Set-Cookie"), path)
		assert.False(t, reached, path)
	}
}

func TestRequireSession_WrappedInvalidSessionRedirects(t *testing.T) {
	reached := false
	e := newProtectedEcho(&fakeAuthenticator{err: fmt.Errorf("check: %w", ErrInvalidSession)}, &reached)

	req := httptest.NewRequest(http.MethodGet, "/nna", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?next=%2Fnna", rec.Header().Get(echo.HeaderLocation))
}

func TestRequireSession_ValidCookieReachesHandler(t *testing.T) {
	reached := false
	claims := &Claims{UserID: 3, Username: "admin"}
	claims.ID = "sid"
	e := newProtectedEcho(&fakeAuthenticator{claims: claims}, &reached)

	req := httptest.NewRequest(http.MethodGet, "/nna", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", rec.Body.String())
	assert.True(t, reached)
}

func TestSafeNext(t *testing.T) {
	assert.True(t, SafeNext("/nna"))
	assert.True(t, SafeNext("/nna/nuevo?x=1"))
	assert.False(t, SafeNext("https://evil.example"))
	assert.False(t, SafeNext("//evil.example"))
	assert.False(t, SafeNext("/\\evil.example"))
	assert.False(t, SafeNext("/login"))
	assert.False(t, SafeNext(""))

	assert.Equal(t, "/login", LoginRedirect("/"))
	assert.Equal(t, "/login", LoginRedirect("//evil"))
	assert.Equal(t, "/login?next=%2Fnna%2Fnuevo", LoginRedirect("/nna/nuevo"))
}
