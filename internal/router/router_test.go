package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cmrpai/internal/auth"
	"cmrpai/internal/cache"
	"cmrpai/internal/db/dbtest"
	"cmrpai/internal/handler"
	"cmrpai/internal/model"
	"cmrpai/internal/repository"
	"cmrpai/internal/router"
	"cmrpai/internal/service"
)

type testApp struct {
	e       *echo.Echo
	nnaRepo repository.NNARepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	gormDB := dbtest.New(t)
	mr := miniredis.RunT(t)
	cacheClient := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = cacheClient.Close() })

	userRepo := repository.NewUserRepository(gormDB)
	nnaRepo := repository.NewNNARepository(gormDB)
	attentionRepo := repository.NewAttentionRepository(gormDB)

	sessions := auth.NewSessionService("test-secret", time.Hour)
	authService := service.NewAuthService(userRepo, sessions, auth.NewTokenStore(cacheClient), zap.NewNop())
	_, err := authService.BootstrapAdmin(context.Background(), "admin", "x")
	require.NoError(t, err)

	e := echo.New()
	require.NoError(t, router.Register(e, zap.NewNop(), authService, router.Handlers{
		Auth:      handler.NewAuthHandler(authService, false),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(nnaRepo, attentionRepo, cacheClient, time.Now)),
		NNA:       handler.NewNNAHandler(service.NewNNAService(nnaRepo, attentionRepo, cacheClient)),
	}))

	return &testApp{e: e, nnaRepo: nnaRepo}
}

func (a *testApp) do(method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := a.do(http.MethodPost, "/login", url.Values{"username": {"admin"}, "password": {"x"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	c := responseCookie(rec, auth.SessionCookie)
	require.NotNil(t, c)
	return c
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestProtectedPages_RedirectToLogin(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		path     string
		location string
	}{
		{"/", "/login"},
		{"/nna", "/login?next=%2Fnna"},
		{"/nna/nuevo", "/login?next=%2Fnna%2Fnuevo"},
		{"/logout", "/login?next=%2Flogout"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := app.do(http.MethodGet, tt.path, nil)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get(echo.HeaderLocation))
		})
	}
}

func TestAPI_RequiresSession(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/api/nna", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/login", url.Values{"username": {"admin"}, "password": {"wrong"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Usuario o contraseña inválidos")
	assert.Nil(t, responseCookie(rec, auth.SessionCookie))
}

func TestLogin_MissingField(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/login", url.Values{"username": {"admin"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_RedirectsToNext(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/login?next=%2Fnna", url.Values{"username": {"admin"}, "password": {"x"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/nna", rec.Header().Get(echo.HeaderLocation))

	rec = app.do(http.MethodPost, "/login?next=%2F%2Fevil.example", url.Values{"username": {"admin"}, "password": {"x"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
}

func TestDashboard_AfterLogin(t *testing.T) {
	app := newTestApp(t)
	session := app.login(t)

	rec := app.do(http.MethodGet, "/", nil, session)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="kpi-active">0<`)
	assert.Contains(t, rec.Body.String(), "admin")
}

func TestCreateNNA_ListedFirst(t *testing.T) {
	app := newTestApp(t)
	session := app.login(t)

	older := &model.NNA{Name: "Luis Díaz", IntakeDate: model.Day(time.Now().AddDate(0, -2, 0))}
	require.NoError(t, app.nnaRepo.Create(context.Background(), older))

	rec := app.do(http.MethodPost, "/nna/nuevo", url.Values{"nombre": {"Ana Pérez"}, "rut": {"12.345.678-5"}}, session)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/nna", rec.Header().Get(echo.HeaderLocation))
	flash := responseCookie(rec, "flash")
	require.NotNil(t, flash)

	rec = app.do(http.MethodGet, "/nna", nil, session, flash)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "NNA registrado")
	ana := strings.Index(body, "Ana Pérez")
	luis := strings.Index(body, "Luis Díaz")
	require.NotEqual(t, -1, ana)
	require.NotEqual(t, -1, luis)
	assert.Less(t, ana, luis)

	rec = app.do(http.MethodGet, "/api/dashboard", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats service.DashboardStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.ActiveMinors)
	assert.Len(t, stats.Series.Labels, service.SeriesLength)
}

func TestCreateNNA_MissingName(t *testing.T) {
	app := newTestApp(t)
	session := app.login(t)

	rec := app.do(http.MethodPost, "/nna/nuevo", url.Values{"rut": {"1-9"}}, session)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	list, err := app.nnaRepo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateNNA_BlankName(t *testing.T) {
	app := newTestApp(t)
	session := app.login(t)

	for _, name := range []string{"  ", "\t"} {
		rec := app.do(http.MethodPost, "/nna/nuevo", url.Values{"nombre": {name}, "rut": {"1-9"}}, session)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Faltan campos obligatorios")
	}

	list, err := app.nnaRepo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAPI_Attentions(t *testing.T) {
	app := newTestApp(t)
	session := app.login(t)

	rec := app.do(http.MethodGet, "/api/nna/999/atenciones", nil, session)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NNA_NOT_FOUND")

	rec = app.do(http.MethodGet, "/api/nna/abc/atenciones", nil, session)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_ID")

	nna := &model.NNA{Name: "Ana Pérez"}
	require.NoError(t, app.nnaRepo.Create(context.Background(), nna))
	rec = app.do(http.MethodGet, "/api/nna/"+strconv.FormatUint(uint64(nna.ID), 10)+"/atenciones", nil, session)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestLogout_RevokesSession(t *testing.T) {
	app := newTestApp(t)
	session := app.login(t)

	rec := app.do(http.MethodGet, "/logout", nil, session)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	cleared := responseCookie(rec, auth.SessionCookie)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	rec = app.do(http.MethodGet, "/", nil, session)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	rec = app.do(http.MethodGet, "/api/dashboard", nil, session)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
