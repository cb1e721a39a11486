package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"integrador-service/internal/adapter/cache"
	"integrador-service/internal/adapter/db/postgres"
	"integrador-service/internal/adapter/gin/handler"
	"integrador-service/internal/adapter/gin/middleware"
	"integrador-service/internal/adapter/repository/cached"
	"integrador-service/internal/usecase/intake"
	"integrador-service/internal/usecase/user"
	"integrador-service/pkg/security"
)

type testApp struct {
	router http.Handler
	db     *gorm.DB
}

type options struct {
	redis  *redis.Client
	health Pinger
}

func newTestApp(t testing.TB, opts options) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zaptest.NewLogger(t, zaptest.Level(zap.ErrorLevel))

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, postgres.AutoMigrate(context.Background(), db))

	var users user.Repository = postgres.NewUserRepoPG(db, log)
	var limiter *middleware.RateLimiter
	if opts.redis != nil {
		users = cached.NewUserRepository(users, cache.NewRedisUserCache(opts.redis, time.Minute, log), log)
		limiter = middleware.NewRateLimiter(opts.redis, middleware.RateLimiterConfig{RequestsPerSecond: 100, BurstCapacity: 100}, log)
	}

	userUC := user.New(users, postgres.NewRoleRepoPG(db, log), security.NewBcryptHasher(bcrypt.MinCost), log)
	intakeUC := intake.New(
		postgres.NewClientRepoPG(db, log),
		postgres.NewServiceRequestRepoPG(db, log),
		postgres.NewQuoteRepoPG(db, log),
		log,
	)

	r := SetupRouter(Config{
		UserHandler:    handler.NewUserHandler(userUC, log),
		IntakeHandler:  handler.NewIntakeHandler(intakeUC, log),
		RateLimiter:    limiter,
		Health:         opts.health,
		SwaggerEnabled: true,
		Logger:         log,
	})
	return &testApp{router: r, db: db}
}

func (a *testApp) call(t testing.TB, method, path, body string) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(w.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func (a *testApp) callList(t *testing.T, path string) []map[string]any {
	t.Helper()
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (a *testApp) seedRoles(t testing.TB) {
	t.Helper()
	for _, body := range []string{`{"id_rol":1,"nombre_rol":"admin"}`, `{"id_rol":2,"nombre_rol":"operador"}`} {
		code, _ := a.call(t, http.MethodPost, "/v1/roles", body)
		require.Equal(t, http.StatusCreated, code)
	}
}

func usuario(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	u, ok := body["usuario"].(map[string]any)
	require.True(t, ok, "missing usuario in %v", body)
	return u
}

const anaRegister = `{"nombres":"Ana Ruiz","correo_corp":"ana@corp.com","password":"secret1","id_rol":2}`

func TestUserFlow(t *testing.T) {
	app := newTestApp(t, options{})
	app.seedRoles(t)

	code, body := app.call(t, http.MethodPost, "/v1/users/register", anaRegister)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Ana Ruiz", usuario(t, body)["nombres"])
	id := int64(usuario(t, body)["id_usuario"].(float64))
	assert.Positive(t, id)

	code, body = app.call(t, http.MethodPost, "/v1/users/login", `{"correo_corp":"ana@corp.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "unauthorized", body["error"])

	code, body = app.call(t, http.MethodPost, "/v1/users/login", `{"correo_corp":"ana@corp.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), usuario(t, body)["id_rol"])
	assert.Equal(t, "ana@corp.com", usuario(t, body)["correo_corp"])

	code, body = app.call(t, http.MethodPost, "/v1/users/login", `{"correo_corp":"nadie@corp.com","password":"secret1"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, user.MsgUserNotFound, body["mensaje"])

	t.Run("duplicate email conflicts", func(t *testing.T) {
		code, body := app.call(t, http.MethodPost, "/v1/users/register", anaRegister)
		assert.Equal(t, http.StatusConflict, code)
		assert.Equal(t, "conflict", body["error"])
	})

	t.Run("blank name is rejected before anything else", func(t *testing.T) {
		code, body := app.call(t, http.MethodPost, "/v1/users/register", `{"nombres":"   ","correo_corp":"bad","id_rol":2}`)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, user.MsgNameRequired, body["mensaje"])

		for _, raw := range []string{`{"nombres":"  ","id_rol":900}`, `{"nombres":"  ","id_rol":"dos"}`} {
			code, body = app.call(t, http.MethodPost, "/v1/users/register", raw)
			assert.Equal(t, http.StatusBadRequest, code, raw)
			assert.Equal(t, user.MsgNameRequired, body["mensaje"], raw)
		}
	})

	t.Run("role outside the catalog range", func(t *testing.T) {
		code, body := app.call(t, http.MethodPost, "/v1/users/register", `{"nombres":"Luis Paz","correo_corp":"luis@corp.com","password":"secret1","id_rol":900}`)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, user.MsgRoleNotFound, body["mensaje"])
	})

	t.Run("list hides the password hash", func(t *testing.T) {
		list := app.callList(t, "/v1/users")
		require.Len(t, list, 1)
		assert.NotContains(t, list[0], "password_hash")
		assert.NotContains(t, list[0], "password")
		assert.Equal(t, true, list[0]["activo"])
	})

	t.Run("update applies explicit false and keeps the rest", func(t *testing.T) {
		code, body := app.call(t, http.MethodPut, "/v1/users/1", `{"activo":false,"nombres":""}`)
		require.Equal(t, http.StatusOK, code)
		u := usuario(t, body)
		assert.Equal(t, false, u["activo"])
		assert.Equal(t, "Ana Ruiz", u["nombres"])

		// the stored credential survives a profile update
		code, _ = app.call(t, http.MethodPost, "/v1/users/login", `{"correo_corp":"ana@corp.com","password":"secret1"}`)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("delete twice", func(t *testing.T) {
		code, _ := app.call(t, http.MethodDelete, "/v1/users/1", "")
		assert.Equal(t, http.StatusOK, code)

		code, body := app.call(t, http.MethodDelete, "/v1/users/1", "")
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "not_found", body["error"])

		code, _ = app.call(t, http.MethodGet, "/v1/users/1", "")
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("invalid id", func(t *testing.T) {
		code, body := app.call(t, http.MethodGet, "/v1/users/abc", "")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, handler.CodeInvalidID, body["error"])
	})

	t.Run("role given as a numeric string", func(t *testing.T) {
		code, body := app.call(t, http.MethodPost, "/v1/users/register", `{"nombres":"Luis Paz","correo_corp":"luis@corp.com","password":"secret1","id_rol":"1"}`)
		require.Equal(t, http.StatusCreated, code)
		id := int64(usuario(t, body)["id_usuario"].(float64))

		code, body = app.call(t, http.MethodGet, fmt.Sprintf("/v1/users/%d", id), "")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, float64(1), body["id_rol"])
	})
}

func TestIntakeFlow(t *testing.T) {
	app := newTestApp(t, options{})

	code, body := app.call(t, http.MethodPost, "/v1/clients", `{"nombre":"Ferretería Lima","correo":"ventas@ferrelima.pe","telefono":"014445566"}`)
	require.Equal(t, http.StatusCreated, code)
	clientID := int64(body["id_cliente"].(float64))

	code, _ = app.call(t, http.MethodPost, "/v1/clients", `{"nombre":"Otro","correo":"ventas@ferrelima.pe"}`)
	assert.Equal(t, http.StatusConflict, code)

	assert.Len(t, app.callList(t, "/v1/clients?query=ferre"), 1)
	assert.Empty(t, app.callList(t, "/v1/clients?query=50%25"))

	code, _ = app.call(t, http.MethodPost, "/v1/clients", `{"nombre":"Select Ltda","correo":"compras@select.pe"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Len(t, app.callList(t, "/v1/clients?query=Select%20Ltda"), 1)
	code, _ = app.call(t, http.MethodGet, "/v1/clients?query=select--", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = app.call(t, http.MethodPost, "/v1/requests", `{"id_cliente":1,"descripcion":"Instalación de cableado"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "pendiente", body["estado"])
	assert.Equal(t, "Web Contacto", body["canal_ingreso"])
	assert.Equal(t, float64(clientID), body["id_cliente"])

	code, _ = app.call(t, http.MethodPost, "/v1/requests", `{"id_cliente":99,"descripcion":"x"}`)
	assert.Equal(t, http.StatusNotFound, code)

	assert.Len(t, app.callList(t, "/v1/clients/1/requests"), 1)

	code, _ = app.call(t, http.MethodPatch, "/v1/requests/1/status", `{"estado":"cerrado"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = app.call(t, http.MethodPatch, "/v1/requests/1/status", `{"estado":"procede"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "procede", body["estado"])

	code, _ = app.call(t, http.MethodPost, "/v1/requests/1/quote", `{"monto_estimado":-1}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = app.call(t, http.MethodPost, "/v1/requests/1/quote", `{"monto_estimado":"1500.50","parametros_resumen":{"puntos":12}}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "1500.5", body["monto_estimado"])

	code, _ = app.call(t, http.MethodPost, "/v1/requests/1/quote", `{"monto_estimado":10}`)
	assert.Equal(t, http.StatusConflict, code)

	code, body = app.call(t, http.MethodGet, "/v1/requests/1/quote", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"puntos": float64(12)}, body["parametros_resumen"])

	code, _ = app.call(t, http.MethodDelete, "/v1/clients/1", "")
	assert.Equal(t, http.StatusConflict, code)
}

func TestCachedUsersAndRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	app := newTestApp(t, options{redis: rdb})
	app.seedRoles(t)

	code, _ := app.call(t, http.MethodPost, "/v1/users/register", anaRegister)
	require.Equal(t, http.StatusCreated, code)

	code, body := app.call(t, http.MethodGet, "/v1/users/1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Ana Ruiz", body["nombres"])
	assert.True(t, mr.Exists("usuario:1"))

	code, _ = app.call(t, http.MethodPut, "/v1/users/1", `{"nombres":"Ana María Ruiz"}`)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, mr.Exists("usuario:1"))

	_, body = app.call(t, http.MethodGet, "/v1/users/1", "")
	assert.Equal(t, "Ana María Ruiz", body["nombres"])

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/roles", nil))
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		app := newTestApp(t, options{health: func(context.Context) error { return nil }})

		code, body := app.call(t, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, ServiceName, body["service"])
	})

	t.Run("database down", func(t *testing.T) {
		app := newTestApp(t, options{health: func(context.Context) error { return errors.New("connection refused") }})

		code, body := app.call(t, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", body["status"])
	})
}

func TestOpenAPIDocument(t *testing.T) {
	app := newTestApp(t, options{})

	code, body := app.call(t, http.MethodGet, "/openapi.json", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "3.0.3", body["openapi"])
	assert.Contains(t, body["paths"], "/v1/users/register")
}
