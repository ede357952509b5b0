package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpctx "github.com/dtroode/codeauth-server/internal/api/http/context"
	"github.com/dtroode/codeauth-server/internal/api/http/handler"
	"github.com/dtroode/codeauth-server/internal/mocks"
	"github.com/dtroode/codeauth-server/internal/model"
	"github.com/dtroode/codeauth-server/internal/service"
	"github.com/dtroode/codeauth-server/internal/testutil"
	"github.com/dtroode/codeauth-server/internal/token"
)

// capturingDelivery records the last code handed to delivery.
type capturingDelivery struct {
	codes chan string
}

func (d *capturingDelivery) Enqueue(_, code string) error {
	d.codes <- code
	return nil
}

func newTestRouter(t *testing.T) (*echo.Echo, *capturingDelivery) {
	t.Helper()

	log := testutil.MakeNoopLogger()
	cache, _ := testutil.MakeRedisCache(t)
	store := testutil.NewMemoryUserStore()
	manager, err := token.NewJWT("secret", "HS256")
	require.NoError(t, err)

	delivery := &capturingDelivery{codes: make(chan string, 4)}
	auth := service.NewAuth(
		service.NewCodeService(cache, 5, 10*time.Minute, log),
		service.NewIdentityService(store, store, log),
		service.NewTokenService(manager, time.Hour, log),
		delivery,
		log,
	)

	pinger := mocks.NewPinger(t)
	pinger.On("Ping", mock.Anything).Return(nil).Maybe()

	r := New(auth, httpctx.NewManager(), map[string]model.Pinger{"redis": cache, "postgres": pinger}, log)
	return r.Register(), delivery
}

func serve(e *echo.Echo, method, path, body, bearer string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_LoginFlow(t *testing.T) {
	e, delivery := newTestRouter(t)

	rec := serve(e, http.MethodPost, "/api/v1/auth/login", `{"email":"User@Example.com"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	code := <-delivery.codes
	require.Len(t, code, 5)

	wrong := "00000"
	if code == wrong {
		wrong = "11111"
	}
	rec = serve(e, http.MethodPost, "/api/v1/auth/verify", `{"email":"user@example.com","code":"`+wrong+`"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(e, http.MethodPost, "/api/v1/auth/verify", `{"email":"user@example.com","code":"`+code+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tok handler.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	require.NotEmpty(t, tok.Token)

	rec = serve(e, http.MethodGet, "/api/v1/users/me", "", tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	var me handler.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "user@example.com", me.Email)
	assert.Equal(t, model.RoleClient, me.Role)

	rec = serve(e, http.MethodPost, "/api/v1/auth/verify", `{"email":"user@example.com","code":"`+code+`"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ProtectedRoutes(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := serve(e, http.MethodGet, "/api/v1/users/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(e, http.MethodGet, "/api/v1/users/me", "", "not.a.token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
}

func TestRouter_Operational(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := serve(e, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "codeauth_http_requests_total")

	rec = serve(e, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
