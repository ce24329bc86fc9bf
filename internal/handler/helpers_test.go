package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/tfos262/ott-backend/internal/middleware"
	"github.com/tfos262/ott-backend/internal/models"
	"github.com/tfos262/ott-backend/pkg/auth"
	"go.uber.org/zap"
)

var testIssuer = auth.NewTokenIssuer("testsecret", time.Hour)

type testServer struct {
	e     *echo.Echo
	api   *echo.Group
	authn echo.MiddlewareFunc
	admin echo.MiddlewareFunc
	anon  echo.MiddlewareFunc
}

func newTestServer() *testServer {
	e := echo.New()
	e.HTTPErrorHandler = middleware.NewErrorHandler(zap.NewNop())
	e.Validator = middleware.NewValidator()
	return &testServer{
		e:     e,
		api:   e.Group("/api"),
		authn: middleware.RequireAuth(testIssuer),
		admin: middleware.RequireAdmin(),
		anon:  middleware.OptionalAuth(testIssuer),
	}
}

func tokenFor(t *testing.T, p models.Principal) string {
	t.Helper()
	token, err := testIssuer.Issue(p)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, rec)["message"].(string)
}

var (
	customerPrincipal = models.Principal{CustomerID: 5, Email: "pat@example.com", Role: models.RoleCustomer}
	adminPrincipal    = models.Principal{CustomerID: 1, Email: "admin@example.com", Role: models.RoleAdmin, Permissions: []string{models.PermissionReport}}
)
