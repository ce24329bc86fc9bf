package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tfos262/ott-backend/internal/models"
	"github.com/tfos262/ott-backend/pkg/auth"
	"go.uber.org/zap"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewErrorHandler(zap.NewNop())
	e.Validator = NewValidator()
	return e
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["message"]
}

func protectedServer(issuer *auth.TokenIssuer, admin bool) *echo.Echo {
	e := newEcho()
	mws := []echo.MiddlewareFunc{RequireAuth(issuer)}
	if admin {
		mws = append(mws, RequireAdmin())
	}
	e.GET("/secret", func(c echo.Context) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return errors.New("no principal")
		}
		return c.JSON(http.StatusOK, p)
	}, mws...)
	return e
}

func TestRequireAuth_NoHeader(t *testing.T) {
	e := protectedServer(auth.NewTokenIssuer("testsecret", time.Hour), false)

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "No token provided", decodeMessage(t, rec))
}

func TestRequireAuth_SchemeWithoutToken(t *testing.T) {
	e := protectedServer(auth.NewTokenIssuer("testsecret", time.Hour), false)

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "No token provided", decodeMessage(t, rec))
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	e := protectedServer(auth.NewTokenIssuer("testsecret", time.Hour), false)

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer badtoken")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Failed to authenticate token", decodeMessage(t, rec))
}

func TestRequireAuth_ValidToken(t *testing.T) {
	issuer := auth.NewTokenIssuer("testsecret", time.Hour)
	token, err := issuer.Issue(models.Principal{CustomerID: 123, Email: "pat@example.com", Role: models.RoleCustomer})
	require.NoError(t, err)

	e := protectedServer(issuer, false)
	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var p models.Principal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, uint(123), p.CustomerID)
	assert.Equal(t, models.RoleCustomer, p.Role)
}

func TestRequireAdmin(t *testing.T) {
	issuer := auth.NewTokenIssuer("testsecret", time.Hour)
	e := protectedServer(issuer, true)

	customerToken, err := issuer.Issue(models.Principal{CustomerID: 2, Role: models.RoleCustomer})
	require.NoError(t, err)
	adminToken, err := issuer.Issue(models.PrincipalFromCustomer(&models.Customer{ID: 1, Admin: true}))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+customerToken)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Admins only", decodeMessage(t, rec))

	req = httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestErrorHandler(t *testing.T) {
	e := newEcho()
	e.GET("/http", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusConflict, "slot taken")
	})
	e.GET("/plain", func(c echo.Context) error {
		return errors.New("boom")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/http", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "slot taken", decodeMessage(t, rec))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "boom", decodeMessage(t, rec))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", decodeMessage(t, rec))
}

func TestValidator(t *testing.T) {
	type req struct {
		Email string `json:"email" validate:"required,email"`
		Count int    `json:"count" validate:"gt=0"`
	}
	v := NewValidator()

	assert.NoError(t, v.Validate(&req{Email: "a@example.com", Count: 1}))

	err := v.Validate(&req{Email: "nope", Count: 1})
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, "email is invalid (email)", he.Message)
}

func optionalServer(issuer *auth.TokenIssuer) *echo.Echo {
	e := newEcho()
	e.GET("/maybe", func(c echo.Context) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return c.JSON(http.StatusOK, map[string]any{"customer_id": 0})
		}
		return c.JSON(http.StatusOK, map[string]any{"customer_id": p.CustomerID})
	}, OptionalAuth(issuer))
	return e
}

func TestOptionalAuth(t *testing.T) {
	issuer := auth.NewTokenIssuer("testsecret", time.Hour)
	token, err := issuer.Issue(models.Principal{CustomerID: 9, Role: models.RoleCustomer})
	require.NoError(t, err)
	e := optionalServer(issuer)

	req := httptest.NewRequest(http.MethodGet, "/maybe", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"customer_id":0}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/maybe", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"customer_id":9}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/maybe", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer badtoken")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
