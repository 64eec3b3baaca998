package middleware

import (
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/aigymos/gym-console/errors"
	"github.com/aigymos/gym-console/internal/domain/entities"
	"github.com/aigymos/gym-console/pkg/jwt"
)

func newContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func appCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	var appErr apperrors.AppError
	require.True(t, stdErrors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestEchoAuth(t *testing.T) {
	manager := jwt.NewManager("secret", time.Minute, "")
	userID, gymID := uuid.New(), uuid.New()
	valid, err := manager.GenerateAccessToken(userID, gymID, "manager")
	require.NoError(t, err)
	badRole, err := manager.GenerateAccessToken(userID, gymID, "janitor")
	require.NoError(t, err)

	mw := EchoAuth(manager, zap.NewNop())

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/tasks/board", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+valid)
		c, _ := newContext(req)

		var got entities.Principal
		err := mw(func(c echo.Context) error {
			var ok bool
			got, ok = GetPrincipal(c)
			require.True(t, ok)
			return nil
		})(c)
		require.NoError(t, err)

		assert.Equal(t, entities.Principal{UserID: userID, GymID: gymID, Role: entities.RoleManager, Token: valid}, got)
		assert.Equal(t, userID, c.Get(UserIDContextKey))
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: valid})
		c, _ := newContext(req)

		called := false
		err := mw(func(echo.Context) error { called = true; return nil })(c)
		require.NoError(t, err)
		assert.True(t, called)
	})

	tests := []struct {
		name   string
		header string
		code   apperrors.ErrorCode
	}{
		{"missing", "", apperrors.ErrorCode_UNAUTHENTICATED},
		{"wrong scheme", "Basic " + valid, apperrors.ErrorCode_UNAUTHENTICATED},
		{"garbage", "Bearer nope", apperrors.ErrorCode_AUTH_INVALID_TOKEN},
		{"unknown role", "Bearer " + badRole, apperrors.ErrorCode_AUTH_INVALID_TOKEN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			c, _ := newContext(req)

			err := mw(func(echo.Context) error {
				t.Fatal("next must not run")
				return nil
			})(c)
			assert.Equal(t, tt.code, appCode(t, err))
		})
	}
}

func TestEchoAuthExpired(t *testing.T) {
	manager := jwt.NewManager("secret", time.Minute, "")
	claims := jwt.Claims{
		Role:  "owner",
		GymID: uuid.NewString(),
		Type:  jwt.TokenTypeAccess,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	c, _ := newContext(req)

	err = EchoAuth(manager, nil)(func(echo.Context) error { return nil })(c)
	assert.Equal(t, apperrors.ErrorCode_AUTH_TOKEN_EXPIRED, appCode(t, err))
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole(entities.RoleOwner, entities.RoleManager)
	next := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

	c, rec := newContext(httptest.NewRequest(http.MethodGet, "/", nil))
	c.Set(PrincipalContextKey, entities.Principal{Role: entities.RoleOwner})
	require.NoError(t, mw(next)(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, _ = newContext(httptest.NewRequest(http.MethodGet, "/", nil))
	c.Set(PrincipalContextKey, entities.Principal{Role: entities.RoleReceptionist})
	assert.Equal(t, apperrors.ErrorCode_PERMISSION_DENIED, appCode(t, mw(next)(c)))

	c, _ = newContext(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, apperrors.ErrorCode_UNAUTHENTICATED, appCode(t, mw(next)(c)))
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c)+"|"+c.Request().Header.Get(echo.HeaderXRequestID))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(echo.HeaderXRequestID)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated+"|"+generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, "abc-123|abc-123", rec.Body.String())
}

func TestRequireRoleFuncDashboards(t *testing.T) {
	mw := RequireRoleFunc(entities.UserRole.CanViewDashboards)
	next := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

	tests := []struct {
		role    entities.UserRole
		allowed bool
	}{
		{entities.RoleOwner, true},
		{entities.RoleManager, true},
		{entities.RoleSalesperson, false},
		{entities.RoleReceptionist, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			c, rec := newContext(httptest.NewRequest(http.MethodGet, "/", nil))
			c.Set(PrincipalContextKey, entities.Principal{Role: tt.role})

			err := mw(next)(c)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, http.StatusNoContent, rec.Code)
				return
			}
			assert.Equal(t, apperrors.ErrorCode_PERMISSION_DENIED, appCode(t, err))
		})
	}
}
