package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/aigymos/gym-console/errors"
	"github.com/aigymos/gym-console/internal/domain/entities"
	"github.com/aigymos/gym-console/pkg/jwt"
	"github.com/aigymos/gym-console/pkg/metrics"
)

const (
	// PrincipalContextKey is the echo context key for the authenticated principal
	PrincipalContextKey = "principal"
	// UserIDContextKey is the echo context key for the authenticated user id
	UserIDContextKey = "user_id"
)

// TokenValidator parses backend-issued access tokens
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// EchoAuth returns an Echo middleware that validates the bearer token and
// sets "principal" (entities.Principal) and "user_id" (uuid.UUID) into the
// Echo context. The raw token is kept so it can be forwarded to the backend.
func EchoAuth(validator TokenValidator, logger *zap.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				metrics.AuthAttempts.WithLabelValues("missing").Inc()
				return apperrors.ErrUnauthenticated()
			}

			claims, err := validator.ValidateAccessToken(token)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					metrics.AuthAttempts.WithLabelValues("expired").Inc()
					return apperrors.ErrTokenExpired()
				}
				metrics.AuthAttempts.WithLabelValues("invalid").Inc()
				logger.Debug("auth.token.rejected",
					zap.String("path", c.Path()),
					zap.Error(err),
				)
				return apperrors.ErrInvalidToken()
			}

			principal, err := principalFromClaims(claims, token)
			if err != nil {
				metrics.AuthAttempts.WithLabelValues("invalid").Inc()
				return apperrors.ErrInvalidToken()
			}

			metrics.AuthAttempts.WithLabelValues("success").Inc()
			c.Set(PrincipalContextKey, principal)
			c.Set(UserIDContextKey, principal.UserID)

			return next(c)
		}
	}
}

// RequireRole rejects principals whose role is not listed
func RequireRole(roles ...entities.UserRole) echo.MiddlewareFunc {
	return RequireRoleFunc(func(role entities.UserRole) bool {
		for _, allowed := range roles {
			if role == allowed {
				return true
			}
		}
		return false
	})
}

// RequireRoleFunc rejects principals whose role fails allowed, for example
// entities.UserRole.CanViewDashboards.
func RequireRoleFunc(allowed func(entities.UserRole) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := GetPrincipal(c)
			if !ok {
				return apperrors.ErrUnauthenticated()
			}
			if !allowed(principal.Role) {
				return apperrors.ErrPermissionDenied(c.Request().Method + " " + c.Path())
			}
			return next(c)
		}
	}
}

// GetPrincipal retrieves the principal set by EchoAuth
func GetPrincipal(c echo.Context) (entities.Principal, bool) {
	principal, ok := c.Get(PrincipalContextKey).(entities.Principal)
	return principal, ok
}

func principalFromClaims(claims *jwt.Claims, token string) (entities.Principal, error) {
	userID, err := claims.UserUUID()
	if err != nil {
		return entities.Principal{}, err
	}
	gymID, err := claims.GymUUID()
	if err != nil {
		return entities.Principal{}, err
	}
	role := entities.UserRole(claims.Role)
	if !role.IsValid() {
		return entities.Principal{}, entities.ErrInvalidRole
	}
	return entities.Principal{
		UserID: userID,
		GymID:  gymID,
		Role:   role,
		Token:  token,
	}, nil
}

// extractToken reads "Authorization: Bearer <token>", then the access_token
// cookie set by the web dashboard.
func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}

	return ""
}
