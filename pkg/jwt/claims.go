package jwt

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTypeAccess marks tokens that may call the API. Refresh tokens carry
// the same secret but a different type.
const TokenTypeAccess = "access"

// Claims represents the claims the gym backend puts in its tokens
type Claims struct {
	Role  string `json:"role"`
	GymID string `json:"gym_id"`
	Type  string `json:"type"`
	jwt.RegisteredClaims
}

// UserUUID parses the subject as a user id
func (c *Claims) UserUUID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user ID in token: %w", err)
	}
	return id, nil
}

// GymUUID parses the gym_id claim
func (c *Claims) GymUUID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.GymID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid gym ID in token: %w", err)
	}
	return id, nil
}
