// Package auth provides JWT bearer-token middleware. Tokens are issued
// by the club identity service; this package only verifies them and
// exposes the caller's identity and role to the handlers.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clubsuite/elections-api/internal/response"
)

const (
	// ContextUserID is the gin context key holding the caller's user ID
	ContextUserID = "auth_user_id"
	// ContextRole is the gin context key holding the caller's role
	ContextRole = "auth_role"

	// RoleAdmin marks club administrators
	RoleAdmin = "admin"
	// RoleMember marks regular club members
	RoleMember = "member"
)

// Claims is the token payload issued by the identity service
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Middleware verifies bearer tokens and injects identity into the context
type Middleware struct {
	secret []byte
}

// New creates the middleware with the shared HS256 signing secret
func New(secret string) *Middleware {
	return &Middleware{secret: []byte(secret)}
}

// Authenticate rejects requests without a valid bearer token
func (m *Middleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.parseRequest(c)
		if err != nil {
			response.UnauthorizedError(c, "Invalid or missing authentication token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role does not match
func (m *Middleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != role {
			response.ForbiddenError(c, "Insufficient permissions for this operation")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *Middleware) parseRequest(c *gin.Context) (*Claims, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, errors.New("missing authorization header")
	}

	tokenString, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return nil, errors.New("authorization header is not a bearer token")
	}

	return m.Parse(tokenString)
}

// Parse verifies a raw token string and returns its claims
func (m *Middleware) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, fmt.Errorf("token carries an invalid user id: %w", err)
	}

	return claims, nil
}

// UserID extracts the authenticated caller's ID from the gin context
func UserID(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetString(ContextUserID)
	if raw == "" {
		return uuid.Nil, errors.New("no authenticated user in context")
	}
	return uuid.Parse(raw)
}
