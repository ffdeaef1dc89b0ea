package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/charlotte58cafe/loyalty-be/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes customer tokens (issued by OTP verification) from
// staff tokens (issued by email/password login).
type TokenKind string

const (
	TokenCustomer TokenKind = "customer"
	TokenStaff    TokenKind = "staff"
)

type Claims struct {
	UserID      uint             `json:"user_id"`
	PhoneNumber string           `json:"phone_number,omitempty"`
	Kind        TokenKind        `json:"kind"`
	Role        models.StaffRole `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func parseToken(c *gin.Context) (*Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		c.Abort()
		return nil, false
	}

	tokenString := strings.Replace(authHeader, "Bearer ", "", 1)

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		c.Abort()
		return nil, false
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		c.Abort()
		return nil, false
	}
	return claims, true
}

// AuthMiddleware accepts any valid token and exposes its claims to handlers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseToken(c)
		if !ok {
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("phone_number", claims.PhoneNumber)
		c.Set("token_kind", claims.Kind)
		c.Set("staff_role", claims.Role)
		c.Next()
	}
}

// CustomerOnly gates customer-facing routes.
func CustomerOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, exists := c.Get("token_kind")
		if !exists || kind != TokenCustomer {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaffOnly allows staff and admin tokens.
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, exists := c.Get("token_kind")
		if !exists || kind != TokenStaff {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminOnly allows admin tokens only.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("staff_role")
		if !exists || role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}
