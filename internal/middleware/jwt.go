package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/relieforg/reliefhub/internal/pkg/errcode"
	"github.com/relieforg/reliefhub/internal/pkg/jwt"
	"github.com/relieforg/reliefhub/internal/pkg/response"
)

const (
	ContextUserIDKey = "user_id"
	ContextRoleKey   = "user_role"
	ContextEmailKey  = "user_email"
	ContextNameKey   = "user_name"

	// RefreshedTokenHeader carries the re-issued token that implements
	// sliding expiration: once a token is past half its lifetime, a
	// fresh one rides back on the response.
	RefreshedTokenHeader = "X-Refreshed-Token"
)

func JWTAuth(secret []byte, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, errcode.ErrUnauthorized, "missing authorization")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, errcode.ErrUnauthorized, "invalid authorization")
			c.Abort()
			return
		}
		claims, err := jwt.ParseToken(parts[1], secret)
		if err != nil {
			response.Error(c, errcode.ErrUnauthorized, "invalid token")
			c.Abort()
			return
		}
		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleKey, claims.Role)
		c.Set(ContextEmailKey, claims.Email)
		c.Set(ContextNameKey, claims.FullName)

		if claims.ExpiresAt != nil && time.Until(claims.ExpiresAt.Time) < ttl/2 {
			if refreshed, err := jwt.GenerateToken(claims.UserID, claims.FullName, claims.Email, claims.Role, secret, ttl); err == nil {
				c.Header(RefreshedTokenHeader, refreshed)
			}
		}
		c.Next()
	}
}
