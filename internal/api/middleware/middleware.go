// Package middleware carries the gin middleware the stub server mounts:
// request logging and bearer-token auth.
package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/d60-Lab/doremi/pkg/response"
)

// AuthUserKey is the gin context key holding the authenticated user id.
const AuthUserKey = "auth_user"

// RequestLogger logs one line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

// RequireAuth validates the Authorization bearer token and stores the subject
// under AuthUserKey. Requests without a valid token get a 401.
func RequireAuth(secret string) gin.HandlerFunc {
	keyFunc := func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}
	return func(c *gin.Context) {
		raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if raw == "" {
			response.Unauthorized(c, "로그인이 필요합니다.")
			c.Abort()
			return
		}
		var claims jwt.RegisteredClaims
		if _, err := jwt.ParseWithClaims(raw, &claims, keyFunc); err != nil {
			response.Unauthorized(c, "유효하지 않은 토큰입니다.")
			c.Abort()
			return
		}
		c.Set(AuthUserKey, claims.Subject)
		c.Next()
	}
}
