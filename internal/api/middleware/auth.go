package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/bookmarks/pkg/auth"
	"github.com/d60-Lab/bookmarks/pkg/response"
)

const userIDKey = "auth.user_id"

// Auth 校验 Bearer 令牌并把用户 id 放入上下文
func Auth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			response.Unauthorized(c, "missing bearer token")
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			return
		}
		c.Set(userIDKey, claims.Subject)
		c.Next()
	}
}

// UserID 返回已认证用户 id；未经过 Auth 时为空
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
