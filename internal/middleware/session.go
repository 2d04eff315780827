package middleware

import (
	"co_attainment_backend/internal/util"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionKey = "session"

var sessionPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// SessionMiddleware 读取 X-Session-ID，缺失或非法时生成新的会话并回写响应头
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := c.GetHeader(util.SessionHeader)
		if !sessionPattern.MatchString(session) {
			session = uuid.NewString()
		}

		c.Set(sessionKey, session)
		c.Header(util.SessionHeader, session)
		c.Next()
	}
}

// GetSession 当前请求的会话 ID
func GetSession(c *gin.Context) string {
	return c.GetString(sessionKey)
}
