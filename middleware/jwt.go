package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"portfolio-http-service/config"
	"portfolio-http-service/internal/error/code"
	"portfolio-http-service/internal/error/response"
	"portfolio-http-service/services"
)

// SessionCookieName 会话令牌所在的cookie名
const SessionCookieName = "jwt"

var jwtService services.InterfaceJWTService

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config, db *gorm.DB) {
	jwtService = services.NewJWTService(db, cfg)
}

// RequireAdmin 会话守卫：从cookie中提取会话令牌并验证。
// 验证失败时直接返回401并中止，下游处理器不会被调用。
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookieName)
		if err != nil || tokenString == "" {
			response.Fail(c, code.ErrUnauthenticated)
			c.Abort()
			return
		}

		admin, err := jwtService.ValidateSession(tokenString)
		if err != nil {
			if errors.Is(err, services.ErrAccountNotFound) {
				response.Fail(c, code.ErrAccountNotFound)
			} else {
				response.Fail(c, code.ErrUnauthenticated)
			}
			c.Abort()
			return
		}

		// 将解析出的管理员身份交给下游使用
		c.Set("adminID", admin.ID)
		c.Set("admin", admin)
		c.Next()
	}
}
