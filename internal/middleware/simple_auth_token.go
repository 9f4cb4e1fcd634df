package middleware

import (
	"github.com/haierkeys/media-share-backup-service/pkg/app"
	"github.com/haierkeys/media-share-backup-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// SimpleAuthTokenWithConfig creates token auth middleware (using injected config)
// SimpleAuthTokenWithConfig 简单 Token 认证中间件（使用注入的配置）
// authToken 为空时跳过认证
func SimpleAuthTokenWithConfig(authToken string, headerName string) gin.HandlerFunc {
	return func(c *gin.Context) {

		if authToken == "" {
			c.Next()
			return
		}

		var token string

		if s := c.GetHeader(headerName); len(s) != 0 {
			token = s
		} else if s, exist := c.GetQuery("token"); exist {
			token = s
		}

		if token == "" {
			app.NewResponse(c).ToResponse(code.ErrorNotAuthToken)
			c.Abort()
			return
		}

		if token != authToken {
			app.NewResponse(c).ToResponse(code.ErrorInvalidAuthToken)
			c.Abort()
			return
		}

		c.Next()
	}
}
