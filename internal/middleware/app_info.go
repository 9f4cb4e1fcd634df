package middleware

import (
	"github.com/haierkeys/media-share-backup-service/pkg/app"

	"github.com/gin-gonic/gin"
)

// AppInfoWithConfig creates app info middleware (using injected name and version)
// AppInfoWithConfig 创建应用信息中间件（使用注入的名称和版本号）
func AppInfoWithConfig(name string, version string) gin.HandlerFunc {

	return func(c *gin.Context) {
		c.Set("app_name", name)
		c.Set("app_version", version)
		c.Set("access_host", app.GetAccessHost(c))

		c.Next()
	}
}
