// Package routers 组装 HTTP 路由与中间件链
package routers

import (
	"time"

	"github.com/haierkeys/media-share-backup-service/internal/app"
	"github.com/haierkeys/media-share-backup-service/internal/middleware"
	"github.com/haierkeys/media-share-backup-service/internal/routers/api_router"
	"github.com/haierkeys/media-share-backup-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// 子网扫描和连接测试都会触达网络，限制触发频率
var methodLimiters = limiter.NewMethodLimiter().AddBuckets(
	limiter.BucketRule{
		Key:          "/api/discovery",
		FillInterval: time.Second,
		Capacity:     2,
		Quantum:      2,
	},
	limiter.BucketRule{
		Key:          "/api/server/test",
		FillInterval: time.Second,
		Capacity:     5,
		Quantum:      5,
	},
)

// NewRouter 创建公共 API 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	// 获取配置
	cfg := appContainer.Config()

	r := gin.New()

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfoWithConfig(app.Name, appContainer.Version().Version))
		api.Use(gin.Logger())
		api.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
		api.Use(middleware.RateLimiter(methodLimiters))
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

		// 创建 Handlers（注入 App Container）
		planHandler := api_router.NewPlanHandler(appContainer)
		serverHandler := api_router.NewServerHandler(appContainer)
		runHandler := api_router.NewRunHandler(appContainer)
		discoveryHandler := api_router.NewDiscoveryHandler(appContainer)
		healthHandler := api_router.NewHealthHandler(appContainer)
		versionHandler := api_router.NewVersionHandler(appContainer)

		// 无需认证的系统接口
		api.GET("/version", versionHandler.ServerVersion)
		api.GET("/health", healthHandler.Check)

		// 业务接口，auth-token 为空时直接放行
		api.Use(middleware.SimpleAuthTokenWithConfig(cfg.Security.AuthToken, cfg.Security.AuthTokenHeader))

		api.GET("/plan", planHandler.Get)
		api.POST("/plan", planHandler.CreateOrUpdate)
		api.DELETE("/plan", planHandler.Delete)
		api.GET("/plans", planHandler.List)

		api.GET("/server", serverHandler.Get)
		api.POST("/server", serverHandler.CreateOrUpdate)
		api.DELETE("/server", serverHandler.Delete)
		api.GET("/servers", serverHandler.List)
		api.POST("/server/test", serverHandler.Test)

		api.POST("/run", runHandler.Execute)
		api.POST("/run/cancel", runHandler.Cancel)
		api.GET("/run", runHandler.Get)
		api.GET("/runs", runHandler.List)
		api.GET("/run/logs", runHandler.Logs)

		api.GET("/discovery", discoveryHandler.Discover)
	}

	r.Use(middleware.Cors())
	r.NoRoute(middleware.NoFound())

	return r
}
