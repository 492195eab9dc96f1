package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"portfolio-http-service/config"
	"portfolio-http-service/controllers"
	_ "portfolio-http-service/docs"
	"portfolio-http-service/middleware"
	"portfolio-http-service/services/container"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件，前端携带cookie访问需要credentials支持
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Cache-Control", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// 请求指标采集，由配置开关控制
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// 创建Redis客户端，容器内会做连通性检测，不可用时降级为无缓存运行
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.GetRedisAddr(),
		DB:   cfg.RedisDB,
	})

	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg, redisClient)
	// 初始化认证中间件
	middleware.InitAuthMiddleware(cfg, db)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 本地存储模式下静态提供上传的文件
	if cfg.StorageProvider != "s3" {
		r.Static("/uploads", cfg.StorageLocalDir)
	}

	// 注册路由
	registerRoutes(r, serviceContainer)
	return r
}

// SetupRouterWithContainer 使用既有服务容器初始化路由，测试用
func SetupRouterWithContainer(serviceContainer *container.ServiceContainer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	middleware.InitAuthMiddleware(serviceContainer.GetConfig(), serviceContainer.GetDB())
	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// API 路由根路径，整体按IP限流
	api := r.Group("/api")
	api.Use(middleware.RateLimitByIP(10, 100))

	// 注册公共路由
	registerPublicRoutes(api, container)
	// 注册需要认证的路由
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 健康检查
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// 认证路由
	api.POST("/auth/login", controllers.HandleJWTFunc(container, "login"))

	// 公开的项目查询路由
	api.GET("/projects", controllers.HandleProjectFunc(container, "getProjects"))
	api.GET("/projects/:id", controllers.HandleProjectFunc(container, "getProject"))

	// 访客提交联系消息
	api.POST("/messages", controllers.HandleMessageFunc(container, "createMessage"))
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 添加会话守卫
	auth := api.Group("/")
	auth.Use(middleware.RequireAdmin())

	// 会话路由
	auth.POST("/auth/logout", controllers.HandleJWTFunc(container, "logout"))
	auth.GET("/auth/profile", controllers.HandleJWTFunc(container, "profile"))

	// 项目管理路由
	auth.POST("/projects", controllers.HandleProjectFunc(container, "createProject"))
	auth.PUT("/projects/:id", controllers.HandleProjectFunc(container, "updateProject"))
	auth.DELETE("/projects/:id", controllers.HandleProjectFunc(container, "deleteProject"))

	// 消息收件箱路由
	auth.GET("/messages", controllers.HandleMessageFunc(container, "getMessages"))
	auth.PUT("/messages/:id/read", controllers.HandleMessageFunc(container, "markAsRead"))
	auth.DELETE("/messages/:id", controllers.HandleMessageFunc(container, "deleteMessage"))
}
