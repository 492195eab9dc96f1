package container

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"portfolio-http-service/config"
	"portfolio-http-service/services"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// 基础服务
	jwtService     services.InterfaceJWTService
	storageService services.InterfaceStorageService
	redisService   services.InterfaceRedisService
	emailService   services.InterfaceEmailService

	// 业务服务
	adminService   services.InterfaceAdminService
	projectService services.InterfaceProjectService
	messageService services.InterfaceMessageService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	// 测试Redis连接，不可用时降级为无缓存运行
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis连接测试失败: %v，将不使用Redis缓存", err)
			redisClient = nil
		}
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		redis:  redisClient,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.db, c.config)
	c.storageService = services.NewStorageService(c.config)

	if c.redis != nil {
		c.redisService = services.NewRedisServiceWithClient(c.redis)
	}
	if email := services.NewEmailService(c.config); email != nil {
		c.emailService = email
	}

	// 初始化业务服务
	c.adminService = services.NewAdminService(c.db, c.config)
	c.projectService = services.NewProjectService(c.db, c.config, c.storageService, c.redisService)
	c.messageService = services.NewMessageService(c.db, c.config, c.emailService)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "storage":
		return c.storageService
	case "redis":
		return c.redisService
	case "email":
		return c.emailService
	case "admin":
		return c.adminService
	case "project":
		return c.projectService
	case "message":
		return c.messageService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// GetConfig 获取配置
func (c *ServiceContainer) GetConfig() *config.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}
