package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"portfolio-http-service/config"
)

// projectListKey 公共项目列表的缓存键
const projectListKey = "projects:list"

// projectListTTL 列表缓存过期时间，任何项目变更都会主动清除
const projectListTTL = 5 * time.Minute

// InterfaceRedisService 定义缓存服务接口
type InterfaceRedisService interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	CacheProjectList(projects interface{}) error
	GetProjectList(dest interface{}) error
	InvalidateProjectList() error
}

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.GetRedisAddr(),
		DB:   cfg.RedisDB,
	})

	return NewRedisServiceWithClient(client)
}

// NewRedisServiceWithClient 复用已建立的Redis连接创建缓存服务
func NewRedisServiceWithClient(client *redis.Client) *RedisService {
	return &RedisService{
		Client: client,
		Ctx:    context.Background(),
	}
}

// Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

// CacheProjectList 缓存公共项目列表
func (s *RedisService) CacheProjectList(projects interface{}) error {
	return s.Set(projectListKey, projects, projectListTTL)
}

// GetProjectList 读取缓存的项目列表
func (s *RedisService) GetProjectList(dest interface{}) error {
	return s.Get(projectListKey, dest)
}

// InvalidateProjectList 清除项目列表缓存
func (s *RedisService) InvalidateProjectList() error {
	return s.Delete(projectListKey)
}
