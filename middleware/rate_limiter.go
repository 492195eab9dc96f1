package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-http-service/internal/error/code"
	"portfolio-http-service/internal/error/response"
)

// 简单的令牌桶限流器
type TokenBucket struct {
	rate       float64 // 每秒填充的令牌数
	capacity   int     // 桶的容量
	tokens     float64 // 当前令牌数
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket 创建新的令牌桶限流器
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	return &TokenBucket{
		rate:       rate,
		capacity:   capacity,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// Allow 尝试获取令牌
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.lastRefill = now

	// 填充令牌
	tb.tokens += elapsed * tb.rate
	if tb.tokens > float64(tb.capacity) {
		tb.tokens = float64(tb.capacity)
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// ipRateLimiter 按客户端IP维护独立的令牌桶
type ipRateLimiter struct {
	rate     float64
	burst    int
	buckets  map[string]*TokenBucket
	lastSeen map[string]time.Time
	mu       sync.Mutex
}

// 清理超过一小时未活动的IP，防止map无限增长
const limiterExpiry = 1 * time.Hour

func (l *ipRateLimiter) get(ip string) *TokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if len(l.buckets) > 1000 {
		for key, seen := range l.lastSeen {
			if now.Sub(seen) > limiterExpiry {
				delete(l.buckets, key)
				delete(l.lastSeen, key)
			}
		}
	}

	bucket, ok := l.buckets[ip]
	if !ok {
		bucket = NewTokenBucket(l.rate, l.burst)
		l.buckets[ip] = bucket
	}
	l.lastSeen[ip] = now
	return bucket
}

// RateLimitByIP 按客户端IP限流
func RateLimitByIP(rate float64, burst int) gin.HandlerFunc {
	limiter := &ipRateLimiter{
		rate:     rate,
		burst:    burst,
		buckets:  make(map[string]*TokenBucket),
		lastSeen: make(map[string]time.Time),
	}

	return func(c *gin.Context) {
		if !limiter.get(c.ClientIP()).Allow() {
			response.Fail(c, code.ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
