package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	config     *Config
	configOnce sync.Once
)

// Config stores all configuration of the application
type Config struct {
	// Environment type
	EnvType string

	// Database
	DBHost          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPort          string
	DBMigrationMode string // 数据库迁移模式: "auto"(默认), "drop"(删除重建)

	// Server
	ServerPort string

	// Redis
	RedisHost string
	RedisPort string
	RedisDB   int

	// Object Storage (S3兼容: B2/MinIO/AWS)
	StorageProvider  string // "s3" 或 "local"
	StorageEndpoint  string
	StorageRegion    string
	StorageKeyID     string
	StorageAppKey    string
	StorageBucket    string
	StoragePublicURL string        // 对外访问图片的基础URL
	StorageLocalDir  string        // local provider 的存储目录
	StorageTimeout   time.Duration // 单次上传/删除操作的超时时间

	// JWT Authentication
	JWTSecretKey string

	// Admin 种子账户
	AdminUsername string
	AdminPassword string

	// SMTP 消息通知
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	ContactEmail string

	// CORS
	FrontendOrigins []string

	// Metrics
	MetricsEnabled bool
}

// LoadConfig loads config from environment variables based on ENV_TYPE
func LoadConfig() *Config {
	// Get environment type (default to LOCAL if not set)
	envType := getEnv("ENV_TYPE", "LOCAL")
	prefix := ""

	// Set prefix based on environment type
	if strings.ToUpper(envType) == "LOCAL" {
		prefix = "LOCAL_"
	} else if strings.ToUpper(envType) == "SERVER" {
		prefix = "SERVER_"
	} else {
		fmt.Printf("Warning: Unknown ENV_TYPE '%s', defaulting to LOCAL environment\n", envType)
		prefix = "LOCAL_"
		envType = "LOCAL"
	}

	fmt.Printf("Loading configuration for environment: %s\n", envType)

	// 解析存储操作超时，默认15秒
	storageTimeout, err := time.ParseDuration(getEnv("STORAGE_TIMEOUT", "15s"))
	if err != nil {
		storageTimeout = 15 * time.Second
	}

	return &Config{
		// Environment type
		EnvType: envType,

		// Database config - use environment-specific variables if available
		DBHost:          getEnv(prefix+"DB_HOST", getEnv("DB_HOST", "localhost")),
		DBUser:          getEnv(prefix+"DB_USER", getEnv("DB_USER", "root")),
		DBPassword:      getEnv(prefix+"DB_PASSWORD", getEnv("DB_PASSWORD", "")),
		DBName:          getEnv(prefix+"DB_NAME", getEnv("DB_NAME", "portfolio_db")),
		DBPort:          getEnv(prefix+"DB_PORT", getEnv("DB_PORT", "3306")),
		DBMigrationMode: getEnv(prefix+"DB_MIGRATION_MODE", getEnv("DB_MIGRATION_MODE", "auto")),

		// Server config
		ServerPort: getEnv(prefix+"SERVER_PORT", getEnv("SERVER_PORT", "5000")),

		// Redis config
		RedisHost: getEnv(prefix+"REDIS_HOST", getEnv("REDIS_HOST", "localhost")),
		RedisPort: getEnv(prefix+"REDIS_PORT", getEnv("REDIS_PORT", "6379")),
		RedisDB:   getEnvAsInt("REDIS_DB", 0),

		// Object storage config
		StorageProvider:  getEnv("STORAGE_PROVIDER", "local"),
		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", ""),
		StorageRegion:    getEnv("STORAGE_REGION", "us-east-1"),
		StorageKeyID:     getEnv("STORAGE_KEY_ID", ""),
		StorageAppKey:    getEnv("STORAGE_APP_KEY", ""),
		StorageBucket:    getEnv("STORAGE_BUCKET", "portfolio-uploads"),
		StoragePublicURL: getEnv("STORAGE_PUBLIC_URL", ""),
		StorageLocalDir:  getEnv("STORAGE_LOCAL_DIR", "uploads"),
		StorageTimeout:   storageTimeout,

		// JWT Config
		JWTSecretKey: getEnv("JWT_SECRET_KEY", "portfolio-secret-key-change-in-production"),

		// Admin Config
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		// SMTP Config
		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		ContactEmail: getEnv("CONTACT_EMAIL", ""),

		// CORS Config
		FrontendOrigins: getEnvAsSlice("FRONTEND_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),

		// Metrics Config
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", false),
	}
}

// GetConfig returns the application configuration as a singleton
func GetConfig() *Config {
	configOnce.Do(func() {
		config = LoadConfig()
	})
	return config
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=True&loc=Local&allowNativePasswords=true&multiStatements=true"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// IsProduction 判断是否运行在线上环境
func (c *Config) IsProduction() bool {
	return strings.ToUpper(c.EnvType) == "SERVER"
}

// Helper function to get environment variable with default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as integer with default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as boolean with default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as a comma-separated list
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
