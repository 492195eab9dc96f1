package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"portfolio-http-service/config"
	"portfolio-http-service/models"
)

// TokenLifetime 会话令牌有效期
const TokenLifetime = 30 * 24 * time.Hour

// InterfaceJWTService 定义JWT服务接口
type InterfaceJWTService interface {
	GenerateToken(adminID uint) (string, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
	ValidateSession(tokenString string) (*models.Admin, error)
}

// JWTService 提供会话令牌的签发与校验
type JWTService struct {
	DB        *gorm.DB
	secretKey string
	issuer    string
}

// JWTClaims 定义JWT令牌的声明结构
type JWTClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// NewJWTService 创建一个新的JWT服务
func NewJWTService(db *gorm.DB, cfg *config.Config) *JWTService {
	return &JWTService{
		DB:        db,
		secretKey: cfg.JWTSecretKey,
		issuer:    "portfolio-http-service",
	}
}

// GenerateToken 为管理员签发30天有效期的会话令牌
func (s *JWTService) GenerateToken(adminID uint) (string, error) {
	now := time.Now()

	claims := &JWTClaims{
		UserID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// ValidateToken 验证令牌签名和有效期，返回声明
func (s *JWTService) ValidateToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrSessionInvalid
	}

	return claims, nil
}

// ValidateSession 验证令牌并解析出对应的管理员账户。
// 令牌有效但账户已被删除时返回 ErrAccountNotFound。
func (s *JWTService) ValidateSession(tokenString string) (*models.Admin, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	var admin models.Admin
	if err := s.DB.First(&admin, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return &admin, nil
}
