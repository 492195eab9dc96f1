package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"portfolio-http-service/config"
	"portfolio-http-service/models"
	"portfolio-http-service/utils"
)

const testSecret = "test-secret-key"

func newTestJWTService(t *testing.T) (*JWTService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewJWTService(db, &config.Config{JWTSecretKey: testSecret})
	return svc, db
}

func seedAdmin(t *testing.T, db *gorm.DB, username, password string) *models.Admin {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	admin := &models.Admin{Username: username, Password: hash}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc, db := newTestJWTService(t)
	admin := seedAdmin(t, db, "admin", "secret123")

	token, err := svc.GenerateToken(admin.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.UserID)

	got, err := svc.ValidateSession(token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)
	assert.Equal(t, "admin", got.Username)
}

func TestValidateTokenExpired(t *testing.T) {
	svc, db := newTestJWTService(t)
	admin := seedAdmin(t, db, "admin", "secret123")

	// 手工签发一个已过期的令牌
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UserID: admin.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	})
	tokenString, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokenString)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc, db := newTestJWTService(t)
	admin := seedAdmin(t, db, "admin", "secret123")

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UserID: admin.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenString, err := forged.SignedString([]byte("another-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokenString)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc, _ := newTestJWTService(t)

	_, err := svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestValidateSessionAccountDeleted(t *testing.T) {
	svc, db := newTestJWTService(t)
	admin := seedAdmin(t, db, "admin", "secret123")

	token, err := svc.GenerateToken(admin.ID)
	require.NoError(t, err)

	// 令牌仍然有效，但账户已不存在
	require.NoError(t, db.Delete(&models.Admin{}, admin.ID).Error)

	_, err = svc.ValidateSession(token)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
