package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"portfolio-http-service/config"
	"portfolio-http-service/models"
	"portfolio-http-service/services"
)

func setupGuardTest(t *testing.T) (*gin.Engine, *gorm.DB, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Admin{}))

	InitAuthMiddleware(&config.Config{JWTSecretKey: "guard-test-secret"}, db)

	hits := 0
	r := gin.New()
	r.GET("/protected", RequireAdmin(), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"adminID": c.MustGet("adminID")})
	})
	return r, db, &hits
}

func sessionToken(t *testing.T, db *gorm.DB, cfg *config.Config, adminID uint) string {
	t.Helper()
	token, err := services.NewJWTService(db, cfg).GenerateToken(adminID)
	require.NoError(t, err)
	return token
}

func TestRequireAdminNoCookie(t *testing.T) {
	r, _, hits := setupGuardTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// 守卫中止后下游处理器没有被调用
	assert.Equal(t, 0, *hits)
}

func TestRequireAdminInvalidToken(t *testing.T) {
	r, _, hits := setupGuardTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, *hits)
}

func TestRequireAdminValidSession(t *testing.T) {
	r, db, hits := setupGuardTest(t)
	cfg := &config.Config{JWTSecretKey: "guard-test-secret"}

	admin := &models.Admin{Username: "admin", Password: "irrelevant-hash"}
	require.NoError(t, db.Create(admin).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionToken(t, db, cfg, admin.ID)})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *hits)
}

func TestRequireAdminDeletedAccount(t *testing.T) {
	r, db, hits := setupGuardTest(t)
	cfg := &config.Config{JWTSecretKey: "guard-test-secret"}

	admin := &models.Admin{Username: "admin", Password: "irrelevant-hash"}
	require.NoError(t, db.Create(admin).Error)
	token := sessionToken(t, db, cfg, admin.ID)
	require.NoError(t, db.Delete(&models.Admin{}, admin.ID).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, *hits)
}
