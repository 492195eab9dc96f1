package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"portfolio-http-service/config"
	"portfolio-http-service/middleware"
	"portfolio-http-service/models"
	"portfolio-http-service/services/container"
	"portfolio-http-service/utils"
)

type respEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Admin{}, &models.Project{}, &models.ProjectImage{}, &models.Message{}))

	cfg := &config.Config{
		JWTSecretKey:    "routes-test-secret",
		StorageProvider: "local",
		StorageLocalDir: t.TempDir(),
		StorageTimeout:  2 * time.Second,
	}

	hash, err := utils.HashPassword("admin123")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Admin{Username: "admin", Password: hash}).Error)

	return SetupRouterWithContainer(container.NewServiceContainer(db, cfg, nil)), db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, respEnvelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope respEnvelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	}
	return w, envelope
}

func login(t *testing.T, r *gin.Engine) *http.Cookie {
	t.Helper()
	w, _ := doJSON(t, r, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"admin123"}`)
	require.Equal(t, http.StatusOK, w.Code)

	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	t.Fatal("登录响应中没有会话cookie")
	return nil
}

func TestPing(t *testing.T) {
	r, _ := newTestServer(t)

	w, _ := doJSON(t, r, http.MethodGet, "/api/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginSetsHTTPOnlySessionCookie(t *testing.T) {
	r, _ := newTestServer(t)

	cookie := login(t, r)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Greater(t, cookie.MaxAge, 0)
}

func TestLoginInvalidCredentials(t *testing.T) {
	r, _ := newTestServer(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())

	// 不存在的账户得到同样的响应
	w2, _ := doJSON(t, r, http.MethodPost, "/api/auth/login", `{"username":"nobody","password":"admin123"}`)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
}

func TestSessionLifecycle(t *testing.T) {
	r, _ := newTestServer(t)
	cookie := login(t, r)

	w, envelope := doJSON(t, r, http.MethodGet, "/api/auth/profile", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var profile struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &profile))
	assert.Equal(t, "admin", profile.Username)

	// 登出下发立即过期的同名cookie
	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/logout", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var cleared *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	// 不带cookie访问守卫路由被拒绝
	w, _ = doJSON(t, r, http.MethodGet, "/api/auth/profile", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGuardedRoutesRejectUnauthenticated(t *testing.T) {
	r, db := newTestServer(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/projects"},
		{http.MethodPut, "/api/projects/1"},
		{http.MethodDelete, "/api/projects/1"},
		{http.MethodGet, "/api/messages"},
		{http.MethodPut, "/api/messages/1/read"},
		{http.MethodDelete, "/api/messages/1"},
	} {
		w, _ := doJSON(t, r, route.method, route.path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}

	// 被拒绝的写请求没有产生任何副作用
	var count int64
	require.NoError(t, db.Model(&models.Project{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func projectForm(t *testing.T, fields map[string]string, imageNames ...string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for key, value := range fields {
		require.NoError(t, mw.WriteField(key, value))
	}
	for _, name := range imageNames {
		part, err := mw.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(name))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func doForm(t *testing.T, r *gin.Engine, method, path string, body *bytes.Buffer, contentType string, cookie *http.Cookie) (*httptest.ResponseRecorder, respEnvelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope respEnvelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	}
	return w, envelope
}

func TestProjectCRUDOverHTTP(t *testing.T) {
	r, _ := newTestServer(t)
	cookie := login(t, r)

	body, contentType := projectForm(t, map[string]string{
		"title":       "Nebula Finance Dashboard",
		"description": "A fintech analytics platform",
		"repoLink":    "https://github.com/example/nebula",
		"techStack":   "Go, React,  PostgreSQL ",
	}, "one.png", "two.png")

	w, envelope := doForm(t, r, http.MethodPost, "/api/projects", body, contentType, cookie)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Project
	require.NoError(t, json.Unmarshal(envelope.Data, &created))
	assert.Equal(t, "Nebula Finance Dashboard", created.Title)
	// 逗号分隔字段去除空白、丢弃空项
	assert.Equal(t, models.StringList{"Go", "React", "PostgreSQL"}, created.TechStack)
	require.Len(t, created.Images, 2)

	// 公开接口能看到刚创建的项目
	w, envelope = doJSON(t, r, http.MethodGet, "/api/projects", "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed []models.Project
	require.NoError(t, json.Unmarshal(envelope.Data, &listed))
	require.Len(t, listed, 1)

	// 更新：删除第一张图，剩余一张，追加一张新图
	updateBody := &bytes.Buffer{}
	mw := multipart.NewWriter(updateBody)
	require.NoError(t, mw.WriteField("title", "Nebula v2"))
	require.NoError(t, mw.WriteField("imagesToDelete", uintListJSON(t, created.Images[0].ID)))
	require.NoError(t, mw.WriteField("existingImagesOrder", uintListJSON(t, created.Images[1].ID)))
	part, err := mw.CreateFormFile("images", "three.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("three"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w, envelope = doForm(t, r, http.MethodPut, "/api/projects/1", updateBody, mw.FormDataContentType(), cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Project
	require.NoError(t, json.Unmarshal(envelope.Data, &updated))
	assert.Equal(t, "Nebula v2", updated.Title)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, created.Images[1].ID, updated.Images[0].ID)

	// 删除后公开查询返回404
	w, _ = doJSON(t, r, http.MethodDelete, "/api/projects/1", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodGet, "/api/projects/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func uintListJSON(t *testing.T, ids ...uint) string {
	t.Helper()
	data, err := json.Marshal(ids)
	require.NoError(t, err)
	return string(data)
}

func TestContactMessageFlow(t *testing.T) {
	r, _ := newTestServer(t)

	// 缺少必填字段被拒绝
	w, _ := doJSON(t, r, http.MethodPost, "/api/messages", `{"senderName":"Jane"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 邮箱格式校验
	w, _ = doJSON(t, r, http.MethodPost, "/api/messages", `{"senderName":"Jane","senderEmail":"not-an-email","message":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, envelope := doJSON(t, r, http.MethodPost, "/api/messages",
		`{"senderName":"Jane","senderEmail":"jane@example.com","message":"Hello there"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Message
	require.NoError(t, json.Unmarshal(envelope.Data, &created))
	assert.Equal(t, "General Inquiry", created.Subject)
	assert.Equal(t, "General", created.RelatedProject)

	cookie := login(t, r)

	w, envelope = doJSON(t, r, http.MethodGet, "/api/messages", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var inbox []models.Message
	require.NoError(t, json.Unmarshal(envelope.Data, &inbox))
	require.Len(t, inbox, 1)
	assert.False(t, inbox[0].IsRead)

	w, envelope = doJSON(t, r, http.MethodPut, "/api/messages/1/read", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var read models.Message
	require.NoError(t, json.Unmarshal(envelope.Data, &read))
	assert.True(t, read.IsRead)

	w, _ = doJSON(t, r, http.MethodDelete, "/api/messages/1", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodPut, "/api/messages/1/read", "", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
