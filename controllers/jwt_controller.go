package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-http-service/internal/error/code"
	"portfolio-http-service/internal/error/response"
	"portfolio-http-service/middleware"
	"portfolio-http-service/models"
	"portfolio-http-service/services"
	"portfolio-http-service/services/container"
)

// InterfaceJWTController 定义认证控制器接口
type InterfaceJWTController interface {
	Login()
	Logout()
	Profile()
}

// JWTController 处理身份验证请求
type JWTController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewJWTController 创建一个新的认证控制器
func NewJWTController(ctx *gin.Context, container *container.ServiceContainer) *JWTController {
	return &JWTController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest 表示登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// AdminProfile 表示返回给前端的管理员身份
type AdminProfile struct {
	ID       uint   `json:"id" example:"1"`
	Username string `json:"username" example:"admin"`
}

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Code    int         `json:"code" example:"401"`
	Message string      `json:"message" example:"Invalid username or password"`
	Data    interface{} `json:"data"`
}

// HandleJWTFunc 返回一个处理认证请求的Gin处理函数
func HandleJWTFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewJWTController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		case "logout":
			controller.Logout()
		case "profile":
			controller.Profile()
		default:
			response.Fail(ctx, code.ErrBind)
		}
	}
}

// sessionCookie 构造会话cookie。线上环境跨域部署，需要
// Secure + SameSite=None；本地开发用Lax即可。
func (c *JWTController) sessionCookie(value string, maxAge int) *http.Cookie {
	cfg := c.Container.GetConfig()

	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	}
	if cfg.IsProduction() {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	} else {
		cookie.SameSite = http.SameSiteLaxMode
	}
	return cookie
}

// Login 处理管理员登录
// @Summary      Admin Login
// @Description  Validate admin credentials and set the httpOnly session cookie
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request parameters"
// @Success      200  {object}  response.Response{data=AdminProfile}  "Login successful"
// @Failure      400  {object}  ErrorResponse  "Bad request"
// @Failure      401  {object}  ErrorResponse  "Invalid credentials"
// @Router       /auth/login [post]
func (c *JWTController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Invalid request parameters")
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)

	admin, err := adminService.Authenticate(req.Username, req.Password)
	if err != nil {
		// 账户不存在与密码错误对外不作区分
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Fail(c.Ctx, code.ErrInvalidCredentials)
		} else {
			response.ServerError(c.Ctx)
		}
		return
	}

	token, err := jwtService.GenerateToken(admin.ID)
	if err != nil {
		response.ServerError(c.Ctx)
		return
	}

	http.SetCookie(c.Ctx.Writer, c.sessionCookie(token, int(services.TokenLifetime.Seconds())))
	response.Success(c.Ctx, AdminProfile{ID: admin.ID, Username: admin.Username})
}

// Logout 处理管理员登出
// @Summary      Admin Logout
// @Description  Clear the session cookie. Outstanding tokens stay valid until expiry.
// @Tags         Auth
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  response.Response  "Logged out"
// @Failure      401  {object}  ErrorResponse  "Unauthenticated"
// @Router       /auth/logout [post]
func (c *JWTController) Logout() {
	// 下发一个立即过期的同名cookie让客户端丢弃令牌
	http.SetCookie(c.Ctx.Writer, c.sessionCookie("", -1))
	response.Success(c.Ctx, gin.H{"message": "Logged out successfully"})
}

// Profile 返回当前会话对应的管理员身份
// @Summary      Admin Profile
// @Description  Return the identity resolved from the session cookie
// @Tags         Auth
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  response.Response{data=AdminProfile}
// @Failure      401  {object}  ErrorResponse  "Unauthenticated"
// @Router       /auth/profile [get]
func (c *JWTController) Profile() {
	admin := c.Ctx.MustGet("admin").(*models.Admin)
	response.Success(c.Ctx, AdminProfile{ID: admin.ID, Username: admin.Username})
}
