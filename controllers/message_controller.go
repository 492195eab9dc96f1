package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"portfolio-http-service/config"
	"portfolio-http-service/internal/error/code"
	"portfolio-http-service/internal/error/response"
	"portfolio-http-service/models"
	"portfolio-http-service/services"
	"portfolio-http-service/services/container"
)

// InterfaceMessageController 定义消息控制器接口
type InterfaceMessageController interface {
	CreateMessage()
	GetMessages()
	MarkAsRead()
	DeleteMessage()
}

// MessageController 处理联系消息相关的请求
type MessageController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewMessageController 创建一个新的消息控制器
func NewMessageController(ctx *gin.Context, container *container.ServiceContainer) *MessageController {
	return &MessageController{
		Ctx:       ctx,
		Container: container,
	}
}

// MessageRequest 表示访客提交的消息
type MessageRequest struct {
	SenderName     string `json:"senderName" binding:"required" example:"Jane Doe"`
	SenderEmail    string `json:"senderEmail" binding:"required,email" example:"jane@example.com"`
	Message        string `json:"message" binding:"required" example:"I would like to talk about..."`
	Subject        string `json:"subject" example:"Freelance inquiry"`
	RelatedProject string `json:"relatedProject" example:"Nebula Finance Dashboard"`
}

// HandleMessageFunc 返回一个处理消息请求的Gin处理函数
func HandleMessageFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewMessageController(ctx, container)

		switch method {
		case "createMessage":
			controller.CreateMessage()
		case "getMessages":
			controller.GetMessages()
		case "markAsRead":
			controller.MarkAsRead()
		case "deleteMessage":
			controller.DeleteMessage()
		default:
			response.Fail(ctx, code.ErrBind)
		}
	}
}

// respondMessageError 将服务层错误映射为对应的错误码响应
func respondMessageError(ctx *gin.Context, err error) {
	if errors.Is(err, services.ErrMessageNotFound) {
		response.Fail(ctx, code.ErrMessageNotFound)
		return
	}
	config.Error("消息操作失败: %v", err)
	response.ServerError(ctx)
}

// 1. CreateMessage 接收访客消息
// @Summary 提交联系消息
// @Description 公开接口，保存消息并尽力发送邮件通知
// @Tags message
// @Accept json
// @Produce json
// @Param request body MessageRequest true "消息内容"
// @Success 201 {object} response.Response{data=models.Message}
// @Failure 400 {object} ErrorResponse
// @Router /messages [post]
func (c *MessageController) CreateMessage() {
	var req MessageRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Invalid request parameters")
		return
	}

	messageService := c.Container.GetService("message").(services.InterfaceMessageService)

	msg, err := messageService.CreateMessage(&models.Message{
		SenderName:     req.SenderName,
		SenderEmail:    req.SenderEmail,
		Body:           req.Message,
		Subject:        req.Subject,
		RelatedProject: req.RelatedProject,
	})
	if err != nil {
		respondMessageError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, msg)
}

// 2. GetMessages 获取消息列表
// @Summary 获取全部消息
// @Description 管理员收件箱，最新的消息在前
// @Tags message
// @Produce json
// @Security CookieAuth
// @Success 200 {object} response.Response{data=[]models.Message}
// @Failure 401 {object} ErrorResponse
// @Router /messages [get]
func (c *MessageController) GetMessages() {
	messageService := c.Container.GetService("message").(services.InterfaceMessageService)

	messages, err := messageService.GetAllMessages()
	if err != nil {
		respondMessageError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, messages)
}

// 3. MarkAsRead 将消息标记为已读
// @Summary 标记消息已读
// @Tags message
// @Produce json
// @Security CookieAuth
// @Param id path int true "消息ID"
// @Success 200 {object} response.Response{data=models.Message}
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /messages/{id}/read [put]
func (c *MessageController) MarkAsRead() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "Invalid message id")
		return
	}

	messageService := c.Container.GetService("message").(services.InterfaceMessageService)

	msg, err := messageService.MarkAsRead(uint(id))
	if err != nil {
		respondMessageError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, msg)
}

// 4. DeleteMessage 删除消息
// @Summary 删除消息
// @Tags message
// @Produce json
// @Security CookieAuth
// @Param id path int true "消息ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /messages/{id} [delete]
func (c *MessageController) DeleteMessage() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "Invalid message id")
		return
	}

	messageService := c.Container.GetService("message").(services.InterfaceMessageService)

	if err := messageService.DeleteMessage(uint(id)); err != nil {
		respondMessageError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"message": "Message removed"})
}
