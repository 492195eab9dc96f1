package services

import (
	"errors"

	"gorm.io/gorm"

	"portfolio-http-service/config"
	"portfolio-http-service/models"
)

// InterfaceMessageService 定义消息服务接口
type InterfaceMessageService interface {
	CreateMessage(msg *models.Message) (*models.Message, error)
	GetAllMessages() ([]models.Message, error)
	MarkAsRead(id uint) (*models.Message, error)
	DeleteMessage(id uint) error
}

// MessageService 提供联系消息相关的服务
type MessageService struct {
	DB     *gorm.DB
	Config *config.Config
	Email  InterfaceEmailService // 可为nil，不配置SMTP时跳过通知
}

// NewMessageService 创建一个新的消息服务
func NewMessageService(db *gorm.DB, cfg *config.Config, email InterfaceEmailService) *MessageService {
	return &MessageService{
		DB:     db,
		Config: cfg,
		Email:  email,
	}
}

// CreateMessage 保存访客消息并异步发送邮件通知。
// 通知失败只记日志，消息创建依然成功。
func (s *MessageService) CreateMessage(msg *models.Message) (*models.Message, error) {
	if msg.Subject == "" {
		msg.Subject = "General Inquiry"
	}
	if msg.RelatedProject == "" {
		msg.RelatedProject = "General"
	}

	if err := s.DB.Create(msg).Error; err != nil {
		return nil, err
	}

	if s.Email != nil {
		go func(notify models.Message) {
			if err := s.Email.NotifyNewMessage(&notify); err != nil {
				config.Warning("新消息邮件通知发送失败: %v", err)
			}
		}(*msg)
	}

	return msg, nil
}

// GetAllMessages 获取全部消息，最新的在前
func (s *MessageService) GetAllMessages() ([]models.Message, error) {
	var messages []models.Message
	if err := s.DB.Order("created_at DESC, id DESC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// getMessageByID 根据ID获取消息
func (s *MessageService) getMessageByID(id uint) (*models.Message, error) {
	var msg models.Message
	if err := s.DB.First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// MarkAsRead 将消息标记为已读，消息内容不可修改
func (s *MessageService) MarkAsRead(id uint) (*models.Message, error) {
	msg, err := s.getMessageByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(msg).Update("is_read", true).Error; err != nil {
		return nil, err
	}
	msg.IsRead = true
	return msg, nil
}

// DeleteMessage 删除消息
func (s *MessageService) DeleteMessage(id uint) error {
	msg, err := s.getMessageByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(msg).Error
}
