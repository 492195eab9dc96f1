package services

import (
	"fmt"
	"net/smtp"
	"strings"

	"portfolio-http-service/config"
	"portfolio-http-service/models"
)

// InterfaceEmailService 定义邮件通知服务接口
type InterfaceEmailService interface {
	NotifyNewMessage(msg *models.Message) error
}

// EmailService 通过SMTP发送新消息通知，收件人为站点管理员本人
type EmailService struct {
	host     string
	port     string
	user     string
	password string
	to       string
}

// NewEmailService 创建邮件服务。未配置SMTP账户时返回nil，调用方跳过通知。
func NewEmailService(cfg *config.Config) *EmailService {
	if cfg.SMTPUser == "" || cfg.SMTPPassword == "" {
		return nil
	}

	to := cfg.ContactEmail
	if to == "" {
		to = cfg.SMTPUser
	}

	return &EmailService{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		to:       to,
	}
}

// NotifyNewMessage 发送"收到新咨询"通知邮件
func (s *EmailService) NotifyNewMessage(msg *models.Message) error {
	subject := fmt.Sprintf("[New Lead] - %s", msg.RelatedProject)

	var body strings.Builder
	body.WriteString(fmt.Sprintf("From: %s <%s>\r\n", msg.SenderName, s.user))
	body.WriteString(fmt.Sprintf("To: %s\r\n", s.to))
	body.WriteString(fmt.Sprintf("Reply-To: %s\r\n", msg.SenderEmail))
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	body.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n")
	body.WriteString(fmt.Sprintf("New portfolio inquiry\n\nFrom: %s (%s)\nContext: %s\nSubject: %s\n\n%s\n",
		msg.SenderName, msg.SenderEmail, msg.RelatedProject, msg.Subject, msg.Body))

	auth := smtp.PlainAuth("", s.user, s.password, s.host)
	addr := s.host + ":" + s.port

	return smtp.SendMail(addr, auth, s.user, []string{s.to}, []byte(body.String()))
}
