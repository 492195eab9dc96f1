package services

import (
	"errors"

	"gorm.io/gorm"

	"portfolio-http-service/config"
	"portfolio-http-service/models"
	"portfolio-http-service/utils"
)

// InterfaceAdminService 定义管理员凭证服务接口
type InterfaceAdminService interface {
	FindByUsername(username string) (*models.Admin, error)
	GetAdminByID(id uint) (*models.Admin, error)
	Authenticate(username, password string) (*models.Admin, error)
	EnsureAdminExists() error
}

// AdminService 提供管理员凭证相关的服务
type AdminService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewAdminService 创建一个新的管理员服务
func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{
		DB:     db,
		Config: cfg,
	}
}

// FindByUsername 按用户名精确查找管理员，不存在时返回nil
func (s *AdminService) FindByUsername(username string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// GetAdminByID 根据ID获取管理员
func (s *AdminService) GetAdminByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// Authenticate 校验用户名和密码。账户不存在与密码错误统一返回
// ErrInvalidCredentials，不向调用方泄露具体原因。
func (s *AdminService) Authenticate(username, password string) (*models.Admin, error) {
	admin, err := s.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if admin == nil || !utils.CheckPasswordHash(password, admin.Password) {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

// EnsureAdminExists 确保系统中有管理员账户，没有则按配置创建种子账户
func (s *AdminService) EnsureAdminExists() error {
	var count int64
	if err := s.DB.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := utils.HashPassword(s.Config.AdminPassword)
	if err != nil {
		return err
	}

	admin := models.Admin{
		Username: s.Config.AdminUsername,
		Password: hashedPassword,
	}
	if err := s.DB.Create(&admin).Error; err != nil {
		return err
	}

	config.Info("已创建默认管理员账户 (用户名: %s)", admin.Username)
	return nil
}
