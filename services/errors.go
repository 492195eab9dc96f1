package services

import "errors"

// 服务层错误，控制器据此映射到对应的错误码和HTTP状态
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionInvalid     = errors.New("session token invalid or expired")
	ErrAccountNotFound    = errors.New("session subject no longer exists")
	ErrProjectNotFound    = errors.New("project not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrValidation         = errors.New("validation failed")
	ErrImageUploadFailed  = errors.New("image upload failed")
	ErrUpstreamTimeout    = errors.New("object storage operation timed out")
	ErrTooManyImages      = errors.New("too many image files in one request")
)
