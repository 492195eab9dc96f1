package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:         "成功",
	ErrUnknown:         "未知错误",
	ErrBind:            "请求参数绑定错误",
	ErrValidation:      "请求参数验证错误",
	ErrTooManyRequests: "请求频率过高",

	// 认证相关错误码
	ErrInvalidCredentials: "Invalid username or password",
	ErrUnauthenticated:    "Not authorized",
	ErrAccountNotFound:    "Not authorized, user not found",

	// 项目相关错误码
	ErrProjectNotFound:   "Project not found",
	ErrImageUploadFailed: "Image upload failed",
	ErrUpstreamTimeout:   "Upstream storage timeout, please retry",
	ErrTooManyImages:     "Too many image files",

	// 消息相关错误码
	ErrMessageNotFound: "Message not found",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTooManyRequests: StatusTooManyRequests,

	// 认证相关错误码
	ErrInvalidCredentials: StatusUnauthorized,
	ErrUnauthenticated:    StatusUnauthorized,
	ErrAccountNotFound:    StatusUnauthorized,

	// 项目相关错误码
	ErrProjectNotFound:   StatusNotFound,
	ErrImageUploadFailed: StatusBadGateway,
	ErrUpstreamTimeout:   StatusGatewayTimeout,
	ErrTooManyImages:     StatusBadRequest,

	// 消息相关错误码
	ErrMessageNotFound: StatusNotFound,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "未知错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
