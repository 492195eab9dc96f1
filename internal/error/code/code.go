package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusBadGateway - 502: 上游服务错误.
	StatusBadGateway = 502
	// StatusGatewayTimeout - 504: 上游服务超时.
	StatusGatewayTimeout = 504
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 认证相关错误码 (101xxx).
const (
	// ErrInvalidCredentials - 401: 用户名或密码错误.
	ErrInvalidCredentials int = iota + 101000
	// ErrUnauthenticated - 401: 未登录或会话无效.
	ErrUnauthenticated
	// ErrAccountNotFound - 401: 会话对应的账户已不存在.
	ErrAccountNotFound
)

// 项目相关错误码 (102xxx).
const (
	// ErrProjectNotFound - 404: 项目不存在.
	ErrProjectNotFound int = iota + 102000
	// ErrImageUploadFailed - 502: 图片上传失败.
	ErrImageUploadFailed
	// ErrUpstreamTimeout - 504: 对象存储操作超时.
	ErrUpstreamTimeout
	// ErrTooManyImages - 400: 单次上传图片数量超过限制.
	ErrTooManyImages
)

// 消息相关错误码 (103xxx).
const (
	// ErrMessageNotFound - 404: 消息不存在.
	ErrMessageNotFound int = iota + 103000
)

// 数据库相关错误码 (105xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)
