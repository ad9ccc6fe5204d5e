package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户模块错误 100xx
	ErrUserNotFound = 10002
	ErrAuthFailed   = 10003
	ErrTokenInvalid = 10004
	ErrNoPermission = 10005

	// 帖子模块错误 200xx
	ErrPostNotFound = 20001

	// 评论模块错误 210xx
	ErrCommentNotFound = 21001
	ErrParentMismatch  = 21002

	// 草稿模块错误 220xx
	ErrDraftNotFound   = 22001
	ErrDraftValidation = 22002
	ErrSubmitInFlight  = 22003
	ErrUploadFailed    = 22004

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
