package handler

import (
	"net/http"

	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/user/service"
	"github.com/rmfpdlxmtidl/alpaca-salon/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	service service.UserService
}

// NewUserHandler 创建处理器
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// SendOTPInput 发送验证码输入
type SendOTPInput struct {
	Mobile string `json:"mobile" binding:"required"`
}

// LoginInput 登录输入
type LoginInput struct {
	Mobile string `json:"mobile" binding:"required"`
	Code   string `json:"code" binding:"required"`
}

// UpdateProfileInput 更新资料输入
type UpdateProfileInput struct {
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatarUrl"`
}

// SendOTP 发送登录验证码
// @Summary 发送登录验证码
// @Tags User
// @Accept json
// @Produce json
// @Param input body SendOTPInput true "手机号"
// @Success 200 {string} string "success"
// @Router /auth/otp [post]
func (h *UserHandler) SendOTP(c *gin.Context) {
	var input SendOTPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.SendOTP(input.Mobile); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, "success")
}

// LoginOrRegister 登录或注册
// @Summary 验证码登录，新手机号自动注册
// @Tags User
// @Accept json
// @Produce json
// @Param input body LoginInput true "手机号和验证码"
// @Success 200 {object} map[string]string "token"
// @Router /auth/login [post]
func (h *UserHandler) LoginOrRegister(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	token, err := h.service.LoginOrRegister(input.Mobile, input.Code)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, err.Error())
		return
	}
	response.Success(c, gin.H{"token": token})
}

// GetMe 获取当前登录用户
// @Summary 当前用户信息
// @Tags User
// @Produce json
// @Success 200 {object} model.User
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.service.GetUser(GetUserID(c))
	if err != nil {
		response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
		return
	}
	response.Success(c, user)
}

// UpdateMe 更新当前用户资料
// @Summary 更新昵称/头像
// @Tags User
// @Accept json
// @Produce json
// @Param input body UpdateProfileInput true "资料"
// @Success 200 {object} model.User
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, err := h.service.UpdateProfile(GetUserID(c), input.Nickname, input.AvatarURL)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, user)
}

// GetUserID 从上下文取认证中间件写入的用户ID
func GetUserID(c *gin.Context) string {
	val, _ := c.Get("userID")
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}
