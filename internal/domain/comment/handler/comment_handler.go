package handler

import (
	"errors"
	"net/http"

	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/comment/service"
	userHandler "github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/user/handler"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/notifier"
	"github.com/rmfpdlxmtidl/alpaca-salon/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommentHandler struct {
	service  service.CommentService
	notifier notifier.Notifier
}

func NewCommentHandler(s service.CommentService, n notifier.Notifier) *CommentHandler {
	return &CommentHandler{service: s, notifier: n}
}

// CommentInput 评论输入
type CommentInput struct {
	Contents      string                    `json:"contents" binding:"required"`
	ParentComment *service.ParentCommentRef `json:"parentComment"`
}

// GetComments 获取评论树
// @Summary 获取帖子的评论（两级嵌套）
// @Tags Comment
// @Param id path string true "帖子ID"
// @Success 200 {array} model.Comment
// @Router /posts/{id}/comments [get]
func (h *CommentHandler) GetComments(c *gin.Context) {
	comments, err := h.service.GetPostComments(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, comments)
}

// AddComment 发表评论
// @Summary 发表评论或回复
// @Tags Comment
// @Accept json
// @Produce json
// @Param id path string true "帖子ID"
// @Param input body CommentInput true "评论内容，可带回复目标"
// @Success 200 {object} model.Comment
// @Router /posts/{id}/comments [post]
func (h *CommentHandler) AddComment(c *gin.Context) {
	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	composer := service.NewComposer(h.service, h.notifier, c.Param("id"), userHandler.GetUserID(c))
	composer.SetContents(input.Contents)
	if input.ParentComment != nil {
		composer.SetParent(input.ParentComment)
	}

	comment, err := composer.Submit()
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyContents):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.ErrPostNotFound, "Post not found")
		case errors.Is(err, service.ErrParentNotFound):
			response.Error(c, http.StatusNotFound, response.ErrCommentNotFound, err.Error())
		case errors.Is(err, service.ErrParentMismatch):
			response.Error(c, http.StatusBadRequest, response.ErrParentMismatch, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, comment)
}
