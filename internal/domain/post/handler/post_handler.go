package handler

import (
	"errors"
	"net/http"

	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/post/service"
	"github.com/rmfpdlxmtidl/alpaca-salon/pkg/response"
	"github.com/rmfpdlxmtidl/alpaca-salon/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PostHandler struct {
	service service.PostService
}

func NewPostHandler(s service.PostService) *PostHandler {
	return &PostHandler{service: s}
}

// GetFeed 首页帖子列表
// @Summary 分页获取帖子列表
// @Tags Post
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} utils.PageResult
// @Router /posts [get]
func (h *PostHandler) GetFeed(c *gin.Context) {
	var p utils.Pagination
	c.ShouldBindQuery(&p)

	posts, total, err := h.service.GetFeed(p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{
		List:  posts,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// DeletePost 运营下架帖子
// @Summary 删除帖子（管理员）
// @Tags Post
// @Param id path string true "帖子ID"
// @Success 200 {boolean} boolean
// @Router /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.service.DeletePost(c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrPostNotFound, "Post not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, true)
}

// GetPost 帖子详情
// @Summary 获取帖子详情（含作者）
// @Tags Post
// @Param id path string true "帖子ID"
// @Success 200 {object} model.Post
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.service.GetPost(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrPostNotFound, "Post not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, post)
}
