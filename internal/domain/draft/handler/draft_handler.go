package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/draft/model"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/draft/service"
	postService "github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/post/service"
	userHandler "github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/user/handler"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/config"
	"github.com/rmfpdlxmtidl/alpaca-salon/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DraftHandler struct {
	service service.DraftService
}

func NewDraftHandler(s service.DraftService) *DraftHandler {
	return &DraftHandler{service: s}
}

// FieldsInput 表单字段输入，nil 字段不改动
type FieldsInput struct {
	Title    *string `json:"title"`
	Contents *string `json:"contents"`
	Blurred  string  `json:"blurred"` // "title" / "contents"，失焦校验用
}

// DraftView 草稿会话的对外视图
type DraftView struct {
	ID                string               `json:"id"`
	PostID            string               `json:"postId,omitempty"`
	Title             string               `json:"title"`
	Contents          string               `json:"contents"`
	ContentsLineCount int                  `json:"contentsLineCount"`
	Submitting        bool                 `json:"submitting"`
	Images            []*model.StagedImage `json:"images"`
	ExistingImageURLs []string             `json:"existingImageUrls,omitempty"`
}

func newDraftView(d *model.Draft) DraftView {
	return DraftView{
		ID:                d.ID,
		PostID:            d.PostID,
		Title:             d.Title(),
		Contents:          d.Contents(),
		ContentsLineCount: d.ContentsLineCount(),
		Submitting:        d.IsSubmitting(),
		Images:            d.Images(),
		ExistingImageURLs: d.ExistingImageURLs,
	}
}

// CreateDraft 新建发帖会话
// @Summary 新建发帖会话
// @Tags Draft
// @Produce json
// @Success 200 {object} DraftView
// @Router /drafts [post]
func (h *DraftHandler) CreateDraft(c *gin.Context) {
	d, err := h.service.CreateDraft(userHandler.GetUserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, newDraftView(d))
}

// CreateUpdateDraft 基于已有帖子新建改帖会话
// @Summary 新建改帖会话，以帖子当前内容初始化
// @Tags Draft
// @Param id path string true "帖子ID"
// @Produce json
// @Success 200 {object} DraftView
// @Router /posts/{id}/draft [post]
func (h *DraftHandler) CreateUpdateDraft(c *gin.Context) {
	d, err := h.service.CreateUpdateDraft(userHandler.GetUserID(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.ErrPostNotFound, "Post not found")
		case errors.Is(err, postService.ErrNotOwner):
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, newDraftView(d))
}

// GetDraft 查询会话状态
func (h *DraftHandler) GetDraft(c *gin.Context) {
	d, err := h.service.GetDraft(c.Param("id"), userHandler.GetUserID(c))
	if err != nil {
		response.Error(c, http.StatusNotFound, response.ErrDraftNotFound, err.Error())
		return
	}
	response.Success(c, newDraftView(d))
}

// SetFields 更新表单字段
// Blurred 非空时返回该字段的失焦校验结果
func (h *DraftHandler) SetFields(c *gin.Context) {
	var input FieldsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	fieldErr, err := h.service.SetFields(c.Param("id"), userHandler.GetUserID(c), input.Title, input.Contents, input.Blurred)
	if err != nil {
		response.Error(c, http.StatusNotFound, response.ErrDraftNotFound, err.Error())
		return
	}

	response.Success(c, gin.H{"validation": fieldErr})
}

// StageImages 暂存图片
// @Summary 暂存图片到草稿会话
// @Tags Draft
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "草稿ID"
// @Param images formData file true "Images"
// @Success 200 {array} model.StagedImage
// @Router /drafts/{id}/images [post]
func (h *DraftHandler) StageImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid form data")
		return
	}

	headers := form.File["images"]
	maxBytes := config.GlobalConfig.Draft.MaxImageBytes

	files := make([]model.StagedFile, 0, len(headers))
	for _, fh := range headers {
		if maxBytes > 0 && fh.Size > maxBytes {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Image too large: "+fh.Filename)
			return
		}

		src, err := fh.Open()
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
			return
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
			return
		}

		files = append(files, model.StagedFile{
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	staged, err := h.service.StageImages(c.Param("id"), userHandler.GetUserID(c), files)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTooManyImages):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		case errors.Is(err, service.ErrUploadsDisabled):
			response.Error(c, http.StatusServiceUnavailable, response.ErrUploadFailed, err.Error())
		default:
			response.Error(c, http.StatusNotFound, response.ErrDraftNotFound, err.Error())
		}
		return
	}
	response.Success(c, staged)
}

// GetStagedImage 暂存图片预览
func (h *DraftHandler) GetStagedImage(c *gin.Context) {
	localID, err := strconv.ParseInt(c.Param("localId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid image id")
		return
	}

	img, err := h.service.GetStagedImage(c.Param("id"), userHandler.GetUserID(c), localID)
	if err != nil {
		response.Error(c, http.StatusNotFound, response.ErrDraftNotFound, err.Error())
		return
	}

	c.Data(http.StatusOK, img.ContentType, img.Data)
}

// UnstageImage 移除暂存图片，幂等
func (h *DraftHandler) UnstageImage(c *gin.Context) {
	localID, err := strconv.ParseInt(c.Param("localId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid image id")
		return
	}

	if err := h.service.UnstageImage(c.Param("id"), userHandler.GetUserID(c), localID); err != nil {
		response.Error(c, http.StatusNotFound, response.ErrDraftNotFound, err.Error())
		return
	}
	response.Success(c, true)
}

// Submit 提交会话
// @Summary 提交草稿：上传暂存图片后发帖/改帖
// @Tags Draft
// @Param id path string true "草稿ID"
// @Produce json
// @Success 200 {object} service.SubmitResult
// @Router /drafts/{id}/submit [post]
func (h *DraftHandler) Submit(c *gin.Context) {
	result, err := h.service.Submit(c.Request.Context(), c.Param("id"), userHandler.GetUserID(c))
	if err != nil {
		var fieldErr *model.FieldError
		var uploadErr *service.UploadError
		switch {
		case errors.As(err, &fieldErr):
			response.Fail(c, response.ErrDraftValidation, fieldErr.Message)
		case errors.Is(err, model.ErrSubmitInFlight):
			response.Fail(c, response.ErrSubmitInFlight, err.Error())
		case errors.Is(err, service.ErrDraftNotFound):
			response.Error(c, http.StatusNotFound, response.ErrDraftNotFound, err.Error())
		case errors.Is(err, service.ErrUploadsDisabled):
			response.Error(c, http.StatusServiceUnavailable, response.ErrUploadFailed, err.Error())
		case errors.As(err, &uploadErr):
			response.Error(c, http.StatusBadGateway, response.ErrUploadFailed, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, result)
}
