package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/uploader"
	"github.com/rmfpdlxmtidl/alpaca-salon/pkg/response"

	"github.com/gin-gonic/gin"
)

// UploadHandler 独立图片上传接口，目前用于头像
// 帖子正文的图片不走这里，由草稿会话统一打包上传
type UploadHandler struct {
	uploader uploader.Uploader
}

func NewUploadHandler(u uploader.Uploader) *UploadHandler {
	return &UploadHandler{uploader: u}
}

// UploadImages 上传图片 (支持批量)
// @Summary 上传图片到 OSS (支持批量)
// @Tags Common
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files"
// @Success 200 {object} response.Response{data=[]string} "URLs"
// @Router /upload [post]
func (h *UploadHandler) UploadImages(c *gin.Context) {
	if h.uploader == nil {
		response.Error(c, http.StatusServiceUnavailable, response.ErrUploadFailed, "Image uploads are not configured")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid form data")
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "No files uploaded")
		return
	}

	files := make([]uploader.File, 0, len(headers))
	for _, fh := range headers {
		contentType := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Only images are allowed: "+fh.Filename)
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

		files = append(files, uploader.File{
			Key:         fh.Filename,
			ContentType: contentType,
			Data:        data,
		})
	}

	urls, err := h.uploader.UploadBundle(c.Request.Context(), files)
	if err != nil {
		response.Error(c, http.StatusBadGateway, response.ErrUploadFailed, err.Error())
		return
	}
	response.Success(c, urls)
}
