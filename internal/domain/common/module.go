package common

import (
	"net/http"

	commonHandler "github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/common"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/middleware"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CommonModule 通用功能模块
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 最后初始化
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	uHandler := commonHandler.NewUploadHandler(ctx.Uploader)
	setupRoutes(ctx.Router, uHandler)
	return nil
}

func setupRoutes(r *gin.Engine, h *commonHandler.UploadHandler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 头像等独立图片上传
	r.POST("/upload", middleware.AuthMiddleware(), middleware.RateLimitMiddleware(), h.UploadImages)
}
