package draft

import (
	"time"

	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/draft/handler"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/draft/service"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/draft/store"
	postRepo "github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/post/repository"
	postService "github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/post/service"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/config"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/middleware"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// DraftModule 编写会话模块
type DraftModule struct{}

func init() {
	registry.Register(&DraftModule{})
}

func (m *DraftModule) Name() string {
	return "draft"
}

func (m *DraftModule) Priority() int {
	return 30
}

func (m *DraftModule) Init(ctx *registry.ModuleContext) error {
	cfg := config.GlobalConfig.Draft

	// 1. 依赖注入
	sessionStore := store.NewStore(cfg.TTL())
	sessionStore.StartJanitor(time.Minute)

	pRepo := postRepo.NewPostRepository(ctx.DB)
	pService := postService.NewCachedPostService(postService.NewPostService(pRepo), ctx.Cache)
	dService := service.NewDraftService(sessionStore, pService, ctx.Uploader, ctx.Notifier, cfg.MaxImages)
	dHandler := handler.NewDraftHandler(dService)

	// 2. 路由注册
	setupRoutes(ctx.Router, dHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.DraftHandler) {
	g := r.Group("/drafts")
	g.Use(middleware.AuthMiddleware())
	{
		g.POST("", middleware.RateLimitMiddleware(), h.CreateDraft)
		g.GET("/:id", h.GetDraft)
		g.PUT("/:id", h.SetFields)
		g.POST("/:id/images", middleware.RateLimitMiddleware(), h.StageImages)
		g.GET("/:id/images/:localId", h.GetStagedImage)
		g.DELETE("/:id/images/:localId", h.UnstageImage)
		g.POST("/:id/submit", middleware.RateLimitMiddleware(), h.Submit)
	}

	// 改帖会话挂在帖子资源下
	r.POST("/posts/:id/draft", middleware.AuthMiddleware(), middleware.RateLimitMiddleware(), h.CreateUpdateDraft)
}
