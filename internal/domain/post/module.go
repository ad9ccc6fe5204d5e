package post

import (
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/post/handler"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/post/repository"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/post/service"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/middleware"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// PostModule 帖子模块
type PostModule struct{}

func init() {
	registry.Register(&PostModule{})
}

func (m *PostModule) Name() string {
	return "post"
}

func (m *PostModule) Priority() int {
	return 10
}

func (m *PostModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	pRepo := repository.NewPostRepository(ctx.DB)
	pService := service.NewCachedPostService(service.NewPostService(pRepo), ctx.Cache)
	pHandler := handler.NewPostHandler(pService)

	// 2. 路由注册
	setupRoutes(ctx.Router, pHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.PostHandler) {
	g := r.Group("/posts")

	// 公开的浏览路由，发帖/改帖经由草稿会话提交
	g.GET("", h.GetFeed)
	g.GET("/:id", h.GetPost)

	// 运营审核路由
	admin := g.Group("")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.DELETE("/:id", h.DeletePost)
	}
}
