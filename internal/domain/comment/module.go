package comment

import (
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/comment/handler"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/comment/repository"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/comment/service"
	postRepo "github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/post/repository"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/middleware"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CommentModule 评论模块
type CommentModule struct{}

func init() {
	registry.Register(&CommentModule{})
}

func (m *CommentModule) Name() string {
	return "comment"
}

func (m *CommentModule) Priority() int {
	return 20
}

func (m *CommentModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	cRepo := repository.NewCommentRepository(ctx.DB)
	pRepo := postRepo.NewPostRepository(ctx.DB)
	cService := service.NewCommentService(cRepo, pRepo, ctx.Notifier)
	cHandler := handler.NewCommentHandler(cService, ctx.Notifier)

	// 2. 路由注册
	setupRoutes(ctx.Router, cHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CommentHandler) {
	g := r.Group("/posts/:id/comments")

	g.GET("", h.GetComments)

	auth := g.Group("")
	auth.Use(middleware.AuthMiddleware(), middleware.RateLimitMiddleware())
	{
		auth.POST("", h.AddComment)
	}
}
