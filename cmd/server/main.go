package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/rmfpdlxmtidl/alpaca-salon/docs"
	_ "github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/comment"
	_ "github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/common"
	_ "github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/draft"
	_ "github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/post"
	_ "github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/user"

	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/config"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/middleware"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/notifier"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/push"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/registry"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/uploader"
	"github.com/rmfpdlxmtidl/alpaca-salon/pkg/cache"
	"github.com/rmfpdlxmtidl/alpaca-salon/pkg/database"
	"github.com/rmfpdlxmtidl/alpaca-salon/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title Alpaca Salon API
// @version 1.0
// @description 알파카살롱 커뮤니티 API
// @BasePath /
func main() {
	config.LoadConfig()
	logger.Init(config.GlobalConfig.App.Debug)
	defer logger.Sync()

	db := database.InitDatabase()
	redisClient := database.InitRedis()

	// 上传协作方，OSS 未配置时发帖只能发纯文字
	var up uploader.Uploader
	if ossUploader, err := uploader.NewAliyunOSSUploader(); err != nil {
		logger.Log.Warn("OSS uploader disabled", zap.Error(err))
	} else {
		up = ossUploader
	}

	// 推送未配置时通知静默丢弃
	var pushService push.PushService
	if ps, err := push.NewAliyunPushService(); err != nil {
		logger.Log.Warn("Push service disabled", zap.Error(err))
	} else {
		pushService = ps
	}
	pool := notifier.NewPool(pushService, 4, 256)
	pool.Start()

	gin.SetMode(config.GlobalConfig.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.TraceMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://alpacasalon.kr", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	moduleCtx := &registry.ModuleContext{
		DB:       db,
		Redis:    redisClient,
		Router:   router,
		Cache:    cache.NewRedisCache(redisClient),
		Uploader: up,
		Notifier: pool,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		logger.Log.Fatal("Failed to initialize modules", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    ":" + config.GlobalConfig.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info("Server starting", zap.String("port", config.GlobalConfig.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Log.Info("Server exited")
}
