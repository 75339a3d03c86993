package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pu-ac-cn/auth-center/internal/config"
	"github.com/pu-ac-cn/auth-center/internal/database"
	"github.com/pu-ac-cn/auth-center/internal/handler"
	"github.com/pu-ac-cn/auth-center/internal/middleware"
	"github.com/pu-ac-cn/auth-center/internal/model"
	"github.com/pu-ac-cn/auth-center/internal/redis"
	"github.com/pu-ac-cn/auth-center/internal/repository"
	"github.com/pu-ac-cn/auth-center/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("未配置 JWT 签名密钥（jwt.secret）")
	}

	// 初始化数据库连接
	if err := database.Init(&cfg.Database); err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	defer database.Close()
	log.Println("数据库连接成功")

	// 初始化 Redis 连接
	if err := redis.Init(&cfg.Redis); err != nil {
		log.Fatalf("初始化 Redis 失败: %v", err)
	}
	defer redis.Close()
	log.Println("Redis 连接成功")

	// 自动迁移数据库表
	if err := database.AutoMigrate(&model.Client{}); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}
	log.Println("数据库迁移完成")

	// 初始化 Repository
	clientRepo := repository.NewClientRepository(database.GetDB())

	// 初始化 Service
	tokenService := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)
	sessionService := service.NewSessionService(redis.GetClient(), &service.SessionServiceConfig{
		CachePrefix: cfg.Security.CachePrefix,
		OpTimeout:   cfg.Security.StoreTimeout,
	})
	clientService := service.NewClientService(clientRepo, cfg.Security.ClientCacheTTL)
	authenticator := service.NewAuthenticator(tokenService, sessionService)
	loginService := service.NewLoginService(tokenService, sessionService, clientService, &service.LoginServiceConfig{
		AccessExpiry:  cfg.JWT.AccessExpiry,
		RefreshExpiry: cfg.JWT.RefreshExpiry,
	})

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(loginService)

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()

	// 全局中间件
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		dbStatus := "ok"
		if err := database.Ping(); err != nil {
			dbStatus = "error"
		}

		redisStatus := "ok"
		if err := redis.GetClient().Ping(c.Request.Context()).Err(); err != nil {
			redisStatus = "error"
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"database": dbStatus,
			"redis":    redisStatus,
		})
	})

	// 登录状态查询：可选认证，匿名与持有效令牌的请求都放行
	router.GET("/api/v1/token/status", middleware.OptionalAuth(authenticator), authHandler.Status)

	// API 路由，统一经过认证中间件，豁免路径匿名放行
	api := router.Group("/api/v1")
	api.Use(middleware.Auth(authenticator, cfg.Security.ExemptPaths))
	{
		// 会话签发：上游认证服务完成凭据校验后内部调用
		api.POST("/token/create", middleware.InternalOnly(false), authHandler.Create)
		// 令牌刷新：凭刷新令牌换发，无需携带访问令牌
		api.POST("/token/refresh", authHandler.Refresh)

		// 需要登录态的路由
		api.DELETE("/token/logout", middleware.RequireLogin(), authHandler.Logout)
		api.GET("/token/userinfo", middleware.RequireLogin(), authHandler.UserInfo)
	}

	// 创建 HTTP 服务器
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		log.Printf("服务启动，监听地址: %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，等待 5 秒
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务关闭失败: %v", err)
	}

	log.Println("服务已关闭")
}
