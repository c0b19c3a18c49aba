package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/authorshaven/haven-api/internal/config"
	"github.com/authorshaven/haven-api/internal/database"
	"github.com/authorshaven/haven-api/internal/logger"
	"github.com/authorshaven/haven-api/internal/model"
	"github.com/authorshaven/haven-api/internal/router"
	"github.com/authorshaven/haven-api/internal/service"
	"github.com/authorshaven/haven-api/pkg/auth"
	"github.com/authorshaven/haven-api/pkg/geoip"
	"github.com/authorshaven/haven-api/pkg/mail"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var configPath string

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "haven-api",
	Short: "Author's Haven API服务",
	Long:  `Author's Haven 内容发布平台API服务，支持用户管理、文章发布、评论互动与通知`,
}

// serveCmd 启动服务命令
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动HTTP服务",
	Long:  `启动Author's Haven的HTTP服务器`,
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

func init() {
	// 添加全局标志
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./config", "配置文件路径")

	// 添加子命令
	rootCmd.AddCommand(serveCmd)
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// initializeSystem 初始化系统
func initializeSystem() error {
	// 初始化配置
	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("配置初始化失败: %v", err)
	}

	// 初始化日志
	if err := logger.Init(); err != nil {
		return fmt.Errorf("日志初始化失败: %v", err)
	}

	// 初始化MySQL数据库
	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("MySQL数据库连接失败")
	}

	// 初始化数据库表
	if err := model.InitTables(db); err != nil {
		return fmt.Errorf("初始化数据库表失败: %v", err)
	}

	// 令牌黑名单使用Redis存储
	auth.UseRedisBlacklist(database.GetRedis())

	// 初始化IP归属地数据库，缺失时登录地区留空
	if path := config.GlobalConfig.GeoIP.DBPath; path != "" {
		if err := geoip.Init(path); err != nil {
			logger.Warnf("IP归属地数据库加载失败: %v", err)
		}
	}

	return nil
}

// setupOutbox 按配置创建邮件发件队列并挂到相关服务
func setupOutbox() *mail.Outbox {
	cfg := config.GlobalConfig.Mail
	if !cfg.Enabled {
		return nil
	}

	mailer := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
	})
	outbox := mail.NewOutbox(mailer, logger.GetSugaredLogger(), cfg.Workers, cfg.QueueSize)

	service.NewUserService().SetOutbox(outbox)
	service.NewNotificationService().SetOutbox(outbox)
	return outbox
}

// startServer 启动HTTP服务
func startServer() {
	// 初始化系统
	if err := initializeSystem(); err != nil {
		fmt.Printf("系统初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	defer geoip.Close()

	// 邮件发件队列
	outbox := setupOutbox()

	// 定时任务：过期通知与孤儿标签清理
	scheduler := service.NewSchedulerService()
	if err := scheduler.Start(); err != nil {
		logger.Fatal("定时任务启动失败", zap.Error(err))
	}

	// 设置Gin模式
	gin.SetMode(config.GlobalConfig.App.Mode)

	// 初始化路由
	r := initRouter()

	// 启动HTTP服务
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.GlobalConfig.App.Port),
		Handler: r,
	}

	var g errgroup.Group
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	logger.Info("服务已启动", zap.String("addr", srv.Addr))

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("关闭服务...")

	// 设置关闭超时
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("服务关闭异常", zap.Error(err))
	}
	if err := g.Wait(); err != nil {
		logger.Fatal("HTTP服务异常退出", zap.Error(err))
	}

	// 停止定时任务并发完队列中的邮件
	scheduler.Stop()
	if outbox != nil {
		outbox.Close()
	}

	logger.Info("服务已关闭")
}

// 初始化路由
func initRouter() *gin.Engine {
	r := gin.New()

	// 使用中间件
	r.Use(logger.GinLogger())
	r.Use(logger.GinRecovery(true))

	// 初始化API路由
	router.Setup(r)

	return r
}
