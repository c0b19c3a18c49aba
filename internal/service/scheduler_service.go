package service

import (
	"sync"

	"github.com/authorshaven/haven-api/internal/config"
	"github.com/authorshaven/haven-api/internal/database"
	"github.com/authorshaven/haven-api/internal/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	schedulerService     *SchedulerService
	schedulerServiceOnce sync.Once
)

// SchedulerService 定时任务服务：过期通知清理、孤儿标签清理
type SchedulerService struct {
	db            *gorm.DB
	logger        *zap.SugaredLogger
	cron          *cron.Cron
	notifications *NotificationService
	tags          *TagService
}

// NewSchedulerService 创建定时任务服务实例
func NewSchedulerService() *SchedulerService {
	schedulerServiceOnce.Do(func() {
		schedulerService = &SchedulerService{
			db:            database.GetDB(),
			logger:        logger.GetSugaredLogger(),
			cron:          cron.New(),
			notifications: NewNotificationService(),
			tags:          NewTagService(),
		}
	})
	return schedulerService
}

// Start 注册并启动定时任务
func (s *SchedulerService) Start() error {
	cfg := config.GlobalConfig.Notification

	cleanupSpec := cfg.CleanupCron
	if cleanupSpec == "" {
		cleanupSpec = "0 3 * * *"
	}
	if _, err := s.cron.AddFunc(cleanupSpec, func() {
		if err := s.notifications.CleanupRead(cfg.CleanupDays); err != nil {
			s.logger.Errorf("通知清理任务失败: %v", err)
		}
	}); err != nil {
		return err
	}

	sweeperSpec := cfg.TagSweeper
	if sweeperSpec == "" {
		sweeperSpec = "30 3 * * *"
	}
	if _, err := s.cron.AddFunc(sweeperSpec, func() {
		if err := s.tags.PruneOrphans(s.db); err != nil {
			s.logger.Errorf("孤儿标签清理任务失败: %v", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("定时任务已启动")
	return nil
}

// RunCleanup 立即执行一次通知清理与孤儿标签清理
func (s *SchedulerService) RunCleanup() error {
	if err := s.notifications.CleanupRead(config.GlobalConfig.Notification.CleanupDays); err != nil {
		return err
	}
	return s.tags.PruneOrphans(s.db)
}

// Stop 停止定时任务，等待进行中的任务结束
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("定时任务已停止")
}
