package controller

import (
	"github.com/authorshaven/haven-api/internal/logger"
	"github.com/authorshaven/haven-api/internal/service"
	"github.com/authorshaven/haven-api/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminApi 管理维护API控制器
type AdminApi struct {
	logger    *zap.SugaredLogger
	scheduler *service.SchedulerService
}

// NewAdminApi 创建管理维护API控制器
func NewAdminApi() *AdminApi {
	return &AdminApi{
		logger:    logger.GetSugaredLogger(),
		scheduler: service.NewSchedulerService(),
	}
}

// Cleanup 立即执行一次过期通知与孤儿标签清理
func (api *AdminApi) Cleanup(c *gin.Context) {
	if err := api.scheduler.RunCleanup(); err != nil {
		response.InternalServerError(c, "清理失败", err)
		return
	}

	api.logger.Info("管理员触发了数据清理")
	response.Success(c, "清理完成", nil)
}
