package controller

import (
	"github.com/authorshaven/haven-api/internal/dto"
	"github.com/authorshaven/haven-api/internal/logger"
	"github.com/authorshaven/haven-api/internal/middleware"
	"github.com/authorshaven/haven-api/internal/service"
	"github.com/authorshaven/haven-api/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationApi 通知API控制器
type NotificationApi struct {
	logger              *zap.SugaredLogger
	notificationService *service.NotificationService
}

// NewNotificationApi 创建通知API控制器
func NewNotificationApi() *NotificationApi {
	return &NotificationApi{
		logger:              logger.GetSugaredLogger(),
		notificationService: service.NewNotificationService(),
	}
}

// List 获取当前用户的通知列表
func (api *NotificationApi) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	var req dto.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	resp, err := api.notificationService.ListForUser(userID, &req)
	if err != nil {
		handleServiceError(c, err, "获取通知失败")
		return
	}

	response.SuccessPage(c, "获取成功", gin.H{
		"notifications": resp.List,
		"unread_count":  resp.UnreadCount,
	}, req.Page, req.PageSize, resp.Total)
}

// MarkAsRead 标记单条通知已读
func (api *NotificationApi) MarkAsRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := api.notificationService.MarkAsRead(userID, notificationID); err != nil {
		handleServiceError(c, err, "标记已读失败")
		return
	}

	response.Success(c, "已标记为已读", nil)
}

// MarkAllAsRead 标记全部通知已读
func (api *NotificationApi) MarkAllAsRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	if err := api.notificationService.MarkAllAsRead(userID); err != nil {
		handleServiceError(c, err, "标记已读失败")
		return
	}

	response.Success(c, "全部通知已标记为已读", nil)
}
