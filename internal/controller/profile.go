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

// ProfileApi 用户资料API控制器
type ProfileApi struct {
	logger         *zap.SugaredLogger
	profileService *service.ProfileService
}

// NewProfileApi 创建资料API控制器
func NewProfileApi() *ProfileApi {
	return &ProfileApi{
		logger:         logger.GetSugaredLogger(),
		profileService: service.NewProfileService(),
	}
}

// List 获取资料列表
func (api *ProfileApi) List(c *gin.Context) {
	var req dto.ProfileListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	list, total, err := api.profileService.List(&req, currentUserID(c))
	if err != nil {
		handleServiceError(c, err, "获取资料列表失败")
		return
	}

	response.SuccessPage(c, "获取成功", gin.H{"profiles": list}, req.Page, req.PageSize, total)
}

// Get 按用户名获取资料
func (api *ProfileApi) Get(c *gin.Context) {
	profile, err := api.profileService.GetByUsername(c.Param("username"), currentUserID(c))
	if err != nil {
		handleServiceError(c, err, "获取资料失败")
		return
	}

	response.Success(c, "获取成功", gin.H{"profile": profile})
}

// GetDetail 获取本人资料，附带通知偏好
func (api *ProfileApi) GetDetail(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	detail, err := api.profileService.GetDetail(userID)
	if err != nil {
		handleServiceError(c, err, "获取资料失败")
		return
	}

	response.Success(c, "获取成功", gin.H{"profile": detail})
}

// Update 更新本人资料
func (api *ProfileApi) Update(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	var req dto.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	if _, err := api.profileService.Update(userID, &req); err != nil {
		handleServiceError(c, err, "更新资料失败")
		return
	}

	detail, err := api.profileService.GetDetail(userID)
	if err != nil {
		handleServiceError(c, err, "获取资料失败")
		return
	}

	response.Success(c, "更新成功", gin.H{"profile": detail})
}

// Follow 关注用户
func (api *ProfileApi) Follow(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	username := c.Param("username")
	if err := api.profileService.Follow(userID, username); err != nil {
		handleServiceError(c, err, "关注失败")
		return
	}

	profile, err := api.profileService.GetByUsername(username, &userID)
	if err != nil {
		handleServiceError(c, err, "获取资料失败")
		return
	}

	response.Success(c, "关注成功", gin.H{"profile": profile})
}

// Unfollow 取消关注
func (api *ProfileApi) Unfollow(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	username := c.Param("username")
	if err := api.profileService.Unfollow(userID, username); err != nil {
		handleServiceError(c, err, "取消关注失败")
		return
	}

	profile, err := api.profileService.GetByUsername(username, &userID)
	if err != nil {
		handleServiceError(c, err, "获取资料失败")
		return
	}

	response.Success(c, "已取消关注", gin.H{"profile": profile})
}
