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

// CommentApi 评论API控制器
type CommentApi struct {
	logger         *zap.SugaredLogger
	commentService *service.CommentService
}

// NewCommentApi 创建评论API控制器
func NewCommentApi() *CommentApi {
	return &CommentApi{
		logger:         logger.GetSugaredLogger(),
		commentService: service.NewCommentService(),
	}
}

// List 获取文章评论列表
func (api *CommentApi) List(c *gin.Context) {
	resp, err := api.commentService.ListByArticle(c.Param("slug"))
	if err != nil {
		handleServiceError(c, err, "获取评论列表失败")
		return
	}

	response.Success(c, "获取成功", gin.H{
		"comments": resp.List,
		"total":    resp.Total,
	})
}

// Get 获取单条评论
func (api *CommentApi) Get(c *gin.Context) {
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := api.commentService.Get(c.Param("slug"), commentID)
	if err != nil {
		handleServiceError(c, err, "获取评论失败")
		return
	}

	response.Success(c, "获取成功", gin.H{"comment": resp})
}

// Create 发表根评论
func (api *CommentApi) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	var req dto.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	comment, err := api.commentService.Create(userID, c.Param("slug"), &req)
	if err != nil {
		handleServiceError(c, err, "发表评论失败")
		return
	}

	response.Created(c, "评论成功", gin.H{
		"comment": api.commentService.BuildResponse(comment),
	})
}

// Reply 回复根评论
func (api *CommentApi) Reply(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	parentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	reply, err := api.commentService.Reply(userID, c.Param("slug"), parentID, &req)
	if err != nil {
		handleServiceError(c, err, "回复失败")
		return
	}

	response.Created(c, "回复成功", gin.H{
		"comment": api.commentService.BuildResponse(reply),
	})
}

// Update 编辑评论
func (api *CommentApi) Update(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CommentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	comment, err := api.commentService.Update(userID, c.Param("slug"), commentID, &req)
	if err != nil {
		handleServiceError(c, err, "编辑评论失败")
		return
	}

	response.Success(c, "编辑成功", gin.H{
		"comment": api.commentService.BuildResponse(comment),
	})
}

// Delete 删除评论
func (api *CommentApi) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	role, _ := middleware.GetUserRole(c)
	if err := api.commentService.Delete(userID, c.Param("slug"), commentID, role == "admin"); err != nil {
		handleServiceError(c, err, "删除评论失败")
		return
	}

	response.Success(c, "删除成功", nil)
}

// Restore 恢复被删除的评论
func (api *CommentApi) Restore(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comment, err := api.commentService.Restore(userID, c.Param("slug"), commentID)
	if err != nil {
		handleServiceError(c, err, "恢复评论失败")
		return
	}

	response.Success(c, "恢复成功", gin.H{
		"comment": api.commentService.BuildResponse(comment),
	})
}
