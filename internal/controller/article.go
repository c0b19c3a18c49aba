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

// ArticleApi 文章API控制器
type ArticleApi struct {
	logger         *zap.SugaredLogger
	articleService *service.ArticleService
	tagService     *service.TagService
}

// NewArticleApi 创建文章API控制器
func NewArticleApi() *ArticleApi {
	return &ArticleApi{
		logger:         logger.GetSugaredLogger(),
		articleService: service.NewArticleService(),
		tagService:     service.NewTagService(),
	}
}

// Create 创建文章
func (api *ArticleApi) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	var req dto.ArticleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	article, err := api.articleService.Create(userID, &req)
	if err != nil {
		handleServiceError(c, err, "创建文章失败")
		return
	}

	api.logger.Infof("文章创建成功: %s", article.Slug)
	response.Created(c, "创建成功", gin.H{
		"article": api.articleService.BuildResponse(article, true),
	})
}

// List 获取公开文章列表
func (api *ArticleApi) List(c *gin.Context) {
	var req dto.ArticleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	resp, err := api.articleService.List(&req)
	if err != nil {
		handleServiceError(c, err, "获取文章列表失败")
		return
	}

	response.SuccessPage(c, "获取成功", gin.H{"articles": resp.List}, req.Page, req.PageSize, resp.Total)
}

// Mine 获取本人文章列表
func (api *ArticleApi) Mine(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	var req dto.ArticleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	resp, err := api.articleService.Mine(userID, &req)
	if err != nil {
		handleServiceError(c, err, "获取文章列表失败")
		return
	}

	response.SuccessPage(c, "获取成功", gin.H{"articles": resp.List}, req.Page, req.PageSize, resp.Total)
}

// Get 获取文章详情
func (api *ArticleApi) Get(c *gin.Context) {
	uid := currentUserID(c)
	article, err := api.articleService.GetBySlug(c.Param("slug"), uid)
	if err != nil {
		handleServiceError(c, err, "获取文章失败")
		return
	}

	includeDraft := uid != nil && article.Author.UserID == *uid
	response.Success(c, "获取成功", gin.H{
		"article": api.articleService.BuildResponse(article, includeDraft),
	})
}

// Update 更新文章
func (api *ArticleApi) Update(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	var req dto.ArticleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	article, err := api.articleService.Update(userID, c.Param("slug"), &req)
	if err != nil {
		handleServiceError(c, err, "更新文章失败")
		return
	}

	response.Success(c, "更新成功", gin.H{
		"article": api.articleService.BuildResponse(article, true),
	})
}

// Publish 发布草稿
func (api *ArticleApi) Publish(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	article, err := api.articleService.Publish(userID, c.Param("slug"))
	if err != nil {
		handleServiceError(c, err, "发布失败")
		return
	}

	response.Success(c, "发布成功", gin.H{
		"article": api.articleService.BuildResponse(article, true),
	})
}

// Delete 删除文章
func (api *ArticleApi) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	if err := api.articleService.Delete(userID, c.Param("slug")); err != nil {
		handleServiceError(c, err, "删除文章失败")
		return
	}

	response.Success(c, "删除成功", nil)
}

// Tags 获取标签列表
func (api *ArticleApi) Tags(c *gin.Context) {
	tags, err := api.tagService.List()
	if err != nil {
		handleServiceError(c, err, "获取标签列表失败")
		return
	}

	response.Success(c, "获取成功", gin.H{"tags": tags})
}
