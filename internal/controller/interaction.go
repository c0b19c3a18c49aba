package controller

import (
	"github.com/authorshaven/haven-api/internal/dto"
	"github.com/authorshaven/haven-api/internal/logger"
	"github.com/authorshaven/haven-api/internal/middleware"
	"github.com/authorshaven/haven-api/internal/model"
	"github.com/authorshaven/haven-api/internal/service"
	"github.com/authorshaven/haven-api/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InteractionApi 文章互动API控制器：点赞、收藏、书签、评分
type InteractionApi struct {
	logger             *zap.SugaredLogger
	interactionService *service.InteractionService
	ratingService      *service.RatingService
	articleService     *service.ArticleService
}

// NewInteractionApi 创建互动API控制器
func NewInteractionApi() *InteractionApi {
	return &InteractionApi{
		logger:             logger.GetSugaredLogger(),
		interactionService: service.NewInteractionService(),
		ratingService:      service.NewRatingService(),
		articleService:     service.NewArticleService(),
	}
}

func buildLikeResponse(like *model.Like) dto.LikeResponse {
	return dto.LikeResponse{
		ID:        like.ID,
		IsLike:    like.IsLike,
		Username:  like.User.Username,
		CreatedAt: like.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// Like 点赞或点踩文章
func (api *InteractionApi) Like(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	var req dto.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	like, err := api.interactionService.Like(userID, c.Param("slug"), *req.IsLike)
	if err != nil {
		handleServiceError(c, err, "操作失败")
		return
	}

	response.Created(c, "操作成功", gin.H{"like": buildLikeResponse(like)})
}

// GetLike 获取本人对文章的点赞记录
func (api *InteractionApi) GetLike(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	like, err := api.interactionService.GetLike(userID, c.Param("slug"))
	if err != nil {
		handleServiceError(c, err, "获取点赞记录失败")
		return
	}

	response.Success(c, "获取成功", gin.H{"like": buildLikeResponse(like)})
}

// UpdateLike 切换点赞方向
func (api *InteractionApi) UpdateLike(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	likeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	like, err := api.interactionService.UpdateLike(userID, c.Param("slug"), likeID, *req.IsLike)
	if err != nil {
		handleServiceError(c, err, "更新失败")
		return
	}

	response.Success(c, "更新成功", gin.H{"like": buildLikeResponse(like)})
}

// DeleteLike 撤销点赞
func (api *InteractionApi) DeleteLike(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	likeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := api.interactionService.DeleteLike(userID, c.Param("slug"), likeID); err != nil {
		handleServiceError(c, err, "撤销失败")
		return
	}

	response.Success(c, "已撤销", nil)
}

// LikeSummary 获取点赞聚合
func (api *InteractionApi) LikeSummary(c *gin.Context) {
	summary, err := api.interactionService.LikeSummary(c.Param("slug"))
	if err != nil {
		handleServiceError(c, err, "获取失败")
		return
	}

	response.Success(c, "获取成功", gin.H{"summary": summary})
}

// Favorite 收藏文章
func (api *InteractionApi) Favorite(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	if err := api.interactionService.Favorite(userID, c.Param("slug")); err != nil {
		handleServiceError(c, err, "收藏失败")
		return
	}

	response.Created(c, "收藏成功", nil)
}

// Unfavorite 取消收藏
func (api *InteractionApi) Unfavorite(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	if err := api.interactionService.Unfavorite(userID, c.Param("slug")); err != nil {
		handleServiceError(c, err, "取消收藏失败")
		return
	}

	response.Success(c, "已取消收藏", nil)
}

// IsFavorited 查询是否已收藏
func (api *InteractionApi) IsFavorited(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	favorited, err := api.interactionService.IsFavorited(userID, c.Param("slug"))
	if err != nil {
		handleServiceError(c, err, "查询失败")
		return
	}

	response.Success(c, "获取成功", gin.H{"favorited": favorited})
}

// ListFavorites 获取收藏的文章列表
func (api *InteractionApi) ListFavorites(c *gin.Context) {
	api.listMarked(c, api.interactionService.ListFavorites)
}

// Bookmark 添加书签
func (api *InteractionApi) Bookmark(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	if err := api.interactionService.Bookmark(userID, c.Param("slug")); err != nil {
		handleServiceError(c, err, "添加书签失败")
		return
	}

	response.Created(c, "书签添加成功", nil)
}

// Unbookmark 移除书签
func (api *InteractionApi) Unbookmark(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	if err := api.interactionService.Unbookmark(userID, c.Param("slug")); err != nil {
		handleServiceError(c, err, "移除书签失败")
		return
	}

	response.Success(c, "书签已移除", nil)
}

// IsBookmarked 查询是否已加书签
func (api *InteractionApi) IsBookmarked(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	bookmarked, err := api.interactionService.IsBookmarked(userID, c.Param("slug"))
	if err != nil {
		handleServiceError(c, err, "查询失败")
		return
	}

	response.Success(c, "获取成功", gin.H{"bookmarked": bookmarked})
}

// ListBookmarks 获取书签文章列表
func (api *InteractionApi) ListBookmarks(c *gin.Context) {
	api.listMarked(c, api.interactionService.ListBookmarks)
}

func (api *InteractionApi) listMarked(c *gin.Context, list func(uint, int, int) ([]model.Article, int64, error)) {
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

	articles, total, err := list(userID, req.Page, req.PageSize)
	if err != nil {
		handleServiceError(c, err, "获取列表失败")
		return
	}

	resp := make([]dto.ArticleResponse, 0, len(articles))
	for i := range articles {
		resp = append(resp, api.articleService.BuildResponse(&articles[i], false))
	}
	response.SuccessPage(c, "获取成功", gin.H{"articles": resp}, req.Page, req.PageSize, total)
}

// Rate 提交评分
func (api *InteractionApi) Rate(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	var req dto.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	rating, err := api.ratingService.Rate(userID, c.Param("slug"), &req)
	if err != nil {
		handleServiceError(c, err, "评分失败")
		return
	}

	response.Created(c, "评分成功", gin.H{
		"rating": gin.H{"id": rating.ID, "value": rating.Value, "review": rating.Review},
	})
}

// UpdateRating 修改本人评分
func (api *InteractionApi) UpdateRating(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Unauthorized(c, "需要登录", nil)
		return
	}

	var req dto.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	rating, err := api.ratingService.Update(userID, c.Param("slug"), &req)
	if err != nil {
		handleServiceError(c, err, "修改评分失败")
		return
	}

	response.Success(c, "修改成功", gin.H{
		"rating": gin.H{"id": rating.ID, "value": rating.Value, "review": rating.Review},
	})
}

// ListRatings 获取文章评分列表
func (api *InteractionApi) ListRatings(c *gin.Context) {
	var req dto.RatingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	resp, err := api.ratingService.List(c.Param("slug"), &req)
	if err != nil {
		handleServiceError(c, err, "获取评分列表失败")
		return
	}

	response.SuccessPage(c, "获取成功", gin.H{
		"average": resp.Average,
		"ratings": resp.List,
	}, req.Page, req.PageSize, resp.Total)
}
