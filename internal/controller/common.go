package controller

import (
	"errors"
	"strconv"

	"github.com/authorshaven/haven-api/internal/service"
	"github.com/authorshaven/haven-api/pkg/response"
	"github.com/gin-gonic/gin"
)

// handleServiceError 将服务层哨兵错误映射为HTTP响应
func handleServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrEmptyDraft),
		errors.Is(err, service.ErrReplyDepth),
		errors.Is(err, service.ErrSelfFollow),
		errors.Is(err, service.ErrInvalidCaptcha),
		errors.Is(err, service.ErrVerifyTokenInvalid),
		errors.Is(err, service.ErrResetTokenInvalid),
		errors.Is(err, service.ErrResetTokenExpired),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken):
		response.BadRequest(c, err.Error(), err)

	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error(), err)

	case errors.Is(err, service.ErrUserDisabled),
		errors.Is(err, service.ErrNotArticleAuthor),
		errors.Is(err, service.ErrNotCommentAuthor),
		errors.Is(err, service.ErrSelfRating),
		errors.Is(err, service.ErrAlreadyRated):
		response.Forbidden(c, err.Error(), err)

	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrArticleNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrLikeNotFound),
		errors.Is(err, service.ErrRatingNotFound),
		errors.Is(err, service.ErrNotificationNotFound),
		errors.Is(err, service.ErrNotFavorited),
		errors.Is(err, service.ErrNotBookmarked),
		errors.Is(err, service.ErrNotFollowing):
		response.NotFound(c, err.Error(), err)

	// 重复的点赞/收藏/书签/关注
	case errors.Is(err, service.ErrAlreadyReacted),
		errors.Is(err, service.ErrAlreadyFavorited),
		errors.Is(err, service.ErrAlreadyBookmarked),
		errors.Is(err, service.ErrAlreadyFollowing):
		response.NotAcceptable(c, err.Error(), err)

	default:
		response.InternalServerError(c, fallback, err)
	}
}

// parseIDParam 解析路径中的数字ID
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的"+name, err)
		return 0, false
	}
	return uint(id), true
}

// currentUserID 获取可选认证场景下的当前用户ID
func currentUserID(c *gin.Context) *uint {
	if id, exists := c.Get("userID"); exists {
		uid := id.(uint)
		return &uid
	}
	return nil
}
