package service

import "errors"

// 服务层哨兵错误，控制器据此映射HTTP状态码
var (
	// 用户
	ErrUsernameTaken      = errors.New("用户名已被占用")
	ErrEmailTaken         = errors.New("邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserDisabled       = errors.New("账号已被禁用")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrVerifyTokenInvalid = errors.New("验证链接无效")
	ErrResetTokenInvalid  = errors.New("重置链接无效")
	ErrResetTokenExpired  = errors.New("重置链接已过期")
	ErrInvalidCaptcha     = errors.New("验证码错误")

	// 资料与关注
	ErrProfileNotFound  = errors.New("用户资料不存在")
	ErrSelfFollow       = errors.New("不能关注自己")
	ErrAlreadyFollowing = errors.New("已经关注该用户")
	ErrNotFollowing     = errors.New("尚未关注该用户")

	// 文章
	ErrArticleNotFound  = errors.New("文章不存在")
	ErrNotArticleAuthor = errors.New("您不是该文章的作者")
	ErrEmptyDraft       = errors.New("草稿为空，无法发布")

	// 评论
	ErrCommentNotFound  = errors.New("评论不存在")
	ErrNotCommentAuthor = errors.New("您不是该评论的作者")
	ErrReplyDepth       = errors.New("不能回复二级评论")

	// 互动
	ErrAlreadyReacted    = errors.New("已对该文章表过态")
	ErrLikeNotFound      = errors.New("点赞记录不存在")
	ErrAlreadyFavorited  = errors.New("已收藏该文章")
	ErrNotFavorited      = errors.New("尚未收藏该文章")
	ErrAlreadyBookmarked = errors.New("已添加该书签")
	ErrNotBookmarked     = errors.New("书签不存在")

	// 评分
	ErrSelfRating     = errors.New("不能给自己的文章评分")
	ErrAlreadyRated   = errors.New("已给该文章评过分")
	ErrRatingNotFound = errors.New("评分记录不存在")

	// 通知
	ErrNotificationNotFound = errors.New("通知不存在")
)
