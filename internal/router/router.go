package router

import (
	"github.com/authorshaven/haven-api/internal/controller"
	"github.com/authorshaven/haven-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Setup 设置API路由
func Setup(r *gin.Engine) {
	// API 路由组
	api := r.Group("/api")

	// 用户相关路由
	setupUserRoutes(api)

	// 用户资料与关注路由
	setupProfileRoutes(api)

	// 文章相关路由
	setupArticleRoutes(api)

	// 评论相关路由
	setupCommentRoutes(api)

	// 互动相关路由
	setupInteractionRoutes(api)

	// 管理维护路由
	setupAdminRoutes(api)
}

// setupAdminRoutes 设置管理员维护路由
func setupAdminRoutes(api *gin.RouterGroup) {
	adminApi := controller.NewAdminApi()

	adminRoutes := api.Group("/admin", middleware.JWTAuth(), middleware.AdminAuth())
	{
		// 立即执行一次通知与孤儿标签清理
		adminRoutes.POST("/maintenance/cleanup", adminApi.Cleanup)
	}
}

// setupUserRoutes 设置用户相关路由
func setupUserRoutes(api *gin.RouterGroup) {
	userApi := controller.NewUserApi()
	notificationApi := controller.NewNotificationApi()

	// 公开路由
	userRoutes := api.Group("/users")
	{
		// 注册
		userRoutes.POST("", userApi.Register)
		// 登录
		userRoutes.POST("/login", userApi.Login)
		// 获取登录验证码
		userRoutes.GET("/captcha", userApi.Captcha)
		// 邮箱验证
		userRoutes.GET("/verify/:token", userApi.Verify)
		// 发起密码重置
		userRoutes.POST("/password-reset", userApi.RequestPasswordReset)
		// 确认密码重置
		userRoutes.PUT("/password-reset", userApi.ConfirmPasswordReset)
	}

	// 需要刷新令牌的路由
	refreshRoutes := api.Group("/users", middleware.RefreshAuth())
	{
		// 刷新令牌
		refreshRoutes.POST("/refresh", userApi.RefreshToken)
		// 登出
		refreshRoutes.POST("/logout", userApi.Logout)
	}

	// 需要认证的路由
	authUserRoutes := api.Group("/user", middleware.JWTAuth())
	{
		// 获取当前用户信息
		authUserRoutes.GET("", userApi.GetCurrent)
		// 更新当前用户信息
		authUserRoutes.PUT("", userApi.UpdateCurrent)

		// 通知列表
		authUserRoutes.GET("/notifications", notificationApi.List)
		// 全部标记已读
		authUserRoutes.PUT("/notifications", notificationApi.MarkAllAsRead)
		// 单条标记已读
		authUserRoutes.PUT("/notifications/:id", notificationApi.MarkAsRead)
	}
}

// setupProfileRoutes 设置资料与关注相关路由
func setupProfileRoutes(api *gin.RouterGroup) {
	profileApi := controller.NewProfileApi()

	// 公开路由，带可选认证以填充关注状态
	profileRoutes := api.Group("/profiles", middleware.OptionalAuth())
	{
		// 资料列表
		profileRoutes.GET("", profileApi.List)
		// 按用户名获取资料
		profileRoutes.GET("/:username", profileApi.Get)
	}

	// 需要认证的路由
	authProfileRoutes := api.Group("/profiles", middleware.JWTAuth())
	{
		// 关注用户
		authProfileRoutes.POST("/:username/follow", profileApi.Follow)
		// 取消关注
		authProfileRoutes.DELETE("/:username/follow", profileApi.Unfollow)
	}

	// 本人资料（含通知偏好）
	selfRoutes := api.Group("/user/profile", middleware.JWTAuth())
	{
		selfRoutes.GET("", profileApi.GetDetail)
		selfRoutes.PUT("", profileApi.Update)
	}
}

// setupArticleRoutes 设置文章相关路由
func setupArticleRoutes(api *gin.RouterGroup) {
	articleApi := controller.NewArticleApi()

	// 公开路由，带可选认证以支持作者查看未发布文章
	articleRoutes := api.Group("/articles", middleware.OptionalAuth())
	{
		// 文章列表
		articleRoutes.GET("", articleApi.List)
		// 标签列表
		articleRoutes.GET("/tags", articleApi.Tags)
		// 文章详情
		articleRoutes.GET("/:slug", articleApi.Get)
	}

	// 需要认证的路由
	authArticleRoutes := api.Group("/articles", middleware.JWTAuth())
	{
		// 创建文章
		authArticleRoutes.POST("/create", articleApi.Create)
		// 本人文章列表（含草稿与未发布）
		authArticleRoutes.GET("/mine", articleApi.Mine)
		// 更新文章
		authArticleRoutes.PUT("/:slug/edit", articleApi.Update)
		// 发布草稿
		authArticleRoutes.PATCH("/:slug/edit", articleApi.Publish)
		// 删除文章
		authArticleRoutes.DELETE("/:slug/edit", articleApi.Delete)
	}
}

// setupCommentRoutes 设置评论相关路由
func setupCommentRoutes(api *gin.RouterGroup) {
	commentApi := controller.NewCommentApi()

	// 公开路由
	commentRoutes := api.Group("/articles/:slug/comments")
	{
		// 评论列表
		commentRoutes.GET("", commentApi.List)
		// 评论详情
		commentRoutes.GET("/:id", commentApi.Get)
	}

	// 需要认证的路由
	authCommentRoutes := api.Group("/articles/:slug/comments", middleware.JWTAuth())
	{
		// 发表评论
		authCommentRoutes.POST("", commentApi.Create)
		// 回复评论
		authCommentRoutes.POST("/:id", commentApi.Reply)
		// 编辑评论
		authCommentRoutes.PUT("/:id", commentApi.Update)
		authCommentRoutes.PATCH("/:id", commentApi.Update)
		// 删除评论
		authCommentRoutes.DELETE("/:id", commentApi.Delete)
		// 恢复评论
		authCommentRoutes.PATCH("/:id/restore", commentApi.Restore)
	}
}

// setupInteractionRoutes 设置点赞、收藏、书签、评分相关路由
func setupInteractionRoutes(api *gin.RouterGroup) {
	interactionApi := controller.NewInteractionApi()

	// 公开路由
	publicRoutes := api.Group("/articles")
	{
		// 点赞聚合
		publicRoutes.GET("/:slug/likes", interactionApi.LikeSummary)
		// 评分列表与均分
		publicRoutes.GET("/:slug/rating", interactionApi.ListRatings)
	}

	// 需要认证的路由
	authRoutes := api.Group("/articles", middleware.JWTAuth())
	{
		// 收藏与书签的文章列表
		authRoutes.GET("/favorites", interactionApi.ListFavorites)
		authRoutes.GET("/bookmarks", interactionApi.ListBookmarks)

		// 点赞
		authRoutes.POST("/:slug/like", interactionApi.Like)
		authRoutes.GET("/:slug/like", interactionApi.GetLike)
		authRoutes.PATCH("/:slug/like/:id", interactionApi.UpdateLike)
		authRoutes.DELETE("/:slug/like/:id", interactionApi.DeleteLike)

		// 收藏
		authRoutes.POST("/:slug/favorite", interactionApi.Favorite)
		authRoutes.GET("/:slug/favorite", interactionApi.IsFavorited)
		authRoutes.DELETE("/:slug/favorite", interactionApi.Unfavorite)

		// 书签
		authRoutes.POST("/:slug/bookmark", interactionApi.Bookmark)
		authRoutes.GET("/:slug/bookmark", interactionApi.IsBookmarked)
		authRoutes.DELETE("/:slug/bookmark", interactionApi.Unbookmark)

		// 评分
		authRoutes.POST("/:slug/rate", interactionApi.Rate)
		authRoutes.PUT("/:slug/rate", interactionApi.UpdateRating)
	}
}
