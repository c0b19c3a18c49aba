package dto

// ChannelPrefsUpdate 单渠道通知开关更新，仅更新提供的字段
type ChannelPrefsUpdate struct {
	ArticlePublished *bool `json:"article_published"`
	UserFollowed     *bool `json:"user_followed"`
	ArticleCommented *bool `json:"article_commented"`
	CommentReplied   *bool `json:"comment_replied"`
	ArticleLiked     *bool `json:"article_liked"`
	ArticleFavorited *bool `json:"article_favorited"`
}

// ProfileUpdateRequest 更新资料请求
type ProfileUpdateRequest struct {
	FirstName  *string             `json:"first_name" binding:"omitempty,max=50"`
	LastName   *string             `json:"last_name" binding:"omitempty,max=50"`
	Bio        *string             `json:"bio"`
	City       *string             `json:"city" binding:"omitempty,max=100"`
	Country    *string             `json:"country" binding:"omitempty,max=100"`
	Phone      *string             `json:"phone" binding:"omitempty,max=30"`
	Website    *string             `json:"website" binding:"omitempty,url"`
	Image      *string             `json:"image" binding:"omitempty,url"`
	AppPrefs   *ChannelPrefsUpdate `json:"app_prefs"`
	EmailPrefs *ChannelPrefsUpdate `json:"email_prefs"`
}

// ChannelPrefsResponse 单渠道通知开关响应
type ChannelPrefsResponse struct {
	ArticlePublished bool `json:"article_published"`
	UserFollowed     bool `json:"user_followed"`
	ArticleCommented bool `json:"article_commented"`
	CommentReplied   bool `json:"comment_replied"`
	ArticleLiked     bool `json:"article_liked"`
	ArticleFavorited bool `json:"article_favorited"`
}

// ProfileResponse 资料响应
type ProfileResponse struct {
	Username       string `json:"username"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	FullName       string `json:"full_name"`
	Bio            string `json:"bio"`
	City           string `json:"city"`
	Country        string `json:"country"`
	Phone          string `json:"phone"`
	Website        string `json:"website"`
	Image          string `json:"image"`
	Following      bool   `json:"following"` // 当前用户是否已关注
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
	CreatedAt      string `json:"created_at"`
}

// ProfileDetailResponse 本人资料响应，附带通知偏好
type ProfileDetailResponse struct {
	ProfileResponse
	AppPrefs   ChannelPrefsResponse `json:"app_prefs"`
	EmailPrefs ChannelPrefsResponse `json:"email_prefs"`
}

// ProfileListRequest 资料列表请求
type ProfileListRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}
