package dto

// ArticleCreateRequest 创建文章请求
type ArticleCreateRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Description string   `json:"description" binding:"omitempty,max=500"`
	Body        string   `json:"body"`
	Draft       string   `json:"draft"`
	Tags        []string `json:"tags"`
	Published   bool     `json:"published"`
}

// ArticleUpdateRequest 更新文章请求，nil字段保持原值
type ArticleUpdateRequest struct {
	Title       *string   `json:"title" binding:"omitempty,max=255"`
	Description *string   `json:"description" binding:"omitempty,max=500"`
	Body        *string   `json:"body"`
	Draft       *string   `json:"draft"`
	Tags        *[]string `json:"tags"`
}

// ArticleListRequest 文章列表请求
type ArticleListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Tag      string `form:"tag"`    // 按标签筛选
	Author   string `form:"author"` // 按作者用户名筛选
}

// ArticleResponse 文章响应
type ArticleResponse struct {
	ID            uint            `json:"id"`
	Title         string          `json:"title"`
	Slug          string          `json:"slug"`
	Description   string          `json:"description"`
	Body          string          `json:"body"`
	BodyHTML      string          `json:"body_html,omitempty"`
	Draft         string          `json:"draft,omitempty"` // 仅作者可见
	Editing       bool            `json:"editing"`
	Published     bool            `json:"published"`
	Tags          []string        `json:"tags"`
	Author        ProfileResponse `json:"author"`
	AverageRating *float64        `json:"average_rating"` // 无评分时为null
	LikeCount     int64           `json:"like_count"`
	DislikeCount  int64           `json:"dislike_count"`
	FavoriteCount int64           `json:"favorite_count"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

// ArticleListResponse 文章列表响应
type ArticleListResponse struct {
	Total int64             `json:"total"`
	List  []ArticleResponse `json:"list"`
}

// TagResponse 标签响应，附带关联文章数
type TagResponse struct {
	Name         string `json:"name"`
	ArticleCount int64  `json:"article_count"`
}
