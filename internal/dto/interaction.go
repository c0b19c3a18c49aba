package dto

// LikeRequest 点赞/点踩请求
type LikeRequest struct {
	IsLike *bool `json:"is_like" binding:"required"`
}

// LikeResponse 点赞记录响应
type LikeResponse struct {
	ID        uint   `json:"id"`
	IsLike    bool   `json:"is_like"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// LikeSummaryResponse 点赞聚合响应
type LikeSummaryResponse struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

// RatingRequest 评分请求
type RatingRequest struct {
	Value  int    `json:"value" binding:"required,min=1,max=5"`
	Review string `json:"review"`
}

// RatingResponse 评分响应
type RatingResponse struct {
	ID        uint   `json:"id"`
	Value     int    `json:"value"`
	Review    string `json:"review"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// RatingListRequest 评分列表请求
type RatingListRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// RatingListResponse 评分列表响应
type RatingListResponse struct {
	Total   int64            `json:"total"`
	Average *float64         `json:"average"` // 无评分时为null
	List    []RatingResponse `json:"list"`
}
