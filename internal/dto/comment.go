package dto

// CommentCreateRequest 创建评论/回复请求
type CommentCreateRequest struct {
	Body string `json:"body" binding:"required"`
}

// CommentUpdateRequest 编辑评论请求
type CommentUpdateRequest struct {
	Body string `json:"body" binding:"required"`
}

// CommentSnapshotResponse 评论编辑历史响应
type CommentSnapshotResponse struct {
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

// CommentResponse 评论响应
type CommentResponse struct {
	ID        uint                      `json:"id"`
	Body      string                    `json:"body"`
	Author    ProfileResponse           `json:"author"`
	Edited    bool                      `json:"edited"`
	CreatedAt string                    `json:"created_at"`
	UpdatedAt string                    `json:"updated_at"`
	Replies   []CommentResponse         `json:"replies,omitempty"`
	History   []CommentSnapshotResponse `json:"history,omitempty"` // 编辑历史，新在前
}

// CommentListResponse 评论列表响应
type CommentListResponse struct {
	Total int64             `json:"total"`
	List  []CommentResponse `json:"list"`
}
