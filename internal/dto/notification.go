package dto

// NotificationListRequest 通知列表请求
type NotificationListRequest struct {
	Page     int   `form:"page"`
	PageSize int   `form:"page_size"`
	IsRead   *bool `form:"is_read"` // 按已读状态筛选
}

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID             uint   `json:"id"`
	Sender         string `json:"sender"`
	Classification string `json:"classification"`
	Body           string `json:"body"`
	IsRead         bool   `json:"is_read"`
	CreatedAt      string `json:"created_at"`
}

// NotificationListResponse 通知列表响应
type NotificationListResponse struct {
	Total       int64                  `json:"total"`
	UnreadCount int64                  `json:"unread_count"`
	List        []NotificationResponse `json:"list"`
}
