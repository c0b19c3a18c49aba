package model

// 通知事件分类
const (
	ClassArticlePublished = "article_published"
	ClassUserFollowed     = "user_followed"
	ClassArticleCommented = "article_commented"
	ClassCommentReplied   = "comment_replied"
	ClassArticleLiked     = "article_liked"
	ClassArticleFavorited = "article_favorited"
)

// Notification 通知模型，一次事件一条记录，接收人挂在订阅表上
type Notification struct {
	Base
	SenderID       uint   `gorm:"not null;index" json:"sender_id"`
	Classification string `gorm:"type:varchar(30);not null;index" json:"classification"`
	Body           string `gorm:"type:varchar(500);not null" json:"body"`

	// 关联
	Sender      User                     `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Subscribers []NotificationSubscriber `gorm:"foreignKey:NotificationID" json:"subscribers,omitempty"`
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}

// NotificationSubscriber 通知的应用内接收人，(notification, user)唯一
type NotificationSubscriber struct {
	Base
	NotificationID uint `gorm:"not null;uniqueIndex:idx_notify_subscriber" json:"notification_id"`
	UserID         uint `gorm:"not null;uniqueIndex:idx_notify_subscriber;index" json:"user_id"`
}

// TableName 指定表名
func (NotificationSubscriber) TableName() string {
	return "notification_subscribers"
}

// NotificationRead 已读标记，(notification, user)唯一，重复标记幂等
type NotificationRead struct {
	Base
	NotificationID uint `gorm:"not null;uniqueIndex:idx_notify_read" json:"notification_id"`
	UserID         uint `gorm:"not null;uniqueIndex:idx_notify_read;index" json:"user_id"`
}

// TableName 指定表名
func (NotificationRead) TableName() string {
	return "notification_reads"
}
