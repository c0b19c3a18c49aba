package model

// Like 点赞/点踩记录，(user, article)唯一
type Like struct {
	Base
	UserID    uint `gorm:"not null;uniqueIndex:idx_like_user_article" json:"user_id"`
	ArticleID uint `gorm:"not null;uniqueIndex:idx_like_user_article;index" json:"article_id"`
	IsLike    bool `gorm:"not null;default:true" json:"is_like"` // true点赞 false点踩

	// 关联
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Article Article `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
}

// TableName 指定表名
func (Like) TableName() string {
	return "likes"
}

// Favorite 收藏记录，(user, article)唯一
type Favorite struct {
	Base
	UserID    uint `gorm:"not null;uniqueIndex:idx_favorite_user_article" json:"user_id"`
	ArticleID uint `gorm:"not null;uniqueIndex:idx_favorite_user_article;index" json:"article_id"`

	// 关联
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Article Article `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
}

// TableName 指定表名
func (Favorite) TableName() string {
	return "favorites"
}

// Bookmark 书签记录，(user, article)唯一
type Bookmark struct {
	Base
	UserID    uint `gorm:"not null;uniqueIndex:idx_bookmark_user_article" json:"user_id"`
	ArticleID uint `gorm:"not null;uniqueIndex:idx_bookmark_user_article;index" json:"article_id"`

	// 关联
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Article Article `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
}

// TableName 指定表名
func (Bookmark) TableName() string {
	return "bookmarks"
}

// Rating 评分记录，(user, article)唯一，作者不可评分自己的文章
type Rating struct {
	Base
	UserID    uint   `gorm:"not null;uniqueIndex:idx_rating_user_article" json:"user_id"`
	ArticleID uint   `gorm:"not null;uniqueIndex:idx_rating_user_article;index" json:"article_id"`
	Value     int    `gorm:"not null" json:"value"` // 1-5
	Review    string `gorm:"type:text" json:"review"`

	// 关联
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Article Article `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
}

// TableName 指定表名
func (Rating) TableName() string {
	return "ratings"
}
