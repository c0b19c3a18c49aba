package model

// Comment 评论模型，两级结构：根评论可被回复，回复不可再被回复
type Comment struct {
	Base
	ArticleID uint   `gorm:"not null;index" json:"article_id"`
	AuthorID  uint   `gorm:"not null;index" json:"author_id"`
	ParentID  *uint  `gorm:"index" json:"parent_id"`
	Body      string `gorm:"type:text;not null" json:"body"`
	IsActive  bool   `gorm:"not null;default:true;index" json:"is_active"` // 软删除标记

	// 关联
	Article   Article           `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
	Author    Profile           `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Parent    *Comment          `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Replies   []*Comment        `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
	Snapshots []CommentSnapshot `gorm:"foreignKey:CommentID" json:"snapshots,omitempty"`
}

// TableName 指定表名
func (Comment) TableName() string {
	return "comments"
}

// IsRoot 是否为根评论
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}

// Edited 评论是否被编辑过，编辑历史非空即视为已编辑
func (c *Comment) Edited() bool {
	return len(c.Snapshots) > 0
}

// CommentSnapshot 评论编辑历史，每次编辑追加一条当次正文
type CommentSnapshot struct {
	Base
	CommentID uint   `gorm:"not null;index" json:"comment_id"`
	Body      string `gorm:"type:text;not null" json:"body"`
}

// TableName 指定表名
func (CommentSnapshot) TableName() string {
	return "comment_snapshots"
}
