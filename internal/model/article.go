package model

// Article 文章模型
// 对外可见要求 published 且 activated，软删除通过 activated=false 实现
type Article struct {
	Base
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Slug        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:varchar(500)" json:"description"`
	Body        string `gorm:"type:text" json:"body"`
	Draft       string `gorm:"type:text" json:"draft"` // 工作副本，PATCH发布时拷贝进body
	Editing     bool   `gorm:"not null;default:false" json:"editing"`
	Published   bool   `gorm:"not null;default:false;index" json:"published"`
	Activated   bool   `gorm:"not null;default:true;index" json:"activated"`
	AuthorID    uint   `gorm:"not null;index" json:"author_id"`

	// 关联
	Author Profile `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Tags   []*Tag  `gorm:"many2many:article_tags;" json:"tags,omitempty"`
}

// TableName 指定表名
func (Article) TableName() string {
	return "articles"
}

// Visible 文章是否对公众可见
func (a *Article) Visible() bool {
	return a.Published && a.Activated
}
