package model

// Tag 标签模型，名称入库前统一slug化
type Tag struct {
	Base
	Name string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`

	// 关联
	Articles []*Article `gorm:"many2many:article_tags;" json:"articles,omitempty"`
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}
