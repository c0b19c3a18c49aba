package model

import (
	"gorm.io/gorm"
)

// InitTables 初始化数据库表
func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Profile{},
		&ProfileFollow{},
		&Article{},
		&Tag{},
		&Comment{},
		&CommentSnapshot{},
		&Like{},
		&Favorite{},
		&Bookmark{},
		&Rating{},
		&Notification{},
		&NotificationSubscriber{},
		&NotificationRead{},
	)
}
