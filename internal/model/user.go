package model

import "time"

// User 用户模型
type User struct {
	Base
	Username string `gorm:"type:varchar(30);not null;uniqueIndex" json:"username"`
	Email    string `gorm:"type:varchar(100);not null;uniqueIndex" json:"email"`
	Password string `gorm:"type:varchar(100);not null" json:"-"`
	Role     string `gorm:"type:varchar(20);not null;default:'user'" json:"role"` // 角色: user admin
	Status   int    `gorm:"type:int;not null;default:1" json:"status"`            // 状态: 1正常 0禁用

	// 邮箱验证与密码重置
	IsVerified       bool       `gorm:"not null;default:false" json:"is_verified"`
	VerifyToken      string     `gorm:"type:varchar(64);index" json:"-"`
	ResetToken       string     `gorm:"type:varchar(64);index" json:"-"`
	ResetTokenExpire *time.Time `json:"-"`

	// 最近登录信息
	LastLoginAt     *time.Time `json:"last_login_at"`
	LastLoginIP     string     `gorm:"type:varchar(45)" json:"-"`
	LastLoginRegion string     `gorm:"type:varchar(100)" json:"last_login_region"`

	// 关联
	Profile Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsActive 用户是否可用
func (u *User) IsActive() bool {
	return u.Status == 1
}
