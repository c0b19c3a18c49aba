package model

// ChannelPrefs 单个通知渠道的事件开关，全部默认开启
type ChannelPrefs struct {
	ArticlePublished bool `gorm:"not null;default:true" json:"article_published"`
	UserFollowed     bool `gorm:"not null;default:true" json:"user_followed"`
	ArticleCommented bool `gorm:"not null;default:true" json:"article_commented"`
	CommentReplied   bool `gorm:"not null;default:true" json:"comment_replied"`
	ArticleLiked     bool `gorm:"not null;default:true" json:"article_liked"`
	ArticleFavorited bool `gorm:"not null;default:true" json:"article_favorited"`
}

// DefaultChannelPrefs 全开的渠道偏好
func DefaultChannelPrefs() ChannelPrefs {
	return ChannelPrefs{
		ArticlePublished: true,
		UserFollowed:     true,
		ArticleCommented: true,
		CommentReplied:   true,
		ArticleLiked:     true,
		ArticleFavorited: true,
	}
}

// Allows 判断指定事件分类是否开启
func (p ChannelPrefs) Allows(classification string) bool {
	switch classification {
	case ClassArticlePublished:
		return p.ArticlePublished
	case ClassUserFollowed:
		return p.UserFollowed
	case ClassArticleCommented:
		return p.ArticleCommented
	case ClassCommentReplied:
		return p.CommentReplied
	case ClassArticleLiked:
		return p.ArticleLiked
	case ClassArticleFavorited:
		return p.ArticleFavorited
	default:
		return true
	}
}

// Profile 用户资料模型，注册时随用户自动创建
type Profile struct {
	Base
	UserID    uint   `gorm:"not null;uniqueIndex" json:"user_id"`
	FirstName string `gorm:"type:varchar(50)" json:"first_name"`
	LastName  string `gorm:"type:varchar(50)" json:"last_name"`
	Bio       string `gorm:"type:text" json:"bio"`
	City      string `gorm:"type:varchar(100)" json:"city"`
	Country   string `gorm:"type:varchar(100)" json:"country"`
	Phone     string `gorm:"type:varchar(30)" json:"phone"`
	Website   string `gorm:"type:varchar(255)" json:"website"`
	Image     string `gorm:"type:varchar(255)" json:"image"`

	// 通知偏好，按渠道各一组开关
	AppPrefs   ChannelPrefs `gorm:"embedded;embeddedPrefix:app_" json:"app_prefs"`
	EmailPrefs ChannelPrefs `gorm:"embedded;embeddedPrefix:email_" json:"email_prefs"`

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Profile) TableName() string {
	return "profiles"
}

// FullName 拼接姓名
func (p *Profile) FullName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.LastName
	}
}

// ProfileFollow 关注关系，(follower, followed)唯一
type ProfileFollow struct {
	Base
	FollowerID uint `gorm:"not null;uniqueIndex:idx_follower_followed" json:"follower_id"`
	FollowedID uint `gorm:"not null;uniqueIndex:idx_follower_followed;index" json:"followed_id"`

	// 关联
	Follower Profile `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followed Profile `gorm:"foreignKey:FollowedID" json:"followed,omitempty"`
}

// TableName 指定表名
func (ProfileFollow) TableName() string {
	return "profile_follows"
}
