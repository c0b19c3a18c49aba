package service

import (
	"database/sql"
	"errors"
	"time"

	"github.com/authorshaven/haven-api/internal/model"
	"gorm.io/gorm"
)

const timeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// normalizePage 规范分页参数
func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// findArticleBySlug 按slug查找文章并预加载作者
func findArticleBySlug(db *gorm.DB, slug string) (*model.Article, error) {
	var article model.Article
	if err := db.Preload("Author.User").Where("slug = ?", slug).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

// findVisibleArticle 按slug查找对外可见的文章
func findVisibleArticle(db *gorm.DB, slug string) (*model.Article, error) {
	article, err := findArticleBySlug(db, slug)
	if err != nil {
		return nil, err
	}
	if !article.Visible() {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

// ratingAverage 计算文章平均评分，无评分返回nil
func ratingAverage(db *gorm.DB, articleID uint) (*float64, error) {
	var avg sql.NullFloat64
	err := db.Model(&model.Rating{}).
		Where("article_id = ?", articleID).
		Select("AVG(value)").
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// findProfileByUserID 查找用户对应的资料
func findProfileByUserID(db *gorm.DB, userID uint) (*model.Profile, error) {
	var profile model.Profile
	if err := db.Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}
