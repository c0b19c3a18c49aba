package service

import (
	"errors"
	"sync"

	"github.com/authorshaven/haven-api/internal/database"
	"github.com/authorshaven/haven-api/internal/dto"
	"github.com/authorshaven/haven-api/internal/logger"
	"github.com/authorshaven/haven-api/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ratingService     *RatingService
	ratingServiceOnce sync.Once
)

// RatingService 文章评分服务
// 每人每篇文章一条评分，作者不能给自己的文章评分
type RatingService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// NewRatingService 创建评分服务实例
func NewRatingService() *RatingService {
	ratingServiceOnce.Do(func() {
		ratingService = &RatingService{
			db:     database.GetDB(),
			logger: logger.GetSugaredLogger(),
		}
	})
	return ratingService
}

// Rate 提交评分
func (s *RatingService) Rate(userID uint, slug string, req *dto.RatingRequest) (*model.Rating, error) {
	article, err := findVisibleArticle(s.db, slug)
	if err != nil {
		return nil, err
	}

	if article.Author.UserID == userID {
		return nil, ErrSelfRating
	}

	var count int64
	if err := s.db.Model(&model.Rating{}).
		Where("user_id = ? AND article_id = ?", userID, article.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyRated
	}

	rating := &model.Rating{
		UserID:    userID,
		ArticleID: article.ID,
		Value:     req.Value,
		Review:    req.Review,
	}
	if err := s.db.Create(rating).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyRated
		}
		return nil, err
	}
	return rating, nil
}

// Update 修改本人已有的评分
func (s *RatingService) Update(userID uint, slug string, req *dto.RatingRequest) (*model.Rating, error) {
	article, err := findVisibleArticle(s.db, slug)
	if err != nil {
		return nil, err
	}

	var rating model.Rating
	err = s.db.Where("user_id = ? AND article_id = ?", userID, article.ID).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}

	rating.Value = req.Value
	rating.Review = req.Review
	if err := s.db.Save(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// List 获取文章评分列表及平均分
func (s *RatingService) List(slug string, req *dto.RatingListRequest) (*dto.RatingListResponse, error) {
	article, err := findVisibleArticle(s.db, slug)
	if err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)

	var total int64
	if err := s.db.Model(&model.Rating{}).
		Where("article_id = ?", article.ID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var ratings []model.Rating
	if err := s.db.Preload("User").
		Where("article_id = ?", article.ID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&ratings).Error; err != nil {
		return nil, err
	}

	avg, err := ratingAverage(s.db, article.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.RatingListResponse{
		Total:   total,
		Average: avg,
		List:    make([]dto.RatingResponse, 0, len(ratings)),
	}
	for _, r := range ratings {
		resp.List = append(resp.List, dto.RatingResponse{
			ID:        r.ID,
			Value:     r.Value,
			Review:    r.Review,
			Username:  r.User.Username,
			CreatedAt: formatTime(r.CreatedAt),
		})
	}
	return resp, nil
}
