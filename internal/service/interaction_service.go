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
	interactionService     *InteractionService
	interactionServiceOnce sync.Once
)

// InteractionService 文章互动服务：点赞、收藏、书签
// (用户, 文章)组合由唯一索引兜底，业务层先查后插只为返回友好错误
type InteractionService struct {
	db       *gorm.DB
	logger   *zap.SugaredLogger
	notifier *NotificationService
}

// NewInteractionService 创建互动服务实例
func NewInteractionService() *InteractionService {
	interactionServiceOnce.Do(func() {
		interactionService = &InteractionService{
			db:       database.GetDB(),
			logger:   logger.GetSugaredLogger(),
			notifier: NewNotificationService(),
		}
	})
	return interactionService
}

// Like 点赞或点踩文章
func (s *InteractionService) Like(userID uint, slug string, isLike bool) (*model.Like, error) {
	article, err := findVisibleArticle(s.db, slug)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&model.Like{}).
		Where("user_id = ? AND article_id = ?", userID, article.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyReacted
	}

	like := &model.Like{UserID: userID, ArticleID: article.ID, IsLike: isLike}
	if err := s.db.Create(like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyReacted
		}
		return nil, err
	}
	if err := s.db.First(&like.User, userID).Error; err != nil {
		return nil, err
	}

	if isLike {
		if err := s.notifier.ArticleLiked(userID, article); err != nil {
			s.logger.Warnf("点赞通知失败: %v", err)
		}
	}
	return like, nil
}

// GetLike 获取当前用户对文章的点赞记录
func (s *InteractionService) GetLike(userID uint, slug string) (*model.Like, error) {
	article, err := findVisibleArticle(s.db, slug)
	if err != nil {
		return nil, err
	}

	var like model.Like
	err = s.db.Preload("User").
		Where("user_id = ? AND article_id = ?", userID, article.ID).
		First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLikeNotFound
		}
		return nil, err
	}
	return &like, nil
}

// UpdateLike 切换点赞/点踩方向
func (s *InteractionService) UpdateLike(userID uint, slug string, likeID uint, isLike bool) (*model.Like, error) {
	like, err := s.ownedLike(userID, slug, likeID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(like).Update("is_like", isLike).Error; err != nil {
		return nil, err
	}
	like.IsLike = isLike
	return like, nil
}

// DeleteLike 撤销点赞记录
func (s *InteractionService) DeleteLike(userID uint, slug string, likeID uint) error {
	like, err := s.ownedLike(userID, slug, likeID)
	if err != nil {
		return err
	}
	return s.db.Delete(like).Error
}

func (s *InteractionService) ownedLike(userID uint, slug string, likeID uint) (*model.Like, error) {
	article, err := findVisibleArticle(s.db, slug)
	if err != nil {
		return nil, err
	}

	var like model.Like
	err = s.db.Preload("User").Where("id = ? AND article_id = ?", likeID, article.ID).First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLikeNotFound
		}
		return nil, err
	}
	if like.UserID != userID {
		return nil, ErrLikeNotFound
	}
	return &like, nil
}

// LikeSummary 获取文章点赞/点踩聚合
func (s *InteractionService) LikeSummary(slug string) (*dto.LikeSummaryResponse, error) {
	article, err := findVisibleArticle(s.db, slug)
	if err != nil {
		return nil, err
	}

	var likes, dislikes int64
	if err := s.db.Model(&model.Like{}).
		Where("article_id = ? AND is_like = ?", article.ID, true).
		Count(&likes).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Like{}).
		Where("article_id = ? AND is_like = ?", article.ID, false).
		Count(&dislikes).Error; err != nil {
		return nil, err
	}
	return &dto.LikeSummaryResponse{Likes: likes, Dislikes: dislikes}, nil
}

// Favorite 收藏文章
func (s *InteractionService) Favorite(userID uint, slug string) error {
	article, err := findVisibleArticle(s.db, slug)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&model.Favorite{}).
		Where("user_id = ? AND article_id = ?", userID, article.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyFavorited
	}

	favorite := &model.Favorite{UserID: userID, ArticleID: article.ID}
	if err := s.db.Create(favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyFavorited
		}
		return err
	}

	if err := s.notifier.ArticleFavorited(userID, article); err != nil {
		s.logger.Warnf("收藏通知失败: %v", err)
	}
	return nil
}

// Unfavorite 取消收藏
func (s *InteractionService) Unfavorite(userID uint, slug string) error {
	article, err := findVisibleArticle(s.db, slug)
	if err != nil {
		return err
	}

	result := s.db.Where("user_id = ? AND article_id = ?", userID, article.ID).
		Delete(&model.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFavorited
	}
	return nil
}

// IsFavorited 判断当前用户是否已收藏
func (s *InteractionService) IsFavorited(userID uint, slug string) (bool, error) {
	article, err := findVisibleArticle(s.db, slug)
	if err != nil {
		return false, err
	}

	var count int64
	err = s.db.Model(&model.Favorite{}).
		Where("user_id = ? AND article_id = ?", userID, article.ID).
		Count(&count).Error
	return count > 0, err
}

// ListFavorites 获取用户收藏的文章集合（按收藏时间倒序）
func (s *InteractionService) ListFavorites(userID uint, page, pageSize int) ([]model.Article, int64, error) {
	return s.listMarkedArticles("favorites", userID, page, pageSize)
}

// Bookmark 添加书签
func (s *InteractionService) Bookmark(userID uint, slug string) error {
	article, err := findVisibleArticle(s.db, slug)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&model.Bookmark{}).
		Where("user_id = ? AND article_id = ?", userID, article.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyBookmarked
	}

	bookmark := &model.Bookmark{UserID: userID, ArticleID: article.ID}
	if err := s.db.Create(bookmark).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyBookmarked
		}
		return err
	}
	return nil
}

// Unbookmark 移除书签
func (s *InteractionService) Unbookmark(userID uint, slug string) error {
	article, err := findVisibleArticle(s.db, slug)
	if err != nil {
		return err
	}

	result := s.db.Where("user_id = ? AND article_id = ?", userID, article.ID).
		Delete(&model.Bookmark{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotBookmarked
	}
	return nil
}

// IsBookmarked 判断当前用户是否已加书签
func (s *InteractionService) IsBookmarked(userID uint, slug string) (bool, error) {
	article, err := findVisibleArticle(s.db, slug)
	if err != nil {
		return false, err
	}

	var count int64
	err = s.db.Model(&model.Bookmark{}).
		Where("user_id = ? AND article_id = ?", userID, article.ID).
		Count(&count).Error
	return count > 0, err
}

// ListBookmarks 获取用户加书签的文章集合
func (s *InteractionService) ListBookmarks(userID uint, page, pageSize int) ([]model.Article, int64, error) {
	return s.listMarkedArticles("bookmarks", userID, page, pageSize)
}

// listMarkedArticles 按标记表查询用户标记过的可见文章
func (s *InteractionService) listMarkedArticles(table string, userID uint, page, pageSize int) ([]model.Article, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	query := s.db.Model(&model.Article{}).
		Joins("JOIN "+table+" ON "+table+".article_id = articles.id").
		Where(table+".user_id = ?", userID).
		Where("articles.published = ? AND articles.activated = ?", true, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var articles []model.Article
	if err := query.Preload("Author.User").Preload("Tags").
		Order(table + ".created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&articles).Error; err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}
