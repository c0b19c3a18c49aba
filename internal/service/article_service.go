package service

import (
	"errors"
	"sync"

	"github.com/authorshaven/haven-api/internal/database"
	"github.com/authorshaven/haven-api/internal/dto"
	"github.com/authorshaven/haven-api/internal/logger"
	"github.com/authorshaven/haven-api/internal/model"
	"github.com/authorshaven/haven-api/pkg/render"
	"github.com/authorshaven/haven-api/pkg/slugify"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	articleService     *ArticleService
	articleServiceOnce sync.Once
)

// ArticleService 文章服务
type ArticleService struct {
	db       *gorm.DB
	logger   *zap.SugaredLogger
	tags     *TagService
	notifier *NotificationService
}

// NewArticleService 创建文章服务实例
func NewArticleService() *ArticleService {
	articleServiceOnce.Do(func() {
		articleService = &ArticleService{
			db:       database.GetDB(),
			logger:   logger.GetSugaredLogger(),
			tags:     NewTagService(),
			notifier: NewNotificationService(),
		}
	})
	return articleService
}

// slugExists 判断slug是否已被占用
// 查询失败时按未占用处理，slug唯一索引在写入时兜底
func (s *ArticleService) slugExists(slug string) bool {
	var count int64
	if err := s.db.Model(&model.Article{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		s.logger.Warnf("查询slug占用失败: %v", err)
		return false
	}
	return count > 0
}

// Create 创建文章
func (s *ArticleService) Create(userID uint, req *dto.ArticleCreateRequest) (*model.Article, error) {
	profile, err := findProfileByUserID(s.db, userID)
	if err != nil {
		return nil, err
	}

	article := &model.Article{
		Title:       req.Title,
		Slug:        slugify.Unique(req.Title, s.slugExists),
		Description: req.Description,
		Body:        req.Body,
		Draft:       req.Draft,
		Published:   req.Published,
		Activated:   true,
		AuthorID:    profile.ID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(article).Error; err != nil {
			return err
		}
		return s.tags.Reconcile(tx, article, req.Tags)
	})
	if err != nil {
		return nil, err
	}
	article.Author = *profile

	// 创建即发布时走发布事件
	if article.Published {
		if err := s.notifier.ArticlePublished(article); err != nil {
			s.logger.Warnf("文章发布通知失败: %v", err)
		}
	}

	return article, nil
}

// List 获取公开文章列表，仅含已发布且未删除的文章
func (s *ArticleService) List(req *dto.ArticleListRequest) (*dto.ArticleListResponse, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)

	query := s.db.Model(&model.Article{}).
		Where("published = ? AND activated = ?", true, true)

	if req.Tag != "" {
		query = query.
			Joins("JOIN article_tags ON article_tags.article_id = articles.id").
			Joins("JOIN tags ON tags.id = article_tags.tag_id").
			Where("tags.name = ?", slugify.Make(req.Tag))
	}
	if req.Author != "" {
		query = query.
			Joins("JOIN profiles ON profiles.id = articles.author_id").
			Joins("JOIN users ON users.id = profiles.user_id").
			Where("users.username = ?", req.Author)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var articles []model.Article
	if err := query.Preload("Author.User").Preload("Tags").
		Order("articles.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&articles).Error; err != nil {
		return nil, err
	}

	return s.buildListResponse(articles, total, false), nil
}

// Mine 获取当前用户的文章，含未发布的草稿
func (s *ArticleService) Mine(userID uint, req *dto.ArticleListRequest) (*dto.ArticleListResponse, error) {
	profile, err := findProfileByUserID(s.db, userID)
	if err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)
	query := s.db.Model(&model.Article{}).
		Where("author_id = ? AND activated = ?", profile.ID, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var articles []model.Article
	if err := query.Preload("Author.User").Preload("Tags").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&articles).Error; err != nil {
		return nil, err
	}

	return s.buildListResponse(articles, total, true), nil
}

// GetBySlug 获取文章详情
// 未发布或已删除的文章仅作者可见
func (s *ArticleService) GetBySlug(slug string, currentUserID *uint) (*model.Article, error) {
	var article model.Article
	err := s.db.Preload("Author.User").Preload("Tags").
		Where("slug = ?", slug).First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	if !article.Visible() {
		if currentUserID == nil || article.Author.UserID != *currentUserID {
			return nil, ErrArticleNotFound
		}
	}
	return &article, nil
}

// Update 更新文章，仅作者可操作
// 标题变更时重新生成slug，其余编辑保持slug稳定
func (s *ArticleService) Update(userID uint, slug string, req *dto.ArticleUpdateRequest) (*model.Article, error) {
	article, err := s.ownedArticle(userID, slug)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && *req.Title != article.Title {
		article.Title = *req.Title
		article.Slug = slugify.Unique(*req.Title, s.slugExists)
	}
	if req.Description != nil {
		article.Description = *req.Description
	}
	if req.Body != nil {
		article.Body = *req.Body
	}
	if req.Draft != nil {
		article.Draft = *req.Draft
		article.Editing = true
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(article).Error; err != nil {
			return err
		}
		if req.Tags != nil {
			return s.tags.Reconcile(tx, article, *req.Tags)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return article, nil
}

// Publish 发布草稿：草稿正文拷入body并置为已发布
func (s *ArticleService) Publish(userID uint, slug string) (*model.Article, error) {
	article, err := s.ownedArticle(userID, slug)
	if err != nil {
		return nil, err
	}

	if article.Draft == "" {
		return nil, ErrEmptyDraft
	}

	article.Body = article.Draft
	article.Published = true
	article.Editing = false
	if err := s.db.Save(article).Error; err != nil {
		return nil, err
	}

	if err := s.notifier.ArticlePublished(article); err != nil {
		s.logger.Warnf("文章发布通知失败: %v", err)
	}
	return article, nil
}

// Delete 软删除文章
func (s *ArticleService) Delete(userID uint, slug string) error {
	article, err := s.ownedArticle(userID, slug)
	if err != nil {
		return err
	}

	article.Activated = false
	return s.db.Save(article).Error
}

// ownedArticle 查找文章并校验作者身份
func (s *ArticleService) ownedArticle(userID uint, slug string) (*model.Article, error) {
	var article model.Article
	err := s.db.Preload("Author.User").Preload("Tags").
		Where("slug = ? AND activated = ?", slug, true).First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	if article.Author.UserID != userID {
		return nil, ErrNotArticleAuthor
	}
	return &article, nil
}

// Average 计算文章平均评分，无评分返回nil
func (s *ArticleService) Average(articleID uint) (*float64, error) {
	return ratingAverage(s.db, articleID)
}

// BuildResponse 生成文章响应DTO
func (s *ArticleService) BuildResponse(article *model.Article, includeDraft bool) dto.ArticleResponse {
	tags := make([]string, 0, len(article.Tags))
	for _, tag := range article.Tags {
		tags = append(tags, tag.Name)
	}

	avg, err := s.Average(article.ID)
	if err != nil {
		s.logger.Warnf("计算平均评分失败: %v", err)
	}

	var likes, dislikes, favorites int64
	s.db.Model(&model.Like{}).Where("article_id = ? AND is_like = ?", article.ID, true).Count(&likes)
	s.db.Model(&model.Like{}).Where("article_id = ? AND is_like = ?", article.ID, false).Count(&dislikes)
	s.db.Model(&model.Favorite{}).Where("article_id = ?", article.ID).Count(&favorites)

	resp := dto.ArticleResponse{
		ID:            article.ID,
		Title:         article.Title,
		Slug:          article.Slug,
		Description:   article.Description,
		Body:          article.Body,
		BodyHTML:      render.Markdown(article.Body),
		Editing:       article.Editing,
		Published:     article.Published,
		Tags:          tags,
		Author:        buildProfileSummary(s.db, &article.Author, nil),
		AverageRating: avg,
		LikeCount:     likes,
		DislikeCount:  dislikes,
		FavoriteCount: favorites,
		CreatedAt:     formatTime(article.CreatedAt),
		UpdatedAt:     formatTime(article.UpdatedAt),
	}
	if includeDraft {
		resp.Draft = article.Draft
	}
	return resp
}

func (s *ArticleService) buildListResponse(articles []model.Article, total int64, includeDraft bool) *dto.ArticleListResponse {
	resp := &dto.ArticleListResponse{
		Total: total,
		List:  make([]dto.ArticleResponse, 0, len(articles)),
	}
	for i := range articles {
		resp.List = append(resp.List, s.BuildResponse(&articles[i], includeDraft))
	}
	return resp
}
