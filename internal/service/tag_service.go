package service

import (
	"sync"

	"github.com/authorshaven/haven-api/internal/database"
	"github.com/authorshaven/haven-api/internal/dto"
	"github.com/authorshaven/haven-api/internal/logger"
	"github.com/authorshaven/haven-api/internal/model"
	"github.com/authorshaven/haven-api/pkg/slugify"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	tagService     *TagService
	tagServiceOnce sync.Once
)

// TagService 标签服务
type TagService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// NewTagService 创建标签服务实例
func NewTagService() *TagService {
	tagServiceOnce.Do(func() {
		tagService = &TagService{
			db:     database.GetDB(),
			logger: logger.GetSugaredLogger(),
		}
	})
	return tagService
}

// Reconcile 将文章的标签集合替换为给定名称集合
// 名称入库前slug化去重，替换后顺带清理孤儿标签
func (s *TagService) Reconcile(tx *gorm.DB, article *model.Article, names []string) error {
	seen := make(map[string]bool, len(names))
	tags := make([]*model.Tag, 0, len(names))
	for _, name := range names {
		slugged := slugify.Make(name)
		if slugged == "" || seen[slugged] {
			continue
		}
		seen[slugged] = true

		tag := &model.Tag{Name: slugged}
		if err := tx.Where("name = ?", slugged).FirstOrCreate(tag).Error; err != nil {
			return err
		}
		tags = append(tags, tag)
	}

	if err := tx.Model(article).Association("Tags").Replace(tags); err != nil {
		return err
	}
	article.Tags = tags

	return s.PruneOrphans(tx)
}

// PruneOrphans 删除不再被任何文章引用的标签
func (s *TagService) PruneOrphans(tx *gorm.DB) error {
	return tx.Exec("DELETE FROM tags WHERE id NOT IN (SELECT tag_id FROM article_tags)").Error
}

// List 获取全部标签及其关联文章数
func (s *TagService) List() ([]dto.TagResponse, error) {
	var tags []model.Tag
	if err := s.db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}

	resp := make([]dto.TagResponse, 0, len(tags))
	for _, tag := range tags {
		var count int64
		if err := s.db.Table("article_tags").
			Where("tag_id = ?", tag.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		resp = append(resp, dto.TagResponse{Name: tag.Name, ArticleCount: count})
	}
	return resp, nil
}
