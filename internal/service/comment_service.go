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
	commentService     *CommentService
	commentServiceOnce sync.Once
)

// CommentService 评论服务
// 评论为两级结构，软删除通过is_active实现，编辑历史保存在快照表
type CommentService struct {
	db        *gorm.DB
	logger    *zap.SugaredLogger
	sensitive *SensitiveService
	notifier  *NotificationService
}

// NewCommentService 创建评论服务实例
func NewCommentService() *CommentService {
	commentServiceOnce.Do(func() {
		commentService = &CommentService{
			db:        database.GetDB(),
			logger:    logger.GetSugaredLogger(),
			sensitive: NewSensitiveService(),
			notifier:  NewNotificationService(),
		}
	})
	return commentService
}

// ListByArticle 获取文章的活跃根评论及其活跃回复
func (s *CommentService) ListByArticle(slug string) (*dto.CommentListResponse, error) {
	article, err := findVisibleArticle(s.db, slug)
	if err != nil {
		return nil, err
	}

	var comments []model.Comment
	err = s.db.Where("article_id = ? AND parent_id IS NULL AND is_active = ?", article.ID, true).
		Preload("Author.User").
		Preload("Snapshots", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("created_at ASC")
		}).
		Preload("Replies.Author.User").
		Preload("Replies.Snapshots", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	resp := &dto.CommentListResponse{
		Total: int64(len(comments)),
		List:  make([]dto.CommentResponse, 0, len(comments)),
	}
	for i := range comments {
		resp.List = append(resp.List, s.buildResponse(&comments[i]))
	}
	return resp, nil
}

// Get 获取单条活跃评论及其回复与编辑历史
func (s *CommentService) Get(slug string, commentID uint) (*dto.CommentResponse, error) {
	article, err := findVisibleArticle(s.db, slug)
	if err != nil {
		return nil, err
	}

	var comment model.Comment
	err = s.db.Where("id = ? AND article_id = ? AND is_active = ?", commentID, article.ID, true).
		Preload("Author.User").
		Preload("Snapshots", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("created_at ASC")
		}).
		Preload("Replies.Author.User").
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	resp := s.buildResponse(&comment)
	return &resp, nil
}

// Create 创建根评论
func (s *CommentService) Create(userID uint, slug string, req *dto.CommentCreateRequest) (*model.Comment, error) {
	article, err := findVisibleArticle(s.db, slug)
	if err != nil {
		return nil, err
	}
	profile, err := findProfileByUserID(s.db, userID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ArticleID: article.ID,
		AuthorID:  profile.ID,
		Body:      s.sensitive.FilterSensitiveWords(req.Body),
		IsActive:  true,
	}
	if err := s.db.Create(comment).Error; err != nil {
		return nil, err
	}
	comment.Author = *profile

	if err := s.notifier.ArticleCommented(userID, article); err != nil {
		s.logger.Warnf("评论通知失败: %v", err)
	}
	return comment, nil
}

// Reply 回复根评论
// 仅允许两级结构，回复二级评论直接拒绝
func (s *CommentService) Reply(userID uint, slug string, parentID uint, req *dto.CommentCreateRequest) (*model.Comment, error) {
	article, err := findVisibleArticle(s.db, slug)
	if err != nil {
		return nil, err
	}

	var parent model.Comment
	err = s.db.Where("id = ? AND article_id = ? AND is_active = ?", parentID, article.ID, true).
		First(&parent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if !parent.IsRoot() {
		return nil, ErrReplyDepth
	}

	profile, err := findProfileByUserID(s.db, userID)
	if err != nil {
		return nil, err
	}

	reply := &model.Comment{
		ArticleID: article.ID,
		AuthorID:  profile.ID,
		ParentID:  &parent.ID,
		Body:      s.sensitive.FilterSensitiveWords(req.Body),
		IsActive:  true,
	}
	if err := s.db.Create(reply).Error; err != nil {
		return nil, err
	}
	reply.Author = *profile

	if err := s.notifier.CommentReplied(userID, article, &parent); err != nil {
		s.logger.Warnf("回复通知失败: %v", err)
	}
	return reply, nil
}

// Update 编辑评论，仅作者可操作
// 新正文与快照在同一事务内写入，快照保存编辑后的正文
func (s *CommentService) Update(userID uint, slug string, commentID uint, req *dto.CommentUpdateRequest) (*model.Comment, error) {
	comment, err := s.ownedComment(userID, slug, commentID, true)
	if err != nil {
		return nil, err
	}

	body := s.sensitive.FilterSensitiveWords(req.Body)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(comment).Update("body", body).Error; err != nil {
			return err
		}
		snapshot := &model.CommentSnapshot{CommentID: comment.ID, Body: body}
		return tx.Create(snapshot).Error
	})
	if err != nil {
		return nil, err
	}

	// 重新加载快照，响应中的edited标记依赖快照数量
	if err := s.db.Preload("Author.User").
		Preload("Snapshots", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete 软删除评论，仅作者或管理员可操作
func (s *CommentService) Delete(userID uint, slug string, commentID uint, isAdmin bool) error {
	comment, err := s.findComment(slug, commentID, true)
	if err != nil {
		return err
	}
	if !isAdmin && comment.Author.UserID != userID {
		return ErrNotCommentAuthor
	}
	return s.db.Model(comment).Update("is_active", false).Error
}

// Restore 恢复被软删除的评论，仅作者可操作
func (s *CommentService) Restore(userID uint, slug string, commentID uint) (*model.Comment, error) {
	comment, err := s.findComment(slug, commentID, false)
	if err != nil {
		return nil, err
	}
	if comment.Author.UserID != userID {
		return nil, ErrNotCommentAuthor
	}
	if comment.IsActive {
		return comment, nil
	}
	if err := s.db.Model(comment).Update("is_active", true).Error; err != nil {
		return nil, err
	}
	comment.IsActive = true
	return comment, nil
}

// ownedComment 查找评论并校验作者身份
func (s *CommentService) ownedComment(userID uint, slug string, commentID uint, activeOnly bool) (*model.Comment, error) {
	comment, err := s.findComment(slug, commentID, activeOnly)
	if err != nil {
		return nil, err
	}
	if comment.Author.UserID != userID {
		return nil, ErrNotCommentAuthor
	}
	return comment, nil
}

func (s *CommentService) findComment(slug string, commentID uint, activeOnly bool) (*model.Comment, error) {
	article, err := findArticleBySlug(s.db, slug)
	if err != nil {
		return nil, err
	}

	query := s.db.Where("id = ? AND article_id = ?", commentID, article.ID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var comment model.Comment
	if err := query.Preload("Author.User").First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// buildResponse 生成评论响应DTO
func (s *CommentService) buildResponse(comment *model.Comment) dto.CommentResponse {
	resp := dto.CommentResponse{
		ID:        comment.ID,
		Body:      comment.Body,
		Author:    buildProfileSummary(s.db, &comment.Author, nil),
		Edited:    comment.Edited(),
		CreatedAt: formatTime(comment.CreatedAt),
		UpdatedAt: formatTime(comment.UpdatedAt),
	}

	for _, snap := range comment.Snapshots {
		resp.History = append(resp.History, dto.CommentSnapshotResponse{
			Body:      snap.Body,
			CreatedAt: formatTime(snap.CreatedAt),
		})
	}

	for _, reply := range comment.Replies {
		resp.Replies = append(resp.Replies, s.buildResponse(reply))
	}
	return resp
}

// BuildResponse 生成评论响应DTO（导出给控制器使用）
func (s *CommentService) BuildResponse(comment *model.Comment) dto.CommentResponse {
	return s.buildResponse(comment)
}
