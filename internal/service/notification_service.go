package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/authorshaven/haven-api/internal/database"
	"github.com/authorshaven/haven-api/internal/dto"
	"github.com/authorshaven/haven-api/internal/logger"
	"github.com/authorshaven/haven-api/internal/model"
	"github.com/authorshaven/haven-api/pkg/mail"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	notificationService     *NotificationService
	notificationServiceOnce sync.Once
)

// NotificationService 通知服务
// 一次事件写入一条通知，应用内接收按订阅表记录，邮件走发件队列。
// 应用内分发是同步的，邮件投递异步且尽力而为
type NotificationService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
	outbox *mail.Outbox
}

// NewNotificationService 创建通知服务实例
func NewNotificationService() *NotificationService {
	notificationServiceOnce.Do(func() {
		notificationService = &NotificationService{
			db:     database.GetDB(),
			logger: logger.GetSugaredLogger(),
		}
	})
	return notificationService
}

// SetOutbox 绑定邮件发件队列，未绑定时只做应用内分发
func (s *NotificationService) SetOutbox(outbox *mail.Outbox) {
	s.outbox = outbox
}

// dispatch 通知分发核心
// 去重并剔除触发者本人后，按每个接收人的渠道偏好写订阅行、投递邮件
func (s *NotificationService) dispatch(senderID uint, classification, body string, recipientUserIDs []uint) error {
	seen := make(map[uint]bool, len(recipientUserIDs))
	ids := make([]uint, 0, len(recipientUserIDs))
	for _, id := range recipientUserIDs {
		if id == senderID || id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}

	var recipients []model.User
	if err := s.db.Preload("Profile").
		Where("id IN ? AND status = 1", ids).
		Find(&recipients).Error; err != nil {
		return err
	}
	if len(recipients) == 0 {
		return nil
	}

	notification := &model.Notification{
		SenderID:       senderID,
		Classification: classification,
		Body:           body,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(notification).Error; err != nil {
			return err
		}
		for _, user := range recipients {
			if !user.Profile.AppPrefs.Allows(classification) {
				continue
			}
			sub := &model.NotificationSubscriber{
				NotificationID: notification.ID,
				UserID:         user.ID,
			}
			if err := tx.Create(sub).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// 邮件在事务提交后入队，队列满或发送失败不影响应用内通知
	if s.outbox != nil {
		for _, user := range recipients {
			if !user.IsVerified || !user.Profile.EmailPrefs.Allows(classification) {
				continue
			}
			s.outbox.Enqueue(mail.Message{
				To:      []string{user.Email},
				Subject: "Author's Haven 新动态",
				Body:    body,
			})
		}
	}

	return nil
}

// ArticlePublished 文章发布事件，通知作者的关注者
func (s *NotificationService) ArticlePublished(article *model.Article) error {
	author, err := s.profileWithUser(article.AuthorID)
	if err != nil {
		return err
	}

	var followers []model.ProfileFollow
	if err := s.db.Preload("Follower").
		Where("followed_id = ?", article.AuthorID).
		Find(&followers).Error; err != nil {
		return err
	}

	ids := make([]uint, 0, len(followers))
	for _, f := range followers {
		ids = append(ids, f.Follower.UserID)
	}

	body := fmt.Sprintf("%s 发布了新文章《%s》", author.User.Username, article.Title)
	return s.dispatch(author.UserID, model.ClassArticlePublished, body, ids)
}

// UserFollowed 关注事件，通知被关注者
func (s *NotificationService) UserFollowed(followerUserID uint, followed *model.Profile) error {
	var follower model.User
	if err := s.db.First(&follower, followerUserID).Error; err != nil {
		return err
	}

	body := fmt.Sprintf("%s 关注了你", follower.Username)
	return s.dispatch(followerUserID, model.ClassUserFollowed, body, []uint{followed.UserID})
}

// ArticleCommented 评论事件，通知文章作者与收藏者
func (s *NotificationService) ArticleCommented(actorUserID uint, article *model.Article) error {
	author, err := s.profileWithUser(article.AuthorID)
	if err != nil {
		return err
	}

	var favorites []model.Favorite
	if err := s.db.Where("article_id = ?", article.ID).Find(&favorites).Error; err != nil {
		return err
	}

	ids := make([]uint, 0, len(favorites)+1)
	ids = append(ids, author.UserID)
	for _, f := range favorites {
		ids = append(ids, f.UserID)
	}

	var actor model.User
	if err := s.db.First(&actor, actorUserID).Error; err != nil {
		return err
	}

	body := fmt.Sprintf("%s 评论了文章《%s》", actor.Username, article.Title)
	return s.dispatch(actorUserID, model.ClassArticleCommented, body, ids)
}

// CommentReplied 回复事件，通知文章作者与被回复评论的作者
func (s *NotificationService) CommentReplied(actorUserID uint, article *model.Article, parent *model.Comment) error {
	author, err := s.profileWithUser(article.AuthorID)
	if err != nil {
		return err
	}
	parentAuthor, err := s.profileWithUser(parent.AuthorID)
	if err != nil {
		return err
	}

	var actor model.User
	if err := s.db.First(&actor, actorUserID).Error; err != nil {
		return err
	}

	body := fmt.Sprintf("%s 回复了文章《%s》下的评论", actor.Username, article.Title)
	return s.dispatch(actorUserID, model.ClassCommentReplied, body, []uint{author.UserID, parentAuthor.UserID})
}

// ArticleLiked 点赞事件，通知文章作者
func (s *NotificationService) ArticleLiked(actorUserID uint, article *model.Article) error {
	return s.reactionEvent(actorUserID, article, model.ClassArticleLiked, "%s 点赞了文章《%s》")
}

// ArticleFavorited 收藏事件，通知文章作者
func (s *NotificationService) ArticleFavorited(actorUserID uint, article *model.Article) error {
	return s.reactionEvent(actorUserID, article, model.ClassArticleFavorited, "%s 收藏了文章《%s》")
}

func (s *NotificationService) reactionEvent(actorUserID uint, article *model.Article, classification, format string) error {
	author, err := s.profileWithUser(article.AuthorID)
	if err != nil {
		return err
	}

	var actor model.User
	if err := s.db.First(&actor, actorUserID).Error; err != nil {
		return err
	}

	body := fmt.Sprintf(format, actor.Username, article.Title)
	return s.dispatch(actorUserID, classification, body, []uint{author.UserID})
}

func (s *NotificationService) profileWithUser(profileID uint) (*model.Profile, error) {
	var profile model.Profile
	if err := s.db.Preload("User").First(&profile, profileID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListForUser 获取用户订阅的通知
func (s *NotificationService) ListForUser(userID uint, req *dto.NotificationListRequest) (*dto.NotificationListResponse, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)

	query := s.db.Model(&model.Notification{}).
		Joins("JOIN notification_subscribers ON notification_subscribers.notification_id = notifications.id").
		Where("notification_subscribers.user_id = ?", userID)

	readSub := s.db.Model(&model.NotificationRead{}).
		Select("notification_id").
		Where("user_id = ?", userID)

	if req.IsRead != nil {
		if *req.IsRead {
			query = query.Where("notifications.id IN (?)", readSub)
		} else {
			query = query.Where("notifications.id NOT IN (?)", readSub)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var notifications []model.Notification
	if err := query.Preload("Sender").
		Order("notifications.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&notifications).Error; err != nil {
		return nil, err
	}

	// 本页通知的已读集合
	readSet := make(map[uint]bool)
	var reads []model.NotificationRead
	if err := s.db.Where("user_id = ?", userID).Find(&reads).Error; err != nil {
		return nil, err
	}
	for _, r := range reads {
		readSet[r.NotificationID] = true
	}

	var unread int64
	if err := s.db.Model(&model.NotificationSubscriber{}).
		Where("user_id = ?", userID).
		Where("notification_id NOT IN (?)", readSub).
		Count(&unread).Error; err != nil {
		return nil, err
	}

	resp := &dto.NotificationListResponse{
		Total:       total,
		UnreadCount: unread,
		List:        make([]dto.NotificationResponse, 0, len(notifications)),
	}
	for _, n := range notifications {
		resp.List = append(resp.List, dto.NotificationResponse{
			ID:             n.ID,
			Sender:         n.Sender.Username,
			Classification: n.Classification,
			Body:           n.Body,
			IsRead:         readSet[n.ID],
			CreatedAt:      formatTime(n.CreatedAt),
		})
	}
	return resp, nil
}

// MarkAsRead 标记单条通知已读，重复标记幂等
func (s *NotificationService) MarkAsRead(userID, notificationID uint) error {
	var sub model.NotificationSubscriber
	err := s.db.Where("notification_id = ? AND user_id = ?", notificationID, userID).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}

	read := &model.NotificationRead{NotificationID: notificationID, UserID: userID}
	err = s.db.Where("notification_id = ? AND user_id = ?", notificationID, userID).
		FirstOrCreate(read).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		// 并发重复标记，视为成功
		return nil
	}
	return err
}

// MarkAllAsRead 标记用户全部通知已读
func (s *NotificationService) MarkAllAsRead(userID uint) error {
	var subs []model.NotificationSubscriber
	readSub := s.db.Model(&model.NotificationRead{}).
		Select("notification_id").
		Where("user_id = ?", userID)

	if err := s.db.Where("user_id = ?", userID).
		Where("notification_id NOT IN (?)", readSub).
		Find(&subs).Error; err != nil {
		return err
	}

	if len(subs) == 0 {
		return nil
	}

	reads := make([]model.NotificationRead, 0, len(subs))
	for _, sub := range subs {
		reads = append(reads, model.NotificationRead{
			NotificationID: sub.NotificationID,
			UserID:         userID,
		})
	}
	err := s.db.Create(&reads).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// CleanupRead 清理所有订阅者均已读且超过保留期的通知
func (s *NotificationService) CleanupRead(retentionDays int) error {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	// 仍有未读订阅者的通知不清理
	unreadSub := s.db.Model(&model.NotificationSubscriber{}).
		Select("notification_subscribers.notification_id").
		Joins("LEFT JOIN notification_reads ON notification_reads.notification_id = notification_subscribers.notification_id "+
			"AND notification_reads.user_id = notification_subscribers.user_id").
		Where("notification_reads.id IS NULL")

	var stale []model.Notification
	if err := s.db.Where("created_at < ?", cutoff).
		Where("id NOT IN (?)", unreadSub).
		Find(&stale).Error; err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(stale))
	for _, n := range stale {
		ids = append(ids, n.ID)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("notification_id IN ?", ids).Delete(&model.NotificationSubscriber{}).Error; err != nil {
			return err
		}
		if err := tx.Where("notification_id IN ?", ids).Delete(&model.NotificationRead{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", ids).Delete(&model.Notification{}).Error; err != nil {
			return err
		}
		s.logger.Infof("已清理%d条过期通知", len(ids))
		return nil
	})
}
