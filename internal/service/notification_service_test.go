package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/authorshaven/haven-api/internal/dto"
	"github.com/authorshaven/haven-api/internal/model"
	"github.com/authorshaven/haven-api/pkg/mail"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *recordingMailer) Send(msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, msg := range m.sent {
		out = append(out, msg.To...)
	}
	return out
}

func TestArticlePublishedNotifiesFollowers(t *testing.T) {
	db := setupTestDB(t)
	notifier := newTestNotificationService(db)
	profiles := newTestProfileService(db)
	profiles.notifier = notifier

	author := createTestUser(t, db, "alice")
	follower := createTestUser(t, db, "bob")
	outsider := createTestUser(t, db, "carol")
	if err := profiles.Follow(follower.ID, author.Username); err != nil {
		t.Fatalf("关注失败: %v", err)
	}

	article := createTestArticle(t, db, author, "Announced", true)
	if err := notifier.ArticlePublished(article); err != nil {
		t.Fatalf("发布通知失败: %v", err)
	}

	// 关注者收到通知
	resp, err := notifier.ListForUser(follower.ID, &dto.NotificationListRequest{})
	if err != nil {
		t.Fatalf("获取通知失败: %v", err)
	}
	if resp.Total != 1 || resp.List[0].Classification != model.ClassArticlePublished {
		t.Fatalf("关注者通知错误: %+v", resp)
	}
	if resp.UnreadCount != 1 {
		t.Fatalf("未读数 = %d", resp.UnreadCount)
	}

	// 非关注者没有通知
	other, err := notifier.ListForUser(outsider.ID, &dto.NotificationListRequest{})
	if err != nil {
		t.Fatalf("获取通知失败: %v", err)
	}
	if other.Total != 0 {
		t.Fatalf("非关注者不应收到通知, total = %d", other.Total)
	}
}

func TestDispatchExcludesActor(t *testing.T) {
	db := setupTestDB(t)
	notifier := newTestNotificationService(db)
	comments := newTestCommentService(db)
	comments.notifier = notifier

	author := createTestUser(t, db, "alice")
	article := createTestArticle(t, db, author, "Self Comment", true)

	// 作者评论自己的文章，不给自己发通知
	if _, err := comments.Create(author.ID, article.Slug, &dto.CommentCreateRequest{Body: "自评"}); err != nil {
		t.Fatalf("发表评论失败: %v", err)
	}

	resp, err := notifier.ListForUser(author.ID, &dto.NotificationListRequest{})
	if err != nil {
		t.Fatalf("获取通知失败: %v", err)
	}
	if resp.Total != 0 {
		t.Fatalf("触发者不应收到自己的通知, total = %d", resp.Total)
	}
}

func TestDispatchRespectsAppPrefs(t *testing.T) {
	db := setupTestDB(t)
	notifier := newTestNotificationService(db)

	author := createTestUser(t, db, "alice")
	reader := createTestUser(t, db, "bob")

	// 作者关闭应用内点赞通知
	if err := db.Model(&model.Profile{}).
		Where("user_id = ?", author.ID).
		Update("app_article_liked", false).Error; err != nil {
		t.Fatalf("更新偏好失败: %v", err)
	}

	article := createTestArticle(t, db, author, "Muted Likes", true)
	if err := notifier.ArticleLiked(reader.ID, article); err != nil {
		t.Fatalf("点赞通知失败: %v", err)
	}

	resp, err := notifier.ListForUser(author.ID, &dto.NotificationListRequest{})
	if err != nil {
		t.Fatalf("获取通知失败: %v", err)
	}
	if resp.Total != 0 {
		t.Fatalf("关闭渠道后不应收到应用内通知, total = %d", resp.Total)
	}
}

func TestDispatchEmailGatedByVerificationAndPrefs(t *testing.T) {
	db := setupTestDB(t)
	notifier := newTestNotificationService(db)
	mailer := &recordingMailer{}
	outbox := mail.NewOutbox(mailer, testLogger(), 1, 16)
	notifier.SetOutbox(outbox)

	author := createTestUser(t, db, "alice")
	verified := createTestUser(t, db, "bob")
	unverified := createTestUser(t, db, "carol")
	db.Model(&model.User{}).Where("id = ?", unverified.ID).Update("is_verified", false)

	profiles := newTestProfileService(db)
	profiles.notifier = notifier
	if err := profiles.Follow(verified.ID, author.Username); err != nil {
		t.Fatalf("关注失败: %v", err)
	}
	if err := profiles.Follow(unverified.ID, author.Username); err != nil {
		t.Fatalf("关注失败: %v", err)
	}

	article := createTestArticle(t, db, author, "Mail Fanout", true)
	if err := notifier.ArticlePublished(article); err != nil {
		t.Fatalf("发布通知失败: %v", err)
	}
	outbox.Close()

	// 仅已验证邮箱的接收人收到邮件
	recipients := mailer.recipients()
	if len(recipients) != 1 || recipients[0] != verified.Email {
		t.Fatalf("邮件收件人错误: %v", recipients)
	}

	// 应用内通知不受邮箱验证影响
	resp, err := notifier.ListForUser(unverified.ID, &dto.NotificationListRequest{})
	if err != nil {
		t.Fatalf("获取通知失败: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("未验证用户仍应收到应用内通知, total = %d", resp.Total)
	}
}

func TestMarkAsReadIdempotent(t *testing.T) {
	db := setupTestDB(t)
	notifier := newTestNotificationService(db)

	author := createTestUser(t, db, "alice")
	reader := createTestUser(t, db, "bob")
	article := createTestArticle(t, db, author, "Read Me", true)
	if err := notifier.reactionEvent(reader.ID, article, model.ClassArticleLiked, "%s 点赞了文章《%s》"); err != nil {
		t.Fatalf("分发通知失败: %v", err)
	}

	resp, err := notifier.ListForUser(author.ID, &dto.NotificationListRequest{})
	if err != nil {
		t.Fatalf("获取通知失败: %v", err)
	}
	notificationID := resp.List[0].ID

	if err := notifier.MarkAsRead(author.ID, notificationID); err != nil {
		t.Fatalf("标记已读失败: %v", err)
	}
	// 重复标记幂等
	if err := notifier.MarkAsRead(author.ID, notificationID); err != nil {
		t.Fatalf("重复标记应幂等: %v", err)
	}

	resp, err = notifier.ListForUser(author.ID, &dto.NotificationListRequest{})
	if err != nil {
		t.Fatalf("获取通知失败: %v", err)
	}
	if resp.UnreadCount != 0 || !resp.List[0].IsRead {
		t.Fatalf("已读状态错误: %+v", resp)
	}

	// 未订阅者标记报错
	if err := notifier.MarkAsRead(reader.ID, notificationID); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("期望 ErrNotificationNotFound, 得到 %v", err)
	}
}

func TestMarkAllAsRead(t *testing.T) {
	db := setupTestDB(t)
	notifier := newTestNotificationService(db)

	author := createTestUser(t, db, "alice")
	reader := createTestUser(t, db, "bob")
	article := createTestArticle(t, db, author, "Bulk Read", true)

	for i := 0; i < 3; i++ {
		if err := notifier.reactionEvent(reader.ID, article, model.ClassArticleFavorited, "%s 收藏了文章《%s》"); err != nil {
			t.Fatalf("分发通知失败: %v", err)
		}
	}

	if err := notifier.MarkAllAsRead(author.ID); err != nil {
		t.Fatalf("全部标记已读失败: %v", err)
	}
	// 无未读时再次调用仍成功
	if err := notifier.MarkAllAsRead(author.ID); err != nil {
		t.Fatalf("重复全部标记应幂等: %v", err)
	}

	resp, err := notifier.ListForUser(author.ID, &dto.NotificationListRequest{})
	if err != nil {
		t.Fatalf("获取通知失败: %v", err)
	}
	if resp.Total != 3 || resp.UnreadCount != 0 {
		t.Fatalf("标记后状态错误: total=%d unread=%d", resp.Total, resp.UnreadCount)
	}
}

func TestListForUserFilterByReadState(t *testing.T) {
	db := setupTestDB(t)
	notifier := newTestNotificationService(db)

	author := createTestUser(t, db, "alice")
	reader := createTestUser(t, db, "bob")
	article := createTestArticle(t, db, author, "Filtered", true)

	if err := notifier.reactionEvent(reader.ID, article, model.ClassArticleLiked, "%s 点赞了文章《%s》"); err != nil {
		t.Fatalf("分发通知失败: %v", err)
	}
	if err := notifier.reactionEvent(reader.ID, article, model.ClassArticleFavorited, "%s 收藏了文章《%s》"); err != nil {
		t.Fatalf("分发通知失败: %v", err)
	}

	all, err := notifier.ListForUser(author.ID, &dto.NotificationListRequest{})
	if err != nil {
		t.Fatalf("获取通知失败: %v", err)
	}
	if err := notifier.MarkAsRead(author.ID, all.List[0].ID); err != nil {
		t.Fatalf("标记已读失败: %v", err)
	}

	read := true
	readOnly, err := notifier.ListForUser(author.ID, &dto.NotificationListRequest{IsRead: &read})
	if err != nil {
		t.Fatalf("获取已读通知失败: %v", err)
	}
	if readOnly.Total != 1 {
		t.Fatalf("已读筛选错误: total = %d", readOnly.Total)
	}

	unread := false
	unreadOnly, err := notifier.ListForUser(author.ID, &dto.NotificationListRequest{IsRead: &unread})
	if err != nil {
		t.Fatalf("获取未读通知失败: %v", err)
	}
	if unreadOnly.Total != 1 {
		t.Fatalf("未读筛选错误: total = %d", unreadOnly.Total)
	}
}

func TestCleanupReadRemovesStaleNotifications(t *testing.T) {
	db := setupTestDB(t)
	notifier := newTestNotificationService(db)

	author := createTestUser(t, db, "alice")
	reader := createTestUser(t, db, "bob")
	article := createTestArticle(t, db, author, "Stale", true)

	// 一条全部已读的旧通知，一条仍未读的旧通知
	if err := notifier.reactionEvent(reader.ID, article, model.ClassArticleLiked, "%s 点赞了文章《%s》"); err != nil {
		t.Fatalf("分发通知失败: %v", err)
	}
	if err := notifier.reactionEvent(reader.ID, article, model.ClassArticleFavorited, "%s 收藏了文章《%s》"); err != nil {
		t.Fatalf("分发通知失败: %v", err)
	}

	resp, err := notifier.ListForUser(author.ID, &dto.NotificationListRequest{})
	if err != nil {
		t.Fatalf("获取通知失败: %v", err)
	}
	readID := resp.List[0].ID
	if err := notifier.MarkAsRead(author.ID, readID); err != nil {
		t.Fatalf("标记已读失败: %v", err)
	}

	old := time.Now().AddDate(0, 0, -60)
	if err := db.Model(&model.Notification{}).
		Where("1 = 1").
		Update("created_at", old).Error; err != nil {
		t.Fatalf("回拨通知时间失败: %v", err)
	}

	if err := notifier.CleanupRead(30); err != nil {
		t.Fatalf("清理失败: %v", err)
	}

	var remaining []model.Notification
	if err := db.Find(&remaining).Error; err != nil {
		t.Fatalf("查询通知失败: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("应仅保留未读通知, 剩余 %d 条", len(remaining))
	}
	if remaining[0].ID == readID {
		t.Fatal("已读通知应被清理")
	}

	// 订阅与已读记录一并清理
	var subs int64
	db.Model(&model.NotificationSubscriber{}).Where("notification_id = ?", readID).Count(&subs)
	if subs != 0 {
		t.Fatal("订阅记录应随通知清理")
	}
}
