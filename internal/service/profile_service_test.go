package service

import (
	"errors"
	"testing"

	"github.com/authorshaven/haven-api/internal/dto"
)

func TestFollowAndUnfollow(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestProfileService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	if err := svc.Follow(alice.ID, bob.Username); err != nil {
		t.Fatalf("关注失败: %v", err)
	}
	// 重复关注被拒绝
	if err := svc.Follow(alice.ID, bob.Username); !errors.Is(err, ErrAlreadyFollowing) {
		t.Fatalf("期望 ErrAlreadyFollowing, 得到 %v", err)
	}

	// 被关注方的粉丝数与关注状态
	profile, err := svc.GetByUsername(bob.Username, &alice.ID)
	if err != nil {
		t.Fatalf("获取资料失败: %v", err)
	}
	if profile.FollowerCount != 1 || !profile.Following {
		t.Fatalf("关注状态错误: %+v", profile)
	}

	// 未登录视角following恒为false
	anon, err := svc.GetByUsername(bob.Username, nil)
	if err != nil {
		t.Fatalf("获取资料失败: %v", err)
	}
	if anon.Following {
		t.Fatal("匿名视角不应有关注标记")
	}

	if err := svc.Unfollow(alice.ID, bob.Username); err != nil {
		t.Fatalf("取消关注失败: %v", err)
	}
	if err := svc.Unfollow(alice.ID, bob.Username); !errors.Is(err, ErrNotFollowing) {
		t.Fatalf("期望 ErrNotFollowing, 得到 %v", err)
	}
}

func TestFollowRejectsSelf(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestProfileService(db)
	alice := createTestUser(t, db, "alice")

	if err := svc.Follow(alice.ID, alice.Username); !errors.Is(err, ErrSelfFollow) {
		t.Fatalf("期望 ErrSelfFollow, 得到 %v", err)
	}
}

func TestFollowUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestProfileService(db)
	alice := createTestUser(t, db, "alice")

	if err := svc.Follow(alice.ID, "ghost"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("期望 ErrProfileNotFound, 得到 %v", err)
	}
}

func TestProfileUpdatePartialFields(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestProfileService(db)
	alice := createTestUser(t, db, "alice")

	bio := "写作者"
	city := "上海"
	profile, err := svc.Update(alice.ID, &dto.ProfileUpdateRequest{Bio: &bio, City: &city})
	if err != nil {
		t.Fatalf("更新资料失败: %v", err)
	}
	if profile.Bio != bio || profile.City != city {
		t.Fatalf("资料未更新: %+v", profile)
	}

	// 未提供的字段保持原值
	website := "https://example.com"
	profile, err = svc.Update(alice.ID, &dto.ProfileUpdateRequest{Website: &website})
	if err != nil {
		t.Fatalf("更新资料失败: %v", err)
	}
	if profile.Bio != bio {
		t.Fatal("未提供的字段不应被清空")
	}
}

func TestProfileUpdateChannelPrefs(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestProfileService(db)
	alice := createTestUser(t, db, "alice")

	off := false
	profile, err := svc.Update(alice.ID, &dto.ProfileUpdateRequest{
		EmailPrefs: &dto.ChannelPrefsUpdate{ArticleLiked: &off},
	})
	if err != nil {
		t.Fatalf("更新偏好失败: %v", err)
	}
	if profile.EmailPrefs.ArticleLiked {
		t.Fatal("邮件点赞偏好应已关闭")
	}
	// 其余开关不受影响
	if !profile.EmailPrefs.ArticlePublished || !profile.AppPrefs.ArticleLiked {
		t.Fatal("未指定的偏好不应改变")
	}

	detail, err := svc.GetDetail(alice.ID)
	if err != nil {
		t.Fatalf("获取资料失败: %v", err)
	}
	if detail.EmailPrefs.ArticleLiked {
		t.Fatal("偏好响应应反映最新状态")
	}
}

func TestProfileFullName(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestProfileService(db)
	alice := createTestUser(t, db, "alice")

	first, last := "三", "张"
	if _, err := svc.Update(alice.ID, &dto.ProfileUpdateRequest{FirstName: &first, LastName: &last}); err != nil {
		t.Fatalf("更新资料失败: %v", err)
	}

	profile, err := svc.GetByUsername(alice.Username, nil)
	if err != nil {
		t.Fatalf("获取资料失败: %v", err)
	}
	if profile.FullName != "三 张" {
		t.Fatalf("全名 = %q", profile.FullName)
	}
}

func TestProfileList(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestProfileService(db)
	createTestUser(t, db, "alice")
	createTestUser(t, db, "bob")
	createTestUser(t, db, "carol")

	list, total, err := svc.List(&dto.ProfileListRequest{Page: 1, PageSize: 2}, nil)
	if err != nil {
		t.Fatalf("获取资料列表失败: %v", err)
	}
	if total != 3 || len(list) != 2 {
		t.Fatalf("分页错误: total=%d len=%d", total, len(list))
	}
}
