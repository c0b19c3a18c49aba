package service

import (
	"fmt"
	"testing"

	"github.com/authorshaven/haven-api/internal/model"
	"github.com/authorshaven/haven-api/pkg/slugify"
	"github.com/glebarez/sqlite"
	"github.com/importcjj/sensitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB 创建内存数据库并建表
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}

	// 内存库每个连接各自独立，限制为单连接
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := model.InitTables(db); err != nil {
		t.Fatalf("初始化数据库表失败: %v", err)
	}
	return db
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func newTestNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db, logger: testLogger()}
}

func newTestTagService(db *gorm.DB) *TagService {
	return &TagService{db: db, logger: testLogger()}
}

func newTestArticleService(db *gorm.DB) *ArticleService {
	return &ArticleService{
		db:       db,
		logger:   testLogger(),
		tags:     newTestTagService(db),
		notifier: newTestNotificationService(db),
	}
}

func newTestCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		db:        db,
		logger:    testLogger(),
		sensitive: &SensitiveService{filter: sensitive.New()},
		notifier:  newTestNotificationService(db),
	}
}

func newTestInteractionService(db *gorm.DB) *InteractionService {
	return &InteractionService{
		db:       db,
		logger:   testLogger(),
		notifier: newTestNotificationService(db),
	}
}

func newTestRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db, logger: testLogger()}
}

func newTestProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{
		db:       db,
		logger:   testLogger(),
		notifier: newTestNotificationService(db),
	}
}

func newTestUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, logger: testLogger()}
}

// createTestUser 创建用户及资料
func createTestUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码失败: %v", err)
	}

	user := &model.User{
		Username:   username,
		Email:      fmt.Sprintf("%s@example.com", username),
		Password:   string(hash),
		Role:       "user",
		Status:     1,
		IsVerified: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}

	profile := &model.Profile{
		UserID:     user.ID,
		AppPrefs:   model.DefaultChannelPrefs(),
		EmailPrefs: model.DefaultChannelPrefs(),
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("创建测试资料失败: %v", err)
	}
	profile.User = user
	user.Profile = *profile
	return user
}

// createTestArticle 创建文章
func createTestArticle(t *testing.T, db *gorm.DB, author *model.User, title string, published bool) *model.Article {
	t.Helper()

	svc := newTestArticleService(db)
	article := &model.Article{
		Title:     title,
		Slug:      slugify.Unique(title, svc.slugExists),
		Body:      "正文内容",
		Published: published,
		Activated: true,
		AuthorID:  author.Profile.ID,
	}
	if err := db.Create(article).Error; err != nil {
		t.Fatalf("创建测试文章失败: %v", err)
	}
	article.Author = author.Profile
	return article
}
