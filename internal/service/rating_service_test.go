package service

import (
	"errors"
	"testing"

	"github.com/authorshaven/haven-api/internal/dto"
	"github.com/authorshaven/haven-api/internal/model"
)

func TestRateRejectsSelfRating(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRatingService(db)
	author := createTestUser(t, db, "alice")
	article := createTestArticle(t, db, author, "Self Rated", true)

	if _, err := svc.Rate(author.ID, article.Slug, &dto.RatingRequest{Value: 5}); !errors.Is(err, ErrSelfRating) {
		t.Fatalf("期望 ErrSelfRating, 得到 %v", err)
	}
}

func TestRateOncePerUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRatingService(db)
	author := createTestUser(t, db, "alice")
	reader := createTestUser(t, db, "bob")
	article := createTestArticle(t, db, author, "Rated Once", true)

	rating, err := svc.Rate(reader.ID, article.Slug, &dto.RatingRequest{Value: 4, Review: "不错"})
	if err != nil {
		t.Fatalf("评分失败: %v", err)
	}
	if rating.Value != 4 || rating.Review != "不错" {
		t.Fatalf("评分记录错误: %+v", rating)
	}

	if _, err := svc.Rate(reader.ID, article.Slug, &dto.RatingRequest{Value: 2}); !errors.Is(err, ErrAlreadyRated) {
		t.Fatalf("期望 ErrAlreadyRated, 得到 %v", err)
	}
}

func TestRatingUpdate(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRatingService(db)
	author := createTestUser(t, db, "alice")
	reader := createTestUser(t, db, "bob")
	article := createTestArticle(t, db, author, "Re-Rated", true)

	// 没有评分时修改报错
	if _, err := svc.Update(reader.ID, article.Slug, &dto.RatingRequest{Value: 3}); !errors.Is(err, ErrRatingNotFound) {
		t.Fatalf("期望 ErrRatingNotFound, 得到 %v", err)
	}

	if _, err := svc.Rate(reader.ID, article.Slug, &dto.RatingRequest{Value: 2}); err != nil {
		t.Fatalf("评分失败: %v", err)
	}
	updated, err := svc.Update(reader.ID, article.Slug, &dto.RatingRequest{Value: 5, Review: "改观了"})
	if err != nil {
		t.Fatalf("修改评分失败: %v", err)
	}
	if updated.Value != 5 || updated.Review != "改观了" {
		t.Fatalf("评分未更新: %+v", updated)
	}
}

func TestRatingListWithAverage(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRatingService(db)
	author := createTestUser(t, db, "alice")
	article := createTestArticle(t, db, author, "Averaged", true)

	// 未评分时均分为nil
	resp, err := svc.List(article.Slug, &dto.RatingListRequest{})
	if err != nil {
		t.Fatalf("获取评分列表失败: %v", err)
	}
	if resp.Average != nil {
		t.Fatalf("无评分时均分应为nil, 得到 %v", *resp.Average)
	}

	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")
	if _, err := svc.Rate(bob.ID, article.Slug, &dto.RatingRequest{Value: 5}); err != nil {
		t.Fatalf("评分失败: %v", err)
	}
	if _, err := svc.Rate(carol.ID, article.Slug, &dto.RatingRequest{Value: 2}); err != nil {
		t.Fatalf("评分失败: %v", err)
	}

	resp, err = svc.List(article.Slug, &dto.RatingListRequest{})
	if err != nil {
		t.Fatalf("获取评分列表失败: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d", resp.Total)
	}
	if resp.Average == nil || *resp.Average != 3.5 {
		t.Fatalf("均分错误: %v", resp.Average)
	}
}

func TestRateRequiresVisibleArticle(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRatingService(db)
	author := createTestUser(t, db, "alice")
	reader := createTestUser(t, db, "bob")
	draft := createTestArticle(t, db, author, "Hidden Draft", false)

	if _, err := svc.Rate(reader.ID, draft.Slug, &dto.RatingRequest{Value: 4}); !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("期望 ErrArticleNotFound, 得到 %v", err)
	}
}

func TestRateSurfacesStorageErrors(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRatingService(db)
	author := createTestUser(t, db, "alice")
	reader := createTestUser(t, db, "bob")
	article := createTestArticle(t, db, author, "Broken Ratings", true)

	// 评分表不可用时错误应上抛，而不是被当作"未评分"继续写入
	if err := db.Migrator().DropTable(&model.Rating{}); err != nil {
		t.Fatalf("删除评分表失败: %v", err)
	}

	_, err := svc.Rate(reader.ID, article.Slug, &dto.RatingRequest{Value: 4})
	if err == nil {
		t.Fatal("期望存储错误上抛")
	}
	if errors.Is(err, ErrAlreadyRated) || errors.Is(err, ErrSelfRating) {
		t.Fatalf("存储错误不应映射为业务错误: %v", err)
	}
}
