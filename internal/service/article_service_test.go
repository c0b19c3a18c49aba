package service

import (
	"errors"
	"testing"

	"github.com/authorshaven/haven-api/internal/dto"
	"github.com/authorshaven/haven-api/internal/model"
)

func TestArticleCreateGeneratesUniqueSlug(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestArticleService(db)
	author := createTestUser(t, db, "alice")

	first, err := svc.Create(author.ID, &dto.ArticleCreateRequest{Title: "Hello World", Body: "正文", Published: true})
	if err != nil {
		t.Fatalf("创建文章失败: %v", err)
	}
	if first.Slug != "hello-world" {
		t.Fatalf("slug = %q, 期望 hello-world", first.Slug)
	}

	second, err := svc.Create(author.ID, &dto.ArticleCreateRequest{Title: "Hello World", Body: "正文", Published: true})
	if err != nil {
		t.Fatalf("创建同名文章失败: %v", err)
	}
	if second.Slug != "hello-world-1" {
		t.Fatalf("重名文章slug = %q, 期望 hello-world-1", second.Slug)
	}
}

func TestArticleUpdateKeepsSlugWhenTitleUnchanged(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestArticleService(db)
	author := createTestUser(t, db, "alice")
	article := createTestArticle(t, db, author, "Stable Slug", true)

	body := "更新后的正文"
	updated, err := svc.Update(author.ID, article.Slug, &dto.ArticleUpdateRequest{Body: &body})
	if err != nil {
		t.Fatalf("更新文章失败: %v", err)
	}
	if updated.Slug != article.Slug {
		t.Fatalf("正文编辑不应改变slug: %q -> %q", article.Slug, updated.Slug)
	}
	if updated.Body != body {
		t.Fatalf("正文未更新")
	}
}

func TestArticleUpdateRegeneratesSlugOnTitleChange(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestArticleService(db)
	author := createTestUser(t, db, "alice")
	article := createTestArticle(t, db, author, "Old Title", true)

	title := "Brand New Title"
	updated, err := svc.Update(author.ID, article.Slug, &dto.ArticleUpdateRequest{Title: &title})
	if err != nil {
		t.Fatalf("更新文章失败: %v", err)
	}
	if updated.Slug != "brand-new-title" {
		t.Fatalf("slug = %q, 期望 brand-new-title", updated.Slug)
	}
}

func TestArticleVisibilityForNonAuthor(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestArticleService(db)
	author := createTestUser(t, db, "alice")
	viewer := createTestUser(t, db, "bob")
	draft := createTestArticle(t, db, author, "Unpublished", false)

	// 未发布文章对他人不可见
	if _, err := svc.GetBySlug(draft.Slug, &viewer.ID); !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("期望 ErrArticleNotFound, 得到 %v", err)
	}
	// 作者本人可见
	if _, err := svc.GetBySlug(draft.Slug, &author.ID); err != nil {
		t.Fatalf("作者查看未发布文章失败: %v", err)
	}
	// 匿名不可见
	if _, err := svc.GetBySlug(draft.Slug, nil); !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("期望 ErrArticleNotFound, 得到 %v", err)
	}
}

func TestArticlePublishCopiesDraftIntoBody(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestArticleService(db)
	author := createTestUser(t, db, "alice")
	article := createTestArticle(t, db, author, "Draft Flow", false)

	draft := "草稿正文"
	if _, err := svc.Update(author.ID, article.Slug, &dto.ArticleUpdateRequest{Draft: &draft}); err != nil {
		t.Fatalf("保存草稿失败: %v", err)
	}

	published, err := svc.Publish(author.ID, article.Slug)
	if err != nil {
		t.Fatalf("发布失败: %v", err)
	}
	if !published.Published {
		t.Fatal("文章应处于已发布状态")
	}
	if published.Body != draft {
		t.Fatalf("body = %q, 期望草稿内容被拷入", published.Body)
	}
	if published.Editing {
		t.Fatal("发布后editing应复位")
	}
}

func TestArticlePublishRejectsEmptyDraft(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestArticleService(db)
	author := createTestUser(t, db, "alice")
	article := createTestArticle(t, db, author, "No Draft", false)

	if _, err := svc.Publish(author.ID, article.Slug); !errors.Is(err, ErrEmptyDraft) {
		t.Fatalf("期望 ErrEmptyDraft, 得到 %v", err)
	}
}

func TestArticleUpdateRejectsNonAuthor(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestArticleService(db)
	author := createTestUser(t, db, "alice")
	other := createTestUser(t, db, "bob")
	article := createTestArticle(t, db, author, "Mine Only", true)

	body := "篡改"
	if _, err := svc.Update(other.ID, article.Slug, &dto.ArticleUpdateRequest{Body: &body}); !errors.Is(err, ErrNotArticleAuthor) {
		t.Fatalf("期望 ErrNotArticleAuthor, 得到 %v", err)
	}
}

func TestArticleDeleteHidesFromList(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestArticleService(db)
	author := createTestUser(t, db, "alice")
	article := createTestArticle(t, db, author, "To Delete", true)

	if err := svc.Delete(author.ID, article.Slug); err != nil {
		t.Fatalf("删除文章失败: %v", err)
	}

	resp, err := svc.List(&dto.ArticleListRequest{})
	if err != nil {
		t.Fatalf("获取列表失败: %v", err)
	}
	if resp.Total != 0 {
		t.Fatalf("已删除文章不应出现在列表中, total = %d", resp.Total)
	}

	// 删除后作者也无法再访问
	if _, err := svc.GetBySlug(article.Slug, &author.ID); !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("期望 ErrArticleNotFound, 得到 %v", err)
	}
}

func TestArticleListFilterByTagAndAuthor(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestArticleService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	if _, err := svc.Create(alice.ID, &dto.ArticleCreateRequest{
		Title: "Go Tips", Body: "正文", Published: true, Tags: []string{"Golang"},
	}); err != nil {
		t.Fatalf("创建文章失败: %v", err)
	}
	if _, err := svc.Create(bob.ID, &dto.ArticleCreateRequest{
		Title: "Cooking", Body: "正文", Published: true, Tags: []string{"food"},
	}); err != nil {
		t.Fatalf("创建文章失败: %v", err)
	}

	// 标签筛选大小写不敏感（入库前slug化）
	byTag, err := svc.List(&dto.ArticleListRequest{Tag: "golang"})
	if err != nil {
		t.Fatalf("按标签筛选失败: %v", err)
	}
	if byTag.Total != 1 || byTag.List[0].Title != "Go Tips" {
		t.Fatalf("标签筛选结果错误: %+v", byTag)
	}

	byAuthor, err := svc.List(&dto.ArticleListRequest{Author: "bob"})
	if err != nil {
		t.Fatalf("按作者筛选失败: %v", err)
	}
	if byAuthor.Total != 1 || byAuthor.List[0].Title != "Cooking" {
		t.Fatalf("作者筛选结果错误: %+v", byAuthor)
	}
}

func TestArticleMineIncludesUnpublished(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestArticleService(db)
	author := createTestUser(t, db, "alice")
	createTestArticle(t, db, author, "Published One", true)
	createTestArticle(t, db, author, "Draft One", false)

	resp, err := svc.Mine(author.ID, &dto.ArticleListRequest{})
	if err != nil {
		t.Fatalf("获取本人文章失败: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("本人列表应含未发布文章, total = %d", resp.Total)
	}
}

func TestArticleAverageNilWithoutRatings(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestArticleService(db)
	author := createTestUser(t, db, "alice")
	article := createTestArticle(t, db, author, "Unrated", true)

	avg, err := svc.Average(article.ID)
	if err != nil {
		t.Fatalf("计算平均评分失败: %v", err)
	}
	if avg != nil {
		t.Fatalf("无评分时平均分应为nil, 得到 %v", *avg)
	}

	db.Create(&model.Rating{UserID: 99, ArticleID: article.ID, Value: 4})
	db.Create(&model.Rating{UserID: 100, ArticleID: article.ID, Value: 2})

	avg, err = svc.Average(article.ID)
	if err != nil {
		t.Fatalf("计算平均评分失败: %v", err)
	}
	if avg == nil || *avg != 3 {
		t.Fatalf("平均分错误: %v", avg)
	}
}
