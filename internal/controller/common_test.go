package controller

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/authorshaven/haven-api/internal/service"
	"github.com/gin-gonic/gin"
)

func TestHandleServiceErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"空草稿", service.ErrEmptyDraft, http.StatusBadRequest},
		{"回复层级超限", service.ErrReplyDepth, http.StatusBadRequest},
		{"凭证错误", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"非文章作者", service.ErrNotArticleAuthor, http.StatusForbidden},
		{"重复评分", service.ErrAlreadyRated, http.StatusForbidden},
		{"文章不存在", service.ErrArticleNotFound, http.StatusNotFound},
		{"未收藏", service.ErrNotFavorited, http.StatusNotFound},
		{"重复点赞", service.ErrAlreadyReacted, http.StatusNotAcceptable},
		{"重复收藏", service.ErrAlreadyFavorited, http.StatusNotAcceptable},
		{"重复书签", service.ErrAlreadyBookmarked, http.StatusNotAcceptable},
		{"重复关注", service.ErrAlreadyFollowing, http.StatusNotAcceptable},
		{"未知错误", errors.New("连接中断"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			handleServiceError(c, tc.err, "操作失败")
			if w.Code != tc.want {
				t.Fatalf("%v 期望状态码 %d, 得到 %d", tc.err, tc.want, w.Code)
			}
		})
	}
}
