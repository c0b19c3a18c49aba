package router

import (
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSetupRegistersDeclaredRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Setup(r)

	registered := make(map[string]bool)
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"POST /api/users",
		"POST /api/users/login",
		"GET /api/users/verify/:token",
		"POST /api/users/password-reset",
		"PUT /api/users/password-reset",
		"POST /api/users/refresh",
		"POST /api/users/logout",
		"GET /api/user",
		"PUT /api/user",
		"GET /api/user/profile",
		"GET /api/profiles/:username",
		"POST /api/profiles/:username/follow",
		"DELETE /api/profiles/:username/follow",
		"POST /api/articles/create",
		"GET /api/articles",
		"GET /api/articles/mine",
		"GET /api/articles/:slug",
		"PUT /api/articles/:slug/edit",
		"PATCH /api/articles/:slug/edit",
		"DELETE /api/articles/:slug/edit",
		"GET /api/articles/:slug/likes",
		"GET /api/articles/:slug/rating",
		"POST /api/articles/:slug/rate",
		"PUT /api/articles/:slug/rate",
		"GET /api/articles/favorites",
		"GET /api/articles/bookmarks",
		"GET /api/articles/:slug/comments",
		"POST /api/articles/:slug/comments",
		"POST /api/articles/:slug/comments/:id",
		"PUT /api/articles/:slug/comments/:id",
		"PATCH /api/articles/:slug/comments/:id",
		"DELETE /api/articles/:slug/comments/:id",
		"PATCH /api/articles/:slug/comments/:id/restore",
		"GET /api/user/notifications",
		"PUT /api/user/notifications",
		"PUT /api/user/notifications/:id",
		"POST /api/admin/maintenance/cleanup",
	}
	for _, want := range expected {
		if !registered[want] {
			t.Errorf("路由未注册: %s", want)
		}
	}
}
