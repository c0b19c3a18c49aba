package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/authorshaven/haven-api/internal/config"
	"github.com/authorshaven/haven-api/internal/logger"
	"github.com/authorshaven/haven-api/pkg/auth"
	"github.com/gin-gonic/gin"
)

func setupAuthConfig(t *testing.T) {
	t.Helper()
	logger.InitLogger(&config.LogConfig{Level: "error"})
	prev := config.GlobalConfig
	config.GlobalConfig = &config.Config{
		JWT: config.JWTConfig{
			SecretKey:            "test-secret",
			AccessExpireSeconds:  3600,
			RefreshExpireSeconds: 86400,
			BufferSeconds:        300,
			Issuer:               "haven-test",
		},
	}
	t.Cleanup(func() { config.GlobalConfig = prev })
}

func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWTAuth(), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		tokenID, _ := GetTokenID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "token_id": tokenID})
	})
	r.POST("/admin/cleanup", JWTAuth(), AdminAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"done": true})
	})
	return r
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	setupAuthConfig(t)
	r := newAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("无令牌请求应返回401, 得到 %d", w.Code)
	}
}

func TestJWTAuthRejectsRefreshToken(t *testing.T) {
	setupAuthConfig(t)
	r := newAuthTestRouter()

	pair, err := auth.GenerateTokenPair(3, "user", false)
	if err != nil {
		t.Fatalf("生成令牌失败: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("刷新令牌不应通过访问认证, 得到 %d", w.Code)
	}
}

func TestJWTAuthSetsIdentity(t *testing.T) {
	setupAuthConfig(t)
	r := newAuthTestRouter()

	pair, err := auth.GenerateTokenPair(7, "user", false)
	if err != nil {
		t.Fatalf("生成令牌失败: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("有效令牌应通过认证, 得到 %d", w.Code)
	}
}

func TestAdminAuthRequiresAdminRole(t *testing.T) {
	setupAuthConfig(t)
	r := newAuthTestRouter()

	userPair, err := auth.GenerateTokenPair(1, "user", false)
	if err != nil {
		t.Fatalf("生成令牌失败: %v", err)
	}
	adminPair, err := auth.GenerateTokenPair(2, "admin", false)
	if err != nil {
		t.Fatalf("生成令牌失败: %v", err)
	}

	// 普通用户被拒绝
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/cleanup", nil)
	req.Header.Set("Authorization", "Bearer "+userPair.AccessToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("普通用户应返回403, 得到 %d", w.Code)
	}

	// 管理员放行
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/admin/cleanup", nil)
	req.Header.Set("Authorization", "Bearer "+adminPair.AccessToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("管理员应通过认证, 得到 %d", w.Code)
	}
}
