package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSuccessPageCarriesPageMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SuccessPage(c, "获取成功", gin.H{"items": []int{1, 2}}, 2, 10, 35)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d", w.Code)
	}

	var resp struct {
		Code int      `json:"code"`
		Meta PageMeta `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应解析失败: %v", err)
	}
	if resp.Code != 0 {
		t.Fatalf("code = %d", resp.Code)
	}
	if resp.Meta != NewPageMeta(2, 10, 35) {
		t.Fatalf("分页元数据错误: %+v", resp.Meta)
	}
}

func TestNotAcceptable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	NotAcceptable(c, "已收藏该文章", errors.New("重复收藏"))

	if w.Code != http.StatusNotAcceptable {
		t.Fatalf("状态码 = %d", w.Code)
	}

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应解析失败: %v", err)
	}
	if resp.Message != "已收藏该文章" {
		t.Fatalf("message = %q", resp.Message)
	}
}
