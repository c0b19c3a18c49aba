package render

import (
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday"
)

var policy = bluemonday.UGCPolicy()

// Markdown 将Markdown文本渲染为净化后的HTML
// 渲染结果经过白名单过滤，防止脚本注入
func Markdown(src string) string {
	if src == "" {
		return ""
	}
	html := blackfriday.MarkdownCommon([]byte(src))
	return string(policy.SanitizeBytes(html))
}
