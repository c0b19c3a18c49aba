package slugify

import (
	"fmt"

	"github.com/gosimple/slug"
)

// Make 将标题转换为URL友好的slug
func Make(s string) string {
	return slug.Make(s)
}

// Unique 生成唯一slug
// 基础slug已被占用时，依次追加 -1、-2 … 直到找到未占用的值
func Unique(base string, exists func(string) bool) string {
	candidate := Make(base)
	if candidate == "" {
		candidate = "article"
	}
	if !exists(candidate) {
		return candidate
	}

	for i := 1; ; i++ {
		next := fmt.Sprintf("%s-%d", candidate, i)
		if !exists(next) {
			return next
		}
	}
}
