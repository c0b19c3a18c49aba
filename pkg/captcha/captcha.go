package captcha

import (
	"github.com/mojocn/base64Captcha"
)

// 使用内存存储验证码答案，10分钟过期由store内部维护
var store = base64Captcha.DefaultMemStore

// Generate 生成数字图片验证码
// 返回验证码ID与base64编码的图片
func Generate(length int) (id string, b64 string, err error) {
	if length <= 0 {
		length = 4
	}
	driver := base64Captcha.NewDriverDigit(80, 240, length, 0.7, 80)
	c := base64Captcha.NewCaptcha(driver, store)
	id, b64, _, err = c.Generate()
	return id, b64, err
}

// Verify 校验验证码，校验后立即失效
func Verify(id, answer string) bool {
	if id == "" || answer == "" {
		return false
	}
	return store.Verify(id, answer, true)
}
