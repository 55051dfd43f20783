package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// IsUsername 是一个自定义的校验函数，用户名只允许字母、数字和下划线
func IsUsername(fl validator.FieldLevel) bool {
	return usernameRe.MatchString(fl.Field().String())
}
