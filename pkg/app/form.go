package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	val "github.com/go-playground/validator/v10"
)

// ValidError 单条参数校验错误
type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// ErrorsToString 将全部校验错误拼接为一条可读消息
func (v ValidErrors) ErrorsToString() string {
	return strings.Join(v.Errors(), ", ")
}

// MapsToString 返回字段名到错误消息的映射，供前端逐字段展示
func (v ValidErrors) MapsToString() map[string]string {
	m := make(map[string]string, len(v))
	for _, err := range v {
		m[err.Key] = err.Message
	}
	return m
}

// BindAndValid 绑定请求参数并执行校验
// 校验失败时返回逐字段的 ValidErrors
func BindAndValid(c *gin.Context, v interface{}) (bool, ValidErrors) {
	var validErrs ValidErrors
	err := c.ShouldBind(v)
	if err != nil {
		verrs, ok := err.(val.ValidationErrors)
		if !ok {
			// 非校验类绑定错误，例如 JSON 语法错误
			validErrs = append(validErrs, &ValidError{
				Key:     "_body",
				Message: err.Error(),
			})
			return false, validErrs
		}

		var trans ut.Translator
		if t, transOK := c.Get("trans"); transOK {
			trans, _ = t.(ut.Translator)
		}

		for _, verr := range verrs {
			message := verr.Error()
			if trans != nil {
				message = verr.Translate(trans)
			}
			validErrs = append(validErrs, &ValidError{
				Key:     verr.Field(),
				Message: message,
			})
		}
		return false, validErrs
	}

	return true, nil
}
