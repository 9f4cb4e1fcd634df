// Package validator 提供 gin binding 的自定义验证器
package validator

import (
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	validatorV10 "github.com/go-playground/validator/v10"
)

// CustomValidator 实现 binding.StructValidator，使用 binding 标签
type CustomValidator struct {
	once     sync.Once
	validate *validatorV10.Validate
}

var _ binding.StructValidator = (*CustomValidator)(nil)

// NewCustomValidator 创建 CustomValidator 实例
func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

// ValidateStruct 校验结构体，非结构体入参直接放行
func (v *CustomValidator) ValidateStruct(obj interface{}) error {
	value := reflect.ValueOf(obj)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}

	v.lazyinit()
	if err := v.validate.Struct(obj); err != nil {
		return err
	}
	return nil
}

// Engine 返回底层的 validator 引擎
func (v *CustomValidator) Engine() interface{} {
	v.lazyinit()
	return v.validate
}

func (v *CustomValidator) lazyinit() {
	v.once.Do(func() {
		v.validate = validatorV10.New()
		v.validate.SetTagName("binding")
	})
}

// RegisterCustom 在当前 binding 验证器上注册领域校验规则
func RegisterCustom() {
	validate, ok := binding.Validator.Engine().(*validatorV10.Validate)
	if !ok {
		return
	}

	// weekdaymask: 星期掩码，bit0 为周日，至多 7 位
	_ = validate.RegisterValidation("weekdaymask", func(fl validatorV10.FieldLevel) bool {
		mask := fl.Field().Int()
		return mask >= 0 && mask <= 127
	})
}
