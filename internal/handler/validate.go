package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// newValidator создаёт валидатор с правилом notblank:
// строка не должна состоять из одних пробельных символов.
// Правило min=1 здесь не подходит: оно меряет строку до обрезки пробелов.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}
