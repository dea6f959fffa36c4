// Package validation настраивает валидатор входных данных и переводит его ошибки
// в человекочитаемые сообщения.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator"
)

// emailPattern — упрощённая проверка вида local@domain.tld.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// IsEmail сообщает, похожа ли строка на адрес электронной почты.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// New возвращает валидатор с зарегистрированным тегом contact_email и
// именами полей, взятыми из json-тегов. Тег contact_email пропускает пустую строку:
// для полей-указателей omitempty срабатывает только на nil.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	mustRegister(v, "contact_email", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || IsEmail(s)
	})
	return v
}

// mustRegister регистрирует пользовательский тег и паникует, если валидатор его отверг.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register tag %q: %s", tag, err))
	}
}

// Message собирает ошибки валидации в одну строку, разделённую запятыми.
func Message(errs validator.ValidationErrors) string {
	var msgs []string
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), strings.ReplaceAll(err.Param(), " ", ", ")))
		case "email", "contact_email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("field %s must be at least %s characters", err.Field(), err.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return strings.Join(msgs, ", ")
}
