package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/yakoovad/makarapreneur/internal/auth"
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("emailx", func(fl validator.FieldLevel) bool {
		return auth.IsValidEmail(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(strings.ReplaceAll(fl.Field().String(), " ", ""))
	})

	return &Validator{validate: v}
}

func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}
