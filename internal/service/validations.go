package service

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	errorvalues "github.com/halvard/choreboard/internal/error_values"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		// Rejects strings that are only whitespace; "required" alone lets
		// "   " through
		validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
}

func validateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		joined := errorvalues.ErrValidation
		for _, fieldErr := range validationErrors {
			joined = errors.Join(joined, fieldErr)
		}
		return joined
	}
	return errors.New("validation unexpected error: " + err.Error())
}

