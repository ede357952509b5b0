package handler

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dtroode/codeauth-server/internal/model"
)

// Validator adapts go-playground/validator to echo.Validator.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: validate}
}

// Validate checks i's struct tags. Failures are KindInvalidInput errors
// wrapping validator.ValidationErrors.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return model.NewError(model.KindInvalidInput, "validate request", err)
	}
	return nil
}
