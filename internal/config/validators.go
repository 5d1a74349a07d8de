package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/idelchi/gogen/pkg/validator"

	"github.com/pixcrypt/pixcrypt/internal/pipeline"
)

// registerExclusive adds a custom validator ensuring two fields are mutually exclusive,
// and reports fields by their flag label.
func registerExclusive(validator *validator.Validator) error {
	if err := validator.RegisterValidationAndTranslation(
		"exclusive",
		validateExclusive,
		"{0} is mutually exclusive with {1}, set only one of them",
	); err != nil {
		return fmt.Errorf("registering exclusive validation: %w", err)
	}

	validator.Validator().RegisterTagNameFunc(func(fld reflect.StructField) string {
		const splitSize = 2

		name := strings.SplitN(fld.Tag.Get("label"), ",", splitSize)[0]
		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	return nil
}

// validateExclusive fails when both the field and the named sibling field are non-empty strings.
func validateExclusive(fl validator.FieldLevel) bool {
	field := fl.Field()
	other := fl.Parent().FieldByName(fl.Param())

	if !field.IsValid() || !other.IsValid() {
		return true
	}

	if field.Kind() != reflect.String || other.Kind() != reflect.String {
		return true
	}

	return field.String() == "" || other.String() == ""
}

// RegisterCipherMode adds the "ciphermode" validation, accepting whatever pipeline.ParseMode accepts.
func RegisterCipherMode(validator *validator.Validator) error {
	if err := validator.RegisterValidationAndTranslation(
		"ciphermode",
		validateCipherMode,
		"{0} must be ECB or CBC",
	); err != nil {
		return fmt.Errorf("registering ciphermode validation: %w", err)
	}

	return nil
}

func validateCipherMode(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}

	_, err := pipeline.ParseMode(fl.Field().String())

	return err == nil
}
