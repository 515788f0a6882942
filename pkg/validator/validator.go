package validator

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance with domain validations registered
func New() *CustomValidator {
	v := validator.New()

	// Attachment kinds accepted by the analyze endpoint
	_ = v.RegisterValidation("attachmentkind", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "photo", "note":
			return true
		}
		return false
	})

	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
