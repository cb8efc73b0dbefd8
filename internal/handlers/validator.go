package handlers

import (
	"ega-bank-client/internal/validation"

	"github.com/labstack/echo/v4"
)

// CustomValidator implements echo.Validator with the shared banking rules
type CustomValidator struct {
	validator *validation.Validator
}

// NewValidator creates a new custom validator
func NewValidator() echo.Validator {
	return &CustomValidator{validator: validation.GetValidator()}
}

// Validate returns an *errors.Error carrying one message per failed field
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
