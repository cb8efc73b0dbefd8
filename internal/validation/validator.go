package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"ega-bank-client/internal/dto"
	apperrors "ega-bank-client/internal/errors"
	"ega-bank-client/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator wraps the go-playground validator with banking rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

var (
	instance *Validator
	once     sync.Once
)

// GetValidator returns the shared validator instance
func GetValidator() *Validator {
	once.Do(func() {
		instance = NewValidator()
	})
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, dto.Money{})

	_ = v.RegisterValidation("positive_amount", validatePositiveAmount)
	_ = v.RegisterValidation("account_type", validateAccountType)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Struct validates s and converts failures into a ValidationError carrying
// one message per field
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperrors.New(apperrors.ValidationGeneral, apperrors.WithCause(err))
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fields[fieldErr.Field()] = FormatFieldError(fieldErr)
	}

	code := apperrors.ValidationGeneral
	if len(validationErrs) == 1 {
		code = codeForTag(validationErrs[0].Tag())
	}

	return apperrors.New(code, apperrors.WithFields(fields), apperrors.WithCause(err))
}

// FormatFieldError renders one field failure as a short sentence
func FormatFieldError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "positive_amount":
		return "must be greater than zero"
	case "account_type":
		return "must be CHECKING or SAVINGS"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fieldErr.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fieldErr.Param())
	default:
		return fmt.Sprintf("failed %s validation", fieldErr.Tag())
	}
}

func codeForTag(tag string) apperrors.ErrorCode {
	switch tag {
	case "required":
		return apperrors.ValidationRequiredField
	case "positive_amount":
		return apperrors.ValidationNonPositive
	case "account_type":
		return apperrors.ValidationInvalidType
	default:
		return apperrors.ValidationGeneral
	}
}

// decimalValue exposes decimal amounts to the validator as their string form
func decimalValue(field reflect.Value) interface{} {
	switch d := field.Interface().(type) {
	case decimal.Decimal:
		return d.String()
	case dto.Money:
		return d.Decimal().String()
	}
	return nil
}

// validatePositiveAmount validates that an amount is greater than 0
func validatePositiveAmount(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		d, err := decimal.NewFromString(field.String())
		if err != nil {
			return false
		}
		return d.IsPositive()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return field.Int() > 0
	case reflect.Float32, reflect.Float64:
		return field.Float() > 0
	default:
		return false
	}
}

// validateAccountType validates that account type is one the backend accepts
func validateAccountType(fl validator.FieldLevel) bool {
	_, err := models.ParseAccountType(fl.Field().String())
	return err == nil
}
