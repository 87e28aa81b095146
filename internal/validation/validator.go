// Package validation adapts go-playground/validator to Echo and translates
// validation failures into apperror VALIDATION_ERROR responses with
// per-field details. Request DTOs declare their rules with `validate` tags;
// handlers call Bind, which decodes and validates in one step.
package validation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/itemhub/internal/apperror"
)

// Validator implements echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator that reports fields by their JSON names and knows
// the custom "maxbytes" rule (byte length, as opposed to max's rune count).
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report "email" instead of "Email" so details match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// bcrypt only looks at the first 72 bytes, so password length limits
	// must be measured in bytes.
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		var limit int
		if _, err := fmt.Sscanf(fl.Param(), "%d", &limit); err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})

	return &Validator{validate: v}
}

// Validate runs the struct's validate tags. It returns nil or an
// *apperror.AppError carrying one FieldError per failed field.
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.NewValidation("Validation failed")
	}

	details := make([]apperror.FieldError, 0, len(errs))
	for _, fe := range errs {
		details = append(details, apperror.FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return apperror.NewValidation("Validation failed", details...)
}

// Bind decodes the request body into dst and validates it. Decoding errors
// (malformed JSON, wrong types) are reported as VALIDATION_ERROR too.
func Bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return apperror.NewValidation("Invalid request body")
	}
	if err := c.Validate(dst); err != nil {
		if appErr := apperror.As(err); appErr != nil {
			return appErr
		}
		return apperror.NewInternal(fmt.Errorf("validating request: %w", err))
	}
	return nil
}

// ParseID reads a positive integer path parameter. Anything else is a
// VALIDATION_ERROR with an "Invalid ID" detail for that parameter.
func ParseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewValidation("Validation failed",
			apperror.FieldError{Field: name, Message: "Invalid ID"})
	}
	return id, nil
}

// messageFor renders a human-readable message for a single failed rule.
func messageFor(fe validator.FieldError) string {
	field := displayName(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "maxbytes":
		return field + " is too long"
	default:
		return field + " is invalid"
	}
}

// displayName capitalizes a JSON field name for use in messages.
func displayName(field string) string {
	if field == "" {
		return "Value"
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
