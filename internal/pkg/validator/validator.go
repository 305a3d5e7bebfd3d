package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
)

// Validator checks request DTOs. Field names in errors are the json names.
type Validator struct {
	validate *validator.Validate
}

// FieldError describes one failed rule
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// New registers the alert-specific tags:
//
//	alert_status  value is a known lifecycle status
//	notblank      string has non-whitespace content
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("alert_status", func(fl validator.FieldLevel) bool {
		return alert.Status(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{validate: v}
}

// Validate returns one FieldError per failed rule, or nil
func (v *Validator) Validate(i interface{}) []FieldError {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Tag: "struct", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fmt.Sprintf("%v", fe.Value()),
			Message: message(fe),
		})
	}
	return out
}

// Check is Validate folded into a VALIDATION_ERROR carrying the field errors
func (v *Validator) Check(i interface{}) *errors.AppError {
	if fieldErrs := v.Validate(i); len(fieldErrs) > 0 {
		return errors.ValidationError("Validation failed", fieldErrs)
	}
	return nil
}

// CheckStatusFilter validates an optional status query value
func (v *Validator) CheckStatusFilter(status string) *errors.AppError {
	if err := v.validate.Var(status, "omitempty,alert_status"); err != nil {
		return errors.ValidationError("Invalid status filter", []FieldError{{
			Field:   "status",
			Tag:     "alert_status",
			Value:   status,
			Message: fmt.Sprintf("status must be one of %v", alert.AllStatuses),
		}})
	}
	return nil
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "alert_status":
		return fmt.Sprintf("%s must be one of %v", field, alert.AllStatuses)
	case "required_without":
		return fmt.Sprintf("%s is required when %s is empty", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation for tag: %s", field, fe.Tag())
	}
}
