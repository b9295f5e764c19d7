package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/report-card-manager/internal/models"
)

// ValidationError describes one failed field rule.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

// ValidationErrors collects every failed rule for one request.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no field errors"
	}
	parts := make([]string, 0, len(ve))
	for _, e := range ve {
		parts = append(parts, fmt.Sprintf("%s %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

// HasRule reports whether any collected failure was for the given rule.
func (ve ValidationErrors) HasRule(rule string) bool {
	for _, e := range ve {
		if e.Rule == rule {
			return true
		}
	}
	return false
}

// Validator checks request inputs against their declared field rules.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with the roster rules registered.
func New() *Validator {
	validate := validator.New()

	v := &Validator{validate: validate}
	v.registerRosterRules()

	return v
}

// Validate checks any tagged struct and reports every failed field.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var ferrs validator.ValidationErrors
	if !errors.As(err, &ferrs) {
		return ValidationErrors{{Field: "input", Message: err.Error()}}
	}

	verrs := make(ValidationErrors, 0, len(ferrs))
	for _, ferr := range ferrs {
		verrs = append(verrs, ValidationError{
			Field:   ferr.Field(),
			Message: errorMessage(ferr),
			Value:   ferr.Value(),
			Rule:    ferr.Tag(),
		})
	}
	return verrs
}

// registerRosterRules registers the custom field rules.
func (v *Validator) registerRosterRules() {
	// Subject scores live on the model's grading scale. The acceptance
	// form rejects NaN along with everything outside the bounds.
	v.validate.RegisterValidation("score_range", func(fl validator.FieldLevel) bool {
		score := fl.Field().Float()
		return score >= models.MinScore && score <= models.MaxScore
	})

	// Student names must contain visible characters.
	v.validate.RegisterValidation("student_name", func(fl validator.FieldLevel) bool {
		name := strings.TrimSpace(fl.Field().String())
		return len(name) >= 1
	})

	// Workbook targets must carry the xlsx extension.
	v.validate.RegisterValidation("xlsx_path", func(fl validator.FieldLevel) bool {
		path := strings.TrimSpace(fl.Field().String())
		return strings.HasSuffix(strings.ToLower(path), ".xlsx")
	})
}

// errorMessage returns user-facing text per rule.
func errorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "score_range":
		return "must be between 0 and 100"
	case "student_name":
		return "must not be blank"
	case "xlsx_path":
		return "must end with .xlsx"
	default:
		return fmt.Sprintf("failed rule '%s'", err.Tag())
	}
}
