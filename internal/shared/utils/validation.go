package utils

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/orris-inc/templink/internal/shared/errors"
)

var validate *validator.Validate

var allowedMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodOptions: {},
}

// init initializes the validator
func init() {
	validate = validator.New()

	// Use JSON tag names for validation errors
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Both accept the empty string, which means "any method" and "no
	// redirect" for a link.
	_ = validate.RegisterValidation("http_method", func(fl validator.FieldLevel) bool {
		method := strings.ToUpper(strings.TrimSpace(fl.Field().String()))
		if method == "" {
			return true
		}
		_, ok := allowedMethods[method]
		return ok
	})
	_ = validate.RegisterValidation("redirect_target", func(fl validator.FieldLevel) bool {
		target := fl.Field().String()
		return target == "" || IsRedirectTarget(target)
	})
}

// IsRedirectTarget reports whether target is an absolute path or an
// absolute http(s) URL.
func IsRedirectTarget(target string) bool {
	if strings.HasPrefix(target, "/") {
		return !strings.HasPrefix(target, "//")
	}
	return validate.Var(target, "http_url") == nil
}

// ValidateStruct validates a struct and returns a user-friendly error
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return errors.NewValidationError("Validation failed", err.Error())
	}

	var errorMessages []string
	for _, fieldError := range validationErrors {
		errorMessages = append(errorMessages, getFieldErrorMessage(fieldError))
	}

	return errors.NewValidationError(
		"Validation failed",
		strings.Join(errorMessages, "; "),
	)
}

// getFieldErrorMessage returns a user-friendly error message for a field validation error
func getFieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	case "http_method":
		return fmt.Sprintf("%s must be an HTTP method", field)
	case "redirect_target":
		return fmt.Sprintf("%s must be an absolute path or http(s) URL", field)
	default:
		return fmt.Sprintf("%s failed validation for '%s'", field, tag)
	}
}

// ValidateToken validates that a link token path parameter is present.
func ValidateToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.NewValidationError("token cannot be empty")
	}
	return nil
}
