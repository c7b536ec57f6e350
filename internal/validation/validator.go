package validation

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	apperrors "github.com/socialchef/chefgpt/internal/errors"
)

const fixSuggestion = "Check the request fields and try again."

var (
	once      sync.Once
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report JSON field names instead of Go field names
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		sanitizer = bluemonday.StrictPolicy()
	})
	return validate
}

// Struct validates v against its `validate` tags and returns a validation
// AppError naming every failing field.
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError(err.Error(), "INVALID_INPUT", fixSuggestion)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return apperrors.NewValidationError(strings.Join(msgs, "; "), "INVALID_INPUT", fixSuggestion)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s item(s)", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// SanitizeText strips all markup from user input, including markup hidden
// behind HTML entities, and returns trimmed plain text. Applying it to its
// own output is a no-op.
func SanitizeText(s string) string {
	instance()
	s = strings.TrimSpace(s)
	for {
		next := strings.TrimSpace(html.UnescapeString(sanitizer.Sanitize(s)))
		// Each productive pass strips a tag or decodes an entity and shrinks s.
		if next == s || len(next) >= len(s) {
			return next
		}
		s = next
	}
}

// SanitizeList sanitizes each entry and drops the ones left empty.
func SanitizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := SanitizeText(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
