package helpers

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
)

// SlugMaxLength matches the product slug column size.
const SlugMaxLength = 50

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// NewValidator returns a validator with the catalog's custom tags registered.
// Errors are keyed by the field's form name when it has one.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return IsSlug(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// IsSlug reports whether s only holds letters, digits, hyphens and underscores.
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		label := capitalizeFirstLetter(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = "This field is required."
		case "min":
			errorMessages[field] = fmt.Sprintf("%s must have at least %s characters.", label, err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("Ensure %s has at most %s characters.", strings.ToLower(label), err.Param())
		case "oneof":
			errorMessages[field] = "Select a valid choice."
		case "slug":
			errorMessages[field] = "Enter a valid \"slug\" consisting of letters, numbers, underscores or hyphens."
		case "numeric", "number", "gt":
			errorMessages[field] = fmt.Sprintf("%s must be a positive number.", label)
		default:
			errorMessages[field] = fmt.Sprintf("%s failed on the %s rule.", label, err.Tag())
		}
	}
	return errorMessages
}

func capitalizeFirstLetter(s string) string {
	if len(s) == 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "_", " ")
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}
	return strings.Join(words, " ")
}

// GenerateSlug derives a slug from s that fits the slug column.
func GenerateSlug(s string) string {
	out := slug.Make(s)
	if len(out) > SlugMaxLength {
		out = strings.Trim(out[:SlugMaxLength], "-")
	}
	return out
}

// ParseID parses a route or form id. Zero and garbage are both invalid.
func ParseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// ParseIDs keeps the valid ids of values, in order.
func ParseIDs(values []string) []uint {
	ids := make([]uint, 0, len(values))
	for _, v := range values {
		if id, ok := ParseID(v); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
