// Request body validation built on go-playground/validator.
// Field names in error details follow the JSON tags so clients see the
// names they actually sent.
package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		if i := strings.IndexByte(name, ','); i >= 0 {
			return name[:i]
		}
		return name
	})

	return v
}

// validationDetails flattens validator errors into field -> message pairs
// for the error response body.
func validationDetails(err error) map[string]string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"body": err.Error()}
	}

	details := make(map[string]string, len(fieldErrs))
	for _, e := range fieldErrs {
		details[e.Field()] = friendlyMessage(e)
	}
	return details
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	default:
		return fmt.Sprintf("failed %s validation", e.Tag())
	}
}
