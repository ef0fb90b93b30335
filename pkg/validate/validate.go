// Package validate runs go-playground/validator struct-tag validation and
// flattens the result into a field → message map keyed by JSON field name.
//
//	type CheckoutInput struct {
//	    LoanDuration int `json:"loan_duration" validate:"required,gt=0"`
//	}
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v = validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
	return v
}

// Struct validates s. The returned map is empty when s is valid.
func Struct(s interface{}) map[string]string {
	errs := make(map[string]string)

	err := engine().Struct(s)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["_"] = err.Error()
		return errs
	}

	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = message(fe)
	}
	return errs
}

// HasErrors reports whether the map returned by Struct has any entries.
func HasErrors(errs map[string]string) bool {
	return len(errs) > 0
}

func message(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", f)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", f)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s must be at least %s characters.", f, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", f, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s may not be greater than %s characters.", f, fe.Param())
		}
		return fmt.Sprintf("The %s may not be greater than %s.", f, fe.Param())
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", f, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s must be at least %s.", f, fe.Param())
	case "lte":
		return fmt.Sprintf("The %s may not be greater than %s.", f, fe.Param())
	case "oneof":
		return fmt.Sprintf("The %s must be one of: %s.", f, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("The %s field is invalid (%s).", f, fe.Tag())
	}
}
