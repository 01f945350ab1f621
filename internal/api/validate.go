package api

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// basicEmailRe is deliberately loose: something@something.something.
var basicEmailRe = regexp.MustCompile(`\S+@\S+\.\S+`)

type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New()

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})

	// Registration only fails for an empty tag name or nil func.
	_ = v.RegisterValidation("basic_email", func(fl validator.FieldLevel) bool {
		return basicEmailRe.MatchString(fl.Field().String())
	})

	return &requestValidator{validate: v}
}

// check returns a *ValidationError describing every failed rule of req.
func (v *requestValidator) check(req any) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return NewValidationError(err.Error())
	}

	problems := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			problems = append(problems, fmt.Sprintf("%s is required", field))
		case "basic_email":
			problems = append(problems, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			problems = append(problems, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		default:
			problems = append(problems, fmt.Sprintf("%s failed validation for %s", field, fe.Tag()))
		}
	}
	return NewValidationError(problems...)
}
