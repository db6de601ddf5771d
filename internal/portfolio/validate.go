// Package portfolio binds the portfolio collections to the CRUD manager and
// implements the settings editor, the contact form and the dashboard.
package portfolio

import (
	"errors"
	"reflect"
	"strings"

	"github.com/devfolio/devfolio/internal/errs"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// check validates s and converts the first violation into a ValidationFailure.
func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return errs.Validation("", err.Error())
	}
	fe := ve[0]
	return errs.Validation(fe.Field(), message(fe))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url", "http_url":
		return "must be a valid URL"
	case "min", "max":
		return "is out of range"
	}
	return "is invalid"
}

func trim(s string) string { return strings.TrimSpace(s) }

// splitList splits a comma-separated list, trimming entries and dropping empty ones.
func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
