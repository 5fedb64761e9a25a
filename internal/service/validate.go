package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"helpdesk/internal/auth"
	"helpdesk/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	must("severity", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseSeverity(fl.Field().String())
		return ok
	})
	must("status", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseStatus(fl.Field().String())
		return ok
	})
	must("role", func(fl validator.FieldLevel) bool {
		_, ok := auth.ParseRole(fl.Field().String())
		return ok
	})
	return v
}

// check validates in and folds every field error into one ErrValidation.
func check(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return invalid("%s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "email":
		return f + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", f, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", f, fe.Param())
	case "excludes":
		return fmt.Sprintf("%s must not contain %q", f, fe.Param())
	case "hexcolor":
		return f + " must be a hex color"
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range", f)
	case "severity":
		return f + " must be one of Low, Medium, High, Critical"
	case "status":
		return f + " must be one of New, InProgress, OnHold, Resolved, Closed"
	case "role":
		return f + " must be one of Admin, Supervisor, Support, User"
	}
	return f + " is invalid"
}

func trim(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}
