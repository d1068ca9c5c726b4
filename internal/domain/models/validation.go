package models

import (
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator"
)

// FieldErrors maps a JSON field name to the first rule it failed.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}

type optionalRule struct {
	field   string
	present bool
	value   any
	tag     string
}

type optionalRuler interface {
	optionalRules() []optionalRule
}

// NewValidator returns a validator that reports JSON field names and knows
// the "notblank" rule.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return true
		}
		return strings.TrimSpace(field.String()) != ""
	})
	return v
}

// Validate checks struct tags and, for partial-update requests, the rules of
// every field that was actually sent. It returns FieldErrors on rule failures.
func Validate(v *validator.Validate, req any) error {
	violations := FieldErrors{}

	if err := v.Struct(req); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		for _, fe := range verrs {
			if _, seen := violations[fe.Field()]; !seen {
				violations[fe.Field()] = fe.Tag()
			}
		}
	}

	if ruler, ok := req.(optionalRuler); ok {
		for _, rule := range ruler.optionalRules() {
			if !rule.present {
				continue
			}
			if err := v.Var(rule.value, rule.tag); err != nil {
				tag := rule.tag
				if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
					tag = verrs[0].Tag()
				}
				violations[rule.field] = tag
			}
		}
	}

	if len(violations) > 0 {
		return violations
	}
	return nil
}
