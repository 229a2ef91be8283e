// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package selfservice

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldError is one rejected field, named as in the submitted JSON.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`

	rule string
}

// ValidationError carries every failing field of a submission at once.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("invalid fields: %s", strings.Join(names, ", "))
}

// rules that read a second field besides the one they are reported on
var crossFieldRules = map[string]string{
	"after_arrival": "arrivalDatetime",
	"party_size":    "partySize",
}

// Merge adds the rule errors in err to the type errors returned by DecodeForm.
// A field of the wrong type keeps its zero value, so rules reported on it, or
// reading it, are dropped. The result is in form order.
func (e *ValidationError) Merge(err error) *ValidationError {
	var rules *ValidationError
	if !errors.As(err, &rules) || rules == nil {
		return e
	}

	mistyped := make(map[string]bool, len(e.Fields))
	for _, f := range e.Fields {
		mistyped[f.Field] = true
	}

	out := &ValidationError{Fields: slices.Clone(e.Fields)}
	for _, f := range rules.Fields {
		if mistyped[baseField(f.Field)] || mistyped[crossFieldRules[f.rule]] {
			continue
		}
		out.Fields = append(out.Fields, f)
	}

	slices.SortStableFunc(out.Fields, func(a, b FieldError) int {
		return slices.Index(fieldOrder, baseField(a.Field)) - slices.Index(fieldOrder, baseField(b.Field))
	})

	return out
}

// baseField drops an element index, additionalGuestNames[1] becoming
// additionalGuestNames.
func baseField(path string) string {
	if i := strings.IndexByte(path, '['); i >= 0 {
		return path[:i]
	}
	return path
}

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterStructValidation(validateForm, Form{})

	return v
}

// validateForm holds the rules spanning more than one field.
func validateForm(sl validator.StructLevel) {
	f := sl.Current().Interface().(Form)

	arrival, aerr := time.Parse(time.RFC3339, f.ArrivalDatetime)
	departure, derr := time.Parse(time.RFC3339, f.DepartureDatetime)
	if aerr == nil && derr == nil && departure.Before(arrival) {
		sl.ReportError(f.DepartureDatetime, "departureDatetime", "DepartureDatetime", "after_arrival", "")
	}

	// an invalid party size is reported on its own
	if f.PartySize >= 1 && len(f.AdditionalGuestNames) > f.PartySize-1 {
		sl.ReportError(f.AdditionalGuestNames, "additionalGuestNames", "AdditionalGuestNames", "party_size", fmt.Sprint(f.PartySize-1))
	}
}

func check(v *validator.Validate, f *Form) *ValidationError {
	err := v.Struct(f)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &ValidationError{Fields: []FieldError{{Field: "", Message: err.Error()}}}
	}

	out := &ValidationError{}
	for _, fe := range errs {
		out.Fields = append(out.Fields, FieldError{Field: fieldPath(fe), Message: message(fe), rule: fe.Tag()})
	}

	return out
}

// fieldPath strips the struct name from the namespace, keeping indexes.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "datetime":
		return "must be an RFC 3339 date-time"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "after_arrival":
		return "must not be before arrivalDatetime"
	case "party_size":
		return fmt.Sprintf("must list at most %s names for this party size", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", bound(fe))
	case "max":
		return fmt.Sprintf("must be at most %s", bound(fe))
	}

	return fmt.Sprintf("failed the %q check", fe.Tag())
}

func bound(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return fe.Param() + " characters"
	case reflect.Slice:
		return fe.Param() + " entries"
	}
	return fe.Param()
}
