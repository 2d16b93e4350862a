// Package validation holds the request DTOs accepted by the services and the
// rules they are checked against before any remote call is made.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/asistoya/shared-services/internal/core/apperr"
	"github.com/asistoya/shared-services/internal/core/domain"
)

// Defaulter is implemented by requests that fill optional fields before
// validation.
type Defaulter interface {
	ApplyDefaults()
}

var (
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockRe = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)
	hhmmRe  = regexp.MustCompile(`^\d{2}:\d{2}$`)
	phoneRe = regexp.MustCompile(`^[\+]?[(]?[0-9]{1,4}[)]?[-\s\.]?[0-9]{1,4}[-\s\.]?[0-9]{1,9}$`)
	upperRe = regexp.MustCompile(`[A-Z]`)
	lowerRe = regexp.MustCompile(`[a-z]`)
	digitRe = regexp.MustCompile(`[0-9]`)
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		mustRegister(v, "ymd", matches(dateRe))
		mustRegister(v, "clock", matches(clockRe))
		mustRegister(v, "hhmm", matches(hhmmRe))
		mustRegister(v, "phone", matches(phoneRe))
		mustRegister(v, "password", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return upperRe.MatchString(s) && lowerRe.MatchString(s) && digitRe.MatchString(s)
		})
		v.RegisterStructValidation(dateRangeOrder, DateRange{}, ReportDateRange{})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// dateRangeOrder rejects ranges whose start falls after their end. Malformed
// dates are left to the field rules.
func dateRangeOrder(sl validator.StructLevel) {
	var start, end string
	switch r := sl.Current().Interface().(type) {
	case DateRange:
		start, end = r.StartDate, r.EndDate
	case ReportDateRange:
		start, end = r.StartDate, r.EndDate
	default:
		return
	}
	s, err1 := time.Parse(domain.DateLayout, start)
	e, err2 := time.Parse(domain.DateLayout, end)
	if err1 != nil || err2 != nil {
		return
	}
	if s.After(e) {
		sl.ReportError(start, "startDate", "StartDate", "daterange", "")
	}
}

// Validate applies defaults to req when it implements Defaulter and checks it.
// The first failure is returned as a validation error naming the offending
// field by its JSON path, e.g. records[0].status.
func Validate(req any) error {
	if d, ok := req.(Defaulter); ok {
		d.ApplyDefaults()
	}
	err := instance().Struct(req)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return apperr.New("validation: "+invalid.Error(), apperr.CodeValidation, 400)
	}
	if fe, ok := firstFieldError(err); ok {
		return apperr.Validation(fieldPath(fe), message(fe))
	}
	return err
}

func firstFieldError(err error) (validator.FieldError, bool) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fieldErrs[0], true
	}
	return nil, false
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("At least %s %s required", fe.Param(), field)
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return "Invalid email address"
	case "uuid":
		return "Invalid " + field + " (expected UUID)"
	case "url":
		return "Invalid URL"
	case "ymd":
		return "Invalid date format (YYYY-MM-DD)"
	case "clock":
		return "Invalid time format"
	case "hhmm":
		return "Invalid time format (HH:mm)"
	case "phone":
		return "Invalid phone number"
	case "password":
		return "Password must contain an uppercase letter, a lowercase letter and a number"
	case "datetime":
		return "Invalid datetime"
	case "daterange":
		return "Start date must be before or equal to end date"
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
