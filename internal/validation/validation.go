// Package validation проверяет входные структуры по тегам `validate`
// и возвращает ошибки с json-именами полей.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"appnity/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var (
	slugRe  = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	phoneRe = regexp.MustCompile(`^\+?1?\d{9,15}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			// multipart-формы описаны тегом form
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("hexcolor6", func(fl validator.FieldLevel) bool {
		return colorRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || phoneRe.MatchString(s)
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	// trimmin=N: не меньше N символов без пробелов по краям
	_ = v.RegisterValidation("trimmin", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
	})

	return v
}

// Struct проверяет структуру и возвращает apperr.FieldErrors либо nil.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation(err.Error())
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fieldPath(fe)
		if _, exists := fields[name]; !exists {
			fields[name] = message(fe)
		}
	}
	return apperr.FieldErrors(fields)
}

// fieldPath убирает имя корневой структуры: "Req.tags[0]" -> "tags[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without", "notblank":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "url", "http_url":
		return "Enter a valid URL."
	case "trimmin":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Ensure this field has at least %s items.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Ensure this field has no more than %s items.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice. Choose one of: %s.", fmt.Sprint(fe.Value()), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "slug":
		return "Enter a valid slug consisting of letters, numbers, underscores or hyphens."
	case "hexcolor6":
		return "Enter a hex color like #3B82F6."
	case "phone":
		return "Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed."
	case "eqfield":
		return fmt.Sprintf("Must match %s.", fe.Param())
	default:
		return fmt.Sprintf("Invalid value (%s).", fe.Tag())
	}
}
