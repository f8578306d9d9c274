package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"user-auth/internal/auth-service/core/myerrors"

	"github.com/go-playground/validator/v10"
)

// requestValidator reports fields by their JSON names and knows the
// "username" rule.
var requestValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
})

// fieldErrors turns validator output into per-field messages.
func fieldErrors(err error) myerrors.FieldErrors {
	fe := myerrors.FieldErrors{}
	if err == nil {
		return fe
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fe.Add("non_field_errors", err.Error())
		return fe
	}
	for _, v := range verrs {
		fe.Add(v.Field(), messageFor(v))
	}
	return fe
}

func messageFor(v validator.FieldError) string {
	switch v.Tag() {
	case "required":
		return msgRequired
	case "email":
		return msgInvalidEmail
	case "username":
		return msgBadUsername
	case "max":
		if v.Field() == "email" {
			return msgInvalidEmail
		}
		return fmt.Sprintf("Ensure this field has no more than %s characters.", v.Param())
	default:
		return fmt.Sprintf("Failed on the %q rule.", v.Tag())
	}
}
