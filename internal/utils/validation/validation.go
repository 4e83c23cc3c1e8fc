// Package validation holds the request validator shared by the HTTP layer and
// the services. Rules are declared with `binding` struct tags so gin and the
// services read the same constraints.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// UsernamePattern is the accepted username shape: 3-32 characters of lower case
// letters, digits, underscore, dot or hyphen.
var UsernamePattern = regexp.MustCompile(`^[a-z0-9_.-]{3,32}$`)

var (
	once     sync.Once
	instance *validator.Validate
)

func validateUsername(fl validator.FieldLevel) bool {
	return UsernamePattern.MatchString(fl.Field().String())
}

func register(v *validator.Validate) {
	_ = v.RegisterValidation("username", validateUsername)
}

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.SetTagName("binding")
		register(instance)
	})
	return instance
}

// RegisterGinValidations adds the custom rules to gin's binding validator.
func RegisterGinValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator is not go-playground/validator")
	}
	register(v)
	return nil
}

// Struct validates s and flattens the failures into one readable message.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	return errors.New(Message(err))
}

// Message renders validator failures as "field is required; ..." and any
// other error as its text.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return strings.Join(msgs, "; ")
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "username":
		return field + " must be 3-32 characters of a-z, 0-9, '_', '.' or '-'"
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
