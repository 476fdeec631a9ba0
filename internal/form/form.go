// Package form holds the input checks shared by the CLI, before a request is
// sent, and the development API, before a request is accepted.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Login is the login form
type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register is the sign-up form
type Register struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	UserName  string `json:"userName" validate:"required,min=3,max=50,alphanum"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
}

// Profile is the profile edit form; nil fields are left unchanged
type Profile struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,max=50"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,max=50"`
	UserName  *string `json:"userName,omitempty" validate:"omitempty,min=3,max=50,alphanum"`
}

// Post is the create and edit form of a post
type Post struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=10000"`
}

// Comment is the comment form
type Comment struct {
	Content string `json:"content" validate:"required,max=2000"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a form and returns a message per invalid field, keyed by the
// field's JSON name. It returns nil when the form is valid.
func Validate(f any) map[string]string {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	return FieldErrors(err)
}

// FieldErrors converts a validator error into field messages. Errors of any other
// kind are reported under the "form" key.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"form": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "alphanum":
		return fmt.Sprintf("%s must contain only letters and numbers", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
