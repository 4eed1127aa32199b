// Package validation checks contact payloads before they are written.
//
// Every rule runs; failures are accumulated per field rather than stopping at
// the first one. Blank optional fields are skipped by the rules themselves so
// that whitespace-only values behave like absent ones.
package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/duynhne/contact-service/internal/core/domain"
)

var (
	// 10-digit North-American number: optional +N/+NN country code, optional
	// parentheses around the area code, and '.', '-' or space separators.
	phonePattern = regexp.MustCompile(`^(\+\d{1,2}\s)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}$`)
	statePattern = regexp.MustCompile(`^[A-Za-z]{2}$`)
)

// messages maps a validation tag to the message reported for it.
var messages = map[string]string{
	"notblank":  "Name is required.",
	"phone":     "Phone is invalid.",
	"mailaddr":  "Email is invalid.",
	"statecode": "State must be 2 letters.",
}

// ContactValidator validates ContactDto values.
type ContactValidator struct {
	validate *validator.Validate
}

// NewContactValidator creates a validator with the contact rules registered.
func NewContactValidator() *ContactValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "notblank", notBlank)
	mustRegister(v, "phone", blankOr(phonePattern.MatchString))
	mustRegister(v, "mailaddr", blankOr(isMailAddress))
	mustRegister(v, "statecode", blankOr(statePattern.MatchString))
	return &ContactValidator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Validate returns every rule the contact breaks. An empty result means valid.
func (cv *ContactValidator) Validate(dto domain.ContactDto) domain.ValidationFailures {
	err := cv.validate.Struct(dto)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.ValidationFailures{{Message: err.Error()}}
	}

	failures := make(domain.ValidationFailures, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid.", fe.Field())
		}
		failures = append(failures, domain.ValidationFailure{
			Field:          fieldPath(fe),
			Message:        msg,
			AttemptedValue: fe.Value(),
		})
	}
	return failures
}

// fieldPath drops the root struct name: "ContactDto.Address.State" -> "Address.State".
func fieldPath(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func blankOr(check func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if strings.TrimSpace(s) == "" {
			return true
		}
		return check(s)
	}
}

// isMailAddress accepts a bare RFC 5322 address; display-name forms are rejected.
func isMailAddress(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
