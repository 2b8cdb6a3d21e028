// Package validate turns raw user input into checked values.
//
// Every function here is pure: given a raw string it returns either the
// parsed value or a *Error. Nothing in this package reads from a
// terminal or touches the store, so the console, the HTTP handlers, and
// the store's update path all share the same rules.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/go-playground/validator/v10"
)

// emailPattern is the simple local@domain.tld rule the records file has
// always been written with.
var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.[A-Za-z]{2,}$`)

// EmailTag is the validator tag that applies emailPattern.
const EmailTag = "student_email"

// SingleLineTag is the validator tag that rejects control characters.
// A '\n' or '\r' inside a name or course would split one record across
// two lines of the records file, and both halves would be dropped on the
// next load.
const SingleLineTag = "single_line"

var checker = newChecker()

func newChecker() *validator.Validate {
	v := validator.New()
	// RegisterValidation only fails on an empty tag or nil func.
	_ = v.RegisterValidation(EmailTag, func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation(SingleLineTag, func(fl validator.FieldLevel) bool {
		return SingleLine(fl.Field().String())
	})
	return v
}

// Error is a rejected input value. It is returned by the validation
// layer, never by the store's own bookkeeping.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidEmail reports whether s looks like name@example.com.
func ValidEmail(s string) bool {
	return len(s) >= 5 && emailPattern.MatchString(s)
}

// SingleLine reports whether s is free of control characters.
func SingleLine(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) < 0
}

// ID parses a student identifier.
func ID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &Error{Field: "id", Reason: "must be an integer"}
	}
	return id, nil
}

// Age parses an age and checks it is positive.
func Age(raw string) (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &Error{Field: "age", Reason: "must be an integer"}
	}
	if err := PositiveAge(age); err != nil {
		return 0, err
	}
	return age, nil
}

// PositiveAge checks an already parsed age.
func PositiveAge(age int) error {
	if err := checker.Var(age, "gt=0"); err != nil {
		return &Error{Field: "age", Reason: "must be at least 1"}
	}
	return nil
}

// Email trims raw and checks it against the email rule.
func Email(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if err := checker.Var(email, EmailTag); err != nil {
		return "", &Error{Field: "email", Reason: "expected a format like name@example.com"}
	}
	return email, nil
}

// Required trims raw and rejects an empty result, or one that still
// holds a control character such as an embedded newline.
func Required(field, raw string) (string, error) {
	s := strings.TrimSpace(raw)
	err := checker.Var(s, "required,"+SingleLineTag)
	if err == nil {
		return s, nil
	}

	// Var reports the first failing tag, so the reason can name it.
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == SingleLineTag {
		return "", &Error{Field: field, Reason: "cannot contain line breaks or control characters"}
	}
	return "", &Error{Field: field, Reason: "cannot be empty"}
}

// Struct checks every validate:"..." tag on s. A failure is returned as
// validator.ValidationErrors so callers can report each field.
func Struct(s types.Student) error {
	return checker.Struct(s)
}
