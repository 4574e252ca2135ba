package service

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// safeCharsRe rejects characters that carry meaning to query languages: $ : { } ( ) and whitespace.
var safeCharsRe = regexp.MustCompile("^[a-zA-Z0-9!@#%^&*_+=\\[\\]\\\\|;'\",.<>/?~`-]+$")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("safechars", func(fl validator.FieldLevel) bool {
		return safeCharsRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("domain2", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		at := strings.LastIndex(s, "@")
		if at < 0 {
			return false
		}
		labels := strings.Split(s[at+1:], ".")
		if len(labels) < 2 {
			return false
		}
		for _, l := range labels {
			if l == "" {
				return false
			}
		}
		return true
	})
	return v
}

// Field rules shared by the account forms. Passwords and answers are
// bcrypt-hashed, which rejects input over 72 bytes.
const (
	RuleBasic    = "required,safechars"
	RuleEmail    = "required,email,domain2,safechars"
	RulePassword = "required,safechars,max=72"
	RuleAnswer   = "required,safechars,max=72"
)

// ValidField reports whether value satisfies rule
func ValidField(value, rule string) bool {
	return validate.Var(value, rule) == nil
}

// FieldCheck pairs a form value with the label reported when it is invalid
type FieldCheck struct {
	Label string
	Value string
	Rule  string
}

// FirstInvalid returns the label of the first failing check, or "" when all pass
func FirstInvalid(checks ...FieldCheck) string {
	for _, c := range checks {
		if !ValidField(c.Value, c.Rule) {
			return c.Label
		}
	}
	return ""
}
