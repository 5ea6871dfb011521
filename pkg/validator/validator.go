// Package validator provides rule-based input validation for the
// account endpoints. Rules are composed per request and applied in one
// pass, collecting every field error instead of stopping at the first.
package validator

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

// FieldError describes a single failed rule.
type FieldError struct {
	Field   string
	Message string
}

// Errors is the collection of failed rules for one request.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns failure messages keyed by field, for error responses.
func (e Errors) Fields() map[string][]string {
	if len(e) == 0 {
		return nil
	}
	out := make(map[string][]string, len(e))
	for _, fe := range e {
		out[fe.Field] = append(out[fe.Field], fe.Message)
	}
	return out
}

// Rule pairs a check with the error reported when it fails.
type Rule struct {
	Check func() bool
	Err   FieldError
}

// Apply evaluates every rule and returns the accumulated Errors, or nil
// when all rules pass.
func Apply(rules ...Rule) error {
	var errs Errors
	for _, rule := range rules {
		if !rule.Check() {
			errs = append(errs, rule.Err)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

var loginRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Required fails on empty or whitespace-only values.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Err:   FieldError{Field: field, Message: "is required"},
	}
}

// MinLen fails when the value has fewer than n runes. Empty values pass
// so Required stays the single source of the "missing" error.
func MinLen(field, value string, n int) Rule {
	return Rule{
		Check: func() bool { return value == "" || utf8.RuneCountInString(value) >= n },
		Err:   FieldError{Field: field, Message: fmt.Sprintf("must be at least %d characters", n)},
	}
}

// MaxLen fails when the value has more than n runes.
func MaxLen(field, value string, n int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= n },
		Err:   FieldError{Field: field, Message: fmt.Sprintf("must be at most %d characters", n)},
	}
}

// Email fails unless the value parses as a single RFC 5322 address with
// a dotted domain. Empty values pass, as with MinLen.
func Email(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return true
			}
			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != value {
				return false
			}
			at := strings.LastIndex(value, "@")
			domain := value[at+1:]
			return strings.Contains(domain, ".") &&
				!strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
		},
		Err: FieldError{Field: field, Message: "must be a valid email address"},
	}
}

// Login restricts logins to letters, digits, underscore, dot and dash.
// Empty values pass, as with MinLen.
func Login(field, value string) Rule {
	return Rule{
		Check: func() bool { return value == "" || loginRegex.MatchString(value) },
		Err:   FieldError{Field: field, Message: "may only contain letters, digits, '_', '.' and '-'"},
	}
}
