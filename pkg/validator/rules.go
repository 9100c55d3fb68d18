package validator

import (
	"fmt"
	"regexp"

	"github.com/vango-dev/formvalidator/pkg/dom"
)

// Default messages of the built-in rules.
const (
	DefaultRequiredMessage  = "This field is required."
	DefaultEmailMessage     = "Please enter a valid email address."
	DefaultMinLengthMessage = "Please use at least %d characters"
	DefaultConfirmMessage   = "Confirmation don't match"
	DefaultMaxLengthMessage = "Please use at most %d characters"
	DefaultPatternMessage   = "Please match the requested format."
	DefaultCustomMessage    = "This field is invalid."
)

// TestFunc judges a field value. It returns nil when the value passes; the
// text of a non-nil error is the message shown to the user. doc is the
// document the validator is bound to, for rules that compare fields.
type TestFunc func(value Value, doc *dom.Document) error

// Rule binds a test to the fields matched by Selector.
type Rule struct {
	Selector string
	Test     TestFunc
}

// FieldError is a failed rule.
type FieldError struct {
	Selector string       `json:"selector"`
	Message  string       `json:"message"`
	Field    *dom.Element `json:"-"`
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return e.Message
}

func fail(selector, msg, fallback string) error {
	if msg == "" {
		msg = fallback
	}
	return &FieldError{Selector: selector, Message: msg}
}

// IsRequired fails when the value is absent or blank after trimming.
// An empty msg selects the default message.
func IsRequired(selector, msg string) Rule {
	return Rule{
		Selector: selector,
		Test: func(value Value, _ *dom.Document) error {
			if value.IsBlank() {
				return fail(selector, msg, DefaultRequiredMessage)
			}
			return nil
		},
	}
}

// emailPattern accepts local@domain.tld with optional single dot or hyphen
// separators and one or more final labels of two or three characters.
var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// IsEmail fails unless the value looks like an email address.
func IsEmail(selector, msg string) Rule {
	return Rule{
		Selector: selector,
		Test: func(value Value, _ *dom.Document) error {
			if !value.IsSet() || !emailPattern.MatchString(value.String()) {
				return fail(selector, msg, DefaultEmailMessage)
			}
			return nil
		},
	}
}

// MinLength fails when the value has fewer than length characters.
// An absent value has length zero.
func MinLength(selector string, length int, msg string) Rule {
	return Rule{
		Selector: selector,
		Test: func(value Value, _ *dom.Document) error {
			if value.Len() < length {
				return fail(selector, msg, fmt.Sprintf(DefaultMinLengthMessage, length))
			}
			return nil
		},
	}
}

// MaxLength fails when the value has more than length characters.
func MaxLength(selector string, length int, msg string) Rule {
	return Rule{
		Selector: selector,
		Test: func(value Value, _ *dom.Document) error {
			if value.Len() > length {
				return fail(selector, msg, fmt.Sprintf(DefaultMaxLengthMessage, length))
			}
			return nil
		},
	}
}

// Pattern fails unless the whole value matches re. Absent and empty values
// pass; combine with IsRequired to demand one.
func Pattern(selector string, re *regexp.Regexp, msg string) Rule {
	return Rule{
		Selector: selector,
		Test: func(value Value, _ *dom.Document) error {
			s := value.String()
			if s == "" {
				return nil
			}
			if loc := re.FindStringIndex(s); loc == nil || loc[0] != 0 || loc[1] != len(s) {
				return fail(selector, msg, DefaultPatternMessage)
			}
			return nil
		},
	}
}

// IsConfirmed fails unless the value equals the current value of the first
// element in the document matched by target.
func IsConfirmed(selector, target, msg string) Rule {
	return Rule{
		Selector: selector,
		Test: func(value Value, doc *dom.Document) error {
			var want Value
			if doc != nil {
				if el := doc.QuerySelector(target); el != nil {
					want = ValueOf(el.Value())
				}
			}
			if !value.Equal(want) {
				return fail(selector, msg, DefaultConfirmMessage)
			}
			return nil
		},
	}
}

// Custom fails when ok returns false.
func Custom(selector string, ok func(Value) bool, msg string) Rule {
	return Rule{
		Selector: selector,
		Test: func(value Value, _ *dom.Document) error {
			if ok == nil || !ok(value) {
				return fail(selector, msg, DefaultCustomMessage)
			}
			return nil
		},
	}
}
