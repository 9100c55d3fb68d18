// Package validator binds declarative validation rules to the fields of a
// form in a dom.Document.
//
// A Validator is built once per form:
//
//	v, err := validator.New(doc, validator.Config{
//	    Form:              "#form",
//	    FormGroupSelector: ".form-group",
//	    MessageSelector:   ".error-message",
//	    Rules: []validator.Rule{
//	        validator.IsRequired("#username", ""),
//	        validator.IsEmail("#email", ""),
//	        validator.MinLength("#password", 6, ""),
//	        validator.IsConfirmed("#confirm-password", "#password", ""),
//	        validator.IsRequired(`input[name="gender"]`, ""),
//	    },
//	    OnSubmit: func(data validator.FormData) {
//	        log.Println(data.Text("email"))
//	    },
//	})
//
// Rules sharing a selector accumulate and run in declaration order; the
// first failing test supplies the message. Every field matched by a rule
// validates on blur and clears its error state on input. Submitting the
// form validates all selectors, then either blocks or collects the form
// data for OnSubmit (or submits natively when OnSubmit is nil).
//
// # Field kinds
//
// Checkbox and radio fields are judged by the value of the first checked
// element matching the rule selector, or by an absent Value when none is
// checked. File inputs are judged by the name of their first file. Every
// other field is judged by its raw value.
//
// # Submit
//
// On submit the first field matching each selector is validated. When that
// field is text-like, every match of the selector is validated, so repeated
// text fields each get their own verdict. Checkbox and radio groups are
// validated once.
package validator
