// Package vtest provides testing helpers for validated forms.
//
// The vtest package reduces boilerplate when testing form validation by
// providing a fluent form builder, user-like interactions and assertions on
// the rendered error state.
//
// # Quick Start
//
//	func TestSignup_RequiresEmail(t *testing.T) {
//	    f := vtest.NewForm(signupPage).
//	        WithRules(validator.IsRequired("#email", "")).
//	        WithCallback().
//	        Build(t)
//
//	    f.Submit()
//	    f.ExpectInvalid("#email").ExpectSubmissions(0)
//	}
//
// # Fluent Form Builder
//
// The builder defaults to the "form", ".form-group" and ".form-message"
// selectors; override them with WithSelectors:
//
//	f := vtest.NewForm(page).
//	    WithSelectors("#register", ".field", ".field-error").
//	    WithRules(rules...).
//	    Build(t)
//
// Forms can also be built from a vdom tree with NewFormFromVNode.
//
// # Interactions
//
// Type, Check, Uncheck, Attach and Blur dispatch the same events a browser
// would. Submit goes through the form's submit event and returns the
// validator.Result of the attempt:
//
//	res := f.Type("#email", "a@b.co").Blur("#email").Submit()
//
// # Assertions
//
//	f.ExpectMessage("#email", validator.DefaultEmailMessage)
//	f.ExpectValid("#username")
//	vtest.ExpectContains(t, Page(), `novalidate`)
package vtest
