package vtest

import (
	"strings"
	"testing"

	"github.com/vango-dev/formvalidator/pkg/dom"
	"github.com/vango-dev/formvalidator/pkg/validator"
	"github.com/vango-dev/formvalidator/pkg/vdom"
)

// Default selectors used by NewForm.
const (
	DefaultForm    = "form"
	DefaultGroup   = ".form-group"
	DefaultMessage = ".form-message"
)

// FormBuilder allows fluent construction of a validated test form.
type FormBuilder struct {
	markup   string
	node     *vdom.VNode
	cfg      validator.Config
	callback bool
	observer validator.Observer
	opts     []validator.Option
}

// NewForm creates a builder for a form parsed from markup.
//
// Example:
//
//	f := vtest.NewForm(page).
//	    WithRules(validator.IsRequired("#email", "")).
//	    WithCallback().
//	    Build(t)
func NewForm(markup string) *FormBuilder {
	return &FormBuilder{
		markup: markup,
		cfg: validator.Config{
			Form:              DefaultForm,
			FormGroupSelector: DefaultGroup,
			MessageSelector:   DefaultMessage,
		},
	}
}

// NewFormFromVNode creates a builder for a form built from a vdom tree.
func NewFormFromVNode(node *vdom.VNode) *FormBuilder {
	b := NewForm("")
	b.node = node
	return b
}

// WithSelectors overrides the form, group and message selectors.
// Empty arguments keep the current value.
func (b *FormBuilder) WithSelectors(form, group, message string) *FormBuilder {
	if form != "" {
		b.cfg.Form = form
	}
	if group != "" {
		b.cfg.FormGroupSelector = group
	}
	if message != "" {
		b.cfg.MessageSelector = message
	}
	return b
}

// WithInvalidClass sets the invalid marker class.
func (b *FormBuilder) WithInvalidClass(class string) *FormBuilder {
	b.cfg.InvalidClass = class
	return b
}

// WithRules appends rules.
func (b *FormBuilder) WithRules(rules ...validator.Rule) *FormBuilder {
	b.cfg.Rules = append(b.cfg.Rules, rules...)
	return b
}

// WithCallback installs an OnSubmit callback that records every submission.
// Without it, successful submits are native submissions.
func (b *FormBuilder) WithCallback() *FormBuilder {
	b.callback = true
	return b
}

// WithObserver forwards validation outcomes to o.
func (b *FormBuilder) WithObserver(o validator.Observer) *FormBuilder {
	b.observer = o
	return b
}

// WithOptions passes extra options to validator.New.
func (b *FormBuilder) WithOptions(opts ...validator.Option) *FormBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

// Build creates the document and binds the validator. It fails the test
// when either step fails.
func (b *FormBuilder) Build(t testing.TB) *Form {
	t.Helper()

	f := &Form{t: t, forward: b.observer, cfg: b.cfg}
	native := dom.WithNativeSubmit(func(*dom.Element) { f.natives++ })

	if b.node != nil {
		f.doc = dom.FromVNode(b.node, native)
	} else {
		doc, err := dom.ParseString(b.markup, native)
		if err != nil {
			t.Fatalf("vtest: parse form: %v", err)
		}
		f.doc = doc
	}

	cfg := b.cfg
	if b.callback {
		cfg.OnSubmit = func(data validator.FormData) {
			f.submissions = append(f.submissions, data)
		}
	}
	if cfg.InvalidClass == "" {
		f.cfg.InvalidClass = validator.DefaultInvalidClass
	}

	opts := append([]validator.Option{validator.WithObserver(f)}, b.opts...)
	v, err := validator.New(f.doc, cfg, opts...)
	if err != nil {
		t.Fatalf("vtest: new validator: %v", err)
	}
	f.v = v
	return f
}

// Form drives a validated document the way a user would.
type Form struct {
	t   testing.TB
	doc *dom.Document
	v   *validator.Validator
	cfg validator.Config

	forward     validator.Observer
	results     []validator.Result
	submissions []validator.FormData
	natives     int
}

// FieldValidated implements validator.Observer.
func (f *Form) FieldValidated(selector string, ok bool) {
	if f.forward != nil {
		f.forward.FieldValidated(selector, ok)
	}
}

// SubmitFinished implements validator.Observer.
func (f *Form) SubmitFinished(res validator.Result) {
	f.results = append(f.results, res)
	if f.forward != nil {
		f.forward.SubmitFinished(res)
	}
}

// Document returns the underlying document.
func (f *Form) Document() *dom.Document { return f.doc }

// Validator returns the bound validator.
func (f *Form) Validator() *validator.Validator { return f.v }

// Element returns the first element matching selector and fails the test
// when there is none.
func (f *Form) Element(selector string) *dom.Element {
	f.t.Helper()
	el := f.doc.QuerySelector(selector)
	if el == nil {
		f.t.Fatalf("vtest: no element matches %q", selector)
	}
	return el
}

// Type sets the value of a field and dispatches an input event.
func (f *Form) Type(selector, value string) *Form {
	f.t.Helper()
	el := f.Element(selector)
	el.SetValue(value)
	el.Dispatch(dom.NewEvent(dom.EventInput))
	return f
}

// Check checks a checkbox or radio and dispatches input and change events.
func (f *Form) Check(selector string) *Form {
	f.t.Helper()
	return f.setChecked(selector, true)
}

// Uncheck unchecks a checkbox and dispatches input and change events.
func (f *Form) Uncheck(selector string) *Form {
	f.t.Helper()
	return f.setChecked(selector, false)
}

func (f *Form) setChecked(selector string, checked bool) *Form {
	f.t.Helper()
	el := f.Element(selector)
	el.SetChecked(checked)
	el.Dispatch(dom.NewEvent(dom.EventInput))
	el.Dispatch(dom.NewEvent(dom.EventChange))
	return f
}

// Attach selects files in a file input and dispatches an input event.
func (f *Form) Attach(selector string, files ...dom.File) *Form {
	f.t.Helper()
	el := f.Element(selector)
	el.SetFiles(files)
	el.Dispatch(dom.NewEvent(dom.EventInput))
	return f
}

// Blur dispatches a blur event on the field.
func (f *Form) Blur(selector string) *Form {
	f.t.Helper()
	f.Element(selector).Dispatch(dom.NewEvent(dom.EventBlur))
	return f
}

// Submit requests a submission of the form through its submit event and
// returns the outcome reported by the validator.
func (f *Form) Submit() validator.Result {
	f.t.Helper()
	form := f.v.Form()
	if form == nil {
		f.t.Fatalf("vtest: form %q not bound", f.cfg.Form)
	}
	before := len(f.results)
	form.RequestSubmit()
	if len(f.results) == before {
		f.t.Fatalf("vtest: submit event did not reach the validator")
	}
	return f.results[len(f.results)-1]
}

// Submissions returns the data received by the OnSubmit callback.
func (f *Form) Submissions() []validator.FormData { return f.submissions }

// NativeSubmits returns how many times the form was submitted natively.
func (f *Form) NativeSubmits() int { return f.natives }

func (f *Form) group(selector string) *dom.Element {
	f.t.Helper()
	group := f.Element(selector).Closest(f.cfg.FormGroupSelector)
	if group == nil {
		f.t.Fatalf("vtest: %q has no %q group", selector, f.cfg.FormGroupSelector)
	}
	return group
}

// Message returns the text of the message slot in the field's group.
func (f *Form) Message(selector string) string {
	f.t.Helper()
	slot := f.group(selector).QuerySelector(f.cfg.MessageSelector)
	if slot == nil {
		return ""
	}
	return slot.Text()
}

// Invalid reports whether the field's group carries the invalid marker.
func (f *Form) Invalid(selector string) bool {
	f.t.Helper()
	return f.group(selector).HasClass(f.cfg.InvalidClass)
}

// ExpectMessage asserts the message shown for a field.
//
// Example:
//
//	f.Blur("#email").ExpectMessage("#email", validator.DefaultEmailMessage)
func (f *Form) ExpectMessage(selector, want string) *Form {
	f.t.Helper()
	if got := f.Message(selector); got != want {
		f.t.Errorf("message for %s = %q, want %q", selector, got, want)
	}
	return f
}

// ExpectInvalid asserts that the field's group is marked invalid.
func (f *Form) ExpectInvalid(selector string) *Form {
	f.t.Helper()
	if !f.Invalid(selector) {
		f.t.Errorf("expected %s group to be invalid", selector)
	}
	return f
}

// ExpectValid asserts that the field's group is not marked invalid and
// shows no message.
func (f *Form) ExpectValid(selector string) *Form {
	f.t.Helper()
	if f.Invalid(selector) {
		f.t.Errorf("expected %s group to be valid, message %q", selector, f.Message(selector))
	}
	if msg := f.Message(selector); msg != "" {
		f.t.Errorf("expected no message for %s, got %q", selector, msg)
	}
	return f
}

// ExpectSubmissions asserts how many times OnSubmit was called.
func (f *Form) ExpectSubmissions(want int) *Form {
	f.t.Helper()
	if got := len(f.submissions); got != want {
		f.t.Errorf("submissions = %d, want %d", got, want)
	}
	return f
}

// RenderToString renders a VNode and returns the HTML string.
// This is useful for asserting on page markup before it becomes a document.
func RenderToString(node *vdom.VNode) string {
	return dom.FromVNode(node).String()
}

// ExpectContains asserts that rendered output contains expected substring.
//
// Example:
//
//	vtest.ExpectContains(t, RegisterPage(), `class="form-message"`)
func ExpectContains(t testing.TB, node *vdom.VNode, expected string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t testing.TB, node *vdom.VNode, unexpected string) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
