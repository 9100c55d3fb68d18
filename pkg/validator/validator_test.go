package validator

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vango-dev/formvalidator/pkg/dom"
)

const registerMarkup = `<!DOCTYPE html>
<html><body>
<form id="form">
  <div class="form-group">
    <input id="username" name="username">
    <span class="error-message"></span>
  </div>
  <div class="form-group">
    <input id="email" name="email" type="email">
    <span class="error-message"></span>
  </div>
  <div class="form-group">
    <input id="password" name="password" type="password">
    <span class="error-message"></span>
  </div>
  <div class="form-group">
    <input id="confirm-password" name="confirm" type="password">
    <span class="error-message"></span>
  </div>
  <div class="form-group">
    <input id="avatar" name="avatar" type="file">
    <span class="error-message"></span>
  </div>
  <div class="form-group">
    <select id="select" name="select">
      <option value="">--</option>
      <option value="hn">Ha Noi</option>
    </select>
    <span class="error-message"></span>
  </div>
  <div class="form-group">
    <input type="radio" name="gender" value="male">
    <input type="radio" name="gender" value="female">
    <span class="error-message"></span>
  </div>
  <div class="form-group">
    <input type="checkbox" name="color" value="red">
    <input type="checkbox" name="color" value="green">
    <input type="checkbox" name="color" value="blue">
    <span class="error-message"></span>
  </div>
  <input name="locked" value="x" disabled>
  <button>Register</button>
</form>
</body></html>`

func registerRules() []Rule {
	return []Rule{
		IsRequired("#username", ""),
		IsEmail("#email", ""),
		MinLength("#password", 6, ""),
		IsConfirmed("#confirm-password", "#password", ""),
		IsRequired("#avatar", ""),
		IsRequired("#select", ""),
		IsRequired(`input[name="gender"]`, ""),
		IsRequired(`input[name="color"]`, ""),
	}
}

type fixture struct {
	doc     *dom.Document
	v       *Validator
	natives int
}

func newFixture(t *testing.T, markup string, cfg Config, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{}
	doc, err := dom.ParseString(markup, dom.WithNativeSubmit(func(*dom.Element) { f.natives++ }))
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}
	if cfg.Form == "" {
		cfg.Form = "#form"
	}
	if cfg.FormGroupSelector == "" {
		cfg.FormGroupSelector = ".form-group"
	}
	if cfg.MessageSelector == "" {
		cfg.MessageSelector = ".error-message"
	}
	v, err := New(doc, cfg, opts...)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	f.doc = doc
	f.v = v
	return f
}

func (f *fixture) el(t *testing.T, selector string) *dom.Element {
	t.Helper()
	el := f.doc.QuerySelector(selector)
	if el == nil {
		t.Fatalf("no element matches %q", selector)
	}
	return el
}

func (f *fixture) message(t *testing.T, selector string) string {
	t.Helper()
	return f.el(t, selector).Closest(".form-group").QuerySelector(".error-message").Text()
}

func (f *fixture) invalid(t *testing.T, selector string) bool {
	t.Helper()
	return f.el(t, selector).Closest(".form-group").HasClass("invalid")
}

func (f *fixture) fill(t *testing.T) {
	t.Helper()
	f.el(t, "#username").SetValue("ana")
	f.el(t, "#email").SetValue("ana@example.com")
	f.el(t, "#password").SetValue("secret1")
	f.el(t, "#confirm-password").SetValue("secret1")
	f.el(t, "#avatar").SetFiles([]dom.File{{Name: "me.png", Size: 120, ContentType: "image/png"}})
	f.el(t, "#select").SetValue("hn")
	f.el(t, `input[value="female"]`).SetChecked(true)
	f.el(t, `input[value="red"]`).SetChecked(true)
	f.el(t, `input[value="blue"]`).SetChecked(true)
}

func blur(el *dom.Element)  { el.Dispatch(dom.NewEvent(dom.EventBlur)) }
func input(el *dom.Element) { el.Dispatch(dom.NewEvent(dom.EventInput)) }

func TestBlurValidates(t *testing.T) {
	f := newFixture(t, registerMarkup, Config{Rules: registerRules()})

	blur(f.el(t, "#email"))
	if got := f.message(t, "#email"); got != DefaultEmailMessage {
		t.Errorf("message = %q, want %q", got, DefaultEmailMessage)
	}
	if !f.invalid(t, "#email") {
		t.Error("group not marked invalid")
	}

	f.el(t, "#email").SetValue("a@b.co")
	blur(f.el(t, "#email"))
	if got := f.message(t, "#email"); got != "" {
		t.Errorf("message after fix = %q, want empty", got)
	}
	if f.invalid(t, "#email") {
		t.Error("group still invalid after fix")
	}
}

func TestInputClearsWithoutValidating(t *testing.T) {
	f := newFixture(t, registerMarkup, Config{Rules: registerRules()})
	pw := f.el(t, "#password")

	pw.SetValue("abc")
	blur(pw)
	if !f.invalid(t, "#password") {
		t.Fatal("group not marked invalid after blur")
	}

	// Still too short, but input only clears.
	pw.SetValue("abcd")
	input(pw)
	if f.invalid(t, "#password") {
		t.Error("group still invalid after input")
	}
	if got := f.message(t, "#password"); got != "" {
		t.Errorf("message after input = %q, want empty", got)
	}

	blur(pw)
	if got := f.message(t, "#password"); got != "Please use at least 6 characters" {
		t.Errorf("message after second blur = %q", got)
	}
}

func TestRulesShareSelector(t *testing.T) {
	var calls []string
	first := Rule{Selector: "#username", Test: func(Value, *dom.Document) error {
		calls = append(calls, "A")
		return errors.New("A failed")
	}}
	second := Rule{Selector: "#username", Test: func(Value, *dom.Document) error {
		calls = append(calls, "B")
		return errors.New("B failed")
	}}

	f := newFixture(t, registerMarkup, Config{Rules: []Rule{first, second}})

	if got := f.v.Selectors(); !reflect.DeepEqual(got, []string{"#username"}) {
		t.Errorf("Selectors() = %v, want [#username]", got)
	}
	if got := len(f.v.Rules()); got != 2 {
		t.Errorf("len(Rules()) = %d, want 2", got)
	}
	// One binding per (field, selector).
	if got := f.el(t, "#username").ListenerCount(dom.EventBlur); got != 1 {
		t.Errorf("blur listeners = %d, want 1", got)
	}

	blur(f.el(t, "#username"))
	if !reflect.DeepEqual(calls, []string{"A"}) {
		t.Errorf("calls = %v, want [A]", calls)
	}
	if got := f.message(t, "#username"); got != "A failed" {
		t.Errorf("message = %q, want %q", got, "A failed")
	}
}

func TestRulesEvaluatedInOrder(t *testing.T) {
	f := newFixture(t, registerMarkup, Config{Rules: []Rule{
		IsRequired("#password", "required first"),
		MinLength("#password", 6, ""),
	}})
	pw := f.el(t, "#password")

	blur(pw)
	if got := f.message(t, "#password"); got != "required first" {
		t.Errorf("empty: message = %q", got)
	}

	pw.SetValue("abc")
	blur(pw)
	if got := f.message(t, "#password"); got != "Please use at least 6 characters" {
		t.Errorf("short: message = %q", got)
	}
}

func TestEmptyMessageCountsAsPass(t *testing.T) {
	quiet := Rule{Selector: "#username", Test: func(Value, *dom.Document) error {
		return errors.New("")
	}}
	f := newFixture(t, registerMarkup, Config{Rules: []Rule{quiet, IsRequired("#username", "")}})

	if f.v.Validate(f.el(t, "#username"), quiet) {
		t.Error("Validate() = true, want the second rule to fail")
	}
	if got := f.message(t, "#username"); got != DefaultRequiredMessage {
		t.Errorf("message = %q, want %q", got, DefaultRequiredMessage)
	}
}

func TestGroupedFieldValue(t *testing.T) {
	f := newFixture(t, registerMarkup, Config{Rules: registerRules()})
	male := f.el(t, `input[value="male"]`)
	female := f.el(t, `input[value="female"]`)
	gender := `input[name="gender"]`

	if f.v.Validate(male, IsRequired(gender, "")) {
		t.Error("Validate(no radio checked) = true")
	}

	// Checking the second radio satisfies a blur on the first.
	female.SetChecked(true)
	blur(male)
	if f.invalid(t, gender) {
		t.Error("radio group still invalid with a checked option")
	}

	var seen Value
	spy := Rule{Selector: `input[type="checkbox"]`, Test: func(v Value, _ *dom.Document) error {
		seen = v
		return nil
	}}
	f.el(t, `input[value="green"]`).SetChecked(true)
	f.el(t, `input[value="blue"]`).SetChecked(true)
	f.v.Validate(f.el(t, `input[value="red"]`), spy)
	if !seen.Equal(ValueOf("green")) {
		t.Errorf("checkbox value = %q, want first checked %q", seen, "green")
	}
}

func TestSubmitBlocked(t *testing.T) {
	calls := 0
	f := newFixture(t, registerMarkup, Config{
		Rules:    registerRules(),
		OnSubmit: func(FormData) { calls++ },
	})
	f.fill(t)
	f.el(t, "#username").SetValue("   ")

	res := f.v.Submit()
	if calls != 0 {
		t.Errorf("OnSubmit calls = %d, want 0", calls)
	}
	if f.natives != 0 {
		t.Errorf("native submissions = %d, want 0", f.natives)
	}
	if res.State != StateBlocked || res.Valid {
		t.Errorf("Result = %v/%v, want blocked/false", res.State, res.Valid)
	}
	if len(res.Failures) != 1 || res.Failures[0].Selector != "#username" {
		t.Fatalf("Failures = %+v, want one for #username", res.Failures)
	}
	if res.Data != nil {
		t.Errorf("Data = %v, want nil", res.Data)
	}
	if !f.invalid(t, "#username") {
		t.Error("#username group not marked invalid")
	}
	if f.v.State() != StateIdle {
		t.Errorf("State() = %v, want idle", f.v.State())
	}
}

func TestSubmitEventReportsEveryFailure(t *testing.T) {
	f := newFixture(t, registerMarkup, Config{
		Rules:    registerRules(),
		OnSubmit: func(FormData) {},
	})
	rec := &recorder{}
	f.v.observer = rec

	if f.el(t, "#form").RequestSubmit() {
		t.Error("RequestSubmit() = true, want the default prevented")
	}
	if rec.submits != 1 {
		t.Fatalf("submits = %d, want 1", rec.submits)
	}
	// The empty confirmation equals the empty password.
	if got := len(rec.last.Failures); got != 7 {
		t.Errorf("failures = %d, want 7", got)
	}
	for _, sel := range []string{"#username", "#email", "#password", "#avatar", "#select", `input[name="gender"]`, `input[name="color"]`} {
		if !f.invalid(t, sel) {
			t.Errorf("%s group not marked invalid", sel)
		}
	}
}

func TestSubmitSuccess(t *testing.T) {
	var got []FormData
	f := newFixture(t, registerMarkup, Config{
		Rules:    registerRules(),
		OnSubmit: func(data FormData) { got = append(got, data) },
	})
	f.fill(t)

	if f.el(t, "#form").RequestSubmit() {
		t.Error("RequestSubmit() = true, want the default prevented")
	}
	if len(got) != 1 {
		t.Fatalf("OnSubmit calls = %d, want 1", len(got))
	}
	if f.natives != 0 {
		t.Errorf("native submissions = %d, want 0", f.natives)
	}

	data := got[0]
	want := FormData{
		"username": {Kind: KindText, Text: "ana"},
		"email":    {Kind: KindText, Text: "ana@example.com"},
		"password": {Kind: KindText, Text: "secret1"},
		"confirm":  {Kind: KindText, Text: "secret1"},
		"avatar":   {Kind: KindFile, Files: []dom.File{{Name: "me.png", Size: 120, ContentType: "image/png"}}},
		"select":   {Kind: KindText, Text: "hn"},
		"gender":   {Kind: KindRadio, Text: "female"},
		"color":    {Kind: KindCheckbox, Values: []string{"red", "blue"}},
	}
	if !reflect.DeepEqual(data, want) {
		t.Errorf("FormData = %+v\nwant %+v", data, want)
	}
	if _, ok := data["locked"]; ok {
		t.Error("disabled field collected")
	}
}

func TestSubmitNative(t *testing.T) {
	f := newFixture(t, registerMarkup, Config{Rules: registerRules()})
	f.fill(t)

	res := f.v.Submit()
	if !res.Valid || !res.NativeSubmitted {
		t.Errorf("Result = %+v, want valid native submission", res)
	}
	if f.natives != 1 {
		t.Errorf("native submissions = %d, want 1", f.natives)
	}
}

func TestStateDuringCallback(t *testing.T) {
	var during SubmitState
	var f *fixture
	f = newFixture(t, registerMarkup, Config{
		Rules:    []Rule{IsRequired("#username", "")},
		OnSubmit: func(FormData) { during = f.v.State() },
	})
	f.el(t, "#username").SetValue("ana")

	f.v.Submit()
	if during != StateCollecting {
		t.Errorf("State() in OnSubmit = %v, want collecting", during)
	}
	if f.v.State() != StateIdle {
		t.Errorf("State() after = %v, want idle", f.v.State())
	}
}

func TestRepeatedTextFields(t *testing.T) {
	markup := `<form id="form">
  <div class="form-group"><input class="phone" name="phone1" value="123"><span class="error-message"></span></div>
  <div class="form-group"><input class="phone" name="phone2"><span class="error-message"></span></div>
</form>`
	f := newFixture(t, markup, Config{Rules: []Rule{IsRequired(".phone", "")}})

	res := f.v.Submit()
	if len(res.Failures) != 1 {
		t.Fatalf("Failures = %+v, want 1", res.Failures)
	}
	if name := res.Failures[0].Field.Name(); name != "phone2" {
		t.Errorf("failed field = %q, want phone2", name)
	}
	if f.invalid(t, `[name="phone1"]`) {
		t.Error("phone1 group marked invalid")
	}
	if !f.invalid(t, `[name="phone2"]`) {
		t.Error("phone2 group not marked invalid")
	}
}

func TestCollectCheckboxes(t *testing.T) {
	doc, err := dom.ParseString(`<form id="f">
  <input type="checkbox" name="color" value="red" checked>
  <input type="checkbox" name="color" value="green">
  <input type="checkbox" name="color" value="blue" checked>
  <input type="checkbox" name="color" value="black" checked disabled>
  <input type="radio" name="size" value="s">
  <textarea name="note">hi</textarea>
  <input value="anonymous">
  <span name="label"></span>
</form>`)
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}

	data := Collect(doc.QuerySelector("#f"))
	if got := data.Values("color"); !reflect.DeepEqual(got, []string{"red", "blue"}) {
		t.Errorf("color = %v, want [red blue]", got)
	}
	if v, ok := data["size"]; !ok || v.Text != "" {
		t.Errorf("size = %+v, %v; want empty radio value", v, ok)
	}
	if got := data.Text("note"); got != "hi" {
		t.Errorf("note = %q, want hi", got)
	}
	if len(data) != 3 {
		t.Errorf("len = %d, want 3 (%v)", len(data), data)
	}
}

func TestFormNotFound(t *testing.T) {
	doc, err := dom.ParseString(`<div></div>`)
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}
	v, err := New(doc, Config{
		Form:              "#missing",
		FormGroupSelector: ".form-group",
		MessageSelector:   ".error-message",
		Rules:             registerRules(),
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if v.Bound() {
		t.Error("Bound() = true, want false")
	}
	if res := v.Submit(); res.State != StateIdle || res.Valid {
		t.Errorf("Submit() = %+v, want idle", res)
	}
}

func TestRuleWithoutMatchesSkipped(t *testing.T) {
	f := newFixture(t, registerMarkup, Config{Rules: []Rule{
		IsRequired("#nickname", ""),
		IsRequired("#username", ""),
	}})

	if got := f.v.Selectors(); !reflect.DeepEqual(got, []string{"#username"}) {
		t.Errorf("Selectors() = %v, want [#username]", got)
	}
	f.el(t, "#username").SetValue("ana")
	if res := f.v.Submit(); !res.Valid {
		t.Errorf("Submit() = %+v, want valid", res)
	}
}

func TestFieldWithoutGroup(t *testing.T) {
	markup := `<form id="form"><input id="loose" name="loose"></form>`
	f := newFixture(t, markup, Config{Rules: []Rule{IsRequired("#loose", "")}})

	if f.v.Validate(f.el(t, "#loose"), IsRequired("#loose", "")) {
		t.Error("Validate() = true, want false")
	}
	if n := len(f.doc.TakeMutations()); n != 0 {
		t.Errorf("mutations = %d, want 0", n)
	}
}

func TestCustomInvalidClass(t *testing.T) {
	f := newFixture(t, registerMarkup, Config{
		InvalidClass: "has-error",
		Rules:        []Rule{IsRequired("#username", "")},
	})
	blur(f.el(t, "#username"))
	if !f.el(t, "#username").Closest(".form-group").HasClass("has-error") {
		t.Error("group missing has-error class")
	}
}

func TestNewConfigErrors(t *testing.T) {
	doc, err := dom.ParseString(registerMarkup)
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}
	base := Config{Form: "#form", FormGroupSelector: ".form-group", MessageSelector: ".error-message"}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
		want   error
	}{
		{"missing form", func(c *Config) { c.Form = "" }, "Form", ErrMissingSelector},
		{"missing group", func(c *Config) { c.FormGroupSelector = "" }, "FormGroupSelector", ErrMissingSelector},
		{"bad message selector", func(c *Config) { c.MessageSelector = "[" }, "MessageSelector", ErrInvalidSelector},
		{"bad rule selector", func(c *Config) { c.Rules = []Rule{IsRequired("input[", "")} }, "Rules[0]", ErrInvalidSelector},
		{"nil test", func(c *Config) { c.Rules = []Rule{IsRequired("#username", ""), {Selector: "#email"}} }, "Rules[1]", ErrMissingTest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			_, err := New(doc, cfg)
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("New error = %v, want *ConfigError", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cerr.Field, tt.field)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.want)
			}
		})
	}

	if _, err := New(nil, base); !errors.Is(err, ErrNilDocument) {
		t.Errorf("New(nil) error = %v, want ErrNilDocument", err)
	}
}

type recorder struct {
	validated map[string][]bool
	submits   int
	last      Result
}

func (r *recorder) FieldValidated(selector string, ok bool) {
	if r.validated == nil {
		r.validated = make(map[string][]bool)
	}
	r.validated[selector] = append(r.validated[selector], ok)
}

func (r *recorder) SubmitFinished(res Result) {
	r.submits++
	r.last = res
}

func TestObserver(t *testing.T) {
	rec := &recorder{}
	f := newFixture(t, registerMarkup, Config{
		Rules:    []Rule{IsRequired("#username", ""), IsEmail("#email", "")},
		OnSubmit: func(FormData) {},
	}, WithObserver(rec))

	blur(f.el(t, "#username"))
	f.el(t, "#username").SetValue("ana")
	f.el(t, "#email").SetValue("ana@example.com")
	f.v.Submit()

	if got := rec.validated["#username"]; !reflect.DeepEqual(got, []bool{false, true}) {
		t.Errorf("#username verdicts = %v, want [false true]", got)
	}
	if got := rec.validated["#email"]; !reflect.DeepEqual(got, []bool{true}) {
		t.Errorf("#email verdicts = %v, want [true]", got)
	}
	if rec.submits != 1 || !rec.last.Valid {
		t.Errorf("submits = %d, last = %+v", rec.submits, rec.last)
	}
}
