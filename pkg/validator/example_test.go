package validator_test

import (
	"fmt"
	"testing"

	"github.com/vango-dev/formvalidator/pkg/dom"
	"github.com/vango-dev/formvalidator/pkg/validator"
	. "github.com/vango-dev/formvalidator/pkg/vdom"
	"github.com/vango-dev/formvalidator/pkg/vtest"
)

func Example() {
	doc, err := dom.ParseString(`<form id="signup">
  <div class="form-group">
    <input id="email" name="email">
    <span class="form-message"></span>
  </div>
</form>`)
	if err != nil {
		panic(err)
	}

	v, err := validator.New(doc, validator.Config{
		Form:              "#signup",
		FormGroupSelector: ".form-group",
		MessageSelector:   ".form-message",
		Rules: []validator.Rule{
			validator.IsRequired("#email", ""),
			validator.IsEmail("#email", ""),
		},
		OnSubmit: func(data validator.FormData) {
			fmt.Println("submitted", data.Text("email"))
		},
	})
	if err != nil {
		panic(err)
	}

	res := v.Submit()
	fmt.Println(res.State, res.Failures[0].Message)

	doc.QuerySelector("#email").SetValue("ada@example.com")
	res = v.Submit()
	fmt.Println(res.State)
	// Output:
	// blocked This field is required.
	// submitted ada@example.com
	// collecting
}

func registrationPage() *VNode {
	group := func(children ...any) *VNode {
		return Div(append([]any{Class("form-group")}, append(children, Span(Class("form-message")))...)...)
	}
	return Form(ID("form"),
		group(Input(ID("fullname"), Name("fullname"))),
		group(Input(ID("email"), Name("email"))),
		group(Input(ID("password"), Name("password"), Type("password"))),
		group(Input(ID("password_confirmation"), Name("password_confirmation"), Type("password"))),
		group(
			Input(Type("radio"), Name("plan"), Value("free")),
			Input(Type("radio"), Name("plan"), Value("pro")),
		),
		Button(Type("submit"), "Register"),
	)
}

func TestRegistrationFlow(t *testing.T) {
	f := vtest.NewFormFromVNode(registrationPage()).
		WithSelectors("#form", "", "").
		WithRules(
			validator.IsRequired("#fullname", "Please enter your full name"),
			validator.IsRequired("#email", ""),
			validator.IsEmail("#email", ""),
			validator.MinLength("#password", 6, ""),
			validator.IsConfirmed("#password_confirmation", "#password", ""),
			validator.IsRequired(`input[name="plan"]`, "Pick a plan"),
		).
		WithCallback().
		Build(t)

	f.Blur("#fullname").
		ExpectMessage("#fullname", "Please enter your full name").
		ExpectInvalid("#fullname")

	f.Type("#fullname", "Ada Lovelace").ExpectValid("#fullname")

	f.Type("#email", "ada@").Blur("#email").
		ExpectMessage("#email", validator.DefaultEmailMessage)

	res := f.Submit()
	if res.Valid {
		t.Fatal("submit with missing fields was accepted")
	}
	f.ExpectSubmissions(0).
		ExpectMessage("#password", "Please use at least 6 characters").
		ExpectMessage(`input[name="plan"]`, "Pick a plan")

	f.Type("#email", "ada@example.com").
		Type("#password", "secret1").
		Type("#password_confirmation", "secret2").
		Check(`input[value="pro"]`)

	res = f.Submit()
	if len(res.Failures) != 1 || res.Failures[0].Selector != "#password_confirmation" {
		t.Fatalf("Failures = %+v, want only the confirmation", res.Failures)
	}

	f.Type("#password_confirmation", "secret1")
	res = f.Submit()
	if !res.Valid {
		t.Fatalf("Failures = %+v, want none", res.Failures)
	}
	f.ExpectSubmissions(1)

	data := f.Submissions()[0]
	if got := data.Text("plan"); got != "pro" {
		t.Errorf("plan = %q, want pro", got)
	}
	if got := data.Text("fullname"); got != "Ada Lovelace" {
		t.Errorf("fullname = %q, want Ada Lovelace", got)
	}
	if f.NativeSubmits() != 0 {
		t.Errorf("NativeSubmits() = %d, want 0", f.NativeSubmits())
	}
}
