package main

import (
	"github.com/vango-dev/formvalidator/internal/config"
	"github.com/vango-dev/formvalidator/pkg/dom"
	. "github.com/vango-dev/formvalidator/pkg/vdom"
)

// demoPage is the starter registration form.
func demoPage() *VNode {
	return Html(
		Head(
			Meta(Charset("utf-8")),
			Title("Register"),
			Style(Raw(demoStyle)),
		),
		Body(
			Main(
				Form(ID("form"), Class("form"), Method("post"), Enctype("multipart/form-data"), Novalidate(),
					H1("Register"),
					field("username", "Username",
						Input(ID("username"), Name("username"), Type("text"), Autocomplete("username"), Placeholder("e.g. ada"), describedBy("username"))),
					field("email", "Email",
						Input(ID("email"), Name("email"), Type("text"), Autocomplete("email"), Placeholder("e.g. ada@example.com"), describedBy("email"))),
					field("password", "Password",
						Input(ID("password"), Name("password"), Type("password"), Autocomplete("new-password"), describedBy("password"))),
					field("confirm-password", "Confirm password",
						Input(ID("confirm-password"), Name("password_confirmation"), Type("password"), Autocomplete("new-password"), describedBy("confirm-password"))),
					field("avatar", "Avatar",
						Input(ID("avatar"), Name("avatar"), Type("file"), Accept("image/*"), describedBy("avatar"))),
					field("select", "City",
						Select(ID("select"), Name("city"), describedBy("select"),
							Option(Value(""), "-- Choose --"),
							Option(Value("hn"), "Ha Noi"),
							Option(Value("hcm"), "Ho Chi Minh City"),
						),
					),
					Fieldset(Class("form-group"),
						Legend("Gender"),
						choice("radio", "gender", "male", "Male"),
						choice("radio", "gender", "female", "Female"),
						message(""),
					),
					Fieldset(Class("form-group"),
						Legend("Favourite colours"),
						choice("checkbox", "color", "red", "Red"),
						choice("checkbox", "color", "green", "Green"),
						choice("checkbox", "color", "blue", "Blue"),
						message(""),
					),
					Button(Type("submit"), "Register"),
				),
			),
		),
	)
}

// field wraps control in a form group whose message slot is id-message.
func field(id, label string, control *VNode) *VNode {
	return Div(Class("form-group"),
		Label(For(id), label),
		control,
		message(id+"-message"),
	)
}

// describedBy points a control at its message slot.
func describedBy(id string) Attr {
	return AriaDescribedBy(id + "-message")
}

// message is a form message slot announced to screen readers on change.
func message(id string) *VNode {
	return Span(Class("form-message"), AttrIf(id != "", ID(id)), AriaLive("polite"))
}

func choice(kind, name, value, label string) *VNode {
	return Label(Input(Type(kind), Name(name), Value(value)), " ", label)
}

const demoStyle = `
.form { max-width: 420px; margin: 40px auto; font-family: sans-serif; }
.form-group { margin-bottom: 16px; border: 0; padding: 0; }
.form-group label { display: block; margin-bottom: 4px; }
.form-message { font-size: 12px; }
.form-group.invalid input, .form-group.invalid select { border-color: #f33; }
.form-group.invalid .form-message { color: #f33; }
`

// demoMarkup renders the starter page.
func demoMarkup() string {
	return "<!DOCTYPE html>\n" + dom.FromVNode(demoPage()).String()
}

// demoConfig returns the rules of the starter registration form.
func demoConfig() *config.Config {
	cfg := config.New()
	cfg.Form = "#form"
	cfg.Rules = []config.RuleConfig{
		{Rule: config.RuleRequired, Selector: "#username", Message: "Please enter a username"},
		{Rule: config.RuleEmail, Selector: "#email"},
		{Rule: "minLength", Selector: "#password", Length: 6},
		{Rule: config.RuleConfirmed, Selector: "#confirm-password", Target: "#password"},
		{Rule: config.RuleRequired, Selector: "#avatar"},
		{Rule: config.RuleRequired, Selector: "#select"},
		{Rule: config.RuleRequired, Selector: `input[name="gender"]`},
		{Rule: config.RuleRequired, Selector: `input[name="color"]`},
	}
	return cfg
}
