package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// AriaLive sets the aria-live attribute.
func AriaLive(mode string) Attr { return attr("aria-live", mode) }

// AriaDescribedBy sets the aria-describedby attribute.
func AriaDescribedBy(id string) Attr { return attr("aria-describedby", id) }

// Form attributes

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Value sets the value attribute.
func Value(value string) Attr { return attr("value", value) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// Disabled sets the disabled attribute.
func Disabled() Attr { return attr("disabled", true) }

// Checked sets the checked attribute.
func Checked() Attr { return attr("checked", true) }

// Autocomplete sets the autocomplete attribute.
func Autocomplete(value string) Attr { return attr("autocomplete", value) }

// Accept sets the accepted file types of a file input.
func Accept(types string) Attr { return attr("accept", types) }

// Rows sets the rows attribute of a textarea.
func Rows(n int) Attr { return attr("rows", n) }

// Method sets the form method.
func Method(method string) Attr { return attr("method", method) }

// Enctype sets the form encoding type.
func Enctype(enctype string) Attr { return attr("enctype", enctype) }

// Novalidate disables native browser validation.
func Novalidate() Attr { return attr("novalidate", true) }

// For sets the for attribute of a label.
func For(id string) Attr { return attr("for", id) }

// Charset sets the charset attribute.
func Charset(charset string) Attr { return attr("charset", charset) }

// Conditional attributes

// ClassIf adds the class when condition is true.
func ClassIf(condition bool, class string) Attr {
	if condition {
		return Class(class)
	}
	return Attr{}
}

// AttrIf returns the attribute when condition is true.
func AttrIf(condition bool, a Attr) Attr {
	if condition {
		return a
	}
	return Attr{}
}
