package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// File describes a file selected in a file input.
type File struct {
	Name        string `json:"name" yaml:"name"`
	Size        int64  `json:"size" yaml:"size"`
	ContentType string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Type returns the field type as a browser reports it: the lower-cased type
// attribute of an input (default "text"), "select-one" or "select-multiple"
// for selects, "textarea", the button type (default "submit"), or "" for
// elements that are not form controls.
func (e *Element) Type() string {
	switch e.node.Data {
	case "input":
		t, _ := getAttr(e.node, "type")
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			return "text"
		}
		return t
	case "select":
		if e.HasAttr("multiple") {
			return "select-multiple"
		}
		return "select-one"
	case "textarea":
		return "textarea"
	case "button":
		t, _ := getAttr(e.node, "type")
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			return "submit"
		}
		return t
	default:
		return ""
	}
}

// Name returns the name attribute.
func (e *Element) Name() string {
	v, _ := getAttr(e.node, "name")
	return v
}

// Disabled reports whether the disabled attribute is present.
func (e *Element) Disabled() bool {
	return e.HasAttr("disabled")
}

// SetDisabled sets or clears the disabled attribute.
func (e *Element) SetDisabled(disabled bool) {
	if disabled {
		setAttr(e.node, "disabled", "")
	} else {
		removeAttr(e.node, "disabled")
	}
}

// Value returns the current value of a form control.
//
// Inputs report their value attribute (checkboxes and radios default to
// "on"; file inputs report the first selected file name), textareas their
// text, selects the value of the first selected option.
func (e *Element) Value() string {
	switch e.node.Data {
	case "input":
		switch e.Type() {
		case "file":
			if files := e.doc.files[e.node]; len(files) > 0 {
				return files[0].Name
			}
			return ""
		case "checkbox", "radio":
			if v, ok := getAttr(e.node, "value"); ok {
				return v
			}
			return "on"
		}
		v, _ := getAttr(e.node, "value")
		return v
	case "textarea":
		return e.Text()
	case "select":
		options := e.options()
		for _, o := range options {
			if _, ok := getAttr(o, "selected"); ok {
				return optionValue(o)
			}
		}
		if len(options) > 0 && !e.HasAttr("multiple") {
			return optionValue(options[0])
		}
		return ""
	case "option":
		return optionValue(e.node)
	default:
		v, _ := getAttr(e.node, "value")
		return v
	}
}

// SetValue sets the value of a form control. Selecting a select value marks
// the matching option selected. File inputs ignore SetValue; use SetFiles.
// Value changes are user input and are not recorded as mutations.
func (e *Element) SetValue(value string) {
	switch e.node.Data {
	case "input":
		if e.Type() == "file" {
			return
		}
		setAttr(e.node, "value", value)
	case "textarea":
		replaceText(e.node, value)
	case "select":
		multiple := e.HasAttr("multiple")
		for _, o := range e.options() {
			if optionValue(o) == value {
				setAttr(o, "selected", "")
			} else if !multiple {
				removeAttr(o, "selected")
			}
		}
	default:
		setAttr(e.node, "value", value)
	}
}

// Checked reports whether a checkbox or radio is checked, or an option selected.
func (e *Element) Checked() bool {
	if e.node.Data == "option" {
		return e.HasAttr("selected")
	}
	switch e.Type() {
	case "checkbox", "radio":
		return e.HasAttr("checked")
	}
	return false
}

// SetChecked checks or unchecks a checkbox or radio. Checking a radio
// unchecks the other radios of the same name in the same form.
func (e *Element) SetChecked(checked bool) {
	switch e.Type() {
	case "checkbox":
	case "radio":
		if checked {
			for _, other := range e.radioGroup() {
				if other != e.node {
					removeAttr(other, "checked")
				}
			}
		}
	default:
		return
	}
	if checked {
		setAttr(e.node, "checked", "")
	} else {
		removeAttr(e.node, "checked")
	}
}

// Files returns the files selected in a file input.
func (e *Element) Files() []File {
	files := e.doc.files[e.node]
	if len(files) == 0 {
		return nil
	}
	out := make([]File, len(files))
	copy(out, files)
	return out
}

// SetFiles replaces the file selection of a file input.
func (e *Element) SetFiles(files []File) {
	if e.Type() != "file" {
		return
	}
	if len(files) == 0 {
		delete(e.doc.files, e.node)
		return
	}
	e.doc.files[e.node] = append([]File(nil), files...)
}

// radioGroup returns the radio inputs sharing e's name within its form, or
// within the document when e has no form.
func (e *Element) radioGroup() []*html.Node {
	name := e.Name()
	if name == "" {
		return []*html.Node{e.node}
	}
	scope := e.doc.root
	if f := e.Form(); f != nil {
		scope = f.node
	}
	var out []*html.Node
	walkElements(scope, func(n *html.Node) {
		if n.Data != "input" {
			return
		}
		t, _ := getAttr(n, "type")
		if !strings.EqualFold(strings.TrimSpace(t), "radio") {
			return
		}
		if v, _ := getAttr(n, "name"); v == name {
			out = append(out, n)
		}
	})
	return out
}

func (e *Element) options() []*html.Node {
	var out []*html.Node
	walkElements(e.node, func(n *html.Node) {
		if n.Data == "option" {
			out = append(out, n)
		}
	})
	return out
}

func optionValue(n *html.Node) string {
	if v, ok := getAttr(n, "value"); ok {
		return v
	}
	var b strings.Builder
	collectText(n, &b)
	return strings.TrimSpace(b.String())
}
