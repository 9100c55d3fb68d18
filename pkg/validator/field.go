package validator

import (
	"encoding/json"

	"github.com/vango-dev/formvalidator/pkg/dom"
)

// FieldKind is the field type discriminator used for value extraction.
type FieldKind uint8

const (
	KindText     FieldKind = iota // Inputs, selects, textareas: the raw value
	KindCheckbox                  // Checked values of the named group
	KindRadio                     // The checked value of the named group
	KindFile                      // Selected files
)

// String returns the string representation of the FieldKind.
func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCheckbox:
		return "checkbox"
	case KindRadio:
		return "radio"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// Grouped reports whether fields of this kind are judged as a group by
// their checked option rather than individually.
func (k FieldKind) Grouped() bool {
	return k == KindCheckbox || k == KindRadio
}

// KindOf classifies a field element.
func KindOf(el *dom.Element) FieldKind {
	switch el.Type() {
	case "checkbox":
		return KindCheckbox
	case "radio":
		return KindRadio
	case "file":
		return KindFile
	default:
		return KindText
	}
}

// FieldValue is one entry of FormData.
type FieldValue struct {
	Kind   FieldKind
	Text   string     // KindText, KindRadio ("" when nothing is checked)
	Values []string   // KindCheckbox, in document order
	Files  []dom.File // KindFile
}

// MarshalJSON encodes the value in its natural shape: a string, a list of
// strings, or a list of file objects.
func (f FieldValue) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case KindCheckbox:
		if f.Values == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(f.Values)
	case KindFile:
		if f.Files == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(f.Files)
	default:
		return json.Marshal(f.Text)
	}
}

// FormData maps field names to their collected values.
type FormData map[string]FieldValue

// Text returns the text value of a field, or "" when it is absent.
func (d FormData) Text(name string) string {
	return d[name].Text
}

// Values returns the checked values of a checkbox group.
func (d FormData) Values(name string) []string {
	return d[name].Values
}

// Files returns the files of a file input.
func (d FormData) Files(name string) []dom.File {
	return d[name].Files
}

// validationValue extracts the value the rules registered under selector
// judge for field. Checkbox and radio fields are judged by the first checked
// element matching selector in form; other fields by their own value.
func validationValue(form, field *dom.Element, selector string) Value {
	switch KindOf(field) {
	case KindCheckbox, KindRadio:
		scope := form
		if scope == nil {
			scope = field.Form()
		}
		if scope == nil {
			if field.Checked() {
				return ValueOf(field.Value())
			}
			return NoValue
		}
		for _, el := range scope.QuerySelectorAll(selector) {
			if el.Checked() {
				return ValueOf(el.Value())
			}
		}
		return NoValue
	default:
		return ValueOf(field.Value())
	}
}

// Collect gathers the values of every enabled, named form control in form.
// Checkbox groups yield their checked values in document order, radio
// groups the checked value or "", file inputs their files and every other
// control its raw value. Disabled options of a group are left out.
func Collect(form *dom.Element) FormData {
	data := make(FormData)
	if form == nil {
		return data
	}

	controls := form.Descendants()
	for _, el := range controls {
		name := el.Name()
		if name == "" || el.Disabled() || el.Type() == "" {
			continue
		}

		switch kind := KindOf(el); kind {
		case KindRadio:
			if _, done := data[name]; done {
				continue
			}
			value := FieldValue{Kind: KindRadio}
			for _, other := range group(controls, name, kind) {
				if other.Checked() {
					value.Text = other.Value()
					break
				}
			}
			data[name] = value

		case KindCheckbox:
			if _, done := data[name]; done {
				continue
			}
			value := FieldValue{Kind: KindCheckbox, Values: []string{}}
			for _, other := range group(controls, name, kind) {
				if other.Checked() {
					value.Values = append(value.Values, other.Value())
				}
			}
			data[name] = value

		case KindFile:
			data[name] = FieldValue{Kind: KindFile, Files: el.Files()}

		default:
			data[name] = FieldValue{Kind: KindText, Text: el.Value()}
		}
	}

	return data
}

// group returns the enabled controls of the given kind named name.
func group(controls []*dom.Element, name string, kind FieldKind) []*dom.Element {
	var out []*dom.Element
	for _, el := range controls {
		if el.Name() == name && !el.Disabled() && KindOf(el) == kind {
			out = append(out, el)
		}
	}
	return out
}
