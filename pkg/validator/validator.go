package validator

import (
	"fmt"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/vango-dev/formvalidator/pkg/dom"
)

// DefaultInvalidClass is the class added to a group whose field failed.
const DefaultInvalidClass = "invalid"

// Config describes a form and the rules applied to its fields.
type Config struct {
	// Form locates the form element.
	Form string

	// FormGroupSelector locates the container around a field, searched
	// from the field upwards.
	FormGroupSelector string

	// MessageSelector locates the message slot inside a group.
	MessageSelector string

	// InvalidClass is the marker added to failed groups.
	// Default: "invalid"
	InvalidClass string

	// Rules are processed in order. Rules sharing a selector accumulate.
	Rules []Rule

	// OnSubmit receives the collected form data after a successful submit.
	// When nil, the form is submitted natively instead.
	OnSubmit func(FormData)
}

func (c Config) check() error {
	if err := checkSelector("Form", c.Form); err != nil {
		return err
	}
	if err := checkSelector("FormGroupSelector", c.FormGroupSelector); err != nil {
		return err
	}
	if err := checkSelector("MessageSelector", c.MessageSelector); err != nil {
		return err
	}
	for i, rule := range c.Rules {
		field := fmt.Sprintf("Rules[%d]", i)
		if err := checkSelector(field, rule.Selector); err != nil {
			return err
		}
		if rule.Test == nil {
			return &ConfigError{Field: field, Selector: rule.Selector, Err: ErrMissingTest}
		}
	}
	return nil
}

func checkSelector(field, selector string) error {
	if selector == "" {
		return &ConfigError{Field: field, Err: ErrMissingSelector}
	}
	if err := dom.Compile(selector); err != nil {
		return &ConfigError{Field: field, Selector: selector, Err: fmt.Errorf("%w: %v", ErrInvalidSelector, err)}
	}
	return nil
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithObserver sets the observer notified of validation outcomes.
func WithObserver(o Observer) Option {
	return func(v *Validator) {
		if o != nil {
			v.observer = o
		}
	}
}

type binding struct {
	node     *html.Node
	selector string
}

// Validator binds rules to the fields of one form.
// It is not safe for concurrent use; like the document it is bound to, it
// expects events to be dispatched one at a time.
type Validator struct {
	doc  *dom.Document
	form *dom.Element
	cfg  Config

	registry *registry
	rules    []Rule
	bound    map[binding]bool
	state    SubmitState

	logger   *slog.Logger
	observer Observer
}

// New locates the form, registers the rules and attaches listeners: blur
// validates a field, input clears its error state and submit runs Submit.
//
// A form that cannot be located yields an inert validator and no error.
// A rule whose selector matches no field in the form is skipped. Empty or
// syntactically invalid selectors and rules without a test are reported
// as a *ConfigError.
func New(doc *dom.Document, cfg Config, opts ...Option) (*Validator, error) {
	if doc == nil {
		return nil, &ConfigError{Field: "Document", Err: ErrNilDocument}
	}
	if err := cfg.check(); err != nil {
		return nil, err
	}
	if cfg.InvalidClass == "" {
		cfg.InvalidClass = DefaultInvalidClass
	}

	v := &Validator{
		doc:      doc,
		cfg:      cfg,
		registry: newRegistry(),
		bound:    make(map[binding]bool),
		logger:   slog.Default(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(v)
	}

	v.form = doc.QuerySelector(cfg.Form)
	if v.form == nil {
		v.logger.Debug("form not found, validator inert", "form", cfg.Form)
		return v, nil
	}

	for _, rule := range cfg.Rules {
		fields := v.form.QuerySelectorAll(rule.Selector)
		if len(fields) == 0 {
			v.logger.Debug("rule matches no field, skipped", "selector", rule.Selector)
			continue
		}
		v.registry.add(rule.Selector, rule.Test)
		v.rules = append(v.rules, rule)
		for _, field := range fields {
			v.bind(field, rule)
		}
	}

	v.form.AddEventListener(dom.EventSubmit, v.handleSubmit)

	v.logger.Debug("validator bound",
		"form", cfg.Form,
		"rules", len(v.rules),
		"selectors", len(v.registry.order),
	)
	return v, nil
}

// bind attaches the blur and input listeners of rule to field, once per
// (field, selector) pair.
func (v *Validator) bind(field *dom.Element, rule Rule) {
	key := binding{node: field.Node(), selector: rule.Selector}
	if v.bound[key] {
		return
	}
	v.bound[key] = true

	field.AddEventListener(dom.EventBlur, func(*dom.Event) {
		v.Validate(field, rule)
	})
	field.AddEventListener(dom.EventInput, func(*dom.Event) {
		v.render(field, "")
	})
}

// Validate judges field against every test registered under rule.Selector,
// stopping at the first failure, renders the outcome into the field's group
// and reports whether the field passed. A rule whose selector is not
// registered is judged by its own Test.
func (v *Validator) Validate(field *dom.Element, rule Rule) bool {
	if field == nil {
		return false
	}
	tests := v.registry.lookup(rule.Selector)
	if len(tests) == 0 && rule.Test != nil {
		tests = []TestFunc{rule.Test}
	}
	message := v.check(field, rule.Selector, tests)
	return message == ""
}

// check evaluates tests in order, renders the first failure message (or
// clears the group) and returns that message.
func (v *Validator) check(field *dom.Element, selector string, tests []TestFunc) string {
	value := validationValue(v.form, field, selector)

	var message string
	for _, test := range tests {
		if err := test(value, v.doc); err != nil {
			if message = err.Error(); message != "" {
				break
			}
		}
	}

	v.render(field, message)
	v.observer.FieldValidated(selector, message == "")
	return message
}

// render writes message into the group of field and toggles the invalid
// marker. An empty message clears both. The group is resolved on every call.
func (v *Validator) render(field *dom.Element, message string) {
	group := field.Closest(v.cfg.FormGroupSelector)
	if group == nil {
		v.logger.Debug("field has no group", "field", field.Name(), "group", v.cfg.FormGroupSelector)
		return
	}
	if slot := group.QuerySelector(v.cfg.MessageSelector); slot != nil {
		slot.SetText(message)
	}
	if message != "" {
		group.AddClass(v.cfg.InvalidClass)
	} else {
		group.RemoveClass(v.cfg.InvalidClass)
	}
}

// Bound reports whether the form was found and listeners attached.
func (v *Validator) Bound() bool {
	return v.form != nil
}

// Form returns the bound form element, or nil.
func (v *Validator) Form() *dom.Element {
	return v.form
}

// Document returns the document the validator was created for.
func (v *Validator) Document() *dom.Document {
	return v.doc
}

// Rules returns the registered rules in declaration order.
func (v *Validator) Rules() []Rule {
	out := make([]Rule, len(v.rules))
	copy(out, v.rules)
	return out
}

// Selectors returns the registered selectors in first-declaration order.
func (v *Validator) Selectors() []string {
	return v.registry.selectors()
}

// State returns the current submit state.
func (v *Validator) State() SubmitState {
	return v.state
}
