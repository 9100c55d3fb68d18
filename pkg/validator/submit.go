package validator

import (
	"github.com/vango-dev/formvalidator/pkg/dom"
)

// SubmitState is a state of the submit state machine:
// Idle → Validating → {Blocked, Collecting} → Idle.
type SubmitState uint8

const (
	StateIdle SubmitState = iota
	StateValidating
	StateBlocked
	StateCollecting
)

// String returns the string representation of the SubmitState.
func (s SubmitState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateBlocked:
		return "blocked"
	case StateCollecting:
		return "collecting"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s SubmitState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of one submit attempt.
type Result struct {
	// State is the branch the attempt took: Blocked or Collecting.
	// An inert validator reports Idle.
	State SubmitState `json:"state"`

	Valid bool `json:"valid"`

	// Failures lists the failed fields in rule order.
	Failures []FieldError `json:"failures,omitempty"`

	// Data is the collected form data when the attempt succeeded.
	Data FormData `json:"data,omitempty"`

	// NativeSubmitted is set when no OnSubmit callback was configured and
	// the form was submitted natively.
	NativeSubmitted bool `json:"nativeSubmitted"`
}

// handleSubmit is the form's submit listener.
func (v *Validator) handleSubmit(ev *dom.Event) {
	ev.PreventDefault()
	v.Submit()
}

// Submit validates every registered selector in declaration order. Any
// failure blocks the attempt and leaves the rendered error state in place.
// Otherwise the form data is collected and passed to OnSubmit, or the form
// is submitted natively when no callback is configured.
func (v *Validator) Submit() Result {
	if v.form == nil {
		return Result{State: StateIdle}
	}

	v.state = StateValidating
	defer func() { v.state = StateIdle }()

	var res Result
	for _, selector := range v.registry.selectors() {
		tests := v.registry.lookup(selector)
		for _, field := range v.submitFields(selector) {
			if message := v.check(field, selector, tests); message != "" {
				res.Failures = append(res.Failures, FieldError{
					Selector: selector,
					Message:  message,
					Field:    field,
				})
			}
		}
	}

	if len(res.Failures) > 0 {
		v.state = StateBlocked
		res.State = StateBlocked
		v.logger.Debug("submit blocked", "form", v.cfg.Form, "failures", len(res.Failures))
		v.observer.SubmitFinished(res)
		return res
	}

	v.state = StateCollecting
	res.State = StateCollecting
	res.Valid = true
	res.Data = Collect(v.form)

	if v.cfg.OnSubmit != nil {
		v.cfg.OnSubmit(res.Data)
	} else {
		v.form.Submit()
		res.NativeSubmitted = true
	}

	v.logger.Debug("submit accepted",
		"form", v.cfg.Form,
		"fields", len(res.Data),
		"native", res.NativeSubmitted,
	)
	v.observer.SubmitFinished(res)
	return res
}

// submitFields returns the fields validated on submit for selector. A
// checkbox or radio group is judged by its checked value, so only its first
// match is validated; text-like fields are validated individually.
func (v *Validator) submitFields(selector string) []*dom.Element {
	fields := v.form.QuerySelectorAll(selector)
	if len(fields) == 0 {
		v.logger.Debug("selector no longer matches, skipped", "selector", selector)
		return nil
	}
	if KindOf(fields[0]).Grouped() {
		return fields[:1]
	}
	return fields
}
