package dom

import "golang.org/x/net/html"

// Event types dispatched by hosts and test harnesses.
const (
	EventBlur   = "blur"
	EventFocus  = "focus"
	EventInput  = "input"
	EventChange = "change"
	EventSubmit = "submit"
	EventReset  = "reset"
	EventClick  = "click"
)

// bubbling lists the event types that propagate to ancestors.
var bubbling = map[string]bool{
	EventInput:  true,
	EventChange: true,
	EventSubmit: true,
	EventReset:  true,
	EventClick:  true,
}

// Listener handles a dispatched event.
type Listener func(*Event)

// Event is a dispatched DOM event.
type Event struct {
	Type          string
	Target        *Element
	CurrentTarget *Element
	Bubbles       bool

	defaultPrevented bool
	stopped          bool
}

// NewEvent creates an event of the given type. Bubbling follows browser
// defaults: input, change, submit, reset and click bubble; blur and focus
// do not.
func NewEvent(eventType string) *Event {
	return &Event{Type: eventType, Bubbles: bubbling[eventType]}
}

// PreventDefault suppresses the default action of the event.
func (ev *Event) PreventDefault() { ev.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (ev *Event) DefaultPrevented() bool { return ev.defaultPrevented }

// StopPropagation stops the event from reaching further ancestors.
func (ev *Event) StopPropagation() { ev.stopped = true }

// AddEventListener registers fn for events of the given type on e.
// Listeners run in registration order.
func (e *Element) AddEventListener(eventType string, fn Listener) {
	if fn == nil {
		return
	}
	byType := e.doc.listeners[e.node]
	if byType == nil {
		byType = make(map[string][]Listener)
		e.doc.listeners[e.node] = byType
	}
	byType[eventType] = append(byType[eventType], fn)
}

// ListenerCount returns the number of listeners registered for eventType on e.
func (e *Element) ListenerCount(eventType string) int {
	return len(e.doc.listeners[e.node][eventType])
}

// Dispatch delivers ev to e and, for bubbling events, to its ancestors.
// It returns false when a listener called PreventDefault.
func (e *Element) Dispatch(ev *Event) bool {
	ev.Target = e
	for n := e.node; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		listeners := e.doc.listeners[n][ev.Type]
		if len(listeners) > 0 {
			ev.CurrentTarget = e.doc.wrap(n)
			// Copy so listeners added during dispatch wait for the next event.
			for _, fn := range append([]Listener(nil), listeners...) {
				fn(ev)
			}
		}
		if !ev.Bubbles || ev.stopped {
			break
		}
	}
	ev.CurrentTarget = nil
	return !ev.defaultPrevented
}

// RequestSubmit dispatches a submit event on the form and performs the
// native submission unless a listener prevented it. It returns whether the
// native submission ran. Calling it on a non-form element submits the
// element's form.
func (e *Element) RequestSubmit() bool {
	form := e.Form()
	if form == nil {
		return false
	}
	if !form.Dispatch(NewEvent(EventSubmit)) {
		return false
	}
	form.Submit()
	return true
}

// Submit performs the native submission of the form without dispatching a
// submit event.
func (e *Element) Submit() {
	form := e.Form()
	if form == nil {
		return
	}
	form.doc.logger.Debug("native form submission", "form", form.ID())
	if form.doc.nativeSubmit != nil {
		form.doc.nativeSubmit(form)
	}
}
