package live

import (
	"github.com/vango-dev/formvalidator/pkg/dom"
	"github.com/vango-dev/formvalidator/pkg/validator"
)

// ClientEvent is a browser event forwarded to the server.
type ClientEvent struct {
	// Type is the DOM event type: blur, focus, input, change, submit,
	// reset or click, or EventSync.
	Type string `json:"type"`

	// ID is the data-vid of the event target.
	ID string `json:"id"`

	// Value is the current value of the target, if it has one.
	Value *string `json:"value,omitempty"`

	// Checked is the checked state of a checkbox or radio target.
	Checked *bool `json:"checked,omitempty"`

	// Files describes the selection of a file input.
	Files []dom.File `json:"files,omitempty"`
}

// EventSync restores the value state of a field without dispatching an
// event. The client sends it for every field after a reconnect.
const EventSync = "sync"

// MessageType identifies a server message.
type MessageType string

const (
	MessagePatch        MessageType = "patch"
	MessageSubmitted    MessageType = "submitted"
	MessageBlocked      MessageType = "blocked"
	MessageNativeSubmit MessageType = "native-submit"
	MessageError        MessageType = "error"
)

// Patch is one DOM mutation for the browser to apply.
type Patch struct {
	// Op is "text", "addClass" or "removeClass".
	Op string `json:"op"`

	// Target is the data-vid of the changed element.
	Target string `json:"target"`

	Value string `json:"value"`
}

// ServerMessage answers exactly one ClientEvent.
type ServerMessage struct {
	Type     MessageType            `json:"type"`
	Patches  []Patch                `json:"patches"`
	Data     validator.FormData     `json:"data,omitempty"`
	Failures []validator.FieldError `json:"failures,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// patches converts recorded mutations. Mutations on elements without an
// identifier cannot be addressed by the browser and are dropped.
func patches(mutations []dom.Mutation) []Patch {
	out := make([]Patch, 0, len(mutations))
	for _, m := range mutations {
		id := m.Target.VID()
		if id == "" {
			continue
		}
		out = append(out, Patch{Op: m.Kind.String(), Target: id, Value: m.Value})
	}
	return out
}
