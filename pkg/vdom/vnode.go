package vdom

import "strings"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <form>, <input>, etc.
	KindText                   // Plain text node
	KindFragment               // Grouping without wrapper
	KindComponent              // Nested component
	KindRaw                    // Raw HTML (dangerous)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is a node of page markup under construction.
type VNode struct {
	Kind     VKind     // Node type
	Tag      string    // Element tag name (e.g., "input")
	Props    Props     // Attributes and event handlers
	Children []*VNode  // Child nodes
	Key      string    // Identity key
	Text     string    // For KindText and KindRaw
	Comp     Component // For KindComponent
}

// Props holds attributes and event handlers.
type Props map[string]any

// IsInteractive returns true if this node has event handlers.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if isEventProp(key) {
			return true
		}
	}
	return false
}

// Attrs returns the non-handler props of the node.
func (v *VNode) Attrs() Props {
	if v == nil {
		return nil
	}
	out := make(Props, len(v.Props))
	for key, value := range v.Props {
		if isEventProp(key) || key == "key" {
			continue
		}
		out[key] = value
	}
	return out
}

// Handlers returns the event handlers keyed by event name without the "on" prefix.
func (v *VNode) Handlers() map[string]any {
	if v == nil {
		return nil
	}
	var out map[string]any
	for key, value := range v.Props {
		if !isEventProp(key) {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[strings.TrimPrefix(key, "on")] = value
	}
	return out
}

// isEventProp reports whether a prop key names an event handler.
func isEventProp(key string) bool {
	return len(key) > 2 && strings.HasPrefix(key, "on")
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// EventHandler represents an event handler.
type EventHandler struct {
	Event   string // "onblur", "oninput", etc.
	Handler any    // Function to call
}

// Component is anything that can render to a VNode.
type Component interface {
	Render() *VNode
}

// FuncComponent wraps a render function.
type FuncComponent struct {
	render func() *VNode
}

// Render implements Component.
func (f *FuncComponent) Render() *VNode {
	return f.render()
}

// Func creates a component from a render function.
func Func(render func() *VNode) Component {
	return &FuncComponent{render: render}
}
