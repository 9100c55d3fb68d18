package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"br":    true,
	"hr":    true,
	"img":   true,
	"input": true,
	"link":  true,
	"meta":  true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// createElement creates a new VNode with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, *VNode, []*VNode, Component, string, EventHandler.
func createElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Props:    make(Props),
		Children: make([]*VNode, 0),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
			continue

		case Attr:
			node.setAttr(v)

		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}

		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}

		case []*VNode:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}

		case Component:
			node.Children = append(node.Children, &VNode{
				Kind: KindComponent,
				Comp: v,
			})

		case string:
			node.Children = append(node.Children, &VNode{
				Kind: KindText,
				Text: v,
			})

		case EventHandler:
			node.Props[v.Event] = v.Handler
		}
	}

	return node
}

// setAttr applies a single attribute. Repeated class attributes accumulate.
func (v *VNode) setAttr(a Attr) {
	if a.Key == "" {
		return
	}
	switch a.Key {
	case "key":
		if s, ok := a.Value.(string); ok {
			v.Key = s
		}
	case "class":
		if existing, ok := v.Props["class"].(string); ok && existing != "" {
			if s, ok := a.Value.(string); ok && s != "" {
				v.Props["class"] = existing + " " + s
				return
			}
		}
	}
	v.Props[a.Key] = a.Value
}

// Document structure elements

func Html(args ...any) *VNode  { return createElement("html", args) }
func Head(args ...any) *VNode  { return createElement("head", args) }
func Body(args ...any) *VNode  { return createElement("body", args) }
func Title(args ...any) *VNode { return createElement("title", args) }
func Meta(args ...any) *VNode  { return createElement("meta", args) }

// Text content elements

func Main(args ...any) *VNode  { return createElement("main", args) }
func H1(args ...any) *VNode    { return createElement("h1", args) }
func Div(args ...any) *VNode   { return createElement("div", args) }
func P(args ...any) *VNode     { return createElement("p", args) }
func Span(args ...any) *VNode  { return createElement("span", args) }
func Small(args ...any) *VNode { return createElement("small", args) }

// Form elements

func Form(args ...any) *VNode     { return createElement("form", args) }
func Input(args ...any) *VNode    { return createElement("input", args) }
func Textarea(args ...any) *VNode { return createElement("textarea", args) }
func Select(args ...any) *VNode   { return createElement("select", args) }
func Option(args ...any) *VNode   { return createElement("option", args) }
func Button(args ...any) *VNode   { return createElement("button", args) }
func Label(args ...any) *VNode    { return createElement("label", args) }
func Fieldset(args ...any) *VNode { return createElement("fieldset", args) }
func Legend(args ...any) *VNode   { return createElement("legend", args) }

func Style(args ...any) *VNode { return createElement("style", args) }
