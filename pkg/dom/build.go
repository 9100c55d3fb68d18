package dom

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/formvalidator/pkg/vdom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FromVNode builds a document from a vdom tree. Attributes become HTML
// attributes (true booleans render as present, false ones are omitted) and
// "on<event>" handlers become listeners. Handlers may be func(*Event) or func().
func FromVNode(node *vdom.VNode, opts ...Option) *Document {
	root := &html.Node{Type: html.DocumentNode}
	d := newDocument(root, opts)
	d.appendVNode(root, node)
	return d
}

func (d *Document) appendVNode(parent *html.Node, v *vdom.VNode) {
	if v == nil {
		return
	}
	switch v.Kind {
	case vdom.KindText:
		parent.AppendChild(&html.Node{Type: html.TextNode, Data: v.Text})

	case vdom.KindRaw:
		context := parent
		if context.Type != html.ElementNode {
			context = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
		}
		nodes, err := html.ParseFragment(strings.NewReader(v.Text), context)
		if err != nil {
			d.logger.Debug("raw markup rejected", "error", err)
			return
		}
		for _, n := range nodes {
			parent.AppendChild(n)
		}

	case vdom.KindFragment:
		for _, child := range v.Children {
			d.appendVNode(parent, child)
		}

	case vdom.KindComponent:
		if v.Comp != nil {
			d.appendVNode(parent, v.Comp.Render())
		}

	case vdom.KindElement:
		n := &html.Node{
			Type:     html.ElementNode,
			Data:     v.Tag,
			DataAtom: atom.Lookup([]byte(v.Tag)),
			Attr:     htmlAttrs(v.Attrs()),
		}
		parent.AppendChild(n)
		for _, child := range v.Children {
			d.appendVNode(n, child)
		}
		for eventType, handler := range v.Handlers() {
			if fn := toListener(handler); fn != nil {
				d.wrap(n).AddEventListener(eventType, fn)
			} else {
				d.logger.Debug("unsupported handler type", "event", eventType, "type", fmt.Sprintf("%T", handler))
			}
		}
	}
}

// htmlAttrs converts props to attributes in key order so rendering is stable.
func htmlAttrs(props vdom.Props) []html.Attribute {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]html.Attribute, 0, len(keys))
	for _, k := range keys {
		switch v := props[k].(type) {
		case nil:
			continue
		case bool:
			if v {
				attrs = append(attrs, html.Attribute{Key: k})
			}
		case string:
			attrs = append(attrs, html.Attribute{Key: k, Val: v})
		default:
			attrs = append(attrs, html.Attribute{Key: k, Val: fmt.Sprint(v)})
		}
	}
	return attrs
}

func toListener(handler any) Listener {
	switch h := handler.(type) {
	case Listener:
		return h
	case func(*Event):
		return h
	case func():
		return func(*Event) { h() }
	default:
		return nil
	}
}
