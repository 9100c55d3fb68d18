package dom

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Element is a handle to an element node of a Document.
// Handles are cheap; two handles are the same element when Is reports true.
type Element struct {
	doc  *Document
	node *html.Node
}

// Node returns the underlying HTML node.
func (e *Element) Node() *html.Node { return e.node }

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }

// Is reports whether e and other refer to the same node.
func (e *Element) Is(other *Element) bool {
	if e == nil || other == nil {
		return e == nil && other == nil
	}
	return e.node == other.node
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string { return e.node.Data }

// ID returns the id attribute.
func (e *Element) ID() string {
	v, _ := getAttr(e.node, "id")
	return v
}

// VID returns the stable identifier assigned by Document.AssignIDs.
func (e *Element) VID() string {
	v, _ := getAttr(e.node, IDAttr)
	return v
}

// Attr returns the value of an attribute and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	return getAttr(e.node, key)
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(key string) bool {
	_, ok := getAttr(e.node, key)
	return ok
}

// SetAttr sets an attribute value.
func (e *Element) SetAttr(key, value string) {
	setAttr(e.node, key, value)
}

// RemoveAttr removes an attribute.
func (e *Element) RemoveAttr(key string) {
	removeAttr(e.node, key)
}

// Parent returns the parent element, or nil at the top of the tree.
func (e *Element) Parent() *Element {
	for p := e.node.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return e.doc.wrap(p)
		}
	}
	return nil
}

// Matches reports whether the element matches selector.
func (e *Element) Matches(selector string) bool {
	m := e.doc.matcher(selector)
	return m != nil && m.Match(e.node)
}

// Closest returns the element itself or its nearest ancestor matching
// selector, or nil.
func (e *Element) Closest(selector string) *Element {
	m := e.doc.matcher(selector)
	if m == nil {
		return nil
	}
	for n := e.node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && m.Match(n) {
			return e.doc.wrap(n)
		}
	}
	return nil
}

// QuerySelector returns the first descendant matching selector.
func (e *Element) QuerySelector(selector string) *Element {
	m := e.doc.matcher(selector)
	if m == nil {
		return nil
	}
	return e.doc.wrap(cascadia.Query(e.node, m))
}

// QuerySelectorAll returns every descendant matching selector in document order.
func (e *Element) QuerySelectorAll(selector string) []*Element {
	m := e.doc.matcher(selector)
	if m == nil {
		return nil
	}
	return e.doc.wrapAll(cascadia.QueryAll(e.node, m))
}

// Descendants returns every descendant element in document order.
func (e *Element) Descendants() []*Element {
	var out []*Element
	walkElements(e.node, func(n *html.Node) {
		out = append(out, e.doc.wrap(n))
	})
	return out
}

// Form returns the form the element belongs to: the element itself when it
// is a form, otherwise its nearest form ancestor.
func (e *Element) Form() *Element {
	for n := e.node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && n.Data == "form" {
			return e.doc.wrap(n)
		}
	}
	return nil
}

// Classes

// Classes returns the element's class list.
func (e *Element) Classes() []string {
	v, _ := getAttr(e.node, "class")
	return strings.Fields(v)
}

// HasClass reports whether the class list contains class.
func (e *Element) HasClass(class string) bool {
	for _, c := range e.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds class to the class list. Adding a present class is a no-op.
func (e *Element) AddClass(class string) {
	if class == "" || e.HasClass(class) {
		return
	}
	setAttr(e.node, "class", strings.Join(append(e.Classes(), class), " "))
	e.doc.record(MutationClassAdd, e.node, class)
}

// RemoveClass removes class from the class list. Removing an absent class
// is a no-op.
func (e *Element) RemoveClass(class string) {
	if !e.HasClass(class) {
		return
	}
	classes := e.Classes()
	kept := classes[:0]
	for _, c := range classes {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		removeAttr(e.node, "class")
	} else {
		setAttr(e.node, "class", strings.Join(kept, " "))
	}
	e.doc.record(MutationClassRemove, e.node, class)
}

// Text content

// Text returns the concatenated text of the element's descendants.
func (e *Element) Text() string {
	var b strings.Builder
	collectText(e.node, &b)
	return b.String()
}

// SetText replaces the element's children with a single text node.
// Setting the current text again records no mutation.
func (e *Element) SetText(text string) {
	if e.Text() == text && (e.node.FirstChild == nil || e.node.FirstChild.NextSibling == nil) {
		return
	}
	replaceText(e.node, text)
	e.doc.record(MutationText, e.node, text)
}

func collectText(n *html.Node, b *strings.Builder) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
		case html.ElementNode:
			collectText(c, b)
		}
	}
}

func replaceText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// Attribute helpers

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

func removeAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}
