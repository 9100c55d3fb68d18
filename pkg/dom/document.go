package dom

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// IDAttr is the attribute holding stable element identifiers assigned by AssignIDs.
const IDAttr = "data-vid"

// Document is a live element tree.
type Document struct {
	root *html.Node

	selectors map[string]cascadia.Matcher
	listeners map[*html.Node]map[string][]Listener
	files     map[*html.Node][]File
	ids       map[string]*html.Node
	nextID    int

	mutations    []Mutation
	nativeSubmit func(form *Element)
	logger       *slog.Logger
}

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithNativeSubmit sets the action performed when a form is submitted
// natively, i.e. when a submit event is not prevented or Submit is called.
func WithNativeSubmit(fn func(form *Element)) Option {
	return func(d *Document) {
		d.nativeSubmit = fn
	}
}

func newDocument(root *html.Node, opts []Option) *Document {
	d := &Document{
		root:      root,
		selectors: make(map[string]cascadia.Matcher),
		listeners: make(map[*html.Node]map[string][]Listener),
		files:     make(map[*html.Node][]File),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Parse builds a document from HTML markup.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return newDocument(root, opts), nil
}

// ParseString builds a document from an HTML string.
func ParseString(markup string, opts ...Option) (*Document, error) {
	return Parse(strings.NewReader(markup), opts...)
}

// Compile checks selector syntax without touching any document.
func Compile(selector string) error {
	_, err := cascadia.ParseGroup(selector)
	return err
}

// matcher returns the compiled selector, or nil when the selector is invalid.
// Failures are cached too so a bad selector is reported once.
func (d *Document) matcher(selector string) cascadia.Matcher {
	if m, ok := d.selectors[selector]; ok {
		return m
	}
	group, err := cascadia.ParseGroup(selector)
	if err != nil {
		d.logger.Debug("invalid selector", "selector", selector, "error", err)
		d.selectors[selector] = nil
		return nil
	}
	d.selectors[selector] = group
	return group
}

// wrap returns the Element for n, or nil when n is nil.
func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	return &Element{doc: d, node: n}
}

func (d *Document) wrapAll(nodes []*html.Node) []*Element {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out
}

// QuerySelector returns the first element in document order matching selector.
func (d *Document) QuerySelector(selector string) *Element {
	m := d.matcher(selector)
	if m == nil {
		return nil
	}
	return d.wrap(cascadia.Query(d.root, m))
}

// QuerySelectorAll returns every element matching selector in document order.
func (d *Document) QuerySelectorAll(selector string) []*Element {
	m := d.matcher(selector)
	if m == nil {
		return nil
	}
	return d.wrapAll(cascadia.QueryAll(d.root, m))
}

// Elements returns every element of the document in document order.
func (d *Document) Elements() []*Element {
	var out []*Element
	walkElements(d.root, func(n *html.Node) {
		out = append(out, d.wrap(n))
	})
	return out
}

// AssignIDs gives every element without one a stable identifier stored in
// the IDAttr attribute. It is idempotent and may be called again after
// nodes are added.
func (d *Document) AssignIDs() {
	if d.ids == nil {
		d.ids = make(map[string]*html.Node)
	}
	walkElements(d.root, func(n *html.Node) {
		if id, ok := getAttr(n, IDAttr); ok {
			d.ids[id] = n
		}
	})
	walkElements(d.root, func(n *html.Node) {
		if _, ok := getAttr(n, IDAttr); ok {
			return
		}
		d.nextID++
		id := "v" + strconv.Itoa(d.nextID)
		for d.ids[id] != nil {
			d.nextID++
			id = "v" + strconv.Itoa(d.nextID)
		}
		setAttr(n, IDAttr, id)
		d.ids[id] = n
	})
}

// ByID returns the element carrying the given IDAttr value.
func (d *Document) ByID(id string) *Element {
	if n, ok := d.ids[id]; ok {
		return d.wrap(n)
	}
	var found *html.Node
	walkElements(d.root, func(n *html.Node) {
		if found == nil {
			if v, ok := getAttr(n, IDAttr); ok && v == id {
				found = n
			}
		}
	})
	return d.wrap(found)
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document to a string.
func (d *Document) String() string {
	var b strings.Builder
	if err := d.Render(&b); err != nil {
		return ""
	}
	return b.String()
}

// TakeMutations returns the mutations recorded since the last call and
// clears the log.
func (d *Document) TakeMutations() []Mutation {
	out := d.mutations
	d.mutations = nil
	return out
}

func (d *Document) record(kind MutationKind, n *html.Node, value string) {
	d.mutations = append(d.mutations, Mutation{Kind: kind, Target: d.wrap(n), Value: value})
}

func walkElements(n *html.Node, fn func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			fn(c)
		}
		walkElements(c, fn)
	}
}
