package nanoblocks

import (
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Document is the host side of delegation: it owns the root of an html tree
// and the per-type listeners installed on it.
//
// A host (browser bridge, headless driver, test) reports each DOM event once,
// through Dispatch, instead of registering a listener per element.
type Document struct {
	root      *html.Node
	listeners map[string][]func(*Event) bool
}

// NewDocument wraps an existing tree.
func NewDocument(root *html.Node) *Document {
	return &Document{
		root:      root,
		listeners: make(map[string][]func(*Event) bool),
	}
}

// ParseDocument parses HTML into a Document.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return NewDocument(root), nil
}

// ParseDocumentString parses HTML from a string into a Document.
func ParseDocumentString(markup string) (*Document, error) {
	return ParseDocument(strings.NewReader(markup))
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Listen adds a listener for an event type.
// A listener returning false asks the host to stop the event.
func (d *Document) Listen(typ string, fn func(*Event) bool) {
	d.listeners[typ] = append(d.listeners[typ], fn)
}

// Listening reports how many listeners are installed for typ.
func (d *Document) Listening(typ string) int {
	return len(d.listeners[typ])
}

// Dispatch delivers e to the listeners installed for its type.
// It returns false if any listener returned false.
func (d *Document) Dispatch(e *Event) bool {
	ok := true
	for _, fn := range d.listeners[e.Type] {
		if !fn(e) {
			ok = false
		}
	}
	return ok
}

// Query returns the first element matching a CSS selector, or nil.
func (d *Document) Query(selector string) (*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, err
	}
	return cascadia.Query(d.root, sel), nil
}

// QueryAll returns every element matching a CSS selector in document order.
func (d *Document) QueryAll(selector string) ([]*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, err
	}
	return cascadia.QueryAll(d.root, sel), nil
}

// Render writes the document as HTML, including identities assigned to blocks.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}
