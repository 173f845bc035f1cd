package nanoblocks

import (
	"strings"

	"golang.org/x/net/html"
)

// TestPage bundles a registry and a parsed document for tests.
//
// Use it to exercise blocks end to end without a browser: define blocks on
// Registry, then fire events at nodes found with Query.
//
//	page := nanoblocks.NewTestPage(t, `<div data-nb="menu"><span class="item">X</span></div>`)
//	page.Registry.Define("menu", nanoblocks.Options{...})
//	page.Click(page.MustQuery(".item"))
type TestPage struct {
	Registry *Registry
	Document *Document
}

// testingT is the subset of testing.TB used by the harness.
type testingT interface {
	Helper()
	Fatalf(format string, args ...any)
}

// NewTestPage parses markup and attaches a fresh registry to it.
func NewTestPage(t testingT, markup string, opts ...Option) *TestPage {
	t.Helper()
	doc, err := ParseDocumentString(markup)
	if err != nil {
		t.Fatalf("nanoblocks: parse test markup: %v", err)
	}
	reg := New(opts...)
	reg.Attach(doc)
	return &TestPage{Registry: reg, Document: doc}
}

// Query returns the first element matching selector, or nil.
// It panics on a malformed selector.
func (p *TestPage) Query(selector string) *html.Node {
	n, err := p.Document.Query(selector)
	if err != nil {
		panic(err)
	}
	return n
}

// MustQuery is Query that panics when nothing matches.
func (p *TestPage) MustQuery(selector string) *html.Node {
	n := p.Query(selector)
	if n == nil {
		panic("nanoblocks: no element matches " + selector)
	}
	return n
}

// Fire dispatches an event of type typ at target and returns the dispatch
// result (false when a handler stopped propagation).
func (p *TestPage) Fire(typ string, target *html.Node) bool {
	return p.Document.Dispatch(NewEvent(typ, target))
}

// Click fires a click at target.
func (p *TestPage) Click(target *html.Node) bool {
	return p.Fire("click", target)
}

// Hover fires a hover event (mouseover or mouseout) at target with a related
// target.
func (p *TestPage) Hover(typ string, target, related *html.Node) bool {
	return p.Document.Dispatch(&Event{Type: typ, Target: target, RelatedTarget: related})
}

// Call is one handler invocation seen by a Recorder.
type Call struct {
	// Label identifies the handler.
	Label string
	// Node describes the node the handler received ("" for custom events).
	Node string
	// Payload is the custom event payload.
	Payload any
}

// Recorder builds handlers that record their invocations in order.
//
//	rec := &nanoblocks.Recorder{}
//	reg.Define("menu", nanoblocks.Options{Events: map[string]any{
//	    "click .item": rec.DOM("select", nanoblocks.Continue),
//	}})
type Recorder struct {
	Calls []Call
}

// DOM returns a DOM handler recording label and returning res.
func (rec *Recorder) DOM(label string, res Result) DOMHandler {
	return func(b *Block, e *Event, node *html.Node) Result {
		rec.Calls = append(rec.Calls, Call{Label: label, Node: Describe(node)})
		return res
	}
}

// Custom returns a custom event handler recording label and returning res.
func (rec *Recorder) Custom(label string, res Result) CustomHandler {
	return func(b *Block, name string, payload any) Result {
		rec.Calls = append(rec.Calls, Call{Label: label, Payload: payload})
		return res
	}
}

// Listener returns an instance listener recording label.
func (rec *Recorder) Listener(label string) Listener {
	return func(name string, payload any) {
		rec.Calls = append(rec.Calls, Call{Label: label, Payload: payload})
	}
}

// Labels returns the recorded labels in call order.
func (rec *Recorder) Labels() []string {
	out := make([]string, 0, len(rec.Calls))
	for _, c := range rec.Calls {
		out = append(out, c.Label)
	}
	return out
}

// Reset forgets recorded calls.
func (rec *Recorder) Reset() {
	rec.Calls = nil
}

// Describe renders a node as tag#id.class for assertions and logs.
func Describe(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type != html.ElementNode {
		return "#" + nodeTypeName(n.Type)
	}
	var sb strings.Builder
	sb.WriteString(n.Data)
	if id, ok := getAttr(n, "id"); ok && id != "" {
		sb.WriteString("#" + id)
	}
	if class, ok := getAttr(n, "class"); ok {
		for _, c := range strings.Fields(class) {
			sb.WriteString("." + c)
		}
	}
	return sb.String()
}

func nodeTypeName(t html.NodeType) string {
	switch t {
	case html.DocumentNode:
		return "document"
	case html.TextNode:
		return "text"
	case html.CommentNode:
		return "comment"
	case html.DoctypeNode:
		return "doctype"
	}
	return "node"
}
