package nanoblocks

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Matcher decides whether a node matches a selector from an event map.
// Selectors are passed through verbatim.
type Matcher interface {
	Match(n *html.Node, selector string) bool
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(n *html.Node, selector string) bool

// Match calls f(n, selector).
func (f MatcherFunc) Match(n *html.Node, selector string) bool {
	return f(n, selector)
}

// selectorValidator is implemented by matchers that can reject a selector
// when a block is defined rather than on first dispatch.
type selectorValidator interface {
	Validate(selector string) error
}

// SelectorCache matches CSS selectors with cascadia, compiling each selector
// once.
type SelectorCache struct {
	compiled map[string]cascadia.Selector
}

// NewSelectorCache creates an empty selector cache.
func NewSelectorCache() *SelectorCache {
	return &SelectorCache{compiled: make(map[string]cascadia.Selector)}
}

func (c *SelectorCache) compile(selector string) (cascadia.Selector, error) {
	if sel, ok := c.compiled[selector]; ok {
		return sel, nil
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, err
	}
	c.compiled[selector] = sel
	return sel, nil
}

// Validate compiles selector, reporting syntax errors.
func (c *SelectorCache) Validate(selector string) error {
	_, err := c.compile(selector)
	return err
}

// Match reports whether n is an element matching selector.
// A malformed selector panics, as a browser's matches() would throw.
func (c *SelectorCache) Match(n *html.Node, selector string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	sel, err := c.compile(selector)
	if err != nil {
		panic(err)
	}
	return sel.Match(n)
}

func (r *Registry) validateSelector(selector string) error {
	if v, ok := r.opts.matcher.(selectorValidator); ok {
		return v.Validate(selector)
	}
	return nil
}

// attrMatcher matches elements by exact attribute value, or by presence of a
// non-empty value when value is empty.
type attrMatcher struct {
	key   string
	value string
}

func (m attrMatcher) Match(n *html.Node) bool {
	v, ok := getAttr(n, m.key)
	if !ok {
		return false
	}
	if m.value == "" {
		return v != ""
	}
	return v == m.value
}

// classMatcher matches elements carrying a class, without compiling a
// selector from a configurable class name.
type classMatcher string

func (m classMatcher) Match(n *html.Node) bool {
	v, ok := getAttr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == string(m) {
			return true
		}
	}
	return false
}

func getAttr(n *html.Node, key string) (string, bool) {
	if n == nil || n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// contains reports whether x is n or a descendant of n.
func contains(n, x *html.Node) bool {
	for ; x != nil; x = x.Parent {
		if x == n {
			return true
		}
	}
	return false
}
