package nanoblocks

import (
	"fmt"
	"maps"
	"slices"

	"golang.org/x/net/html"
)

// DOMHandler handles a DOM event for block b.
// node is the element that matched the handler's selector, or the block root
// for handlers declared without a selector.
type DOMHandler func(b *Block, e *Event, node *html.Node) Result

// CustomHandler handles a custom event triggered on block b.
type CustomHandler func(b *Block, name string, payload any) Result

// Options declares a block.
//
// Events maps event names ("click", "click .close", "open") to handlers.
// A handler value may be:
//   - a DOMHandler or func(*Block, *Event, *html.Node) [Result] for DOM events
//   - a CustomHandler or func(*Block, string, any) [Result] for custom events
//   - a string naming an entry of Methods (or of an inherited block's Methods)
//   - nil or Clear to drop handlers inherited for that event
//   - Override(h) to use h and drop handlers inherited for that event
//
// Event map keys are processed in sorted order, which fixes the order in which
// selectors of the same event type are tried against a node.
type Options struct {
	Events  map[string]any
	Methods map[string]any
}

type clearMarker struct{}

// Clear suppresses inherited handlers for one event key.
var Clear = clearMarker{}

type override struct {
	handler any
}

// Override wraps a handler so it replaces, rather than extends, the handlers
// inherited for the same event key.
func Override(handler any) any {
	return override{handler: handler}
}

// table is an insertion-ordered map of handler chains.
type table[H any] struct {
	keys   []string
	chains map[string][]H
}

func newTable[H any]() *table[H] {
	return &table[H]{chains: make(map[string][]H)}
}

func (t *table[H]) touch(key string) {
	if _, ok := t.chains[key]; !ok {
		t.keys = append(t.keys, key)
		t.chains[key] = nil
	}
}

func (t *table[H]) add(key string, h H) {
	t.touch(key)
	t.chains[key] = append(t.chains[key], h)
}

func (t *table[H]) set(key string, chain []H) {
	t.touch(key)
	t.chains[key] = chain
}

func (t *table[H]) get(key string) ([]H, bool) {
	chain, ok := t.chains[key]
	return chain, ok
}

type eventKey struct {
	custom   bool
	typ      string
	selector string
}

func keyOf(n EventName) eventKey {
	return eventKey{custom: n.Custom, typ: n.Type, selector: n.Selector}
}

// Layer holds one simple block's handler tables.
type Layer struct {
	name     string
	domTypes []string
	dom      map[string]*table[DOMHandler]
	custom   *table[CustomHandler]
}

func newLayer(name string) *Layer {
	return &Layer{
		name:   name,
		dom:    make(map[string]*table[DOMHandler]),
		custom: newTable[CustomHandler](),
	}
}

// Name returns the simple block name this layer was built for.
func (l *Layer) Name() string { return l.name }

// DOMTypes returns the DOM event types this layer handles.
func (l *Layer) DOMTypes() []string { return slices.Clone(l.domTypes) }

// Selectors returns the selector keys declared for typ, in match order.
func (l *Layer) Selectors(typ string) []string {
	t := l.dom[typ]
	if t == nil {
		return nil
	}
	return slices.Clone(t.keys)
}

// DOM returns the handler chain for typ and selector, base handlers first.
func (l *Layer) DOM(typ, selector string) []DOMHandler {
	t := l.dom[typ]
	if t == nil {
		return nil
	}
	chain, _ := t.get(selector)
	return slices.Clone(chain)
}

// CustomEvents returns the custom event names this layer handles.
func (l *Layer) CustomEvents() []string { return slices.Clone(l.custom.keys) }

// Custom returns the handler chain for a custom event, base handlers first.
func (l *Layer) Custom(name string) []CustomHandler {
	chain, _ := l.custom.get(name)
	return slices.Clone(chain)
}

func (l *Layer) domTable(typ string) *table[DOMHandler] {
	t := l.dom[typ]
	if t == nil {
		t = newTable[DOMHandler]()
		l.dom[typ] = t
		l.domTypes = append(l.domTypes, typ)
	}
	return t
}

func (l *Layer) touch(n EventName) {
	if n.Custom {
		l.custom.touch(n.Type)
		return
	}
	l.domTable(n.Type).touch(n.Selector)
}

// inherit merges base handlers under the layer's own. Base handlers come first
// in each chain, so they run after the child's at dispatch time. Keys in
// suppressed keep only the child's handlers.
func (l *Layer) inherit(base *Layer, suppressed map[eventKey]bool) {
	for _, typ := range base.domTypes {
		bt := base.dom[typ]
		ct := l.domTable(typ)
		for _, sel := range bt.keys {
			if suppressed[eventKey{typ: typ, selector: sel}] {
				continue
			}
			own, _ := ct.get(sel)
			ct.set(sel, append(slices.Clone(bt.chains[sel]), own...))
		}
	}
	for _, name := range base.custom.keys {
		if suppressed[eventKey{custom: true, typ: name}] {
			continue
		}
		own, _ := l.custom.get(name)
		l.custom.set(name, append(slices.Clone(base.custom.chains[name]), own...))
	}
}

// buildLayer splits an event map into DOM and custom tables.
func (r *Registry) buildLayer(name string, events map[string]any, methods map[string]any) (*Layer, map[eventKey]bool) {
	layer := newLayer(name)
	suppressed := make(map[eventKey]bool)

	for _, key := range slices.Sorted(maps.Keys(events)) {
		ev := ParseEventName(key)
		value := events[key]

		replace := false
		switch v := value.(type) {
		case nil, clearMarker:
			suppressed[keyOf(ev)] = true
			layer.touch(ev)
			continue
		case override:
			replace = true
			value = v.handler
		}

		if method, ok := value.(string); ok {
			m, found := methods[method]
			if !found {
				panic(fmt.Errorf("%w: %q in block %q (event %q)", ErrUnknownMethod, method, name, key))
			}
			value = m
		}

		if ev.Custom {
			h, ok := asCustomHandler(value)
			if !ok {
				panic(fmt.Errorf("%w: %T for custom event %q in block %q", ErrBadHandler, value, key, name))
			}
			layer.custom.add(ev.Type, h)
		} else {
			h, ok := asDOMHandler(value)
			if !ok {
				panic(fmt.Errorf("%w: %T for DOM event %q in block %q", ErrBadHandler, value, key, name))
			}
			if ev.Selector != "" {
				if err := r.validateSelector(ev.Selector); err != nil {
					panic(fmt.Errorf("%w: %q in block %q: %v", ErrBadSelector, ev.Selector, name, err))
				}
			}
			layer.domTable(ev.Type).add(ev.Selector, h)
		}

		if replace {
			suppressed[keyOf(ev)] = true
		}
	}

	return layer, suppressed
}

func asDOMHandler(v any) (DOMHandler, bool) {
	switch h := v.(type) {
	case DOMHandler:
		return h, h != nil
	case func(*Block, *Event, *html.Node) Result:
		return h, h != nil
	case func(*Block, *Event, *html.Node):
		if h == nil {
			return nil, false
		}
		return func(b *Block, e *Event, n *html.Node) Result {
			h(b, e, n)
			return Continue
		}, true
	}
	return nil, false
}

func asCustomHandler(v any) (CustomHandler, bool) {
	switch h := v.(type) {
	case CustomHandler:
		return h, h != nil
	case func(*Block, string, any) Result:
		return h, h != nil
	case func(*Block, string, any):
		if h == nil {
			return nil, false
		}
		return func(b *Block, name string, payload any) Result {
			h(b, name, payload)
			return Continue
		}, true
	}
	return nil, false
}
