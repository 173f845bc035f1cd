package nanoblocks

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// domEvents lists the DOM event types a block may declare handlers for.
var domEvents = []string{
	"click",
	"dblclick",
	"mouseup",
	"mousedown",
	"keydown",
	"keypress",
	"keyup",
	"focusin",
	"focusout",
	"mouseover",
	"mouseout",
}

// DOMEvents returns the supported DOM event types.
func DOMEvents() []string {
	out := make([]string, len(domEvents))
	copy(out, domEvents)
	return out
}

// IsDOMEvent reports whether typ is a supported DOM event type.
func IsDOMEvent(typ string) bool {
	for _, t := range domEvents {
		if t == typ {
			return true
		}
	}
	return false
}

// IsHoverEvent reports whether typ carries a related target with enter/leave
// semantics (mouseover, mouseout).
func IsHoverEvent(typ string) bool {
	return typ == "mouseover" || typ == "mouseout"
}

// EventName is a classified key of a block's event map.
type EventName struct {
	// Type is the DOM event type, or the custom event name verbatim.
	Type string
	// Selector scopes a DOM handler to matching descendants.
	// Empty means the block root itself.
	Selector string
	// Custom is true for non-DOM event names.
	Custom bool
}

// ParseEventName splits "click" or "click .close" into a DOM type and selector.
// Any other string is a custom event name. The selector is not normalized.
func ParseEventName(s string) EventName {
	for _, t := range domEvents {
		if s == t {
			return EventName{Type: t}
		}
		if !strings.HasPrefix(s, t) {
			continue
		}
		r, _ := utf8.DecodeRuneInString(s[len(t):])
		if unicode.IsSpace(r) {
			return EventName{Type: t, Selector: strings.TrimSpace(s[len(t):])}
		}
	}
	return EventName{Type: s, Custom: true}
}

// String returns the event name in event-map form.
func (n EventName) String() string {
	if n.Selector == "" {
		return n.Type
	}
	return n.Type + " " + n.Selector
}

// Event is a DOM event delivered to a Document by its host.
type Event struct {
	Type   string
	Target *html.Node

	// RelatedTarget is the node the pointer came from (mouseover) or is moving
	// to (mouseout). Nil for other events.
	RelatedTarget *html.Node

	// Detail carries host-specific data untouched.
	Detail any
}

// NewEvent creates an event of the given type originating at target.
func NewEvent(typ string, target *html.Node) *Event {
	return &Event{Type: typ, Target: target}
}

// Result is returned by handlers to control dispatch.
type Result int

const (
	// Continue runs the next handler, selector, node and enclosing block.
	Continue Result = iota
	// StopChain skips the remaining handlers of the current chain only.
	StopChain
	// StopPropagation ends the dispatch of this event occurrence.
	StopPropagation
)

func (r Result) String() string {
	switch r {
	case Continue:
		return "continue"
	case StopChain:
		return "stop-chain"
	case StopPropagation:
		return "stop-propagation"
	}
	return "unknown"
}
