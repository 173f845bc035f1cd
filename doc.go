// Package nanoblocks attaches behavior to existing HTML elements.
//
// An element declares the block that owns it with a marker attribute; the
// block's Go definition says which DOM and custom events it handles. Instead
// of one listener per element, the registry installs one listener per event
// type on the document and routes each event to the blocks on the path from
// the event target to the root.
//
// # Defining blocks
//
//	reg := nanoblocks.New()
//	reg.Define("popup", nanoblocks.Options{
//	    Events: map[string]any{
//	        "click":        "toggle",   // the block root itself
//	        "click .close": "close",    // descendants matching .close
//	        "open":         "onOpen",   // custom event
//	    },
//	    Methods: map[string]any{
//	        "toggle": func(b *nanoblocks.Block, e *nanoblocks.Event, n *html.Node) nanoblocks.Result { ... },
//	        "close":  ...,
//	        "onOpen": func(b *nanoblocks.Block, name string, payload any) { ... },
//	    },
//	})
//
// Extend defines a block on top of another. The new block's handlers run
// first, then the inherited ones for the same event; nil, Clear or Override
// in the event map drop the inherited handlers for that key.
//
// # Mixing blocks
//
// A marker attribute may list several blocks, data-nb="popup draggable".
// The composite behaves as each listed block in turn: for every event, the
// handlers of popup are offered the event before those of draggable.
//
// # Dispatch
//
// The host reports events with Document.Dispatch. For each block on the path,
// innermost first, handlers with a selector run on matching descendants and
// handlers without one run on the block root. Handlers control the walk with
// their Result:
//   - Continue: carry on
//   - StopChain: skip the remaining (inherited) handlers of this chain
//   - StopPropagation: stop the event here, including for enclosing blocks
//
// mouseover and mouseout with a related target behave like mouseenter and
// mouseleave: only the innermost block sees them and nothing fires when the
// pointer moves within an element.
//
// # Instances
//
// Block instances are created on demand, one per element identity (the id
// attribute, generated when missing), and fire "init" once when created. The
// registry itself is an Emitter and publishes "inited:<id>" afterwards, which
// Ready builds on. Init creates eagerly the blocks of elements carrying the
// _init class.
//
// A Registry is single-threaded: use it from the goroutine that delivers
// events.
package nanoblocks
