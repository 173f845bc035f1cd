package nanoblocks

import (
	"strings"

	"golang.org/x/net/html"
)

// dispatch is the single listener installed per DOM event type.
//
// Starting at the target it climbs the tree one segment at a time: the nodes
// from the current position up to and including the nearest element carrying
// the marker attribute (the block root). Each segment is offered to the root's
// block, then dispatch continues from the root's parent. It returns false when
// a handler returned StopPropagation.
//
// Hover events with a related target get enter/leave treatment instead: only
// the innermost segment is considered, reduced to the target and its block
// root, and nodes containing the related target are skipped.
func (r *Registry) dispatch(e *Event) bool {
	r.metrics.event(e.Type)

	hover := IsHoverEvent(e.Type) && e.RelatedTarget != nil
	node := e.Target

	for node != nil {
		var segment []*html.Node
		for node != nil && !r.isRoot(node) {
			segment = append(segment, node)
			node = node.Parent
		}
		if node == nil {
			return true
		}
		root := node

		if hover {
			if root == e.Target {
				segment = []*html.Node{root}
			} else {
				segment = []*html.Node{e.Target, root}
			}
		} else {
			segment = append(segment, root)
		}

		if r.runSegment(e, root, segment, hover) == StopPropagation {
			r.metrics.stop(e.Type, StopPropagation)
			r.logger.Debug("event stopped", "event", e.Type, "block", r.nameOf(root))
			return false
		}
		if hover {
			return true
		}
		node = root.Parent
	}
	return true
}

// runSegment offers a segment to the block rooted at root. For each layer,
// nodes are visited innermost first: descendants against selector keys, the
// root against the empty key. The block instance is only created once a
// chain actually has to run.
func (r *Registry) runSegment(e *Event, root *html.Node, segment []*html.Node, hover bool) Result {
	def := r.Resolve(r.nameOf(root))
	if !def.handles(e.Type) {
		return Continue
	}

	var b *Block
	run := func(chain []DOMHandler, n *html.Node) Result {
		if len(chain) == 0 {
			return Continue
		}
		if b == nil {
			b = r.Block(root)
		}
		return r.runChain(b, chain, e, n)
	}

	for _, layer := range def.layers {
		t := layer.dom[e.Type]
		if t == nil {
			continue
		}
		for _, n := range segment {
			if hover && contains(n, e.RelatedTarget) {
				continue
			}
			if n == root {
				if chain, ok := t.get(""); ok {
					if run(chain, root) == StopPropagation {
						return StopPropagation
					}
				}
				continue
			}
			for _, sel := range t.keys {
				if sel == "" || !r.opts.matcher.Match(n, sel) {
					continue
				}
				if run(t.chains[sel], n) == StopPropagation {
					return StopPropagation
				}
			}
		}
	}
	return Continue
}

// runChain calls a chain most derived first (chains are stored base first).
func (r *Registry) runChain(b *Block, chain []DOMHandler, e *Event, n *html.Node) Result {
	for i := len(chain) - 1; i >= 0; i-- {
		r.metrics.handler(e.Type)
		switch res := chain[i](b, e, n); res {
		case StopChain:
			r.metrics.stop(e.Type, StopChain)
			return StopChain
		case StopPropagation:
			return StopPropagation
		}
	}
	return Continue
}

func (r *Registry) isRoot(n *html.Node) bool {
	return strings.TrimSpace(r.nameOf(n)) != ""
}

func (r *Registry) nameOf(n *html.Node) string {
	name, _ := getAttr(n, r.opts.markerAttr)
	return name
}
