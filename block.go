package nanoblocks

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Block is a live instance of a block definition bound to one element.
//
// Blocks are created lazily (on first event, lookup or Init) and are never
// destroyed by the registry. The embedded Emitter carries custom events:
// handlers declared in the definition are subscribed at creation, and more
// can be added with On.
type Block struct {
	Emitter

	id   string
	node *html.Node
	def  *Definition
	reg  *Registry
}

// ID returns the element identity the block is cached under.
func (b *Block) ID() string { return b.id }

// Name returns the block name (possibly composite).
func (b *Block) Name() string { return b.def.name }

// Node returns the block root element.
func (b *Block) Node() *html.Node { return b.node }

// Definition returns the resolved definition.
func (b *Block) Definition() *Definition { return b.def }

// Registry returns the registry owning the block.
func (b *Block) Registry() *Registry { return b.reg }

// Block returns the block instance for node, creating it on first use.
// The block name is read from the marker attribute; nil is returned when the
// element declares no block.
func (r *Registry) Block(node *html.Node) *Block {
	return r.BlockWith(node, "", nil)
}

// BlockWith is Block with an explicit block name (used instead of the marker
// attribute when non-empty) and listeners to subscribe on the instance.
//
// On creation, listeners are subscribed before "init" fires so they observe
// it. For an existing instance they are simply added; "init" never fires twice.
func (r *Registry) BlockWith(node *html.Node, name string, listeners map[string]Listener) *Block {
	if node == nil || node.Type != html.ElementNode {
		return nil
	}
	if name == "" {
		name, _ = getAttr(node, r.opts.markerAttr)
	}
	if strings.TrimSpace(name) == "" {
		return nil
	}

	id, _ := getAttr(node, r.opts.idAttr)
	if id == "" {
		id = r.nextIdentity()
		setAttr(node, r.opts.idAttr, id)
	}

	if b, ok := r.blocks[id]; ok {
		b.listen(listeners)
		return b
	}

	b := &Block{
		id:   id,
		node: node,
		def:  r.Resolve(name),
		reg:  r,
	}
	b.bindDeclared()
	b.listen(listeners)

	// Cached before init so handlers resolving the same element get this instance.
	r.blocks[id] = b
	r.metrics.created.Add(context.Background(), 1)
	r.logger.Debug("created block", "block", b.def.name, "id", id)

	b.Trigger("init", nil)
	r.Trigger("inited:"+id, b)
	return b
}

// Lookup returns the existing block cached under id without creating one.
func (r *Registry) Lookup(id string) (*Block, bool) {
	b, ok := r.blocks[id]
	return b, ok
}

// Find locates the element with the given identity in the attached document
// and returns its block. Returns nil when no document is attached, no element
// has that identity, or the element declares no block.
func (r *Registry) Find(id string) *Block {
	if r.doc == nil || id == "" {
		return nil
	}
	node := cascadia.Query(r.doc.root, attrMatcher{key: r.opts.idAttr, value: id})
	if node == nil {
		return nil
	}
	return r.Block(node)
}

// Init creates the blocks of every element under where carrying the
// eager-init class, in document order. A nil where scans the attached
// document. Call it at startup and after inserting markup.
func (r *Registry) Init(where *html.Node) []*Block {
	if where == nil {
		if r.doc == nil {
			return nil
		}
		where = r.doc.root
	}

	var out []*Block
	for _, node := range cascadia.QueryAll(where, classMatcher(r.opts.initClass)) {
		if b := r.Block(node); b != nil {
			out = append(out, b)
		}
	}
	return out
}

// Ready calls fn with the block cached under id, now if it exists or else
// once it is created.
func (r *Registry) Ready(id string, fn func(*Block)) {
	if b, ok := r.blocks[id]; ok {
		fn(b)
		return
	}
	r.Once("inited:"+id, func(_ string, payload any) {
		fn(payload.(*Block))
	})
}

// bindDeclared subscribes one listener per declared custom event chain, layer
// by layer. A chain stops at the first handler not returning Continue; other
// subscribers of the event are unaffected.
func (b *Block) bindDeclared() {
	for _, layer := range b.def.layers {
		for _, name := range layer.custom.keys {
			chain := layer.custom.chains[name]
			if len(chain) == 0 {
				continue
			}
			b.On(name, func(name string, payload any) {
				for i := len(chain) - 1; i >= 0; i-- {
					if chain[i](b, name, payload) != Continue {
						return
					}
				}
			})
		}
	}
}

func (b *Block) listen(listeners map[string]Listener) {
	for _, name := range slices.Sorted(maps.Keys(listeners)) {
		if fn := listeners[name]; fn != nil {
			b.On(name, fn)
		}
	}
}
