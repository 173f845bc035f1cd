package nanoblocks

import (
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"
	"unicode"
)

// Registry holds block definitions, live block instances and the listeners
// installed on a Document.
//
// A Registry is the whole runtime context: there are no package-level
// registries, so each test or page gets its own. It is not safe for concurrent
// use; drive it from the goroutine that delivers host events.
//
// The embedded Emitter is the shared channel. After any block is created it
// publishes "inited:<id>" there with the *Block as payload.
type Registry struct {
	Emitter

	opts    *options
	logger  *slog.Logger
	metrics *metrics

	defs   map[string]*Definition
	blocks map[string]*Block
	idSeq  int

	doc       *Document
	seen      map[string]bool
	seenOrder []string
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	o := newOptions(opts...)
	return &Registry{
		opts:    o,
		logger:  o.logger.With("component", "nanoblocks"),
		metrics: newMetrics(o.meterProvider),
		defs:    make(map[string]*Definition),
		blocks:  make(map[string]*Block),
		seen:    make(map[string]bool),
	}
}

// Define registers a simple block.
// Panics if the name is empty, contains whitespace or is already defined, or if
// an event handler is unusable (see Options).
func (r *Registry) Define(name string, o Options) *Definition {
	return r.define(name, o, nil)
}

// Extend registers a simple block that inherits base's handlers and methods.
//
// For every event key declared by base, base's handlers run after the new
// block's own, unless the new block suppresses that key with nil, Clear or
// Override. base must already be defined and must not be composite.
func (r *Registry) Extend(name, base string, o Options) *Definition {
	parent := r.Resolve(base)
	if parent.composite {
		panic(fmt.Errorf("%w: %q", ErrCompositeBase, base))
	}
	return r.define(name, o, parent)
}

func (r *Registry) define(name string, o Options, parent *Definition) *Definition {
	if name == "" || strings.ContainsFunc(name, unicode.IsSpace) {
		panic(fmt.Errorf("%w: %q", ErrInvalidName, name))
	}
	if _, exists := r.defs[name]; exists {
		panic(fmt.Errorf("%w: %q", ErrAlreadyDefined, name))
	}

	methods := make(map[string]any)
	if parent != nil {
		maps.Copy(methods, parent.methods)
	}
	maps.Copy(methods, o.Methods)

	layer, suppressed := r.buildLayer(name, o.Events, methods)
	if parent != nil {
		layer.inherit(parent.layers[0], suppressed)
	}

	def := &Definition{
		name:    name,
		base:    parent,
		layers:  []*Layer{layer},
		methods: methods,
	}
	r.defs[name] = def
	r.install(layer.domTypes)

	r.logger.Debug("defined block", "block", name, "base", baseName(parent))
	return def
}

// Resolve returns the definition for a block name.
//
// A space-separated name is composed on first use from the first layer of each
// listed simple block, in order, and cached under the name verbatim. Resolving
// an unknown name, or a composite naming an unknown block, panics with
// ErrUnknownBlock: every block must be defined before markup uses it.
func (r *Registry) Resolve(name string) *Definition {
	if def, ok := r.defs[name]; ok {
		return def
	}

	parts := strings.Fields(name)
	if len(parts) == 0 || !strings.ContainsFunc(name, unicode.IsSpace) {
		panic(fmt.Errorf("%w: %q", ErrUnknownBlock, name))
	}

	def := &Definition{
		name:      name,
		layers:    make([]*Layer, 0, len(parts)),
		methods:   make(map[string]any),
		composite: true,
	}
	for _, part := range parts {
		mixin, ok := r.defs[part]
		if !ok || mixin.composite {
			panic(fmt.Errorf("%w: %q in %q", ErrUnknownBlock, part, name))
		}
		def.layers = append(def.layers, mixin.layers[0])
		maps.Copy(def.methods, mixin.methods)
	}
	r.defs[name] = def

	r.logger.Debug("composed block", "block", name, "layers", len(def.layers))
	return def
}

// Has reports whether name has been defined or resolved.
func (r *Registry) Has(name string) bool {
	_, ok := r.defs[name]
	return ok
}

// Attach installs the registry's listeners on doc. Event types declared by
// blocks defined later are installed as they appear. A registry serves one
// document; attaching a second panics with ErrAttached.
func (r *Registry) Attach(doc *Document) {
	if r.doc != nil {
		panic(ErrAttached)
	}
	r.doc = doc
	for _, typ := range r.seenOrder {
		r.listen(typ)
	}
}

// Document returns the attached document, or nil.
func (r *Registry) Document() *Document {
	return r.doc
}

// install records DOM types and listens for the ones not seen before.
func (r *Registry) install(types []string) {
	for _, typ := range types {
		if r.seen[typ] {
			continue
		}
		r.seen[typ] = true
		r.seenOrder = append(r.seenOrder, typ)
		if r.doc != nil {
			r.listen(typ)
		}
	}
}

func (r *Registry) listen(typ string) {
	r.doc.Listen(typ, r.dispatch)
	r.logger.Debug("installed listener", "event", typ)
}

// nextIdentity returns a fresh element identity.
func (r *Registry) nextIdentity() string {
	id := r.opts.idPrefix + strconv.Itoa(r.idSeq)
	r.idSeq++
	return id
}

func baseName(d *Definition) string {
	if d == nil {
		return ""
	}
	return d.name
}
