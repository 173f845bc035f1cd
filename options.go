package nanoblocks

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Default markup conventions.
const (
	// DefaultMarkerAttr declares which block owns an element.
	DefaultMarkerAttr = "data-nb"

	// DefaultIDAttr holds the element identity used as the instance cache key.
	DefaultIDAttr = "id"

	// DefaultIDPrefix prefixes identities generated for elements without one.
	DefaultIDPrefix = "nb-"

	// DefaultInitClass marks elements whose blocks are created by Init.
	DefaultInitClass = "_init"
)

// options holds registry configuration (unexported)
type options struct {
	markerAttr    string
	idAttr        string
	idPrefix      string
	initClass     string
	matcher       Matcher
	logger        *slog.Logger
	meterProvider metric.MeterProvider
}

// Option configures a Registry
type Option func(*options)

// WithMarkerAttr sets the attribute that declares a block on an element.
func WithMarkerAttr(name string) Option {
	return func(o *options) {
		if name != "" {
			o.markerAttr = name
		}
	}
}

// WithIDAttr sets the attribute used as element identity.
func WithIDAttr(name string) Option {
	return func(o *options) {
		if name != "" {
			o.idAttr = name
		}
	}
}

// WithIDPrefix sets the prefix of generated identities.
func WithIDPrefix(prefix string) Option {
	return func(o *options) {
		o.idPrefix = prefix
	}
}

// WithInitClass sets the class that marks eagerly initialized blocks.
func WithInitClass(class string) Option {
	return func(o *options) {
		if class != "" {
			o.initClass = class
		}
	}
}

// WithMatcher replaces the selector matcher.
// The default compiles selectors with cascadia and caches them.
func WithMatcher(m Matcher) Option {
	return func(o *options) {
		if m != nil {
			o.matcher = m
		}
	}
}

// WithLogger sets a custom logger for the registry
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider.
// Defaults to the global provider, which is a no-op until the application installs one.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		if mp != nil {
			o.meterProvider = mp
		}
	}
}

func newOptions(opts ...Option) *options {
	o := &options{
		markerAttr: DefaultMarkerAttr,
		idAttr:     DefaultIDAttr,
		idPrefix:   DefaultIDPrefix,
		initClass:  DefaultInitClass,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.matcher == nil {
		o.matcher = NewSelectorCache()
	}
	if o.meterProvider == nil {
		o.meterProvider = otel.GetMeterProvider()
	}
	return o
}
