package nanoblocks

import "errors"

// Sentinel errors for block wiring mistakes.
//
// These describe static programming errors (a typo in a block name, a handler of
// the wrong shape) and are raised as panics wrapping the sentinel, so callers that
// want to inspect them recover and use errors.Is or the IsX helpers below.
var (
	ErrUnknownBlock   = errors.New("nanoblocks: unknown block")
	ErrAlreadyDefined = errors.New("nanoblocks: block already defined")
	ErrInvalidName    = errors.New("nanoblocks: invalid block name")
	ErrCompositeBase  = errors.New("nanoblocks: composite block cannot be a base")
	ErrBadHandler     = errors.New("nanoblocks: unsupported handler")
	ErrUnknownMethod  = errors.New("nanoblocks: unknown method")
	ErrBadSelector    = errors.New("nanoblocks: invalid selector")
	ErrAttached       = errors.New("nanoblocks: registry already attached to a document")
)

// IsUnknownBlock checks if err is an unknown-block error.
func IsUnknownBlock(err error) bool {
	return errors.Is(err, ErrUnknownBlock)
}

// IsDefinitionError checks if err was raised while defining a block.
func IsDefinitionError(err error) bool {
	return errors.Is(err, ErrAlreadyDefined) ||
		errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrCompositeBase) ||
		errors.Is(err, ErrBadHandler) ||
		errors.Is(err, ErrUnknownMethod) ||
		errors.Is(err, ErrBadSelector)
}
