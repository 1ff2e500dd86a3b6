package translate

import "errors"

// Predefined errors returned by the criteria translation engine.
// Translation failures are deterministic for a given input tree; none of them
// are retryable and all of them are surfaced to the caller.
var (
	// ErrUnknownOperator is returned when a filter carries an operator the
	// engine has no rendering for. Never silently ignored.
	ErrUnknownOperator = errors.New("unknown filter operator")
	// ErrMalformedPayload is returned when an operator receives a value of
	// the wrong shape, e.g. a scalar where a document or element list is
	// required.
	ErrMalformedPayload = errors.New("malformed operator payload")
	// ErrMalformedCursor is returned when the combined keyset cursor is
	// inconsistent: more than two fields, or parts disagreeing on direction
	// or comparison.
	ErrMalformedCursor = errors.New("malformed keyset cursor")
	// ErrUnsupportedJoinKind is returned when a join type cannot be expressed
	// for the target backend. No silent downgrade to another join kind.
	ErrUnsupportedJoinKind = errors.New("unsupported join kind")
	// ErrDialectCapability is returned when an operator requires a feature
	// (documents, native arrays, regex) the active dialect does not provide.
	ErrDialectCapability = errors.New("operator not supported by dialect")
)
