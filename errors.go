package regfile

import "errors"

// Sentinel errors returned by the core. Transport errors are never wrapped:
// whatever the device's read/write returns propagates unchanged.
var (
	// ErrDefinition reports a malformed register layout (overlapping
	// fields, field exceeding the register width, duplicate names or
	// addresses). It is only returned at construction time.
	ErrDefinition = errors.New("invalid regfile definition")

	// ErrUnknownRegister reports a lookup of an undefined register name.
	ErrUnknownRegister = errors.New("unknown register")

	// ErrUnknownField reports an access to an undefined field name.
	ErrUnknownField = errors.New("unknown field")

	// ErrValueRange reports a field value that does not fit the field
	// width or violates its declared constraint. It is always returned
	// before any transport write happens.
	ErrValueRange = errors.New("value out of range")

	// ErrOutOfBounds reports a memory access beyond a declared size.
	ErrOutOfBounds = errors.New("index out of bounds")
)
