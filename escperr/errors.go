// Package escperr defines the tagged error values raised at the engine's
// public API boundaries. The hot paths (layout, pagination, emission) never
// return these for well-formed input; they clamp instead, per the
// propagation policy described alongside this package.
package escperr

import "fmt"

// Kind classifies an error by the boundary that raised it.
type Kind int

const (
	// Validation marks an out-of-range numeric parameter (byte, u16,
	// range, oneOf).
	Validation Kind = iota
	// Encoding marks an invalid hex literal or unrecognized escape in an
	// input string.
	Encoding
	// Graphics marks invalid image dimensions or an unsupported dithering
	// mode.
	Graphics
	// Configuration marks paper/margin values that produce a
	// non-positive printable area.
	Configuration
	// Internal marks a layout-stage node that should have been resolved
	// before reaching the layout engine (unresolved Template/If/Switch/For).
	Internal
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Encoding:
		return "encoding"
	case Graphics:
		return "graphics"
	case Configuration:
		return "configuration"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the single tagged error type returned by every fallible
// constructor in this module.
type Error struct {
	Kind    Kind
	Param   string
	Value   any
	Message string
}

func (e *Error) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (param=%s value=%v)", e.Kind, e.Message, e.Param, e.Value)
}

// New constructs a tagged Error.
func New(kind Kind, param string, value any, message string) *Error {
	return &Error{Kind: kind, Param: param, Value: value, Message: message}
}

// Validationf builds a Validation error for a parameter outside its
// permitted range (byte, u16, a bound range, or a oneOf set).
func Validationf(param string, value any, format string, args ...any) *Error {
	return New(Validation, param, value, fmt.Sprintf(format, args...))
}

// Encodingf builds an Encoding error carrying the offending input
// substring as Value.
func Encodingf(substr string, format string, args ...any) *Error {
	return New(Encoding, "", substr, fmt.Sprintf(format, args...))
}

// Graphicsf builds a Graphics error naming the failing operation.
func Graphicsf(operation string, format string, args ...any) *Error {
	return New(Graphics, "operation", operation, fmt.Sprintf(format, args...))
}

// Configurationf builds a Configuration error naming the failing setting.
func Configurationf(setting string, value any, format string, args ...any) *Error {
	return New(Configuration, setting, value, fmt.Sprintf(format, args...))
}

// Internalf builds an Internal error for a bug surfaced as a hard failure
// (an unresolved dynamic node reaching the layout stage).
func Internalf(format string, args ...any) *Error {
	return New(Internal, "", nil, fmt.Sprintf(format, args...))
}

// Must panics if err is non-nil, otherwise returns v. A convenience for
// static/startup-time construction, never used on the hot emission path.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
