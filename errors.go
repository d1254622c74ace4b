package depict

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrMissingAttribute indicates a requested field is absent on the
	// source object.
	ErrMissingAttribute = errors.New("missing attribute")

	// ErrUnsupportedFormat indicates Encode was called with a format name
	// that has no registered renderer.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrRender indicates a renderer failed to encode the structure.
	ErrRender = errors.New("render failed")

	// ErrNoIdentifier indicates a related object exposes no stable
	// identifier.
	ErrNoIdentifier = errors.New("no identifier")

	// ErrNoNaturalKey indicates an object exposes no natural key.
	ErrNoNaturalKey = errors.New("no natural key")

	// ErrNotComposite indicates default field discovery was attempted on a
	// value that cannot be decomposed into named attributes.
	ErrNotComposite = errors.New("not a composite object")
)

// AttributeError reports a failed attribute lookup with enough context to
// diagnose which object and field were involved.
type AttributeError struct {
	Type  string // type name of the source object
	Field string // attribute name that was requested
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%s %q on %s", ErrMissingAttribute.Error(), e.Field, e.Type)
}

func (e *AttributeError) Unwrap() error {
	return ErrMissingAttribute
}

// FormatError reports an Encode call against an unregistered format.
type FormatError struct {
	Format string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s %q", ErrUnsupportedFormat.Error(), e.Format)
}

func (e *FormatError) Unwrap() error {
	return ErrUnsupportedFormat
}

// RenderError reports a format-specific encoding failure.
type RenderError struct {
	Format string // format name of the failing renderer
	Cause  error  // original error from the renderer
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", ErrRender.Error(), e.Format, e.Cause)
	}
	return fmt.Sprintf("%s (%s)", ErrRender.Error(), e.Format)
}

func (e *RenderError) Unwrap() error {
	return ErrRender
}

// IdentifierError reports a relation whose target has no stable identifier.
type IdentifierError struct {
	Type  string // type name of the related object
	Field string // relation field name, if known
}

func (e *IdentifierError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s for %s (field %s)", ErrNoIdentifier.Error(), e.Type, e.Field)
	}
	return fmt.Sprintf("%s for %s", ErrNoIdentifier.Error(), e.Type)
}

func (e *IdentifierError) Unwrap() error {
	return ErrNoIdentifier
}

// newAttributeError creates an AttributeError for a failed lookup.
func newAttributeError(typeName, field string) error {
	return &AttributeError{Type: typeName, Field: field}
}

// newRenderError creates a RenderError wrapping a renderer failure.
func newRenderError(format string, cause error) error {
	return &RenderError{Format: format, Cause: cause}
}
