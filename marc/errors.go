package marc

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrFrozen       = errors.New("record is frozen")
	ErrFieldMissing = errors.New("field not found in record")
)

// FieldShapeError is returned when a field or subfield cannot be constructed
// from the given arguments. No field is ever attached in that case.
type FieldShapeError struct {
	Tag    string
	Reason string
}

func (e *FieldShapeError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("invalid field shape: %s", e.Reason)
	}
	return fmt.Sprintf("invalid field shape for tag %q: %s", e.Tag, e.Reason)
}

func shapeErrorf(tag string, format string, args ...interface{}) error {
	return &FieldShapeError{
		Tag:    tag,
		Reason: fmt.Sprintf(format, args...),
	}
}
