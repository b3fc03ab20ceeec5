package iso2709

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrNotSeekable = errors.New("source does not support seeking")

// DecodeError reports a structurally malformed record or a broken stream
// frame. No partial record accompanies it.
type DecodeError struct {
	Reason string
	// Offset is the byte offset within the record, or -1.
	Offset int
	Tag    string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := "iso2709: " + e.Reason
	if e.Tag != "" {
		msg += fmt.Sprintf(" (tag %s)", e.Tag)
	}
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErrorf(offset int, format string, args ...interface{}) error {
	return &DecodeError{
		Reason: fmt.Sprintf(format, args...),
		Offset: offset,
	}
}

// OversizedError reports a value that does not fit its fixed width slot.
type OversizedError struct {
	Slot  string
	Tag   string
	Value int
	Max   int
}

func (e *OversizedError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("iso2709: %s %d of field %s exceeds %d", e.Slot, e.Value, e.Tag, e.Max)
	}
	return fmt.Sprintf("iso2709: %s %d exceeds %d", e.Slot, e.Value, e.Max)
}
