package marc8

import (
	"fmt"
)

// TranscodeError reports a code point with no mapping in its code set, or a
// multibyte character cut short by the end of input.
type TranscodeError struct {
	Offset    int
	CodeSet   byte
	CodePoint uint32
	Context   string
	Truncated bool
	// NoTable is set when the code set has no mappings loaded at all, as
	// with EACC until LoadCodeTables installs it.
	NoTable bool
}

func (e *TranscodeError) Error() string {
	if e.Truncated {
		return fmt.Sprintf(
			"marc8: truncated character in code set 0x%02X at byte offset %d, after %q",
			e.CodeSet,
			e.Offset,
			e.Context,
		)
	}
	if e.NoTable {
		return fmt.Sprintf(
			"marc8: no table loaded for code set 0x%02X (code point 0x%X at byte offset %d); install one with LoadCodeTables",
			e.CodeSet,
			e.CodePoint,
			e.Offset,
		)
	}
	return fmt.Sprintf(
		"marc8: unmapped code point 0x%X in code set 0x%02X at byte offset %d, after %q",
		e.CodePoint,
		e.CodeSet,
		e.Offset,
		e.Context,
	)
}
