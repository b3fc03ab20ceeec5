package iso2709

import (
	"shelf/charset"
	"shelf/marc"
)

const (
	FieldTerminator    byte = 0x1E
	SubfieldDelimiter  byte = 0x1F
	RecordTerminator   byte = 0x1D
	directoryEntryLen       = 12
	recordLengthDigits      = 5
	maxRecordLength         = 99999
	maxFieldLength          = 9999
	maxFieldOffset          = 99999
)

type DecodeOptions struct {
	Charset charset.Options

	// Forgiving splits field data on the field terminator instead of
	// trusting directory offsets, and frames streams on the record
	// terminator instead of the length prefix.
	Forgiving bool

	// ControlTags classifies directory tags. The zero value treats 000-009
	// as control tags.
	ControlTags marc.ControlTags

	// OnWarning receives the diagnostics for input that was accepted
	// leniently. Warnings are logged either way.
	OnWarning func(Warning)
}

type EncodeOptions struct {
	// DisallowOversized makes Encode fail with *OversizedError instead of
	// zero-filling slots that overflow.
	DisallowOversized bool
}

type WarningKind int

const (
	WarnSkippedField WarningKind = iota + 1
	WarnEmptySubfield
	WarnIndicators
	WarnExtraFieldData
	WarnLengthMismatch
	WarnMissingBaseAddress
)

func (k WarningKind) String() string {
	switch k {
	case WarnSkippedField:
		return "skipped_field"
	case WarnEmptySubfield:
		return "empty_subfield"
	case WarnIndicators:
		return "indicators"
	case WarnExtraFieldData:
		return "extra_field_data"
	case WarnLengthMismatch:
		return "length_mismatch"
	case WarnMissingBaseAddress:
		return "missing_base_address"
	default:
		return "unknown"
	}
}

type Warning struct {
	Kind    WarningKind
	Tag     string
	Message string
}

func (w Warning) String() string {
	if w.Tag == "" {
		return w.Kind.String() + ": " + w.Message
	}
	return w.Kind.String() + ": " + w.Tag + ": " + w.Message
}
