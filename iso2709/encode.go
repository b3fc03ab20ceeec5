package iso2709

import (
	"bytes"
	"strconv"

	"github.com/pkg/errors"
	"shelf/marc"
)

// Encode serializes rec. The leader carrying the computed record length and
// base address is returned and, unless rec is frozen, also stored on rec.
// On error rec is left untouched.
func Encode(rec *marc.Record, opts EncodeOptions) ([]byte, marc.Leader, error) {
	fields := rec.Fields()

	var dir bytes.Buffer
	var data bytes.Buffer
	dir.Grow(len(fields)*directoryEntryLen + 1)

	for _, f := range fields {
		tag := f.Tag()
		if len(tag) != 3 {
			return nil, marc.Leader{}, errors.Errorf("field tag %q is not 3 bytes", tag)
		}

		offset := data.Len()
		writePayload(&data, f)
		data.WriteByte(FieldTerminator)
		length := data.Len() - offset

		dir.WriteString(tag)
		if err := writeSlot(&dir, "field length", tag, length, 4, maxFieldLength, opts); err != nil {
			return nil, marc.Leader{}, err
		}
		if err := writeSlot(&dir, "field offset", tag, offset, 5, maxFieldOffset, opts); err != nil {
			return nil, marc.Leader{}, err
		}
	}
	dir.WriteByte(FieldTerminator)

	base := marc.LeaderLen + dir.Len()
	total := base + data.Len() + 1

	var slots bytes.Buffer
	if err := writeSlot(&slots, "record length", "", total, recordLengthDigits, maxRecordLength, opts); err != nil {
		return nil, marc.Leader{}, err
	}
	if err := writeSlot(&slots, "base address", "", base, 5, maxRecordLength, opts); err != nil {
		return nil, marc.Leader{}, err
	}
	leader := rec.Leader().WithLengths(slots.Bytes()[:5], slots.Bytes()[5:])

	out := make([]byte, 0, total)
	out = append(out, leader[:]...)
	out = append(out, dir.Bytes()...)
	out = append(out, data.Bytes()...)
	out = append(out, RecordTerminator)

	if !rec.Frozen() {
		if err := rec.SetLeader(leader); err != nil {
			return nil, marc.Leader{}, err
		}
	}
	return out, leader, nil
}

func writePayload(buf *bytes.Buffer, f marc.Field) {
	switch field := f.(type) {
	case *marc.ControlField:
		buf.WriteString(field.Value)
	case *marc.DataField:
		buf.WriteByte(field.Indicator1)
		buf.WriteByte(field.Indicator2)
		for _, sf := range field.Subfields {
			buf.WriteByte(SubfieldDelimiter)
			buf.WriteByte(sf.Code)
			buf.WriteString(sf.Value)
		}
	default:
		panic("unknown field type")
	}
}

// writeSlot writes n as a zero-padded decimal of the given width. Values
// above max are written as zeros unless oversized records are disallowed.
func writeSlot(buf *bytes.Buffer, slot, tag string, n, width, max int, opts EncodeOptions) error {
	if n > max {
		if opts.DisallowOversized {
			return &OversizedError{
				Slot:  slot,
				Tag:   tag,
				Value: n,
				Max:   max,
			}
		}
		logger.Debug("zero-filling oversized slot", "slot", slot, "tag", tag, "value", n)
		n = 0
	}
	s := strconv.Itoa(n)
	for i := len(s); i < width; i++ {
		buf.WriteByte('0')
	}
	buf.WriteString(s)
	return nil
}
