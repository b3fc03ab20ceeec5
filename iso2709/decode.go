package iso2709

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"shelf/charset"
	"shelf/log"
	"shelf/marc"
)

var logger = log.WithModule("iso2709")

// Decoder turns raw records into marc.Records. It is immutable and safe for
// concurrent use.
type Decoder struct {
	opts DecodeOptions
	norm *charset.Normalizer
}

func NewDecoder(opts DecodeOptions) (*Decoder, error) {
	norm, err := charset.New(opts.Charset)
	if err != nil {
		return nil, errors.Wrap(err, "error configuring character set")
	}
	return &Decoder{
		opts: opts,
		norm: norm,
	}, nil
}

// Decode decodes one record. Callers decoding many records should build a
// Decoder once instead.
func Decode(raw []byte, opts DecodeOptions) (*marc.Record, error) {
	d, err := NewDecoder(opts)
	if err != nil {
		return nil, err
	}
	return d.Decode(raw)
}

type dirEntry struct {
	tag    string
	length int
	offset int
}

func (d *Decoder) Decode(raw []byte) (*marc.Record, error) {
	if len(raw) < marc.LeaderLen {
		return nil, decodeErrorf(0, "record of %d bytes is shorter than the leader", len(raw))
	}
	leader, err := marc.ParseLeader(string(raw[:marc.LeaderLen]))
	if err != nil {
		return nil, &DecodeError{
			Reason: "invalid leader",
			Offset: 0,
			Err:    err,
		}
	}

	base, err := d.baseAddress(leader, raw)
	if err != nil {
		return nil, err
	}
	entries, err := parseDirectory(raw[marc.LeaderLen:base])
	if err != nil {
		return nil, err
	}

	var payloads [][]byte
	if d.opts.Forgiving {
		payloads, err = d.forgivingPayloads(raw, base, entries)
	} else {
		payloads, err = strictPayloads(raw, base, entries)
	}
	if err != nil {
		return nil, err
	}

	norm := d.norm.ForCharacterCoding(leader.CharacterCoding())
	fields := make([]marc.Field, 0, len(entries))
	for i, e := range entries {
		f, err := d.decodeField(e.tag, payloads[i], norm)
		if err != nil {
			return nil, err
		}
		if f != nil {
			fields = append(fields, f)
		}
	}

	rec := marc.NewRecord()
	if err := rec.SetLeader(leader); err != nil {
		return nil, err
	}
	if err := rec.Append(fields...); err != nil {
		return nil, err
	}
	return rec, nil
}

func (d *Decoder) baseAddress(leader marc.Leader, raw []byte) (int, error) {
	base, ok := leader.BaseAddress()
	if !ok && d.opts.Forgiving {
		// a zero-filled base address can still be found from the end of
		// the directory
		if idx := bytes.IndexByte(raw[marc.LeaderLen:], FieldTerminator); idx >= 0 {
			base = marc.LeaderLen + idx + 1
			ok = true
			d.warn(WarnMissingBaseAddress, "", "base address not set, using end of directory at %d", base)
		}
	}
	if !ok || base <= marc.LeaderLen || base > len(raw) {
		return 0, decodeErrorf(12, "missing directory (base address %q)", leader.String()[12:17])
	}
	return base, nil
}

func parseDirectory(dir []byte) ([]dirEntry, error) {
	if n := len(dir); n > 0 && dir[n-1] == FieldTerminator {
		dir = dir[:n-1]
	}
	if len(dir)%directoryEntryLen != 0 {
		return nil, decodeErrorf(marc.LeaderLen, "directory length %d is not a multiple of %d", len(dir), directoryEntryLen)
	}

	entries := make([]dirEntry, len(dir)/directoryEntryLen)
	for i := range entries {
		start := i * directoryEntryLen
		raw := dir[start : start+directoryEntryLen]
		tag := string(raw[:3])
		length, ok := parseDigits(raw[3:7])
		if !ok {
			return nil, &DecodeError{
				Reason: fmt.Sprintf("invalid field length %q", raw[3:7]),
				Offset: marc.LeaderLen + start + 3,
				Tag:    tag,
			}
		}
		offset, ok := parseDigits(raw[7:12])
		if !ok {
			return nil, &DecodeError{
				Reason: fmt.Sprintf("invalid field offset %q", raw[7:12]),
				Offset: marc.LeaderLen + start + 7,
				Tag:    tag,
			}
		}
		entries[i] = dirEntry{
			tag:    tag,
			length: length,
			offset: offset,
		}
	}
	return entries, nil
}

func strictPayloads(raw []byte, base int, entries []dirEntry) ([][]byte, error) {
	payloads := make([][]byte, len(entries))
	for i, e := range entries {
		start := base + e.offset
		if start > len(raw) {
			return nil, &DecodeError{
				Reason: fmt.Sprintf("field data starts past the end of the %d byte record", len(raw)),
				Offset: start,
				Tag:    e.tag,
			}
		}
		end := start + e.length
		if end > len(raw) {
			end = len(raw)
		}
		payloads[i] = trimPayload(raw[start:end])
	}
	return payloads, nil
}

func (d *Decoder) forgivingPayloads(raw []byte, base int, entries []dirEntry) ([][]byte, error) {
	data := raw[base:]
	if n := len(data); n > 0 && data[n-1] == RecordTerminator {
		data = data[:n-1]
	}
	chunks := bytes.Split(data, []byte{FieldTerminator})
	if n := len(chunks); n > 0 && len(chunks[n-1]) == 0 {
		chunks = chunks[:n-1]
	}
	if len(chunks) < len(entries) {
		return nil, decodeErrorf(base, "directory lists %d fields but field data holds %d", len(entries), len(chunks))
	}
	if len(chunks) > len(entries) {
		d.warn(WarnExtraFieldData, "", "field data holds %d fields, directory lists %d", len(chunks), len(entries))
	}

	payloads := make([][]byte, len(entries))
	for i, e := range entries {
		payload := trimPayload(chunks[i])
		if e.length != 0 && e.length != len(chunks[i])+1 {
			d.warn(WarnLengthMismatch, e.tag, "directory length %d, field data length %d", e.length, len(chunks[i])+1)
		}
		payloads[i] = payload
	}
	return payloads, nil
}

// trimPayload cuts a field at its first field terminator and drops a
// trailing record terminator.
func trimPayload(b []byte) []byte {
	if i := bytes.IndexByte(b, FieldTerminator); i >= 0 {
		b = b[:i]
	}
	if n := len(b); n > 0 && b[n-1] == RecordTerminator {
		b = b[:n-1]
	}
	return b
}

func (d *Decoder) decodeField(tag string, payload []byte, norm *charset.Normalizer) (marc.Field, error) {
	tags := d.opts.ControlTags
	if tags.IsControl(tag) {
		value, err := normalize(norm, tag, payload)
		if err != nil {
			return nil, err
		}
		f, err := tags.NewControlField(tag, value)
		if err != nil {
			return nil, fieldError(tag, err)
		}
		return f, nil
	}

	chunks := bytes.Split(payload, []byte{SubfieldDelimiter})
	if len(chunks) < 2 {
		d.warn(WarnSkippedField, tag, "data field without subfields skipped")
		return nil, nil
	}

	ind, err := normalize(norm, tag, chunks[0])
	if err != nil {
		return nil, err
	}
	if len(ind) != len(chunks[0]) {
		return nil, &DecodeError{
			Reason: fmt.Sprintf("indicators %q do not map to single bytes", ind),
			Offset: -1,
			Tag:    tag,
		}
	}
	if len(ind) != 2 {
		d.warn(WarnIndicators, tag, "expected 2 indicator bytes, got %d", len(ind))
	}
	ind1, ind2 := byte(' '), byte(' ')
	if len(ind) > 0 {
		ind1 = ind[0]
	}
	if len(ind) > 1 {
		ind2 = ind[1]
	}

	subfields := make([]interface{}, 0, len(chunks)-1)
	for _, chunk := range chunks[1:] {
		if len(chunk) == 0 {
			d.warn(WarnEmptySubfield, tag, "empty subfield skipped")
			continue
		}
		code, err := normalize(norm, tag, chunk[:1])
		if err != nil {
			return nil, err
		}
		if len(code) != 1 {
			return nil, &DecodeError{
				Reason: fmt.Sprintf("subfield code %q is not a single byte", code),
				Offset: -1,
				Tag:    tag,
			}
		}
		value, err := normalize(norm, tag, chunk[1:])
		if err != nil {
			return nil, err
		}
		subfields = append(subfields, marc.Subfield{
			Code:  code[0],
			Value: value,
		})
	}
	if len(subfields) == 0 {
		d.warn(WarnSkippedField, tag, "data field without subfields skipped")
		return nil, nil
	}

	f, err := tags.NewDataField(tag, ind1, ind2, subfields...)
	if err != nil {
		return nil, fieldError(tag, err)
	}
	return f, nil
}

func normalize(norm *charset.Normalizer, tag string, b []byte) (string, error) {
	s, err := norm.Normalize(b)
	if err != nil {
		return "", &DecodeError{
			Reason: "invalid field text",
			Offset: -1,
			Tag:    tag,
			Err:    err,
		}
	}
	return s, nil
}

func fieldError(tag string, err error) error {
	return &DecodeError{
		Reason: "invalid field",
		Offset: -1,
		Tag:    tag,
		Err:    err,
	}
}

func (d *Decoder) warn(kind WarningKind, tag string, format string, args ...interface{}) {
	w := Warning{
		Kind:    kind,
		Tag:     tag,
		Message: fmt.Sprintf(format, args...),
	}
	logger.Warn(w.Message, "kind", kind.String(), "tag", tag)
	if d.opts.OnWarning != nil {
		d.opts.OnWarning(w)
	}
}

func parseDigits(b []byte) (int, bool) {
	if len(b) == 0 {
		return 0, false
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
