/*
Package iso2709 implements the MARC21 binary transmission format as defined
in ISO 2709 and the MARC 21 Specifications for Record Structure.

Record layout:

  - Bytes 0-4: record length, zero-padded 5 digit decimal.
  - Bytes 12-16: base address of the field data, zero-padded 5 digit
    decimal. All other leader bytes are opaque.
  - Bytes 24 up to the base address: the directory, a run of 12 byte
    entries (3 byte tag, 4 digit field length, 5 digit offset relative
    to the base address) closed by a field terminator.
  - Field data: each field closed by a field terminator (0x1E). Control
    fields hold their raw value. Data fields hold two indicator bytes
    followed by subfields, each a subfield delimiter (0x1F), a one byte
    code and the value.
  - A record terminator (0x1D) closes the record.

To decode a single record:

	rec, err := iso2709.Decode(raw, iso2709.DecodeOptions{})

To read records from a stream, pull them with a Reader until io.EOF:

	r, err := iso2709.NewReader(f, iso2709.DecodeOptions{})
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		...
	}

Per-record failures are returned as *DecodeError and do not stop the
Reader. Framing failures in strict mode are sticky, since the stream cannot
be resynchronised once a length prefix is wrong.

Forgiving mode ignores directory offsets and lengths and splits field data
on the field terminator instead. It is the only way to read records whose
oversized slots were zero-filled by Encode.
*/
package iso2709
