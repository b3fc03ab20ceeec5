/*
Package marc8 decodes text in the MARC-8 character encoding to UTF-8.

MARC-8 switches between character sets with ISO 2022 style escape
sequences. Two working registers are tracked: G0 for bytes 0x21-0x7E,
initially Basic Latin, and G1 for bytes 0xA1-0xFE, initially Extended
Latin (ANSEL). Combining diacritics precede their base character in
MARC-8 and are moved after it on output.

	s, err := marc8.Decode(raw, marc8.Options{})

Decoding never panics on malformed input. Unmapped code points produce a
*TranscodeError unless Options.Replace is set, in which case each run of
unmapped bytes becomes a single replacement string.

East Asian (EACC) ideographs are not bundled. Load them from the Library
of Congress code tables and merge them into a copy of the default table:

	eacc, err := marc8.LoadCodeTables(f)
	table := marc8.DefaultTable().Clone()
	table.Merge(eacc)
	dec := marc8.NewDecoder(marc8.Options{Table: table})
*/
package marc8
