/*
Package marc holds the in-memory bibliographic record model shared by the
binary codec and every downstream projection.

A Record carries a 24 byte Leader and an ordered list of fields. Fields are
either control fields (tag and value) or data fields (tag, two indicators and
an ordered list of subfields). Which tags denote control fields is decided by
a ControlTags policy; DefaultControlTags covers 000-009:

	ct := marc.NewControlTags("FMT")
	f, err := ct.NewControlField("FMT", "BK")

Data fields accept subfields in several shapes:

	title, err := marc.NewDataField("245", '1', '0',
		marc.Subfield{Code: 'a', Value: "Title :"},
		[2]string{"b", "subtitle"},
	)

Tag lookups go through an index that is rebuilt lazily after structural
changes. Freeze forces the rebuild and makes the record read-only, after
which it may be read from several goroutines at once.
*/
package marc
