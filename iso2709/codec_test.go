package iso2709

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"shelf/charset"
	"shelf/marc"
	"shelf/marc8"
)

const (
	ft = "\x1e"
	sd = "\x1f"
	rt = "\x1d"
)

// rawRecord assembles a record from a directory (without its terminator)
// and field data, filling in correct leader slots.
func rawRecord(dir, data string) []byte {
	base := marc.LeaderLen + len(dir) + 1
	total := base + len(data) + 1
	leader := fmt.Sprintf("%05d     22%05d   4500", total, base)
	return []byte(leader + dir + ft + data + rt)
}

func fixtureRecord(t *testing.T) *marc.Record {
	rec := marc.NewRecord()
	id, err := marc.NewControlField("001", "abc123")
	require.NoError(t, err)
	title, err := marc.NewDataField("245", '0', '0', [2]string{"a", "Title :"}, [2]string{"b", "subtitle"})
	require.NoError(t, err)
	require.NoError(t, rec.Append(id, title))
	return rec
}

func TestEncode_Layout(t *testing.T) {
	rec := fixtureRecord(t)
	out, leader, err := Encode(rec, EncodeOptions{})
	require.NoError(t, err)

	expected := "00079     2200049   4500" +
		"001000700000" + "245002200007" + ft +
		"abc123" + ft +
		"00" + sd + "aTitle :" + sd + "bsubtitle" + ft +
		rt
	require.Equal(t, expected, string(out))
	require.Equal(t, "00079     2200049   4500", leader.String())
	require.Equal(t, leader, rec.Leader())
}

func TestEncode_DecodeIsByteStable(t *testing.T) {
	first, _, err := Encode(fixtureRecord(t), EncodeOptions{})
	require.NoError(t, err)

	decoded, err := Decode(first, DecodeOptions{})
	require.NoError(t, err)
	require.Equal(t, "abc123", decoded.Get("001").(*marc.ControlField).Value)

	second, _, err := Encode(decoded, EncodeOptions{})
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestDecode_TitleField(t *testing.T) {
	raw := rawRecord("245001200000", " 0"+sd+"aTitle"+ft)

	rec, err := Decode(raw, DecodeOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, rec.Len())

	f := rec.Get("245").(*marc.DataField)
	require.Equal(t, byte(' '), f.Indicator1)
	require.Equal(t, byte('0'), f.Indicator2)
	require.Equal(t, []marc.Subfield{{Code: 'a', Value: "Title"}}, f.Subfields)
}

func TestRoundTrip(t *testing.T) {
	tags := marc.NewControlTags("FMT")
	rec := marc.NewRecord()
	fmtField, err := tags.NewControlField("FMT", "BK")
	require.NoError(t, err)
	id, err := tags.NewControlField("001", "ocm12345")
	require.NoError(t, err)
	author, err := tags.NewDataField("100", '1', ' ', [2]string{"a", "Dvořák, Antonín,"}, [2]string{"d", "1841-1904."})
	require.NoError(t, err)
	subject, err := tags.NewDataField("650", ' ', '0', [2]string{"a", "Symphonies"}, [2]string{"v", "Scores."})
	require.NoError(t, err)
	empty, err := tags.NewControlField("005", "")
	require.NoError(t, err)
	require.NoError(t, rec.Append(fmtField, id, empty, author, subject))

	out, _, err := Encode(rec, EncodeOptions{})
	require.NoError(t, err)

	decoded, err := Decode(out, DecodeOptions{ControlTags: tags})
	require.NoError(t, err)
	require.True(t, rec.Equals(decoded), "expected:\n%s\ngot:\n%s", rec, decoded)
	require.Equal(t, marc.KindControl, decoded.Get("FMT").Kind())
}

func TestDecode_StructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"short leader", []byte("00010")},
		{"zero base address", []byte("00030     2200000   4500001" + ft + rt)},
		{"base past end", []byte("00030     2200090   4500001" + ft + rt)},
		{"base inside leader", []byte("00030     2200020   4500001" + ft + rt)},
		{"directory not multiple of 12", rawRecord("00100070000", "abc123"+ft)},
		{"non-digit length", rawRecord("0010x0700000", "abc123"+ft)},
		{"non-digit offset", rawRecord("00100070000x", "abc123"+ft)},
		{"offset past end", rawRecord("001000790000", "abc123"+ft)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Decode(tt.raw, DecodeOptions{})
			require.Nil(t, rec)
			var derr *DecodeError
			require.True(t, errors.As(err, &derr), "got %v", err)
		})
	}
}

func TestDecode_EmptyDirectory(t *testing.T) {
	rec, err := Decode(rawRecord("", ""), DecodeOptions{})
	require.NoError(t, err)
	require.Equal(t, 0, rec.Len())
}

func TestDecode_LenientFields(t *testing.T) {
	raw := rawRecord(
		"245000500000"+"500001000005"+"650000900015",
		"10ab"+ft+
			"  "+sd+sd+"anote"+ft+
			"0"+sd+"aTopic"+ft,
	)

	var warnings []Warning
	rec, err := Decode(raw, DecodeOptions{
		OnWarning: func(w Warning) {
			warnings = append(warnings, w)
		},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"500", "650"}, rec.Tags())

	note := rec.Get("500").(*marc.DataField)
	require.Equal(t, []marc.Subfield{{Code: 'a', Value: "note"}}, note.Subfields)
	topic := rec.Get("650").(*marc.DataField)
	require.Equal(t, byte('0'), topic.Indicator1)
	require.Equal(t, byte(' '), topic.Indicator2)

	kinds := make([]WarningKind, len(warnings))
	for i, w := range warnings {
		kinds[i] = w.Kind
	}
	require.Equal(t, []WarningKind{WarnSkippedField, WarnEmptySubfield, WarnIndicators}, kinds)
	require.Equal(t, "245", warnings[0].Tag)
}

func TestDecode_Forgiving(t *testing.T) {
	// offsets and lengths are garbage but the terminators are intact
	raw := rawRecord(
		"001999999999"+"245000000000",
		"abc123"+ft+"00"+sd+"aTitle"+ft,
	)

	_, err := Decode(raw, DecodeOptions{})
	require.Error(t, err)

	var warnings []Warning
	rec, err := Decode(raw, DecodeOptions{
		Forgiving: true,
		OnWarning: func(w Warning) {
			warnings = append(warnings, w)
		},
	})
	require.NoError(t, err)
	require.Equal(t, "abc123", rec.Get("001").(*marc.ControlField).Value)
	v, ok := rec.Get("245").(*marc.DataField).Get('a')
	require.True(t, ok)
	require.Equal(t, "Title", v)
	require.Len(t, warnings, 1)
	require.Equal(t, WarnLengthMismatch, warnings[0].Kind)
}

func TestDecode_ForgivingChunkCount(t *testing.T) {
	raw := rawRecord("001000700000"+"245000000007", "abc123"+ft)
	_, err := Decode(raw, DecodeOptions{Forgiving: true})
	var derr *DecodeError
	require.True(t, errors.As(err, &derr))

	raw = rawRecord("001000700000", "abc123"+ft+"extra"+ft)
	var warnings []Warning
	rec, err := Decode(raw, DecodeOptions{
		Forgiving: true,
		OnWarning: func(w Warning) {
			warnings = append(warnings, w)
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, rec.Len())
	require.Len(t, warnings, 1)
	require.Equal(t, WarnExtraFieldData, warnings[0].Kind)
}

func TestDecode_ForgivingMissingBaseAddress(t *testing.T) {
	raw := rawRecord("001000700000", "abc123"+ft)
	copy(raw[12:17], "00000")

	_, err := Decode(raw, DecodeOptions{})
	require.Error(t, err)

	rec, err := Decode(raw, DecodeOptions{Forgiving: true})
	require.NoError(t, err)
	require.Equal(t, "abc123", rec.Get("001").(*marc.ControlField).Value)
}

func oversizedRecord(t *testing.T) *marc.Record {
	rec := marc.NewRecord()
	id, err := marc.NewControlField("001", "big")
	require.NoError(t, err)
	require.NoError(t, rec.Append(id))
	long, err := marc.NewDataField("505", '0', ' ', [2]string{"a", strings.Repeat("y", 12000)})
	require.NoError(t, err)
	require.NoError(t, rec.Append(long))
	for i := 0; i < 14; i++ {
		note, err := marc.NewDataField("500", ' ', ' ', [2]string{"a", fmt.Sprintf("%02d", i) + strings.Repeat("x", 7000)})
		require.NoError(t, err)
		require.NoError(t, rec.Append(note))
	}
	return rec
}

func TestEncode_OversizedZeroFilled(t *testing.T) {
	rec := oversizedRecord(t)
	out, leader, err := Encode(rec, EncodeOptions{})
	require.NoError(t, err)
	require.Greater(t, len(out), maxRecordLength)
	require.Equal(t, "00000", string(out[:5]))
	_, ok := leader.RecordLength()
	require.False(t, ok)

	// the 505 entry overflows its length slot
	require.Equal(t, "505000000004", string(out[36:48]))

	decoded, err := Decode(out, DecodeOptions{Forgiving: true})
	require.NoError(t, err)
	require.True(t, marc.FieldsEqual(rec.Fields(), decoded.Fields()))
}

func TestEncode_OversizedDisallowed(t *testing.T) {
	rec := oversizedRecord(t)
	before := rec.Leader()

	out, _, err := Encode(rec, EncodeOptions{DisallowOversized: true})
	require.Nil(t, out)
	var oerr *OversizedError
	require.True(t, errors.As(err, &oerr))
	require.Equal(t, "505", oerr.Tag)
	require.Equal(t, before, rec.Leader())
}

func TestEncode_FrozenRecord(t *testing.T) {
	rec := fixtureRecord(t).Freeze()
	before := rec.Leader()
	out, leader, err := Encode(rec, EncodeOptions{})
	require.NoError(t, err)
	require.Equal(t, "00079", string(out[:5]))
	require.Equal(t, "00079", leader.String()[:5])
	require.Equal(t, before, rec.Leader())
}

func TestDecode_MARC8(t *testing.T) {
	raw := rawRecord("245001000000", "00"+sd+"acaf\xe2e"+ft)

	rec, err := Decode(raw, DecodeOptions{Charset: charset.Options{External: charset.MARC8}})
	require.NoError(t, err)
	v, _ := rec.Get("245").(*marc.DataField).Get('a')
	require.Equal(t, "caf\u00e9", v)

	rec, err = Decode(raw, DecodeOptions{Charset: charset.Options{
		External: charset.MARC8,
		MARC8:    marc8.Options{Form: marc8.NFD},
	}})
	require.NoError(t, err)
	v, _ = rec.Get("245").(*marc.DataField).Get('a')
	require.Equal(t, "cafe\u0301", v)
}

func TestDecode_MARC8Unmapped(t *testing.T) {
	raw := rawRecord("245000800000", "00"+sd+"ab\xafc"+ft)

	_, err := Decode(raw, DecodeOptions{Charset: charset.Options{External: charset.MARC8}})
	var derr *DecodeError
	require.True(t, errors.As(err, &derr))
	require.Equal(t, "245", derr.Tag)
	var terr *marc8.TranscodeError
	require.True(t, errors.As(err, &terr))
	require.Equal(t, 1, terr.Offset)

	rec, err := Decode(raw, DecodeOptions{Charset: charset.Options{
		External: charset.MARC8,
		Invalid:  charset.Replace,
	}})
	require.NoError(t, err)
	v, _ := rec.Get("245").(*marc.DataField).Get('a')
	require.Equal(t, "b�c", v)
}

func TestDecode_UnicodeLeaderFlag(t *testing.T) {
	raw := rawRecord("001000500000", "ab\xff"+"c"+ft)
	opts := DecodeOptions{Charset: charset.Options{Validate: true}}

	// no external encoding and no flag: bytes pass through
	_, err := Decode(raw, opts)
	require.NoError(t, err)

	raw[9] = 'a'
	_, err = Decode(raw, opts)
	var verr *charset.ValidationError
	require.True(t, errors.As(err, &verr))
}

func TestNewDecoder_BadCharset(t *testing.T) {
	_, err := NewDecoder(DecodeOptions{Charset: charset.Options{External: "klingon"}})
	require.Error(t, err)
}

func TestDecode_IndicatorsAndCodesNormalized(t *testing.T) {
	badInd := rawRecord("245001000000", "\xff0"+sd+"aTitle"+ft)
	badCode := rawRecord("245001000000", "00"+sd+"\xffTitle"+ft)
	validate := DecodeOptions{Charset: charset.Options{External: charset.UTF8, Validate: true}}

	for _, raw := range [][]byte{badInd, badCode} {
		_, err := Decode(raw, validate)
		var verr *charset.ValidationError
		require.True(t, errors.As(err, &verr))
		var derr *DecodeError
		require.True(t, errors.As(err, &derr))
		require.Equal(t, "245", derr.Tag)
	}

	// untouched bytes still pass through
	rec, err := Decode(badInd, DecodeOptions{})
	require.NoError(t, err)
	require.Equal(t, byte(0xff), rec.Get("245").(*marc.DataField).Indicator1)

	// a replacement cannot stand in for a single-byte indicator or code
	replace := DecodeOptions{Charset: charset.Options{
		External: charset.UTF8,
		Internal: charset.UTF8,
		Invalid:  charset.Replace,
	}}
	for _, raw := range [][]byte{badInd, badCode} {
		_, err := Decode(raw, replace)
		var derr *DecodeError
		require.True(t, errors.As(err, &derr))
		var verr *charset.ValidationError
		require.False(t, errors.As(err, &verr))
	}
}

func TestDecode_DataFieldWithOnlyEmptySubfields(t *testing.T) {
	raw := rawRecord("001000400000"+"245000400004", "abc"+ft+"00"+sd+ft)

	var kinds []WarningKind
	rec, err := Decode(raw, DecodeOptions{
		OnWarning: func(w Warning) {
			kinds = append(kinds, w.Kind)
		},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"001"}, rec.Tags())
	require.Equal(t, []WarningKind{WarnEmptySubfield, WarnSkippedField}, kinds)
}
