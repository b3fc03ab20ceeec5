package marc

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewDataField_TagPadding(t *testing.T) {
	df, err := NewDataField("45", 0, 0, [2]string{"a", "x"})
	require.NoError(t, err)
	require.Equal(t, "045", df.Tag())
	require.Equal(t, byte(' '), df.Indicator1)
	require.Equal(t, byte(' '), df.Indicator2)

	_, err = NewDataField("1", ' ', ' ')
	var shapeErr *FieldShapeError
	require.True(t, errors.As(err, &shapeErr))
	require.Equal(t, "001", shapeErr.Tag)

	cf, err := NewControlField("1", "abc")
	require.NoError(t, err)
	require.Equal(t, "001", cf.Tag())

	df, err = NewDataField("abc", '1', '2', [2]string{"a", "x"})
	require.NoError(t, err)
	require.Equal(t, "abc", df.Tag())
}

func TestNewDataField_SubfieldShapes(t *testing.T) {
	sf := Subfield{Code: 'c', Value: "third"}
	df, err := NewDataField("245", '1', '0',
		Subfield{Code: 'a', Value: "first"},
		[2]string{"b", "second"},
		&sf,
		[]string{"d", "fourth"},
	)
	require.NoError(t, err)
	require.Equal(t, []Subfield{
		{'a', "first"},
		{'b', "second"},
		{'c', "third"},
		{'d', "fourth"},
	}, df.Subfields)
	require.Equal(t, []byte("abcd"), df.Codes())
}

func TestNewDataField_InvalidShapes(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		sub  interface{}
	}{
		{"too many shorthand elements", "245", []string{"a", "b", "c"}},
		{"too few shorthand elements", "245", []string{"a"}},
		{"multi-byte code", "245", [2]string{"ab", "value"}},
		{"unknown shape", "245", 42},
		{"nil pointer", "245", (*Subfield)(nil)},
		{"empty tag", "", Subfield{Code: 'a'}},
		{"long tag", "2450", Subfield{Code: 'a'}},
		{"short alphabetic tag", "AB", Subfield{Code: 'a'}},
		{"short mixed tag", "4A", Subfield{Code: 'a'}},
		{"no subfields", "245", nil},
		{"control tag", "008", Subfield{Code: 'a'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var subs []interface{}
			if tt.sub != nil {
				subs = append(subs, tt.sub)
			}
			df, err := NewDataField(tt.tag, ' ', ' ', subs...)
			require.Nil(t, df)
			var shapeErr *FieldShapeError
			require.True(t, errors.As(err, &shapeErr))
		})
	}
}

func TestControlTags(t *testing.T) {
	require.True(t, DefaultControlTags.IsControl("001"))
	require.True(t, DefaultControlTags.IsControl("009"))
	require.True(t, DefaultControlTags.IsControl("5"))
	require.False(t, DefaultControlTags.IsControl("010"))
	require.False(t, DefaultControlTags.IsControl("FMT"))

	ct := NewControlTags("FMT")
	require.True(t, ct.IsControl("FMT"))
	require.Equal(t, []string{"FMT"}, ct.Extra())

	_, err := NewControlField("FMT", "BK")
	require.Error(t, err)
	cf, err := ct.NewControlField("FMT", "BK")
	require.NoError(t, err)
	require.Equal(t, "FMT", cf.Tag())

	_, err = ct.NewDataField("FMT", ' ', ' ', [2]string{"a", "x"})
	require.Error(t, err)
}

func TestControlTags_ClassificationFixedAtConstruction(t *testing.T) {
	vendor := NewControlTags("FMT")
	cf, err := vendor.NewControlField("FMT", "BK")
	require.NoError(t, err)

	rec := NewRecord()
	require.NoError(t, rec.Append(cf))
	require.Equal(t, KindControl, rec.Get("FMT").Kind())
}

func TestDataField_Get(t *testing.T) {
	df, err := NewDataField("650", ' ', '0',
		[2]string{"a", "first"},
		[2]string{"x", "sub"},
		[2]string{"a", "second"},
	)
	require.NoError(t, err)

	v, ok := df.Get('a')
	require.True(t, ok)
	require.Equal(t, "first", v)
	require.Equal(t, []string{"first", "second"}, df.Values('a'))

	_, ok = df.Get('z')
	require.False(t, ok)
	require.Nil(t, df.Values('z'))

	df.Append(Subfield{Code: 'z', Value: "geo"})
	v, ok = df.Get('z')
	require.True(t, ok)
	require.Equal(t, "geo", v)
}

func TestField_Equals(t *testing.T) {
	a, err := NewDataField("245", '0', '0', [2]string{"a", "x"}, [2]string{"b", "y"})
	require.NoError(t, err)
	b, err := NewDataField("245", '0', '0', [2]string{"a", "x"}, [2]string{"b", "y"})
	require.NoError(t, err)
	swapped, err := NewDataField("245", '0', '0', [2]string{"b", "y"}, [2]string{"a", "x"})
	require.NoError(t, err)
	otherInd, err := NewDataField("245", '1', '0', [2]string{"a", "x"}, [2]string{"b", "y"})
	require.NoError(t, err)
	cf, err := NewControlField("001", "x")
	require.NoError(t, err)

	require.True(t, a.Equals(b))
	require.False(t, a.Equals(swapped))
	require.False(t, a.Equals(otherInd))
	require.False(t, a.Equals(cf))
	require.False(t, cf.Equals(a))
}

func TestField_String(t *testing.T) {
	df, err := NewDataField("245", '1', '0', [2]string{"a", "Title :"}, [2]string{"b", "sub"})
	require.NoError(t, err)
	require.Equal(t, "245 10 $aTitle :$bsub", df.String())

	cf, err := NewControlField("001", "abc123")
	require.NoError(t, err)
	require.Equal(t, "001 abc123", cf.String())
}
