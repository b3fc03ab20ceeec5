package marc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustControl(t *testing.T, tag, value string) *ControlField {
	f, err := NewControlField(tag, value)
	require.NoError(t, err)
	return f
}

func mustData(t *testing.T, tag string, subfields ...interface{}) *DataField {
	f, err := NewDataField(tag, ' ', ' ', subfields...)
	require.NoError(t, err)
	return f
}

func fixtureRecord(t *testing.T) *Record {
	rec := NewRecord()
	require.NoError(t, rec.Append(
		mustControl(t, "001", "abc123"),
		mustData(t, "650", [2]string{"a", "first subject"}),
		mustData(t, "245", [2]string{"a", "Title"}),
		mustData(t, "650", [2]string{"a", "second subject"}),
		mustData(t, "100", [2]string{"a", "Author"}),
		mustData(t, "651", [2]string{"a", "Place"}),
	))
	return rec
}

func TestNewRecord_DefaultLeader(t *testing.T) {
	rec := NewRecord()
	require.Equal(t, "          22        4500", rec.Leader().String())
	require.Len(t, rec.Leader().String(), LeaderLen)
	require.Equal(t, 0, rec.Len())
}

func TestRecord_FieldsByTag(t *testing.T) {
	rec := fixtureRecord(t)

	subjects := rec.FieldsByTag("650")
	require.Len(t, subjects, 2)
	v, _ := subjects[0].(*DataField).Get('a')
	require.Equal(t, "first subject", v)
	v, _ = subjects[1].(*DataField).Get('a')
	require.Equal(t, "second subject", v)

	// document order, not tag order
	mixed := rec.FieldsByTag("651", "245", "650")
	tags := make([]string, len(mixed))
	for i, f := range mixed {
		tags[i] = f.Tag()
	}
	require.Equal(t, []string{"650", "245", "650", "651"}, tags)

	require.Len(t, rec.FieldsByTag("650", "650"), 2)
	require.Nil(t, rec.FieldsByTag("999"))
	require.Len(t, rec.FieldsByTag("1"), 1)
}

func TestRecord_FieldsInRange(t *testing.T) {
	rec := fixtureRecord(t)
	fields := rec.FieldsInRange("600", "699")
	tags := make([]string, len(fields))
	for i, f := range fields {
		tags[i] = f.Tag()
	}
	require.Equal(t, []string{"650", "650", "651"}, tags)

	fields = rec.FieldsInRange("100", "245")
	require.Len(t, fields, 2)
	require.Equal(t, "245", fields[0].Tag())
	require.Equal(t, "100", fields[1].Tag())
}

func TestRecord_IndexStableAcrossRebuilds(t *testing.T) {
	rec := fixtureRecord(t)
	first := rec.FieldsByTag("650")
	for i := 0; i < 5; i++ {
		_ = rec.Fields()
		require.Equal(t, first, rec.FieldsByTag("650"))
	}

	require.NoError(t, rec.Append(mustData(t, "650", [2]string{"a", "third subject"})))
	subjects := rec.FieldsByTag("650")
	require.Len(t, subjects, 3)
	require.Equal(t, first, subjects[:2])
}

func TestRecord_LiveFieldsInvalidateIndex(t *testing.T) {
	rec := fixtureRecord(t)
	require.Len(t, rec.FieldsByTag("245"), 1)

	fields := rec.Fields()
	fields[0] = mustData(t, "245", [2]string{"a", "Replaced"})

	require.Len(t, rec.FieldsByTag("245"), 2)
	require.Nil(t, rec.FieldsByTag("001"))
}

func TestRecord_GetAndTags(t *testing.T) {
	rec := fixtureRecord(t)
	require.Equal(t, "abc123", rec.Get("001").(*ControlField).Value)
	v, _ := rec.Get("650").(*DataField).Get('a')
	require.Equal(t, "first subject", v)
	require.Nil(t, rec.Get("999"))
	require.Equal(t, []string{"001", "650", "245", "100", "651"}, rec.Tags())
}

func TestRecord_Remove(t *testing.T) {
	rec := fixtureRecord(t)

	title := rec.Get("245")
	n, err := rec.Remove(title)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Nil(t, rec.Get("245"))

	n, err = rec.RemoveTag("650")
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Nil(t, rec.FieldsByTag("650"))

	f, err := rec.RemoveAt(0)
	require.NoError(t, err)
	require.Equal(t, "001", f.Tag())
	require.Equal(t, []string{"100", "651"}, rec.Tags())

	_, err = rec.RemoveAt(10)
	require.Error(t, err)
}

func TestRecord_Freeze(t *testing.T) {
	rec := fixtureRecord(t).Freeze()
	require.True(t, rec.Frozen())

	require.Equal(t, ErrFrozen, rec.Append(mustControl(t, "003", "x")))
	_, err := rec.RemoveTag("650")
	require.Equal(t, ErrFrozen, err)
	_, err = rec.RemoveAt(0)
	require.Equal(t, ErrFrozen, err)
	_, err = rec.Remove(rec.Get("001"))
	require.Equal(t, ErrFrozen, err)
	require.Equal(t, ErrFrozen, rec.SetLeader(DefaultLeader()))

	fields := rec.Fields()
	fields[0] = nil
	require.NotNil(t, rec.Get("001"))
	require.Equal(t, 6, rec.Len())
}

func TestRecord_FrozenConcurrentReads(t *testing.T) {
	rec := fixtureRecord(t).Freeze()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if len(rec.FieldsByTag("650")) != 2 {
					t.Error("unexpected subject count")
					return
				}
				_ = rec.FieldsInRange("600", "699")
				_ = rec.Tags()
			}
		}()
	}
	wg.Wait()
}

func TestRecord_Equals(t *testing.T) {
	a := fixtureRecord(t)
	b := fixtureRecord(t)
	require.True(t, a.Equals(b))

	require.NoError(t, b.Append(mustControl(t, "005", "20200101")))
	require.False(t, a.Equals(b))
	require.False(t, a.Equals(nil))
}

func TestLeader(t *testing.T) {
	_, err := ParseLeader("short")
	require.Error(t, err)

	l, err := ParseLeader("00714cam a2200205 a 4500")
	require.NoError(t, err)
	length, ok := l.RecordLength()
	require.True(t, ok)
	require.Equal(t, 714, length)
	base, ok := l.BaseAddress()
	require.True(t, ok)
	require.Equal(t, 205, base)
	require.Equal(t, byte('a'), l.CharacterCoding())

	l = l.WithLengths([]byte("00000"), []byte("00099"))
	_, ok = l.RecordLength()
	require.False(t, ok)
	base, _ = l.BaseAddress()
	require.Equal(t, 99, base)
	require.Equal(t, byte(' '), l.WithCharacterCoding(' ').CharacterCoding())
}
