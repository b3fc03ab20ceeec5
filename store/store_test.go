package store

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
)

func TestPrefixer(t *testing.T) {
	base := Prefixer("records")

	tests := []struct {
		in  []byte
		out string
	}{
		{
			base("data", "ocm1"),
			"records/data/ocm1",
		},
		{
			base(),
			"records",
		},
		{
			base(""),
			"records/",
		},
	}
	for _, tt := range tests {
		require.Equal(t, tt.out, string(tt.in))
	}
}

func TestWithTx(t *testing.T) {
	db, done := setupLevelDB(t)
	defer done()

	require.NoError(t, WithTx(db, func(tx *leveldb.Transaction) error {
		return tx.Put([]byte("kept"), []byte("1"), nil)
	}))

	err := WithTx(db, func(tx *leveldb.Transaction) error {
		require.NoError(t, tx.Put([]byte("dropped"), []byte("1"), nil))
		return errors.New("abort")
	})
	require.Error(t, err)

	has, err := db.Has([]byte("kept"), nil)
	require.NoError(t, err)
	require.True(t, has)
	has, err = db.Has([]byte("dropped"), nil)
	require.NoError(t, err)
	require.False(t, has)

	require.Panics(t, func() {
		_ = WithTx(db, func(tx *leveldb.Transaction) error {
			panic("boom")
		})
	})
	// the discarded transaction released the write lock
	require.NoError(t, WithTx(db, func(tx *leveldb.Transaction) error {
		return nil
	}))
}
