package store

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"shelf/log"
)

type TxCb func(tx *leveldb.Transaction) error

var logger = log.WithModule("store")

func Open(path string) (*leveldb.DB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "error opening database")
	}
	return db, nil
}

// WithTx runs cb in a transaction that is committed only if cb returns nil.
func WithTx(db *leveldb.DB, cb TxCb) (err error) {
	tx, err := db.OpenTransaction()
	if err != nil {
		return errors.Wrap(err, "error opening transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Discard()
			panic(p)
		} else if err != nil {
			tx.Discard()
		} else {
			err = errors.Wrap(tx.Commit(), "error committing transaction")
		}
	}()

	return cb(tx)
}

// Prefixer builds slash separated keys under prefix.
func Prefixer(prefix string) func(k ...string) []byte {
	return func(parts ...string) []byte {
		k := strings.Join(append([]string{prefix}, parts...), "/")
		return []byte(k)
	}
}

func mustEncodeInt(in int) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(in))
	return buf
}

func mustDecodeInt(in []byte) int {
	if len(in) == 0 {
		return 0
	}
	out := binary.BigEndian.Uint64(in)
	if out > math.MaxInt32 {
		panic("overflow")
	}
	return int(out)
}

func mustMarshalJSON(in interface{}) []byte {
	out, err := json.Marshal(in)
	if err != nil {
		panic(err)
	}
	return out
}

func mustUnmarshalJSON(data []byte, in interface{}) {
	if err := json.Unmarshal(data, in); err != nil {
		panic(err)
	}
}
