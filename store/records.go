package store

import (
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"
	"golang.org/x/crypto/blake2b"
	"shelf/iso2709"
	"shelf/marc"
)

type RecordInfo struct {
	ID         string    `json:"id"`
	Digest     string    `json:"digest"`
	Title      string    `json:"title"`
	Fields     int       `json:"fields"`
	Size       int       `json:"size"`
	ImportedAt time.Time `json:"imported_at"`
}

var (
	recordsPrefix      = Prefixer("records")
	recordCountKey     = Prefixer(string(recordsPrefix("count")))()
	recordDataPrefix   = Prefixer(string(recordsPrefix("data")))
	recordInfoPrefix   = Prefixer(string(recordsPrefix("info")))
	recordDigestPrefix = Prefixer(string(recordsPrefix("digest")))
)

// Digest returns the hex BLAKE2b-256 hash of an encoded record.
func Digest(raw []byte) string {
	h := blake2b.Sum256(raw)
	return hex.EncodeToString(h[:])
}

// RecordID derives the catalog key of a record: its control number when it
// has one, otherwise the digest of its encoding.
func RecordID(rec *marc.Record, raw []byte) string {
	if f, ok := rec.Get("001").(*marc.ControlField); ok {
		if id := strings.TrimSpace(f.Value); id != "" {
			return id
		}
	}
	return Digest(raw)
}

func recordTitle(rec *marc.Record) string {
	f, ok := rec.Get("245").(*marc.DataField)
	if !ok {
		return ""
	}
	title, _ := f.Get('a')
	return strings.TrimRight(strings.TrimSpace(title), " /:;,.")
}

func GetRecordCount(db *leveldb.DB) (int, error) {
	res, err := db.Get(recordCountKey, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "error getting record count")
	}
	return mustDecodeInt(res), nil
}

var rCountMu sync.Mutex

func addRecordCount(tx *leveldb.Transaction, delta int) error {
	rCountMu.Lock()
	defer rCountMu.Unlock()
	count, err := tx.Get(recordCountKey, nil)
	if err != nil && !errors.Is(err, leveldb.ErrNotFound) {
		return errors.Wrap(err, "error getting record count")
	}
	if err := tx.Put(recordCountKey, mustEncodeInt(mustDecodeInt(count)+delta), nil); err != nil {
		return errors.Wrap(err, "error putting record count")
	}
	return nil
}

// PutRecordTx encodes rec and stores it under its RecordID. A record whose
// encoding is already stored is not written again; the existing info is
// returned with dup set. A different record with the same ID replaces the
// stored one.
func PutRecordTx(tx *leveldb.Transaction, rec *marc.Record, opts iso2709.EncodeOptions, now time.Time) (info *RecordInfo, dup bool, err error) {
	raw, _, err := iso2709.Encode(rec, opts)
	if err != nil {
		return nil, false, errors.Wrap(err, "error encoding record")
	}
	digest := Digest(raw)

	existingID, err := tx.Get(recordDigestPrefix(digest), nil)
	if err == nil {
		infoB, err := tx.Get(recordInfoPrefix(string(existingID)), nil)
		if err != nil {
			return nil, false, errors.Wrap(err, "error getting record info")
		}
		existing := new(RecordInfo)
		mustUnmarshalJSON(infoB, existing)
		return existing, true, nil
	}
	if !errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, errors.Wrap(err, "error checking record digest")
	}

	id := RecordID(rec, raw)
	prevB, err := tx.Get(recordInfoPrefix(id), nil)
	switch {
	case err == nil:
		prev := new(RecordInfo)
		mustUnmarshalJSON(prevB, prev)
		if err := tx.Delete(recordDigestPrefix(prev.Digest), nil); err != nil {
			return nil, false, errors.Wrap(err, "error deleting replaced digest")
		}
		logger.Debug("replacing record", "id", id, "old_digest", prev.Digest, "digest", digest)
	case errors.Is(err, leveldb.ErrNotFound):
		if err := addRecordCount(tx, 1); err != nil {
			return nil, false, err
		}
	default:
		return nil, false, errors.Wrap(err, "error checking record existence")
	}

	info = &RecordInfo{
		ID:         id,
		Digest:     digest,
		Title:      recordTitle(rec),
		Fields:     rec.Len(),
		Size:       len(raw),
		ImportedAt: now.UTC(),
	}
	if err := tx.Put(recordDataPrefix(id), raw, nil); err != nil {
		return nil, false, errors.Wrap(err, "error writing record data")
	}
	if err := tx.Put(recordInfoPrefix(id), mustMarshalJSON(info), nil); err != nil {
		return nil, false, errors.Wrap(err, "error writing record info")
	}
	if err := tx.Put(recordDigestPrefix(digest), []byte(id), nil); err != nil {
		return nil, false, errors.Wrap(err, "error writing record digest")
	}
	return info, false, nil
}

func GetRecordRaw(db *leveldb.DB, id string) ([]byte, error) {
	raw, err := db.Get(recordDataPrefix(id), nil)
	if err != nil {
		return nil, errors.Wrap(err, "error getting record data")
	}
	return raw, nil
}

// GetRecord decodes the stored record with dec.
func GetRecord(db *leveldb.DB, id string, dec *iso2709.Decoder) (*marc.Record, error) {
	raw, err := GetRecordRaw(db, id)
	if err != nil {
		return nil, err
	}
	rec, err := dec.Decode(raw)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding stored record")
	}
	return rec, nil
}

func GetRecordInfo(db *leveldb.DB, id string) (*RecordInfo, error) {
	infoB, err := db.Get(recordInfoPrefix(id), nil)
	if err != nil {
		return nil, errors.Wrap(err, "error getting record info")
	}
	info := new(RecordInfo)
	mustUnmarshalJSON(infoB, info)
	return info, nil
}

// LookupDigest returns the ID of the record stored with the given digest.
func LookupDigest(db *leveldb.DB, digest string) (string, bool, error) {
	id, err := db.Get(recordDigestPrefix(digest), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "error looking up digest")
	}
	return string(id), true, nil
}

func DeleteRecordTx(tx *leveldb.Transaction, id string) error {
	infoB, err := tx.Get(recordInfoPrefix(id), nil)
	if err != nil {
		return errors.Wrap(err, "error getting record info")
	}
	info := new(RecordInfo)
	mustUnmarshalJSON(infoB, info)

	for _, k := range [][]byte{recordDataPrefix(id), recordInfoPrefix(id), recordDigestPrefix(info.Digest)} {
		if err := tx.Delete(k, nil); err != nil {
			return errors.Wrap(err, "error deleting record")
		}
	}
	return addRecordCount(tx, -1)
}

type RecordInfoStream struct {
	iter iterator.Iterator
}

// Next returns nil once the stream is exhausted.
func (s *RecordInfoStream) Next() (*RecordInfo, error) {
	if !s.iter.Next() {
		return nil, nil
	}
	info := new(RecordInfo)
	mustUnmarshalJSON(s.iter.Value(), info)
	return info, nil
}

func (s *RecordInfoStream) Close() error {
	s.iter.Release()
	return s.iter.Error()
}

// StreamRecordInfo iterates records in ID order, starting after start when
// it is set.
func StreamRecordInfo(db *leveldb.DB, start string) (*RecordInfoStream, error) {
	if start == "" {
		return &RecordInfoStream{
			iter: db.NewIterator(util.BytesPrefix(recordInfoPrefix("")), nil),
		}, nil
	}

	iterRange := &util.Range{
		Start: append(recordInfoPrefix(start), 0x00),
		Limit: util.BytesPrefix(recordInfoPrefix("")).Limit,
	}
	return &RecordInfoStream{
		iter: db.NewIterator(iterRange, nil),
	}, nil
}

func TruncateRecordStore(db *leveldb.DB) error {
	err := WithTx(db, func(tx *leveldb.Transaction) error {
		iter := tx.NewIterator(util.BytesPrefix(recordsPrefix()), nil)
		defer iter.Release()
		for iter.Next() {
			if err := tx.Delete(iter.Key(), nil); err != nil {
				return errors.Wrap(err, "error deleting record store key")
			}
		}
		return iter.Error()
	})
	if err != nil {
		return errors.Wrap(err, "error truncating record store")
	}
	return nil
}
