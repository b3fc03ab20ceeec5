package iso2709

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"
	"shelf/marc"
)

// Reader pulls records one at a time from a stream. It is not safe for
// concurrent use.
type Reader struct {
	src       io.Reader
	r         *bufio.Reader
	dec       *Decoder
	forgiving bool
	origin    int64
	offset    int64
	count     int
	err       error
}

func NewReader(r io.Reader, opts DecodeOptions) (*Reader, error) {
	dec, err := NewDecoder(opts)
	if err != nil {
		return nil, err
	}
	return NewReaderWithDecoder(r, dec), nil
}

func NewReaderWithDecoder(r io.Reader, dec *Decoder) *Reader {
	rd := &Reader{
		src:       r,
		r:         bufio.NewReader(r),
		dec:       dec,
		forgiving: dec.opts.Forgiving,
	}
	if seeker, ok := r.(io.Seeker); ok {
		if pos, err := seeker.Seek(0, io.SeekCurrent); err == nil {
			rd.origin = pos
		}
	}
	return rd
}

// Next decodes the next record. It returns io.EOF once the stream is
// exhausted. A *DecodeError for a single malformed record leaves the Reader
// usable; framing errors in strict mode are returned on every later call.
func (r *Reader) Next() (*marc.Record, error) {
	raw, err := r.ReadRaw()
	if err != nil {
		return nil, err
	}
	rec, err := r.dec.Decode(raw)
	if err != nil {
		logger.Debug("skipping malformed record", "index", r.count-1, "err", err)
		return nil, err
	}
	return rec, nil
}

// ReadRaw returns the bytes of the next record without decoding them.
func (r *Reader) ReadRaw() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	var raw []byte
	var err error
	if r.forgiving {
		raw, err = r.readTerminated()
	} else {
		raw, err = r.readLengthPrefixed()
	}
	if err != nil {
		return nil, err
	}
	r.offset += int64(len(raw))
	r.count++
	return raw, nil
}

func (r *Reader) readLengthPrefixed() ([]byte, error) {
	prefix := make([]byte, recordLengthDigits)
	n, err := io.ReadFull(r.r, prefix)
	if err == io.EOF {
		return nil, io.EOF
	}
	if err == io.ErrUnexpectedEOF {
		return nil, r.fail(decodeErrorf(int(r.offset), "truncated length prefix %q", prefix[:n]))
	}
	if err != nil {
		return nil, r.fail(errors.Wrap(err, "error reading length prefix"))
	}

	length, ok := parseDigits(prefix)
	if !ok || length == 0 {
		return nil, r.fail(decodeErrorf(int(r.offset), "invalid record length %q", prefix))
	}
	if length < marc.LeaderLen {
		return nil, r.fail(decodeErrorf(int(r.offset), "record length %d is shorter than the leader", length))
	}

	raw := make([]byte, length)
	copy(raw, prefix)
	if _, err := io.ReadFull(r.r, raw[recordLengthDigits:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, r.fail(decodeErrorf(int(r.offset), "record truncated, expected %d bytes", length))
		}
		return nil, r.fail(errors.Wrap(err, "error reading record"))
	}
	return raw, nil
}

func (r *Reader) readTerminated() ([]byte, error) {
	raw, err := r.r.ReadBytes(RecordTerminator)
	if err != nil && err != io.EOF {
		return nil, r.fail(errors.Wrap(err, "error reading record"))
	}
	if err == io.EOF && len(bytes.TrimSpace(raw)) == 0 {
		return nil, io.EOF
	}
	// records are sometimes separated by line breaks, and the last one may
	// lack its terminator
	trimmed := bytes.TrimLeft(raw, "\r\n")
	r.offset += int64(len(raw) - len(trimmed))
	return trimmed, nil
}

func (r *Reader) fail(err error) error {
	r.err = err
	return err
}

// Rewind restarts the stream at the position it had when the Reader was
// built.
func (r *Reader) Rewind() error {
	seeker, ok := r.src.(io.Seeker)
	if !ok {
		return ErrNotSeekable
	}
	if _, err := seeker.Seek(r.origin, io.SeekStart); err != nil {
		return errors.Wrap(err, "error seeking to start")
	}
	r.r.Reset(r.src)
	r.offset = 0
	r.count = 0
	r.err = nil
	return nil
}

// Count returns the number of records framed so far.
func (r *Reader) Count() int {
	return r.count
}

// Offset returns the stream offset of the next record relative to where
// the Reader started.
func (r *Reader) Offset() int64 {
	return r.offset
}
