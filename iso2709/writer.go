package iso2709

import (
	"io"

	"github.com/pkg/errors"
	"shelf/marc"
)

type Writer struct {
	w     io.Writer
	opts  EncodeOptions
	count int
}

func NewWriter(w io.Writer, opts EncodeOptions) *Writer {
	return &Writer{
		w:    w,
		opts: opts,
	}
}

// Write encodes rec and writes it in full. Nothing is written when encoding
// fails.
func (w *Writer) Write(rec *marc.Record) error {
	b, _, err := Encode(rec, w.opts)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return errors.Wrap(err, "error writing record")
	}
	w.count++
	return nil
}

func (w *Writer) Count() int {
	return w.count
}
