package store

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"golang.org/x/sync/errgroup"
	"shelf/iso2709"
	"shelf/marc"
)

const (
	DefaultImportWorkers   = 4
	DefaultImportQueueSize = 256
	DefaultImportBatchSize = 128
)

type ImportOptions struct {
	Workers   int
	QueueSize int
	BatchSize int
	Encode    iso2709.EncodeOptions
	Now       func() time.Time
	// OnError receives records that could not be decoded or encoded. It is
	// called from the writer goroutine in stream order.
	OnError func(idx int, err error)
}

type ImportStats struct {
	Read       int `json:"read"`
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
}

type importJob struct {
	idx int
	raw []byte
}

type importResult struct {
	idx int
	rec *marc.Record
	err error
}

// Import reads raw records from r, decodes them on a pool of workers and
// writes them to the store in stream order, one transaction per batch.
// Undecodable records are counted and skipped. A framing error stops the
// import; batches committed before it are kept.
func Import(ctx context.Context, db *leveldb.DB, r io.Reader, dec *iso2709.Decoder, opts ImportOptions) (*ImportStats, error) {
	if opts.Workers <= 0 {
		opts.Workers = DefaultImportWorkers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultImportQueueSize
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultImportBatchSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan importJob, opts.QueueSize)
	results := make(chan importResult, opts.QueueSize)
	stats := new(ImportStats)

	g.Go(func() error {
		defer close(jobs)
		rd := iso2709.NewReaderWithDecoder(r, dec)
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, err := rd.ReadRaw()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			select {
			case jobs <- importJob{idx: rd.Count() - 1, raw: raw}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	var workers sync.WaitGroup
	workers.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		g.Go(func() error {
			defer workers.Done()
			for job := range jobs {
				res := importResult{idx: job.idx}
				res.rec, res.err = dec.Decode(job.raw)
				if res.err == nil && opts.Encode.DisallowOversized {
					_, _, res.err = iso2709.Encode(res.rec, opts.Encode)
				}
				select {
				case results <- res:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		workers.Wait()
		close(results)
	}()

	g.Go(func() error {
		w := &importWriter{
			db:    db,
			opts:  opts,
			stats: stats,
		}
		pending := make(map[int]importResult)
		next := 0
		for res := range results {
			pending[res.idx] = res
			for {
				res, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++
				if err := w.add(res); err != nil {
					return err
				}
			}
		}
		return w.flush()
	})

	err := g.Wait()
	return stats, err
}

type importWriter struct {
	db    *leveldb.DB
	opts  ImportOptions
	stats *ImportStats
	batch []*marc.Record
}

func (w *importWriter) add(res importResult) error {
	w.stats.Read++
	if res.err != nil {
		w.stats.Failed++
		logger.Debug("skipping record", "index", res.idx, "err", res.err)
		if w.opts.OnError != nil {
			w.opts.OnError(res.idx, res.err)
		}
		return nil
	}
	w.batch = append(w.batch, res.rec)
	if len(w.batch) >= w.opts.BatchSize {
		return w.flush()
	}
	return nil
}

func (w *importWriter) flush() error {
	if len(w.batch) == 0 {
		return nil
	}
	var imported, dups int
	now := w.opts.Now()
	err := WithTx(w.db, func(tx *leveldb.Transaction) error {
		for _, rec := range w.batch {
			_, dup, err := PutRecordTx(tx, rec, w.opts.Encode, now)
			if err != nil {
				return err
			}
			if dup {
				dups++
			} else {
				imported++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	w.stats.Imported += imported
	w.stats.Duplicates += dups
	logger.Debug("committed import batch", "records", len(w.batch), "imported", imported, "duplicates", dups)
	w.batch = w.batch[:0]
	return nil
}
