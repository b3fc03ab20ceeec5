package cmd

import (
	"io"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"shelf/cli"
	"shelf/iso2709"
	"shelf/log"
	"shelf/marc"
)

var logger = log.WithModule("cli")

// openInput opens path for reading. "-" and the empty string read stdin.
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return ioutil.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening input")
	}
	return f, nil
}

// decodeOptions merges the config with the decode flags. Warnings are
// already logged by the decoder; onWarning may be nil.
func decodeOptions(cmd *cobra.Command, onWarning func(iso2709.Warning)) (iso2709.DecodeOptions, error) {
	opts, err := cli.DecodeOptions(cmd, cfg)
	if err != nil {
		return opts, err
	}
	opts.OnWarning = onWarning
	return opts, nil
}

func newDecoder(cmd *cobra.Command, onWarning func(iso2709.Warning)) (*iso2709.Decoder, error) {
	opts, err := decodeOptions(cmd, onWarning)
	if err != nil {
		return nil, err
	}
	return iso2709.NewDecoder(opts)
}

// eachRecord decodes every record in r. Records that fail to decode are
// reported to onErr and skipped; framing errors end the walk.
func eachRecord(r io.Reader, dec *iso2709.Decoder, onRecord func(rec *marc.Record) error, onErr func(idx int, err error)) error {
	rd := iso2709.NewReaderWithDecoder(r, dec)
	for {
		raw, err := rd.ReadRaw()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		rec, err := dec.Decode(raw)
		if err != nil {
			onErr(rd.Count()-1, err)
			continue
		}
		if err := onRecord(rec); err != nil {
			return err
		}
	}
}
