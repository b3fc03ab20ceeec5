package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"shelf/charset"
	"shelf/cli"
	"shelf/iso2709"
	"shelf/marc"
)

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Re-encodes ISO 2709 records as UTF-8.",
	Long: `Decodes each record using the configured external encoding, transcodes
its text to UTF-8 and writes it back out with leader position 9 set to 'a'.
Either path may be - for stdin or stdout.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := decodeOptions(cmd, nil)
		if err != nil {
			return err
		}
		if opts.Charset.External != "" {
			opts.Charset.Internal = charset.UTF8
		}
		dec, err := iso2709.NewDecoder(opts)
		if err != nil {
			return err
		}

		in, err := openInput(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		var out io.Writer = os.Stdout
		if args[1] != "-" {
			f, err := os.OpenFile(args[1], os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
			if err != nil {
				return errors.Wrap(err, "error opening output")
			}
			defer f.Close()
			out = f
		}
		bw := bufio.NewWriter(out)
		w := iso2709.NewWriter(bw, cfg.Encode.EncodeOptions())

		var skipped int
		err = eachRecord(in, dec, func(rec *marc.Record) error {
			if err := rec.SetLeader(rec.Leader().WithCharacterCoding('a')); err != nil {
				return err
			}
			if err := w.Write(rec); err != nil {
				var oerr *iso2709.OversizedError
				if errors.As(err, &oerr) {
					skipped++
					logger.Warn("skipping oversized record", "err", err)
					return nil
				}
				return err
			}
			return nil
		}, func(idx int, err error) {
			skipped++
			logger.Warn("skipping undecodable record", "index", idx, "err", err)
		})
		if err != nil {
			return err
		}
		if err := bw.Flush(); err != nil {
			return errors.Wrap(err, "error flushing output")
		}

		fmt.Fprintf(os.Stderr, "Converted %d records, skipped %d.\n", w.Count(), skipped)
		return nil
	},
}

func init() {
	cli.AddDecodeFlags(convertCmd)
	rootCmd.AddCommand(convertCmd)
}
