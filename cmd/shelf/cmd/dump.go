package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"shelf/cli"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file...>",
	Short: "Decodes ISO 2709 files and prints their records.",
	Long:  "Decodes ISO 2709 files and prints their records. With no file, or when the file is -, reads stdin.",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cli.GetFormat(cmd)
		if err != nil {
			return err
		}
		dec, err := newDecoder(cmd, nil)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			args = []string{"-"}
		}

		printer := cli.NewPrinter(os.Stdout, format)
		var failed int
		for _, path := range args {
			in, err := openInput(path)
			if err != nil {
				return err
			}
			err = eachRecord(in, dec, printer.PrintRecord, func(idx int, err error) {
				failed++
				fmt.Fprintf(os.Stderr, "%s: record %d: %v\n", path, idx, err)
			})
			in.Close()
			if err != nil {
				return errors.Wrapf(err, "error reading %s", path)
			}
		}
		if failed > 0 {
			return errors.Errorf("%d records could not be decoded", failed)
		}
		return nil
	},
}

func init() {
	cli.AddDecodeFlags(dumpCmd)
	rootCmd.AddCommand(dumpCmd)
}
