package records

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/syndtr/goleveldb/leveldb"
	"shelf/cli"
	"shelf/iso2709"
	"shelf/store"
)

const (
	RawFlag = "raw"
)

var (
	raw bool
)

var getCmd = &cobra.Command{
	Use:   "get <id...>",
	Short: "Prints cataloged records.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig(cmd)
		if err != nil {
			return err
		}
		format, err := cli.GetFormat(cmd)
		if err != nil {
			return err
		}
		db, err := cli.OpenStore(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		if raw {
			for _, id := range args {
				data, err := getRaw(db, id)
				if err != nil {
					return err
				}
				if _, err := os.Stdout.Write(data); err != nil {
					return err
				}
			}
			return nil
		}

		opts, err := cli.DecodeOptions(cmd, cfg)
		if err != nil {
			return err
		}
		dec, err := iso2709.NewDecoder(opts)
		if err != nil {
			return err
		}
		printer := cli.NewPrinter(os.Stdout, format)
		for _, id := range args {
			rec, err := store.GetRecord(db, id, dec)
			if errors.Is(err, leveldb.ErrNotFound) {
				return errors.Errorf("record %s not found", id)
			}
			if err != nil {
				return err
			}
			if err := printer.PrintRecord(rec); err != nil {
				return err
			}
		}
		return nil
	},
}

func getRaw(db *leveldb.DB, id string) ([]byte, error) {
	data, err := store.GetRecordRaw(db, id)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, errors.Errorf("record %s not found", id)
	}
	return data, err
}

func init() {
	getCmd.Flags().BoolVar(&raw, RawFlag, false, "Write the stored ISO 2709 bytes instead of decoding them")
	cli.AddDecodeFlags(getCmd)
	cmd.AddCommand(getCmd)
}
