package unsafe

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"shelf/cli"
	"shelf/store"
)

var resetRecordStore = &cobra.Command{
	Use:   "reset-record-store",
	Short: "Wipes every cataloged record directly on disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := cli.OpenStore(cmd)
		if err != nil {
			return err
		}
		if err := store.TruncateRecordStore(db); err != nil {
			return errors.Wrap(err, "error truncating record store")
		}
		if err := db.Close(); err != nil {
			return errors.Wrap(err, "error closing DB")
		}
		fmt.Println("Record store wiped.")
		return nil
	},
}

func init() {
	cmd.AddCommand(resetRecordStore)
}
