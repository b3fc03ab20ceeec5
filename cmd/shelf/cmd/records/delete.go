package records

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/syndtr/goleveldb/leveldb"
	"shelf/cli"
	"shelf/store"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id...>",
	Short: "Removes records from the catalog.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := cli.OpenStore(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		err = store.WithTx(db, func(tx *leveldb.Transaction) error {
			for _, id := range args {
				if err := store.DeleteRecordTx(tx, id); err != nil {
					return errors.Wrapf(err, "error deleting %s", id)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d records.\n", len(args))
		return nil
	},
}

func init() {
	cmd.AddCommand(deleteCmd)
}
