package records

import (
	"fmt"

	"github.com/spf13/cobra"
	"shelf/cli"
	"shelf/store"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Prints the number of cataloged records.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := cli.OpenStore(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		count, err := store.GetRecordCount(db)
		if err != nil {
			return err
		}
		fmt.Println(count)
		return nil
	},
}

func init() {
	cmd.AddCommand(countCmd)
}
