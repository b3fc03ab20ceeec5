package records

import (
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"shelf/cli"
	"shelf/store"
)

var listCmd = &cobra.Command{
	Use:   "list <start?> <limit?>",
	Short: "Lists cataloged records in ID order.",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var start string
		if len(args) >= 1 {
			start = args[0]
		}
		lim := math.MaxInt64
		if len(args) == 2 {
			limit, err := strconv.ParseInt(args[1], 10, 32)
			if err != nil {
				return err
			}
			lim = int(limit)
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

		stream, err := store.StreamRecordInfo(db, start)
		if err != nil {
			return err
		}
		defer stream.Close()

		printer := cli.NewPrinter(os.Stdout, format)
		defer printer.Flush()
		for count := 0; count < lim; count++ {
			info, err := stream.Next()
			if err != nil {
				return err
			}
			if info == nil {
				break
			}
			if err := printer.PrintInfo(info); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	cmd.AddCommand(listCmd)
}
