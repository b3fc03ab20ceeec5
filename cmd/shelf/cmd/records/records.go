package records

import (
	"github.com/spf13/cobra"
)

var cmd = &cobra.Command{
	Use:   "records",
	Short: "Commands for reading and managing cataloged records.",
}

func AddCmd(parent *cobra.Command) {
	parent.AddCommand(cmd)
}
