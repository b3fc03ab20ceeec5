package unsafe

import (
	"github.com/spf13/cobra"
)

var cmd = &cobra.Command{
	Use:   "unsafe",
	Short: "Commands that modify shelf's database directly. Use with caution.",
}

func AddCmd(parent *cobra.Command) {
	parent.AddCommand(cmd)
}
