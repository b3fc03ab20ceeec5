package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"shelf/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints shelf's version.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("shelf %s\n", version.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
