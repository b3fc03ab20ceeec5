package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"shelf/cli"
	"shelf/cmd/shelf/cmd/records"
	"shelf/cmd/shelf/cmd/unsafe"
	"shelf/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "shelf",
	Short:         "Reads, converts and catalogs MARC21 records.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.CalledAs() == "init" {
			return nil
		}
		var err error
		cfg, err = cli.LoadConfig(cmd)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().String(cli.FlagHome, config.DefaultHomePath, "Home directory for shelf's config and database.")
	rootCmd.PersistentFlags().String(cli.FlagFormat, "", "Output format: text, table or json. Defaults to text on a terminal and json otherwise.")
	records.AddCmd(rootCmd)
	unsafe.AddCmd(rootCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
