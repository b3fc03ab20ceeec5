package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"shelf/cli"
	"shelf/store"
)

var importCmd = &cobra.Command{
	Use:   "import <file...>",
	Short: "Imports ISO 2709 records into the catalog.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cli.GetFormat(cmd)
		if err != nil {
			return err
		}
		dec, err := newDecoder(cmd, nil)
		if err != nil {
			return err
		}
		db, err := cli.OpenStore(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"File", "Read", "Imported", "Duplicates", "Failed"})
		enc := json.NewEncoder(os.Stdout)

		for _, path := range args {
			in, err := openInput(path)
			if err != nil {
				return err
			}
			stats, err := store.Import(context.Background(), db, in, dec, store.ImportOptions{
				Workers:   cfg.Import.Workers,
				QueueSize: cfg.Import.QueueSize,
				Encode:    cfg.Encode.EncodeOptions(),
				OnError: func(idx int, err error) {
					fmt.Fprintf(os.Stderr, "%s: record %d: %v\n", path, idx, err)
				},
			})
			in.Close()
			if err != nil {
				return errors.Wrapf(err, "error importing %s after %d records", path, stats.Read)
			}

			if format == cli.FormatJSON {
				if err := enc.Encode(struct {
					File string `json:"file"`
					*store.ImportStats
				}{path, stats}); err != nil {
					return err
				}
				continue
			}
			table.Append([]string{
				path,
				strconv.Itoa(stats.Read),
				strconv.Itoa(stats.Imported),
				strconv.Itoa(stats.Duplicates),
				strconv.Itoa(stats.Failed),
			})
		}
		if format != cli.FormatJSON {
			table.Render()
		}
		return nil
	},
}

func init() {
	cli.AddDecodeFlags(importCmd)
	rootCmd.AddCommand(importCmd)
}
