package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"shelf/marc"
	"shelf/store"
)

type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

func ParseFormat(s string, tty bool) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "":
		if tty {
			return FormatText, nil
		}
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	case FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", errors.Errorf("unknown output format %q", s)
	}
}

// GetFormat returns the output format flag. With no flag, terminals get
// text and pipes get JSON lines.
func GetFormat(cmd *cobra.Command) (Format, error) {
	s, err := cmd.Flags().GetString(FlagFormat)
	if err != nil {
		return "", err
	}
	return ParseFormat(s, isatty.IsTerminal(os.Stdout.Fd()))
}

// Printer writes records and record info in one output format. Tabular
// rows are buffered until Flush.
type Printer struct {
	w      io.Writer
	format Format
	enc    *json.Encoder
	table  *tablewriter.Table
}

func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{
		w:      w,
		format: format,
		enc:    json.NewEncoder(w),
	}
}

func (p *Printer) PrintRecord(rec *marc.Record) error {
	switch p.format {
	case FormatJSON:
		return p.enc.Encode(rec)
	case FormatTable:
		table := tablewriter.NewWriter(p.w)
		table.SetHeader([]string{"Tag", "Ind", "Data"})
		table.SetAutoWrapText(false)
		table.Append([]string{"LDR", "", rec.Leader().String()})
		for _, f := range rec.Fields() {
			table.Append(fieldRow(f))
		}
		table.Render()
		return nil
	default:
		_, err := fmt.Fprintf(p.w, "%s\n\n", rec)
		return err
	}
}

func fieldRow(f marc.Field) []string {
	switch fld := f.(type) {
	case *marc.ControlField:
		return []string{fld.Tag(), "", fld.Value}
	case *marc.DataField:
		var sb strings.Builder
		for _, sf := range fld.Subfields {
			sb.WriteString(sf.String())
		}
		return []string{fld.Tag(), string([]byte{fld.Indicator1, fld.Indicator2}), sb.String()}
	default:
		return []string{f.Tag(), "", f.String()}
	}
}

func (p *Printer) PrintInfo(info *store.RecordInfo) error {
	if p.format == FormatJSON {
		return p.enc.Encode(info)
	}
	if p.table == nil {
		p.table = tablewriter.NewWriter(p.w)
		p.table.SetHeader([]string{"ID", "Title", "Fields", "Size", "Imported"})
	}
	p.table.Append([]string{
		info.ID,
		info.Title,
		strconv.Itoa(info.Fields),
		strconv.Itoa(info.Size),
		info.ImportedAt.Format("2006-01-02 15:04:05"),
	})
	return nil
}

func (p *Printer) Flush() {
	if p.table != nil {
		p.table.Render()
		p.table = nil
	}
}
