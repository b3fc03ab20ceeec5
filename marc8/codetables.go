package marc8

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type xmlCodeTables struct {
	Tables []xmlCodeTable `xml:"codeTable"`
}

type xmlCodeTable struct {
	Name  string    `xml:"name,attr"`
	Marc  string    `xml:"marc,attr"`
	Codes []xmlCode `xml:"code"`
}

type xmlCode struct {
	Marc        string `xml:"marc"`
	UCS         string `xml:"ucs"`
	Alt         string `xml:"alt"`
	IsCombining bool   `xml:"isCombining"`
}

// LoadCodeTables parses the Library of Congress codetables.xml document
// into a Table. Code points without a UCS value fall back to the alternate
// mapping and are skipped when neither is present.
func LoadCodeTables(r io.Reader) (*Table, error) {
	var doc xmlCodeTables
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "error parsing code tables")
	}

	t := NewTable()
	for _, ct := range doc.Tables {
		marc := strings.TrimSpace(ct.Marc)
		if marc == "" {
			return nil, errors.Errorf("code table %q has no marc designation", ct.Name)
		}
		set := marc[len(marc)-1]
		for _, c := range ct.Codes {
			code, err := strconv.ParseUint(strings.TrimSpace(c.Marc), 16, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid marc code %q in table %q", c.Marc, ct.Name)
			}
			ucs := strings.TrimSpace(c.UCS)
			if ucs == "" {
				ucs = strings.TrimSpace(c.Alt)
			}
			if ucs == "" {
				continue
			}
			r, err := strconv.ParseUint(ucs, 16, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid ucs value %q in table %q", ucs, ct.Name)
			}
			t.Set(set, uint32(code), Mapping{
				Rune:      rune(r),
				Combining: c.IsCombining,
			})
		}
	}
	return t, nil
}
