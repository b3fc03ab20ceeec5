package marc

import (
	"sort"
	"strconv"
)

// ControlTags decides which tags denote control fields. Tags whose numeric
// value is 0-9 always qualify; vendor tags such as "FMT" can be added with
// NewControlTags. A ControlTags value is immutable once built, so it can be
// shared freely between goroutines.
type ControlTags struct {
	extra map[string]struct{}
}

// DefaultControlTags classifies exactly the tags 000-009 as control tags.
var DefaultControlTags = ControlTags{}

func NewControlTags(extra ...string) ControlTags {
	ct := ControlTags{
		extra: make(map[string]struct{}, len(extra)),
	}
	for _, tag := range extra {
		ct.extra[padTag(tag)] = struct{}{}
	}
	return ct
}

func (c ControlTags) IsControl(tag string) bool {
	tag = padTag(tag)
	if _, ok := c.extra[tag]; ok {
		return true
	}
	if !isDigits(tag) {
		return false
	}
	n, err := strconv.Atoi(tag)
	return err == nil && n < 10
}

// Extra lists the registered non-standard control tags, sorted.
func (c ControlTags) Extra() []string {
	out := make([]string, 0, len(c.extra))
	for tag := range c.extra {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func (c ControlTags) NewControlField(tag, value string) (*ControlField, error) {
	tag, err := normalizeTag(tag)
	if err != nil {
		return nil, err
	}
	if !c.IsControl(tag) {
		return nil, shapeErrorf(tag, "not a control tag")
	}
	return &ControlField{
		tag:   tag,
		Value: value,
	}, nil
}

// NewDataField builds a data field. Each subfield argument may be a
// Subfield, a *Subfield, a [2]string or a two element []string holding the
// code and the value. At least one subfield is required.
func (c ControlTags) NewDataField(tag string, ind1, ind2 byte, subfields ...interface{}) (*DataField, error) {
	tag, err := normalizeTag(tag)
	if err != nil {
		return nil, err
	}
	if c.IsControl(tag) {
		return nil, shapeErrorf(tag, "control tag cannot hold a data field")
	}

	df := &DataField{
		tag:        tag,
		Indicator1: normalizeIndicator(ind1),
		Indicator2: normalizeIndicator(ind2),
		Subfields:  make([]Subfield, 0, len(subfields)),
	}
	for i, item := range subfields {
		sf, err := toSubfield(item)
		if err != nil {
			return nil, shapeErrorf(tag, "subfield %d: %v", i, err)
		}
		df.Subfields = append(df.Subfields, sf)
	}
	if len(df.Subfields) == 0 {
		return nil, shapeErrorf(tag, "data field needs at least one subfield")
	}
	return df, nil
}

func NewControlField(tag, value string) (*ControlField, error) {
	return DefaultControlTags.NewControlField(tag, value)
}

func NewDataField(tag string, ind1, ind2 byte, subfields ...interface{}) (*DataField, error) {
	return DefaultControlTags.NewDataField(tag, ind1, ind2, subfields...)
}

func normalizeTag(tag string) (string, error) {
	if tag == "" {
		return "", shapeErrorf(tag, "empty tag")
	}
	if len(tag) > 3 {
		return "", shapeErrorf(tag, "tag longer than 3 bytes")
	}
	tag = padTag(tag)
	if len(tag) != 3 {
		return "", shapeErrorf(tag, "tag shorter than 3 bytes")
	}
	return tag, nil
}

// padTag zero-pads short all-digit tags. Anything else is returned as is.
func padTag(tag string) string {
	if len(tag) >= 3 || !isDigits(tag) {
		return tag
	}
	return "000"[:3-len(tag)] + tag
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func normalizeIndicator(b byte) byte {
	if b == 0 {
		return ' '
	}
	return b
}
